// Package packet implements the typed packet model (spec component C4): a
// header + payload envelope plus packers/unpackers for every concrete
// payload type, modeled after aistreams' Packet/PacketAs/PacketTypeTraits
// (aistreams/base/packet.h, packet_as.h, types/packet_types/*.h in the
// original source), generalized per spec.md's design note to a tagged
// variant dispatched by type switch rather than C++ static polymorphism.
package packet

import (
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/status"
)

// RawImageFormat identifies the pixel layout of a RawImage.
type RawImageFormat int

const (
	RawImageFormatUnknown RawImageFormat = iota
	RawImageFormatSRGB
)

// Channels returns the number of channels for a format, or an Unimplemented
// status for any layout other than the packed single-plane ones this SDK
// supports (aistreams/base/util/raw_image_utils.cc only ever supported
// packed RGB; see spec.md Open Question 1 — kept unimplemented here too).
func (f RawImageFormat) Channels() (int, *status.Status) {
	switch f {
	case RawImageFormatSRGB:
		return 3, status.OK()
	case RawImageFormatUnknown:
		return 1, status.OK()
	default:
		return 0, status.New(codes.Unimplemented, "raw image format not supported")
	}
}

// RawImageDescriptor describes a RawImage's shape without its pixel data.
type RawImageDescriptor struct {
	Format RawImageFormat
	Height int
	Width  int
}

// BufferSize returns height*width*channels, or an error status if the
// dimensions are invalid or the format is unsupported.
func (d RawImageDescriptor) BufferSize() (int, *status.Status) {
	if d.Height < 0 || d.Width < 0 {
		return 0, status.New(codes.InvalidArgument, "raw image dimensions must be non-negative")
	}
	channels, st := d.Format.Channels()
	if !st.OK() {
		return 0, st
	}
	return d.Height * d.Width * channels, status.OK()
}

// RawImage is a tightly packed, single-plane pixel buffer plus the
// descriptor it was built from (aistreams/base/types/raw_image.h).
type RawImage struct {
	Descriptor RawImageDescriptor
	Data       []byte
}

// NewRawImage allocates a zeroed buffer sized for the given descriptor.
func NewRawImage(desc RawImageDescriptor) (RawImage, *status.Status) {
	size, st := desc.BufferSize()
	if !st.OK() {
		return RawImage{}, st
	}
	return RawImage{Descriptor: desc, Data: make([]byte, size)}, status.OK()
}

// Height returns the image height in pixels.
func (r RawImage) Height() int { return r.Descriptor.Height }

// Width returns the image width in pixels.
func (r RawImage) Width() int { return r.Descriptor.Width }

// Format returns the pixel format.
func (r RawImage) Format() RawImageFormat { return r.Descriptor.Format }

// Channels returns the number of channels, or an error for unsupported
// formats.
func (r RawImage) Channels() (int, *status.Status) { return r.Descriptor.Format.Channels() }

// Size returns the length of the backing buffer.
func (r RawImage) Size() int { return len(r.Data) }
