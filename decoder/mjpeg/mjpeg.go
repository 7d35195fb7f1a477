// Package mjpeg implements decoder.FrameDecoder for motion-JPEG streams,
// where every fed packet is one complete JPEG-encoded picture. It decodes
// with the standard library's image/jpeg: no third-party pure-Go JPEG
// decoder in the reference corpus improves on it, and reaching for a cgo
// binding would cost the module's portability for a format the standard
// library already decodes correctly.
package mjpeg

import (
	"bytes"
	"image"
	"image/jpeg"

	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/decoder"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
)

// Decoder decodes one MJPEG-encoded source: each Feed call's payload is
// expected to be a standalone, complete JPEG image, so decoding never
// buffers across calls.
type Decoder struct {
	cb     decoder.FrameCallback
	closed bool
}

// New constructs an MJPEG decoder.
func New() *Decoder {
	return &Decoder{}
}

// SetCallback registers the sink for decoded frames.
func (d *Decoder) SetCallback(cb decoder.FrameCallback) {
	d.cb = cb
}

// Feed decodes payload as a standalone JPEG image and delivers it to the
// registered callback. caps is accepted for interface symmetry with
// decoders that need it but is unused here: a JPEG payload is self
// describing.
func (d *Decoder) Feed(payload []byte, _ string) *status.Status {
	if d.closed {
		return status.New(codes.FailedPrecondition, "feed called after close")
	}
	img, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		return status.Newf(codes.InvalidArgument, "decode jpeg frame: %v", err)
	}

	raw, st := toRawImage(img)
	if !st.OK() {
		return st
	}
	if d.cb == nil {
		return status.New(codes.FailedPrecondition, "feed called before SetCallback")
	}
	return d.cb(raw)
}

// Close marks the decoder closed, so any later Feed fails with
// FailedPrecondition. This decoder never buffers a partial frame across
// Feed calls, so there is nothing to flush.
func (d *Decoder) Close() *status.Status {
	d.closed = true
	return status.OK()
}

func toRawImage(img image.Image) (packet.RawImage, *status.Status) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	raw, st := packet.NewRawImage(packet.RawImageDescriptor{
		Format: packet.RawImageFormatSRGB,
		Height: height,
		Width:  width,
	})
	if !st.OK() {
		return packet.RawImage{}, st
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			raw.Data[i] = byte(r >> 8)
			raw.Data[i+1] = byte(g >> 8)
			raw.Data[i+2] = byte(b >> 8)
			i += 3
		}
	}
	return raw, status.OK()
}
