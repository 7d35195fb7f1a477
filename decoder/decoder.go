// Package decoder defines the frame decoder interface the decoded-receiver
// pipeline (C9) drives: Feed pushes encoded bytes in, a callback yields
// decoded raw images out asynchronously, modeled after aistreams' decoder
// interface (aistreams/base/decoder.h in the original source) and expressed
// here with a Go callback in place of a virtual Decode method.
package decoder

import (
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
)

// FrameCallback receives one decoded frame. One fed packet may yield zero
// frames (still buffering a coded picture) or one frame (a picture just
// completed); the decoder promises frames are delivered in the same order
// their input packets were fed.
type FrameCallback func(packet.RawImage) *status.Status

// FrameDecoder decodes a single encoded stream into raw images.
type FrameDecoder interface {
	// Feed pushes one encoded packet's payload, tagged with its caps/codec
	// string, into the decoder. Decoded frames, if any result, are
	// delivered to the callback registered via SetCallback before the
	// first Feed call.
	Feed(payload []byte, caps string) *status.Status

	// SetCallback registers the sink for decoded frames. Must be called
	// before the first Feed.
	SetCallback(cb FrameCallback)

	// Close signals end-of-stream to the decoder, flushing any frame still
	// buffered internally.
	Close() *status.Status
}
