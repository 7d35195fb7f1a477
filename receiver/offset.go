// Package receiver implements the packet receiver (spec component C7):
// unary polling, live server-streaming, replay, and an Auto mode that
// opens the live stream first and switches to replay only if its first
// read fails with OutOfRange, grounded on aistreams'
// base/packet_receiver.h interface split by mode.
package receiver

import (
	"github.com/google/uuid"

	"github.com/packetstream/client-go/internal/wire"
)

// SpecialOffset names a non-positional starting point for a receive.
type SpecialOffset int

const (
	// SpecialOffsetNone means no special offset was requested.
	SpecialOffsetNone SpecialOffset = iota
	SpecialOffsetBeginning
	SpecialOffsetEnd
)

// OffsetOptions is the tagged union a caller uses to pick where a receiver
// starts reading: a special offset, an explicit position, or a timestamp.
// ResetOffset must be true for any of the other fields to take effect.
type OffsetOptions struct {
	ResetOffset     bool
	Special         SpecialOffset
	Position        int64
	HasPosition     bool
	TimestampMicros int64
	HasTimestamp    bool
}

func (o OffsetOptions) toWire() wire.WireOffsetConfig {
	if !o.ResetOffset {
		return wire.WireOffsetConfig{}
	}
	switch o.Special {
	case SpecialOffsetBeginning:
		return wire.WireOffsetConfig{Special: wire.OffsetSpecialEarliest}
	case SpecialOffsetEnd:
		return wire.WireOffsetConfig{Special: wire.OffsetSpecialLatest}
	}
	if o.HasPosition {
		pos := o.Position
		return wire.WireOffsetConfig{Position: &pos}
	}
	if o.HasTimestamp {
		ts := o.TimestampMicros
		return wire.WireOffsetConfig{TimestampMicros: &ts}
	}
	return wire.WireOffsetConfig{}
}

// randomConsumerName generates a UUID-backed eight-character identifier for
// a caller that did not supply a consumer name explicitly.
func randomConsumerName() string {
	return uuid.NewString()[:8]
}
