package packet

// SetFlags sets the given bits on the packet's header flags.
func SetFlags(p *Packet, flags Flags) {
	p.Header.Flags |= flags
}

// UnsetFlags clears the given bits on the packet's header flags.
func UnsetFlags(p *Packet, flags Flags) {
	p.Header.Flags &^= flags
}

// TestFlags reports whether all bits in flags are set.
func TestFlags(p Packet, flags Flags) bool {
	return p.Header.Flags&flags == flags
}

// IsFrameHead reports whether p is the first packet of a coded picture.
func IsFrameHead(p Packet) bool { return TestFlags(p, FlagIsFrameHead) }

// IsKeyFrame reports whether p is independently decodable.
func IsKeyFrame(p Packet) bool { return TestFlags(p, FlagIsKeyFrame) }

// defaultFlagsForType returns the flags a freshly packed packet of the
// given type should carry (aistreams/base/packet_flags.cc:
// RestoreDefaultPacketFlags). Every standard payload type defaults to
// frame-head + key-frame; control signals default to no flags since they
// do not participate in frame boundaries.
func defaultFlagsForType(t Type) Flags {
	if t == TypeControlSignal {
		return FlagNone
	}
	return FlagIsFrameHead | FlagIsKeyFrame
}

// RestoreDefaultPacketFlags resets p's flags to the default for its type.
func RestoreDefaultPacketFlags(p *Packet) {
	p.Header.Flags = defaultFlagsForType(p.Header.Type)
}
