package packet

// JPEGFrame is a raw JFIF-encoded frame buffer.
type JPEGFrame []byte

// GstreamerBuffer carries an opaque media-framework buffer plus the caps
// string describing its layout.
type GstreamerBuffer struct {
	Caps string
	Data []byte
}

// ControlSignal is an out-of-band signal interleaved with data packets,
// most notably end-of-stream.
type ControlSignal struct {
	SubType ControlSubType
	Data    []byte
}

// MakeEosPacket builds a packet carrying the end-of-stream control signal,
// encoding reason as the payload.
func MakeEosPacket(reason string) Packet {
	p, _ := MakePacket(ControlSignal{SubType: ControlSubTypeEOS, Data: []byte(reason)})
	return p
}

// IsControlSignal reports whether p carries a CONTROL_SIGNAL payload.
func IsControlSignal(p Packet) bool {
	return p.Header.Type == TypeControlSignal
}

// IsEos reports whether p is the end-of-stream control signal, and if so
// returns the reason it carries.
func IsEos(p Packet) (bool, string) {
	if !IsControlSignal(p) || p.Header.Descriptor.Control == nil || p.Header.Descriptor.Control.SubType != ControlSubTypeEOS {
		return false, ""
	}
	return true, string(p.Payload)
}

// GetPacketType returns p's Type tag. Kept alongside IsEos/IsControlSignal
// since all three answer "what kind of packet is this" (aistreams/base/
// packet.h: GetPacketTypeId).
func GetPacketType(p Packet) Type {
	return p.Header.Type
}
