package packet

// Type tags the concrete payload interpretation of a Packet.
type Type int

const (
	TypeUnknown Type = iota
	TypeJPEG
	TypeRawImage
	TypeProtobuf
	TypeString
	TypeGstreamerBuffer
	TypeControlSignal
)

func (t Type) String() string {
	switch t {
	case TypeJPEG:
		return "JPEG"
	case TypeRawImage:
		return "RAW_IMAGE"
	case TypeProtobuf:
		return "PROTOBUF"
	case TypeString:
		return "STRING"
	case TypeGstreamerBuffer:
		return "GSTREAMER_BUFFER"
	case TypeControlSignal:
		return "CONTROL_SIGNAL"
	default:
		return "UNKNOWN"
	}
}

// ControlSubType identifies the kind of control signal carried by a
// CONTROL_SIGNAL packet.
type ControlSubType int

const (
	ControlSubTypeUnknown ControlSubType = iota
	ControlSubTypeEOS
)

// ProtobufDescriptor is the type descriptor attached to a PROTOBUF packet.
type ProtobufDescriptor struct {
	FullName string
	IsText   bool
}

// GstreamerDescriptor is the type descriptor attached to a
// GSTREAMER_BUFFER packet: the media-framework caps string.
type GstreamerDescriptor struct {
	Caps string
}

// ControlDescriptor is the type descriptor attached to a CONTROL_SIGNAL
// packet.
type ControlDescriptor struct {
	SubType ControlSubType
}

// Descriptor is the opaque per-type metadata carried in a Header. Exactly
// one field is populated, matching the packet's Type; STRING and JPEG
// packets carry no descriptor at all.
type Descriptor struct {
	RawImage  *RawImageDescriptor
	Protobuf  *ProtobufDescriptor
	Gstreamer *GstreamerDescriptor
	Control   *ControlDescriptor
}

// Timestamp is seconds + nanoseconds since the Unix epoch.
type Timestamp struct {
	Seconds int64
	Nanos   int64
}

// Microseconds converts the timestamp to a single int64 count of
// microseconds since the epoch.
func (t Timestamp) Microseconds() int64 {
	return t.Seconds*1e6 + t.Nanos/1000
}

// ServerMetadata carries server-assigned facts about a delivered packet.
type ServerMetadata struct {
	Offset int64
}

// Addendum is a named side-channel attachment: either a string or a
// protobuf-encoded value, never both.
type Addendum struct {
	IsProtobuf       bool
	StringValue      string
	ProtobufFullName string
	ProtobufBytes    []byte
}

// Flags is a bitset of boolean packet attributes.
type Flags uint32

const (
	FlagNone        Flags = 0
	FlagIsFrameHead Flags = 1 << 0
	FlagIsKeyFrame  Flags = 1 << 1
)

// Header carries everything about a Packet except its payload bytes.
type Header struct {
	Type           Type
	Descriptor     Descriptor
	Timestamp      Timestamp
	Flags          Flags
	ServerMetadata ServerMetadata
	TraceContext   string
	Addenda        map[string]Addendum
}

// Clone returns a deep copy of the header, so callers can safely mutate a
// copy without affecting the source packet (e.g. PacketAs's hollowing-out).
func (h Header) Clone() Header {
	clone := h
	if h.Descriptor.RawImage != nil {
		d := *h.Descriptor.RawImage
		clone.Descriptor.RawImage = &d
	}
	if h.Descriptor.Protobuf != nil {
		d := *h.Descriptor.Protobuf
		clone.Descriptor.Protobuf = &d
	}
	if h.Descriptor.Gstreamer != nil {
		d := *h.Descriptor.Gstreamer
		clone.Descriptor.Gstreamer = &d
	}
	if h.Descriptor.Control != nil {
		d := *h.Descriptor.Control
		clone.Descriptor.Control = &d
	}
	if h.Addenda != nil {
		clone.Addenda = make(map[string]Addendum, len(h.Addenda))
		for k, v := range h.Addenda {
			clone.Addenda[k] = v
		}
	}
	return clone
}

// Packet is the atomic transport unit: a header plus opaque payload bytes
// whose interpretation is determined by Header.Type and Header.Descriptor.
type Packet struct {
	Header  Header
	Payload []byte
}

// Hollow returns a copy of p with the header preserved but the payload
// cleared, matching PacketAs's "source packet retains header only" rule
// (aistreams/base/packet_as.h: Adapt() moves the payload out into value_).
func (p Packet) Hollow() Packet {
	return Packet{Header: p.Header.Clone()}
}
