package wire

// WireHeader is the JSON wire form of packet.Header.
type WireHeader struct {
	Type             string                 `json:"type"`
	RawImageDesc     *WireRawImageDescriptor `json:"raw_image_descriptor,omitempty"`
	ProtobufFullName string                 `json:"protobuf_full_name,omitempty"`
	GstreamerCaps    string                 `json:"gstreamer_caps,omitempty"`
	ControlSubType   string                 `json:"control_sub_type,omitempty"`
	TimestampSeconds int64                  `json:"timestamp_seconds"`
	TimestampNanos   int64                  `json:"timestamp_nanos"`
	Flags            uint32                 `json:"flags"`
	ServerOffset     int64                  `json:"server_offset"`
	TraceContext     string                 `json:"trace_context,omitempty"`
	Addenda          map[string]WireAddendum `json:"addenda,omitempty"`
}

// WireRawImageDescriptor is the JSON wire form of packet.RawImageDescriptor.
type WireRawImageDescriptor struct {
	Format string `json:"format"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// WireAddendum is the JSON wire form of packet.Addendum.
type WireAddendum struct {
	IsProtobuf       bool   `json:"is_protobuf"`
	StringValue      string `json:"string_value,omitempty"`
	ProtobufFullName string `json:"protobuf_full_name,omitempty"`
	ProtobufBytes    []byte `json:"protobuf_bytes,omitempty"`
}

// WirePacket is the JSON wire form of packet.Packet.
type WirePacket struct {
	Header  WireHeader `json:"header"`
	Payload []byte     `json:"payload,omitempty"`
}

// WireOffsetSpecial names one of the non-positional starting points a
// receiver can request.
type WireOffsetSpecial string

const (
	OffsetSpecialNone     WireOffsetSpecial = ""
	OffsetSpecialLatest   WireOffsetSpecial = "LATEST"
	OffsetSpecialEarliest WireOffsetSpecial = "EARLIEST"
)

// WireOffsetConfig is a tagged union: exactly one of Special, Position or
// TimestampMicros should be set; the zero value means "server default"
// (latest, for a live receive).
type WireOffsetConfig struct {
	Special         WireOffsetSpecial `json:"special,omitempty"`
	Position        *int64            `json:"position,omitempty"`
	TimestampMicros *int64            `json:"timestamp_micros,omitempty"`
}

// SendOnePacketRequest is the unary-send request.
type SendOnePacketRequest struct {
	StreamName string     `json:"stream_name"`
	Packet     WirePacket `json:"packet"`
}

// SendOnePacketResponse is the unary-send response.
type SendOnePacketResponse struct {
	Offset int64 `json:"offset"`
}

// SendPacketsRequest is one item of the client-streaming send RPC.
type SendPacketsRequest struct {
	StreamName string     `json:"stream_name"`
	Packet     WirePacket `json:"packet"`
}

// SendPacketsResponse acks one sent packet by offset.
type SendPacketsResponse struct {
	Offset int64 `json:"offset"`
}

// ReceiveOnePacketRequest is the unary-poll receive request.
type ReceiveOnePacketRequest struct {
	StreamName   string           `json:"stream_name"`
	ReceiverName string           `json:"receiver_name"`
	Offset       WireOffsetConfig `json:"offset"`
}

// ReceiveOnePacketResponse is the unary-poll receive response. Eof is set
// once the stream has no further packets to deliver right now.
type ReceiveOnePacketResponse struct {
	Packet WirePacket `json:"packet"`
	Eof    bool       `json:"eof"`
}

// ReceivePacketsRequest opens the server-streaming live receive RPC.
type ReceivePacketsRequest struct {
	StreamName   string           `json:"stream_name"`
	ReceiverName string           `json:"receiver_name"`
	Offset       WireOffsetConfig `json:"offset"`
}

// ReceivePacketsResponse is one item of the server-streaming receive RPC.
type ReceivePacketsResponse struct {
	Packet WirePacket `json:"packet"`
}

// ReplayStreamRequest opens the server-streaming bounded replay RPC.
type ReplayStreamRequest struct {
	StreamName   string           `json:"stream_name"`
	ReceiverName string           `json:"receiver_name"`
	Offset       WireOffsetConfig `json:"offset"`
}

// ReplayStreamResponse is one item of the replay RPC; Eof marks the last
// message of the bounded replay (no packet is carried alongside it).
type ReplayStreamResponse struct {
	Packet WirePacket `json:"packet"`
	Eof    bool       `json:"eof"`
}
