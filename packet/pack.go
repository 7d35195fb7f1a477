package packet

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/proto"

	"github.com/packetstream/client-go/status"
)

// MakePacket builds a Packet carrying value, tagging its Header with the
// Type and Descriptor that match value's concrete type and stamping the
// default flags for that type (aistreams/base/packet.h: MakePacket<T>).
func MakePacket[T any](value T) (Packet, *status.Status) {
	var v interface{} = value
	header := Header{Timestamp: now()}
	var payload []byte

	switch x := v.(type) {
	case string:
		header.Type = TypeString
		payload = []byte(x)

	case JPEGFrame:
		header.Type = TypeJPEG
		payload = []byte(x)

	case RawImage:
		header.Type = TypeRawImage
		desc := x.Descriptor
		header.Descriptor.RawImage = &desc
		payload = x.Data

	case GstreamerBuffer:
		header.Type = TypeGstreamerBuffer
		header.Descriptor.Gstreamer = &GstreamerDescriptor{Caps: x.Caps}
		payload = x.Data

	case ControlSignal:
		header.Type = TypeControlSignal
		header.Descriptor.Control = &ControlDescriptor{SubType: x.SubType}
		payload = x.Data

	case proto.Message:
		bytes, err := proto.Marshal(x)
		if err != nil {
			return Packet{}, status.Newf(codes.InvalidArgument, "marshal packet payload: %v", err)
		}
		header.Type = TypeProtobuf
		header.Descriptor.Protobuf = &ProtobufDescriptor{
			FullName: string(x.ProtoReflect().Descriptor().FullName()),
		}
		payload = bytes

	default:
		return Packet{}, status.Newf(codes.InvalidArgument, "unsupported packet payload type %T", value)
	}

	header.Flags = defaultFlagsForType(header.Type)
	return Packet{Header: header, Payload: payload}, status.OK()
}

// now is overridable in tests; defaults to the wall clock.
var now = func() Timestamp {
	t := time.Now()
	return Timestamp{Seconds: t.Unix(), Nanos: int64(t.Nanosecond())}
}
