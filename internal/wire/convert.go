package wire

import (
	"github.com/packetstream/client-go/packet"
)

var typeNames = map[packet.Type]string{
	packet.TypeUnknown:         "UNKNOWN",
	packet.TypeJPEG:            "JPEG",
	packet.TypeRawImage:        "RAW_IMAGE",
	packet.TypeProtobuf:        "PROTOBUF",
	packet.TypeString:          "STRING",
	packet.TypeGstreamerBuffer: "GSTREAMER_BUFFER",
	packet.TypeControlSignal:   "CONTROL_SIGNAL",
}

var typeValues = func() map[string]packet.Type {
	m := make(map[string]packet.Type, len(typeNames))
	for k, v := range typeNames {
		m[v] = k
	}
	return m
}()

var rawImageFormatNames = map[packet.RawImageFormat]string{
	packet.RawImageFormatUnknown: "UNKNOWN",
	packet.RawImageFormatSRGB:    "SRGB",
}

var rawImageFormatValues = func() map[string]packet.RawImageFormat {
	m := make(map[string]packet.RawImageFormat, len(rawImageFormatNames))
	for k, v := range rawImageFormatNames {
		m[v] = k
	}
	return m
}()

var controlSubTypeNames = map[packet.ControlSubType]string{
	packet.ControlSubTypeUnknown: "UNKNOWN",
	packet.ControlSubTypeEOS:     "EOS",
}

var controlSubTypeValues = func() map[string]packet.ControlSubType {
	m := make(map[string]packet.ControlSubType, len(controlSubTypeNames))
	for k, v := range controlSubTypeNames {
		m[v] = k
	}
	return m
}()

// ToWire converts a packet.Packet into its JSON wire form.
func ToWire(p packet.Packet) WirePacket {
	h := p.Header
	wh := WireHeader{
		Type:             typeNames[h.Type],
		TimestampSeconds: h.Timestamp.Seconds,
		TimestampNanos:   h.Timestamp.Nanos,
		Flags:            uint32(h.Flags),
		ServerOffset:     h.ServerMetadata.Offset,
		TraceContext:     h.TraceContext,
	}
	if h.Descriptor.RawImage != nil {
		wh.RawImageDesc = &WireRawImageDescriptor{
			Format: rawImageFormatNames[h.Descriptor.RawImage.Format],
			Height: h.Descriptor.RawImage.Height,
			Width:  h.Descriptor.RawImage.Width,
		}
	}
	if h.Descriptor.Protobuf != nil {
		wh.ProtobufFullName = h.Descriptor.Protobuf.FullName
	}
	if h.Descriptor.Gstreamer != nil {
		wh.GstreamerCaps = h.Descriptor.Gstreamer.Caps
	}
	if h.Descriptor.Control != nil {
		wh.ControlSubType = controlSubTypeNames[h.Descriptor.Control.SubType]
	}
	if len(h.Addenda) > 0 {
		wh.Addenda = make(map[string]WireAddendum, len(h.Addenda))
		for name, a := range h.Addenda {
			wh.Addenda[name] = WireAddendum{
				IsProtobuf:       a.IsProtobuf,
				StringValue:      a.StringValue,
				ProtobufFullName: a.ProtobufFullName,
				ProtobufBytes:    a.ProtobufBytes,
			}
		}
	}
	return WirePacket{Header: wh, Payload: p.Payload}
}

// FromWire converts a JSON wire packet back into a packet.Packet.
func FromWire(w WirePacket) packet.Packet {
	h := packet.Header{
		Type: typeValues[w.Header.Type],
		Timestamp: packet.Timestamp{
			Seconds: w.Header.TimestampSeconds,
			Nanos:   w.Header.TimestampNanos,
		},
		Flags:          packet.Flags(w.Header.Flags),
		ServerMetadata: packet.ServerMetadata{Offset: w.Header.ServerOffset},
		TraceContext:   w.Header.TraceContext,
	}
	if w.Header.RawImageDesc != nil {
		h.Descriptor.RawImage = &packet.RawImageDescriptor{
			Format: rawImageFormatValues[w.Header.RawImageDesc.Format],
			Height: w.Header.RawImageDesc.Height,
			Width:  w.Header.RawImageDesc.Width,
		}
	}
	if w.Header.ProtobufFullName != "" {
		h.Descriptor.Protobuf = &packet.ProtobufDescriptor{FullName: w.Header.ProtobufFullName}
	}
	if w.Header.GstreamerCaps != "" {
		h.Descriptor.Gstreamer = &packet.GstreamerDescriptor{Caps: w.Header.GstreamerCaps}
	}
	if w.Header.ControlSubType != "" {
		h.Descriptor.Control = &packet.ControlDescriptor{SubType: controlSubTypeValues[w.Header.ControlSubType]}
	}
	if len(w.Header.Addenda) > 0 {
		h.Addenda = make(map[string]packet.Addendum, len(w.Header.Addenda))
		for name, a := range w.Header.Addenda {
			h.Addenda[name] = packet.Addendum{
				IsProtobuf:       a.IsProtobuf,
				StringValue:      a.StringValue,
				ProtobufFullName: a.ProtobufFullName,
				ProtobufBytes:    a.ProtobufBytes,
			}
		}
	}
	return packet.Packet{Header: h, Payload: w.Payload}
}
