package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetstream/client-go/packet"
)

func TestToFromWireRoundTrip(t *testing.T) {
	p, st := packet.MakePacket("hello")
	require.True(t, st.OK())
	require.True(t, packet.InsertStringAddendum(&p, "trace", "abc").OK())

	w := ToWire(p)
	back := FromWire(w)

	assert.Equal(t, p.Header.Type, back.Header.Type)
	assert.Equal(t, p.Payload, back.Payload)
	assert.Equal(t, p.Header.Flags, back.Header.Flags)
	assert.Equal(t, "abc", back.Header.Addenda["trace"].StringValue)
}

func TestToFromWireRawImage(t *testing.T) {
	desc := packet.RawImageDescriptor{Format: packet.RawImageFormatSRGB, Height: 2, Width: 2}
	img, st := packet.NewRawImage(desc)
	require.True(t, st.OK())
	p, st := packet.MakePacket(img)
	require.True(t, st.OK())

	back := FromWire(ToWire(p))
	require.NotNil(t, back.Header.Descriptor.RawImage)
	assert.Equal(t, desc, *back.Header.Descriptor.RawImage)
}
