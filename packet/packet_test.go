package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestMakePacketString(t *testing.T) {
	p, st := MakePacket("hello")
	require.True(t, st.OK())
	assert.Equal(t, TypeString, p.Header.Type)
	assert.Equal(t, []byte("hello"), p.Payload)
	assert.True(t, IsFrameHead(p))
	assert.True(t, IsKeyFrame(p))

	view := PacketAs[string](p)
	require.True(t, view.OK())
	assert.Equal(t, "hello", view.ValueOrDie())
}

func TestMakePacketRawImage(t *testing.T) {
	desc := RawImageDescriptor{Format: RawImageFormatSRGB, Height: 2, Width: 2}
	img, st := NewRawImage(desc)
	require.True(t, st.OK())
	assert.Equal(t, 12, img.Size())

	p, st := MakePacket(img)
	require.True(t, st.OK())
	assert.Equal(t, TypeRawImage, p.Header.Type)

	view := PacketAs[RawImage](p)
	require.True(t, view.OK())
	assert.Equal(t, desc, view.ValueOrDie().Descriptor)
}

func TestUnsupportedRawImageFormat(t *testing.T) {
	_, st := RawImageFormat(99).Channels()
	assert.Equal(t, codes.Unimplemented, st.Kind())
}

func TestAdaptHollowsSourcePacket(t *testing.T) {
	p, st := MakePacket("payload")
	require.True(t, st.OK())

	view := Adapt[string](&p)
	require.True(t, view.OK())
	assert.Equal(t, "payload", view.ValueOrDie())
	assert.Empty(t, p.Payload)
	assert.Equal(t, TypeString, p.Header.Type)
}

func TestPacketAsWrongTypeFails(t *testing.T) {
	p, st := MakePacket("payload")
	require.True(t, st.OK())

	view := PacketAs[JPEGFrame](p)
	assert.False(t, view.OK())
	assert.Equal(t, codes.FailedPrecondition, view.Status().Kind())
}

func TestValueOrDiePanicsOnFailure(t *testing.T) {
	p, st := MakePacket("payload")
	require.True(t, st.OK())
	view := PacketAs[JPEGFrame](p)
	assert.Panics(t, func() { view.ValueOrDie() })
}

func TestEosPacket(t *testing.T) {
	p := MakeEosPacket("upstream closed")
	assert.True(t, IsControlSignal(p))
	isEos, reason := IsEos(p)
	assert.True(t, isEos)
	assert.Equal(t, "upstream closed", reason)

	regular, st := MakePacket(ControlSignal{SubType: ControlSubTypeUnknown})
	require.True(t, st.OK())
	isEos, _ = IsEos(regular)
	assert.False(t, isEos)
}

func TestControlSignalDefaultFlagsAreNone(t *testing.T) {
	p := MakeEosPacket("reason")
	assert.False(t, IsFrameHead(p))
	assert.False(t, IsKeyFrame(p))
}

func TestSetUnsetFlags(t *testing.T) {
	p, st := MakePacket("x")
	require.True(t, st.OK())

	UnsetFlags(&p, FlagIsKeyFrame)
	assert.True(t, IsFrameHead(p))
	assert.False(t, IsKeyFrame(p))

	SetFlags(&p, FlagIsKeyFrame)
	assert.True(t, IsKeyFrame(p))

	RestoreDefaultPacketFlags(&p)
	assert.True(t, IsKeyFrame(p))
}

func TestAddendaInsertGetDelete(t *testing.T) {
	p, st := MakePacket("x")
	require.True(t, st.OK())

	require.True(t, InsertStringAddendum(&p, "trace", "abc").OK())
	assert.Equal(t, codes.AlreadyExists, InsertStringAddendum(&p, "trace", "xyz").Kind())

	value, getSt := GetStringAddendum(p, "trace")
	require.True(t, getSt.OK())
	assert.Equal(t, "abc", value)

	_, missingSt := GetStringAddendum(p, "missing")
	assert.Equal(t, codes.NotFound, missingSt.Kind())

	DeleteAddendum(&p, "trace")
	_, afterDeleteSt := GetStringAddendum(p, "trace")
	assert.Equal(t, codes.NotFound, afterDeleteSt.Kind())
}

func TestInsertAddendumRejectsEmptyName(t *testing.T) {
	p, st := MakePacket("x")
	require.True(t, st.OK())
	assert.Equal(t, codes.InvalidArgument, InsertStringAddendum(&p, "", "v").Kind())
}

func TestHeaderCloneIsIndependent(t *testing.T) {
	desc := RawImageDescriptor{Format: RawImageFormatSRGB, Height: 1, Width: 1}
	h := Header{Type: TypeRawImage, Descriptor: Descriptor{RawImage: &desc}, Addenda: map[string]Addendum{"a": {StringValue: "v"}}}
	clone := h.Clone()

	clone.Descriptor.RawImage.Height = 99
	clone.Addenda["a"] = Addendum{StringValue: "changed"}

	assert.Equal(t, 1, h.Descriptor.RawImage.Height)
	assert.Equal(t, "v", h.Addenda["a"].StringValue)
}
