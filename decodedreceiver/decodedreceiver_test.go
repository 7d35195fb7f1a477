package decodedreceiver

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/packetstream/client-go/decoder/mjpeg"
	"github.com/packetstream/client-go/internal/wire/wiretest"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/receiver"
	"github.com/packetstream/client-go/receiverqueue"
)

func dial(t *testing.T, srv *wiretest.Server) grpc.ClientConnInterface {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, "bufnet", append(srv.DialOptions(), grpc.WithBlock())...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func solidJPEG(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func seedJPEG(t *testing.T, srv *wiretest.Server, stream string, frames ...[]byte) {
	t.Helper()
	for _, f := range frames {
		p, st := packet.MakePacket(packet.JPEGFrame(f))
		require.True(t, st.OK())
		srv.SendOnePacketForTest(stream, p)
	}
}

func TestDecodedReceiverEmitsRawImages(t *testing.T) {
	srv := wiretest.NewServer()
	t.Cleanup(srv.Stop)
	seedJPEG(t, srv, "s",
		solidJPEG(t, 2, 2, color.RGBA{R: 255, A: 255}),
		solidJPEG(t, 2, 2, color.RGBA{B: 255, A: 255}),
	)
	conn := dial(t, srv)

	src := receiverqueue.New(conn, receiverqueue.Options{Receiver: receiver.Options{
		StreamName: "s",
		Mode:       receiver.ModeStreamingReceive,
		Offset:     receiver.OffsetOptions{ResetOffset: true, Special: receiver.SpecialOffsetBeginning},
	}})

	dr, st := New(Options{Source: src, Decoder: mjpeg.New()})
	require.True(t, st.OK())
	t.Cleanup(dr.Close)

	p1, ok := dr.TryPop(2 * time.Second)
	require.True(t, ok)
	view := packet.PacketAs[packet.RawImage](p1)
	require.True(t, view.OK())
	assert.Equal(t, 2, view.ValueOrDie().Height())

	p2, ok := dr.TryPop(2 * time.Second)
	require.True(t, ok)
	view2 := packet.PacketAs[packet.RawImage](p2)
	require.True(t, view2.OK())
	assert.Equal(t, 2, view2.ValueOrDie().Width())
}

func TestDecodedReceiverCarriesHeadersInFIFOOrder(t *testing.T) {
	srv := wiretest.NewServer()
	t.Cleanup(srv.Stop)

	frames := [][]byte{
		solidJPEG(t, 2, 2, color.RGBA{R: 255, A: 255}),
		solidJPEG(t, 2, 2, color.RGBA{G: 255, A: 255}),
		solidJPEG(t, 2, 2, color.RGBA{B: 255, A: 255}),
	}
	traceIDs := []string{"trace-1", "trace-2", "trace-3"}
	for i, f := range frames {
		p, st := packet.MakePacket(packet.JPEGFrame(f))
		require.True(t, st.OK())
		p.Header.TraceContext = traceIDs[i]
		srv.SendOnePacketForTest("s", p)
	}
	conn := dial(t, srv)

	src := receiverqueue.New(conn, receiverqueue.Options{Receiver: receiver.Options{
		StreamName: "s",
		Mode:       receiver.ModeStreamingReceive,
		Offset:     receiver.OffsetOptions{ResetOffset: true, Special: receiver.SpecialOffsetBeginning},
	}})

	dr, st := New(Options{Source: src, Decoder: mjpeg.New()})
	require.True(t, st.OK())
	t.Cleanup(dr.Close)

	var got []string
	for range traceIDs {
		p, ok := dr.TryPop(2 * time.Second)
		require.True(t, ok)
		got = append(got, p.Header.TraceContext)
	}
	assert.Equal(t, traceIDs, got)
}

func TestDecodedReceiverRejectsNonDecodableFirstPacket(t *testing.T) {
	srv := wiretest.NewServer()
	t.Cleanup(srv.Stop)
	p, st := packet.MakePacket("not a frame")
	require.True(t, st.OK())
	srv.SendOnePacketForTest("s", p)
	conn := dial(t, srv)

	src := receiverqueue.New(conn, receiverqueue.Options{Receiver: receiver.Options{
		StreamName: "s",
		Mode:       receiver.ModeStreamingReceive,
		Offset:     receiver.OffsetOptions{ResetOffset: true, Special: receiver.SpecialOffsetBeginning},
	}})

	_, st2 := New(Options{Source: src, Decoder: mjpeg.New()})
	assert.False(t, st2.OK())
}
