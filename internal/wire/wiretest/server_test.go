package wiretest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/packetstream/client-go/internal/wire"
)

func dial(t *testing.T, srv *Server) wire.StreamServiceClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, "bufnet", append(srv.DialOptions(), grpc.WithBlock())...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return wire.NewStreamServiceClient(conn)
}

func TestSendOnePacketThenReceiveOnePacket(t *testing.T) {
	srv := NewServer()
	t.Cleanup(srv.Stop)
	client := dial(t, srv)
	ctx := context.Background()

	resp, err := client.SendOnePacket(ctx, &wire.SendOnePacketRequest{
		StreamName: "s1",
		Packet:     wire.WirePacket{Header: wire.WireHeader{Type: "STRING"}, Payload: []byte("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Offset)

	recv, err := client.ReceiveOnePacket(ctx, &wire.ReceiveOnePacketRequest{
		StreamName: "s1",
		Offset:     wire.WireOffsetConfig{Special: wire.OffsetSpecialEarliest},
	})
	require.NoError(t, err)
	assert.False(t, recv.Eof)
	assert.Equal(t, []byte("hi"), recv.Packet.Payload)
}

func TestReceivePacketsReturnsOutOfRangeWhenExhausted(t *testing.T) {
	srv := NewServer()
	t.Cleanup(srv.Stop)
	client := dial(t, srv)
	ctx := context.Background()

	_, err := client.SendOnePacket(ctx, &wire.SendOnePacketRequest{
		StreamName: "s1",
		Packet:     wire.WirePacket{Header: wire.WireHeader{Type: "STRING"}, Payload: []byte("a")},
	})
	require.NoError(t, err)

	stream, err := client.ReceivePackets(ctx, &wire.ReceivePacketsRequest{
		StreamName: "s1",
		Offset:     wire.WireOffsetConfig{Special: wire.OffsetSpecialEarliest},
	})
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), first.Packet.Payload)

	_, err = stream.Recv()
	assert.Equal(t, codes.OutOfRange, status.Code(err))
}

func TestSendPacketsStreamsAndAcksLastOffset(t *testing.T) {
	srv := NewServer()
	t.Cleanup(srv.Stop)
	client := dial(t, srv)
	ctx := context.Background()

	stream, err := client.SendPackets(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, stream.Send(&wire.SendPacketsRequest{
			StreamName: "s2",
			Packet:     wire.WirePacket{Header: wire.WireHeader{Type: "STRING"}, Payload: []byte("x")},
		}))
	}
	resp, err := stream.CloseAndRecv()
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Offset)
	assert.Len(t, srv.Packets("s2"), 3)
}

func TestReplayStreamEndsWithEof(t *testing.T) {
	srv := NewServer()
	t.Cleanup(srv.Stop)
	client := dial(t, srv)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.SendOnePacket(ctx, &wire.SendOnePacketRequest{
			StreamName: "s3",
			Packet:     wire.WirePacket{Header: wire.WireHeader{Type: "STRING"}, Payload: []byte("p")},
		})
		require.NoError(t, err)
	}

	stream, err := client.ReplayStream(ctx, &wire.ReplayStreamRequest{
		StreamName: "s3",
		Offset:     wire.WireOffsetConfig{Special: wire.OffsetSpecialEarliest},
	})
	require.NoError(t, err)

	var gotEof bool
	count := 0
	for {
		msg, err := stream.Recv()
		require.NoError(t, err)
		if msg.Eof {
			gotEof = true
			break
		}
		count++
	}
	assert.True(t, gotEof)
	assert.Equal(t, 2, count)
}
