// Package wiretest provides an in-memory stream service server, backed by
// google.golang.org/grpc/test/bufconn, for exercising the transport and
// higher-level sender/receiver packages without a real network listener.
package wiretest

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/packetstream/client-go/internal/wire"
	"github.com/packetstream/client-go/packet"
)

const bufSize = 1 << 20

// scriptedError is an error a test wants a handler to return in place of
// its normal terminal response, after any normal payload has been sent.
type scriptedError struct {
	code codes.Code
	msg  string
}

type streamScript struct {
	forceStreamingOutOfRange bool
	receiveErr               *scriptedError
	replayErr                *scriptedError
	replayCalled             bool
}

// Server is a minimal, in-memory StreamService implementation: one
// append-only packet log per stream name, fed by SendOnePacket/SendPackets
// and drained by the receive RPCs. Tests script terminal errors per stream
// via SetNextReceiveError/SetNextReplayError/SetStreamingOutOfRange to
// exercise the receiver's fallback and error-propagation paths.
type Server struct {
	wire.StreamServiceServer

	listener *bufconn.Listener
	grpcSrv  *grpc.Server

	mu       sync.Mutex
	streams  map[string][]wire.WirePacket
	scripts  map[string]*streamScript
	cursors  map[string]int // keyed by streamName+"/"+consumerName, for ReceiveOnePacket polling
}

// NewServer starts an in-memory server and returns it; Dialer and
// DialOptions give the client side what it needs to reach it.
func NewServer() *Server {
	s := &Server{
		listener: bufconn.Listen(bufSize),
		streams:  make(map[string][]wire.WirePacket),
		scripts:  make(map[string]*streamScript),
		cursors:  make(map[string]int),
	}
	s.grpcSrv = grpc.NewServer()
	wire.RegisterStreamServiceServer(s.grpcSrv, s)
	go func() { _ = s.grpcSrv.Serve(s.listener) }()
	return s
}

func (s *Server) script(streamName string) *streamScript {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scripts[streamName]
	if !ok {
		sc = &streamScript{}
		s.scripts[streamName] = sc
	}
	return sc
}

// SetStreamingOutOfRange makes ReceivePackets for streamName fail with
// OutOfRange immediately, without sending any buffered packets.
func (s *Server) SetStreamingOutOfRange(streamName string) {
	s.script(streamName).forceStreamingOutOfRange = true
}

// SetNextReceiveError makes ReceivePackets for streamName end (after any
// buffered packets have been streamed) with the given error instead of the
// default OutOfRange-when-exhausted behavior.
func (s *Server) SetNextReceiveError(streamName string, code codes.Code, msg string) {
	s.script(streamName).receiveErr = &scriptedError{code: code, msg: msg}
}

// SetNextReplayError makes ReplayStream for streamName end (after any
// buffered packets have been replayed) with the given error instead of the
// default Eof-marker response.
func (s *Server) SetNextReplayError(streamName string, code codes.Code, msg string) {
	s.script(streamName).replayErr = &scriptedError{code: code, msg: msg}
}

// ReplayWasCalled reports whether ReplayStream was ever invoked for
// streamName.
func (s *Server) ReplayWasCalled(streamName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scripts[streamName]
	return ok && sc.replayCalled
}

// SendOnePacketForTest appends p to streamName's log directly, bypassing
// the gRPC transport, for test setup convenience.
func (s *Server) SendOnePacketForTest(streamName string, p packet.Packet) {
	s.append(streamName, wire.ToWire(p))
}

// Dialer returns a bufconn dial function for grpc.WithContextDialer.
func (s *Server) Dialer() func(context.Context, string) (net.Conn, error) {
	return func(ctx context.Context, _ string) (net.Conn, error) {
		return s.listener.DialContext(ctx)
	}
}

// DialOptions returns the dial options needed to reach this in-memory
// server: a bufconn dialer plus insecure transport credentials.
func (s *Server) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithContextDialer(s.Dialer()),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
}

// Stop shuts the in-memory server down.
func (s *Server) Stop() {
	s.grpcSrv.Stop()
}

// Packets returns a snapshot of everything appended to streamName so far.
func (s *Server) Packets(streamName string) []wire.WirePacket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.WirePacket, len(s.streams[streamName]))
	copy(out, s.streams[streamName])
	return out
}

func (s *Server) append(streamName string, p wire.WirePacket) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	offset := int64(len(s.streams[streamName]))
	s.streams[streamName] = append(s.streams[streamName], p)
	return offset
}

func (s *Server) SendOnePacket(_ context.Context, req *wire.SendOnePacketRequest) (*wire.SendOnePacketResponse, error) {
	if req.StreamName == "" {
		return nil, status.Error(codes.InvalidArgument, "stream_name must not be empty")
	}
	offset := s.append(req.StreamName, req.Packet)
	return &wire.SendOnePacketResponse{Offset: offset}, nil
}

func (s *Server) SendPackets(stream wire.StreamService_SendPacketsServer) error {
	var last int64 = -1
	for {
		req, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stream.SendAndClose(&wire.SendPacketsResponse{Offset: last})
			}
			return err
		}
		last = s.append(req.StreamName, req.Packet)
	}
}

// ReceiveOnePacket tracks a per-consumer read cursor that advances after
// each delivered packet, so repeated polling calls progress through the
// log instead of re-reading the same position; an explicit offset reset
// (req.Offset.Special/Position set) overrides the cursor for that call.
func (s *Server) ReceiveOnePacket(_ context.Context, req *wire.ReceiveOnePacketRequest) (*wire.ReceiveOnePacketResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := req.StreamName + "/" + req.ReceiverName
	packets := s.streams[req.StreamName]

	pos, hasCursor := s.cursors[key]
	if req.Offset.Special != wire.OffsetSpecialNone || req.Offset.Position != nil || !hasCursor {
		pos = startPosition(req.Offset, len(packets))
	}

	if pos >= len(packets) {
		s.cursors[key] = pos
		return &wire.ReceiveOnePacketResponse{Eof: true}, nil
	}
	s.cursors[key] = pos + 1
	return &wire.ReceiveOnePacketResponse{Packet: packets[pos]}, nil
}

// ReceivePackets streams everything currently buffered for req.StreamName
// starting at the requested offset, then fails with OutOfRange once
// exhausted — the trigger the Auto receiver mode falls back on.
func (s *Server) ReceivePackets(req *wire.ReceivePacketsRequest, stream wire.StreamService_ReceivePacketsServer) error {
	sc := s.script(req.StreamName)
	if sc.forceStreamingOutOfRange {
		return status.Error(codes.OutOfRange, "offset outside live window")
	}

	s.mu.Lock()
	packets := s.streams[req.StreamName]
	pos := startPosition(req.Offset, len(packets))
	if pos > len(packets) {
		pos = len(packets)
	}
	snapshot := make([]wire.WirePacket, len(packets)-pos)
	copy(snapshot, packets[pos:])
	s.mu.Unlock()

	for _, p := range snapshot {
		if err := stream.Send(&wire.ReceivePacketsResponse{Packet: p}); err != nil {
			return err
		}
	}
	if sc.receiveErr != nil {
		return status.Error(sc.receiveErr.code, sc.receiveErr.msg)
	}
	return status.Error(codes.OutOfRange, "no more packets buffered")
}

func (s *Server) ReplayStream(req *wire.ReplayStreamRequest, stream wire.StreamService_ReplayStreamServer) error {
	sc := s.script(req.StreamName)
	s.mu.Lock()
	sc.replayCalled = true
	packets := make([]wire.WirePacket, len(s.streams[req.StreamName]))
	copy(packets, s.streams[req.StreamName])
	s.mu.Unlock()

	pos := startPosition(req.Offset, len(packets))
	for ; pos < len(packets); pos++ {
		if err := stream.Send(&wire.ReplayStreamResponse{Packet: packets[pos]}); err != nil {
			return err
		}
	}
	if sc.replayErr != nil {
		return status.Error(sc.replayErr.code, sc.replayErr.msg)
	}
	return stream.Send(&wire.ReplayStreamResponse{Eof: true})
}

// startPosition resolves where a receive/replay should begin. This mock
// does not model real position/timestamp-based seeking (those values are
// opaque to it, same as the real server's wire encoding — see
// OffsetConfig in spec.md §6); an explicit Position or Timestamp simply
// starts from the beginning of whatever is buffered, same as Earliest.
// Only Latest skips straight to "nothing buffered yet".
func startPosition(offset wire.WireOffsetConfig, length int) int {
	if offset.Special == wire.OffsetSpecialLatest {
		return length
	}
	return 0
}
