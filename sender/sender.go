// Package sender implements the packet sender (spec component C6): unary
// and long-lived client-streaming delivery of packets to a named stream,
// grounded on the teacher's stream_database_consumer.go connection pattern
// and aistreams' base/packet_sender.h send-mode split.
package sender

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/internal/obslog"
	"github.com/packetstream/client-go/internal/wire"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
	"github.com/packetstream/client-go/transport"
)

// Mode selects how packets reach the server.
type Mode int

const (
	// ModeStreaming opens a single long-lived client-streaming RPC on the
	// first Send and writes every packet to it; this is the default.
	ModeStreaming Mode = iota
	// ModeUnary issues one SendOnePacket RPC per Send call.
	ModeUnary
)

// Options configures a Sender.
type Options struct {
	StreamName string
	Mode       Mode
	Rpc        transport.RpcOptions

	// TraceSampleProbability, in [0,1], is the fraction of packets
	// stamped with a W3C traceparent header, quantized to 1/10000.
	TraceSampleProbability float64
}

// Sender sends packets on a single stream.
type Sender struct {
	opts   Options
	client wire.StreamServiceClient
	log    *obslog.Logger

	mu           sync.Mutex
	stream       wire.StreamService_SendPacketsClient
	streamCancel context.CancelFunc
}

// New constructs a Sender bound to conn. For streaming mode the
// client-streaming RPC is opened lazily on the first Send.
func New(conn grpc.ClientConnInterface, opts Options) *Sender {
	return &Sender{
		opts:   opts,
		client: wire.NewStreamServiceClient(conn),
		log:    obslog.New("sender"),
	}
}

// Send delivers p on the configured mode, possibly sampling a traceparent
// onto its header first.
func (s *Sender) Send(ctx context.Context, p packet.Packet) *status.Status {
	s.maybeSampleTrace(&p)

	if s.opts.Mode == ModeUnary {
		return s.sendUnary(ctx, p)
	}
	return s.sendStreaming(ctx, p)
}

func (s *Sender) sendUnary(ctx context.Context, p packet.Packet) *status.Status {
	ctx, cancel := transport.CallContext(ctx, s.opts.StreamName, s.opts.Rpc)
	defer cancel()

	_, err := s.client.SendOnePacket(ctx, &wire.SendOnePacketRequest{
		StreamName: s.opts.StreamName,
		Packet:     wire.ToWire(p),
	}, transport.CallOptions(s.opts.Rpc)...)
	if err != nil {
		return status.Newf(codes.Unknown, "send one packet: %v", err)
	}
	return status.OK()
}

// sendStreaming writes p to the long-lived client-streaming RPC, opening it
// lazily on first use. A write failure tears the stream down and reports
// Unknown; Send is never retried internally — a caller that wants to
// reconnect across failures should pace its own retries with
// internal/backoff the way receiverqueue paces its push retries.
func (s *Sender) sendStreaming(ctx context.Context, p packet.Packet) *status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		callCtx, cancel := transport.CallContext(ctx, s.opts.StreamName, s.opts.Rpc)
		stream, err := s.client.SendPackets(callCtx, transport.CallOptions(s.opts.Rpc)...)
		if err != nil {
			cancel()
			return status.Newf(codes.Unknown, "open send stream: %v", err)
		}
		s.stream = stream
		s.streamCancel = cancel
	}

	err := s.stream.Send(&wire.SendPacketsRequest{
		StreamName: s.opts.StreamName,
		Packet:     wire.ToWire(p),
	})
	if err != nil {
		s.stream = nil
		if s.streamCancel != nil {
			s.streamCancel()
			s.streamCancel = nil
		}
		return status.Newf(codes.Unknown, "streaming send: %v", err)
	}
	return status.OK()
}

// Close half-closes and finalizes an open streaming RPC. It is a no-op in
// unary mode or if no stream has been opened yet.
func (s *Sender) Close() *status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return status.OK()
	}
	_, err := s.stream.CloseAndRecv()
	s.stream = nil
	if s.streamCancel != nil {
		s.streamCancel()
		s.streamCancel = nil
	}
	if err != nil {
		return status.Newf(codes.Unknown, "close send stream: %v", err)
	}
	return status.OK()
}

func (s *Sender) maybeSampleTrace(p *packet.Packet) {
	if s.opts.TraceSampleProbability <= 0 {
		return
	}
	if sampleDecision(s.opts.TraceSampleProbability) {
		p.Header.TraceContext = newTraceparent()
	}
}

// sampleDecision quantizes probability to 1/10000 and flips a
// cryptographically random coin at that resolution.
func sampleDecision(probability float64) bool {
	if probability >= 1 {
		return true
	}
	threshold := uint32(math.Round(probability * 10000))
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return false
	}
	roll := binary.BigEndian.Uint32(buf[:]) % 10000
	return roll < threshold
}

// newTraceparent builds a W3C traceparent header. The trace ID is a fresh
// UUID's raw bytes (the same random-identifier primitive the teacher's
// logger and webhook services use for request IDs); the span ID is half of
// a second one.
func newTraceparent() string {
	traceID := uuid.New()
	spanSrc := uuid.New()
	return "00-" + hex(traceID[:]) + "-" + hex(spanSrc[:8]) + "-01"
}

const hexDigits = "0123456789abcdef"

func hex(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
