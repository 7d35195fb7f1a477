package receiver

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/internal/obslog"
	"github.com/packetstream/client-go/internal/wire"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/status"
	"github.com/packetstream/client-go/transport"
)

// Mode selects how a Receiver pulls packets from the server.
type Mode int

const (
	// ModeUnaryReceive issues repeated unary ReceiveOnePacket calls.
	ModeUnaryReceive Mode = iota
	// ModeStreamingReceive opens a single server-streaming ReceivePackets
	// call for live delivery.
	ModeStreamingReceive
	// ModeReplay opens a single server-streaming ReplayStream call for
	// historical delivery.
	ModeReplay
	// ModeAuto starts live and falls back to Replay if the server
	// reports the requested offset is out of the live window.
	ModeAuto
)

// Options configures a Receiver.
type Options struct {
	StreamName   string
	ConsumerName string
	Mode         Mode
	Offset       OffsetOptions
	Rpc          transport.RpcOptions

	// PollInterval is the sleep between ReceiveOnePacket calls in
	// ModeUnaryReceive, used by Subscribe.
	PollInterval time.Duration
}

// Receiver receives packets from a single stream.
type Receiver struct {
	opts   Options
	client wire.StreamServiceClient
	log    *obslog.Logger

	mu          sync.Mutex
	firstRead   bool
	resolved    Mode
	unaryCalled bool

	streamingStream wire.StreamService_ReceivePacketsClient
	streamingCancel context.CancelFunc
	replayStream    wire.StreamService_ReplayStreamClient
	replayCancel    context.CancelFunc
}

// New constructs a Receiver bound to conn, generating a random consumer
// name if opts.ConsumerName is empty.
func New(conn grpc.ClientConnInterface, opts Options) *Receiver {
	if opts.ConsumerName == "" {
		opts.ConsumerName = randomConsumerName()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Receiver{
		opts:     opts,
		client:   wire.NewStreamServiceClient(conn),
		log:      obslog.New("receiver"),
		resolved: opts.Mode,
	}
}

// Receive pulls one packet from the server per the configured mode.
func (r *Receiver) Receive(ctx context.Context) (packet.Packet, *status.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.resolved {
	case ModeUnaryReceive:
		return r.receiveUnaryLocked(ctx)
	case ModeStreamingReceive:
		return r.receiveStreamingLocked(ctx)
	case ModeReplay:
		return r.receiveReplayLocked(ctx)
	default:
		return r.receiveAutoLocked(ctx)
	}
}

func (r *Receiver) receiveUnaryLocked(ctx context.Context) (packet.Packet, *status.Status) {
	offset := OffsetOptions{}
	if !r.unaryCalled {
		offset = r.opts.Offset
		r.unaryCalled = true
	}

	callCtx, cancel := transport.CallContext(ctx, r.opts.StreamName, r.opts.Rpc)
	defer cancel()

	resp, err := r.client.ReceiveOnePacket(callCtx, &wire.ReceiveOnePacketRequest{
		StreamName:   r.opts.StreamName,
		ReceiverName: r.opts.ConsumerName,
		Offset:       offset.toWire(),
	}, transport.CallOptions(r.opts.Rpc)...)
	if err != nil {
		return packet.Packet{}, status.Newf(codes.Unknown, "receive one packet: %v", err)
	}
	if resp.Eof {
		return packet.Packet{}, status.New(codes.NotFound, "no packet currently available")
	}
	return wire.FromWire(resp.Packet), status.OK()
}

func (r *Receiver) receiveStreamingLocked(ctx context.Context) (packet.Packet, *status.Status) {
	if r.streamingStream == nil {
		if st := r.openStreamingLocked(ctx); !st.OK() {
			return packet.Packet{}, st
		}
	}
	resp, err := r.streamingStream.Recv()
	if err != nil {
		return packet.Packet{}, status.FromError(err)
	}
	return wire.FromWire(resp.Packet), status.OK()
}

func (r *Receiver) openStreamingLocked(ctx context.Context) *status.Status {
	callCtx, cancel := transport.CallContext(ctx, r.opts.StreamName, r.opts.Rpc)
	stream, err := r.client.ReceivePackets(callCtx, &wire.ReceivePacketsRequest{
		StreamName:   r.opts.StreamName,
		ReceiverName: r.opts.ConsumerName,
		Offset:       r.opts.Offset.toWire(),
	}, transport.CallOptions(r.opts.Rpc)...)
	if err != nil {
		cancel()
		return status.Newf(codes.Unknown, "open receive stream: %v", err)
	}
	r.streamingStream = stream
	r.streamingCancel = cancel
	return status.OK()
}

func (r *Receiver) receiveReplayLocked(ctx context.Context) (packet.Packet, *status.Status) {
	if r.replayStream == nil {
		if st := r.openReplayLocked(ctx); !st.OK() {
			return packet.Packet{}, st
		}
	}
	resp, err := r.replayStream.Recv()
	if err != nil {
		return packet.Packet{}, status.FromError(err)
	}
	if resp.Eof {
		return packet.Packet{}, status.New(codes.OutOfRange, "replay exhausted")
	}
	return wire.FromWire(resp.Packet), status.OK()
}

func (r *Receiver) openReplayLocked(ctx context.Context) *status.Status {
	callCtx, cancel := transport.CallContext(ctx, r.opts.StreamName, r.opts.Rpc)
	stream, err := r.client.ReplayStream(callCtx, &wire.ReplayStreamRequest{
		StreamName:   r.opts.StreamName,
		ReceiverName: r.opts.ConsumerName,
		Offset:       r.opts.Offset.toWire(),
	}, transport.CallOptions(r.opts.Rpc)...)
	if err != nil {
		cancel()
		return status.Newf(codes.Unknown, "open replay stream: %v", err)
	}
	r.replayStream = stream
	r.replayCancel = cancel
	return status.OK()
}

// receiveAutoLocked implements ModeAuto. Only the streaming RPC is opened
// on the first read; Replay is opened only if that first read fails with
// OutOfRange. Whichever path the first read takes, mode is fixed from then
// on (spec.md Open Question: "Do not generalize the condition" — OutOfRange
// on the first read is the sole fallback trigger).
func (r *Receiver) receiveAutoLocked(ctx context.Context) (packet.Packet, *status.Status) {
	if !r.firstRead {
		r.firstRead = true
		p, st := r.receiveStreamingLocked(ctx)
		if st.OK() {
			r.resolved = ModeStreamingReceive
			return p, st
		}
		if st.Kind() != codes.OutOfRange {
			r.resolved = ModeStreamingReceive
			return p, st
		}

		r.closeStreamingLocked()
		r.resolved = ModeReplay
		return r.receiveReplayLocked(ctx)
	}
	return r.receiveStreamingLocked(ctx)
}

func (r *Receiver) closeStreamingLocked() {
	if r.streamingCancel != nil {
		r.streamingCancel()
		r.streamingCancel = nil
	}
	r.streamingStream = nil
}

// Close releases any open streaming RPCs.
func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streamingCancel != nil {
		r.streamingCancel()
	}
	if r.replayCancel != nil {
		r.replayCancel()
	}
}

// Subscribe repeatedly calls Receive and invokes callback with each packet.
// It stops when callback returns a Cancelled status (reported back as Ok),
// when Receive returns a non-recoverable error (returned as-is), or when
// ctx is done. Other callback errors are logged and the loop continues.
func (r *Receiver) Subscribe(ctx context.Context, callback func(packet.Packet) *status.Status) *status.Status {
	for {
		select {
		case <-ctx.Done():
			return status.New(codes.Cancelled, "subscribe context done")
		default:
		}

		p, st := r.Receive(ctx)
		if !st.OK() {
			if r.opts.Mode == ModeUnaryReceive && st.Kind() == codes.NotFound {
				time.Sleep(r.opts.PollInterval)
				continue
			}
			return st
		}

		cbStatus := callback(p)
		if !cbStatus.OK() {
			if cbStatus.Kind() == codes.Cancelled {
				return status.OK()
			}
			r.log.Errorf("subscribe callback error: %v", cbStatus.Error())
		}

		if r.opts.Mode == ModeUnaryReceive {
			time.Sleep(r.opts.PollInterval)
		}
	}
}
