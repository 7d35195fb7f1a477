// Package decodedreceiver implements the decoded-receiver pipeline (spec
// component C9): it drains an encoded packet queue (C8), feeds a frame
// decoder, and emits raw-image packets whose headers carry over from the
// frame-head packets that produced them, in first-in-first-out order,
// grounded on aistreams' base/wrappers/decoded_receiver_queue.h pairing a
// decoder callback with a pending-header FIFO. The driver (pulls from C8,
// feeds the decoder) and the dispatcher (drains decoded frames, applies
// header carry-over, pushes to the output queue) run as a coordinated
// goroutine pair managed by golang.org/x/sync/errgroup, since the decoder
// may invoke its callback from a thread of its own rather than the
// driver's.
package decodedreceiver

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/completion"
	"github.com/packetstream/client-go/decoder"
	"github.com/packetstream/client-go/internal/obslog"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/queue"
	"github.com/packetstream/client-go/receiverqueue"
	"github.com/packetstream/client-go/status"
)

const defaultOutputCapacity = 30

// Options configures a DecodedReceiver.
type Options struct {
	// Source is the caller's handle to the encoded-packet queue (C8) this
	// pipeline drains. DecodedReceiver takes ownership and releases it on
	// shutdown.
	Source *receiverqueue.Handle

	Decoder decoder.FrameDecoder

	// OutputBufferCapacity is the decoded-output queue's capacity. Non
	// positive values fall back to 30.
	OutputBufferCapacity int

	// PopTimeout bounds how long each pull from Source blocks before the
	// driver re-checks for shutdown. Non-positive values fall back to 1s.
	PopTimeout time.Duration

	// BackpressureOnFull flips the decoded output queue's default
	// drop-on-full policy to block the dispatcher until space frees up
	// instead. Back-pressure is considered worse than a dropped frame in a
	// decoded path (unlike C8's encoded queue, which never drops), so the
	// default (false) drops.
	BackpressureOnFull bool
}

// DecodedReceiver turns an encoded packet stream into a stream of raw-image
// packets. The zero value is not usable; construct with New.
type DecodedReceiver struct {
	opts Options
	log  *obslog.Logger

	out *queue.Queue[packet.Packet]

	headersMu sync.Mutex
	headers   []packet.Header

	frames chan packet.RawImage
	done   chan struct{}
	eg     *errgroup.Group

	driveDone    *completion.Signal
	shutdownOnce sync.Once
}

// New performs the first-packet probe (pulling and decode-converting the
// first source packet; a conversion failure here is InvalidArgument, since
// the stream is not decodable), then spawns the driver/dispatcher goroutine
// pair and returns immediately.
func New(opts Options) (*DecodedReceiver, *status.Status) {
	if opts.Source == nil {
		return nil, status.New(codes.InvalidArgument, "source queue handle is required")
	}
	if opts.Decoder == nil {
		return nil, status.New(codes.InvalidArgument, "decoder is required")
	}
	capacity := opts.OutputBufferCapacity
	if capacity <= 0 {
		capacity = defaultOutputCapacity
	}
	popTimeout := opts.PopTimeout
	if popTimeout <= 0 {
		popTimeout = time.Second
	}
	opts.OutputBufferCapacity = capacity
	opts.PopTimeout = popTimeout

	dr := &DecodedReceiver{
		opts:      opts,
		log:       obslog.New("decodedreceiver"),
		out:       queue.New[packet.Packet](capacity),
		frames:    make(chan packet.RawImage, capacity),
		done:      make(chan struct{}),
		driveDone: completion.New(),
	}

	first, ok := opts.Source.TryPop(popTimeout)
	if !ok {
		return nil, status.New(codes.InvalidArgument, "no source packet available to probe")
	}
	payload, caps, st := encodedPayload(first)
	if !st.OK() {
		return nil, status.Newf(codes.InvalidArgument, "first packet is not decodable: %v", st.Error())
	}

	opts.Decoder.SetCallback(dr.onDecodedFrame)
	dr.enqueueHeaderIfFrameHead(first)
	if st := opts.Decoder.Feed(payload, caps); !st.OK() {
		return nil, status.Newf(codes.InvalidArgument, "first packet is not decodable: %v", st.Error())
	}

	eg := &errgroup.Group{}
	eg.Go(func() error { dr.drive(); return nil })
	eg.Go(func() error { dr.dispatch(); return nil })
	dr.eg = eg

	return dr, status.OK()
}

// TryPop waits up to timeout for the next decoded raw-image packet, or a
// terminal EOS packet once the pipeline has shut down.
func (dr *DecodedReceiver) TryPop(timeout time.Duration) (packet.Packet, bool) {
	return dr.out.TryPop(timeout)
}

// WaitUntilDone blocks until the drive goroutine has exited (upstream EOS,
// a feed failure, or Close) or timeout elapses, returning whether it
// finished in time.
func (dr *DecodedReceiver) WaitUntilDone(timeout time.Duration) bool {
	return dr.driveDone.WaitUntilCompleted(timeout)
}

// FinalStatus reports why the drive goroutine stopped: OK on a clean
// Close, or the triggering failure status otherwise. It returns nil if
// drive has not exited yet.
func (dr *DecodedReceiver) FinalStatus() *status.Status {
	if !dr.driveDone.IsCompleted() {
		return nil
	}
	return dr.driveDone.GetStatus()
}

// Close releases the source queue share, signals both pipeline goroutines
// to stop, and waits for them to exit.
func (dr *DecodedReceiver) Close() {
	select {
	case <-dr.done:
	default:
		close(dr.done)
	}
	dr.opts.Source.Release()
	_ = dr.eg.Wait()
}

// drive pulls encoded packets from the source queue and feeds the decoder.
// It terminates on upstream EOS, a feed failure, or Close, calling
// shutdown exactly once either way.
func (dr *DecodedReceiver) drive() {
	dr.driveDone.Start()
	defer dr.shutdown("consumer released the queue")

	for {
		select {
		case <-dr.done:
			dr.driveDone.End(status.OK())
			return
		default:
		}

		p, ok := dr.opts.Source.TryPop(dr.opts.PopTimeout)
		if !ok {
			continue
		}
		if isEos, reason := packet.IsEos(p); isEos {
			st := status.Newf(codes.Unavailable, "upstream EOS: %s", reason)
			dr.driveDone.End(st)
			dr.shutdown("upstream EOS: " + reason)
			return
		}

		payload, caps, st := encodedPayload(p)
		if !st.OK() {
			dr.driveDone.End(st)
			dr.shutdown("feed failed: " + st.Error())
			return
		}
		dr.enqueueHeaderIfFrameHead(p)
		if st := dr.opts.Decoder.Feed(payload, caps); !st.OK() {
			dr.driveDone.End(st)
			dr.shutdown("feed failed: " + st.Error())
			return
		}
	}
}

// dispatch drains decoded frames off the decoder's callback, applies
// header carry-over, and pushes the result onto the output queue. It runs
// independently of drive so a decoder that calls back from its own thread
// never blocks the puller.
func (dr *DecodedReceiver) dispatch() {
	for {
		select {
		case <-dr.done:
			return
		case img := <-dr.frames:
			dr.emit(img)
		}
	}
}

func (dr *DecodedReceiver) emit(img packet.RawImage) {
	p, st := packet.MakePacket(img)
	if !st.OK() {
		dr.log.Errorf("repack decoded frame: %v", st.Error())
		return
	}
	if h, ok := dr.popHeader(); ok {
		p.Header.Timestamp = h.Timestamp
		p.Header.Addenda = h.Addenda
		p.Header.ServerMetadata = h.ServerMetadata
		p.Header.TraceContext = h.TraceContext
	}
	dr.pushOutput(p)
}

func (dr *DecodedReceiver) pushOutput(p packet.Packet) {
	if dr.opts.BackpressureOnFull {
		dr.out.Emplace(p)
		return
	}
	if !dr.out.TryPush(p) {
		dr.log.Warnf("decoded output queue full, dropping frame")
	}
}

func (dr *DecodedReceiver) shutdownLocked(reason string) {
	_ = dr.opts.Decoder.Close()
	eos := packet.MakeEosPacket(reason)
	dr.pushOutput(eos)
}

func (dr *DecodedReceiver) shutdown(reason string) {
	dr.shutdownOnce.Do(func() { dr.shutdownLocked(reason) })
}

func (dr *DecodedReceiver) enqueueHeaderIfFrameHead(p packet.Packet) {
	if p.Header.Flags&packet.FlagIsFrameHead == 0 {
		return
	}
	dr.headersMu.Lock()
	dr.headers = append(dr.headers, p.Header.Clone())
	dr.headersMu.Unlock()
}

func (dr *DecodedReceiver) popHeader() (packet.Header, bool) {
	dr.headersMu.Lock()
	defer dr.headersMu.Unlock()
	if len(dr.headers) == 0 {
		return packet.Header{}, false
	}
	h := dr.headers[0]
	dr.headers = dr.headers[1:]
	return h, true
}

// onDecodedFrame is the decoder.FrameCallback. It never touches the output
// queue directly: it hands the frame to the dispatcher goroutine so a
// decoder invoking this from its own thread never blocks on queue
// contention with the driver.
func (dr *DecodedReceiver) onDecodedFrame(img packet.RawImage) *status.Status {
	select {
	case dr.frames <- img:
	case <-dr.done:
	}
	return status.OK()
}

// encodedPayload extracts the bytes and caps/codec string a decoder
// expects to be fed from p, or a FailedPrecondition status if p's type
// carries no decodable payload.
func encodedPayload(p packet.Packet) ([]byte, string, *status.Status) {
	switch p.Header.Type {
	case packet.TypeJPEG:
		return p.Payload, "image/jpeg", status.OK()
	case packet.TypeGstreamerBuffer:
		view := packet.PacketAs[packet.GstreamerBuffer](p)
		if !view.OK() {
			return nil, "", view.Status()
		}
		buf := view.ValueOrDie()
		return buf.Data, buf.Caps, status.OK()
	default:
		return nil, "", status.Newf(codes.FailedPrecondition, "packet type %s has no decodable payload", p.Header.Type)
	}
}
