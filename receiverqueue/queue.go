// Package receiverqueue implements the receiver queue wrapper (spec
// component C8): a detached background puller that drains a receiver (C7)
// into a bounded consumer queue (C2), reference-counted so the puller exits
// once every consumer handle has been released, grounded on aistreams'
// base/wrappers/receiver_queue.h.
package receiverqueue

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/completion"
	"github.com/packetstream/client-go/internal/backoff"
	"github.com/packetstream/client-go/internal/obslog"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/queue"
	"github.com/packetstream/client-go/receiver"
	"github.com/packetstream/client-go/status"
)

const (
	defaultBufferCapacity = 300
	defaultPushRetryWindow = 5 * time.Second
)

// Options configures a ReceiverQueue.
type Options struct {
	Receiver receiver.Options

	// BufferCapacity is the consumer queue's fixed capacity. Non-positive
	// values fall back to 300.
	BufferCapacity int

	// PushRetryWindow is how long the puller retries TryPush against a full
	// queue before logging a warning; it then keeps retrying the same packet
	// and warns again after each further window. Non-positive values fall
	// back to 5s.
	PushRetryWindow time.Duration
}

// ReceiverQueue owns a receiver and a detached puller goroutine that feeds
// a shared queue. Handles obtained via Share are reference-counted; the
// puller exits once the last handle is released.
type ReceiverQueue struct {
	q    *queue.Queue[packet.Packet]
	log  *obslog.Logger
	done *completion.Signal

	mu       sync.Mutex
	refCount int
}

// Handle is a consumer's share of a ReceiverQueue. Release must be called
// exactly once; the background puller stops once every outstanding handle
// has been released.
type Handle struct {
	rq *ReceiverQueue
}

// New creates a bounded queue of options.BufferCapacity (default 300),
// constructs a receiver per options.Receiver, and spawns the detached
// puller goroutine. The returned Handle is the caller's single share; call
// Share to mint additional ones, and Release when done with each.
func New(conn grpc.ClientConnInterface, opts Options) *Handle {
	capacity := opts.BufferCapacity
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	retryWindow := opts.PushRetryWindow
	if retryWindow <= 0 {
		retryWindow = defaultPushRetryWindow
	}

	rq := &ReceiverQueue{
		q:        queue.New[packet.Packet](capacity),
		log:      obslog.New("receiverqueue"),
		done:     completion.New(),
		refCount: 1,
	}
	r := receiver.New(conn, opts.Receiver)
	go rq.pull(r, retryWindow)
	return &Handle{rq: rq}
}

// Share mints an additional reference-counted handle to the same queue.
func (h *Handle) Share() *Handle {
	h.rq.mu.Lock()
	h.rq.refCount++
	h.rq.mu.Unlock()
	return &Handle{rq: h.rq}
}

// Release drops this handle's share. Once every handle has been released,
// the background puller observes refCount reaching zero after its current
// blocking operation unblocks, and exits.
func (h *Handle) Release() {
	h.rq.mu.Lock()
	h.rq.refCount--
	h.rq.mu.Unlock()
}

// TryPop removes and returns the oldest queued packet, waiting up to
// timeout for one to arrive.
func (h *Handle) TryPop(timeout time.Duration) (packet.Packet, bool) {
	return h.rq.q.TryPop(timeout)
}

// Pop waits indefinitely for the next queued packet.
func (h *Handle) Pop() packet.Packet {
	return h.rq.q.Pop()
}

// WaitUntilDone blocks until the puller goroutine has exited (either
// because every handle was released, or because the upstream receiver
// failed) or timeout elapses, returning whether it finished in time.
func (h *Handle) WaitUntilDone(timeout time.Duration) bool {
	return h.rq.done.WaitUntilCompleted(timeout)
}

// FinalStatus reports why the puller stopped: OK if every handle was
// released, or the upstream failure status otherwise. It returns nil if
// the puller has not exited yet.
func (h *Handle) FinalStatus() *status.Status {
	if !h.rq.done.IsCompleted() {
		return nil
	}
	return h.rq.done.GetStatus()
}

// ReceivePackets pops packets in a loop and delivers each to callback. A
// pop timeout delivers a synthetic EOS carrying a timeout reason instead of
// stalling silently. callback may return a Cancelled status to break the
// loop; any other non-ok status is logged and the loop continues.
func (h *Handle) ReceivePackets(timeout time.Duration, callback func(packet.Packet) *status.Status) {
	for {
		p, ok := h.TryPop(timeout)
		if !ok {
			p = packet.MakeEosPacket("pop timed out waiting for a packet")
		}

		st := callback(p)
		if !st.OK() {
			if st.Kind() == codes.Cancelled {
				return
			}
			h.rq.log.Errorf("receive callback error: %v", st.Error())
		}
	}
}

func (rq *ReceiverQueue) pull(r *receiver.Receiver, retryWindow time.Duration) {
	rq.done.Start()
	defer r.Close()

	for {
		if rq.refCountZero() {
			rq.done.End(status.OK())
			return
		}

		p, st := r.Receive(context.Background())
		if !st.OK() {
			eos := packet.MakeEosPacket("upstream receive failed: " + st.Error())
			rq.pushWithRetry(eos, retryWindow)
			rq.done.End(st)
			return
		}
		rq.pushWithRetry(p, retryWindow)
	}
}

func (rq *ReceiverQueue) refCountZero() bool {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.refCount <= 0
}

// pushWithRetry retries TryPush against a full queue, backing off between
// attempts, until retryWindow elapses; it then logs a warning and keeps
// retrying on the same schedule rather than dropping the packet (the
// encoded queue never drops, unlike C9's decoded output queue).
func (rq *ReceiverQueue) pushWithRetry(p packet.Packet, retryWindow time.Duration) {
	b := backoff.New(5*time.Millisecond, 200*time.Millisecond, 2)
	deadline := time.Now().Add(retryWindow)
	for {
		if rq.q.TryPush(p) {
			return
		}
		if time.Now().After(deadline) {
			rq.log.Warnf("consumer queue full after %s, still retrying", retryWindow)
			deadline = time.Now().Add(retryWindow)
			b.Reset()
		}
		time.Sleep(b.Next())
	}
}
