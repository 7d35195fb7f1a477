// Package ingester assembles the optional source-to-sink pipeline (spec
// component C10): a caller-supplied packet Source is normalized, optionally
// resized, and handed to a sender (C6) bound to a target stream. It is not
// part of the hardest core — it exists to exemplify how an external
// collaborator (a media-URI reader, a camera capture loop) drives the SDK,
// grounded on the teacher's stream_database_consumer.go source-to-sink
// wiring and the reader/writer goroutine pair pattern in
// services/mesh (golang.org/x/sync/errgroup).
package ingester

import (
	"context"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/internal/obslog"
	"github.com/packetstream/client-go/packet"
	"github.com/packetstream/client-go/sender"
	"github.com/packetstream/client-go/status"
	"github.com/packetstream/client-go/transport"
)

// SendCodec selects how packets are encoded before being sent.
type SendCodec int

const (
	// Native passes each source packet through unchanged. Validation of
	// the source codec against server expectations is not performed
	// (spec.md Open Question 4): the caller is responsible for supplying a
	// source stream the target accepts.
	Native SendCodec = iota
	H264
	JPEG
	RawRGB
)

// Resize describes a target raw-image size; only meaningful when
// SendCodec is RawRGB.
type Resize struct {
	Height int
	Width  int
}

// Source supplies packets to ingest. Next returns ok=false once the
// source is depleted; a non-ok status alongside ok=false indicates Next
// failed rather than merely finished.
type Source interface {
	Next(ctx context.Context) (p packet.Packet, ok bool, st *status.Status)
}

// Options configures an Ingester.
type Options struct {
	Connection transport.ConnectionOptions
	StreamName string
	SendCodec  SendCodec
	Resize     *Resize

	TraceSampleProbability float64

	Source Source

	// PipelineBufferSize bounds the channels between the reader, the
	// normalizer, and the sender stages. Non-positive values fall back to
	// 16.
	PipelineBufferSize int
}

const defaultPipelineBuffer = 16

// Run dials opts.Connection, builds a streaming sender for opts.StreamName,
// and pumps packets from opts.Source through a normalize/resize stage into
// the sender until the source is depleted or any stage fails. It blocks
// until the pipeline finishes.
func Run(ctx context.Context, opts Options) *status.Status {
	if opts.Source == nil {
		return status.New(codes.InvalidArgument, "source is required")
	}
	bufSize := opts.PipelineBufferSize
	if bufSize <= 0 {
		bufSize = defaultPipelineBuffer
	}

	conn, err := transport.NewChannel(ctx, opts.Connection)
	if err != nil {
		return status.Newf(codes.Unavailable, "dial: %v", err)
	}
	defer conn.Close()

	snd := sender.New(conn, sender.Options{
		StreamName:             opts.StreamName,
		Mode:                   sender.ModeStreaming,
		TraceSampleProbability: opts.TraceSampleProbability,
	})
	defer snd.Close()

	log := obslog.New("ingester")

	raw := make(chan packet.Packet, bufSize)
	normalized := make(chan packet.Packet, bufSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return read(gctx, opts.Source, raw) })
	g.Go(func() error { return normalize(gctx, opts, raw, normalized) })
	g.Go(func() error { return write(gctx, snd, normalized, log) })

	if err := g.Wait(); err != nil {
		return status.Newf(codes.Unknown, "ingest pipeline: %v", err)
	}
	return status.OK()
}

func read(ctx context.Context, src Source, out chan<- packet.Packet) error {
	defer close(out)
	for {
		p, ok, st := src.Next(ctx)
		if !ok {
			if !st.OK() {
				return st.Err()
			}
			return nil
		}
		select {
		case out <- p:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func normalize(ctx context.Context, opts Options, in <-chan packet.Packet, out chan<- packet.Packet) error {
	defer close(out)
	for {
		select {
		case p, ok := <-in:
			if !ok {
				return nil
			}
			np, err := normalizeOne(opts, p)
			if err != nil {
				return err
			}
			select {
			case out <- np:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func normalizeOne(opts Options, p packet.Packet) (packet.Packet, error) {
	if opts.SendCodec != RawRGB || opts.Resize == nil {
		return p, nil
	}
	if p.Header.Type != packet.TypeRawImage {
		return p, nil
	}
	view := packet.PacketAs[packet.RawImage](p)
	if !view.OK() {
		return packet.Packet{}, view.Status().Err()
	}
	resized, st := resizeNearest(view.ValueOrDie(), opts.Resize.Height, opts.Resize.Width)
	if !st.OK() {
		return packet.Packet{}, st.Err()
	}
	np, st := packet.MakePacket(resized)
	if !st.OK() {
		return packet.Packet{}, st.Err()
	}
	np.Header = p.Header
	np.Header.Descriptor.RawImage = &resized.Descriptor
	return np, nil
}

func write(ctx context.Context, snd *sender.Sender, in <-chan packet.Packet, log *obslog.Logger) error {
	for {
		select {
		case p, ok := <-in:
			if !ok {
				return snd.Close().Err()
			}
			if st := snd.Send(ctx, p); !st.OK() {
				return st.Err()
			}
		case <-ctx.Done():
			log.Warnf("ingest pipeline cancelled: %v", ctx.Err())
			return ctx.Err()
		}
	}
}
