package packet

import (
	"reflect"

	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/proto"

	"github.com/packetstream/client-go/status"
)

// View is a typed, read-only projection of a Packet's payload onto a
// concrete Go type T (aistreams/base/packet_as.h: PacketAs<T>). Adapt
// leaves the source Packet hollowed out (header only), matching the
// original's move-out semantics.
type View[T any] struct {
	value  T
	status *status.Status
}

// Adapt decodes p's payload into a View[T], then replaces *p with its
// hollow (header-only) form. If decoding fails, the returned View carries
// the failure status and *p is left untouched.
func Adapt[T any](p *Packet) View[T] {
	value, st := unpackAny[T](*p)
	if !st.OK() {
		return View[T]{status: st}
	}
	*p = p.Hollow()
	return View[T]{value: value, status: status.OK()}
}

// PacketAs decodes p's payload into a View[T] without mutating p.
func PacketAs[T any](p Packet) View[T] {
	value, st := unpackAny[T](p)
	return View[T]{value: value, status: st}
}

// OK reports whether decoding succeeded.
func (v View[T]) OK() bool { return v.status.OK() }

// Status returns the decode status.
func (v View[T]) Status() *status.Status { return v.status }

// ValueOrDie returns the decoded value, panicking if decoding failed.
// Mirrors the original's CHECK-fail-on-invalid-access contract: callers
// are expected to check OK() first in any path where failure is possible.
func (v View[T]) ValueOrDie() T {
	if !v.status.OK() {
		panic("packet: ValueOrDie called on a failed View: " + v.status.Error())
	}
	return v.value
}

// unpackAny decodes p's payload into a T, dispatching on T's concrete
// shape: plain value types go through a type switch, while pointer types
// (proto.Message implementations supplied by the caller) are allocated via
// reflection since Go generics cannot default-construct an unknown pointee.
func unpackAny[T any](p Packet) (T, *status.Status) {
	var zero T
	var target interface{} = &zero

	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
		target = rv.Interface()
	}

	st := unpackInto(p, target)
	if !st.OK() {
		return zero, st
	}

	if rv.Kind() == reflect.Ptr {
		zero = rv.Interface().(T)
	}
	return zero, status.OK()
}

func unpackInto(p Packet, target interface{}) *status.Status {
	switch dst := target.(type) {
	case *string:
		if p.Header.Type != TypeString {
			return wrongType(p, TypeString)
		}
		*dst = string(p.Payload)
		return status.OK()

	case *JPEGFrame:
		if p.Header.Type != TypeJPEG {
			return wrongType(p, TypeJPEG)
		}
		*dst = JPEGFrame(p.Payload)
		return status.OK()

	case *RawImage:
		if p.Header.Type != TypeRawImage {
			return wrongType(p, TypeRawImage)
		}
		if p.Header.Descriptor.RawImage == nil {
			return status.New(codes.Internal, "raw image packet missing descriptor")
		}
		*dst = RawImage{Descriptor: *p.Header.Descriptor.RawImage, Data: p.Payload}
		return status.OK()

	case *GstreamerBuffer:
		if p.Header.Type != TypeGstreamerBuffer {
			return wrongType(p, TypeGstreamerBuffer)
		}
		caps := ""
		if p.Header.Descriptor.Gstreamer != nil {
			caps = p.Header.Descriptor.Gstreamer.Caps
		}
		*dst = GstreamerBuffer{Caps: caps, Data: p.Payload}
		return status.OK()

	case *ControlSignal:
		if p.Header.Type != TypeControlSignal {
			return wrongType(p, TypeControlSignal)
		}
		subType := ControlSubTypeUnknown
		if p.Header.Descriptor.Control != nil {
			subType = p.Header.Descriptor.Control.SubType
		}
		*dst = ControlSignal{SubType: subType, Data: p.Payload}
		return status.OK()

	case proto.Message:
		if p.Header.Type != TypeProtobuf {
			return wrongType(p, TypeProtobuf)
		}
		if err := proto.Unmarshal(p.Payload, dst); err != nil {
			return status.Newf(codes.InvalidArgument, "unmarshal packet payload: %v", err)
		}
		return status.OK()

	default:
		return status.Newf(codes.InvalidArgument, "unsupported view type %T", target)
	}
}

func wrongType(p Packet, want Type) *status.Status {
	return status.Newf(codes.FailedPrecondition, "packet has type %s, cannot adapt as %s", p.Header.Type, want)
}
