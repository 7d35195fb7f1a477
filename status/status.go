// Package status carries the canonical error kinds used across every
// operation in this module. It is a thin wrapper over grpc's codes/status
// packages rather than a parallel taxonomy: every RPC in this SDK already
// speaks gRPC, so the canonical kind space is exactly codes.Code.
package status

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// Status carries a canonical kind and a human-readable message. It is the
// return shape for every fallible operation that is not already expressed
// as a plain Go error wrapping one of these.
type Status struct {
	kind codes.Code
	msg  string
}

// New builds a Status of the given kind.
func New(kind codes.Code, msg string) *Status {
	return &Status{kind: kind, msg: msg}
}

// Newf builds a Status of the given kind with a formatted message.
func Newf(kind codes.Code, format string, args ...interface{}) *Status {
	return New(kind, fmt.Sprintf(format, args...))
}

// OK is the canonical success status.
func OK() *Status { return New(codes.OK, "") }

// Kind returns the canonical error kind.
func (s *Status) Kind() codes.Code {
	if s == nil {
		return codes.OK
	}
	return s.kind
}

// Message returns the human-readable message.
func (s *Status) Message() string {
	if s == nil {
		return ""
	}
	return s.msg
}

// OK reports whether the status represents success.
func (s *Status) OK() bool {
	return s.Kind() == codes.OK
}

// Error implements the error interface so a *Status can be returned and
// compared anywhere a plain Go error is expected.
func (s *Status) Error() string {
	if s == nil || s.OK() {
		return ""
	}
	return fmt.Sprintf("%s: %s", s.kind, s.msg)
}

// Err returns nil if the status is OK, else the status itself as an error.
func (s *Status) Err() error {
	if s == nil || s.OK() {
		return nil
	}
	return s
}

// FromError maps any error into a *Status. gRPC errors (from status.Error /
// status.Errorf on the wire) are mapped one-to-one onto their codes.Code;
// anything else becomes Unknown; nil becomes OK.
func FromError(err error) *Status {
	if err == nil {
		return OK()
	}
	var s *Status
	if errors.As(err, &s) {
		return s
	}
	if gs, ok := grpcstatus.FromError(err); ok {
		return New(gs.Code(), gs.Message())
	}
	return New(codes.Unknown, err.Error())
}

// Is reports whether err carries the given canonical kind.
func Is(err error, kind codes.Code) bool {
	return FromError(err).Kind() == kind
}

// Wrap annotates an existing status-bearing error with additional context,
// preserving its kind.
func Wrap(err error, msg string) *Status {
	s := FromError(err)
	if s.OK() {
		return s
	}
	return New(s.kind, msg+": "+s.msg)
}
