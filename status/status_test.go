package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func TestOK(t *testing.T) {
	s := OK()
	assert.True(t, s.OK())
	assert.NoError(t, s.Err())
	assert.Equal(t, codes.OK, s.Kind())
}

func TestNewAndErr(t *testing.T) {
	s := New(codes.NotFound, "no packet available")
	assert.False(t, s.OK())
	assert.Equal(t, codes.NotFound, s.Kind())
	err := s.Err()
	assert.Error(t, err)
	assert.Equal(t, s, FromError(err))
}

func TestFromErrorMapsGrpcStatus(t *testing.T) {
	grpcErr := grpcstatus.Error(codes.DeadlineExceeded, "timed out")
	s := FromError(grpcErr)
	assert.Equal(t, codes.DeadlineExceeded, s.Kind())
	assert.Equal(t, "timed out", s.Message())
}

func TestFromErrorUnknownFallback(t *testing.T) {
	s := FromError(errors.New("boom"))
	assert.Equal(t, codes.Unknown, s.Kind())
}

func TestFromErrorNil(t *testing.T) {
	assert.True(t, FromError(nil).OK())
}

func TestIs(t *testing.T) {
	err := New(codes.Cancelled, "cancelled by caller").Err()
	assert.True(t, Is(err, codes.Cancelled))
	assert.False(t, Is(err, codes.Internal))
}

func TestWrapPreservesKind(t *testing.T) {
	err := New(codes.Unavailable, "connection reset").Err()
	wrapped := Wrap(err, "subscribe loop")
	assert.Equal(t, codes.Unavailable, wrapped.Kind())
	assert.Contains(t, wrapped.Message(), "subscribe loop")
	assert.Contains(t, wrapped.Message(), "connection reset")
}
