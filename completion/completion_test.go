package completion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"

	"github.com/packetstream/client-go/status"
)

func TestInitiallyCompleted(t *testing.T) {
	s := New()
	assert.True(t, s.IsCompleted())
	assert.True(t, s.WaitUntilCompleted(0))
}

func TestStartThenEnd(t *testing.T) {
	s := New()
	s.Start()
	assert.False(t, s.IsCompleted())

	done := make(chan bool, 1)
	go func() {
		done <- s.WaitUntilCompleted(time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	s.End(status.New(codes.Internal, "boom"))

	assert.True(t, <-done)
	assert.Equal(t, codes.Internal, s.GetStatus().Kind())
}

func TestWaitUntilCompletedTimesOut(t *testing.T) {
	s := New()
	s.Start()
	assert.False(t, s.WaitUntilCompleted(20*time.Millisecond))
}

func TestStartAndEndAreIdempotent(t *testing.T) {
	s := New()
	s.Start()
	s.Start()
	s.End(status.OK())
	s.End(status.New(codes.Internal, "ignored"))
	assert.True(t, s.OKStatus())
}

// OKStatus is a tiny test helper wrapping GetStatus().OK() for readability.
func (s *Signal) OKStatus() bool {
	return s.GetStatus().OK()
}
