package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	b := New(10*time.Millisecond, 40*time.Millisecond, 2)
	assert.Equal(t, 10*time.Millisecond, b.Next())
	assert.Equal(t, 20*time.Millisecond, b.Next())
	assert.Equal(t, 40*time.Millisecond, b.Next())
	assert.Equal(t, 40*time.Millisecond, b.Next())
}

func TestBackoffReset(t *testing.T) {
	b := New(5*time.Millisecond, 100*time.Millisecond, 3)
	b.Next()
	b.Next()
	b.Reset()
	assert.Equal(t, 5*time.Millisecond, b.Next())
}
