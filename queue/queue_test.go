package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPushPopFIFOOrder(t *testing.T) {
	q := New[int](10)
	for i := 0; i < 5; i++ {
		assert.True(t, q.Push(i, time.Second))
	}
	for i := 0; i < 5; i++ {
		v, ok := q.TryPop(time.Second)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestCapacityBound(t *testing.T) {
	q := New[int](2)
	assert.True(t, q.TryPush(1))
	assert.True(t, q.TryPush(2))
	assert.False(t, q.TryPush(3))
	assert.Equal(t, 2, q.Count())
	assert.Equal(t, 2, q.Capacity())
}

func TestPushTimeoutOnFullQueue(t *testing.T) {
	q := New[int](1)
	assert.True(t, q.TryPush(1))
	start := time.Now()
	ok := q.Push(2, 30*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPopTimeoutOnEmptyQueue(t *testing.T) {
	q := New[int](1)
	_, ok := q.TryPop(20 * time.Millisecond)
	assert.False(t, ok)
}

func TestPushUnblocksWaitingPop(t *testing.T) {
	q := New[int](1)
	var wg sync.WaitGroup
	wg.Add(1)
	var got int
	go func() {
		defer wg.Done()
		got = q.Pop()
	}()
	time.Sleep(10 * time.Millisecond)
	q.Emplace(42)
	wg.Wait()
	assert.Equal(t, 42, got)
}

func TestConcurrentPushPopPreservesOrder(t *testing.T) {
	q := New[int](4)
	const n = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Emplace(i)
		}
	}()

	results := make([]int, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, q.Pop())
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, i, results[i])
	}
}

func TestTryPushNeverBlocksAndDropsOnFull(t *testing.T) {
	q := New[int](1)
	assert.True(t, q.TryPush(1))
	assert.False(t, q.TryPush(2))
	v, ok := q.TryPop(time.Second)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
