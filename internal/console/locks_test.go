package console

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockRegistry_BeginTwiceFails(t *testing.T) {
	l := NewLockRegistry()

	assert.True(t, l.Begin("abc123"))
	assert.False(t, l.Begin("abc123"))
	assert.True(t, l.Locked("abc123"))

	l.End("abc123")
	assert.False(t, l.Locked("abc123"))
	assert.True(t, l.Begin("abc123"))
}

func TestLockRegistry_EndIsIdempotentAndRemovesEntries(t *testing.T) {
	l := NewLockRegistry()

	l.End("never-locked")
	assert.True(t, l.Begin("a"))
	l.End("a")
	l.End("a")

	assert.Zero(t, l.Len())
	assert.Empty(t, l.Held())
}

func TestLockRegistry_IndependentIDs(t *testing.T) {
	l := NewLockRegistry()

	assert.True(t, l.Begin("b"))
	assert.True(t, l.Begin("a"))
	assert.Equal(t, []string{"a", "b"}, l.Held())
}

func TestLockRegistry_ConcurrentBeginSingleWinner(t *testing.T) {
	l := NewLockRegistry()
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Begin("abc123") {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}
