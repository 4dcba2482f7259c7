package permit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAcquireRelease(t *testing.T) {
	c := NewCoordinator()

	assert.True(t, c.Acquire("s1"))
	assert.True(t, c.Held("s1"))

	// Second acquire for the same session is refused, not queued
	assert.False(t, c.Acquire("s1"))

	c.Release("s1")
	assert.False(t, c.Held("s1"))
	assert.True(t, c.Acquire("s1"))
	c.Release("s1")
}

func TestDistinctSessionsDoNotContend(t *testing.T) {
	c := NewCoordinator()

	assert.True(t, c.Acquire("s1"))
	assert.True(t, c.Acquire("s2"))
	assert.True(t, c.Acquire("s3"))

	c.Release("s1")
	c.Release("s2")
	c.Release("s3")
}

func TestReleaseWithoutAcquireIsHarmless(t *testing.T) {
	c := NewCoordinator()
	c.Release("never-acquired")
	assert.True(t, c.Acquire("never-acquired"))
	c.Release("never-acquired")
}

// Concurrent turns for the same session: exactly one wins, the rest get an
// immediate refusal. Never two winners, never a deadlock.
func TestConcurrentAcquireSingleWinner(t *testing.T) {
	c := NewCoordinator()

	const attempts = 64
	var granted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Acquire("shared") {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), granted.Load())
	c.Release("shared")
	assert.True(t, c.Acquire("shared"))
	c.Release("shared")
}

// A long turn on one session must not delay turns on another.
func TestCrossSessionIndependence(t *testing.T) {
	c := NewCoordinator()

	assert.True(t, c.Acquire("slow"))
	defer c.Release("slow")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if !c.Acquire("fast") {
				t.Error("fast session refused while only slow session holds a permit")
				return
			}
			c.Release("fast")
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fast session blocked behind slow session")
	}
}
