package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

func TestFixedClock_Frozen(t *testing.T) {
	clock := NewFixedClock(epoch)

	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch, clock.Now())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(epoch)

	clock.Advance(36 * time.Hour)
	assert.Equal(t, epoch.Add(36*time.Hour), clock.Now())

	later := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestFixedClock_ConcurrentAdvance(t *testing.T) {
	clock := NewFixedClock(epoch)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Minute)
		}()
	}
	wg.Wait()

	assert.Equal(t, epoch.Add(100*time.Minute), clock.Now())
}
