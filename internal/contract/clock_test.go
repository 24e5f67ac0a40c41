package contract

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2023, time.March, 31, 12, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	assert.Equal(t, start, clock.Now())

	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())
}

func TestManualClockConcurrentAdvance(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	clock := NewManualClock(start)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() { clock.Advance(time.Second) })
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Second), clock.Now())
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	got := SystemClock{}.Now()
	assert.False(t, got.Before(before))
}
