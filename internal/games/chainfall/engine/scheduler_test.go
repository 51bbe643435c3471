package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

func TestSchedulerOrdersByDeadline(t *testing.T) {
	s := engine.NewScheduler()
	var got []string
	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(100*time.Millisecond, func() { got = append(got, "b") })

	assert.Equal(t, 3, s.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, time.Second, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerPeriodic(t *testing.T) {
	s := engine.NewScheduler()
	var at []time.Duration
	s.Every(250*time.Millisecond, func() { at = append(at, s.Now()) })

	s.Advance(600 * time.Millisecond)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}, at)

	s.Advance(150 * time.Millisecond)
	assert.Len(t, at, 3)
	assert.Equal(t, 1, s.Pending())
}

func TestSchedulerCancel(t *testing.T) {
	s := engine.NewScheduler()
	fired := false
	id := s.After(time.Second, func() { fired = true })

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id))
	s.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestSchedulerChainsZeroDelayTimers(t *testing.T) {
	s := engine.NewScheduler()
	var got []time.Duration
	s.After(time.Second, func() {
		got = append(got, s.Now())
		s.After(0, func() {
			got = append(got, s.Now())
			s.After(500*time.Millisecond, func() { got = append(got, s.Now()) })
		})
	})

	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, got)

	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{time.Second, time.Second, 1500 * time.Millisecond}, got)
}

func TestSchedulerCallbackCancelsPeriodic(t *testing.T) {
	s := engine.NewScheduler()
	count := 0
	var id engine.TimerID
	id = s.Every(time.Second, func() {
		count++
		if count == 2 {
			s.Cancel(id)
		}
	})

	s.Advance(10 * time.Second)
	assert.Equal(t, 2, count)
}

func TestSchedulerReset(t *testing.T) {
	s := engine.NewScheduler()
	s.Every(time.Second, func() {})
	s.Advance(1500 * time.Millisecond)

	s.Reset()
	assert.Equal(t, time.Duration(0), s.Now())
	assert.Equal(t, 0, s.Pending())
}
