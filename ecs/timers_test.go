package ecs_test

import (
	"testing"
	"time"

	"github.com/plus3/ironrails/ecs"
	"github.com/stretchr/testify/assert"
)

func TestTimers(t *testing.T) {
	t.Run("fires once due", func(t *testing.T) {
		timers := ecs.NewTimers()
		fired := 0
		timers.After(10*time.Second, func() { fired++ })

		timers.Advance(9999 * time.Millisecond)
		assert.Equal(t, 0, fired)

		timers.Advance(10 * time.Second)
		assert.Equal(t, 1, fired)

		timers.Advance(20 * time.Second)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 0, timers.Len())
	})

	t.Run("relative to the current clock", func(t *testing.T) {
		timers := ecs.NewTimers()
		timers.Advance(5 * time.Second)

		fired := false
		timers.After(time.Second, func() { fired = true })
		timers.Advance(5500 * time.Millisecond)
		assert.False(t, fired)
		timers.Advance(6 * time.Second)
		assert.True(t, fired)
	})

	t.Run("due order then scheduling order", func(t *testing.T) {
		timers := ecs.NewTimers()
		var order []string
		timers.After(2*time.Second, func() { order = append(order, "late") })
		timers.After(time.Second, func() { order = append(order, "a") })
		timers.After(time.Second, func() { order = append(order, "b") })

		timers.Advance(3 * time.Second)
		assert.Equal(t, []string{"a", "b", "late"}, order)
	})

	t.Run("clock never runs backwards", func(t *testing.T) {
		timers := ecs.NewTimers()
		timers.Advance(4 * time.Second)
		timers.Advance(time.Second)
		assert.Equal(t, 4*time.Second, timers.Now())
	})

	t.Run("clear", func(t *testing.T) {
		timers := ecs.NewTimers()
		fired := false
		timers.After(time.Second, func() { fired = true })
		timers.Clear()
		timers.Advance(time.Minute)

		assert.False(t, fired)
	})
}
