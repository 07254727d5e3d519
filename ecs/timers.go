package ecs

import (
	"container/heap"
	"time"
)

type timer struct {
	due time.Duration
	seq uint64
	fn  func()
}

type timerHeap []timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = timer{}
	*h = old[:n-1]
	return t
}

// Timers runs callbacks on the simulation clock rather than the wall clock,
// so a paused simulation also pauses its timers.
type Timers struct {
	now   time.Duration
	seq   uint64
	queue timerHeap
}

func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the time of the last Advance.
func (t *Timers) Now() time.Duration {
	return t.now
}

// After schedules fn to run once the clock reaches Now()+d. Timers due at
// the same time run in scheduling order.
func (t *Timers) After(d time.Duration, fn func()) {
	t.seq++
	heap.Push(&t.queue, timer{due: t.now + max(d, 0), seq: t.seq, fn: fn})
}

// Advance moves the clock to now and runs every timer that is due.
func (t *Timers) Advance(now time.Duration) {
	if now > t.now {
		t.now = now
	}
	for len(t.queue) > 0 && t.queue[0].due <= t.now {
		next := heap.Pop(&t.queue).(timer)
		next.fn()
	}
}

// Len returns the number of pending timers.
func (t *Timers) Len() int {
	return len(t.queue)
}

// Clear drops every pending timer without running it.
func (t *Timers) Clear() {
	clear(t.queue)
	t.queue = t.queue[:0]
}
