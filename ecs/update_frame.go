package ecs

import "time"

// UpdateFrame is passed to every system on each tick. Time is the absolute
// simulation time and Delta the time elapsed since the previous tick.
type UpdateFrame struct {
	Time     time.Duration
	Delta    time.Duration
	Registry *Registry
	Events   *Events
	Timers   *Timers
}
