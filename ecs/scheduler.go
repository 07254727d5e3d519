package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           int64
	SimTime         time.Duration
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs systems in registration order. Each tick first fires due
// timers, then executes the systems, then flushes the event queue.
type Scheduler struct {
	registry    *Registry
	events      *Events
	timers      *Timers
	systems     []System
	systemStats []*systemStatsInternal

	now       time.Duration
	ticks     int64
	paused    bool
	timeScale float64
}

// NewScheduler creates a scheduler over the given registry with its own
// event queue and timers.
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry:  registry,
		events:    NewEvents(),
		timers:    NewTimers(),
		systems:   make([]System, 0),
		timeScale: 1,
	}
}

func (s *Scheduler) Registry() *Registry { return s.registry }

func (s *Scheduler) Events() *Events { return s.events }

func (s *Scheduler) Timers() *Timers { return s.timers }

// Register adds a system, named after its type.
func (s *Scheduler) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	s.RegisterNamed(systemType.Name(), system)
}

// RegisterNamed adds a system under an explicit name, useful for SystemFunc
// values.
func (s *Scheduler) RegisterNamed(name string, system System) {
	s.systems = append(s.systems, system)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Now returns the simulation time of the last tick.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// SetPaused stops or resumes the simulation clock used by Run.
func (s *Scheduler) SetPaused(paused bool) {
	s.paused = paused
}

func (s *Scheduler) Paused() bool {
	return s.paused
}

// SetTimeScale sets the multiplier applied to wall-clock time by Run.
// Negative values are treated as zero.
func (s *Scheduler) SetTimeScale(scale float64) {
	s.timeScale = max(scale, 0)
}

func (s *Scheduler) TimeScale() float64 {
	return s.timeScale
}

// Once executes one tick at absolute simulation time now, dt after the
// previous one.
func (s *Scheduler) Once(now, dt time.Duration) {
	s.now = now
	s.ticks++
	s.timers.Advance(now)

	frame := &UpdateFrame{
		Time:     now,
		Delta:    dt,
		Registry: s.registry,
		Events:   s.events,
		Timers:   s.timers,
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.events.Flush()
}

// Run ticks at the given wall-clock interval until the context is
// cancelled. The simulation clock advances by the elapsed wall time scaled
// by the time scale, and does not advance while paused.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(lastTime)
			lastTime = now
			if s.paused {
				continue
			}
			dt := time.Duration(float64(elapsed) * s.timeScale)
			s.Once(s.now+dt, dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		SimTime:     s.now,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
