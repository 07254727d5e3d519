package sim_test

import (
	"time"

	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
)

type fixture struct {
	reg    *ecs.Registry
	grid   *sim.Grid
	events *ecs.Events
	timers *ecs.Timers
}

func newFixture() *fixture {
	reg := ecs.NewRegistry()
	return &fixture{
		reg:    reg,
		grid:   sim.NewGrid(reg, 100),
		events: ecs.NewEvents(),
		timers: ecs.NewTimers(),
	}
}

func (f *fixture) frame(now time.Duration, delta time.Duration) *ecs.UpdateFrame {
	f.timers.Advance(now)
	return &ecs.UpdateFrame{
		Time:     now,
		Delta:    delta,
		Registry: f.reg,
		Events:   f.events,
		Timers:   f.timers,
	}
}

func (f *fixture) lead(x, y float64) ecs.EntityId {
	e := f.reg.Create(ecs.KindLead)
	f.reg.Positions.Set(e.Id, ecs.Position{X: x, Y: y})
	f.reg.Healths.Set(e.Id, ecs.Health{Current: 10, Max: 10})
	f.reg.Combats.Set(e.Id, ecs.Combat{Damage: 1, Range: 400, FireInterval: 800 * time.Millisecond})
	f.grid.Insert(e.Id, x, y)
	return e.Id
}

func (f *fixture) enemy(x, y, hp float64) ecs.EntityId {
	e := f.reg.Create(ecs.KindEnemy)
	f.reg.Positions.Set(e.Id, ecs.Position{X: x, Y: y})
	f.reg.Healths.Set(e.Id, ecs.Health{Current: hp, Max: hp})
	f.reg.Velocities.Set(e.Id, ecs.Velocity{VX: -30})
	f.grid.Insert(e.Id, x, y)
	return e.Id
}

func (f *fixture) car(x, y, hp float64) ecs.EntityId {
	e := f.reg.Create(ecs.KindCar)
	f.reg.Positions.Set(e.Id, ecs.Position{X: x, Y: y})
	f.reg.Healths.Set(e.Id, ecs.Health{Current: hp, Max: hp})
	f.grid.Insert(e.Id, x, y)
	return e.Id
}

func (f *fixture) drain() []ecs.Event {
	var got []ecs.Event
	f.events.Subscribe(func(ev ecs.Event) { got = append(got, ev) })
	f.events.Flush()
	return got
}

type sprite struct {
	x, y     float64
	syncs    int
	released bool
}

func (s *sprite) SyncPosition(x, y float64) {
	s.x, s.y = x, y
	s.syncs++
}

func (s *sprite) Release() {
	s.released = true
}

type spriteFactory struct {
	sprites map[ecs.EntityId]*sprite
}

func newSpriteFactory() *spriteFactory {
	return &spriteFactory{sprites: make(map[ecs.EntityId]*sprite)}
}

func (f *spriteFactory) NewVisual(e ecs.Entity, x, y float64) any {
	s := &sprite{x: x, y: y}
	f.sprites[e.Id] = s
	return s
}
