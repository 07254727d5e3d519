package sim_test

import (
	"testing"
	"time"

	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovement(t *testing.T) {
	f := newFixture()
	id := f.enemy(1000, 300, 3)
	s := &sprite{}
	f.reg.Visuals.Set(id, ecs.Visual{Handle: s})

	movement := sim.NewMovementSystem(f.grid)
	movement.Execute(f.frame(500*time.Millisecond, 500*time.Millisecond))

	pos := f.reg.Positions.Get(id)
	assert.InDelta(t, 985.0, pos.X, 1e-9)
	assert.Equal(t, 300.0, pos.Y)

	assert.Equal(t, 1, s.syncs)
	assert.InDelta(t, 985.0, s.x, 1e-9)

	x, y, ok := f.grid.Position(id)
	require.True(t, ok)
	assert.Equal(t, pos.X, x)
	assert.Equal(t, pos.Y, y)
}

func TestMovementIndexesUntrackedMovers(t *testing.T) {
	f := newFixture()
	e := f.reg.Create(ecs.KindProjectile)
	f.reg.Positions.Set(e.Id, ecs.Position{X: 0, Y: 0})
	f.reg.Velocities.Set(e.Id, ecs.Velocity{VX: 100, VY: 100})

	sim.NewMovementSystem(f.grid).Execute(f.frame(time.Second, time.Second))

	assert.Equal(t, []ecs.EntityId{e.Id}, f.grid.QueryRadius(100, 100, 1))
}

func TestMovementSkipsEntitiesWithoutVelocity(t *testing.T) {
	f := newFixture()
	id := f.car(50, 50, 5)

	sim.NewMovementSystem(f.grid).Execute(f.frame(time.Second, time.Second))

	assert.Equal(t, ecs.Position{X: 50, Y: 50}, *f.reg.Positions.Get(id))
}
