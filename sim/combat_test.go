package sim_test

import (
	"testing"
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newCombat(f *fixture) *sim.CombatSystem {
	return sim.NewCombatSystem(f.grid, config.Default().Combat, nil)
}

func TestCombatTargetsNearestEnemy(t *testing.T) {
	f := newFixture()
	f.lead(200, 360)
	far := f.enemy(500, 360, 3)
	near := f.enemy(300, 360, 3)
	outOfRange := f.enemy(700, 360, 3)

	newCombat(f).Execute(f.frame(time.Second, 0))

	assert.Equal(t, 2.0, f.reg.Healths.Get(near).Current)
	assert.Equal(t, 3.0, f.reg.Healths.Get(far).Current)
	assert.Equal(t, 3.0, f.reg.Healths.Get(outOfRange).Current)
}

func TestCombatIgnoresNonEnemies(t *testing.T) {
	f := newFixture()
	lead := f.lead(200, 360)
	car := f.car(150, 360, 5)

	newCombat(f).Execute(f.frame(time.Second, 0))

	assert.Equal(t, 5.0, f.reg.Healths.Get(car).Current)
	assert.Equal(t, time.Duration(0), f.reg.Combats.Get(lead).LastFired)
}

func TestCombatCooldown(t *testing.T) {
	f := newFixture()
	lead := f.lead(200, 360)
	target := f.enemy(300, 360, 100)
	combat := newCombat(f)

	f.reg.Combats.Get(lead).LastFired = -800 * time.Millisecond
	combat.Execute(f.frame(0, 0))
	assert.Equal(t, 99.0, f.reg.Healths.Get(target).Current)

	for _, now := range []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, 799 * time.Millisecond} {
		combat.Execute(f.frame(now, 0))
		assert.Equal(t, 99.0, f.reg.Healths.Get(target).Current, "fired at %v", now)
	}

	combat.Execute(f.frame(800*time.Millisecond, 0))
	assert.Equal(t, 98.0, f.reg.Healths.Get(target).Current)
	assert.Equal(t, 800*time.Millisecond, f.reg.Combats.Get(lead).LastFired)
}

func TestCombatKill(t *testing.T) {
	f := newFixture()
	lead := f.lead(200, 360)
	target := f.enemy(300, 360, 1)
	combat := newCombat(f)

	var killed []ecs.EntityId
	var killX, killY float64
	combat.OnEnemyKilled = func(id ecs.EntityId, x, y float64) {
		killed = append(killed, id)
		killX, killY = x, y
		assert.True(t, f.reg.Has(id), "callback runs before removal")
	}

	combat.Execute(f.frame(time.Second, 0))

	assert.Equal(t, []ecs.EntityId{target}, killed)
	assert.Equal(t, 300.0, killX)
	assert.Equal(t, 360.0, killY)
	assert.False(t, f.reg.Has(target))
	assert.False(t, f.grid.Has(target))
	assert.Equal(t, 10.0, f.reg.Healths.Get(lead).Current, "kill outside explosion radius")

	events := f.drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventKilled, events[0].Kind)
}

func TestCombatAreaDamageArmorScaling(t *testing.T) {
	tests := []struct {
		name  string
		armor float64
		want  float64
	}{
		{"no armor", 0, 9},
		{"full armor", 1, 10},
		{"over full armor", 3, 10},
		{"partial armor rounds up", 0.5, 9},
		{"negative armor clamps", -2, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			lead := f.lead(200, 360)
			f.enemy(250, 360, 1)
			combat := newCombat(f)
			combat.SetArmor(tt.armor)

			combat.Execute(f.frame(time.Second, 0))

			assert.Equal(t, tt.want, f.reg.Healths.Get(lead).Current)
		})
	}
}

func TestCombatEnemyExplosionStats(t *testing.T) {
	f := newFixture()
	lead := f.lead(200, 360)
	target := f.enemy(320, 360, 1)
	f.reg.Enemies.Set(target, ecs.Enemy{Type: ecs.EnemyBloater, ExplosionRadius: 150, ExplosionDamage: 2})

	newCombat(f).Execute(f.frame(time.Second, 0))

	assert.Equal(t, 8.0, f.reg.Healths.Get(lead).Current)
}

type recordingSink struct {
	amounts []float64
}

func (s *recordingSink) RouteDamage(_ *ecs.Registry, amount float64) {
	s.amounts = append(s.amounts, amount)
}

func TestCombatRoutesAreaDamageToSink(t *testing.T) {
	f := newFixture()
	lead := f.lead(200, 360)
	f.enemy(250, 360, 1)
	sink := &recordingSink{}
	combat := newCombat(f)
	combat.Sink = sink

	combat.Execute(f.frame(time.Second, 0))

	assert.Equal(t, []float64{1}, sink.amounts)
	assert.Equal(t, 10.0, f.reg.Healths.Get(lead).Current)
}

func TestCombatTieBreak(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture()
		f.lead(200, 360)
		a := f.enemy(300, 360, 3)
		b := f.enemy(100, 360, 3)

		newCombat(f).Execute(f.frame(time.Second, 0))

		damaged := 0
		for _, id := range []ecs.EntityId{a, b} {
			if f.reg.Healths.Get(id).Current < 3 {
				damaged++
			}
		}
		require.Equal(t, 1, damaged)
	}
}

func TestCombatWithoutLead(t *testing.T) {
	f := newFixture()
	target := f.enemy(300, 360, 3)

	assert.NotPanics(t, func() { newCombat(f).Execute(f.frame(time.Second, 0)) })
	assert.Equal(t, 3.0, f.reg.Healths.Get(target).Current)
}

func TestSetArmorWarnsOnNegative(t *testing.T) {
	f := newFixture()
	core, logs := observer.New(zap.WarnLevel)
	combat := sim.NewCombatSystem(f.grid, config.Default().Combat, zap.New(core))

	combat.SetArmor(-0.5)
	assert.Equal(t, 1.0, combat.ArmorMultiplier())
	assert.Equal(t, 1, logs.Len())

	combat.SetArmor(0.25)
	assert.Equal(t, 0.75, combat.ArmorMultiplier())
	assert.Equal(t, 1, logs.Len())
}
