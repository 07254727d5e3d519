package sim

import (
	"math"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"go.uber.org/zap"
)

// DamageSink absorbs area damage aimed at the convoy.
type DamageSink interface {
	RouteDamage(reg *ecs.Registry, amount float64)
}

// CombatSystem fires the lead's gun at the nearest enemy in range. A kill
// within the enemy's explosion radius chips the attacker, scaled by armor.
type CombatSystem struct {
	Grid *Grid

	// OnEnemyKilled is called with the dead enemy's id and position before
	// the enemy is removed.
	OnEnemyKilled func(id ecs.EntityId, x, y float64)

	// Sink, when set, receives explosion damage instead of the attacker's
	// own Health.
	Sink DamageSink

	explosionRadius float64
	explosionDamage float64
	armorMultiplier float64
	logger          *zap.Logger
}

func NewCombatSystem(grid *Grid, cfg config.CombatConfig, logger *zap.Logger) *CombatSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CombatSystem{
		Grid:            grid,
		explosionRadius: cfg.ExplosionRadius,
		explosionDamage: cfg.ExplosionDamage,
		armorMultiplier: 1,
		logger:          logger,
	}
}

// SetArmor sets the fraction of explosion damage absorbed. Negative values
// are clamped to 0 and values above 1 give full immunity.
func (s *CombatSystem) SetArmor(armor float64) {
	if armor < 0 || math.IsNaN(armor) {
		s.logger.Warn("negative armor clamped to zero", zap.Float64("armor", armor))
		armor = 0
	}
	s.armorMultiplier = 1 - min(armor, 1)
}

// ArmorMultiplier returns the factor applied to explosion damage.
func (s *CombatSystem) ArmorMultiplier() float64 {
	return s.armorMultiplier
}

func (s *CombatSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry
	lead, ok := reg.First(ecs.KindLead)
	if !ok {
		return
	}
	combat := reg.Combats.Get(lead.Id)
	pos := reg.Positions.Get(lead.Id)
	if combat == nil || pos == nil {
		return
	}
	if !combat.Ready(frame.Time) {
		return
	}

	target, ok := nearestEnemy(reg, s.Grid, pos.X, pos.Y, combat.Range)
	if !ok {
		return
	}
	combat.LastFired = frame.Time

	health := reg.Healths.Get(target)
	if health == nil {
		return
	}
	health.Current -= combat.Damage
	if !health.Dead() {
		return
	}

	tpos := reg.Positions.Get(target)
	radius, damage := s.explosionRadius, s.explosionDamage
	if enemy := reg.Enemies.Get(target); enemy != nil {
		radius, damage = enemy.ExplosionRadius, enemy.ExplosionDamage
	}
	if math.Hypot(tpos.X-pos.X, tpos.Y-pos.Y) <= radius {
		s.explode(reg, lead.Id, damage)
	}

	kill(frame, target, s.OnEnemyKilled)
}

func (s *CombatSystem) explode(reg *ecs.Registry, attacker ecs.EntityId, damage float64) {
	amount := math.Ceil(damage * s.armorMultiplier)
	if amount <= 0 {
		return
	}

	if s.Sink != nil {
		s.Sink.RouteDamage(reg, amount)
		return
	}
	if h := reg.Healths.Get(attacker); h != nil {
		h.Current -= amount
	}
}

// kill notifies the callback and removes a dead enemy. The registry's
// listeners drop it from the grid before kill returns.
func kill(frame *ecs.UpdateFrame, target ecs.EntityId, onKilled func(ecs.EntityId, float64, float64)) {
	reg := frame.Registry
	e, _ := reg.Get(target)
	var x, y float64
	if pos := reg.Positions.Get(target); pos != nil {
		x, y = pos.X, pos.Y
	}

	if onKilled != nil {
		onKilled(target, x, y)
	}
	reg.Remove(target)
	frame.Events.Emit(ecs.Event{Kind: ecs.EventKilled, Entity: e, Time: frame.Time, X: x, Y: y})
}
