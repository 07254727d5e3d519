package sim

import "github.com/plus3/ironrails/ecs"

// WeaponSystem fires every mounted weapon independently at the nearest
// enemy within its range. Kills go through the same callback as the lead's
// gun but mounted weapons take no explosion damage.
type WeaponSystem struct {
	Grid          *Grid
	OnEnemyKilled func(id ecs.EntityId, x, y float64)
}

func NewWeaponSystem(grid *Grid) *WeaponSystem {
	return &WeaponSystem{Grid: grid}
}

func (s *WeaponSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry

	for _, e := range reg.ByKind(ecs.KindWeapon) {
		weapon := reg.Weapons.Get(e.Id)
		pos := reg.Positions.Get(e.Id)
		if weapon == nil || pos == nil {
			continue
		}
		if !weapon.Ready(frame.Time) {
			continue
		}

		target, ok := nearestEnemy(reg, s.Grid, pos.X, pos.Y, weapon.Range)
		if !ok {
			continue
		}
		health := reg.Healths.Get(target)
		if health == nil {
			continue
		}

		health.Current = max(0, health.Current-weapon.Damage)
		weapon.LastFired = frame.Time
		if health.Dead() {
			kill(frame, target, s.OnEnemyKilled)
		}
	}
}
