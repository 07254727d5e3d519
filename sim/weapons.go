package sim

import (
	"fmt"
	"time"

	"github.com/plus3/ironrails/ecs"
)

// WeaponPreset returns a ready-to-fire weapon of the given type.
func WeaponPreset(t ecs.WeaponType) ecs.Weapon {
	switch t {
	case ecs.WeaponGatling:
		return ecs.Weapon{Type: t, Damage: 0.5, Range: 350, FireInterval: 400 * time.Millisecond}
	case ecs.WeaponCannon:
		return ecs.Weapon{Type: t, Damage: 5, Range: 450, FireInterval: 2 * time.Second}
	default:
		return ecs.Weapon{Type: ecs.WeaponDefault, Damage: 1, Range: 400, FireInterval: 800 * time.Millisecond}
	}
}

// ParseWeaponType maps a config name to a weapon type.
func ParseWeaponType(name string) (ecs.WeaponType, error) {
	for _, t := range []ecs.WeaponType{ecs.WeaponDefault, ecs.WeaponGatling, ecs.WeaponCannon} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown weapon type %q", name)
}

// ParseCarType maps a config name to a car type.
func ParseCarType(name string) (ecs.CarType, error) {
	for _, t := range []ecs.CarType{ecs.CarEngine, ecs.CarGun, ecs.CarCargo} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown car type %q", name)
}
