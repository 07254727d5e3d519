package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	carTypes    = []string{"gun", "cargo"}
	weaponTypes = []string{"default", "gatling", "cannon"}
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate reports every problem found, joined into one error. Upgrade
// values are not checked here; the systems clamp them.
func (c *Config) Validate() error {
	var errs []error

	if c.Level < 1 {
		errs = append(errs, invalid("level must be at least 1, got %d", c.Level))
	}
	if !positive(c.Grid.CellSize) {
		errs = append(errs, invalid("grid.cell_size must be positive, got %v", c.Grid.CellSize))
	}
	if !positive(c.Lead.Health) {
		errs = append(errs, invalid("lead.health must be positive, got %v", c.Lead.Health))
	}
	if c.Lead.Damage < 0 {
		errs = append(errs, invalid("lead.damage must not be negative, got %v", c.Lead.Damage))
	}
	if c.Lead.Range < 0 {
		errs = append(errs, invalid("lead.range must not be negative, got %v", c.Lead.Range))
	}
	if c.Lead.FireInterval < 0 {
		errs = append(errs, invalid("lead.fire_interval must not be negative, got %v", c.Lead.FireInterval))
	}

	for i, car := range c.Cars {
		if !slices.Contains(carTypes, car.Type) {
			errs = append(errs, invalid("cars[%d].type %q is not one of %v", i, car.Type, carTypes))
		}
		if !positive(car.Health) {
			errs = append(errs, invalid("cars[%d].health must be positive, got %v", i, car.Health))
		}
		for j, hp := range car.Hardpoints {
			if hp.Weapon != "" && !slices.Contains(weaponTypes, hp.Weapon) {
				errs = append(errs, invalid("cars[%d].hardpoints[%d].weapon %q is not one of %v", i, j, hp.Weapon, weaponTypes))
			}
		}
	}

	if c.Train.CarSpacing < 0 {
		errs = append(errs, invalid("train.car_spacing must not be negative, got %v", c.Train.CarSpacing))
	}
	if c.Spawner.Interval <= 0 {
		errs = append(errs, invalid("spawner.interval must be positive, got %v", c.Spawner.Interval))
	}
	if c.Spawner.MinY > c.Spawner.MaxY {
		errs = append(errs, invalid("spawner.min_y %v exceeds spawner.max_y %v", c.Spawner.MinY, c.Spawner.MaxY))
	}
	if c.Combat.ExplosionRadius < 0 {
		errs = append(errs, invalid("combat.explosion_radius must not be negative, got %v", c.Combat.ExplosionRadius))
	}
	if c.Scrap.CollectionRadius < 0 {
		errs = append(errs, invalid("scrap.collection_radius must not be negative, got %v", c.Scrap.CollectionRadius))
	}
	if c.Scrap.Lifetime <= 0 {
		errs = append(errs, invalid("scrap.lifetime must be positive, got %v", c.Scrap.Lifetime))
	}
	if c.Run.Step <= 0 {
		errs = append(errs, invalid("run.step must be positive, got %v", c.Run.Step))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		errs = append(errs, invalid("log.encoding must be json or console, got %q", c.Log.Encoding))
	}

	return errors.Join(errs...)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
