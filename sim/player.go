package sim

import (
	"math"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"go.uber.org/zap"
)

const (
	baseMaxSpeed     = 50.0
	baseAcceleration = 20.0
)

// PlayerSystem accelerates the lead toward its top speed and regenerates
// its health from upgrades.
type PlayerSystem struct {
	MaxSpeed     float64
	Acceleration float64
	Regen        float64

	regenAccumulator float64
}

// NewPlayerSystem derives speed, acceleration and regeneration from
// upgrades. Negative upgrade values are clamped to zero.
func NewPlayerSystem(upgrades config.Upgrades, logger *zap.Logger) *PlayerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	clamp := func(name string, v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			logger.Warn("negative upgrade clamped to zero", zap.String("upgrade", name), zap.Float64("value", v))
			return 0
		}
		return v
	}
	return &PlayerSystem{
		MaxSpeed:     baseMaxSpeed * (1 + clamp("max_speed", upgrades.MaxSpeed)),
		Acceleration: baseAcceleration * (1 + clamp("acceleration", upgrades.Acceleration)),
		Regen:        clamp("regen", upgrades.Regen),
	}
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry
	lead, ok := reg.First(ecs.KindLead)
	if !ok {
		return
	}
	dt := frame.Delta.Seconds()

	if vel := reg.Velocities.Get(lead.Id); vel != nil && vel.VX < s.MaxSpeed {
		vel.VX = min(vel.VX+s.Acceleration*dt, s.MaxSpeed)
	}

	health := reg.Healths.Get(lead.Id)
	if health == nil || s.Regen <= 0 {
		return
	}
	s.regenAccumulator += s.Regen * dt
	if s.regenAccumulator < 1 {
		return
	}
	whole := math.Floor(s.regenAccumulator)
	s.regenAccumulator -= whole
	if health.Current < health.Max {
		health.Current = min(health.Current+whole, health.Max)
	}
}
