package ecs

import (
	"fmt"
	"time"
)

// Position is a world-space location in units; Rotation is in radians.
type Position struct {
	X, Y     float64
	Rotation float64
}

type Health struct {
	Current float64
	Max     float64
}

// Dead reports whether the entity has run out of health.
func (h *Health) Dead() bool {
	return h.Current <= 0
}

// Velocity is expressed in units per second.
type Velocity struct {
	VX, VY float64
}

// Combat describes the lead's built-in gun. LastFired is the absolute
// simulation time of the last shot.
type Combat struct {
	Damage       float64
	Range        float64
	FireInterval time.Duration
	LastFired    time.Duration
}

// Ready reports whether the cooldown has elapsed at now.
func (c *Combat) Ready(now time.Duration) bool {
	return now-c.LastFired >= c.FireInterval
}

type Collectible struct {
	Value float64
}

// Composition is attached to a lead and lists its trailing cars, front to
// rear.
type Composition struct {
	Cars []EntityId
}

type CarType uint8

const (
	CarEngine CarType = iota
	CarGun
	CarCargo
)

func (c CarType) String() string {
	switch c {
	case CarEngine:
		return "engine"
	case CarGun:
		return "gun"
	case CarCargo:
		return "cargo"
	default:
		return fmt.Sprintf("car(%d)", uint8(c))
	}
}

// TrainCar is attached to a trailing car. Slot is its index in the
// composition, the lead being slot 0.
type TrainCar struct {
	Type       CarType
	Slot       int
	Hardpoints []EntityId
}

// Hardpoint is a weapon mount on a car, offset from the car's position.
// Weapon is zero when nothing is mounted.
type Hardpoint struct {
	Weapon  EntityId
	OffsetX float64
	OffsetY float64
}

type WeaponType uint8

const (
	WeaponDefault WeaponType = iota
	WeaponGatling
	WeaponCannon
)

func (w WeaponType) String() string {
	switch w {
	case WeaponDefault:
		return "default"
	case WeaponGatling:
		return "gatling"
	case WeaponCannon:
		return "cannon"
	default:
		return fmt.Sprintf("weapon(%d)", uint8(w))
	}
}

// Weapon is a hardpoint-mounted gun that fires independently of the lead.
type Weapon struct {
	Type         WeaponType
	Damage       float64
	Range        float64
	FireInterval time.Duration
	LastFired    time.Duration
}

// Ready reports whether the cooldown has elapsed at now.
func (w *Weapon) Ready(now time.Duration) bool {
	return now-w.LastFired >= w.FireInterval
}

type EnemyType uint8

const (
	EnemyShambler EnemyType = iota
	EnemyBloater
	EnemyRunner
)

func (e EnemyType) String() string {
	switch e {
	case EnemyShambler:
		return "shambler"
	case EnemyBloater:
		return "bloater"
	case EnemyRunner:
		return "runner"
	default:
		return fmt.Sprintf("enemy(%d)", uint8(e))
	}
}

// Enemy carries the per-type stats used when the enemy dies.
type Enemy struct {
	Type            EnemyType
	ExplosionRadius float64
	ExplosionDamage float64
	ScrapDrop       float64
}

// Visual holds an opaque handle owned by the render layer.
type Visual struct {
	Handle any
}

// PositionSyncer is implemented by visual handles that mirror the entity's
// position.
type PositionSyncer interface {
	SyncPosition(x, y float64)
}

// Releaser is implemented by visual handles that hold resources which must
// be freed when the entity is removed.
type Releaser interface {
	Release()
}

// SyncPosition forwards a position change to the handle if it supports it.
func (v *Visual) SyncPosition(x, y float64) {
	if s, ok := v.Handle.(PositionSyncer); ok {
		s.SyncPosition(x, y)
	}
}

func (v *Visual) release() {
	if r, ok := v.Handle.(Releaser); ok {
		r.Release()
	}
}
