package ecs

import "fmt"

// EntityId identifies an entity. Ids start at 1, are strictly increasing and
// are never reused within a Registry, even after removal. Zero is never a
// valid id.
type EntityId uint64

// Kind classifies an entity's role. It is fixed at creation.
type Kind uint8

const (
	KindLead Kind = iota + 1
	KindCar
	KindWeapon
	KindEnemy
	KindProjectile
	KindCollectible
	KindHardpoint
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{
	KindLead,
	KindCar,
	KindWeapon,
	KindEnemy,
	KindProjectile,
	KindCollectible,
	KindHardpoint,
}

func (k Kind) String() string {
	switch k {
	case KindLead:
		return "lead"
	case KindCar:
		return "car"
	case KindWeapon:
		return "weapon"
	case KindEnemy:
		return "enemy"
	case KindProjectile:
		return "projectile"
	case KindCollectible:
		return "collectible"
	case KindHardpoint:
		return "hardpoint"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entity is a lightweight handle: an id and its kind. Component data lives
// in the Registry's stores.
type Entity struct {
	Id   EntityId
	Kind Kind
}
