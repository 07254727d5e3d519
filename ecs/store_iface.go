package ecs

// iComponentStorage is the type-erased view of a Store used by the Registry
// to drop every component of a removed entity and to inspect components by
// name.
type iComponentStorage interface {
	Name() string
	lookup(id EntityId) any
	Remove(id EntityId) bool
	Has(id EntityId) bool
	Len() int
	Clear()
}
