package ecs

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
)

// Registry owns every live entity and its components. Each component type
// has its own sparse Store, exposed as a field.
//
// Registry is not safe for concurrent use.
type Registry struct {
	nextId    EntityId
	kinds     *intmap.Map[EntityId, Kind]
	byKind    map[Kind]*intmap.Set[EntityId]
	listeners []func(Entity)
	stores    []iComponentStorage

	Positions    *Store[Position]
	Healths      *Store[Health]
	Velocities   *Store[Velocity]
	Combats      *Store[Combat]
	Collectibles *Store[Collectible]
	Compositions *Store[Composition]
	TrainCars    *Store[TrainCar]
	Hardpoints   *Store[Hardpoint]
	Weapons      *Store[Weapon]
	Enemies      *Store[Enemy]
	Visuals      *Store[Visual]
}

// NewRegistry creates an empty registry. The first entity created gets id 1.
func NewRegistry() *Registry {
	r := &Registry{
		kinds:  intmap.New[EntityId, Kind](1024),
		byKind: make(map[Kind]*intmap.Set[EntityId], len(Kinds)),

		Positions:    NewStore[Position]("Position"),
		Healths:      NewStore[Health]("Health"),
		Velocities:   NewStore[Velocity]("Velocity"),
		Combats:      NewStore[Combat]("Combat"),
		Collectibles: NewStore[Collectible]("Collectible"),
		Compositions: NewStore[Composition]("Composition"),
		TrainCars:    NewStore[TrainCar]("TrainCar"),
		Hardpoints:   NewStore[Hardpoint]("Hardpoint"),
		Weapons:      NewStore[Weapon]("Weapon"),
		Enemies:      NewStore[Enemy]("Enemy"),
		Visuals:      NewStore[Visual]("Visual"),
	}
	for _, kind := range Kinds {
		r.byKind[kind] = intmap.NewSet[EntityId](64)
	}
	r.stores = []iComponentStorage{
		r.Positions, r.Healths, r.Velocities, r.Combats, r.Collectibles,
		r.Compositions, r.TrainCars, r.Hardpoints, r.Weapons, r.Enemies,
		r.Visuals,
	}
	return r
}

// Create allocates a new entity of the given kind with no components.
// It panics on an unknown kind.
func (r *Registry) Create(kind Kind) Entity {
	set, ok := r.byKind[kind]
	if !ok {
		panic("ecs: unknown entity kind " + kind.String())
	}

	r.nextId++
	id := r.nextId
	r.kinds.Put(id, kind)
	set.Add(id)
	return Entity{Id: id, Kind: kind}
}

// Get returns the entity for id.
func (r *Registry) Get(id EntityId) (Entity, bool) {
	kind, ok := r.kinds.Get(id)
	if !ok {
		return Entity{}, false
	}
	return Entity{Id: id, Kind: kind}, true
}

// Has reports whether id is live.
func (r *Registry) Has(id EntityId) bool {
	return r.kinds.Has(id)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.kinds.Len()
}

// OnRemove registers fn to be called for every removed entity. Listeners
// run after the entity is no longer live but before its components are
// dropped, so they can still read them.
func (r *Registry) OnRemove(fn func(Entity)) {
	r.listeners = append(r.listeners, fn)
}

// Remove releases the entity's visual handle, notifies listeners and drops
// every component. It returns false if id is not live, so removing twice is
// harmless.
func (r *Registry) Remove(id EntityId) bool {
	kind, ok := r.kinds.Get(id)
	if !ok {
		return false
	}
	r.kinds.Del(id)
	r.byKind[kind].Del(id)

	e := Entity{Id: id, Kind: kind}
	if v := r.Visuals.Get(id); v != nil {
		v.release()
	}
	for _, fn := range r.listeners {
		fn(e)
	}
	for _, store := range r.stores {
		store.Remove(id)
	}
	return true
}

// ByKind returns a snapshot of the live entities of a kind, ordered by id.
// The registry may be modified while the result is iterated.
func (r *Registry) ByKind(kind Kind) []Entity {
	set, ok := r.byKind[kind]
	if !ok {
		return nil
	}

	ids := make([]EntityId, 0, set.Len())
	set.ForEach(func(id EntityId) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	entities := make([]Entity, len(ids))
	for i, id := range ids {
		entities[i] = Entity{Id: id, Kind: kind}
	}
	return entities
}

// CountKind returns the number of live entities of a kind.
func (r *Registry) CountKind(kind Kind) int {
	set, ok := r.byKind[kind]
	if !ok {
		return 0
	}
	return set.Len()
}

// First returns the live entity of a kind with the lowest id.
func (r *Registry) First(kind Kind) (Entity, bool) {
	set, ok := r.byKind[kind]
	if !ok || set.Len() == 0 {
		return Entity{}, false
	}

	var first EntityId
	set.ForEach(func(id EntityId) bool {
		if first == 0 || id < first {
			first = id
		}
		return true
	})
	return Entity{Id: first, Kind: kind}, true
}

// Clear removes every entity through Remove, so visual handles are released
// and listeners notified. Ids keep increasing afterwards.
func (r *Registry) Clear() {
	ids := make([]EntityId, 0, r.kinds.Len())
	r.kinds.ForEach(func(id EntityId, _ Kind) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	for _, id := range ids {
		r.Remove(id)
	}
}

// All returns a snapshot of every live entity, ordered by id.
func (r *Registry) All() []Entity {
	entities := make([]Entity, 0, r.kinds.Len())
	r.kinds.ForEach(func(id EntityId, kind Kind) bool {
		entities = append(entities, Entity{Id: id, Kind: kind})
		return true
	})
	slices.SortFunc(entities, func(a, b Entity) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return entities
}

// Components returns the names of the stores holding a component for id.
func (r *Registry) Components(id EntityId) []string {
	var names []string
	for _, store := range r.stores {
		if store.Has(id) {
			names = append(names, store.Name())
		}
	}
	return names
}

// Component returns a pointer to the component held for id by the store
// with the given name, or nil. Intended for inspectors; systems should use
// the typed stores.
func (r *Registry) Component(id EntityId, name string) any {
	for _, store := range r.stores {
		if store.Name() == name {
			return store.lookup(id)
		}
	}
	return nil
}

// StoreNames lists the component store names in registration order.
func (r *Registry) StoreNames() []string {
	names := make([]string, len(r.stores))
	for i, store := range r.stores {
		names[i] = store.Name()
	}
	return names
}
