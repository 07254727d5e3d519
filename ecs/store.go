package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
)

const (
	genericBlockSize = 64
)

// Store holds the components of a single type T, keyed by entity id.
// Components live in fixed-size blocks so pointers returned by Get and Set
// stay valid until the entity's component is removed; an intmap maps entity
// ids to slots.
//
// Iteration follows slot order, which is deterministic for a given sequence
// of Set and Remove calls.
type Store[T any] struct {
	name      string
	index     *intmap.Map[EntityId, int]
	blocks    []*[genericBlockSize]T
	owners    []*[genericBlockSize]EntityId
	freeSlots []int
	nextIndex int
}

// NewStore creates an empty store. The name is used by stats and debug tools.
func NewStore[T any](name string) *Store[T] {
	return &Store[T]{
		name:  name,
		index: intmap.New[EntityId, int](64),
	}
}

// Name returns the store's name.
func (s *Store[T]) Name() string {
	return s.name
}

func (s *Store[T]) slot(index int) (*T, *EntityId) {
	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize
	return &s.blocks[blockIdx][slotIdx], &s.owners[blockIdx][slotIdx]
}

// Set attaches or replaces the component of id and returns a pointer to the
// stored value.
func (s *Store[T]) Set(id EntityId, value T) *T {
	if index, ok := s.index.Get(id); ok {
		ptr, _ := s.slot(index)
		*ptr = value
		return ptr
	}

	var index int
	if len(s.freeSlots) > 0 {
		index = s.freeSlots[len(s.freeSlots)-1]
		s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]
	} else {
		index = s.nextIndex
		s.nextIndex++
		if index/genericBlockSize >= len(s.blocks) {
			s.blocks = append(s.blocks, new([genericBlockSize]T))
			s.owners = append(s.owners, new([genericBlockSize]EntityId))
		}
	}

	ptr, owner := s.slot(index)
	*ptr = value
	*owner = id
	s.index.Put(id, index)
	return ptr
}

// Get returns a pointer to the component of id, or nil if id has none.
func (s *Store[T]) Get(id EntityId) *T {
	index, ok := s.index.Get(id)
	if !ok {
		return nil
	}
	ptr, _ := s.slot(index)
	return ptr
}

func (s *Store[T]) lookup(id EntityId) any {
	if v := s.Get(id); v != nil {
		return v
	}
	return nil
}

// Has reports whether id has a component in this store.
func (s *Store[T]) Has(id EntityId) bool {
	return s.index.Has(id)
}

// Remove detaches the component of id. It returns false if there was none.
func (s *Store[T]) Remove(id EntityId) bool {
	index, ok := s.index.Get(id)
	if !ok {
		return false
	}

	ptr, owner := s.slot(index)
	var zero T
	*ptr = zero
	*owner = 0
	s.index.Del(id)
	s.freeSlots = append(s.freeSlots, index)
	return true
}

// Len returns the number of components held.
func (s *Store[T]) Len() int {
	return s.index.Len()
}

// Clear removes every component but keeps the allocated blocks.
func (s *Store[T]) Clear() {
	var zero T
	for i := 0; i < s.nextIndex; i++ {
		ptr, owner := s.slot(i)
		*ptr = zero
		*owner = 0
	}
	s.index.Clear()
	s.freeSlots = s.freeSlots[:0]
	s.nextIndex = 0
}

// All iterates over (id, component) pairs in slot order. Components may be
// removed or added during iteration. Removed components are skipped and no
// id is yielded twice, but a component added during iteration is visited
// only if its slot lies ahead of the cursor, which includes slots freed
// ahead of it and reused.
func (s *Store[T]) All() iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		for i := 0; i < s.nextIndex; i++ {
			ptr, owner := s.slot(i)
			if *owner == 0 {
				continue
			}
			if !yield(*owner, ptr) {
				return
			}
		}
	}
}

// Ids returns a snapshot of the ids held, in slot order.
func (s *Store[T]) Ids() []EntityId {
	ids := make([]EntityId, 0, s.Len())
	for id := range s.All() {
		ids = append(ids, id)
	}
	return ids
}
