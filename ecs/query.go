package ecs

import "iter"

// Pair holds pointers to two components of the same entity.
type Pair[A, B any] struct {
	First  *A
	Second *B
}

// Join iterates over entities that have a component in both stores, in the
// slot order of a. The same mutation rules as Store.All apply.
func Join[A, B any](a *Store[A], b *Store[B]) iter.Seq2[EntityId, Pair[A, B]] {
	return func(yield func(EntityId, Pair[A, B]) bool) {
		for id, first := range a.All() {
			second := b.Get(id)
			if second == nil {
				continue
			}
			if !yield(id, Pair[A, B]{First: first, Second: second}) {
				return
			}
		}
	}
}
