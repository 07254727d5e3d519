package ecs

// RegistryStats is a point-in-time summary of registry contents.
type RegistryStats struct {
	EntityCount int
	NextId      EntityId
	Kinds       []KindStats
	Stores      []StoreStats
}

type KindStats struct {
	Kind  Kind
	Count int
}

type StoreStats struct {
	Name  string
	Count int
}

// Stats collects entity counts per kind and component counts per store.
func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		EntityCount: r.kinds.Len(),
		NextId:      r.nextId + 1,
		Kinds:       make([]KindStats, 0, len(Kinds)),
		Stores:      make([]StoreStats, 0, len(r.stores)),
	}
	for _, kind := range Kinds {
		stats.Kinds = append(stats.Kinds, KindStats{Kind: kind, Count: r.byKind[kind].Len()})
	}
	for _, store := range r.stores {
		stats.Stores = append(stats.Stores, StoreStats{Name: store.Name(), Count: store.Len()})
	}
	return stats
}
