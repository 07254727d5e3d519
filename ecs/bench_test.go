package ecs_test

import (
	"testing"

	"github.com/plus3/ironrails/ecs"
)

func BenchmarkCreateRemove(b *testing.B) {
	reg := ecs.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := reg.Create(ecs.KindEnemy)
		reg.Positions.Set(e.Id, ecs.Position{X: 1, Y: 2})
		reg.Velocities.Set(e.Id, ecs.Velocity{VX: -30})
		reg.Remove(e.Id)
	}
}

func BenchmarkStoreGet(b *testing.B) {
	store := ecs.NewStore[ecs.Position]("Position")
	for id := ecs.EntityId(1); id <= 1000; id++ {
		store.Set(id, ecs.Position{X: float64(id)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Get(ecs.EntityId(i%1000 + 1))
	}
}

func BenchmarkJoin(b *testing.B) {
	reg := ecs.NewRegistry()
	for i := 0; i < 1000; i++ {
		e := reg.Create(ecs.KindEnemy)
		reg.Positions.Set(e.Id, ecs.Position{})
		if i%2 == 0 {
			reg.Velocities.Set(e.Id, ecs.Velocity{VX: -30})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pair := range ecs.Join(reg.Positions, reg.Velocities) {
			pair.First.X += pair.Second.VX * 0.016
		}
	}
}

func BenchmarkByKind(b *testing.B) {
	reg := ecs.NewRegistry()
	for i := 0; i < 1000; i++ {
		reg.Create(ecs.Kinds[i%len(ecs.Kinds)])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.ByKind(ecs.KindEnemy)
	}
}
