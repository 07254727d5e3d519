// Package spatial provides a uniform grid index answering "which ids lie
// within radius r of a point". It only knows opaque integer ids and has no
// dependency on the entity registry.
package spatial

import (
	"math"

	"github.com/kamstrup/intmap"
)

// cellKey packs the low 32 bits of each signed cell coordinate into a
// single integer key. Cells 2^32 apart share a key; the distance filter in
// queries keeps that harmless.
type cellKey uint64

func makeCellKey(cx, cy int64) cellKey {
	return cellKey(uint64(uint32(cx))<<32 | uint64(uint32(cy)))
}

// maxCell bounds cell coordinates so far positions never overflow int64.
const maxCell = 1 << 52

type point struct {
	x, y float64
}

// Grid is a uniform-grid spatial index. The cell size should be close to the
// typical query radius; with a mismatched cell size query cost degrades
// towards a linear scan of the occupied buckets.
//
// Grid is not safe for concurrent use.
type Grid[ID intmap.IntKey] struct {
	cellSize  float64
	cells     *intmap.Map[cellKey, *intmap.Set[ID]]
	positions *intmap.Map[ID, point]
}

// New creates a grid with the given cell size. It panics if cellSize is not
// a positive finite number.
func New[ID intmap.IntKey](cellSize float64) *Grid[ID] {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		panic("spatial: cell size must be positive")
	}
	return &Grid[ID]{
		cellSize:  cellSize,
		cells:     intmap.New[cellKey, *intmap.Set[ID]](256),
		positions: intmap.New[ID, point](1024),
	}
}

// CellSize returns the configured cell size.
func (g *Grid[ID]) CellSize() float64 {
	return g.cellSize
}

func (g *Grid[ID]) cellOf(x, y float64) (int64, int64) {
	return g.cellCoord(x), g.cellCoord(y)
}

func (g *Grid[ID]) cellCoord(v float64) int64 {
	c := math.Floor(v / g.cellSize)
	switch {
	case math.IsNaN(c):
		return 0
	case c > maxCell:
		return maxCell
	case c < -maxCell:
		return -maxCell
	}
	return int64(c)
}

// Insert records id at (x, y). Inserting the same id twice at the same
// position is idempotent; inserting a tracked id at a new position moves it.
func (g *Grid[ID]) Insert(id ID, x, y float64) {
	if g.positions.Has(id) {
		g.Remove(id)
	}

	key := makeCellKey(g.cellOf(x, y))
	bucket, ok := g.cells.Get(key)
	if !ok {
		bucket = intmap.NewSet[ID](8)
		g.cells.Put(key, bucket)
	}
	bucket.Add(id)
	g.positions.Put(id, point{x: x, y: y})
}

// Remove drops id from the index. Unknown ids are ignored.
func (g *Grid[ID]) Remove(id ID) {
	pos, ok := g.positions.Get(id)
	if !ok {
		return
	}

	key := makeCellKey(g.cellOf(pos.x, pos.y))
	if bucket, ok := g.cells.Get(key); ok {
		bucket.Del(id)
		if bucket.Len() == 0 {
			g.cells.Del(key)
		}
	}
	g.positions.Del(id)
}

// Update moves id to (x, y). It must be called whenever a tracked id's
// position changes.
func (g *Grid[ID]) Update(id ID, x, y float64) {
	g.Remove(id)
	g.Insert(id, x, y)
}

// Has reports whether id is tracked.
func (g *Grid[ID]) Has(id ID) bool {
	return g.positions.Has(id)
}

// Position returns the last recorded position of id.
func (g *Grid[ID]) Position(id ID) (x, y float64, ok bool) {
	pos, ok := g.positions.Get(id)
	return pos.x, pos.y, ok
}

// Len returns the number of tracked ids.
func (g *Grid[ID]) Len() int {
	return g.positions.Len()
}

// CellCount returns the number of non-empty cells.
func (g *Grid[ID]) CellCount() int {
	return g.cells.Len()
}

// Clear removes every id.
func (g *Grid[ID]) Clear() {
	g.cells.Clear()
	g.positions.Clear()
}

// QueryRadiusFunc calls fn for every tracked id whose recorded position lies
// within radius of (x, y), inclusive. Iteration stops early if fn returns
// false. Each id is visited at most once. fn must not mutate the grid.
func (g *Grid[ID]) QueryRadiusFunc(x, y, radius float64, fn func(id ID, px, py float64) bool) {
	if radius < 0 || math.IsNaN(radius) {
		return
	}

	r2 := radius * radius
	visit := func(bucket *intmap.Set[ID]) bool {
		stop := false
		bucket.ForEach(func(id ID) bool {
			pos, _ := g.positions.Get(id)
			ddx, ddy := pos.x-x, pos.y-y
			if ddx*ddx+ddy*ddy <= r2 && !fn(id, pos.x, pos.y) {
				stop = true
				return false
			}
			return true
		})
		return !stop
	}

	// Scanning more cells than are occupied costs more than walking every
	// occupied bucket.
	spanF := math.Ceil(radius / g.cellSize)
	if side := 2*spanF + 1; side*side > float64(g.cells.Len()) {
		g.cells.ForEach(func(_ cellKey, bucket *intmap.Set[ID]) bool {
			return visit(bucket)
		})
		return
	}

	span := int64(spanF)
	cx, cy := g.cellOf(x, y)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			bucket, ok := g.cells.Get(makeCellKey(cx+dx, cy+dy))
			if !ok {
				continue
			}
			if !visit(bucket) {
				return
			}
		}
	}
}

// QueryRadius returns the ids within radius of (x, y), inclusive. The order
// of the result is unspecified.
func (g *Grid[ID]) QueryRadius(x, y, radius float64) []ID {
	var result []ID
	g.QueryRadiusFunc(x, y, radius, func(id ID, _, _ float64) bool {
		result = append(result, id)
		return true
	})
	return result
}

// Stats describes grid occupancy.
type Stats struct {
	CellSize      float64
	Tracked       int
	Cells         int
	MaxBucketSize int
	AvgBucketSize float64
}

// Stats returns current occupancy figures, useful for tuning the cell size.
func (g *Grid[ID]) Stats() Stats {
	stats := Stats{
		CellSize: g.cellSize,
		Tracked:  g.positions.Len(),
		Cells:    g.cells.Len(),
	}
	g.cells.ForEach(func(_ cellKey, bucket *intmap.Set[ID]) bool {
		if n := bucket.Len(); n > stats.MaxBucketSize {
			stats.MaxBucketSize = n
		}
		return true
	})
	if stats.Cells > 0 {
		stats.AvgBucketSize = float64(stats.Tracked) / float64(stats.Cells)
	}
	return stats
}
