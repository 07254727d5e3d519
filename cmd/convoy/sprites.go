package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/ironrails/ecs"
)

type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeSquare
)

// Sprite is the render handle attached to an entity's Visual component. The
// simulation moves it through SyncPosition and drops it through Release.
type Sprite struct {
	Entity ecs.Entity
	X, Y   float32
	Color  color.RGBA
	Size   float32
	Shape  Shape

	released bool
}

func (s *Sprite) SyncPosition(x, y float64) {
	s.X, s.Y = float32(x), float32(y)
}

func (s *Sprite) Release() {
	s.released = true
}

var kindStyles = map[ecs.Kind]struct {
	color color.RGBA
	size  float32
	shape Shape
}{
	ecs.KindLead:        {color.RGBA{255, 179, 71, 255}, 36, ShapeSquare},
	ecs.KindCar:         {color.RGBA{179, 229, 252, 255}, 30, ShapeSquare},
	ecs.KindWeapon:      {color.RGBA{90, 90, 90, 255}, 10, ShapeSquare},
	ecs.KindEnemy:       {color.RGBA{144, 190, 109, 255}, 18, ShapeCircle},
	ecs.KindProjectile:  {color.RGBA{255, 255, 186, 255}, 4, ShapeCircle},
	ecs.KindCollectible: {color.RGBA{255, 215, 0, 255}, 8, ShapeCircle},
}

var enemyColors = map[ecs.EnemyType]color.RGBA{
	ecs.EnemyShambler: {144, 190, 109, 255},
	ecs.EnemyBloater:  {186, 120, 200, 255},
	ecs.EnemyRunner:   {230, 90, 90, 255},
}

// SpriteSet creates sprites for new entities and keeps the live ones in
// creation order for drawing.
type SpriteSet struct {
	sprites []*Sprite
}

func (ss *SpriteSet) NewVisual(e ecs.Entity, x, y float64) any {
	style, ok := kindStyles[e.Kind]
	if !ok {
		return nil
	}
	sprite := &Sprite{
		Entity: e,
		X:      float32(x),
		Y:      float32(y),
		Color:  style.color,
		Size:   style.size,
		Shape:  style.shape,
	}
	ss.sprites = append(ss.sprites, sprite)
	return sprite
}

// Len returns the number of live sprites.
func (ss *SpriteSet) Len() int {
	return len(ss.sprites)
}

// compact drops released sprites.
func (ss *SpriteSet) compact() {
	live := ss.sprites[:0]
	for _, s := range ss.sprites {
		if !s.released {
			live = append(live, s)
		}
	}
	clear(ss.sprites[len(live):])
	ss.sprites = live
}

// Draw renders every live sprite, shifted by the camera offset. Enemies are
// tinted by type and damaged entities get a health bar.
func (ss *SpriteSet) Draw(screen *ebiten.Image, reg *ecs.Registry, offsetX, offsetY float32) {
	ss.compact()

	for _, s := range ss.sprites {
		sx, sy := s.X-offsetX, s.Y-offsetY
		c := s.Color
		if enemy := reg.Enemies.Get(s.Entity.Id); enemy != nil {
			if tint, ok := enemyColors[enemy.Type]; ok {
				c = tint
			}
		}

		switch s.Shape {
		case ShapeCircle:
			vector.DrawFilledCircle(screen, sx, sy, s.Size/2, c, false)
		default:
			vector.DrawFilledRect(screen, sx-s.Size/2, sy-s.Size/2, s.Size, s.Size, c, false)
		}

		health := reg.Healths.Get(s.Entity.Id)
		if health == nil || health.Max <= 0 || health.Current >= health.Max {
			continue
		}
		healthPct := float32(max(health.Current, 0) / health.Max)
		barWidth := s.Size
		barHeight := float32(3)
		vector.DrawFilledRect(screen, sx-barWidth/2, sy-s.Size/2-barHeight-3, barWidth, barHeight, color.RGBA{100, 100, 100, 255}, false)
		vector.DrawFilledRect(screen, sx-barWidth/2, sy-s.Size/2-barHeight-3, barWidth*healthPct, barHeight, color.RGBA{100, 200, 100, 255}, false)
	}
}
