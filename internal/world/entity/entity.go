package entity

import (
	"github.com/annel0/sandbox2d/internal/physics"
	"github.com/annel0/sandbox2d/internal/vec"
)

// Actor - базовое физическое тело симуляции: игрок или враг.
// Принадлежит симуляции и никуда не передаётся.
type Actor struct {
	physics.Body
	FacingX int // -1 влево, 1 вправо
	FacingY int // -1 вверх, 0, 1 вниз
}

// NewActor создаёт актёра с квадратным коллайдером size×size
func NewActor(pos vec.Vec2Float, size float64) Actor {
	return Actor{
		Body: physics.Body{
			Pos:      pos,
			Collider: physics.NewBoxCollider(size, size),
		},
		FacingX: 1,
	}
}

// ApplyGravity ускоряет тело вниз и ограничивает скорость падения
func (a *Actor) ApplyGravity(gravity, terminal, dt float64) {
	a.Vel.Y += gravity * dt
	if a.Vel.Y > terminal {
		a.Vel.Y = terminal
	}
}

// FaceTowards разворачивает актёра по горизонтали к направлению dx
func (a *Actor) FaceTowards(dx float64) {
	if dx > 0 {
		a.FacingX = 1
	} else if dx < 0 {
		a.FacingX = -1
	}
}

// PlaceOnTile ставит актёра ступнями на дно тайла, по центру колонки
func (a *Actor) PlaceOnTile(t vec.Vec2, tileSize float64) {
	a.Pos = SpawnPosition(t, tileSize, a.Collider)
	a.Vel = vec.Vec2Float{}
}

// SpawnPosition возвращает позицию левого верхнего угла тела,
// стоящего в тайле t: по центру колонки, ступни на нижней грани тайла.
func SpawnPosition(t vec.Vec2, tileSize float64, c physics.BoxCollider) vec.Vec2Float {
	return vec.Vec2Float{
		X: float64(t.X)*tileSize + (tileSize-c.Width)/2,
		Y: float64(t.Y+1)*tileSize - c.Height,
	}
}
