package physics

import (
	"math"

	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// edgeEpsilon отделяет правую/нижнюю грань от соседнего тайла:
// тело, прижатое вплотную к стене, стену не пересекает.
const edgeEpsilon = 1e-6

// groundProbe - насколько ниже ступней ищется опора
const groundProbe = 1.0

// BoxCollider представляет прямоугольный коллайдер в мировых единицах.
// Размеры должны быть меньше тайла.
type BoxCollider struct {
	Width  float64
	Height float64
}

// NewBoxCollider создаёт новый коллайдер с указанными размерами
func NewBoxCollider(width, height float64) BoxCollider {
	return BoxCollider{Width: width, Height: height}
}

// Body - физическое тело: позиция левого верхнего угла, скорость и коллайдер
type Body struct {
	Pos      vec.Vec2Float
	Vel      vec.Vec2Float
	Collider BoxCollider
}

// Rect возвращает прямоугольник тела
func (b *Body) Rect() vec.Rect {
	return vec.Rect{X: b.Pos.X, Y: b.Pos.Y, W: b.Collider.Width, H: b.Collider.Height}
}

// Center возвращает центр тела
func (b *Body) Center() vec.Vec2Float {
	return b.Rect().Center()
}

// CheckBoxCollision проверяет пересечение двух тел
func CheckBoxCollision(a, b *Body) bool {
	return a.Rect().Overlaps(b.Rect())
}

// Contacts сообщает, по каким осям тело упёрлось в тайлы
type Contacts struct {
	HitX   bool
	HitY   bool
	Landed bool // упёрлось снизу при падении
}

// span возвращает диапазон тайлов, занимаемый отрезком [start, start+length)
func span(start, length, tile float64) (int, int) {
	first := int(math.Floor(start / tile))
	last := int(math.Floor((start + length - edgeEpsilon) / tile))
	return first, last
}

// ResolveHorizontal двигает тело по X к newX. Проверяется только колонка тайлов
// на ведущей грани; при попадании в твёрдый тайл тело прижимается к нему,
// а скорость по X обнуляется. Возвращает true при столкновении.
func ResolveHorizontal(v world.View, b *Body, newX float64) bool {
	tile := v.TileSize()
	top, bottom := span(b.Pos.Y, b.Collider.Height, tile)

	switch {
	case newX > b.Pos.X:
		edge := int(math.Floor((newX + b.Collider.Width - edgeEpsilon) / tile))
		for ty := top; ty <= bottom; ty++ {
			if solid(v, edge, ty) {
				b.Pos.X = float64(edge)*tile - b.Collider.Width
				b.Vel.X = 0
				return true
			}
		}
	case newX < b.Pos.X:
		edge := int(math.Floor(newX / tile))
		for ty := top; ty <= bottom; ty++ {
			if solid(v, edge, ty) {
				b.Pos.X = float64(edge+1) * tile
				b.Vel.X = 0
				return true
			}
		}
	}

	b.Pos.X = newX
	return false
}

// ResolveVertical двигает тело по Y к newY по тем же правилам, что и ResolveHorizontal
func ResolveVertical(v world.View, b *Body, newY float64) bool {
	tile := v.TileSize()
	left, right := span(b.Pos.X, b.Collider.Width, tile)

	switch {
	case newY > b.Pos.Y: // падение
		edge := int(math.Floor((newY + b.Collider.Height - edgeEpsilon) / tile))
		for tx := left; tx <= right; tx++ {
			if solid(v, tx, edge) {
				b.Pos.Y = float64(edge)*tile - b.Collider.Height
				b.Vel.Y = 0
				return true
			}
		}
	case newY < b.Pos.Y: // подъём
		edge := int(math.Floor(newY / tile))
		for tx := left; tx <= right; tx++ {
			if solid(v, tx, edge) {
				b.Pos.Y = float64(edge+1) * tile
				b.Vel.Y = 0
				return true
			}
		}
	}

	b.Pos.Y = newY
	return false
}

// Move интегрирует скорость за dt: сначала полностью по X, затем по Y.
// На больших скоростях возможен проскок угла - это принятое поведение.
func Move(v world.View, b *Body, dt float64) Contacts {
	var c Contacts
	falling := b.Vel.Y > 0

	c.HitX = ResolveHorizontal(v, b, b.Pos.X+b.Vel.X*dt)
	c.HitY = ResolveVertical(v, b, b.Pos.Y+b.Vel.Y*dt)
	c.Landed = c.HitY && falling
	return c
}

// OnGround проверяет, стоит ли тело на твёрдом тайле
func OnGround(v world.View, b *Body) bool {
	tile := v.TileSize()
	below := int(math.Floor((b.Pos.Y + b.Collider.Height + groundProbe) / tile))
	left, right := span(b.Pos.X, b.Collider.Width, tile)
	for tx := left; tx <= right; tx++ {
		if solid(v, tx, below) {
			return true
		}
	}
	return false
}

// OverlapsSolid проверяет, пересекает ли тело хоть один твёрдый тайл
func OverlapsSolid(v world.View, b *Body) bool {
	tile := v.TileSize()
	left, right := span(b.Pos.X, b.Collider.Width, tile)
	top, bottom := span(b.Pos.Y, b.Collider.Height, tile)
	for ty := top; ty <= bottom; ty++ {
		for tx := left; tx <= right; tx++ {
			if solid(v, tx, ty) {
				return true
			}
		}
	}
	return false
}

// FootTile возвращает ряд тайла, в котором находятся ступни тела
func FootTile(v world.View, b *Body) int {
	return int(math.Floor((b.Pos.Y + b.Collider.Height - edgeEpsilon) / v.TileSize()))
}

func solid(v world.View, x, y int) bool {
	return block.IsSolid(v.Get(x, y))
}
