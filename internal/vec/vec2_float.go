package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой (мировые единицы)
type Vec2Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	return v.Sub(other).Length()
}

// ToTile переводит мировые координаты в координаты тайла
func (v Vec2Float) ToTile(tileSize float64) Vec2 {
	return Vec2{X: int(math.Floor(v.X / tileSize)), Y: int(math.Floor(v.Y / tileSize))}
}

// Rect - прямоугольник в мировых координатах (левый верхний угол + размеры)
type Rect struct {
	X, Y float64
	W, H float64
}

// Center возвращает центр прямоугольника
func (r Rect) Center() Vec2Float {
	return Vec2Float{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Overlaps проверяет строгое пересечение двух прямоугольников.
// Касание гранями пересечением не считается.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// TileRect возвращает прямоугольник, занимаемый тайлом
func TileRect(t Vec2, tileSize float64) Rect {
	return Rect{X: float64(t.X) * tileSize, Y: float64(t.Y) * tileSize, W: tileSize, H: tileSize}
}
