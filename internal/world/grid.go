package world

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// Размеры мира по умолчанию
const (
	DefaultWidth    = 160
	DefaultHeight   = 80
	DefaultTileSize = 32.0
)

// View - интерфейс только для чтения поверх сетки тайлов.
// Им пользуются коллизии, ИИ и внешние потребители (рендер, HUD, API).
type View interface {
	Get(x, y int) block.BlockID
	Width() int
	Height() int
	TileSize() float64
}

// Grid хранит тайлы мира. Нижний ряд всегда бедрок,
// чтение за пределами сетки возвращает бедрок.
type Grid struct {
	width    int
	height   int
	tileSize float64
	cells    []block.BlockID
}

// NewGrid создаёт сетку, заполненную воздухом, с бедроком в нижнем ряду
func NewGrid(width, height int, tileSize float64) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 2 {
		height = 2
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	g := &Grid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		cells:    make([]block.BlockID, width*height),
	}
	g.FillRow(height-1, block.BedrockBlockID)
	return g
}

// Width возвращает ширину мира в тайлах
func (g *Grid) Width() int { return g.width }

// Height возвращает высоту мира в тайлах
func (g *Grid) Height() int { return g.height }

// TileSize возвращает размер тайла в мировых единицах
func (g *Grid) TileSize() float64 { return g.tileSize }

// InBounds проверяет, лежат ли координаты внутри сетки
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get возвращает блок по координатам; за пределами сетки - бедрок
func (g *Grid) Get(x, y int) block.BlockID {
	if !g.InBounds(x, y) {
		return block.BedrockBlockID
	}
	return g.cells[y*g.width+x]
}

// Set перезаписывает блок. За пределами сетки - ничего не делает.
// Проверка твёрдости и бедрока лежит на вызывающем.
func (g *Grid) Set(x, y int, id block.BlockID) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = id
}

// GetAt - Get для вектора тайла
func (g *Grid) GetAt(p vec.Vec2) block.BlockID {
	return g.Get(p.X, p.Y)
}

// SetAt - Set для вектора тайла
func (g *Grid) SetAt(p vec.Vec2, id block.BlockID) {
	g.Set(p.X, p.Y, id)
}

// IsSolidAt проверяет твёрдость тайла (за пределами сетки - твёрдый бедрок)
func (g *Grid) IsSolidAt(x, y int) bool {
	return block.IsSolid(g.Get(x, y))
}

// FillRow заполняет ряд одним типом блока
func (g *Grid) FillRow(y int, id block.BlockID) {
	for x := 0; x < g.width; x++ {
		g.Set(x, y, id)
	}
}

// Clone возвращает независимую копию сетки
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = make([]block.BlockID, len(g.cells))
	copy(c.cells, g.cells)
	return &c
}

// SurfaceY возвращает индекс первого сверху твёрдого тайла в колонке.
// Для колонки за пределами сетки это 0 (бедрок).
func SurfaceY(v View, x int) int {
	for y := 0; y < v.Height(); y++ {
		if block.IsSolid(v.Get(x, y)) {
			return y
		}
	}
	return v.Height() - 1
}

// Region копирует прямоугольную область [x0,x1]×[y0,y1] построчно
func Region(v View, x0, y0, x1, y1 int) [][]block.BlockID {
	if x1 < x0 || y1 < y0 {
		return nil
	}
	rows := make([][]block.BlockID, 0, y1-y0+1)
	for y := y0; y <= y1; y++ {
		row := make([]block.BlockID, 0, x1-x0+1)
		for x := x0; x <= x1; x++ {
			row = append(row, v.Get(x, y))
		}
		rows = append(rows, row)
	}
	return rows
}
