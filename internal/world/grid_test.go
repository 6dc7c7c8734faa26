package world

import (
	"testing"

	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Creation(t *testing.T) {
	g := NewGrid(20, 10, 32)

	assert.Equal(t, 20, g.Width())
	assert.Equal(t, 10, g.Height())
	assert.Equal(t, 32.0, g.TileSize())

	for x := 0; x < g.Width(); x++ {
		assert.Equal(t, block.BedrockBlockID, g.Get(x, 9), "нижний ряд должен быть бедроком")
		assert.Equal(t, block.AirBlockID, g.Get(x, 0))
	}
}

func TestGrid_OutOfBounds(t *testing.T) {
	g := NewGrid(8, 6, 32)
	outside := []vec.Vec2{
		{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 8, Y: 0}, {X: 0, Y: 6},
		{X: -100, Y: -100}, {X: 1000, Y: 3},
	}

	for _, p := range outside {
		assert.Equal(t, block.BedrockBlockID, g.GetAt(p), "за пределами сетки читается бедрок: %+v", p)
		assert.True(t, g.IsSolidAt(p.X, p.Y))

		before := append([]block.BlockID(nil), g.cells...)
		g.SetAt(p, block.StoneBlockID)
		assert.Equal(t, before, g.cells, "запись за пределами не должна ничего менять: %+v", p)
	}
}

func TestGrid_SetOverwritesUnconditionally(t *testing.T) {
	g := NewGrid(8, 6, 32)

	g.Set(3, 2, block.StoneBlockID)
	assert.Equal(t, block.StoneBlockID, g.Get(3, 2))

	g.Set(3, 2, block.GoldOreBlockID)
	assert.Equal(t, block.GoldOreBlockID, g.Get(3, 2))

	g.Set(3, 2, block.AirBlockID)
	assert.Equal(t, block.AirBlockID, g.Get(3, 2))
	assert.False(t, g.IsSolidAt(3, 2))
}

func TestSurfaceY(t *testing.T) {
	g := NewGrid(4, 10, 32)
	g.Set(1, 4, block.GrassBlockID)
	g.Set(1, 5, block.DirtBlockID)

	assert.Equal(t, 4, SurfaceY(g, 1))
	assert.Equal(t, 9, SurfaceY(g, 0), "пустая колонка стоит на бедроке")
}

func TestRegion(t *testing.T) {
	g := NewGrid(6, 6, 32)
	g.Set(2, 2, block.StoneBlockID)
	g.Set(3, 3, block.WoodBlockID)

	rows := Region(g, 2, 2, 3, 3)
	require.Len(t, rows, 2)
	assert.Equal(t, []block.BlockID{block.StoneBlockID, block.AirBlockID}, rows[0])
	assert.Equal(t, []block.BlockID{block.AirBlockID, block.WoodBlockID}, rows[1])

	assert.Nil(t, Region(g, 3, 3, 2, 2))

	edge := Region(g, -1, 5, 0, 5)
	assert.Equal(t, []block.BlockID{block.BedrockBlockID, block.BedrockBlockID}, edge[0])
}
