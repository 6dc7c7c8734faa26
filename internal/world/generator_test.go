package world

import (
	"testing"

	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, seed int64, last Stage) (*Grid, *GenerationReport) {
	t.Helper()
	g, report := NewWorldGenerator(seed).GenerateUntil(DefaultWidth, DefaultHeight, DefaultTileSize, last)
	require.NotNil(t, g)
	require.NotNil(t, report)
	return g, report
}

func TestGenerate_BedrockRow(t *testing.T) {
	for _, seed := range []int64{1, 7, 12345} {
		g, _ := NewWorldGenerator(seed).Generate(DefaultWidth, DefaultHeight, DefaultTileSize)
		for x := 0; x < g.Width(); x++ {
			assert.Equal(t, block.BedrockBlockID, g.Get(x, g.Height()-1), "seed=%d x=%d", seed, x)
		}
		for y := 0; y < g.Height()-1; y++ {
			for x := 0; x < g.Width(); x++ {
				assert.NotEqual(t, block.BedrockBlockID, g.Get(x, y), "бедрок только в нижнем ряду")
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, ra := NewWorldGenerator(99).Generate(DefaultWidth, DefaultHeight, DefaultTileSize)
	b, rb := NewWorldGenerator(99).Generate(DefaultWidth, DefaultHeight, DefaultTileSize)

	assert.Equal(t, a.cells, b.cells, "одинаковый сид должен давать одинаковый мир")
	assert.Equal(t, ra.Heights, rb.Heights)
	assert.Equal(t, ra.Ores, rb.Ores)
}

func TestGenerate_HeightBand(t *testing.T) {
	_, report := generate(t, 5, StageHeights)
	require.Len(t, report.Heights, DefaultWidth)
	for x, h := range report.Heights {
		assert.GreaterOrEqual(t, h, minSkyRows, "x=%d", x)
		assert.LessOrEqual(t, h, DefaultHeight-6, "x=%d", x)
	}
}

func TestGenerate_StoneColumnsBeforeCaves(t *testing.T) {
	g, report := generate(t, 2024, StageBedrock)

	for x := 0; x < g.Width(); x++ {
		h := report.Heights[x]
		surface, fill := surfaceBlocks(BiomeAt(x, g.Width()))

		for y := 0; y < h; y++ {
			assert.Equal(t, block.AirBlockID, g.Get(x, y))
		}
		assert.Equal(t, surface, g.Get(x, h), "x=%d", x)
		for y := h + 1; y <= h+subsurfaceRows; y++ {
			assert.Equal(t, fill, g.Get(x, y), "x=%d y=%d", x, y)
		}
		for y := h + subsurfaceRows + 1; y < g.Height()-1; y++ {
			assert.Equal(t, block.StoneBlockID, g.Get(x, y), "x=%d y=%d", x, y)
		}
		assert.Equal(t, block.BedrockBlockID, g.Get(x, g.Height()-1))
	}
}

func TestGenerate_Biomes(t *testing.T) {
	g, report := generate(t, 3, StageBiomes)

	assert.Equal(t, BiomeDesert, report.Biomes[0])
	assert.Equal(t, BiomePlains, report.Biomes[g.Width()/2])
	assert.Equal(t, BiomeTundra, report.Biomes[g.Width()-1])

	assert.Equal(t, block.SandBlockID, g.Get(0, report.Heights[0]))
	assert.Equal(t, block.SandBlockID, g.Get(0, report.Heights[0]+1))
	assert.Equal(t, block.GrassBlockID, g.Get(g.Width()/2, report.Heights[g.Width()/2]))
	assert.Equal(t, block.SnowBlockID, g.Get(g.Width()-1, report.Heights[g.Width()-1]))
}

func TestGenerate_LowerRealm(t *testing.T) {
	g, _ := generate(t, 11, StageLowerRealm)
	top := LowerRealmTop(g.Height())
	lavaFrom := g.Height() - 1 - lavaRows

	for y := top; y < g.Height()-1; y++ {
		for x := 0; x < g.Width(); x++ {
			id := g.Get(x, y)
			if y < lavaFrom {
				assert.Equal(t, block.NetherrockBlockID, id, "x=%d y=%d", x, y)
			} else {
				assert.Contains(t, []block.BlockID{block.NetherrockBlockID, block.LavaBlockID}, id)
			}
		}
	}
}

func TestGenerate_VegetationOnlyOnAir(t *testing.T) {
	g, report := generate(t, 77, StageVegetation)
	assert.Greater(t, report.Trees, 0, "на 160 колонках должно вырасти хоть одно дерево")

	for x := 0; x < g.Width(); x++ {
		h := report.Heights[x]
		surface, _ := surfaceBlocks(report.Biomes[x])
		assert.Equal(t, surface, g.Get(x, h), "деревья не перезаписывают поверхность")

		if report.Biomes[x] == BiomeDesert {
			for y := 0; y < h; y++ {
				assert.NotEqual(t, block.WoodBlockID, g.Get(x, y), "в пустыне нет стволов")
			}
		}
	}
}

func TestGenerate_CavesKeepSurface(t *testing.T) {
	g, report := generate(t, 31337, StageOres)
	assert.GreaterOrEqual(t, report.CaveWorms, 10)
	assert.Less(t, report.CaveWorms, 20)

	for x := 0; x < g.Width(); x++ {
		h := report.Heights[x]
		surface, fill := surfaceBlocks(report.Biomes[x])
		assert.Equal(t, surface, g.Get(x, h), "x=%d", x)
		for y := h + 1; y <= h+surfaceProtect; y++ {
			assert.Equal(t, fill, g.Get(x, y), "защищённый ряд x=%d y=%d", x, y)
		}
	}
}

func TestGenerate_OreDepthBands(t *testing.T) {
	g, report := generate(t, 8, StageOres)
	h := g.Height()

	counted := make(map[block.BlockID]int)
	for y := 0; y < h; y++ {
		for x := 0; x < g.Width(); x++ {
			switch id := g.Get(x, y); id {
			case block.CoalOreBlockID:
				assert.Less(t, y, h/2)
				counted[id]++
			case block.IronOreBlockID:
				assert.GreaterOrEqual(t, y, h/4)
				assert.Less(t, y, 3*h/4)
				counted[id]++
			case block.GoldOreBlockID:
				assert.Greater(t, y, 3*h/4)
				counted[id]++
			}
		}
	}

	assert.Equal(t, report.Ores, counted)
}

// oreBand - полоса глубины, где руда выпадает с постоянной вероятностью
type oreBand struct {
	name   string
	ore    block.BlockID
	y0, y1 int // [y0, y1)
	share  float64
}

func TestGenerate_OreShareByBand(t *testing.T) {
	h := DefaultHeight
	bands := []oreBand{
		{"уголь выше h/2", block.CoalOreBlockID, 2, h / 2, 0.040},
		{"железо в [h/4, h/2)", block.IronOreBlockID, h / 4, h / 2, 0.012},
		{"железо в [h/2, 3h/4)", block.IronOreBlockID, h / 2, 3 * h / 4, 0.052},
		{"золото ниже 3h/4", block.GoldOreBlockID, 3*h/4 + 1, h - 2, 0.055},
	}

	// Руды ставятся последними и только на камень, поэтому камень плюс руда
	// в полосе и есть число бросков.
	eligible := make([]int, len(bands))
	hits := make([]int, len(bands))
	for seed := int64(1); seed <= 6; seed++ {
		g, _ := generate(t, seed, StageOres)
		for i, b := range bands {
			for y := b.y0; y < b.y1; y++ {
				for x := 1; x < g.Width()-1; x++ {
					switch id := g.Get(x, y); id {
					case block.StoneBlockID, block.CoalOreBlockID, block.IronOreBlockID, block.GoldOreBlockID:
						eligible[i]++
						if id == b.ore {
							hits[i]++
						}
					}
				}
			}
		}
	}

	for i, b := range bands {
		require.Greater(t, eligible[i], 500, "%s: мало камня для статистики", b.name)
		got := float64(hits[i]) / float64(eligible[i])
		assert.InDelta(t, b.share, got, b.share*0.6, "%s: доля %d/%d", b.name, hits[i], eligible[i])
	}
}

func TestInCanopy(t *testing.T) {
	assert.True(t, inCanopy(0, -2))
	assert.True(t, inCanopy(-2, -1))
	assert.True(t, inCanopy(2, -1))
	assert.False(t, inCanopy(-2, -2), "углы кроны срезаны")
	assert.False(t, inCanopy(2, 0))
	assert.False(t, inCanopy(0, -3))
}
