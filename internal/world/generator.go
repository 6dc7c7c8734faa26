package world

import (
	"math"
	"math/rand"

	"github.com/annel0/sandbox2d/internal/logging"
	"github.com/annel0/sandbox2d/internal/util"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// BiomeType представляет тип биома колонки
type BiomeType uint8

const (
	BiomeDesert BiomeType = iota
	BiomePlains
	BiomeTundra
)

func (b BiomeType) String() string {
	switch b {
	case BiomeDesert:
		return "desert"
	case BiomePlains:
		return "plains"
	case BiomeTundra:
		return "tundra"
	default:
		return "unknown"
	}
}

// Stage - шаг генерации. Порядок шагов менять нельзя:
// каждый следующий может перезаписать результат предыдущего.
type Stage uint8

const (
	StageHeights Stage = iota
	StageBiomes
	StageBedrock
	StageLowerRealm
	StageVegetation
	StageCaves
	StageOres
)

const (
	subsurfaceRows  = 3   // ряды заполнителя под поверхностью
	minSkyRows      = 2   // минимум воздуха над самой высокой колонкой
	surfaceProtect  = 2   // пещеры не трогают ряды h..h+2
	lowerRealmShare = 8   // нижний мир занимает H/8 рядов над бедроком
	lavaRows        = 3   // лава только в нижних рядах нижнего мира
	lavaChance      = 0.3 // вероятность лавы на тайл
	forestNoiseStep = 0.05
)

// WorldGenerator генерирует ландшафт мира
type WorldGenerator struct {
	Seed       int64   // Сид генерации
	TreeChance float64 // Базовая вероятность дерева на колонку
	MinWorms   int     // Минимальное число пещерных червей
	ExtraWorms int     // Случайная добавка к числу червей

	rng   *rand.Rand
	noise *util.Noise
}

// GenerationReport описывает результат генерации
type GenerationReport struct {
	Seed      int64
	Heights   []int
	Biomes    []BiomeType
	Trees     int
	CaveWorms int
	Ores      map[block.BlockID]int
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:       seed,
		TreeChance: 0.12,
		MinWorms:   10,
		ExtraWorms: 10,
		rng:        rand.New(rand.NewSource(seed)),
		noise:      util.NewNoise(seed),
	}
}

// Generate создаёт полностью заполненную сетку
func (wg *WorldGenerator) Generate(width, height int, tileSize float64) (*Grid, *GenerationReport) {
	return wg.GenerateUntil(width, height, tileSize, StageOres)
}

// GenerateUntil выполняет шаги генерации до last включительно
func (wg *WorldGenerator) GenerateUntil(width, height int, tileSize float64, last Stage) (*Grid, *GenerationReport) {
	g := NewGrid(width, height, tileSize)

	report := &GenerationReport{
		Seed: wg.Seed,
		Ores: make(map[block.BlockID]int),
	}

	report.Heights = wg.heightField(g)
	if last >= StageBiomes {
		report.Biomes = wg.fillBiomes(g, report.Heights)
	}
	if last >= StageBedrock {
		g.FillRow(g.height-1, block.BedrockBlockID)
	}
	if last >= StageLowerRealm {
		wg.lowerRealm(g)
	}
	if last >= StageVegetation && report.Biomes != nil {
		report.Trees = wg.vegetation(g, report.Heights, report.Biomes)
	}
	if last >= StageCaves {
		report.CaveWorms = wg.carveCaves(g, report.Heights)
	}
	if last >= StageOres {
		wg.seedOres(g, report.Ores)
	}

	logging.GetWorldLogger().Debug("мир %dx%d seed=%d: деревьев %d, пещер %d", width, height, wg.Seed, report.Trees, report.CaveWorms)
	return g, report
}

// BiomeAt возвращает биом колонки: три равные полосы слева направо
func BiomeAt(x, width int) BiomeType {
	switch {
	case x < width/3:
		return BiomeDesert
	case x < 2*width/3:
		return BiomePlains
	default:
		return BiomeTundra
	}
}

// LowerRealmTop возвращает первый ряд нижнего мира
func LowerRealmTop(height int) int {
	return height - 1 - height/lowerRealmShare
}

// heightField считает высоту поверхности для каждой колонки
func (wg *WorldGenerator) heightField(g *Grid) []int {
	heights := make([]int, g.width)
	for x := 0; x < g.width; x++ {
		t := float64(x) / float64(g.width) * 2 * math.Pi
		base := (math.Sin(t*0.7) + 1.0) * 0.5 // 0..1
		h := g.height/3 + int(base*float64(g.height/6)) + (wg.rng.Intn(3) - 1)
		heights[x] = clampInt(h, minSkyRows, g.height-6)
	}
	return heights
}

// fillBiomes заполняет поверхность, подповерхностный слой и камень
func (wg *WorldGenerator) fillBiomes(g *Grid, heights []int) []BiomeType {
	biomes := make([]BiomeType, g.width)
	for x := 0; x < g.width; x++ {
		biome := BiomeAt(x, g.width)
		biomes[x] = biome
		surface, fill := surfaceBlocks(biome)

		top := heights[x]
		for y := top; y < g.height-1; y++ {
			switch {
			case y == top:
				g.Set(x, y, surface)
			case y <= top+subsurfaceRows:
				g.Set(x, y, fill)
			default:
				g.Set(x, y, block.StoneBlockID)
			}
		}
	}
	return biomes
}

func surfaceBlocks(biome BiomeType) (surface, fill block.BlockID) {
	switch biome {
	case BiomeDesert:
		return block.SandBlockID, block.SandBlockID
	case BiomeTundra:
		return block.SnowBlockID, block.DirtBlockID
	default:
		return block.GrassBlockID, block.DirtBlockID
	}
}

// lowerRealm перезаписывает полосу над бедроком незер-породой с пятнами лавы
func (wg *WorldGenerator) lowerRealm(g *Grid) {
	top := LowerRealmTop(g.height)
	lavaFrom := g.height - 1 - lavaRows
	for y := top; y < g.height-1; y++ {
		for x := 0; x < g.width; x++ {
			id := block.NetherrockBlockID
			if y >= lavaFrom && wg.rng.Float64() < lavaChance {
				id = block.LavaBlockID
			}
			g.Set(x, y, id)
		}
	}
}

// vegetation сажает деревья: ствол 2..4 и эллиптическая крона.
// Перезаписывается только воздух.
func (wg *WorldGenerator) vegetation(g *Grid, heights []int, biomes []BiomeType) int {
	trees := 0
	for x := 2; x < g.width-2; x++ {
		if biomes[x] == BiomeDesert {
			continue
		}
		density := 0.5 + wg.noise.Noise1D(float64(x)*forestNoiseStep)
		if wg.rng.Float64() >= wg.TreeChance*density {
			continue
		}

		ground := heights[x]
		trunk := 2 + wg.rng.Intn(3)
		for t := 1; t <= trunk; t++ {
			setIfAir(g, x, ground-t, block.WoodBlockID)
		}

		top := ground - trunk
		for dx := -2; dx <= 2; dx++ {
			for dy := -2; dy <= 0; dy++ {
				if !inCanopy(dx, dy) {
					continue
				}
				id := block.LeafBlockID
				if biomes[x] == BiomeTundra && !inCanopy(dx, dy-1) {
					id = block.SnowBlockID
				}
				setIfAir(g, x+dx, top+dy, id)
			}
		}
		trees++
	}
	return trees
}

// inCanopy - эллипс 5×3 с центром на один ряд выше вершины ствола
func inCanopy(dx, dy int) bool {
	ex := float64(dx) / 2.5
	ey := float64(dy+1) / 1.5
	return ex*ex+ey*ey <= 1.0
}

func setIfAir(g *Grid, x, y int, id block.BlockID) {
	if g.InBounds(x, y) && g.Get(x, y) == block.AirBlockID {
		g.Set(x, y, id)
	}
}

// carveCaves прокладывает пещеры случайными «червями»
func (wg *WorldGenerator) carveCaves(g *Grid, heights []int) int {
	if g.width < 4 || g.height < 8 {
		return 0
	}

	worms := wg.MinWorms
	if wg.ExtraWorms > 0 {
		worms += wg.rng.Intn(wg.ExtraWorms)
	}

	for i := 0; i < worms; i++ {
		span := g.width / 2
		if span < 1 {
			span = 1
		}
		tx := clampInt(g.width/4+wg.rng.Intn(span), 2, g.width-3)
		ty := heights[tx] + 4 + wg.rng.Intn(6)
		if ty > g.height-5 {
			ty = g.height - 5
		}
		steps := 40 + wg.rng.Intn(120)

		for s := 0; s < steps; s++ {
			radius := wg.rng.Intn(3) // 0..2
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx*dx+dy*dy > radius*radius {
						continue
					}
					wg.carve(g, heights, tx+dx, ty+dy)
				}
			}

			tx += wg.rng.Intn(3) - 1
			ty += wg.rng.Intn(5) - 2
			tx = clampInt(tx, 1, g.width-2)
			ty = clampInt(ty, heights[tx]+surfaceProtect+1, g.height-3)
		}
	}
	return worms
}

func (wg *WorldGenerator) carve(g *Grid, heights []int, x, y int) {
	if !g.InBounds(x, y) || y >= g.height-1 {
		return
	}
	if y <= heights[x]+surfaceProtect {
		return
	}
	if g.Get(x, y) == block.BedrockBlockID {
		return
	}
	g.Set(x, y, block.AirBlockID)
}

// seedOres заменяет часть камня рудами. Один бросок на тайл,
// пороги накопительные: уголь, затем железо, затем золото.
// Уголь забирает r < 40 выше h/2, поэтому железо в [h/4, h/2)
// получает только 40..51.
func (wg *WorldGenerator) seedOres(g *Grid, counts map[block.BlockID]int) {
	h := g.height
	for y := 2; y < h-2; y++ {
		for x := 1; x < g.width-1; x++ {
			if g.Get(x, y) != block.StoneBlockID {
				continue
			}
			r := wg.rng.Intn(1000)
			var ore block.BlockID
			switch {
			case r < 40 && y < h/2:
				ore = block.CoalOreBlockID // ~4% выше h/2
			case r < 52 && y >= h/4 && y < (3*h)/4:
				ore = block.IronOreBlockID // ~1.2% в [h/4, h/2), ~5.2% в [h/2, 3h/4)
			case r < 55 && y > (3*h)/4:
				ore = block.GoldOreBlockID // ~5.5% ниже 3h/4
			default:
				continue
			}
			g.Set(x, y, ore)
			counts[ore]++
		}
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
