package sim

import (
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// SpawnSpec - враг в стартовом составе: вид и смещение колонки
// относительно колонки появления игрока
type SpawnSpec struct {
	Species      entity.Species
	ColumnOffset int
}

// DefaultRoster возвращает стартовый состав врагов
func DefaultRoster() []SpawnSpec {
	return []SpawnSpec{
		{Species: entity.SpeciesShambler, ColumnOffset: 6},
		{Species: entity.SpeciesArcher, ColumnOffset: -12},
		{Species: entity.SpeciesClimber, ColumnOffset: 18},
		{Species: entity.SpeciesBomber, ColumnOffset: -24},
	}
}

// Options - параметры симуляции
type Options struct {
	Seed     int64
	Width    int
	Height   int
	TileSize float64

	MaxFrameDelta float64 // больший dt обрезается
	Substep       float64 // максимальный шаг физики

	Player    entity.PlayerTuning
	Species   [entity.SpeciesCount]entity.SpeciesTuning
	Roster    []SpawnSpec
	Inventory entity.Inventory
	Tools     entity.ToolSet

	ExplosionRadius int     // в тайлах
	ExplosionMargin float64 // запас для урона игроку, px

	RespawnMin        float64
	RespawnMax        float64
	RespawnProximity  float64 // игрок ближе - возрождение откладывается
	RespawnExtraDelay float64
	RespawnSearch     int // радиус поиска места, тайлы

	Sink EventSink
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		Seed:              1,
		Width:             world.DefaultWidth,
		Height:            world.DefaultHeight,
		TileSize:          world.DefaultTileSize,
		MaxFrameDelta:     0.25,
		Substep:           1.0 / 120,
		Player:            entity.DefaultPlayerTuning(),
		Species:           entity.DefaultSpeciesTuning(),
		Roster:            DefaultRoster(),
		Inventory:         entity.DefaultInventory(),
		Tools:             entity.AllTools(),
		ExplosionRadius:   2,
		ExplosionMargin:   16,
		RespawnMin:        5,
		RespawnMax:        10,
		RespawnProximity:  96,
		RespawnExtraDelay: 2,
		RespawnSearch:     8,
	}
}
