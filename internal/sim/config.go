package sim

import (
	"fmt"

	"github.com/annel0/sandbox2d/internal/config"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// OptionsFromConfig собирает параметры симуляции из конфигурации.
// Незаданный состав врагов или инвентарь берутся по умолчанию.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()
	opts.Seed = cfg.World.Seed
	opts.Width = cfg.World.Width
	opts.Height = cfg.World.Height
	opts.TileSize = cfg.World.TileSize
	if cfg.Simulation.MaxFrameDelta > 0 {
		opts.MaxFrameDelta = cfg.Simulation.MaxFrameDelta
	}

	if cfg.Simulation.Roster != nil {
		opts.Roster = make([]SpawnSpec, 0, len(cfg.Simulation.Roster))
		for _, sc := range cfg.Simulation.Roster {
			sp, ok := entity.SpeciesByName(sc.Species)
			if !ok {
				return Options{}, fmt.Errorf("неизвестный вид врага %q", sc.Species)
			}
			opts.Roster = append(opts.Roster, SpawnSpec{Species: sp, ColumnOffset: sc.Offset})
		}
	}

	if cfg.Simulation.Inventory != nil {
		var inv entity.Inventory
		for name, n := range cfg.Simulation.Inventory {
			id, ok := block.ByName(name)
			if !ok || !block.IsBreakable(id) {
				return Options{}, fmt.Errorf("блок %q нельзя держать в инвентаре", name)
			}
			if n < 0 {
				return Options{}, fmt.Errorf("отрицательное количество %q: %d", name, n)
			}
			inv[id] = n
		}
		opts.Inventory = inv
	}
	return opts, nil
}
