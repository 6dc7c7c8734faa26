package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/sandbox2d/internal/config"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

func TestOptionsFromConfig_Defaults(t *testing.T) {
	opts, err := OptionsFromConfig(config.Default())
	require.NoError(t, err)

	def := DefaultOptions()
	assert.Equal(t, def.Width, opts.Width)
	assert.Equal(t, def.Height, opts.Height)
	assert.Equal(t, def.Roster, opts.Roster)
	assert.Equal(t, def.Inventory, opts.Inventory)
}

func TestOptionsFromConfig_Overrides(t *testing.T) {
	cfg := config.Default()
	cfg.World.Seed = 99
	cfg.Simulation.Roster = []config.SpawnConfig{{Species: "bomber", Offset: 4}}
	cfg.Simulation.Inventory = map[string]int{"stone": 3}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(99), opts.Seed)
	assert.Equal(t, []SpawnSpec{{Species: entity.SpeciesBomber, ColumnOffset: 4}}, opts.Roster)
	assert.Equal(t, 3, opts.Inventory[block.StoneBlockID])
	assert.Zero(t, opts.Inventory[block.DirtBlockID])
}

func TestOptionsFromConfig_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Roster = []config.SpawnConfig{{Species: "dragon"}}
	_, err := OptionsFromConfig(cfg)
	assert.Error(t, err)

	for _, inv := range []map[string]int{
		{"air": 1},
		{"bedrock": 1},
		{"mithril": 1},
		{"dirt": -1},
	} {
		cfg := config.Default()
		cfg.Simulation.Inventory = inv
		_, err := OptionsFromConfig(cfg)
		assert.Error(t, err, "%v", inv)
	}
}
