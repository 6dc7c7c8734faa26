package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutPath(t *testing.T) {
	t.Setenv("SANDBOX_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  seed: 99
  width: 64
simulation:
  roster:
    - species: bomber
      offset: 4
  inventory:
    stone: 20
eventbus:
  kind: jetstream
  url: nats://localhost:4222
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.Equal(t, 64, cfg.World.Width)
	assert.Equal(t, 80, cfg.World.Height, "незаданное поле остаётся по умолчанию")
	require.Len(t, cfg.Simulation.Roster, 1)
	assert.Equal(t, "bomber", cfg.Simulation.Roster[0].Species)
	assert.Equal(t, 20, cfg.Simulation.Inventory["stone"])
	assert.Equal(t, "jetstream", cfg.EventBus.Kind)
	assert.Equal(t, "SANDBOX_EVENTS", cfg.EventBus.Stream)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromEnv(t *testing.T) {
	path := writeConfig(t, "world:\n  seed: 5\n")
	t.Setenv("SANDBOX_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.World.Seed)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "нет.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world: [oops"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "eventbus:\n  kind: kafka\n"))
	assert.ErrorContains(t, err, "kafka")

	_, err = Load(writeConfig(t, "world:\n  width: 2\n"))
	assert.Error(t, err)
}

func TestGetRESTPort(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("SANDBOX_REST_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort())

	t.Setenv("SANDBOX_REST_PORT", "9000")
	assert.Equal(t, 9000, s.GetRESTPort())

	t.Setenv("SANDBOX_REST_PORT", "abc")
	assert.Equal(t, 8088, s.GetRESTPort())

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort())
}
