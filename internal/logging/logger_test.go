package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info"}) })

	NewLogger("world").Info("seed=%d", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "world", entry["component"])
	assert.Equal(t, "seed=42", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Format: "text", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info"}) })

	l := NewLogger("game")
	l.Debug("скрыто")
	l.Info("скрыто")
	assert.Empty(t, buf.String())
	assert.False(t, l.IsDebug())

	l.Warn("видно")
	assert.Contains(t, buf.String(), "видно")
}

func TestLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "громко", Output: &buf})
	t.Cleanup(func() { Configure(Options{Level: "info"}) })

	NewLogger("x").Debug("скрыто")
	NewLogger("x").Info("видно")
	assert.NotContains(t, buf.String(), "скрыто")
	assert.Contains(t, buf.String(), "видно")
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	opts := OptionsFromEnv()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "json", opts.Format)
}

func TestLoggerManager(t *testing.T) {
	m := GetLoggerManager()
	a := m.GetLogger("api")
	assert.Same(t, a, GetAPILogger(), "логгер компонента создаётся один раз")
	GetEventBusLogger()
	assert.Contains(t, m.ListComponents(), "api")
	assert.Contains(t, m.ListComponents(), "eventbus")
}
