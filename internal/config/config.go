package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Simulation SimulationConfig `yaml:"simulation"`
	Server     ServerConfig     `yaml:"server"`
	EventBus   EventBusConfig   `yaml:"eventbus"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type WorldConfig struct {
	Seed     int64   `yaml:"seed"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	TileSize float64 `yaml:"tile_size"`
}

// SpawnConfig - враг стартового состава
type SpawnConfig struct {
	Species string `yaml:"species"`
	Offset  int    `yaml:"offset"`
}

type SimulationConfig struct {
	TickRate      int            `yaml:"tick_rate"`
	MaxFrameDelta float64        `yaml:"max_frame_delta"`
	Roster        []SpawnConfig  `yaml:"roster"`
	Inventory     map[string]int `yaml:"inventory"`
	SnapshotEvery int            `yaml:"snapshot_every"` // тиков между снимками для API
}

type ServerConfig struct {
	RESTPort       int  `yaml:"rest_port"`
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

type EventBusConfig struct {
	Kind      string `yaml:"kind"` // memory, jetstream или embedded
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
	StoreDir  string `yaml:"store_dir"` // каталог JetStream для embedded
	Port      int    `yaml:"port"`      // порт embedded сервера, 0 - случайный
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP HTTP, пусто - localhost:4318
	Insecure    bool   `yaml:"insecure"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:     1,
			Width:    160,
			Height:   80,
			TileSize: 32,
		},
		Simulation: SimulationConfig{
			TickRate:      60,
			MaxFrameDelta: 0.25,
			SnapshotEvery: 1,
		},
		Server: ServerConfig{
			MetricsEnabled: true,
		},
		EventBus: EventBusConfig{
			Kind:      "memory",
			Stream:    "SANDBOX_EVENTS",
			Retention: 24,
			Buffer:    1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "sandbox2d",
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "SANDBOX_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл поверх значений по умолчанию.
// Если path == "", берётся SANDBOX_CONFIG; без него - только умолчания.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("SANDBOX_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя молча заменить умолчанием
func (c *Config) Validate() error {
	if c.World.Width < 8 || c.World.Height < 16 {
		return fmt.Errorf("world: размер %dx%d слишком мал", c.World.Width, c.World.Height)
	}
	if c.World.TileSize <= 0 {
		return fmt.Errorf("world: tile_size должен быть положительным")
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation: tick_rate должен быть положительным")
	}
	switch c.EventBus.Kind {
	case "memory", "jetstream", "embedded":
	default:
		return fmt.Errorf("eventbus: неизвестный тип %q", c.EventBus.Kind)
	}
	return nil
}
