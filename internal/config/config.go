package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

// EnvPath names the environment variable overriding DefaultPath.
const (
	EnvPath     = "NAVSIM_CONFIG"
	DefaultPath = "config/navsim.toml"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Grid       GridConfig       `toml:"grid"`
	Workers    WorkersConfig    `toml:"workers"`
	Simulation SimulationConfig `toml:"simulation"`
	Layout     LayoutConfig     `toml:"layout"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Database   DatabaseConfig   `toml:"database"`
	Logging    LoggingConfig    `toml:"logging"`
}

type GridConfig struct {
	Size             int    `toml:"size"`
	PlanningCategory string `toml:"planning_category"` // category searches avoid
}

type WorkersConfig struct {
	PoolSize int `toml:"pool_size"` // 0 = NumCPU capped at 8
}

type SimulationConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	Agents         int           `toml:"agents"`
	AgentSpeed     float64       `toml:"agent_speed"` // cells per second
	Seed           uint64        `toml:"seed"`
	WanderInterval time.Duration `toml:"wander_interval"`
	ChurnInterval  int           `toml:"churn_interval"` // ticks between wall edits, 0 = off
	StatsInterval  time.Duration `toml:"stats_interval"`
}

type LayoutConfig struct {
	File      string  `toml:"file"`
	Generator string  `toml:"generator"` // "none", "noise" or "maze"
	Density   float64 `toml:"density"`   // share of cells walled (0.0-1.0)
	Seed      int64   `toml:"seed"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	LayoutName      string        `toml:"layout_name"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Path returns the config file location, honouring EnvPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Workers.PoolSize == 0 {
		cfg.Workers.PoolSize = min(runtime.NumCPU(), 8)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once. Each error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs error
	bad := func(field string, v any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s = %v", ErrInvalid, field, v))
	}
	if c.Grid.Size < 2 {
		bad("grid.size", c.Grid.Size)
	}
	if c.Grid.PlanningCategory == "" {
		bad("grid.planning_category", `""`)
	}
	if c.Workers.PoolSize < 0 {
		bad("workers.pool_size", c.Workers.PoolSize)
	}
	if c.Simulation.TickRate <= 0 {
		bad("simulation.tick_rate", c.Simulation.TickRate)
	}
	if c.Simulation.Agents < 0 {
		bad("simulation.agents", c.Simulation.Agents)
	}
	if c.Simulation.AgentSpeed <= 0 {
		bad("simulation.agent_speed", c.Simulation.AgentSpeed)
	}
	if c.Simulation.WanderInterval <= 0 {
		bad("simulation.wander_interval", c.Simulation.WanderInterval)
	}
	if c.Simulation.ChurnInterval < 0 {
		bad("simulation.churn_interval", c.Simulation.ChurnInterval)
	}
	switch c.Layout.Generator {
	case "none", "noise", "maze":
	default:
		bad("layout.generator", c.Layout.Generator)
	}
	if c.Layout.Density < 0 || c.Layout.Density > 1 {
		bad("layout.density", c.Layout.Density)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		bad("logging.format", c.Logging.Format)
	}
	if c.Database.DSN != "" && c.Database.LayoutName == "" {
		bad("database.layout_name", `""`)
	}
	return errs
}

func defaults() *Config {
	return &Config{
		Grid: GridConfig{
			Size:             48,
			PlanningCategory: "wall",
		},
		Simulation: SimulationConfig{
			TickRate:       50 * time.Millisecond,
			Agents:         10,
			AgentSpeed:     1.0,
			Seed:           1,
			WanderInterval: time.Second,
			ChurnInterval:  0,
			StatsInterval:  10 * time.Second,
		},
		Layout: LayoutConfig{
			Generator: "maze",
			Density:   0.3,
			Seed:      1,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			LayoutName:      "default",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
