package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/recyclist/pkg/engine"
	"github.com/matzehuels/recyclist/pkg/errors"
	"github.com/matzehuels/recyclist/pkg/layout"
)

// Cache backend names accepted in configuration.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the TOML configuration for the CLI.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Cache  CacheConfig  `toml:"cache"`
}

// EngineConfig configures the virtualization engine.
type EngineConfig struct {
	Axis            string  `toml:"axis"`
	Columns         int     `toml:"columns"`
	RenderAhead     float64 `toml:"render_ahead"`
	RenderAheadBack float64 `toml:"render_ahead_back"`
	SizeTolerance   float64 `toml:"size_tolerance"`
	Recycling       bool    `toml:"recycling"`
	DebounceMS      int     `toml:"debounce_ms"`
}

// CacheConfig configures the snapshot cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultCLIConfig returns the configuration used when no file is given.
func DefaultCLIConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Axis:        "vertical",
			Columns:     1,
			RenderAhead: 250,
			Recycling:   true,
			DebounceMS:  30,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
	}
}

// LoadConfig reads a TOML configuration file, applying defaults for
// everything the file does not set.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultCLIConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if _, err := cfg.EngineConfig(); err != nil {
		return nil, err
	}
	if !validBackend(cfg.Cache.Backend) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
	return cfg, nil
}

func validBackend(b string) bool {
	switch b {
	case BackendFile, BackendMemory, BackendNull, BackendRedis, BackendMongo:
		return true
	}
	return false
}

// EngineConfig translates the file representation into an engine.Config.
func (c *Config) EngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	switch c.Engine.Axis {
	case "", "vertical":
		cfg.Axis = layout.AxisVertical
	case "horizontal":
		cfg.Axis = layout.AxisHorizontal
	default:
		return engine.Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown axis %q", c.Engine.Axis)
	}

	if c.Engine.Columns != 0 {
		cfg.Columns = c.Engine.Columns
	}
	if c.Engine.RenderAhead != 0 {
		cfg.RenderAhead = c.Engine.RenderAhead
	}
	cfg.RenderAheadBack = c.Engine.RenderAheadBack
	cfg.SizeTolerance = c.Engine.SizeTolerance
	cfg.Recycling = c.Engine.Recycling
	cfg.DebounceDelay = time.Duration(c.Engine.DebounceMS) * time.Millisecond

	if err := errors.ValidateColumns(cfg.Columns); err != nil {
		return engine.Config{}, err
	}
	if err := errors.ValidateRenderAhead(cfg.RenderAhead, cfg.RenderAheadBack); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}
