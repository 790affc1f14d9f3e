package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StationConfig describes one station of the initial line. Stations sharing
// a lane are chained in listed order; the last one per lane is terminal.
type StationConfig struct {
	Name        string  `yaml:"name"`
	ServiceTime float64 `yaml:"service_time"` // simulated seconds (must be > 0)
	Capacity    int     `yaml:"capacity"`     // input buffer bound (must be >= 0)
	Lane        int     `yaml:"lane"`         // parallel network identifier (default 0)
}

// Config groups engine and transport parameters.
type Config struct {
	ListenAddr        string          `yaml:"listen_addr"`        // HTTP listen address
	TickInterval      time.Duration   `yaml:"tick_interval"`      // driver cadence (default 100ms)
	BroadcastInterval time.Duration   `yaml:"broadcast_interval"` // snapshot push cadence (default 1s)
	StateFile         string          `yaml:"state_file"`         // default save/load target
	LogLevel          string          `yaml:"log_level"`          // logrus level name
	Stations          []StationConfig `yaml:"stations"`           // initial line
}

// DefaultConfig returns the built-in three-station line.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		TickInterval:      100 * time.Millisecond,
		BroadcastInterval: time.Second,
		StateFile:         "linesim_state.json",
		LogLevel:          "info",
		Stations: []StationConfig{
			{Name: "Cutting", ServiceTime: 5.0, Capacity: 2},
			{Name: "Assembly", ServiceTime: 7.5, Capacity: 2},
			{Name: "Packaging", ServiceTime: 3.0, Capacity: 1},
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path
// yields ErrNotFound.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %v", ErrInvalidArgument, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the per-station bounds shared with the live edit path.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %v", ErrInvalidArgument, c.TickInterval)
	}
	if c.BroadcastInterval <= 0 {
		return fmt.Errorf("%w: broadcast_interval must be positive, got %v", ErrInvalidArgument, c.BroadcastInterval)
	}
	for i, sc := range c.Stations {
		if sc.ServiceTime <= 0 {
			return fmt.Errorf("%w: station %d (%s): service_time must be > 0, got %v", ErrInvalidArgument, i, sc.Name, sc.ServiceTime)
		}
		if sc.Capacity < 0 {
			return fmt.Errorf("%w: station %d (%s): capacity must be >= 0, got %d", ErrInvalidArgument, i, sc.Name, sc.Capacity)
		}
	}
	return nil
}
