package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/core/policy"
	"github.com/zeusync/swarmsim/internal/core/world"
	"github.com/zeusync/swarmsim/internal/server"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the whole swarmsim configuration file.
type Config struct {
	World    World         `yaml:"world"`
	Policy   Policy        `yaml:"policy"`
	Metric   string        `yaml:"metric"`
	Driver   Driver        `yaml:"driver"`
	Analysis Analysis      `yaml:"analysis"`
	Server   server.Config `yaml:"server"`
	Log      log.Config    `yaml:"log"`
}

type World struct {
	Vehicles        int     `yaml:"vehicles"`
	Seed            uint64  `yaml:"seed"`
	Boundary        string  `yaml:"boundary"`
	SpeedScale      float64 `yaml:"speed_scale"`
	MaxSteer        float64 `yaml:"max_steer"`
	MaxThrottle     float64 `yaml:"max_throttle"`
	CollisionRadius float64 `yaml:"collision_radius"`
}

type Policy struct {
	Name string `yaml:"name"`
	Seed uint64 `yaml:"seed"`
}

type Driver struct {
	TickDelay time.Duration `yaml:"tick_delay"`
	MaxSteps  int           `yaml:"max_steps"`
	// RunID labels snapshots, events and log lines. Empty draws a uuid.
	RunID string `yaml:"run_id"`
}

type Analysis struct {
	Workers    int    `yaml:"workers"`
	Bins       int    `yaml:"bins"`
	Field      string `yaml:"field"`
	HSESamples int    `yaml:"hse_samples"`
	GridSize   int    `yaml:"grid_size"`
	OutputDir  string `yaml:"output_dir"`
}

func Default() Config {
	wc := world.DefaultConfig()
	return Config{
		World: World{
			Vehicles:        10,
			Seed:            wc.Seed,
			Boundary:        wc.Boundary.String(),
			SpeedScale:      wc.SpeedScale,
			MaxSteer:        wc.MaxSteer,
			MaxThrottle:     wc.MaxThrottle,
			CollisionRadius: wc.CollisionRadius,
		},
		Policy: Policy{Name: policy.NameDefault},
		Metric: metrics.NameNone,
		Driver: Driver{TickDelay: 10 * time.Millisecond},
		Analysis: Analysis{
			Bins:       10,
			Field:      models.FieldVelocity.String(),
			HSESamples: 100,
			GridSize:   metrics.DefaultGridSize,
			OutputDir:  "results",
		},
		Server: server.DefaultConfig(),
		Log:    log.Config{Level: "info", Encoding: "console"},
	}
}

// Load decodes YAML on top of Default, so a file only needs the keys it
// changes, and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks ranges and that every named policy, metric, boundary and
// field exists. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.World.Vehicles <= 0 {
		bad("world.vehicles must be positive, got %d", c.World.Vehicles)
	}
	if _, err := world.ParseBoundary(c.World.Boundary); err != nil {
		bad("world.boundary: %v", err)
	}
	if c.World.SpeedScale <= 0 {
		bad("world.speed_scale must be positive")
	}
	if c.World.MaxSteer < 0 || c.World.MaxThrottle < 0 || c.World.CollisionRadius < 0 {
		bad("world limits must not be negative")
	}
	if !contains(policy.DefaultRegistry().Names(), c.Policy.Name) {
		bad("unknown policy %q", c.Policy.Name)
	}
	if !contains(metrics.DefaultRegistry().Names(), c.Metric) {
		bad("unknown metric %q", c.Metric)
	}
	if c.Driver.TickDelay < 0 || c.Driver.MaxSteps < 0 {
		bad("driver.tick_delay and driver.max_steps must not be negative")
	}
	if c.Analysis.Bins <= 0 || c.Analysis.HSESamples <= 0 || c.Analysis.GridSize <= 0 {
		bad("analysis.bins, analysis.hse_samples and analysis.grid_size must be positive")
	}
	if c.Analysis.Workers < 0 {
		bad("analysis.workers must not be negative")
	}
	if _, err := models.ParseField(c.Analysis.Field); err != nil {
		bad("analysis.field %q", c.Analysis.Field)
	}
	if c.Server.MaxClients < 0 {
		bad("server.max_clients must not be negative")
	}
	return errors.Join(errs...)
}

// WorldConfig converts the world section for world.New. Call after Validate.
func (c Config) WorldConfig() world.Config {
	boundary, _ := world.ParseBoundary(c.World.Boundary)
	return world.Config{
		Seed:            c.World.Seed,
		Boundary:        boundary,
		SpeedScale:      c.World.SpeedScale,
		MaxSteer:        c.World.MaxSteer,
		MaxThrottle:     c.World.MaxThrottle,
		CollisionRadius: c.World.CollisionRadius,
	}
}

// Field resolves analysis.field. Call after Validate.
func (c Config) Field() models.Field {
	f, _ := models.ParseField(c.Analysis.Field)
	return f
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
