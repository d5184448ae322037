package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/swarmsim/internal/config"
	"github.com/zeusync/swarmsim/internal/core/driver"
	"github.com/zeusync/swarmsim/internal/core/events/bus"
	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/core/policy"
	"github.com/zeusync/swarmsim/internal/core/world"
	"github.com/zeusync/swarmsim/internal/server"
)

// Simulation is a fully wired live run.
type Simulation struct {
	Config   config.Config
	Logger   log.Log
	World    *world.World
	Bus      bus.EventBus
	Recorder *driver.Recorder
	Driver   *driver.Driver
	Server   *server.Server
}

var SimulationSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideWorld,
	ProvidePolicy,
	ProvideMetric,
	ProvideBus,
	ProvideRecorder,
	ProvideDriver,
	ProvideServer,
)

func ProvideLogger(cfg config.Config) (*log.Logger, func()) {
	logger := log.NewWithConfig(cfg.Log)
	return logger, func() { _ = logger.Sync() }
}

func ProvideWorld(cfg config.Config, logger log.Log) (*world.World, error) {
	w := world.New(cfg.WorldConfig(), world.WithLogger(logger))
	if err := w.InitVehicles(cfg.World.Vehicles); err != nil {
		return nil, err
	}
	return w, nil
}

// ProvidePolicy builds the configured policy against the world's own action
// limits and boundary metric.
func ProvidePolicy(cfg config.Config, w *world.World) (policy.Policy, error) {
	wc := w.Config()
	return policy.DefaultRegistry().New(cfg.Policy.Name, w, w.DimObs(), w.DimAction(),
		policy.WithSeed(cfg.Policy.Seed),
		policy.WithLimits(policy.Limits{MaxSteer: wc.MaxSteer, MaxThrottle: wc.MaxThrottle}),
		policy.WithSpace(wc.Space()),
	)
}

func ProvideMetric(cfg config.Config) (metrics.Metric, error) {
	return metrics.DefaultRegistry().New(cfg.Metric)
}

// ProvideBus logs every delivery; one slower than a tick is a warning.
func ProvideBus(cfg config.Config, logger log.Log) (bus.EventBus, func()) {
	b := bus.New()
	obs := bus.NewLogObserver(logger, cfg.Driver.TickDelay)
	b.AddObserver(obs)
	return b, func() { b.RemoveObserver(obs) }
}

// ProvideRecorder records bounded runs only; an unbounded run would grow
// without limit.
func ProvideRecorder(cfg config.Config) *driver.Recorder {
	if cfg.Driver.MaxSteps <= 0 {
		return nil
	}
	return driver.NewRecorder(cfg.Driver.MaxSteps)
}

func ProvideDriver(
	cfg config.Config,
	w *world.World,
	p policy.Policy,
	m metrics.Metric,
	b bus.EventBus,
	rec *driver.Recorder,
	logger log.Log,
) (*driver.Driver, error) {
	opts := []driver.Option{
		driver.WithTickDelay(cfg.Driver.TickDelay),
		driver.WithMaxSteps(cfg.Driver.MaxSteps),
		driver.WithBus(b),
		driver.WithLogger(logger),
	}
	if rec != nil {
		opts = append(opts, driver.WithRecorder(rec))
	}
	if cfg.Driver.RunID != "" {
		opts = append(opts, driver.WithRunID(cfg.Driver.RunID))
	}
	return driver.New(w, p, m, opts...)
}

func ProvideServer(cfg config.Config, d *driver.Driver, b bus.EventBus, logger log.Log) (*server.Server, func(), error) {
	s := server.New(cfg.Server, d, logger)
	if err := s.Attach(b); err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}
