package driver

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/swarmsim/internal/core/events/bus"
	"github.com/zeusync/swarmsim/internal/core/metrics"
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/core/policy"
)

const DefaultTickDelay = 10 * time.Millisecond

// Simulation is the part of the world the driver steps.
type Simulation interface {
	Observation() models.Observation
	AbsoluteObs() []models.State
	TimeStep() int
	Step(actions []models.Action) (models.Observation, models.StepInfo, error)
}

// Driver runs the live loop: ask the policy for actions, step the world,
// score the new state and publish an immutable snapshot. The driver is the
// world's only writer; everybody else reads snapshots.
type Driver struct {
	runID     string
	sim       Simulation
	policy    policy.Policy
	metric    metrics.Metric
	tickDelay time.Duration
	maxSteps  int
	bus       bus.EventBus
	recorder  *Recorder
	log       log.Log

	latest  atomic.Pointer[models.Snapshot]
	running atomic.Bool
	steps   atomic.Int64
}

type Option func(*Driver)

// WithTickDelay sets the pause between ticks. Zero runs flat out.
func WithTickDelay(d time.Duration) Option {
	return func(dr *Driver) { dr.tickDelay = d }
}

// WithMaxSteps ends the run after n ticks. Zero means until cancelled.
func WithMaxSteps(n int) Option {
	return func(dr *Driver) { dr.maxSteps = n }
}

func WithLogger(l log.Log) Option {
	return func(dr *Driver) { dr.log = l }
}

func WithBus(b bus.EventBus) Option {
	return func(dr *Driver) { dr.bus = b }
}

func WithRecorder(r *Recorder) Option {
	return func(dr *Driver) { dr.recorder = r }
}

func WithRunID(id string) Option {
	return func(dr *Driver) { dr.runID = id }
}

func New(sim Simulation, p policy.Policy, m metrics.Metric, opts ...Option) (*Driver, error) {
	if sim == nil || p == nil || m == nil {
		return nil, ErrNilDependency
	}
	d := &Driver{
		runID:     uuid.NewString(),
		sim:       sim,
		policy:    p,
		metric:    m,
		tickDelay: DefaultTickDelay,
		log:       log.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(log.String("run_id", d.runID))
	return d, nil
}

func (d *Driver) RunID() string { return d.runID }

// Latest returns the most recently published snapshot, or nil before Run has
// published anything. The snapshot must be treated as read-only.
func (d *Driver) Latest() *models.Snapshot { return d.latest.Load() }

// Steps is the number of ticks completed so far.
func (d *Driver) Steps() int { return int(d.steps.Load()) }

// Run drives the loop until ctx is done (nil), MaxSteps is reached (nil) or
// a world, policy or metric call fails (that error). A driver runs once.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	initial, err := d.snapshot(d.sim.AbsoluteObs(), models.StepInfo{TimeStep: d.sim.TimeStep()})
	if err != nil {
		return err
	}
	d.publish(bus.EventRunStarted, initial)
	d.log.Info("run started",
		log.String("policy", d.policy.Name()),
		log.String("metric", d.metric.Name()),
		log.Int("max_steps", d.maxSteps),
		log.Duration("tick_delay", d.tickDelay),
	)

	err = d.loop(ctx)
	d.publish(bus.EventRunStopped, d.Latest())
	if err != nil {
		d.log.Error("run failed", log.Int("steps", d.Steps()), log.Error(err))
		return err
	}
	fields := []log.Field{log.Int("steps", d.Steps())}
	if d.bus != nil {
		m := d.bus.Metrics()
		fields = append(fields,
			log.Uint64("events_published", m.Published),
			log.Uint64("event_errors", m.Errors),
		)
	}
	d.log.Info("run stopped", fields...)
	return nil
}

func (d *Driver) loop(ctx context.Context) error {
	var tick <-chan time.Time
	if d.tickDelay > 0 {
		ticker := time.NewTicker(d.tickDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	obs := d.sim.Observation()
	for {
		if d.maxSteps > 0 && d.Steps() >= d.maxSteps {
			return nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		next, err := d.tick(obs)
		if err != nil {
			return err
		}
		obs = next
	}
}

func (d *Driver) tick(obs models.Observation) (models.Observation, error) {
	actions, err := d.policy.Action(obs)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", d.policy.Name(), err)
	}
	next, info, err := d.sim.Step(actions)
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}

	states := d.sim.AbsoluteObs()
	snap, err := d.snapshot(states, info)
	if err != nil {
		return nil, err
	}
	if d.recorder != nil {
		d.recorder.Record(states)
	}
	d.steps.Add(1)
	d.publish(bus.EventTick, snap)
	return next, nil
}

func (d *Driver) snapshot(states []models.State, info models.StepInfo) (*models.Snapshot, error) {
	value, err := d.metric.Compute(states)
	if err != nil {
		return nil, fmt.Errorf("metric %s: %w", d.metric.Name(), err)
	}
	return &models.Snapshot{
		RunID:       d.runID,
		TimeStep:    info.TimeStep,
		States:      states,
		Metric:      d.metric.Name(),
		MetricValue: value,
		Info:        info,
	}, nil
}

func (d *Driver) publish(eventType string, snap *models.Snapshot) {
	if snap == nil {
		return
	}
	if eventType != bus.EventRunStopped {
		d.latest.Store(snap)
	}
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(bus.NewEvent(eventType, d.runID, snap)); err != nil {
		// Observers failing never stop the simulation.
		d.log.Warn("event delivery failed",
			log.String("event", eventType),
			log.Int("time_step", snap.TimeStep),
			log.Error(err),
		)
	}
}
