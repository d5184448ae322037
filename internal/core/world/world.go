package world

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/observability/log"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// World owns the vehicle states and advances them one step at a time.
// It is not safe for concurrent use; the live driver is its only writer and
// external readers go through published snapshots.
type World struct {
	cfg     Config
	rng     *rand.Rand
	initial []models.State
	state   models.WorldState
	log     log.Log
}

type Option func(*World)

func WithLogger(l log.Log) Option {
	return func(w *World) { w.log = l }
}

// New creates an empty world. Vehicles are added by InitVehicles.
func New(cfg Config, opts ...Option) *World {
	w := &World{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		log: log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// InitVehicles places n vehicles at random from the world RNG. The result
// becomes the configuration Reset returns to.
func (w *World) InitVehicles(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidVehicleCount, n)
	}
	vehicles := make([]models.State, n)
	for i := range vehicles {
		vehicles[i] = models.State{
			X:        w.rng.Float64(),
			Y:        w.rng.Float64(),
			Angle:    w.rng.Float64() * physics.TwoPi,
			Velocity: w.rng.Float64(),
		}
	}
	w.initial = vehicles
	w.state = models.WorldState{Vehicles: cloneStates(vehicles)}

	w.log.Debug("vehicles initialized",
		log.Int("vehicles", n),
		log.Uint64("seed", w.cfg.Seed),
	)
	return nil
}

// Reset restores the post-InitVehicles configuration and returns the first observation.
func (w *World) Reset() (models.Observation, error) {
	if w.initial == nil {
		return nil, ErrNotInitialized
	}
	w.state = models.WorldState{Vehicles: cloneStates(w.initial)}
	return w.Observation(), nil
}

// Step applies one action per vehicle and advances time by one tick.
// Out-of-range actions are clamped; a wrong number of actions is an error.
func (w *World) Step(actions []models.Action) (models.Observation, models.StepInfo, error) {
	if w.initial == nil {
		return nil, models.StepInfo{}, ErrNotInitialized
	}
	if len(actions) != len(w.state.Vehicles) {
		return nil, models.StepInfo{}, fmt.Errorf("%w: %d actions for %d vehicles",
			ErrActionShape, len(actions), len(w.state.Vehicles))
	}

	clamped := 0
	for i, a := range actions {
		steer := physics.Clamp(a.Steer, -w.cfg.MaxSteer, w.cfg.MaxSteer)
		throttle := physics.Clamp(a.Throttle, -w.cfg.MaxThrottle, w.cfg.MaxThrottle)
		if steer != a.Steer || throttle != a.Throttle {
			clamped++
		}
		w.state.Vehicles[i] = w.advance(w.state.Vehicles[i], steer, throttle)
	}
	w.state.TimeStep++

	info := models.StepInfo{
		TimeStep:       w.state.TimeStep,
		Collisions:     w.collisions(),
		ClampedActions: clamped,
	}
	return w.Observation(), info, nil
}

func (w *World) advance(s models.State, steer, throttle float64) models.State {
	s.Angle = physics.WrapAngle(s.Angle + steer)
	s.Velocity = physics.Clamp(s.Velocity+throttle, 0, 1)

	d := s.Velocity * w.cfg.SpeedScale
	x := s.X + math.Cos(s.Angle)*d
	y := s.Y + math.Sin(s.Angle)*d

	switch w.cfg.Boundary {
	case BoundaryClamp:
		s.X = physics.Clamp(x, 0, 1)
		s.Y = physics.Clamp(y, 0, 1)
	default:
		s.X = physics.WrapUnit(x)
		s.Y = physics.WrapUnit(y)
	}
	return s
}

func (w *World) collisions() int {
	if w.cfg.CollisionRadius <= 0 {
		return 0
	}
	limit := w.cfg.CollisionRadius * w.cfg.CollisionRadius
	space := w.cfg.Space()
	vs := w.state.Vehicles
	count := 0
	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			if space.DistSq(vs[i].Pos(), vs[j].Pos()) < limit {
				count++
			}
		}
	}
	return count
}

// Observation returns the relative, policy-facing view of the current state.
func (w *World) Observation() models.Observation {
	return models.RelativeObservation(w.state.Vehicles)
}

// AbsoluteObs returns a copy of every vehicle's untransformed state.
func (w *World) AbsoluteObs() []models.State {
	return cloneStates(w.state.Vehicles)
}

// State returns a deep copy of the world state.
func (w *World) State() models.WorldState { return w.state.Clone() }

func (w *World) TimeStep() int    { return w.state.TimeStep }
func (w *World) NumVehicles() int { return len(w.state.Vehicles) }
func (w *World) DimObs() int      { return models.DimObs }
func (w *World) DimAction() int   { return models.DimAction }
func (w *World) Config() Config   { return w.cfg }

func cloneStates(in []models.State) []models.State {
	out := make([]models.State, len(in))
	copy(out, in)
	return out
}
