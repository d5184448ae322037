package policy

import (
	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// BoidsConfig holds the flocking constants. A zero InteractionRadius means
// every other vehicle is a neighbour.
type BoidsConfig struct {
	InteractionRadius float64
	SeparationRadius  float64
	SeparationWeight  float64
	AlignmentWeight   float64
	CohesionWeight    float64
	Gain              float64
}

func DefaultBoidsConfig() BoidsConfig {
	return BoidsConfig{
		InteractionRadius: 0.15,
		SeparationRadius:  0.05,
		SeparationWeight:  1.5,
		AlignmentWeight:   1.0,
		CohesionWeight:    1.0,
		Gain:              0.5,
	}
}

// Boids combines separation, alignment and cohesion over each vehicle's
// neighbourhood into a desired heading, and matches the neighbourhood's
// mean speed. It is deterministic and holds no RNG.
type Boids struct {
	name   string
	cfg    BoidsConfig
	limits Limits
	space  physics.Space
}

// NewBoids uses a fixed interaction radius.
func NewBoids(_ StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Boids{name: NameBoids, cfg: DefaultBoidsConfig(), limits: o.limits, space: o.space}, nil
}

// NewSimplifiedBoids treats all other vehicles as neighbours.
func NewSimplifiedBoids(_ StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	cfg := DefaultBoidsConfig()
	cfg.InteractionRadius = 0
	return &Boids{name: NameSimplifiedBoids, cfg: cfg, limits: o.limits, space: o.space}, nil
}

func (b *Boids) Name() string { return b.name }

func (b *Boids) Action(obs models.Observation) ([]models.Action, error) {
	actions := make([]models.Action, len(obs))
	for i := range obs {
		actions[i] = b.steer(obs, i)
	}
	return actions, nil
}

func (b *Boids) steer(obs models.Observation, i int) models.Action {
	me := obs.Pos(i)
	radiusSq := b.cfg.InteractionRadius * b.cfg.InteractionRadius
	sepSq := b.cfg.SeparationRadius * b.cfg.SeparationRadius

	// offset accumulates neighbour positions relative to me, so its mean
	// points at the neighbourhood centroid.
	var separation, heading, offset physics.Vec2
	speed, neighbours := 0.0, 0

	for j := range obs {
		if j == i {
			continue
		}
		d := b.space.Delta(me, obs.Pos(j))
		distSq := d.LenSq()

		if distSq < sepSq {
			away := d.Scale(-1)
			if away.IsZero() {
				// coincident: push along own heading
				away = physics.Unit(obs.Angle(i))
			}
			separation = separation.Add(unit(away).Scale(1 - distSq/sepSq))
		}
		if b.cfg.InteractionRadius > 0 && distSq >= radiusSq {
			continue
		}
		heading = heading.Add(physics.Unit(obs.Angle(j)))
		offset = offset.Add(d)
		speed += obs.Velocity(j)
		neighbours++
	}

	desired := unit(separation).Scale(b.cfg.SeparationWeight)
	targetSpeed := obs.Velocity(i)
	if neighbours > 0 {
		n := float64(neighbours)
		desired = desired.
			Add(unit(heading).Scale(b.cfg.AlignmentWeight)).
			Add(unit(offset.Scale(1 / n)).Scale(b.cfg.CohesionWeight))
		targetSpeed = speed / n
	}
	if desired.IsZero() {
		return models.Action{}
	}

	return models.Action{
		Steer:    steerToward(obs.Angle(i), desired.Heading(), b.cfg.Gain, b.limits),
		Throttle: throttleToward(obs.Velocity(i), targetSpeed, b.cfg.Gain, b.limits),
	}
}

func unit(v physics.Vec2) physics.Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}
