package policy

import (
	"math/rand/v2"

	"github.com/zeusync/swarmsim/internal/core/models"
)

// Noop never steers or throttles. It is the baseline every other policy is
// compared against.
type Noop struct{}

func NewNoop(_ StateReader, dimObs, dimAction int, _ ...Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	return Noop{}, nil
}

func (Noop) Name() string { return NameDefault }

func (Noop) Action(obs models.Observation) ([]models.Action, error) {
	return make([]models.Action, len(obs)), nil
}

// Random draws every vehicle's steer and throttle uniformly within the
// limits, independently each tick.
type Random struct {
	rng    *rand.Rand
	limits Limits
}

func NewRandom(_ StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Random{rng: newRNG(o.seed), limits: o.limits}, nil
}

func (r *Random) Name() string { return NameRandom }

func (r *Random) Action(obs models.Observation) ([]models.Action, error) {
	actions := make([]models.Action, len(obs))
	for i := range actions {
		actions[i] = randomImpulse(r.rng, r.limits)
	}
	return actions, nil
}

func randomImpulse(rng *rand.Rand, l Limits) models.Action {
	return models.Action{
		Steer:    (2*rng.Float64() - 1) * l.MaxSteer,
		Throttle: (2*rng.Float64() - 1) * l.MaxThrottle,
	}
}
