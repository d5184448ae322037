package policy

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

var (
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrDimension     = errors.New("unsupported observation or action dimension")
)

// Policy maps an observation to one action per vehicle. Implementations may
// keep their own RNG or graph state but never touch the world.
type Policy interface {
	Name() string
	Action(obs models.Observation) ([]models.Action, error)
}

// StateReader is the read-only view of a world a policy may be built with.
type StateReader interface {
	AbsoluteObs() []models.State
	NumVehicles() int
}

// Limits mirror the world's action bounds so policies produce actions in range.
type Limits struct {
	MaxSteer    float64
	MaxThrottle float64
}

func DefaultLimits() Limits {
	return Limits{MaxSteer: math.Pi / 8, MaxThrottle: 0.1}
}

type options struct {
	seed   uint64
	limits Limits
	space  physics.Space
}

type Option func(*options)

// WithSeed seeds the policy's private RNG.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

func WithLimits(l Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithSpace sets how policies measure offsets between vehicles. Without it
// offsets are plain differences and ignore a wrapping world's seam.
func WithSpace(s physics.Space) Option {
	return func(o *options) { o.space = s }
}

func buildOptions(opts []Option) options {
	o := options{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

func checkDims(dimObs, dimAction int) error {
	if dimObs != models.DimObs || dimAction != models.DimAction {
		return fmt.Errorf("%w: obs=%d action=%d, want obs=%d action=%d",
			ErrDimension, dimObs, dimAction, models.DimObs, models.DimAction)
	}
	return nil
}

// steerToward turns heading toward target with a proportional gain and
// keeps the command inside the limits.
func steerToward(heading, target, gain float64, l Limits) float64 {
	return physics.Clamp(gain*physics.AngleDiff(heading, target), -l.MaxSteer, l.MaxSteer)
}

func throttleToward(current, target, gain float64, l Limits) float64 {
	return physics.Clamp(gain*(target-current), -l.MaxThrottle, l.MaxThrottle)
}
