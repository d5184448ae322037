package world

import (
	"fmt"
	"math"

	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// Boundary selects what happens to a vehicle that leaves the unit square.
type Boundary uint8

const (
	// BoundaryWrap treats the unit square as a torus.
	BoundaryWrap Boundary = iota
	// BoundaryClamp pins the vehicle to the nearest edge.
	BoundaryClamp
)

func (b Boundary) String() string {
	switch b {
	case BoundaryWrap:
		return "wrap"
	case BoundaryClamp:
		return "clamp"
	default:
		return fmt.Sprintf("boundary(%d)", uint8(b))
	}
}

func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "wrap", "":
		return BoundaryWrap, nil
	case "clamp":
		return BoundaryClamp, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
	}
}

// Config holds the world's kinematic constants.
type Config struct {
	Seed     uint64
	Boundary Boundary

	// SpeedScale converts normalized velocity into unit-square distance per step.
	SpeedScale float64
	// MaxSteer bounds |Action.Steer| in radians per step.
	MaxSteer float64
	// MaxThrottle bounds |Action.Throttle| per step.
	MaxThrottle float64
	// CollisionRadius is the distance under which two vehicles count as colliding.
	CollisionRadius float64
}

func DefaultConfig() Config {
	return Config{
		Seed:            0,
		Boundary:        BoundaryWrap,
		SpeedScale:      0.01,
		MaxSteer:        math.Pi / 8,
		MaxThrottle:     0.1,
		CollisionRadius: 0.01,
	}
}

// Space is the metric the boundary induces: distances cross the seam only
// when the world wraps.
func (c Config) Space() physics.Space {
	return physics.Space{Wrap: c.Boundary == BoundaryWrap}
}
