package policy

import (
	"math/rand/v2"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// LeaderIndex is the vehicle every follower tracks.
const LeaderIndex = 0

const (
	leaderCruise   = 0.5
	followDistance = 0.05
	followGain     = 0.5
)

// FollowLeader lets vehicle LeaderIndex wander at cruise speed while every
// other vehicle steers toward the leader's position and matches its speed,
// speeding up when further than followDistance away. In a wrapping world
// followers chase the leader's nearest image.
type FollowLeader struct {
	rng    *rand.Rand
	limits Limits
	space  physics.Space
}

func NewFollowLeader(_ StateReader, dimObs, dimAction int, opts ...Option) (Policy, error) {
	if err := checkDims(dimObs, dimAction); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &FollowLeader{rng: newRNG(o.seed), limits: o.limits, space: o.space}, nil
}

func (p *FollowLeader) Name() string { return NameFollowLeader }

func (p *FollowLeader) Action(obs models.Observation) ([]models.Action, error) {
	actions := make([]models.Action, len(obs))
	if len(obs) == 0 {
		return actions, nil
	}

	leaderPos := obs.Pos(LeaderIndex)
	leaderVel := obs.Velocity(LeaderIndex)
	actions[LeaderIndex] = models.Action{
		Steer:    (p.rng.Float64() - 0.5) * p.limits.MaxSteer,
		Throttle: throttleToward(leaderVel, leaderCruise, followGain, p.limits),
	}

	for i := range obs {
		if i == LeaderIndex {
			continue
		}
		toLeader := p.space.Delta(obs.Pos(i), leaderPos)
		heading := obs.Angle(LeaderIndex)
		if !toLeader.IsZero() {
			heading = toLeader.Heading()
		}
		target := leaderVel + (toLeader.Len() - followDistance)
		actions[i] = models.Action{
			Steer:    steerToward(obs.Angle(i), heading, followGain, p.limits),
			Throttle: throttleToward(obs.Velocity(i), target, followGain, p.limits),
		}
	}
	return actions, nil
}
