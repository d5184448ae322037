package models

import (
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// Dimensions of the per-vehicle vectors exchanged between world and policies.
const (
	DimState  = 4
	DimObs    = 4
	DimAction = 2
)

// State is one vehicle: position in the unit square, heading in [0, 2π)
// and normalized speed in [0, 1].
type State struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Velocity float64 `json:"velocity"`
}

func (s State) Pos() physics.Vec2 { return physics.Vec2{Xv: s.X, Yv: s.Y} }

// Vector returns the state in tensor field order.
func (s State) Vector() [DimState]float64 {
	return [DimState]float64{s.X, s.Y, s.Angle, s.Velocity}
}

// Field indexes a component of State inside a recording tensor.
type Field uint8

const (
	FieldPosX Field = iota
	FieldPosY
	FieldAngle
	FieldVelocity
)

var fieldNames = [...]string{"pos_x", "pos_y", "angle", "velocity"}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// ParseField resolves a field by its tensor column name.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, ErrUnknownField
}

// Normalize maps a raw field value onto [0, 1]. Only the heading needs
// rescaling; the other fields are stored normalized.
func (f Field) Normalize(v float64) float64 {
	if f == FieldAngle {
		return v / physics.TwoPi
	}
	return v
}

func (s State) Get(f Field) float64 {
	switch f {
	case FieldPosX:
		return s.X
	case FieldPosY:
		return s.Y
	case FieldAngle:
		return s.Angle
	default:
		return s.Velocity
	}
}

// Action is a per-vehicle control input. Steer is added to the heading in
// radians, Throttle to the normalized speed. The world clamps both.
type Action struct {
	Steer    float64 `json:"steer"`
	Throttle float64 `json:"throttle"`
}

// Observation is the relative, policy-facing view: one row per vehicle of
// (x - cx, y - cy, angle, velocity) around the swarm centroid (cx, cy).
type Observation [][DimObs]float64

// Pos returns the relative position of vehicle i.
func (o Observation) Pos(i int) physics.Vec2 {
	return physics.Vec2{Xv: o[i][0], Yv: o[i][1]}
}

func (o Observation) Angle(i int) float64    { return o[i][2] }
func (o Observation) Velocity(i int) float64 { return o[i][3] }

// RelativeObservation builds the centroid-relative view of states. The
// centroid is a plain mean and ignores a wrapping boundary; differences
// between two rows do not depend on it, so consumers that need seam-aware
// offsets fold those differences with physics.Space.
func RelativeObservation(states []State) Observation {
	obs := make(Observation, len(states))
	if len(states) == 0 {
		return obs
	}
	var cx, cy float64
	for _, s := range states {
		cx += s.X
		cy += s.Y
	}
	n := float64(len(states))
	cx, cy = cx/n, cy/n
	for i, s := range states {
		obs[i] = [DimObs]float64{s.X - cx, s.Y - cy, s.Angle, s.Velocity}
	}
	return obs
}

// StepInfo carries per-step diagnostics. Nothing in the observation depends on it.
type StepInfo struct {
	TimeStep       int `json:"time_step"`
	Collisions     int `json:"collisions"`
	ClampedActions int `json:"clamped_actions"`
}

// WorldState is the aggregate state owned by a world.
type WorldState struct {
	Vehicles []State
	TimeStep int
}

// Clone returns a deep copy.
func (w WorldState) Clone() WorldState {
	out := WorldState{TimeStep: w.TimeStep, Vehicles: make([]State, len(w.Vehicles))}
	copy(out.Vehicles, w.Vehicles)
	return out
}
