package physics

import "math"

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// Vec2 is a value-typed planar vector used for positions, offsets and
// steering sums.
type Vec2 struct{ Xv, Yv float64 }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.Xv + o.Xv, v.Yv + o.Yv} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.Xv - o.Xv, v.Yv - o.Yv} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.Xv * k, v.Yv * k} }
func (v Vec2) Len() float64         { return math.Hypot(v.Xv, v.Yv) }
func (v Vec2) IsZero() bool         { return v.Xv == 0 && v.Yv == 0 }
func (v Vec2) Heading() float64     { return WrapAngle(math.Atan2(v.Yv, v.Xv)) }
func (v Vec2) LenSq() float64       { return v.Xv*v.Xv + v.Yv*v.Yv }

// Unit returns the unit vector along heading angle.
func Unit(angle float64) Vec2 { return Vec2{math.Cos(angle), math.Sin(angle)} }

// WrapAngle maps any finite angle into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod of a tiny negative value can round back up to 2π.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(b-a, TwoPi)
	if d > math.Pi {
		d -= TwoPi
	} else if d <= -math.Pi {
		d += TwoPi
	}
	return d
}

// Clamp bounds v to [lo, hi]. NaN becomes 0 if 0 is in range, lo otherwise.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		if lo <= 0 && hi >= 0 {
			return 0
		}
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapUnit maps v onto [0, 1) as a torus coordinate.
func WrapUnit(v float64) float64 {
	v = v - math.Floor(v)
	if v >= 1 {
		v = 0
	}
	return v
}
