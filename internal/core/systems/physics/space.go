package physics

import "math"

// Space measures displacements inside the unit square. When Wrap is set the
// square is a torus and every displacement takes the shortest way across
// the seam.
type Space struct {
	Wrap bool
}

// Delta is the displacement from a to b.
func (s Space) Delta(from, to Vec2) Vec2 {
	d := to.Sub(from)
	if s.Wrap {
		d = Vec2{MinImage(d.Xv), MinImage(d.Yv)}
	}
	return d
}

func (s Space) DistSq(a, b Vec2) float64 { return s.Delta(a, b).LenSq() }

// MinImage folds a unit-period coordinate difference into [-0.5, 0.5].
func MinImage(d float64) float64 {
	return d - math.Round(d)
}
