package metrics

import (
	"fmt"
	"math"
	"sort"
)

// Discretize maps values in [0, 1] to integer bins with floor(v*nbins).
// v == 1 lands in the top bin. Values outside [0, 1] and NaN are rejected
// rather than clamped.
func Discretize(values []float64, nbins int) ([]int, error) {
	if nbins <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, nbins)
	}
	out := make([]int, len(values))
	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: value %v at index %d", ErrOutOfRange, v, i)
		}
		b := int(math.Floor(v * float64(nbins)))
		if b >= nbins {
			b = nbins - 1
		}
		out[i] = b
	}
	return out, nil
}

// Entropy is the Shannon entropy, in bits, of the empirical distribution of x.
func Entropy(x []int) float64 {
	counts := make(map[int]int, len(x))
	for _, v := range x {
		counts[v]++
	}
	return entropyOfCounts(countValues(counts), len(x))
}

// JointEntropy is the entropy, in bits, of the empirical distribution of the
// pairs (x[i], y[i]).
func JointEntropy(x, y []int) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: len(x)=%d len(y)=%d", ErrShapeMismatch, len(x), len(y))
	}
	counts := make(map[[2]int]int, len(x))
	for i := range x {
		counts[[2]int{x[i], y[i]}]++
	}
	return entropyOfCounts(countValues(counts), len(x)), nil
}

func countValues[K comparable](m map[K]int) []int {
	out := make([]int, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	// Summation order fixes the rounding, so H(X,Y) and H(Y,X) agree bit for bit.
	sort.Ints(out)
	return out
}

func entropyOfCounts(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	n := float64(total)
	h := 0.0
	for _, c := range counts {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	if h <= 0 {
		return 0
	}
	return h
}

// Info is the full set of pairwise information quantities, in bits.
type Info struct {
	Hx           float64 `json:"hx"`
	Hy           float64 `json:"hy"`
	Hxy          float64 `json:"hxy"`
	HyGivenX     float64 `json:"hy_given_x"`
	HxGivenY     float64 `json:"hx_given_y"`
	MI           float64 `json:"mi"`
	MINormalized float64 `json:"mi_normalized"`
}

// Investigate computes entropies, conditional entropies and mutual
// information of two equally long discretized series.
//
// MI is computed as H(X)+H(Y)-H(X,Y), which equals H(Y)-H(Y|X) but is exactly
// symmetric in floating point; rounding noise below zero is floored.
// MINormalized is MI/min(H(X),H(Y)) and 0 when that minimum is 0.
func Investigate(x, y []int) (Info, error) {
	hxy, err := JointEntropy(x, y)
	if err != nil {
		return Info{}, err
	}
	hx := Entropy(x)
	hy := Entropy(y)

	info := Info{
		Hx:       hx,
		Hy:       hy,
		Hxy:      hxy,
		HyGivenX: hxy - hx,
		HxGivenY: hxy - hy,
		MI:       math.Max(0, hx+hy-hxy),
	}
	if m := math.Min(hx, hy); m > 0 {
		info.MINormalized = info.MI / m
	}
	return info, nil
}
