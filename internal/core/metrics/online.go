package metrics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// Registry keys for live metrics.
const (
	NameNone  = "Metric"
	NameMicro = "Micro_Entropy"
	NameMacro = "Macro_Entropy"
	NameHSE   = "HSE"
)

const DefaultHeadingBins = 8

// Metric scores one snapshot of the swarm. Implementations are O(N) and must
// not modify states.
type Metric interface {
	Name() string
	Compute(states []models.State) (float64, error)
}

// None always scores 0.
type None struct{}

func (None) Name() string                              { return NameNone }
func (None) Compute(_ []models.State) (float64, error) { return 0, nil }

// Macro is the entropy of the swarm-wide heading histogram.
type Macro struct {
	HeadingBins int
}

func (Macro) Name() string { return NameMacro }

func (m Macro) Compute(states []models.State) (float64, error) {
	bins, err := headingBins(states, m.HeadingBins)
	if err != nil {
		return 0, err
	}
	return Entropy(bins), nil
}

// Micro averages local heading disorder: the heading entropy inside each
// occupied grid cell, weighted by the cell's share of vehicles.
type Micro struct {
	GridSize    int
	HeadingBins int
}

func (Micro) Name() string { return NameMicro }

func (m Micro) Compute(states []models.State) (float64, error) {
	if len(states) == 0 {
		return 0, nil
	}
	headings, err := headingBins(states, m.HeadingBins)
	if err != nil {
		return 0, err
	}
	xs := make([]float64, len(states))
	ys := make([]float64, len(states))
	for i, s := range states {
		xs[i], ys[i] = s.X, s.Y
	}
	cx, err := Discretize(xs, m.GridSize)
	if err != nil {
		return 0, fmt.Errorf("micro x: %w", err)
	}
	cy, err := Discretize(ys, m.GridSize)
	if err != nil {
		return 0, fmt.Errorf("micro y: %w", err)
	}

	cells := make(map[[2]int][]int)
	for i := range states {
		key := [2]int{cx[i], cy[i]}
		cells[key] = append(cells[key], headings[i])
	}
	keys := make([][2]int, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	total := float64(len(states))
	h := 0.0
	for _, k := range keys {
		members := cells[k]
		h += float64(len(members)) / total * Entropy(members)
	}
	return h, nil
}

func headingBins(states []models.State, nbins int) ([]int, error) {
	normalized := make([]float64, len(states))
	for i, s := range states {
		normalized[i] = physics.WrapAngle(s.Angle) / physics.TwoPi
	}
	return Discretize(normalized, nbins)
}

// Factory builds a live metric.
type Factory func() Metric

// Registry resolves live metric names.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry holds every built-in live metric with default parameters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NameNone, func() Metric { return None{} })
	r.Register(NameMacro, func() Metric { return Macro{HeadingBins: DefaultHeadingBins} })
	r.Register(NameMicro, func() Metric {
		return Micro{GridSize: DefaultGridSize, HeadingBins: DefaultHeadingBins}
	})
	r.Register(NameHSE, func() Metric { return NewHSE(DefaultGridSize) })
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

func (r *Registry) New(name string) (Metric, error) {
	r.mu.RLock()
	f := r.factories[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return f(), nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
