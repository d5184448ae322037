package metrics

import (
	"fmt"

	"github.com/zeusync/swarmsim/internal/core/models"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

const DefaultGridSize = 10

// HSERecord is one sampled spatial-dispersion value of a recording.
type HSERecord struct {
	SeedID   int64   `json:"seed" parquet:"Seed"`
	TimeStep int64   `json:"time_step" parquet:"Time"`
	HSE      float64 `json:"hse" parquet:"HSE"`
}

// HSE scores how spread out a swarm is at one instant: the entropy, in bits,
// of vehicle occupancy over a GridSize x GridSize partition of the unit
// square. All vehicles in one cell score 0; one vehicle per cell scores
// log2(N).
type HSE struct {
	GridSize int
}

func NewHSE(gridSize int) HSE {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return HSE{GridSize: gridSize}
}

// Of computes the metric for one snapshot of positions.
func (h HSE) Of(positions []physics.Vec2) (float64, error) {
	xs := make([]float64, len(positions))
	ys := make([]float64, len(positions))
	for i, p := range positions {
		xs[i], ys[i] = p.Xv, p.Yv
	}
	bx, err := Discretize(xs, h.GridSize)
	if err != nil {
		return 0, fmt.Errorf("hse x: %w", err)
	}
	by, err := Discretize(ys, h.GridSize)
	if err != nil {
		return 0, fmt.Errorf("hse y: %w", err)
	}
	return JointEntropy(bx, by)
}

// Name implements Metric.
func (h HSE) Name() string { return NameHSE }

// Compute implements Metric over live vehicle states.
func (h HSE) Compute(states []models.State) (float64, error) {
	positions := make([]physics.Vec2, len(states))
	for i, s := range states {
		positions[i] = s.Pos()
	}
	return h.Of(positions)
}

// HSESeries samples up to samples evenly strided steps of a recording and
// scores each one. The stride is Steps/samples; sample i sits at step
// i*stride.
func HSESeries(seedID int64, t *models.Tensor, samples int, h HSE) ([]HSERecord, error) {
	if samples <= 0 || samples > t.Steps() {
		samples = t.Steps()
	}
	stride := t.Steps() / samples
	records := make([]HSERecord, samples)
	for i := range records {
		step := i * stride
		v, err := h.Of(t.Positions(step))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		records[i] = HSERecord{SeedID: seedID, TimeStep: int64(step), HSE: v}
	}
	return records, nil
}
