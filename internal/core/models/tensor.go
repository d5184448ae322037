package models

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/swarmsim/internal/core/systems/physics"
)

// Tensor is an immutable (T, N, 4) trajectory recording.
type Tensor struct {
	steps    int
	vehicles int
	data     []float64
}

// NewTensor reshapes a flattened (T, N*4) buffer into (T, N, 4).
// The buffer is copied.
func NewTensor(flat []float64, steps int) (*Tensor, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: %d steps", ErrMalformedTensor, steps)
	}
	if len(flat) == 0 || len(flat)%steps != 0 {
		return nil, fmt.Errorf("%w: %d values do not split into %d steps", ErrMalformedTensor, len(flat), steps)
	}
	rowLen := len(flat) / steps
	if rowLen%DimState != 0 {
		return nil, fmt.Errorf("%w: row of %d values is not a multiple of %d", ErrMalformedTensor, rowLen, DimState)
	}
	data := make([]float64, len(flat))
	copy(data, flat)
	return &Tensor{steps: steps, vehicles: rowLen / DimState, data: data}, nil
}

// TensorFromRows builds a tensor from (T, N*4) rows of equal length.
func TensorFromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedTensor)
	}
	rowLen := len(rows[0])
	flat := make([]float64, 0, rowLen*len(rows))
	for i, row := range rows {
		if len(row) != rowLen {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedTensor, i, len(row), rowLen)
		}
		flat = append(flat, row...)
	}
	return NewTensor(flat, len(rows))
}

// TensorFromStates builds a tensor from a per-step history of vehicle states.
func TensorFromStates(history [][]State) (*Tensor, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty history", ErrMalformedTensor)
	}
	n := len(history[0])
	flat := make([]float64, 0, len(history)*n*DimState)
	for t, states := range history {
		if len(states) != n {
			return nil, fmt.Errorf("%w: step %d has %d vehicles, want %d", ErrMalformedTensor, t, len(states), n)
		}
		for _, s := range states {
			v := s.Vector()
			flat = append(flat, v[:]...)
		}
	}
	return NewTensor(flat, len(history))
}

func (t *Tensor) Steps() int    { return t.steps }
func (t *Tensor) Vehicles() int { return t.vehicles }

func (t *Tensor) offset(step, vehicle int) int {
	return (step*t.vehicles + vehicle) * DimState
}

// At returns the state of vehicle at step. Out-of-range indices panic like
// slice indexing does.
func (t *Tensor) At(step, vehicle int) State {
	if vehicle < 0 || vehicle >= t.vehicles {
		panic(fmt.Sprintf("tensor: vehicle %d out of range [0,%d)", vehicle, t.vehicles))
	}
	o := t.offset(step, vehicle)
	return State{X: t.data[o], Y: t.data[o+1], Angle: t.data[o+2], Velocity: t.data[o+3]}
}

// Snapshot copies out all vehicle states at step.
func (t *Tensor) Snapshot(step int) []State {
	out := make([]State, t.vehicles)
	for v := range out {
		out[v] = t.At(step, v)
	}
	return out
}

// Positions copies out all vehicle positions at step.
func (t *Tensor) Positions(step int) []physics.Vec2 {
	out := make([]physics.Vec2, t.vehicles)
	for v := range out {
		o := t.offset(step, v)
		out[v] = physics.Vec2{Xv: t.data[o], Yv: t.data[o+1]}
	}
	return out
}

// Series returns the time series of one field for one vehicle.
func (t *Tensor) Series(vehicle int, f Field) []float64 {
	if vehicle < 0 || vehicle >= t.vehicles {
		panic(fmt.Sprintf("tensor: vehicle %d out of range [0,%d)", vehicle, t.vehicles))
	}
	out := make([]float64, t.steps)
	for step := range out {
		out[step] = t.data[t.offset(step, vehicle)+int(f)]
	}
	return out
}

// Row copies the flattened N*4 values of one step.
func (t *Tensor) Row(step int) []float64 {
	rowLen := t.vehicles * DimState
	out := make([]float64, rowLen)
	copy(out, t.data[step*rowLen:(step+1)*rowLen])
	return out
}

// Fingerprint hashes the shape and raw values. Two tensors with the same
// fingerprint are, for all practical purposes, the same recording.
func (t *Tensor) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(t.steps))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(t.vehicles))
	_, _ = d.Write(buf[:])
	for _, v := range t.data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
