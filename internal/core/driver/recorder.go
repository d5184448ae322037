package driver

import (
	"sync"

	"github.com/zeusync/swarmsim/internal/core/models"
)

// Recorder accumulates the post-step vehicle states of a run so the run can
// be analyzed offline like any other recording.
type Recorder struct {
	mu      sync.Mutex
	history [][]models.State
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{history: make([][]models.State, 0, capacity)}
}

// Record stores states. The slice must not be modified afterwards.
func (r *Recorder) Record(states []models.State) {
	r.mu.Lock()
	r.history = append(r.history, states)
	r.mu.Unlock()
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// Tensor builds the (T, N, 4) recording of everything stored so far.
func (r *Recorder) Tensor() (*models.Tensor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return nil, ErrEmptyRecording
	}
	return models.TensorFromStates(r.history)
}
