package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/swarmsim/internal/core/observability/log"
)

type entry struct {
	level string
	msg   string
}

// baseLog aliases log.Log so the embedded field is not named Log, which
// would shadow the promoted Log method.
type baseLog = log.Log

type recordingLog struct {
	baseLog
	mu      sync.Mutex
	entries []entry
}

func newRecordingLog() *recordingLog { return &recordingLog{baseLog: log.NewNop()} }

func (r *recordingLog) add(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{level, msg})
}

func (r *recordingLog) Debug(msg string, _ ...log.Field) { r.add("debug", msg) }
func (r *recordingLog) Warn(msg string, _ ...log.Field)  { r.add("warn", msg) }

func (r *recordingLog) all() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry(nil), r.entries...)
}

func TestLogObserverLevels(t *testing.T) {
	logs := newRecordingLog()
	obs := NewLogObserver(logs, 50*time.Millisecond)

	obs.OnDelivered(EventTick, 2, nil, time.Millisecond)
	obs.OnDelivered(EventTick, 2, errors.New("boom"), time.Millisecond)
	obs.OnDelivered(EventTick, 1, nil, time.Second)

	assert.Equal(t, []entry{
		{"debug", "event delivered"},
		{"warn", "event handlers failed"},
		{"warn", "slow event delivery"},
	}, logs.all())
}

func TestLogObserverOnBus(t *testing.T) {
	b := New()
	logs := newRecordingLog()
	obs := NewLogObserver(logs, 0)
	b.AddObserver(obs)

	_, err := b.Subscribe(EventTick, func(Event) error { return errors.New("viewer gone") })
	require.NoError(t, err)

	assert.Error(t, b.Publish(NewEvent(EventTick, "run", nil)))
	require.NoError(t, b.Publish(NewEvent(EventRunStopped, "run", nil)))

	assert.Equal(t, []entry{
		{"warn", "event handlers failed"},
		{"debug", "event delivered"},
	}, logs.all())
	m := b.Metrics()
	assert.Equal(t, uint64(2), m.Published)
	assert.Equal(t, uint64(1), m.Errors)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent(EventTick, "run", nil))
	assert.Len(t, logs.all(), 2)
}
