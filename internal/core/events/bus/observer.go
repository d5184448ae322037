package bus

import (
	"time"

	"github.com/zeusync/swarmsim/internal/core/observability/log"
)

// LogObserver reports deliveries through a logger. Failed deliveries and
// deliveries slower than Slow are logged at warn, everything else at debug.
// A zero Slow disables the latency warning.
type LogObserver struct {
	Log  log.Log
	Slow time.Duration
}

func NewLogObserver(logger log.Log, slow time.Duration) *LogObserver {
	return &LogObserver{Log: logger, Slow: slow}
}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, took time.Duration) {
	fields := []log.Field{
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", took),
	}
	switch {
	case err != nil:
		o.Log.Warn("event handlers failed", append(fields, log.Error(err))...)
	case o.Slow > 0 && took > o.Slow:
		o.Log.Warn("slow event delivery", fields...)
	default:
		o.Log.Debug("event delivered", fields...)
	}
}
