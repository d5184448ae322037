package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, l.GetLevel())

	child := l.With(String("component", "test"), Int("n", 3))
	assert.NotNil(t, child)

	// must not panic on any field type
	child.Info("hello",
		Bool("b", true),
		Float64("f", 1.5),
		Int64("i", 2),
		Uint64("u", 3),
		Error(errors.New("boom")),
		Error(nil),
		Any("a", []int{1}),
	)
}

func TestToZapFieldsLength(t *testing.T) {
	fields := toZapFields(String("a", "b"), Int("c", 1))
	assert.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "c", fields[1].Key)
}
