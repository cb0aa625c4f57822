package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	entries []entry
}

func (r *recorder) add(level, message string, keyvals []any) {
	r.entries = append(r.entries, entry{level: level, message: message, keyvals: keyvals})
}

func (r *recorder) Log(m string, kv ...any)   { r.add("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.add("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any)  { r.add("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any)  { r.add("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.add("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.add("fatal", m, kv) }

func TestDispatchToAllInstances(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { Init() })

	Info("graph refreshed", "nodes", 3)
	Log("plain", "k", "v")

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []entry{
			{level: "info", message: "graph refreshed", keyvals: []any{"nodes", 3}},
			{level: "log", message: "plain", keyvals: []any{"k", "v"}},
		}, r.entries)
	}
}

func TestLevels(t *testing.T) {
	r := &recorder{}
	Init(r)
	t.Cleanup(func() { Init() })

	Debug("d")
	Warn("w")
	Error("e")
	Fatal("f")

	levels := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		levels = append(levels, e.level)
	}
	assert.Equal(t, []string{"debug", "warn", "error", "fatal"}, levels)
}

func TestNoInstances(t *testing.T) {
	Init()
	assert.NotPanics(t, func() { Info("dropped") })
}
