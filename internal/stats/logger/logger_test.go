package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/pgntree/internal/stats"
)

func TestCollector(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricGamesParsed, 2)
	c.SetGauge(stats.MetricCollectionSize, 7)
	c.ObserveHistogram(stats.MetricParseSeconds, 0.5)

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}
	wantMessages := []string{"counter", "gauge", "histogram"}
	for i, e := range entries {
		if e.Message != wantMessages[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, wantMessages[i])
		}
		if e.LoggerName != "stats" {
			t.Errorf("entry %d logger = %q, want stats", i, e.LoggerName)
		}
	}
	if got := entries[0].ContextMap()["metric"]; got != stats.MetricGamesParsed {
		t.Errorf("metric field = %v", got)
	}
	if got := entries[1].ContextMap()["value"]; got != int64(7) {
		t.Errorf("value field = %v (%T)", got, got)
	}
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	c.IncCounter("x", 1)
}
