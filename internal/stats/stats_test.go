package stats

import "testing"

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(Noop); !ok {
		t.Error("OrNoop(nil) is not Noop")
	}
	c := Noop{}
	if OrNoop(c) != Collector(c) {
		t.Error("OrNoop(c) did not return c")
	}
	c.IncCounter(MetricGamesParsed, 1)
	c.SetGauge(MetricCollectionSize, 1)
	c.ObserveHistogram(MetricParseSeconds, 1)
}
