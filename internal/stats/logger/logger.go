// Package logger provides a stats collector that writes each update to a zap
// logger at debug level.
package logger

import (
	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/stats"
)

// Collector logs metric updates.
type Collector struct {
	log *zap.Logger
}

var _ stats.Collector = (*Collector)(nil)

// New creates a logging collector. A nil logger discards everything.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log.Named("stats")}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	c.log.Debug("counter", zap.String("metric", name), zap.Int64("delta", delta))
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.log.Debug("gauge", zap.String("metric", name), zap.Int64("value", value))
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.log.Debug("histogram", zap.String("metric", name), zap.Float64("value", value))
}
