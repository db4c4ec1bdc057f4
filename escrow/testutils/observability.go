package testutils

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/alphabill-org/alphabill-escrow/logger"
)

// Observability is a no-op observability implementation for tests.
type Observability struct {
	log *slog.Logger
}

func NewObservability() *Observability {
	return &Observability{log: logger.NOP()}
}

func (o *Observability) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return noop.NewMeterProvider().Meter(name)
}

func (o *Observability) Logger() *slog.Logger {
	return o.log
}
