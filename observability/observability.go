package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Observability bundles the logger and the meter provider handed to the
// other components. Metrics are exposed in Prometheus format.
type Observability struct {
	log           *slog.Logger
	meterProvider metric.MeterProvider
	registry      *prometheus.Registry
	shutdown      func(ctx context.Context) error
}

// New creates the observability bundle. With metrics == "prometheus" the
// meter provider exports through a Prometheus registry, any other value
// installs a no-op provider.
func New(log *slog.Logger, metrics string) (*Observability, error) {
	o := &Observability{
		log:           log,
		meterProvider: noop.NewMeterProvider(),
		shutdown:      func(context.Context) error { return nil },
	}
	if metrics != "prometheus" {
		return o, nil
	}

	o.registry = prometheus.NewRegistry()
	if err := o.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering Go collector: %w", err)
	}
	if err := o.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(o.registry), otelprom.WithNamespace("escrow"))
	if err != nil {
		return nil, fmt.Errorf("creating Prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	o.meterProvider = mp
	o.shutdown = mp.Shutdown
	return o, nil
}

func (o *Observability) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return o.meterProvider.Meter(name, opts...)
}

func (o *Observability) Logger() *slog.Logger {
	return o.log
}

// MetricsHandler returns the scrape endpoint handler, nil when metrics are
// disabled.
func (o *Observability) MetricsHandler() http.Handler {
	if o.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{MaxRequestsInFlight: 1})
}

func (o *Observability) Shutdown(ctx context.Context) error {
	return o.shutdown(ctx)
}
