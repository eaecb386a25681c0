// Package metrics exposes the service counters through an OpenTelemetry
// meter backed by a Prometheus exporter.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	routeKey  = attribute.Key("http.route")
	methodKey = attribute.Key("http.method")
	statusKey = attribute.Key("http.status_code")
	driverKey = attribute.Key("store.driver")
	resultKey = attribute.Key("result")
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	exporter *prometheus.Exporter
	requests metric.Int64Counter
	duration metric.Float64ValueRecorder
	saves    metric.Int64Counter
}

func New(service string) (*Metrics, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := metric.Must(global.Meter(service))

	return &Metrics{
		exporter: exporter,
		requests: meter.NewInt64Counter(
			"http/server/request_count",
			metric.WithDescription("Count of handled requests, by route, method and response status"),
		),
		duration: meter.NewFloat64ValueRecorder(
			"http/server/duration_ms",
			metric.WithDescription("Request handling time in milliseconds"),
		),
		saves: meter.NewInt64Counter(
			"store/save_count",
			metric.WithDescription("Count of store saves, by driver and result"),
		),
	}, nil
}

// Handler serves the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return m.exporter
}

func (m *Metrics) ObserveRequest(ctx context.Context, route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	labels := []attribute.KeyValue{
		routeKey.String(route),
		methodKey.String(method),
		statusKey.String(strconv.Itoa(status)),
	}
	m.requests.Add(ctx, 1, labels...)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), labels...)
}

func (m *Metrics) ObserveSave(ctx context.Context, driver string, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.Add(ctx, 1, driverKey.String(driver), resultKey.String(result))
}
