package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	importRows    metric.Int64Counter
	importSkipped metric.Int64Counter
	importKeys    metric.Int64Counter
	importFailed  metric.Int64Counter
	loginDenied   metric.Int64Counter
	jobRuns       metric.Int64Counter
	jobErrors     metric.Int64Counter
	jobDuration   metric.Float64Histogram
}

// NewProvider installs the global meter provider. With OTel disabled the
// provider is a no-op and the domain instruments cost nothing.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	)
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: provider.Shutdown,
		})
	}
	if log != nil {
		log.Info("otel metrics exporting",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}
	return provider, nil
}

// New registers the showroom instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "showroom"
	}
	b := instrumentBuilder{meter: provider.Meter(name)}

	m := &Metrics{
		importRows:    b.counter("showroom_import_rows_total", "CSV rows read by imports"),
		importSkipped: b.counter("showroom_import_skipped_total", "CSV rows skipped for a missing key or bad value"),
		importKeys:    b.counter("showroom_import_keys_total", "Records written by imports"),
		importFailed:  b.counter("showroom_import_failed_total", "Imports aborted by a storage error"),
		loginDenied:   b.counter("showroom_login_denied_total", "Rejected login attempts"),
		jobRuns:       b.counter("showroom_scheduler_job_runs_total", "Housekeeping job runs"),
		jobErrors:     b.counter("showroom_scheduler_job_errors_total", "Housekeeping job failures"),
		jobDuration:   b.histogram("showroom_scheduler_job_duration_seconds", "Housekeeping job duration", "s"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// instrumentBuilder keeps the first instrument error so New can build the
// whole set before checking.
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("counter %s: %w", name, err)
	}
	return c
}

func (b *instrumentBuilder) histogram(name, desc, unit string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("histogram %s: %w", name, err)
	}
	return h
}

// RecordImport adds the outcome of one CSV import.
func (m *Metrics) RecordImport(ctx context.Context, source string, rows, skipped, keys int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("source", strings.TrimSpace(source)))...)
	m.importRows.Add(ctx, int64(rows), attrs)
	m.importSkipped.Add(ctx, int64(skipped), attrs)
	m.importKeys.Add(ctx, int64(keys), attrs)
}

// RecordImportFailure counts an import aborted by a storage error.
func (m *Metrics) RecordImportFailure(ctx context.Context, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.importFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLoginDenied counts rejected logins by reason.
func (m *Metrics) RecordLoginDenied(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.loginDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordJob records one housekeeping job run.
func (m *Metrics) RecordJob(ctx context.Context, job string, took time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("job", strings.TrimSpace(job)))...)
	m.jobRuns.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, took.Seconds(), attrs)
	if err != nil {
		m.jobErrors.Add(ctx, 1, attrs)
	}
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc", "grpc/protobuf":
		if endpoint == "" {
			return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithInsecure())
		}
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithInsecure(), otlpmetricgrpc.WithEndpoint(endpoint))
	case "http", "http/protobuf":
		if endpoint == "" {
			return otlpmetrichttp.New(ctx)
		}
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint))
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"source":      {},
	"reason":      {},
	"endpoint":    {},
	"status_code": {},
	"job":         {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
