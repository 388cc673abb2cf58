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
	quotes           metric.Int64Counter
	quoteMisses      metric.Int64Counter
	snapshotsWritten metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
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

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "rentora"
	}
	meter := provider.Meter(name)

	quotes, err := meter.Int64Counter("rentora_pricing_quotes_total")
	if err != nil {
		return nil, err
	}
	quoteMisses, err := meter.Int64Counter("rentora_pricing_quote_misses_total")
	if err != nil {
		return nil, err
	}
	snapshotsWritten, err := meter.Int64Counter("rentora_pricing_snapshots_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("rentora_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotes:           quotes,
		quoteMisses:      quoteMisses,
		snapshotsWritten: snapshotsWritten,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

// RecordQuote increments served price quote counts.
func (m *Metrics) RecordQuote(ctx context.Context, discounted bool) {
	if m == nil {
		return
	}
	m.quotes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("discounted", discounted)))
}

// RecordQuoteMiss increments quote requests with no configured rate.
func (m *Metrics) RecordQuoteMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.quoteMisses.Add(ctx, 1)
}

// RecordSnapshotWritten increments persisted pricing snapshot counts.
func (m *Metrics) RecordSnapshotWritten(ctx context.Context) {
	if m == nil {
		return
	}
	m.snapshotsWritten.Add(ctx, 1)
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
