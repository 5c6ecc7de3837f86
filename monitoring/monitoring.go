package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"checkout-service/logging"
)

var (
	// OpenTelemetry metrics
	CheckoutSessions      metric.Int64Counter
	PaymentPolls          metric.Int64Counter
	PaymentStatusDuration metric.Float64Histogram
	PaymentOutcomes       metric.Int64Counter
	HTTPServerDuration    metric.Float64Histogram
)

func init() {
	// Instruments are usable before InitMeter runs, e.g. in tests.
	if err := registerInstruments(noop.NewMeterProvider().Meter("checkout-service")); err != nil {
		panic(err)
	}
}

// InitTracer initializes OpenTelemetry tracing
func InitTracer(serviceName, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
	ctx := context.Background()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	tracer := tp.Tracer(serviceName)

	logging.Info("Tracing initialized", zap.String("service_name", serviceName))

	return tp, tracer, nil
}

// InitMeter initializes OpenTelemetry metrics. Measurements are pushed to the
// collector over OTLP and exposed for scraping through the default Prometheus
// registry.
func InitMeter(serviceName, endpoint string) (*sdkmetric.MeterProvider, metric.Meter, error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	meter := mp.Meter(serviceName)

	if err := registerInstruments(meter); err != nil {
		return nil, nil, err
	}

	logging.Info("Metrics initialized with OTLP and Prometheus exporters", zap.String("endpoint", endpoint))

	return mp, meter, nil
}

func registerInstruments(meter metric.Meter) error {
	var err error

	CheckoutSessions, err = meter.Int64Counter(
		"checkout_sessions_total",
		metric.WithDescription("Total number of checkout sessions created"),
	)
	if err != nil {
		return err
	}

	PaymentPolls, err = meter.Int64Counter(
		"payment_polls_total",
		metric.WithDescription("Total number of payment status requests"),
	)
	if err != nil {
		return err
	}

	PaymentStatusDuration, err = meter.Float64Histogram(
		"payment_status_duration_seconds",
		metric.WithDescription("Duration of payment status requests to the provider"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	PaymentOutcomes, err = meter.Int64Counter(
		"payment_outcomes_total",
		metric.WithDescription("Checkout sessions that reached a terminal payment status"),
	)
	if err != nil {
		return err
	}

	HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}
