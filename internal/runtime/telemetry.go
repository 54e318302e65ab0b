package runtime

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"

	"github.com/arialabs/aria-core/internal/config"
)

// setupTelemetry wires tracing and metrics for the daemon. Traces go to OTLP
// when an endpoint is configured, to stdout otherwise. The Prometheus scrape
// endpoint lives on its own listener (telemetry.prometheus_bind), kept off
// the API port so operators can firewall the two independently.
func setupTelemetry(cfg config.Config, logger *slog.Logger) (func(context.Context) error, error) {
	ctx := context.Background()
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.RuntimeName),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	traceProvider, traceShutdown, err := initTracer(ctx, cfg, res, logger)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(traceProvider)

	meterProvider, metricsShutdown, err := initMetrics(cfg, res, logger)
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = traceShutdown(shutdownCtx)
		return nil, err
	}
	otel.SetMeterProvider(meterProvider)

	shutdown := func(ctx context.Context) error {
		var errs []error
		if metricsShutdown != nil {
			if err := metricsShutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := traceShutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}

	return shutdown, nil
}

func initTracer(ctx context.Context, cfg config.Config, res *resource.Resource, logger *slog.Logger) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	endpoint := strings.TrimSpace(cfg.Telemetry.OTLPEndpoint)
	var exporter sdktrace.SpanExporter
	var err error
	if endpoint != "" {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if cfg.Telemetry.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	if endpoint != "" {
		logger.Info("trace exporter configured",
			slog.String("exporter", "otlp"),
			slog.String("endpoint", endpoint),
			slog.Bool("insecure", cfg.Telemetry.OTLPInsecure))
	} else {
		logger.Info("trace exporter configured", slog.String("exporter", "stdout"))
	}
	return tp, tp.Shutdown, nil
}

// initMetrics builds the meter provider and, when the Prometheus exporter is
// available, serves it on the configured scrape listener. Exporter failure
// degrades to a provider without readers rather than failing startup.
func initMetrics(cfg config.Config, res *resource.Resource, logger *slog.Logger) (*sdkmetric.MeterProvider, func(context.Context) error, error) {
	promExporter, err := prometheus.New()
	if err != nil {
		logger.Warn("prometheus exporter unavailable, metrics disabled", slog.String("error", err.Error()))
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil, nil
	}

	meter := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)

	srv, addr, err := startMetricsServer(cfg.Telemetry.PrometheusBind, promhttp.Handler(), logger)
	if err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = meter.Shutdown(shutdownCtx)
		return nil, nil, err
	}
	logger.Info("metrics endpoint listening", slog.String("addr", addr))
	return meter, srv.Shutdown, nil
}

// startMetricsServer exposes handler at /metrics on its own listener and
// returns the server plus the bound address.
func startMetricsServer(bind string, handler http.Handler, logger *slog.Logger) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return srv, ln.Addr().String(), nil
}
