package tracing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

// NewTracerProvider exports spans to the OTLP collector at otel.endpoint. It
// returns nil when no endpoint is configured and spans stay no-ops.
func NewTracerProvider(ctx context.Context, cfg config.Config, log logger.Logger, serviceName string) (*sdktrace.TracerProvider, error) {
	if cfg.OTel.Endpoint == "" {
		log.Info("OTLP endpoint not configured, tracing disabled")
		return nil, nil
	}

	conn, err := grpc.NewClient(cfg.OTel.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP collector: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource(cfg, serviceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.OTel.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info("OTLP Tracer initialized successfully",
		zap.String("service_name", serviceName),
		zap.String("endpoint", cfg.OTel.Endpoint),
		zap.Float64("sample_ratio", cfg.OTel.SampleRatio))
	return tp, nil
}

func serviceResource(cfg config.Config, serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		attribute.String("deployment.environment", cfg.App.Env),
	)
}

// sampler follows the caller's decision when there is one. Root spans are
// sampled at ratio; anything outside (0, 1) means sample everything.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Shutdown flushes pending spans. tp may be nil.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider, log logger.Logger) {
	if tp == nil {
		return
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down tracer provider", err)
	}
}
