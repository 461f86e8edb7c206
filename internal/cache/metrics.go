package cache

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type cacheMetricsCollection struct {
	readCount     metric.Int64Counter
	producerCount metric.Int64Counter
	evictionCount metric.Int64Counter
}

var metrics cacheMetricsCollection

func init() {
	const name = "suspense/cache"
	meter := otel.Meter(name)

	readCount, err := meter.Int64Counter(
		"cache/read_count",
		metric.WithDescription("Reads by the status observed at read time"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create read count metric: %w", err))
	}

	producerCount, err := meter.Int64Counter(
		"cache/producer_count",
		metric.WithDescription("Settled producer invocations"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create producer count metric: %w", err))
	}

	evictionCount, err := meter.Int64Counter(
		"cache/eviction_count",
		metric.WithDescription("Entries removed by eviction or expiry"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create eviction count metric: %w", err))
	}

	metrics = cacheMetricsCollection{
		readCount:     readCount,
		producerCount: producerCount,
		evictionCount: evictionCount,
	}
}

func recordRead(ctx context.Context, cacheName string, status Status, created bool) {
	metrics.readCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cacheName),
		attribute.String("status", status.String()),
		attribute.Bool("created", created),
	))
}

func recordSettled(ctx context.Context, cacheName string, status Status, discarded bool) {
	metrics.producerCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cacheName),
		attribute.String("status", status.String()),
		attribute.Bool("discarded", discarded),
	))
}

func recordEviction(ctx context.Context, cacheName string, reason string, count int) {
	if count == 0 {
		return
	}
	metrics.evictionCount.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("cache", cacheName),
		attribute.String("reason", reason),
	))
}
