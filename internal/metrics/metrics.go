// Package metrics exposes the ledger and redemption collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks the latency of service operations
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loyalty_operation_duration_seconds",
			Help: "Duration of ledger and redemption operations in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
			},
		},
		[]string{"operation"},
	)

	OperationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_operation_results_total",
			Help: "Operation outcomes by result code",
		},
		[]string{"operation", "result"},
	)

	CoinsMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_wallet_coins_total",
			Help: "Coins credited or debited across all wallets",
		},
		[]string{"direction"},
	)

	DiscountGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loyalty_redemption_discount_coins_total",
			Help: "Discount granted by redemptions that reached pending",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_cache_lookups_total",
			Help: "Read cache lookups by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)
)

// Collector is implemented by the prometheus collector and by NoopCollector.
type Collector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordCoins(direction string, coins int64)
	RecordDiscount(coins int64)
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
}

type PrometheusCollector struct{}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{}
}

func (PrometheusCollector) RecordOperationDuration(operation string, duration time.Duration) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (PrometheusCollector) RecordOperationResult(operation, result string) {
	OperationResults.WithLabelValues(operation, result).Inc()
}

func (PrometheusCollector) RecordCoins(direction string, coins int64) {
	CoinsMoved.WithLabelValues(direction).Add(float64(coins))
}

func (PrometheusCollector) RecordDiscount(coins int64) {
	DiscountGranted.Add(float64(coins))
}

func (PrometheusCollector) RecordCacheHit(entity string) {
	CacheLookups.WithLabelValues(entity, "hit").Inc()
}

func (PrometheusCollector) RecordCacheMiss(entity string) {
	CacheLookups.WithLabelValues(entity, "miss").Inc()
}

// NoopCollector is a no-op implementation of Collector
type NoopCollector struct{}

func (NoopCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopCollector) RecordOperationResult(string, string)          {}
func (NoopCollector) RecordCoins(string, int64)                     {}
func (NoopCollector) RecordDiscount(int64)                          {}
func (NoopCollector) RecordCacheHit(string)                         {}
func (NoopCollector) RecordCacheMiss(string)                        {}
