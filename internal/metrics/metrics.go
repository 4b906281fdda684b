package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of ProvisionRequestsTotal.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "schema_conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Store holds the Prometheus metrics collectors.
type Store struct {
	Registry               *prometheus.Registry // Use a custom registry
	ProvisionRequestsTotal *prometheus.CounterVec
	ProvisionDuration      prometheus.Histogram
	RowsInsertedTotal      prometheus.Counter
	TablesRecreatedTotal   prometheus.Counter
}

// NewMetricsStore creates and registers Prometheus metrics.
func NewMetricsStore() *Store {
	registry := prometheus.NewRegistry()

	return &Store{
		Registry: registry,
		ProvisionRequestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "dbfill_provision_requests_total",
			Help: "Total number of provisioning requests, labeled by outcome.",
		}, []string{"outcome"}),
		ProvisionDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "dbfill_provision_duration_seconds",
			Help:    "Duration of one provisioning request (reconcile, DDL, insert, count).",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15), // 10ms to ~5min
		}),
		// No table label: table names come from clients.
		RowsInsertedTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "dbfill_rows_inserted_total",
			Help: "Total number of generated rows committed.",
		}),
		TablesRecreatedTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "dbfill_tables_recreated_total",
			Help: "Total number of tables dropped and recreated because of schema drift.",
		}),
	}
}
