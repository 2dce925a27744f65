// Package metrics exposes Prometheus instruments for the migration
// subsystem. Counters only: migrations are discrete events and the per-call
// aggregate result already carries the detail.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Migration outcome label values.
const (
	OutcomeComplete  = "complete"
	OutcomePartial   = "partial"
	OutcomeFailed    = "failed"
	OutcomeChecksum  = "checksum_mismatch"
	OutcomeDuplicate = "duplicate"
	OutcomeDenied    = "denied"
)

var (
	// MigrationsTotal counts migration calls by outcome.
	MigrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockbridge",
		Name:      "migrations_total",
		Help:      "Migration calls by outcome.",
	}, []string{"outcome"})

	// ResourcesMigratedTotal counts successfully migrated sub-resources by kind.
	ResourcesMigratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockbridge",
		Name:      "migration_resources_total",
		Help:      "Successfully migrated sub-resources by kind.",
	}, []string{"kind"})

	// MigrationErrorsTotal counts per-resource migration failures by kind.
	MigrationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockbridge",
		Name:      "migration_errors_total",
		Help:      "Per-resource migration failures by kind.",
	}, []string{"kind"})

	// RollbacksTotal counts completed rollbacks.
	RollbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blockbridge",
		Name:      "rollbacks_total",
		Help:      "Completed migration rollbacks.",
	})

	// DualReadFallbacksTotal counts reads served from the legacy store.
	DualReadFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockbridge",
		Name:      "dual_read_fallbacks_total",
		Help:      "Reads that fell back to the legacy store, by kind.",
	}, []string{"kind"})
)
