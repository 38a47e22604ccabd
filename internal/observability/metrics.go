package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Write outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // validation or uniqueness failure
	OutcomeError    = "error"
)

// catalogWrites counts create/update/delete operations on catalog entities.
var catalogWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recettes_catalog_writes_total",
		Help: "Catalog write operations by entity, operation and outcome.",
	},
	[]string{"entity", "op", "outcome"},
)

func init() {
	prometheus.MustRegister(catalogWrites)
}

// RecordWrite counts one write attempt.
func RecordWrite(entity, op, outcome string) {
	catalogWrites.WithLabelValues(entity, op, outcome).Inc()
}
