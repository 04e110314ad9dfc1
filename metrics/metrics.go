package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters exposed by the bot process.
type Metrics struct {
	MessagesHandled  *prometheus.CounterVec
	RecordsSubmitted prometheus.Counter
	Duplicates       prometheus.Counter
	StoreErrors      prometheus.Counter
}

// New creates and registers all counters on the default registry. Call it
// once per process.
func New() *Metrics {
	return &Metrics{
		MessagesHandled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vetflow_messages_handled_total",
			Help: "Messages handled, labeled by the session state that received them",
		}, []string{"state"}),
		RecordsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vetflow_records_submitted_total",
			Help: "Vetting records appended to the store",
		}),
		Duplicates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vetflow_duplicate_submissions_total",
			Help: "Submissions rejected by the duplicate check",
		}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vetflow_store_errors_total",
			Help: "Record store reads or writes that failed",
		}),
	}
}
