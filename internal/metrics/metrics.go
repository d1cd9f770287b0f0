package metrics

import (
	"time"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seedbed",
		Name:      "records_generated_total",
		Help:      "Records produced by the generator.",
	}, []string{"kind"})

	RecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seedbed",
		Name:      "records_written_total",
		Help:      "Records a backend reported as stored.",
	}, []string{"backend", "kind"})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seedbed",
		Name:      "records_skipped_total",
		Help:      "Records dropped by dedup or ignored as duplicates.",
	}, []string{"backend", "kind"})

	OperationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seedbed",
		Name:      "operation_failures_total",
		Help:      "Failed backend operations by error code.",
	}, []string{"backend", "operation", "code"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "seedbed",
		Name:      "operation_duration_seconds",
		Help:      "Latency of backend operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "operation"})
)

func ObserveGenerated(kind string, n int) {
	if n > 0 {
		RecordsGenerated.WithLabelValues(kind).Add(float64(n))
	}
}

func ObserveWrite(backend, kind string, written, skipped int) {
	if written > 0 {
		RecordsWritten.WithLabelValues(backend, kind).Add(float64(written))
	}
	if skipped > 0 {
		RecordsSkipped.WithLabelValues(backend, kind).Add(float64(skipped))
	}
}

// Observe records the latency of one backend operation and, when err is
// non-nil, a failure labelled with its error code.
func Observe(backend, operation string, started time.Time, err error) {
	OperationDuration.WithLabelValues(backend, operation).Observe(time.Since(started).Seconds())
	if err != nil {
		OperationFailures.WithLabelValues(backend, operation, errs.CodeOf(err).String()).Inc()
	}
}
