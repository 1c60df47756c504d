// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File ingestion outcome labels.
const (
	StatusOK          = "ok"
	StatusSchemaError = "schema_error"
	StatusTimeout     = "timeout"
)

// Pipeline holds the collectors for batch ingestion.
type Pipeline struct {
	FilesIngested  *prometheus.CounterVec
	RowsDropped    *prometheus.CounterVec
	BatchesLoaded  prometheus.Counter
	ParseDuration  prometheus.Histogram
	DatasetRecords prometheus.Gauge
}

// NewPipeline registers the pipeline collectors on reg and returns them.
// Tests pass a private registry; cmd wiring passes the server registry.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)
	return &Pipeline{
		FilesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "files_ingested_total",
			Help:      "Branch files processed, labeled by outcome.",
		}, []string{"status"}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "rows_dropped_total",
			Help:      "Rows rejected during cleaning, labeled by reason.",
		}, []string{"reason"}),
		BatchesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "salespulse",
			Name:      "batches_loaded_total",
			Help:      "Upload batches that produced a usable dataset.",
		}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salespulse",
			Name:      "file_parse_duration_seconds",
			Help:      "Wall time spent parsing one branch file.",
			Buckets:   prometheus.DefBuckets,
		}),
		DatasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "salespulse",
			Name:      "dataset_records",
			Help:      "Transactions in the active combined dataset.",
		}),
	}
}
