package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Registry struct {
	reg           *prometheus.Registry
	RowsLoaded    *prometheus.CounterVec
	RowsDropped   *prometheus.CounterVec
	ParseFailures *prometheus.CounterVec
	JoinRows      *prometheus.CounterVec
	Unavailable   *prometheus.CounterVec

	BucketsAboveThreshold prometheus.Gauge
	ComparisonRows        prometheus.Gauge
	RunDurationSec        prometheus.Gauge
	PublishLatencySec     prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	loaded := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dtrecon_rows_loaded_total"}, []string{"source"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dtrecon_rows_dropped_total"}, []string{"source", "reason"})
	parseFailures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dtrecon_parse_failures_total"}, []string{"source", "field"})
	joinRows := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dtrecon_join_rows_total"}, []string{"join"})
	unavailable := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dtrecon_unavailable_total"}, []string{"result"})

	buckets := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dtrecon_buckets_above_threshold"})
	compRows := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dtrecon_comparison_rows"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dtrecon_run_duration_seconds"})
	publish := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dtrecon_publish_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(loaded, dropped, parseFailures, joinRows, unavailable, buckets, compRows, duration, publish)
	return &Registry{
		reg:                   r,
		RowsLoaded:            loaded,
		RowsDropped:           dropped,
		ParseFailures:         parseFailures,
		JoinRows:              joinRows,
		Unavailable:           unavailable,
		BucketsAboveThreshold: buckets,
		ComparisonRows:        compRows,
		RunDurationSec:        duration,
		PublishLatencySec:     publish,
	}
}

// Gatherer exposes the registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
