// Package metrics records reconciliation run metrics in a Prometheus
// registry and writes them to a node-exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/sync"
)

// Recorder implements sync.Observer on top of a dedicated registry.
type Recorder struct {
	registry *prometheus.Registry

	PagesTotal     prometheus.Counter
	EntriesTotal   *prometheus.CounterVec
	EntryErrors    prometheus.Counter
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	LastRunSuccess prometheus.Gauge
	LastRunTime    prometheus.Gauge
	LastRunServers prometheus.Gauge
}

var _ sync.Observer = (*Recorder)(nil)

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		PagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mcpsync_pages_fetched_total",
			Help: "Total number of directory pages fetched",
		}),
		EntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcpsync_entries_total",
			Help: "Total number of directory entries processed by outcome",
		}, []string{"outcome"}),
		EntryErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "mcpsync_entry_errors_total",
			Help: "Total number of entries that failed to apply",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcpsync_runs_total",
			Help: "Total number of sync runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcpsync_run_duration_seconds",
			Help:    "Sync run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mcpsync_last_run_success",
			Help: "Whether the last sync run succeeded (1) or not (0)",
		}),
		LastRunTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mcpsync_last_run_timestamp_seconds",
			Help: "Unix time the last sync run finished",
		}),
		LastRunServers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mcpsync_last_run_servers",
			Help: "Number of servers seen by the last sync run",
		}),
	}
}

// Registry returns the registry the metrics are registered in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// PageFetched implements sync.Observer.
func (r *Recorder) PageFetched(_, _ int) {
	r.PagesTotal.Inc()
}

// EntryApplied implements sync.Observer.
func (r *Recorder) EntryApplied(outcome reconcile.Outcome) {
	r.EntriesTotal.WithLabelValues(outcome.String()).Inc()
}

// EntryFailed implements sync.Observer.
func (r *Recorder) EntryFailed(_ string, _ error) {
	r.EntryErrors.Inc()
	r.EntriesTotal.WithLabelValues("error").Inc()
}

// RunFinished implements sync.Observer.
func (r *Recorder) RunFinished(result *sync.Result) {
	r.RunsTotal.WithLabelValues(Status(result)).Inc()
	r.RunDuration.Observe(result.Duration.Seconds())
	r.LastRunServers.Set(float64(result.Stats.Total))
	r.LastRunTime.Set(float64(result.StartedAt.Add(result.Duration).Unix()))
	if result.Success {
		r.LastRunSuccess.Set(1)
	} else {
		r.LastRunSuccess.Set(0)
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Status maps a run result to the status label.
func Status(result *sync.Result) string {
	switch {
	case result.Interrupted:
		return "interrupted"
	case result.Success:
		return "success"
	default:
		return "failure"
	}
}
