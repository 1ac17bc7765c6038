// Package metrics exposes Prometheus collectors for the scoring engine, the
// roster snapshot job and the worker schedule.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fantasy_hockey"

// Collector implements usecase.ScoringObserver, usecase.SnapshotObserver,
// worker.Observer and cache.Observer.
type Collector struct {
	registry *prometheus.Registry

	scoredRows      prometheus.Counter
	batchDuration   prometheus.Histogram
	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	resetRows       prometheus.Counter
	snapshotRows    *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	circuitState    *prometheus.GaugeVec
	lastSuccessUnix *prometheus.GaugeVec
	cacheLookups    *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.scoredRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "rows_scored_total",
		Help:      "Stat rows scored and marked processed",
	})
	c.batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "batch_duration_seconds",
		Help:      "Time taken to lock, score and commit one batch",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})
	c.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "runs_total",
		Help:      "Scoring passes by result",
	}, []string{"result"})
	c.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "run_duration_seconds",
		Help:      "Time taken by a full scoring pass",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	c.resetRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "rows_reset_total",
		Help:      "Stat rows cleared by a scoring reset",
	})
	c.snapshotRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "roster",
		Name:      "snapshot_rows_total",
		Help:      "Roster history rows by outcome",
	}, []string{"outcome"})
	c.snapshots = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "roster",
		Name:      "snapshots_total",
		Help:      "Roster snapshot runs by result",
	}, []string{"result"})
	c.jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "job_runs_total",
		Help:      "Scheduled job runs by job and result",
	}, []string{"job", "result"})
	c.jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "job_duration_seconds",
		Help:      "Scheduled job duration",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"job"})
	c.circuitState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "circuit_state",
		Help:      "Circuit breaker state per job (0=closed, 1=half_open, 2=open)",
	}, []string{"job"})
	c.lastSuccessUnix = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "job_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run per job",
	}, []string{"job"})
	c.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by key namespace and result",
	}, []string{"namespace", "result"})

	c.registry.MustRegister(
		c.scoredRows, c.batchDuration, c.runs, c.runDuration, c.resetRows,
		c.snapshotRows, c.snapshots,
		c.jobRuns, c.jobDuration, c.circuitState, c.lastSuccessUnix,
		c.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveBatch(rows int, elapsed time.Duration) {
	c.scoredRows.Add(float64(rows))
	c.batchDuration.Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRun(_ int, elapsed time.Duration, err error) {
	c.runs.WithLabelValues(resultLabel(err)).Inc()
	c.runDuration.Observe(elapsed.Seconds())
}

func (c *Collector) ObserveReset(rows int64) {
	c.resetRows.Add(float64(rows))
}

func (c *Collector) ObserveSnapshot(inserted, skipped int, err error) {
	c.snapshots.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return
	}
	c.snapshotRows.WithLabelValues("inserted").Add(float64(inserted))
	c.snapshotRows.WithLabelValues("skipped").Add(float64(skipped))
}

// ObserveJob records one scheduled run of job.
func (c *Collector) ObserveJob(job string, elapsed time.Duration, err error) {
	c.jobRuns.WithLabelValues(job, resultLabel(err)).Inc()
	c.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err == nil {
		c.lastSuccessUnix.WithLabelValues(job).SetToCurrentTime()
	}
}

// SetCircuitState accepts closed, half_open or open.
func (c *Collector) SetCircuitState(job, state string) {
	value := 0.0
	switch state {
	case "half_open":
		value = 1
	case "open":
		value = 2
	}
	c.circuitState.WithLabelValues(job).Set(value)
}

func (c *Collector) ObserveCacheLookup(namespace, result string) {
	c.cacheLookups.WithLabelValues(namespace, result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
