// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus collectors for normalize runs.
// Collectors are package-level and registered on the default registry;
// callers go through the helper functions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Last-run schedule metrics
	channelsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_channels",
		Help: "Number of channels in the last normalize run",
	})

	programmesIn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_programmes_in",
		Help: "Programmes read in the last normalize run",
	})

	programmesOut = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_programmes_out",
		Help: "Programmes written in the last normalize run",
	})

	duplicatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xmltv_duplicates_dropped_total",
		Help: "Total duplicate programmes collapsed",
	})

	stopsInferred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xmltv_stops_inferred_total",
		Help: "Total stop times filled in from the following programme",
	})

	warningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xmltv_warnings_total",
		Help: "Data-quality warnings by kind",
	}, []string{"kind"}) // kind=overlap|clump_mismatch|start_after_stop|unresolved_stop

	// Run outcome metrics
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xmltv_runs_total",
		Help: "Normalize runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xmltv_run_failures_total",
		Help: "Normalize run failures by stage",
	}, []string{"stage"}) // stage=config|read|decode|alias|normalize|write

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xmltv_run_duration_seconds",
		Help:    "Wall time of a full normalize run",
		Buckets: prometheus.DefBuckets,
	})

	outputBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_output_bytes",
		Help: "Size of the last written output document",
	})

	lastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xmltv_last_run_timestamp_seconds",
		Help: "Unix time of the last successful normalize run",
	})
)

// Warning kinds, matching the reporter callbacks.
const (
	WarnOverlap        = "overlap"
	WarnClumpMismatch  = "clump_mismatch"
	WarnStartAfterStop = "start_after_stop"
	WarnUnresolvedStop = "unresolved_stop"
)

func RecordRunCounts(channels, in, out int) {
	channelsTotal.Set(float64(channels))
	programmesIn.Set(float64(in))
	programmesOut.Set(float64(out))
}

func AddDuplicates(n int)    { duplicatesDropped.Add(float64(n)) }
func AddStopsInferred(n int) { stopsInferred.Add(float64(n)) }

func IncWarning(kind string) { warningsTotal.WithLabelValues(kind).Inc() }

func IncRunFailure(stage string) {
	runFailures.WithLabelValues(stage).Inc()
	runsTotal.WithLabelValues("failure").Inc()
}

// RecordRunSuccess marks a completed run and its duration.
func RecordRunSuccess(duration time.Duration) {
	runsTotal.WithLabelValues("success").Inc()
	runDuration.Observe(duration.Seconds())
	lastRunTimestamp.Set(float64(time.Now().Unix()))
}

func RecordOutputSize(bytes int64) { outputBytes.Set(float64(bytes)) }
