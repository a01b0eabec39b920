// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/timescale/promfdw/pkg/util"
)

var (
	scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "scan",
			Name:      "started_total",
			Help:      "Total number of scans started.",
		},
	)
	scanFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "scan",
			Name:      "failures_total",
			Help:      "Total number of scans that failed before producing rows, by error kind.",
		},
		[]string{"kind"},
	)
	rowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "scan",
			Name:      "rows_total",
			Help:      "Total number of rows produced by scans.",
		},
	)
	queryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: util.PromNamespace,
			Subsystem: "prometheus",
			Name:      "query_duration_seconds",
			Help:      "Duration of instant queries sent to Prometheus.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(scansTotal, scanFailures, rowsTotal, queryDuration)
}
