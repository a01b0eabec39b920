// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/timescale/promfdw/pkg/util"
)

var (
	templateQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "cache",
			Name:      "template_queries_total",
			Help:      "Total lookups in the query template cache.",
		},
	)
	templateHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "cache",
			Name:      "template_hits_total",
			Help:      "Total lookups served from the query template cache.",
		},
	)
	templateEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: util.PromNamespace,
			Subsystem: "cache",
			Name:      "template_evictions_total",
			Help:      "Total templates evicted from the query template cache.",
		},
	)
	templateEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: util.PromNamespace,
			Subsystem: "cache",
			Name:      "template_entries",
			Help:      "Number of templates in the query template cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(templateQueries, templateHits, templateEvictions, templateEntries)
}
