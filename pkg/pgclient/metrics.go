// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package pgclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/timescale/promfdw/pkg/util"
)

var rowsCopied = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: util.PromNamespace,
		Subsystem: "db",
		Name:      "rows_copied_total",
		Help:      "Total number of rows copied into Postgres.",
	},
)

func init() {
	prometheus.MustRegister(rowsCopied)
}
