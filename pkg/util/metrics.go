// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package util

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// ExtractMetricValue reads the current value of a counter or gauge.
func ExtractMetricValue(counterOrGauge prometheus.Metric) (float64, error) {
	var internal io_prometheus_client.Metric
	if err := counterOrGauge.Write(&internal); err != nil {
		return 0, fmt.Errorf("error writing metric: %w", err)
	}
	switch {
	case internal.Gauge != nil:
		return internal.Gauge.GetValue(), nil
	case internal.Counter != nil:
		return internal.Counter.GetValue(), nil
	default:
		return 0, fmt.Errorf("both Gauge and Counter are nil")
	}
}
