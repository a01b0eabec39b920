// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import (
	"math"
	"testing"
	"time"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/require"
	"github.com/timescale/promfdw/pkg/prometheus"
)

func TestAdvanceProjection(t *testing.T) {
	s := &ScanState{}
	s.Begin([]prometheus.Sample{
		{Labels: map[string]string{"host": "a"}, Value: 1.5, Timestamp: 1000.0},
	}, Columns("host", "value", "timestamp", "missing"))

	row, ok := s.Advance()
	require.True(t, ok)
	require.Equal(t, Row{
		TextValue("a"),
		FloatValue(1.5),
		TimestampValue(pgtype.Timestamp{Time: time.Date(1970, 1, 1, 0, 16, 40, 0, time.UTC), Status: pgtype.Present}),
		NullValue(),
	}, row)

	_, ok = s.Advance()
	require.False(t, ok)
}

func TestLabelsShadowReservedColumns(t *testing.T) {
	s := &ScanState{}
	s.Begin([]prometheus.Sample{
		{Labels: map[string]string{"value": "label value", "timestamp": "label ts"}, Value: 2, Timestamp: 1},
	}, Columns("timestamp", "value", "value"))

	row, ok := s.Advance()
	require.True(t, ok)
	require.Equal(t, Row{TextValue("label ts"), TextValue("label value"), TextValue("label value")}, row)
}

func TestAdvanceColumnOrder(t *testing.T) {
	s := &ScanState{}
	samples := []prometheus.Sample{
		{Labels: map[string]string{"job": "node", "instance": "a"}, Value: 1, Timestamp: 10},
		{Labels: map[string]string{"job": "node"}, Value: math.NaN(), Timestamp: 10},
	}
	s.Begin(samples, Columns("value", "instance", "job"))

	row, ok := s.Advance()
	require.True(t, ok)
	require.Equal(t, Row{FloatValue(1), TextValue("a"), TextValue("node")}, row)

	row, ok = s.Advance()
	require.True(t, ok)
	require.Len(t, row, 3)
	require.True(t, math.IsNaN(row[0].Float))
	require.True(t, row[1].IsNull())
	require.Equal(t, TextValue("node"), row[2])
}

func TestAdvanceNoColumns(t *testing.T) {
	s := &ScanState{}
	s.Begin([]prometheus.Sample{{Value: 1}, {Value: 2}}, nil)

	for i := 0; i < 2; i++ {
		row, ok := s.Advance()
		require.True(t, ok)
		require.Empty(t, row)
	}
	_, ok := s.Advance()
	require.False(t, ok)
}

func TestAdvanceExhaustion(t *testing.T) {
	samples := make([]prometheus.Sample, 5)
	for i := range samples {
		samples[i] = prometheus.Sample{Labels: map[string]string{}, Value: float64(i), Timestamp: float64(i)}
	}

	s := &ScanState{}
	s.Begin(samples, Columns("value"))
	for i := range samples {
		require.Equal(t, i, s.Cursor())
		row, ok := s.Advance()
		require.True(t, ok)
		require.Equal(t, Row{FloatValue(float64(i))}, row)
	}
	for i := 0; i < 3; i++ {
		_, ok := s.Advance()
		require.False(t, ok)
		require.Equal(t, len(samples), s.Cursor())
	}
}

func TestEndThenBegin(t *testing.T) {
	first := []prometheus.Sample{{Labels: map[string]string{"a": "1"}}, {Labels: map[string]string{"a": "2"}}}
	second := []prometheus.Sample{{Labels: map[string]string{"b": "x"}, Value: 3}}

	reused := &ScanState{}
	reused.Begin(first, Columns("a"))
	_, ok := reused.Advance()
	require.True(t, ok)
	reused.End()
	require.Equal(t, 0, reused.Len())
	require.Equal(t, 0, reused.Cursor())
	_, ok = reused.Advance()
	require.False(t, ok)

	fresh := &ScanState{}
	reused.Begin(second, Columns("a", "b", "value"))
	fresh.Begin(second, Columns("a", "b", "value"))
	for {
		r1, ok1 := reused.Advance()
		r2, ok2 := fresh.Advance()
		require.Equal(t, ok2, ok1)
		require.Equal(t, r2, r1)
		if !ok1 {
			break
		}
	}
	require.Equal(t, fresh, reused)
}

func TestEndIsAlwaysSafe(t *testing.T) {
	s := &ScanState{}
	s.End()
	s.End()
	_, ok := s.Advance()
	require.False(t, ok)
}
