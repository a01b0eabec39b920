// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import "github.com/timescale/promfdw/pkg/prometheus"

// ScanState walks one batch of samples, producing a row per sample. It is
// owned by a single scan and is not safe for concurrent use.
type ScanState struct {
	samples []prometheus.Sample
	columns []Column
	cursor  int
}

// Begin resets the state to the start of a new batch.
func (s *ScanState) Begin(samples []prometheus.Sample, columns []Column) {
	s.samples = samples
	s.columns = columns
	s.cursor = 0
}

// Advance returns the next row, or false once every sample was returned.
// Calling it again after that keeps returning false.
func (s *ScanState) Advance() (Row, bool) {
	if s.cursor >= len(s.samples) {
		return nil, false
	}
	sample := &s.samples[s.cursor]
	row := make(Row, len(s.columns))
	for i, col := range s.columns {
		row[i] = project(sample, col.Name)
	}
	s.cursor++
	return row, true
}

// project picks the cell for a column. Labels win over the reserved names,
// unknown columns are NULL.
func project(sample *prometheus.Sample, column string) Cell {
	if v, ok := sample.Labels[column]; ok {
		return TextValue(v)
	}
	switch column {
	case ValueColumn:
		return FloatValue(sample.Value)
	case TimestampColumn:
		return TimestampValue(EpochToTimestamp(sample.Timestamp))
	}
	return NullValue()
}

// End drops the batch. It is always safe to call.
func (s *ScanState) End() {
	s.samples = nil
	s.columns = nil
	s.cursor = 0
}

// Len is the number of samples in the current batch.
func (s *ScanState) Len() int {
	return len(s.samples)
}

// Cursor is the index of the next sample Advance will project.
func (s *ScanState) Cursor() int {
	return s.cursor
}
