// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import (
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgtype"
)

const (
	ValueColumn     = "value"
	TimestampColumn = "timestamp"
)

// Column is a column the scan is asked to fill.
type Column struct {
	Name string
}

func Columns(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}
	return cols
}

type CellKind uint8

const (
	NullCell CellKind = iota
	TextCell
	FloatCell
	TimestampCell
)

func (k CellKind) String() string {
	switch k {
	case TextCell:
		return "text"
	case FloatCell:
		return "float8"
	case TimestampCell:
		return "timestamp"
	}
	return "null"
}

// Cell is one value of a row. Only the field matching Kind is set.
type Cell struct {
	Kind      CellKind
	Text      string
	Float     float64
	Timestamp pgtype.Timestamp
}

func TextValue(s string) Cell {
	return Cell{Kind: TextCell, Text: s}
}

func FloatValue(f float64) Cell {
	return Cell{Kind: FloatCell, Float: f}
}

func TimestampValue(ts pgtype.Timestamp) Cell {
	return Cell{Kind: TimestampCell, Timestamp: ts}
}

func NullValue() Cell {
	return Cell{}
}

func (c Cell) IsNull() bool {
	return c.Kind == NullCell
}

// Value returns the cell as a value pgx can encode: nil, string, float64 or
// time.Time.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case TextCell:
		return c.Text
	case FloatCell:
		return c.Float
	case TimestampCell:
		return c.Timestamp.Time
	}
	return nil
}

// String renders the cell the way psql prints it, with NULL as empty.
func (c Cell) String() string {
	switch c.Kind {
	case TextCell:
		return c.Text
	case FloatCell:
		return formatFloat(c.Float)
	case TimestampCell:
		return c.Timestamp.Time.Format("2006-01-02 15:04:05.999")
	}
	return ""
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Row holds one cell per requested column, in request order.
type Row []Cell

// Values converts the row for pgx.
func (r Row) Values() []interface{} {
	vals := make([]interface{}, len(r))
	for i := range r {
		vals[i] = r[i].Value()
	}
	return vals
}

// EpochToTimestamp converts seconds since the epoch into a host timestamp at
// millisecond resolution.
func EpochToTimestamp(seconds float64) pgtype.Timestamp {
	ms := int64(math.Round(seconds * 1e3))
	return pgtype.Timestamp{
		Time:   time.UnixMilli(ms).UTC(),
		Status: pgtype.Present,
	}
}
