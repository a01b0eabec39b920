// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package runner

import (
	"context"
	"encoding/csv"
	"io"

	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
	"github.com/timescale/promfdw/pkg/fdw"
	"github.com/timescale/promfdw/pkg/pgclient"
)

// sink receives the rows of one scan.
type sink interface {
	Write(ctx context.Context, columns []fdw.Column, rows fdw.RowIterator) (int64, error)
}

// csvSink writes rows as CSV. The header is written once, before the first
// scan's rows.
type csvSink struct {
	w             io.Writer
	headerWritten bool
}

func newCSVSink(w io.Writer) *csvSink {
	return &csvSink{w: w}
}

func (s *csvSink) Write(_ context.Context, columns []fdw.Column, rows fdw.RowIterator) (int64, error) {
	cw := csv.NewWriter(s.w)
	if !s.headerWritten {
		if err := cw.Write(columnNames(columns)); err != nil {
			return 0, fdwerrors.IO(err)
		}
		s.headerWritten = true
	}

	var n int64
	record := make([]string, len(columns))
	for {
		row, ok := rows.IterScan()
		if !ok {
			break
		}
		for i, c := range row {
			record[i] = c.String()
		}
		if err := cw.Write(record); err != nil {
			return n, fdwerrors.IO(err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fdwerrors.IO(err)
	}
	return n, nil
}

// pgSink copies rows into a Postgres table.
type pgSink struct {
	client *pgclient.Client
}

func (s *pgSink) Write(ctx context.Context, columns []fdw.Column, rows fdw.RowIterator) (int64, error) {
	return s.client.CopyRows(ctx, columnNames(columns), fdw.NewCopySource(rows))
}

func columnNames(columns []fdw.Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
