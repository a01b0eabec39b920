// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import "github.com/jackc/pgx/v4"

// RowIterator yields rows until it returns false.
type RowIterator interface {
	IterScan() (Row, bool)
}

// CopySource feeds the rows of a begun scan to pgx's CopyFrom.
type CopySource struct {
	rows RowIterator
	row  Row
}

var _ pgx.CopyFromSource = (*CopySource)(nil)

func NewCopySource(rows RowIterator) *CopySource {
	return &CopySource{rows: rows}
}

func (c *CopySource) Next() bool {
	row, ok := c.rows.IterScan()
	c.row = row
	return ok
}

func (c *CopySource) Values() ([]interface{}, error) {
	return c.row.Values(), nil
}

func (c *CopySource) Err() error {
	return nil
}
