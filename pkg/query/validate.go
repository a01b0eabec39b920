// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import (
	"fmt"

	"github.com/prometheus/prometheus/promql/parser"
	"github.com/timescale/promfdw/pkg/common/errors"
)

// Validate parses the compiled query as PromQL. Only instant vector
// expressions can be projected onto rows, so anything else is rejected too.
func (c *Compiled) Validate() error {
	expr, err := parser.ParseExpr(c.Query)
	if err != nil {
		return errors.InvalidQuery(err)
	}
	if t := expr.Type(); t != parser.ValueTypeVector {
		return errors.InvalidQuery(fmt.Errorf("expected type %s, got %s", parser.DocumentedType(parser.ValueTypeVector), parser.DocumentedType(t)))
	}
	return nil
}
