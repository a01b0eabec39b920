// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/timescale/promfdw/pkg/query"
)

// Operators recognised by ParseQual, longest first so that `<=` is not read
// as `<`.
var operators = []string{"<>", "!=", "<=", ">=", "~~", "=", "<", ">", "~"}

// Layouts accepted for the value of a time qual.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseQuals parses every expression in order.
func ParseQuals(exprs []string) ([]query.Qual, error) {
	quals := make([]query.Qual, 0, len(exprs))
	for _, e := range exprs {
		q, err := ParseQual(e)
		if err != nil {
			return nil, err
		}
		quals = append(quals, q)
	}
	return quals, nil
}

// ParseQual parses a single WHERE predicate the way the database pushes it
// down: `field = value`, `field in (v1, v2)` or `field <op> value`. Values
// keep their quotes. The value of a `time` qual becomes a timestamp when it
// parses as one.
func ParseQual(expr string) (query.Qual, error) {
	s := strings.TrimSpace(expr)
	field, rest := splitIdentifier(s)
	if field == "" {
		return query.Qual{}, fmt.Errorf("missing field name in %q", expr)
	}
	rest = strings.TrimLeft(rest, " \t")

	if op, list, ok := cutIn(rest); ok {
		values, err := splitList(list)
		if err != nil {
			return query.Qual{}, fmt.Errorf("%w in %q", err, expr)
		}
		elements := make([]interface{}, 0, len(values))
		for _, v := range values {
			elements = append(elements, datum(field, v))
		}
		return query.Qual{Field: field, Operator: op, Value: query.Array(elements...)}, nil
	}

	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			value := strings.TrimSpace(rest[len(op):])
			if value == "" {
				return query.Qual{}, fmt.Errorf("missing value in %q", expr)
			}
			return query.Qual{Field: field, Operator: op, Value: query.Scalar(datum(field, value))}, nil
		}
	}
	return query.Qual{}, fmt.Errorf("missing operator in %q", expr)
}

func splitIdentifier(s string) (string, string) {
	if strings.HasPrefix(s, `"`) {
		end := strings.Index(s[1:], `"`)
		if end < 0 {
			return "", s
		}
		return s[1 : end+1], s[end+2:]
	}
	i := 0
	for i < len(s) && isIdentRune(s[i], i == 0) {
		i++
	}
	return s[:i], s[i:]
}

func isIdentRune(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case !first && c >= '0' && c <= '9':
		return true
	}
	return false
}

// cutIn matches `in (...)` case-insensitively and returns the list body.
func cutIn(s string) (string, string, bool) {
	if len(s) < 2 || !strings.EqualFold(s[:2], query.OpIn) {
		return "", "", false
	}
	rest := strings.TrimSpace(s[2:])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", "", false
	}
	return query.OpIn, rest[1 : len(rest)-1], true
}

// splitList splits on commas outside single quotes. Each element is trimmed.
func splitList(s string) ([]string, error) {
	var (
		values []string
		buf    strings.Builder
		quoted bool
	)
	for _, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
			buf.WriteRune(r)
		case r == ',' && !quoted:
			values = append(values, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	last := strings.TrimSpace(buf.String())
	if last != "" || len(values) > 0 {
		values = append(values, last)
	}
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("empty list element")
		}
	}
	return values, nil
}

func datum(field, value string) interface{} {
	if field != query.TimeField {
		return value
	}
	raw := value
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		raw = raw[1 : len(raw)-1]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return pgtype.Timestamp{Time: t.UTC(), Status: pgtype.Present}
		}
	}
	return value
}
