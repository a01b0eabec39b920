// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import (
	"fmt"
	"strings"

	"github.com/jackc/pgtype"
)

const (
	OpEquals = "="
	OpIn     = "in"

	// TimeField is the reserved qual field that sets the evaluation time.
	TimeField = "time"
)

// Qual is a single predicate pushed down from the WHERE clause.
type Qual struct {
	Field    string
	Operator string
	Value    Value
}

// Value is either a single datum or an ordered list of them, as produced by
// `field = x` and `field IN (x, y)` respectively.
type Value struct {
	cell    interface{}
	array   []interface{}
	isArray bool
}

func Scalar(v interface{}) Value {
	return Value{cell: v}
}

func Array(vs ...interface{}) Value {
	if vs == nil {
		vs = []interface{}{}
	}
	return Value{array: vs, isArray: true}
}

func (v Value) IsArray() bool {
	return v.isArray
}

// Cell returns the scalar datum. It is nil for arrays.
func (v Value) Cell() interface{} {
	return v.cell
}

// Elements returns the array data. It is nil for scalars.
func (v Value) Elements() []interface{} {
	return v.array
}

func (v Value) String() string {
	if !v.isArray {
		return datumText(v.cell)
	}
	parts := make([]string, len(v.array))
	for i := range v.array {
		parts[i] = datumText(v.array[i])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// datumText renders a datum the way the host prints it.
func datumText(d interface{}) string {
	switch v := d.(type) {
	case nil:
		return "null"
	case string:
		return v
	case pgtype.TextEncoder:
		buf, err := v.EncodeText(nil, nil)
		if err != nil || buf == nil {
			return "null"
		}
		return string(buf)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// unquote drops one enclosing pair of single quotes, the way string literals
// arrive from the host. Anything else is returned as is.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
