// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import (
	"strings"
	"time"

	"github.com/timescale/promfdw/pkg/common/errors"
)

// Template is a tokenized query template. It is never modified after Parse.
type Template struct {
	source string
	parts  []Part
}

func Parse(source string) Template {
	return Template{source: source, parts: Tokenize(source)}
}

func (t Template) Source() string {
	return t.source
}

func (t Template) Parts() []Part {
	return t.parts
}

// Vars returns the placeholder names in template order, duplicates included.
func (t Template) Vars() []string {
	var vars []string
	for _, p := range t.parts {
		if p.Kind == VarPart {
			vars = append(vars, p.Text)
		}
	}
	return vars
}

// Compile binds every placeholder to the first `=` or `in` qual on the field
// of the same name. Arrays expand to a `|` separated regex alternation.
func (t Template) Compile(quals []Qual) (string, error) {
	var sb strings.Builder
	for _, p := range t.parts {
		if p.Kind == ConstPart {
			sb.WriteString(p.Text)
			continue
		}
		q := findBindable(quals, p.Text)
		if q == nil {
			return "", errors.VariableNotFound(p.Text)
		}
		writeValue(&sb, q.Value)
	}
	return sb.String(), nil
}

func findBindable(quals []Qual, field string) *Qual {
	for i := range quals {
		q := &quals[i]
		if q.Operator != OpIn && q.Operator != OpEquals {
			continue
		}
		if q.Field == field {
			return q
		}
	}
	return nil
}

func writeValue(sb *strings.Builder, v Value) {
	if !v.IsArray() {
		sb.WriteString(unquote(datumText(v.Cell())))
		return
	}
	for i, e := range v.Elements() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(unquote(datumText(e)))
	}
}

// Compiled is the query sent to Prometheus for a single scan.
type Compiled struct {
	Query string
	// At is the evaluation time. Nil means the server default (now).
	At *time.Time
}

// Prepare compiles the template and extracts the evaluation time. Nothing is
// sent anywhere when it fails.
func Prepare(t Template, quals []Qual) (*Compiled, error) {
	q, err := t.Compile(quals)
	if err != nil {
		return nil, err
	}
	at, err := EvalTime(quals)
	if err != nil {
		return nil, err
	}
	return &Compiled{Query: q, At: at}, nil
}
