// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import "strings"

type PartKind uint8

const (
	ConstPart PartKind = iota
	VarPart
)

// Part is a piece of a query template: literal text or a placeholder name.
type Part struct {
	Kind PartKind
	Text string
}

func Const(text string) Part { return Part{Kind: ConstPart, Text: text} }
func Var(name string) Part   { return Part{Kind: VarPart, Text: name} }

func (p Part) String() string {
	if p.Kind == VarPart {
		return "${" + p.Text + "}"
	}
	return p.Text
}

type lexerMode uint8

const (
	modeConst lexerMode = iota
	modeVarStart
	modeVarName
)

type lexer struct {
	buf   strings.Builder
	mode  lexerMode
	parts []Part
}

// Tokenize splits a template into constant text and ${name} placeholders.
//
// It never fails. A `$` not followed by `{` is swallowed and whatever follows
// it is held until a `{` shows up; if the input ends first, that text is
// dropped. An unterminated placeholder at the end of input is kept as a Var.
func Tokenize(template string) []Part {
	l := &lexer{}
	for _, c := range template {
		l.step(c)
	}
	return l.finish()
}

func (l *lexer) step(c rune) {
	switch {
	case c == '$' && l.mode == modeConst:
		l.flush(ConstPart)
		l.mode = modeVarStart
	case c == '{' && l.mode == modeVarStart:
		l.mode = modeVarName
	case c == '}' && l.mode == modeVarName:
		l.flush(VarPart)
		l.mode = modeConst
	default:
		l.buf.WriteRune(c)
	}
}

func (l *lexer) flush(kind PartKind) {
	if l.buf.Len() == 0 {
		return
	}
	l.parts = append(l.parts, Part{Kind: kind, Text: l.buf.String()})
	l.buf.Reset()
}

func (l *lexer) finish() []Part {
	switch l.mode {
	case modeConst:
		l.flush(ConstPart)
	case modeVarName:
		l.flush(VarPart)
	}
	return l.parts
}
