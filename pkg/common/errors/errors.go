// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

// Package errors holds the error kinds a scan can fail with. Every error is
// terminal for the scan that produced it.
package errors

import (
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

type Kind uint8

const (
	KindAddressOptionRequired Kind = iota + 1
	KindQueryOptionRequired
	KindVariableNotFound
	KindTimeRequiresEquals
	KindTimeRequiresTimestamp
	KindTimestampInvalid
	KindInvalidQuery
	KindPrometheus
	KindNoResult
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindAddressOptionRequired:
		return "AddressOptionRequired"
	case KindQueryOptionRequired:
		return "QueryOptionRequired"
	case KindVariableNotFound:
		return "VariableNotFound"
	case KindTimeRequiresEquals:
		return "TimeRequiresEquals"
	case KindTimeRequiresTimestamp:
		return "TimeRequiresTimestamp"
	case KindTimestampInvalid:
		return "TimestampInvalid"
	case KindInvalidQuery:
		return "InvalidQuery"
	case KindPrometheus:
		return "PrometheusError"
	case KindNoResult:
		return "NoResult"
	case KindIO:
		return "IoError"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a tagged scan error. Name is only set for KindVariableNotFound,
// Err only for the pass-through kinds.
type Error struct {
	Kind Kind
	Name string
	Err  error
}

var (
	ErrAddressOptionRequired = &Error{Kind: KindAddressOptionRequired}
	ErrQueryOptionRequired   = &Error{Kind: KindQueryOptionRequired}
	ErrTimeRequiresEquals    = &Error{Kind: KindTimeRequiresEquals}
	ErrTimeRequiresTimestamp = &Error{Kind: KindTimeRequiresTimestamp}
	ErrTimestampInvalid      = &Error{Kind: KindTimestampInvalid}
	ErrNoResult              = &Error{Kind: KindNoResult}
)

func VariableNotFound(name string) *Error {
	return &Error{Kind: KindVariableNotFound, Name: name}
}

func InvalidQuery(err error) *Error {
	return &Error{Kind: KindInvalidQuery, Err: err}
}

func Prometheus(err error) *Error {
	return &Error{Kind: KindPrometheus, Err: err}
}

func IO(err error) *Error {
	return &Error{Kind: KindIO, Err: err}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindVariableNotFound:
		return fmt.Sprintf("Variable %s required, but not found in where clause", e.Name)
	case KindQueryOptionRequired:
		return "Query option required"
	case KindAddressOptionRequired:
		return "Address option required"
	case KindTimeRequiresEquals:
		return "Time where clause requires '=' operator"
	case KindTimeRequiresTimestamp:
		return "Time where clause requires timestamp value"
	case KindTimestampInvalid:
		return "Invalid timestamp"
	case KindInvalidQuery:
		return fmt.Sprintf("Invalid query: %v", e.Err)
	case KindNoResult:
		return "No result"
	case KindPrometheus:
		return fmt.Sprintf("Prometheus error: %v", e.Err)
	case KindIO:
		return fmt.Sprintf("IO error: %v", e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match on kind alone, so errors.Is(err, ErrTimestampInvalid)
// and errors.Is(err, VariableNotFound("")) both work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// SQLState is the PostgreSQL error code a host reports this error with.
func (e *Error) SQLState() string {
	if e.Kind == KindVariableNotFound {
		return pgerrcode.FDWDynamicParameterValueNeeded
	}
	return pgerrcode.FDWError
}

// PgError renders the error the way the host engine raises it.
func (e *Error) PgError() *pgconn.PgError {
	return &pgconn.PgError{
		Severity: "ERROR",
		Code:     e.SQLState(),
		Message:  e.Error(),
	}
}
