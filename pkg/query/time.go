// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/timescale/promfdw/pkg/common/errors"
)

// EvalTime finds the `time` qual and returns the instant it pins the query to.
// A nil instant without error means no time qual was given.
func EvalTime(quals []Qual) (*time.Time, error) {
	for i := range quals {
		q := quals[i]
		if q.Field != TimeField {
			continue
		}
		if q.Operator != OpEquals {
			return nil, errors.ErrTimeRequiresEquals
		}
		if q.Value.IsArray() {
			return nil, errors.ErrTimeRequiresTimestamp
		}
		t, err := TimestampToTime(q.Value.Cell())
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	return nil, nil
}

// TimestampToTime converts a host timestamp datum to a UTC instant.
func TimestampToTime(d interface{}) (time.Time, error) {
	switch ts := d.(type) {
	case pgtype.Timestamp:
		return validTime(ts.Time, ts.Status, ts.InfinityModifier)
	case *pgtype.Timestamp:
		if ts == nil {
			return time.Time{}, errors.ErrTimestampInvalid
		}
		return validTime(ts.Time, ts.Status, ts.InfinityModifier)
	case pgtype.Timestamptz:
		return validTime(ts.Time, ts.Status, ts.InfinityModifier)
	case *pgtype.Timestamptz:
		if ts == nil {
			return time.Time{}, errors.ErrTimestampInvalid
		}
		return validTime(ts.Time, ts.Status, ts.InfinityModifier)
	}
	return time.Time{}, errors.ErrTimeRequiresTimestamp
}

func validTime(t time.Time, status pgtype.Status, inf pgtype.InfinityModifier) (time.Time, error) {
	// The Prometheus client treats a zero time as "now".
	if status != pgtype.Present || inf != pgtype.None || t.IsZero() {
		return time.Time{}, errors.ErrTimestampInvalid
	}
	return t.UTC(), nil
}
