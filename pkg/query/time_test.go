// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package query

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/require"
	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
)

func TestEvalTime(t *testing.T) {
	at := time.Date(2021, 12, 31, 23, 59, 59, 250000000, time.UTC)
	ts := pgtype.Timestamp{Time: at, Status: pgtype.Present}

	testCases := []struct {
		name  string
		quals []Qual
		at    *time.Time
		err   error
	}{
		{
			name: "no quals",
		},
		{
			name:  "no time qual",
			quals: []Qual{{Field: "job", Operator: OpEquals, Value: Scalar("x")}},
		},
		{
			name:  "timestamp",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(ts)}},
			at:    &at,
		},
		{
			name:  "timestamp pointer",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(&ts)}},
			at:    &at,
		},
		{
			name: "timestamptz in another zone",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(pgtype.Timestamptz{
				Time:   at.In(time.FixedZone("UTC+3", 3*60*60)),
				Status: pgtype.Present,
			})}},
			at: &at,
		},
		{
			name: "first time qual is used",
			quals: []Qual{
				{Field: "time", Operator: OpEquals, Value: Scalar(ts)},
				{Field: "time", Operator: ">", Value: Scalar(ts)},
			},
			at: &at,
		},
		{
			name:  "range operator",
			quals: []Qual{{Field: "time", Operator: ">=", Value: Scalar(ts)}},
			err:   fdwerrors.ErrTimeRequiresEquals,
		},
		{
			name:  "in operator",
			quals: []Qual{{Field: "time", Operator: OpIn, Value: Array(ts, ts)}},
			err:   fdwerrors.ErrTimeRequiresEquals,
		},
		{
			name:  "array value",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Array(ts)}},
			err:   fdwerrors.ErrTimeRequiresTimestamp,
		},
		{
			name:  "string value",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar("2021-12-31 23:59:59")}},
			err:   fdwerrors.ErrTimeRequiresTimestamp,
		},
		{
			name:  "go time value",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(at)}},
			err:   fdwerrors.ErrTimeRequiresTimestamp,
		},
		{
			name:  "null timestamp",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(pgtype.Timestamp{Status: pgtype.Null})}},
			err:   fdwerrors.ErrTimestampInvalid,
		},
		{
			name: "infinite timestamp",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(pgtype.Timestamp{
				Status:           pgtype.Present,
				InfinityModifier: pgtype.Infinity,
			})}},
			err: fdwerrors.ErrTimestampInvalid,
		},
		{
			name:  "zero timestamp",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(pgtype.Timestamp{Status: pgtype.Present})}},
			err:   fdwerrors.ErrTimestampInvalid,
		},
		{
			name: "zero timestamptz",
			quals: []Qual{{Field: "time", Operator: OpEquals, Value: Scalar(pgtype.Timestamptz{
				Time:   time.Time{}.In(time.FixedZone("UTC+3", 3*60*60)),
				Status: pgtype.Present,
			})}},
			err: fdwerrors.ErrTimestampInvalid,
		},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EvalTime(c.quals)
			if c.err != nil {
				require.True(t, errors.Is(err, c.err), "unexpected error: %v", err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if c.at == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.True(t, c.at.Equal(*got))
			require.Equal(t, time.UTC, got.Location())
		})
	}
}
