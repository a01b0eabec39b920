// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package pgxconn

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/timescale/promfdw/pkg/log"
)

// PgxTx is the part of pgx.Tx the sink needs.
type PgxTx interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PgxConn interface {
	Close()
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (PgxTx, error)
}

func NewPgxConn(pool *pgxpool.Pool) PgxConn {
	return &connImpl{
		Conn: pool,
	}
}

type connImpl struct {
	Conn *pgxpool.Pool
}

// loggingTx logs the time consumed by statements run in the transaction.
type loggingTx struct {
	pgx.Tx
}

func (p *connImpl) Close() {
	conn := p.Conn
	p.Conn = nil
	conn.Close()
}

func (p *connImpl) Ping(ctx context.Context) error {
	return p.Conn.Ping(ctx)
}

func (p *connImpl) Begin(ctx context.Context) (PgxTx, error) {
	tx, err := p.Conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingTx{Tx: tx}, nil
}

func (t *loggingTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	defer logQueryStats(sql, time.Now())()
	return t.Tx.Exec(ctx, sql, args...)
}

func (t *loggingTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	defer logQueryStats("COPY "+tableName.Sanitize(), time.Now())()
	return t.Tx.CopyFrom(ctx, tableName, columnNames, rowSrc)
}

// calc SQL statement execution time
func logQueryStats(sql string, startTime time.Time) func() {
	return func() {
		log.Debug("msg", "SQL query timing", "query", filterIndentChars(sql), "time", time.Since(startTime))
	}
}

// filters out indentation characters from the
// SQL query for better query logging
func filterIndentChars(query string) string {
	dropChars := []string{"\n", "\t", "\""}
	query = strings.ReplaceAll(query, "\n\t", " ")
	for _, c := range dropChars {
		query = strings.ReplaceAll(query, c, "")
	}

	return query
}
