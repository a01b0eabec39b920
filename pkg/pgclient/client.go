// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package pgclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grafana/regexp"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/pgxconn"
)

var (
	passwordRegexp    = regexp.MustCompile("password='(.+?)'")
	uriPasswordRegexp = regexp.MustCompile("://([^:/@]+):([^@]+)@")
)

// redact hides the password of a key/value or URI connection string.
func redact(connStr string) string {
	connStr = passwordRegexp.ReplaceAllLiteralString(connStr, "password='****'")
	return uriPasswordRegexp.ReplaceAllString(connStr, "://$1:****@")
}

// Client copies scanned rows into a Postgres table.
type Client struct {
	conn     pgxconn.PgxConn
	table    pgx.Identifier
	truncate bool
}

func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	connStr, err := cfg.GetConnectionStr()
	if err != nil {
		return nil, err
	}
	log.Info("msg", "connecting to database", "conn", redact(connStr))

	pool, err := pgxpool.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return NewClientWithConn(pgxconn.NewPgxConn(pool), cfg), nil
}

func NewClientWithConn(conn pgxconn.PgxConn, cfg *Config) *Client {
	return &Client{
		conn:     conn,
		table:    TableIdentifier(cfg.Table),
		truncate: cfg.Truncate,
	}
}

// TableIdentifier splits an optionally schema qualified name.
func TableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// CopyRows copies every row of src into the configured table.
func (c *Client) CopyRows(ctx context.Context, columns []string, src pgx.CopyFromSource) (int64, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if c.truncate {
		if _, err = tx.Exec(ctx, "TRUNCATE "+c.table.Sanitize()); err != nil {
			return 0, c.describe(err)
		}
	}

	n, err := tx.CopyFrom(ctx, c.table, columns, src)
	if err != nil {
		return 0, c.describe(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	rowsCopied.Add(float64(n))
	return n, nil
}

func (c *Client) describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable:
			return fmt.Errorf("table %s does not exist: %w", c.table.Sanitize(), err)
		case pgerrcode.UndefinedColumn:
			return fmt.Errorf("table %s is missing a requested column: %w", c.table.Sanitize(), err)
		}
	}
	return fmt.Errorf("copy into %s: %w", c.table.Sanitize(), err)
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *Client) Close() {
	c.conn.Close()
}
