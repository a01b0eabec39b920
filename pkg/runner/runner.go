// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"go.uber.org/atomic"

	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
	"github.com/timescale/promfdw/pkg/fdw"
	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/pgclient"
	"github.com/timescale/promfdw/pkg/prometheus"
	"github.com/timescale/promfdw/pkg/query"
	"github.com/timescale/promfdw/pkg/util"
	"github.com/timescale/promfdw/pkg/version"
)

const shutdownTimeout = 5 * time.Second

var errNoScan = fmt.Errorf("no scan completed yet")

// Run scans once, or once per sync interval until interrupted, and writes
// the rows to stdout or to the configured table.
func Run(cfg *Config) error {
	return runWithOutput(cfg, os.Stdout)
}

func runWithOutput(cfg *Config, out io.Writer) error {
	log.Info("msg", "Version: "+version.Version+"; Commit Hash: "+version.CommitHash)

	redacted := *cfg
	redacted.PgCfg.Password = "****"
	redacted.PgCfg.DbUri = "****"
	log.Info("config", fmt.Sprintf("%+v", redacted))

	wrapper, err := fdw.New(cfg.Options(), cfg.FdwCfg, cfg.PrometheusCfg)
	if err != nil {
		logScanError("creating wrapper failed", err)
		return err
	}

	s := &syncer{
		wrapper: wrapper,
		quals:   cfg.Quals,
		columns: fdw.Columns(cfg.Columns...),
		options: cfg.Options(),
	}

	if cfg.PgCfg.Enabled() {
		client, err := pgclient.NewClient(context.Background(), &cfg.PgCfg)
		if err != nil {
			log.Error("msg", "aborting startup due to error", "err", err.Error())
			return fmt.Errorf("creating database client: %w", err)
		}
		defer client.Close()
		s.sink = &pgSink{client: client}
		s.db = client
	} else {
		s.sink = newCSVSink(out)
	}

	if cfg.SyncInterval == 0 {
		_, err := s.scan(context.Background())
		return err
	}
	checkServerVersion(context.Background(), cfg)
	return s.loop(cfg)
}

// checkServerVersion logs the Prometheus version and warns about servers
// outside of the supported range. Failures are not fatal.
func checkServerVersion(ctx context.Context, cfg *Config) {
	client, err := prometheus.NewClient(cfg.Address, cfg.PrometheusCfg)
	if err != nil {
		log.Warn("msg", "cannot check Prometheus version", "err", err)
		return
	}
	v, err := client.ServerVersion(ctx)
	if err != nil {
		log.Warn("msg", "cannot check Prometheus version", "err", err)
		return
	}
	if err := prometheus.CheckVersion(v); err != nil {
		log.Warn("msg", "unsupported Prometheus version", "err", err)
		return
	}
	log.Info("msg", "Prometheus version "+v.String())
}

// syncer runs scans and remembers how the last one went.
type syncer struct {
	wrapper *fdw.Wrapper
	sink    sink
	db      *pgclient.Client

	quals   []query.Qual
	columns []fdw.Column
	options map[string]string

	scans   atomic.Int64
	healthy atomic.Bool
	lastErr atomic.Error
}

func (s *syncer) scan(ctx context.Context) (int64, error) {
	n, err := s.scanRows(ctx)
	s.scans.Inc()
	s.healthy.Store(err == nil)
	s.lastErr.Store(err)
	if err != nil {
		logScanError("scan failed", err)
		return n, err
	}
	log.Info("msg", "scan finished", "rows", n)
	return n, nil
}

func (s *syncer) scanRows(ctx context.Context) (int64, error) {
	if err := s.wrapper.BeginScan(ctx, s.quals, s.columns, s.options); err != nil {
		return 0, err
	}
	defer s.wrapper.EndScan()
	return s.sink.Write(ctx, s.columns, s.wrapper)
}

// HealthCheck fails until a scan succeeded and whenever the last scan
// failed. With a database sink the database must be reachable too.
func (s *syncer) HealthCheck(ctx context.Context) error {
	if s.scans.Load() == 0 {
		return errNoScan
	}
	if !s.healthy.Load() {
		if err := s.lastErr.Load(); err != nil {
			return fmt.Errorf("last scan failed: %w", err)
		}
	}
	if s.db != nil {
		return s.db.HealthCheck(ctx)
	}
	return nil
}

func (s *syncer) loop(cfg *Config) error {
	var g run.Group

	g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))

	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return s.sync(ctx, util.NewTicker(cfg.SyncInterval))
		}, func(error) {
			cancel()
		})
	}

	{
		server := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: generateRouter(cfg, s),
		}
		g.Add(func() error {
			log.Info("msg", "Listening on "+cfg.ListenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("msg", "Listen failure", "err", err)
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(ctx)
		})
	}

	err := g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		log.Info("msg", "shutting down", "signal", sigErr.Signal)
		return nil
	}
	return err
}

// sync scans right away and then on every tick until ctx is done. Failed
// scans are retried on the next tick.
func (s *syncer) sync(ctx context.Context, t util.Ticker) error {
	defer t.Stop()
	for {
		_, _ = s.scan(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-t.Channel():
		}
	}
}

func logScanError(msg string, err error) {
	var e *fdwerrors.Error
	if errors.As(err, &e) {
		log.Error("msg", msg, "err", err, "kind", e.Kind, "sqlstate", e.SQLState())
		return
	}
	log.Error("msg", msg, "err", err)
}
