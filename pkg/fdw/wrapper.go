// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

// Package fdw exposes a Prometheus server as a foreign table: a scan compiles
// the table's query template against the pushed down quals, runs it as an
// instant query and hands back one row per returned series.
package fdw

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/timescale/promfdw/pkg/cache"
	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/prometheus"
	"github.com/timescale/promfdw/pkg/query"
)

// Wrapper runs scans against one Prometheus server. Scans are sequential:
// BeginScan, IterScan until it returns false, EndScan. Use one Wrapper per
// concurrent scan.
type Wrapper struct {
	querier   prometheus.Querier
	templates *cache.Templates
	cfg       Config

	state  ScanState
	scanID uuid.UUID
	rows   int
}

// New creates a wrapper from table options. The address option is required.
func New(options map[string]string, cfg Config, promCfg prometheus.Config) (*Wrapper, error) {
	address := options[AddressOption]
	if address == "" {
		return nil, fdwerrors.ErrAddressOptionRequired
	}
	client, err := prometheus.NewClient(address, promCfg)
	if err != nil {
		return nil, err
	}
	return NewWithQuerier(client, cfg), nil
}

func NewWithQuerier(q prometheus.Querier, cfg Config) *Wrapper {
	return &Wrapper{
		querier:   q,
		templates: cache.NewTemplates(cfg.TemplateCacheSize),
		cfg:       cfg,
	}
}

// BeginScan compiles the query option against quals, runs it and prepares
// the rows. On error no row is available and nothing was sent to Prometheus
// unless the failure came from Prometheus itself.
func (w *Wrapper) BeginScan(ctx context.Context, quals []query.Qual, columns []Column, options map[string]string) (err error) {
	w.state.End()
	w.scanID = uuid.New()
	w.rows = 0
	scansTotal.Inc()
	defer func() {
		if err != nil {
			scanFailures.WithLabelValues(errorKind(err)).Inc()
			log.Debug("msg", "scan failed", "scan", w.scanID, "err", err)
		}
	}()

	src := options[QueryOption]
	if src == "" {
		return fdwerrors.ErrQueryOptionRequired
	}

	compiled, err := query.Prepare(w.templates.Get(src), quals)
	if err != nil {
		return err
	}
	if w.cfg.ValidateQuery {
		if err = compiled.Validate(); err != nil {
			return err
		}
	}

	log.Debug("msg", "running instant query", "scan", w.scanID, "query", compiled.Query, "at", formatAt(compiled.At))
	start := time.Now()
	samples, err := w.querier.Query(ctx, compiled.Query, compiled.At)
	queryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	w.state.Begin(samples, columns)
	return nil
}

// IterScan returns the next row of the current scan.
func (w *Wrapper) IterScan() (Row, bool) {
	row, ok := w.state.Advance()
	if ok {
		w.rows++
		rowsTotal.Inc()
	}
	return row, ok
}

// EndScan releases the current scan's samples.
func (w *Wrapper) EndScan() {
	if w.scanID != uuid.Nil {
		log.Debug("msg", "scan finished", "scan", w.scanID, "rows", w.rows)
	}
	w.state.End()
	w.scanID = uuid.Nil
	w.rows = 0
}

func errorKind(err error) string {
	var e *fdwerrors.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "unknown"
}

func formatAt(at *time.Time) string {
	if at == nil {
		return "now"
	}
	return at.Format(time.RFC3339Nano)
}
