// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package runner

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/felixge/fgprof"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timescale/promfdw/pkg/log"
)

const healthCheckTimeout = 5 * time.Second

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func generateRouter(cfg *Config, hc healthChecker) http.Handler {
	router := mux.NewRouter()
	router.Handle(cfg.TelemetryPath, gziphandler.GzipHandler(promhttp.Handler())).Methods(http.MethodGet)
	router.HandleFunc("/healthz", health(hc)).Methods(http.MethodGet, http.MethodHead)
	if cfg.EnableProfiling {
		router.Handle("/debug/fgprof", fgprof.Handler()).Methods(http.MethodGet)
	}
	return router
}

func health(hc healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := hc.HealthCheck(ctx); err != nil {
			log.Warn("msg", "Healthcheck failed", "err", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Length", "0")
	}
}
