// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package runner

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffyaml"
	"github.com/timescale/promfdw/pkg/fdw"
	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/pgclient"
	"github.com/timescale/promfdw/pkg/prometheus"
	"github.com/timescale/promfdw/pkg/query"
	"github.com/timescale/promfdw/pkg/util"
)

type Config struct {
	ListenAddr      string
	TelemetryPath   string
	EnableProfiling bool
	LogCfg          log.Config
	PrometheusCfg   prometheus.Config
	FdwCfg          fdw.Config
	PgCfg           pgclient.Config
	ConfigFile      string
	Address         string
	Query           string
	Where           util.RepeatedFlag
	Columns         util.CommaSeparatedList
	SyncInterval    time.Duration

	// Quals are parsed from Where.
	Quals []query.Qual
}

const envVarPrefix = "PROMFDW"

func ParseFlags(cfg *Config, args []string) (*Config, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	log.ParseFlags(fs, &cfg.LogCfg)
	prometheus.ParseFlags(fs, &cfg.PrometheusCfg)
	fdw.ParseFlags(fs, &cfg.FdwCfg)
	pgclient.ParseFlags(fs, &cfg.PgCfg)

	cfg.Where = nil
	cfg.Columns = util.CommaSeparatedList{fdw.ValueColumn, fdw.TimestampColumn}

	fs.StringVar(&cfg.ConfigFile, "config", "config.yml", "YAML configuration file path for promfdw.")
	fs.StringVar(&cfg.Address, "prometheus.address", "", "Prometheus server address, e.g. `http://localhost:9090`. Same as the address table option.")
	fs.StringVar(&cfg.Query, "query", "", "PromQL query template. Placeholders of the form ${name} are bound by -where expressions. Same as the query table option.")
	fs.Var(&cfg.Where, "where", "Qual expression binding a template variable, e.g. `job = 'node'`, `instance in ('a', 'b')` or `time = '2022-01-02 03:04:05'`. Can be repeated.")
	fs.Var(&cfg.Columns, "columns", "Comma separated list of columns to project. `value` and `timestamp` are special, every other column is a label name.")
	fs.DurationVar(&cfg.SyncInterval, "sync.interval", 0, "Interval between scans. Setting it to `0` runs a single scan and exits.")
	fs.StringVar(&cfg.ListenAddr, "web.listen-address", ":9211", "Address to listen on for web endpoints while syncing.")
	fs.StringVar(&cfg.TelemetryPath, "web.telemetry-path", "/metrics", "Web endpoint for exposing promfdw's Prometheus metrics.")
	fs.BoolVar(&cfg.EnableProfiling, "web.enable-profiling", false, "Expose a wall-clock profiler at /debug/fgprof.")

	if err := util.ParseEnv(envVarPrefix, fs); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	if err := ff.Parse(fs, args,
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithAllowMissingConfigFile(true),
	); err != nil {
		return nil, fmt.Errorf("configuration error when parsing flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	quals, err := ParseQuals(cfg.Where)
	if err != nil {
		return nil, fmt.Errorf("invalid where clause: %w", err)
	}
	cfg.Quals = quals

	return cfg, nil
}

func validate(cfg *Config) error {
	if err := prometheus.Validate(&cfg.PrometheusCfg); err != nil {
		return fmt.Errorf("error validating prometheus configuration: %w", err)
	}
	if err := fdw.Validate(&cfg.FdwCfg); err != nil {
		return fmt.Errorf("error validating scan configuration: %w", err)
	}
	if err := pgclient.Validate(&cfg.PgCfg); err != nil {
		return fmt.Errorf("error validating client configuration: %w", err)
	}
	if len(cfg.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	if cfg.SyncInterval < 0 {
		return fmt.Errorf("invalid sync interval %s", cfg.SyncInterval)
	}
	return nil
}

// Options returns the foreign table options the flags stand for.
func (cfg *Config) Options() map[string]string {
	return map[string]string{
		fdw.AddressOption: cfg.Address,
		fdw.QueryOption:   cfg.Query,
	}
}
