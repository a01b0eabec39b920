// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package fdw

import (
	"flag"
	"fmt"

	"github.com/timescale/promfdw/pkg/cache"
)

// Table options, as given to CREATE FOREIGN TABLE ... OPTIONS (...).
const (
	AddressOption = "address"
	QueryOption   = "query"
)

type Config struct {
	ValidateQuery     bool
	TemplateCacheSize int
}

func ParseFlags(fs *flag.FlagSet, cfg *Config) *Config {
	fs.BoolVar(&cfg.ValidateQuery, "query.validate", false, "Parse every compiled query as PromQL before sending it to Prometheus. Queries that do not evaluate to an instant vector are rejected.")
	fs.IntVar(&cfg.TemplateCacheSize, "cache.templates.size", cache.DefaultTemplateCacheSize, "Maximum number of parsed query templates to keep.")
	return cfg
}

func Validate(cfg *Config) error {
	if cfg.TemplateCacheSize < 1 {
		return fmt.Errorf("invalid template cache size %d, must be at least 1", cfg.TemplateCacheSize)
	}
	return nil
}
