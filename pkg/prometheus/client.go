// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

// Package prometheus executes compiled instant queries against a Prometheus
// compatible HTTP API and decodes the result into samples.
package prometheus

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
	"github.com/timescale/promfdw/pkg/log"
	"github.com/timescale/promfdw/pkg/version"
)

const DefaultTimeout = time.Minute

// Sample is one series of an instant vector.
type Sample struct {
	Labels map[string]string
	Value  float64
	// Timestamp is in seconds since the epoch, with fraction.
	Timestamp float64
}

// Querier runs an instant query. A nil at means the server's current time.
type Querier interface {
	Query(ctx context.Context, query string, at *time.Time) ([]Sample, error)
}

type Config struct {
	Timeout time.Duration
}

func ParseFlags(fs *flag.FlagSet, cfg *Config) *Config {
	fs.DurationVar(&cfg.Timeout, "prometheus.timeout", DefaultTimeout, "Timeout for a single query against Prometheus. Setting it to 0 disables the timeout.")
	return cfg
}

func Validate(cfg *Config) error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("invalid prometheus timeout %v, must not be negative", cfg.Timeout)
	}
	return nil
}

type Client struct {
	address string
	api     v1.API
	timeout time.Duration
}

// NewClient creates a client for the Prometheus server at address.
func NewClient(address string, cfg Config) (*Client, error) {
	c, err := api.NewClient(api.Config{
		Address:      address,
		RoundTripper: userAgentRoundTripper{next: api.DefaultRoundTripper},
	})
	if err != nil {
		return nil, fdwerrors.Prometheus(errors.Wrapf(err, "creating client for %q", address))
	}
	return &Client{
		address: address,
		api:     v1.NewAPI(c),
		timeout: cfg.Timeout,
	}, nil
}

func (c *Client) Address() string {
	return c.address
}

func (c *Client) Query(ctx context.Context, query string, at *time.Time) ([]Sample, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var ts time.Time
	if at != nil {
		ts = *at
	}
	value, warnings, err := c.api.Query(ctx, query, ts)
	if err != nil {
		return nil, fdwerrors.Prometheus(errors.Wrap(err, "executing instant query"))
	}
	for _, w := range warnings {
		log.Warn("msg", "Prometheus returned a warning", "query", query, "warning", w)
	}
	return toSamples(value)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// toSamples flattens an instant vector. Other result types are not
// representable as rows and come back empty.
func toSamples(value model.Value) ([]Sample, error) {
	switch v := value.(type) {
	case nil:
		return nil, fdwerrors.ErrNoResult
	case model.Vector:
		samples := make([]Sample, 0, len(v))
		for _, s := range v {
			if s == nil {
				continue
			}
			labels := make(map[string]string, len(s.Metric))
			for name, value := range s.Metric {
				labels[string(name)] = string(value)
			}
			samples = append(samples, Sample{
				Labels:    labels,
				Value:     float64(s.Value),
				Timestamp: float64(s.Timestamp) / 1e3,
			})
		}
		return samples, nil
	default:
		log.Debug("msg", "ignoring non vector result", "type", value.Type().String())
		return []Sample{}, nil
	}
}

type userAgentRoundTripper struct {
	next http.RoundTripper
}

func (rt userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", version.UserAgent())
	return rt.next.RoundTrip(req)
}
