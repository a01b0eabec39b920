// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package prometheus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/require"
	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
	"github.com/timescale/promfdw/pkg/version"
)

type recordedRequest struct {
	query     string
	time      string
	userAgent string
}

func newServer(t *testing.T, status int, body string, rec *recordedRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/query" {
			http.NotFound(w, r)
			return
		}
		if rec != nil {
			rec.query = r.FormValue("query")
			rec.time = r.FormValue("time")
			rec.userAgent = r.Header.Get("User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQueryVector(t *testing.T) {
	rec := &recordedRequest{}
	srv := newServer(t, http.StatusOK, `{
		"status": "success",
		"data": {
			"resultType": "vector",
			"result": [
				{"metric": {"__name__": "up", "job": "node", "instance": "a:9100"}, "value": [1000.25, "1"]},
				{"metric": {"__name__": "up", "job": "node", "instance": "b:9100"}, "value": [1000.25, "0"]}
			]
		}
	}`, rec)

	c, err := NewClient(srv.URL, Config{Timeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, srv.URL, c.Address())

	samples, err := c.Query(context.Background(), `up{job="node"}`, nil)
	require.NoError(t, err)
	require.Equal(t, []Sample{
		{
			Labels:    map[string]string{"__name__": "up", "job": "node", "instance": "a:9100"},
			Value:     1,
			Timestamp: 1000.25,
		},
		{
			Labels:    map[string]string{"__name__": "up", "job": "node", "instance": "b:9100"},
			Value:     0,
			Timestamp: 1000.25,
		},
	}, samples)

	require.Equal(t, `up{job="node"}`, rec.query)
	require.Equal(t, "", rec.time)
	require.Equal(t, version.UserAgent(), rec.userAgent)
}

func TestQueryAtTime(t *testing.T) {
	rec := &recordedRequest{}
	srv := newServer(t, http.StatusOK, `{"status":"success","data":{"resultType":"vector","result":[]}}`, rec)

	c, err := NewClient(srv.URL, Config{})
	require.NoError(t, err)

	at := time.Date(2022, 1, 2, 3, 4, 5, 500000000, time.UTC)
	samples, err := c.Query(context.Background(), "up", &at)
	require.NoError(t, err)
	require.Empty(t, samples)
	require.Equal(t, "1641092645.5", rec.time)
}

func TestQueryNonVector(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"status":"success","data":{"resultType":"scalar","result":[1000,"2"]}}`, nil)

	c, err := NewClient(srv.URL, Config{})
	require.NoError(t, err)

	samples, err := c.Query(context.Background(), "1+1", nil)
	require.NoError(t, err)
	require.NotNil(t, samples)
	require.Empty(t, samples)
}

func TestQueryError(t *testing.T) {
	srv := newServer(t, http.StatusBadRequest, `{"status":"error","errorType":"bad_data","error":"parse error at char 4"}`, nil)

	c, err := NewClient(srv.URL, Config{})
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "up{", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, fdwerrors.Prometheus(nil)), "unexpected error: %v", err)
	require.Contains(t, err.Error(), "parse error at char 4")
}

func TestQueryCancelled(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"status":"success","data":{"resultType":"vector","result":[]}}`, nil)

	c, err := NewClient(srv.URL, Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Query(ctx, "up", nil)
	require.True(t, errors.Is(err, fdwerrors.Prometheus(nil)), "unexpected error: %v", err)
}

func TestNewClientBadAddress(t *testing.T) {
	_, err := NewClient("http://[::1", Config{})
	require.True(t, errors.Is(err, fdwerrors.Prometheus(nil)), "unexpected error: %v", err)
}

func TestToSamples(t *testing.T) {
	_, err := toSamples(nil)
	require.True(t, errors.Is(err, fdwerrors.ErrNoResult))

	samples, err := toSamples(model.Vector{
		nil,
		{Metric: model.Metric{"host": "a"}, Value: 1.5, Timestamp: model.Time(1000000)},
	})
	require.NoError(t, err)
	require.Equal(t, []Sample{{Labels: map[string]string{"host": "a"}, Value: 1.5, Timestamp: 1000}}, samples)

	samples, err = toSamples(model.Matrix{})
	require.NoError(t, err)
	require.Empty(t, samples)
}
