package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotLoaded = errors.New("dataset not loaded")

func TestHealthRoutes(t *testing.T) {
	logger := zerolog.Nop()
	ready := false

	srv := NewServer(0, func(context.Context) error {
		if !ready {
			return errNotLoaded
		}

		return nil
	}, &logger)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tests := []struct {
		name     string
		path     string
		ready    bool
		wantCode int
		wantBody string
	}{
		{name: "liveness", path: "/healthz", wantCode: http.StatusOK, wantBody: "OK"},
		{name: "not ready", path: "/readyz", wantCode: http.StatusServiceUnavailable, wantBody: "dataset not loaded"},
		{name: "ready", path: "/readyz", ready: true, wantCode: http.StatusOK, wantBody: "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ready = tt.ready

			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	logger := zerolog.Nop()
	srv := NewServer(0, nil, &logger)

	DatasetSwaps.Inc()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "insight_dataset_swaps_total")
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(FallbackLabels.WithLabelValues("sentiment"))

	FallbackLabels.WithLabelValues("sentiment").Add(2)

	assert.InDelta(t, before+2, testutil.ToFloat64(FallbackLabels.WithLabelValues("sentiment")), 1e-9)
}
