package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/dtr-datecode/internal/adapter/http"
	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2016, time.January, 1, 2, 0, 0, 0, time.UTC)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, metrics *observability.Metrics) *httpadapter.Server {
	codec := datecode.NewCodec(clockwork.NewFakeClockAt(testNow))
	codes := httpadapter.NewCodeHandler(codec, nil, metrics, slog.Default())
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, codes, metrics, slog.Default())
}

func get(t *testing.T, srv http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func status(srv http.Handler, target string) int {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Code
}

func TestHealthzReturns200(t *testing.T) {
	assert.Equal(t, http.StatusOK, status(newTestServer(nil, nil), "/healthz"))
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	assert.Equal(t, http.StatusOK, status(newTestServer(nil, nil), "/readyz"))
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, status(newTestServer(fmt.Errorf("not ready yet"), nil), "/readyz"))
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNotFound(t *testing.T) {
	rec, body := get(t, newTestServer(nil, nil), "/v2/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["reason"])
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	srv := newTestServer(nil, metrics)

	get(t, srv, "/v1/codes/001/dates")
	get(t, srv, "/v1/codes/6001/dates")
	get(t, srv, "/v1/codes/12/dates")

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/v1/codes/{code}/dates", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/v1/codes/{code}/dates", "400")), 0)
}

func TestEncode_CurrentTime(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	srv := newTestServer(nil, metrics)

	for kind, want := range map[string]string{"air": "C01", "surface": "001", "Ocean": "6001"} {
		rec, body := get(t, srv, "/v1/codes/"+kind)
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, want, body["code"], kind)
		assert.Equal(t, "2016-01-01T02:00:00Z", body["at"], kind)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CodesEncoded.WithLabelValues("air")), 0)
}

func TestEncode_AtParameter(t *testing.T) {
	srv := newTestServer(nil, nil)

	// 22:00 EST on Jan 1 is Jan 2 in UTC: air reads UTC, surface reads the offset.
	rec, body := get(t, srv, "/v1/codes/air?at=2016-01-01T22:00:00-05:00")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "D02", body["code"])

	rec, body = get(t, srv, "/v1/codes/surface?at=2016-01-01T22:00:00-05:00")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "001", body["code"])
}

func TestEncode_UnknownKind(t *testing.T) {
	rec, body := get(t, newTestServer(nil, nil), "/v1/codes/rail")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_kind", body["reason"])
}

func TestEncode_InvalidTime(t *testing.T) {
	rec, body := get(t, newTestServer(nil, nil), "/v1/codes/air?at=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_time", body["reason"])
}

func TestDecode_Ocean(t *testing.T) {
	rec, body := get(t, newTestServer(nil, nil), "/v1/codes/6001/dates")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "ocean", body["kind"])
	assert.Equal(t, []any{"2016-01-01T00:00:00Z"}, body["candidates"])
	assert.Equal(t, "2016-01-01T00:00:00Z", body["most_recent"])
	assert.Equal(t, "01/01/2016 00:00:00", body["display"])
}

func TestDecode_AirWithNow(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	rec, body := get(t, newTestServer(nil, metrics), "/v1/codes/a01/dates?now=2016-03-15T12:30:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "A01", body["code"])
	assert.Equal(t, "air", body["kind"])
	assert.Len(t, body["candidates"], 4)
	assert.Equal(t, "2016-01-01T00:00:00Z", body["most_recent"])
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CodesDecoded.WithLabelValues("air", "success")), 0)
}

func TestDecode_Errors(t *testing.T) {
	srv := newTestServer(nil, nil)

	tests := []struct {
		target string
		reason string
	}{
		{"/v1/codes/12/dates", "invalid_length"},
		{"/v1/codes/12345/dates", "invalid_length"},
		{"/v1/codes/ABC/dates", "invalid_numeric"},
		{"/v1/codes/367/dates", "invalid_day_of_year"},
		{"/v1/codes/I01/dates?kind=air", "invalid_hour_code"},
		{"/v1/codes/001/dates?kind=rail", "unknown_kind"},
		{"/v1/codes/001/dates?now=soon", "invalid_time"},
	}

	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			rec, body := get(t, srv, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.reason, body["reason"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestDecode_ErrorMetricsUseRequestKind(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	srv := newTestServer(nil, metrics)

	for _, target := range []string{
		"/v1/codes/ABC/dates",
		"/v1/codes/I01/dates?kind=air",
		"/v1/codes/12/dates",
		"/v1/codes/001/dates?kind=rail",
	} {
		assert.Equal(t, http.StatusBadRequest, status(srv, target), target)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CodesDecoded.WithLabelValues("air", "error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CodesDecoded.WithLabelValues("unknown", "error")), 0)
}
