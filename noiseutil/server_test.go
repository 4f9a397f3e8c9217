/*
Copyright © 2023 the EnvNoise authors.
This file is part of EnvNoise.

EnvNoise is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

EnvNoise is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with EnvNoise.  If not, see <http://www.gnu.org/licenses/>.
*/

package noiseutil

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := LoadConfig(exampleConfig(t))
	require.NoError(t, err)
	c.Plot.Width, c.Plot.Height = 4, 6
	return NewServer(c, prometheus.NewRegistry())
}

// get sends a GET request to s and decodes the JSON response into v.
func get(t *testing.T, s http.Handler, target string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if v != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

func TestServerHealthz(t *testing.T) {
	var body map[string]string
	rec := get(t, newTestServer(t), "/healthz", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestServerLevels(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		model  string
		dist   float64
		level  float64
	}{
		{target: "/levels/tnm", model: "Traffic Noise (TNM)", dist: 100, level: 84.01152522447381},
		{target: "/levels/tnm?volume=800", model: "Traffic Noise (TNM)", dist: 100, level: 86.05272505103306},
		{target: "/levels/rail?distance=50&speed=80&type=light", model: "Railway Noise", dist: 50, level: 83.05149978319906},
		{target: "/levels/aircraft?distance=1000&type=large_prop&path=takeoff", model: "Aircraft Noise", dist: 1000, level: 86.98970004336019},
		{target: "/levels/industrial?level=90&terrain=rural", model: "Industrial Noise", dist: 100, level: 80},
		{target: "/levels/wind?power=1000&speed=5&terrain=flat", model: "Wind Turbine Noise", dist: 100, level: 106.02059991327963},
	}
	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			var body LevelResponse
			rec := get(t, s, test.target, &body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, test.model, body.Model)
			assert.Equal(t, test.dist, body.Distance)
			assert.InDelta(t, test.level, body.Level, 1e-9)
		})
	}
}

func TestServerErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		code   int
		msg    string
	}{
		{target: "/levels/tram", code: http.StatusNotFound, msg: "unknown noise source"},
		{target: "/levels/tnm?type=gravel", code: http.StatusBadRequest, msg: `invalid road type "gravel"`},
		{target: "/levels/tnm?distance=0", code: http.StatusBadRequest, msg: "distance=0 but should be >0"},
		{target: "/levels/tnm?volume=many", code: http.StatusBadRequest, msg: `invalid query parameter "volume"`},
		{target: "/sweep/rail?n=1", code: http.StatusBadRequest, msg: "at least 2 points"},
		{target: "/sweep/rail?n=two", code: http.StatusBadRequest, msg: `invalid query parameter "n"`},
		{target: "/spectrum/aweight?f=1,2&l=60", code: http.StatusBadRequest, msg: "same length"},
		{target: "/spectrum/aweight?f=0&l=60", code: http.StatusBadRequest, msg: "frequency=0 but should be >0"},
		{target: "/spectrum/pink?f=x", code: http.StatusBadRequest, msg: `invalid query parameter "f"`},
		{target: "/levels/tnm?distance=Inf", code: http.StatusBadRequest, msg: "Inf is not a finite number"},
		{target: "/levels/wind?power=Inf", code: http.StatusBadRequest, msg: `invalid query parameter "power"`},
		{target: "/levels/industrial?level=NaN", code: http.StatusBadRequest, msg: "NaN is not a finite number"},
		{target: "/spectrum/pink?f=Inf", code: http.StatusBadRequest, msg: `invalid query parameter "f"`},
		{target: "/spectrum/aweight?f=1,2&l=60,-Inf", code: http.StatusBadRequest, msg: `invalid query parameter "l"`},
		{target: "/sweep/tnm?n=2000000000", code: http.StatusBadRequest, msg: "at most 10000 are allowed"},
	}
	for _, test := range tests {
		t.Run(test.target, func(t *testing.T) {
			var body map[string]string
			rec := get(t, s, test.target, &body)
			assert.Equal(t, test.code, rec.Code)
			assert.Contains(t, body["error"], test.msg)
		})
	}
}

func TestWriteJSONEncodeError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, LevelResponse{Level: math.Inf(1)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "envnoise: encoding response", body["error"])
}

func TestServerSweep(t *testing.T) {
	var body SweepResponse
	rec := get(t, newTestServer(t), "/sweep/rail?min=10&max=40&n=4", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rail", body.Source)
	assert.Equal(t, []float64{10, 20, 30, 40}, body.Distances)
	assert.InDeltaSlice(t, []float64{100, 93.97940008672037, 90.45757490560675, 87.95880017344075}, body.Levels, 1e-9)
}

func TestServerSpectrum(t *testing.T) {
	s := newTestServer(t)

	var body SpectrumResponse
	rec := get(t, s, "/spectrum/aweight", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{0.5, 1, 2, 4, 8, 16}, body.Frequencies)
	assert.InDeltaSlice(t, []float64{37.69908, 46.9, 55.10092, 64.30183, 72.50275, 82.70367}, body.Weighted, 1e-4)

	body = SpectrumResponse{}
	rec = get(t, s, "/spectrum/aweight?f=1000&f=2000&l=50,50", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []float64{1000, 2000}, body.Frequencies)
	assert.InDeltaSlice(t, []float64{95.697, 101.89792}, body.Weighted, 1e-4)

	body = SpectrumResponse{}
	rec = get(t, s, "/spectrum/pink?f=10,100", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDeltaSlice(t, []float64{-10, -20}, body.Levels, 1e-12)
	assert.Empty(t, body.Weighted)
}

func TestServerPlot(t *testing.T) {
	rec := get(t, newTestServer(t), "/plot.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestServerMetrics(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/healthz", nil)
	get(t, s, "/levels/tram", nil)

	rec := get(t, s, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, `envnoise_requests_total{outcome="success",route="/healthz"} 1`)
	assert.Contains(t, body, `envnoise_requests_total{outcome="error",route="/levels/{source}"} 1`)
	assert.Contains(t, body, `envnoise_request_duration_seconds_count{route="/healthz"} 1`)
}

func TestServerListenAndServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, addr) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/healthz")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
