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
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/envnoise/noise"
	"gonum.org/v1/plot/vg"
)

// Server answers noise level requests over HTTP. Settings that are not
// given in a request are taken from the server's configuration.
type Server struct {
	cfg     *Config
	metrics *Metrics
	router  chi.Router

	// Log receives a message for every request.
	Log logrus.FieldLogger
}

// NewServer creates a server for the configuration c and registers its
// metrics, along with Go runtime and process metrics, with reg.
func NewServer(c *Config, reg *prometheus.Registry) *Server {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s := &Server{
		cfg:     c,
		metrics: NewMetrics(reg),
		Log:     logrus.StandardLogger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Get("/healthz", s.handleHealth)
	r.Get("/levels/{source}", s.handleLevel)
	r.Get("/sweep/{source}", s.handleSweep)
	r.Get("/spectrum/aweight", s.handleAWeight)
	r.Get("/spectrum/pink", s.handlePink)
	r.Get("/plot.png", s.handlePlot)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe listens on addr until ctx is cancelled, at which point
// the server is shut down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errc <- srv.Shutdown(shutdownCtx)
	}()
	s.Log.WithField("address", addr).Info("envnoise server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("envnoise: http server: %v", err)
	}
	return <-errc
}

// instrument records metrics and a log message for each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		outcome := "success"
		if status >= http.StatusBadRequest {
			outcome = "error"
		}
		elapsed := time.Since(start)
		s.metrics.Requests.WithLabelValues(route, outcome).Inc()
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"duration": elapsed,
		}).Debug("handled request")
	})
}

// queryError is returned when a request parameter cannot be parsed.
type queryError struct {
	param string
	err   error
}

func (e *queryError) Error() string {
	return fmt.Sprintf("envnoise: invalid query parameter %q: %v", e.param, e.err)
}

func (e *queryError) Unwrap() error { return e.err }

// statusCode returns the HTTP status that corresponds to err.
func statusCode(err error) int {
	var (
		catErr   *noise.InvalidCategoryError
		magErr   *noise.InvalidMagnitudeError
		queryErr *queryError
	)
	switch {
	case errors.Is(err, ErrUnknownSource):
		return http.StatusNotFound
	case errors.As(err, &catErr), errors.As(err, &magErr), errors.As(err, &queryErr),
		errors.Is(err, noise.ErrLengthMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v to w as JSON. If v cannot be encoded the error is
// logged and the client receives a 500 response instead.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		logrus.WithError(err).Error("envnoise: encoding response")
		http.Error(w, `{"error":"envnoise: encoding response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := b.WriteTo(w); err != nil {
		logrus.WithError(err).Debug("envnoise: writing response")
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeJSON(w, statusCode(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// LevelResponse is the result of a /levels request.
type LevelResponse struct {
	Source   string  `json:"source"`
	Model    string  `json:"model"`
	Distance float64 `json:"distance"`
	Level    float64 `json:"level"`
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	c, err := s.requestConfig(name, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	src, err := c.Source(name)
	if err != nil {
		s.fail(w, err)
		return
	}
	l, err := src.Level(c.Distance)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LevelResponse{Source: name, Model: src.Name(), Distance: c.Distance, Level: l})
}

// SweepResponse is the result of a /sweep request.
type SweepResponse struct {
	Source    string    `json:"source"`
	Model     string    `json:"model"`
	Distances []float64 `json:"distances"`
	Levels    []float64 `json:"levels"`
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	c, err := s.requestConfig(name, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	src, err := c.Source(name)
	if err != nil {
		s.fail(w, err)
		return
	}
	d, err := noise.Distances(c.Sweep.MinDistance, c.Sweep.MaxDistance, c.Sweep.Points)
	if err != nil {
		s.fail(w, &queryError{param: "min, max, n", err: err})
		return
	}
	levels, err := noise.Sweep(src, d)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResponse{Source: name, Model: src.Name(), Distances: d, Levels: levels})
}

// SpectrumResponse is the result of a /spectrum request.
type SpectrumResponse struct {
	Frequencies []float64 `json:"frequencies"`
	Levels      []float64 `json:"levels"`
	Weighted    []float64 `json:"weighted,omitempty"`
}

func (s *Server) handleAWeight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	freqs, err := queryFloats(q, "f", s.cfg.Spectrum.Frequencies)
	if err != nil {
		s.fail(w, err)
		return
	}
	levels, err := queryFloats(q, "l", s.cfg.Spectrum.Levels)
	if err != nil {
		s.fail(w, err)
		return
	}
	weighted, err := noise.WeightedSoundLevels(freqs, levels)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SpectrumResponse{Frequencies: freqs, Levels: levels, Weighted: weighted})
}

func (s *Server) handlePink(w http.ResponseWriter, r *http.Request) {
	freqs, err := queryFloats(r.URL.Query(), "f", s.cfg.Spectrum.Bands)
	if err != nil {
		s.fail(w, err)
		return
	}
	levels, err := noise.PinkNoiseSpectrum(freqs)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SpectrumResponse{Frequencies: freqs, Levels: levels})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	fig, err := NewFigure(s.cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	width := vg.Length(s.cfg.Plot.Width) * vg.Inch
	height := vg.Length(s.cfg.Plot.Height) * vg.Inch
	if _, err := fig.WriteTo(w, width, height, "png"); err != nil {
		s.Log.WithError(err).Error("writing plot")
	}
}

// requestConfig returns a copy of the server configuration with the
// settings for the named source overridden by the request parameters.
// Parameters that do not apply to the source are ignored.
func (s *Server) requestConfig(name string, r *http.Request) (*Config, error) {
	c := *s.cfg
	q := r.URL.Query()
	var err error
	setFloat := func(dst *float64, key string) {
		if err != nil || q.Get(key) == "" {
			return
		}
		v, perr := parseFinite(q.Get(key))
		if perr != nil {
			err = &queryError{param: key, err: perr}
			return
		}
		*dst = v
	}
	setString := func(dst *string, key string) {
		if v := q.Get(key); v != "" {
			*dst = v
		}
	}
	setFloat(&c.Distance, "distance")
	setFloat(&c.Sweep.MinDistance, "min")
	setFloat(&c.Sweep.MaxDistance, "max")
	if v := q.Get("n"); v != "" && err == nil {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			return nil, &queryError{param: "n", err: perr}
		}
		if n > maxSweepPoints {
			return nil, &queryError{param: "n", err: fmt.Errorf("%d points requested but at most %d are allowed", n, maxSweepPoints)}
		}
		c.Sweep.Points = n
	}

	switch strings.ToLower(name) {
	case "tnm", "crtn":
		setFloat(&c.Road.Volume, "volume")
		setFloat(&c.Road.Speed, "speed")
		setString(&c.Road.Type, "type")
	case "rail":
		setFloat(&c.Rail.Volume, "volume")
		setFloat(&c.Rail.Speed, "speed")
		setString(&c.Rail.TrackType, "type")
	case "aircraft":
		setFloat(&c.Aircraft.Volume, "volume")
		setString(&c.Aircraft.Type, "type")
		setString(&c.Aircraft.FlightPath, "path")
	case "industrial":
		setFloat(&c.Industrial.SourceLevel, "level")
		setString(&c.Industrial.SourceType, "type")
		setString(&c.Industrial.Terrain, "terrain")
	case "wind":
		setFloat(&c.Wind.Power, "power")
		setFloat(&c.Wind.Speed, "speed")
		setString(&c.Wind.Terrain, "terrain")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryFloats parses the values of key in q, which may be repeated or
// comma-separated. def is returned if key is absent.
func queryFloats(q map[string][]string, key string, def []float64) ([]float64, error) {
	vals, ok := q[key]
	if !ok {
		return def, nil
	}
	var parts []string
	for _, v := range vals {
		parts = append(parts, strings.Split(v, ",")...)
	}
	o := make([]float64, len(parts))
	for i, p := range parts {
		v, err := parseFinite(strings.TrimSpace(p))
		if err != nil {
			return nil, &queryError{param: key, err: err}
		}
		o[i] = v
	}
	return o, nil
}

// parseFinite parses s as a float, rejecting infinities and NaN.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s is not a finite number", s)
	}
	return v, nil
}
