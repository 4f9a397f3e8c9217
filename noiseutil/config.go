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
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/envnoise/noise"
	"github.com/spf13/cast"
)

// SourceNames are the names that can be used to select a noise source.
var SourceNames = []string{"tnm", "crtn", "rail", "aircraft", "industrial", "wind"}

// maxSweepPoints is the largest number of distances in a sweep.
const maxSweepPoints = 10000

// ErrUnknownSource is returned when a source name is not one of SourceNames.
var ErrUnknownSource = errors.New("envnoise: unknown noise source")

// Config holds the settings for all of the noise models.
type Config struct {
	// Distance is the receiver distance in m for single-level calculations.
	Distance float64

	Road struct {
		Volume, Speed float64
		Type          string
	}

	Rail struct {
		Volume, Speed float64
		TrackType     string
	}

	Aircraft struct {
		Volume     float64
		Type       string
		FlightPath string
	}

	Industrial struct {
		SourceLevel float64
		SourceType  string
		Terrain     string
	}

	Wind struct {
		Power, Speed float64
		Terrain      string
	}

	Spectrum struct {
		Frequencies, Levels, Bands []float64
	}

	Sweep SweepConfig

	Plot struct {
		OutputFile    string
		Width, Height float64
		Show          bool
	}

	HTTPAddress string
	LogLevel    string
	LogFile     string
}

// SweepConfig specifies a range of receiver distances.
type SweepConfig struct {
	MinDistance, MaxDistance float64
	Points                   int
}

// Run calculates the levels from s at each of the distances specified
// by c.
func (c SweepConfig) Run(s noise.Source) (distances, levels []float64, err error) {
	distances, err = noise.Distances(c.MinDistance, c.MaxDistance, c.Points)
	if err != nil {
		return nil, nil, fmt.Errorf("envnoise: sweep: %w", err)
	}
	levels, err = noise.Sweep(s, distances)
	if err != nil {
		return nil, nil, fmt.Errorf("envnoise: sweep: %w", err)
	}
	return distances, levels, nil
}

// LoadConfig reads the configuration in cfg and checks that it is valid.
func LoadConfig(cfg *viper.Viper) (*Config, error) {
	c := new(Config)
	c.Distance = cfg.GetFloat64("distance")

	c.Road.Volume = cfg.GetFloat64("Road.Volume")
	c.Road.Speed = cfg.GetFloat64("Road.Speed")
	c.Road.Type = cfg.GetString("Road.Type")

	c.Rail.Volume = cfg.GetFloat64("Rail.Volume")
	c.Rail.Speed = cfg.GetFloat64("Rail.Speed")
	c.Rail.TrackType = cfg.GetString("Rail.TrackType")

	c.Aircraft.Volume = cfg.GetFloat64("Aircraft.Volume")
	c.Aircraft.Type = cfg.GetString("Aircraft.Type")
	c.Aircraft.FlightPath = cfg.GetString("Aircraft.FlightPath")

	c.Industrial.SourceLevel = cfg.GetFloat64("Industrial.SourceLevel")
	c.Industrial.SourceType = cfg.GetString("Industrial.SourceType")
	c.Industrial.Terrain = cfg.GetString("Industrial.Terrain")

	c.Wind.Power = cfg.GetFloat64("Wind.Power")
	c.Wind.Speed = cfg.GetFloat64("Wind.Speed")
	c.Wind.Terrain = cfg.GetString("Wind.Terrain")

	var err error
	if c.Spectrum.Frequencies, err = toFloat64SliceE(cfg.Get("Spectrum.Frequencies")); err != nil {
		return nil, fmt.Errorf("envnoise: parsing configuration Spectrum.Frequencies: %v", err)
	}
	if c.Spectrum.Levels, err = toFloat64SliceE(cfg.Get("Spectrum.Levels")); err != nil {
		return nil, fmt.Errorf("envnoise: parsing configuration Spectrum.Levels: %v", err)
	}
	if c.Spectrum.Bands, err = toFloat64SliceE(cfg.Get("Spectrum.Bands")); err != nil {
		return nil, fmt.Errorf("envnoise: parsing configuration Spectrum.Bands: %v", err)
	}

	c.Sweep.MinDistance = cfg.GetFloat64("Sweep.MinDistance")
	c.Sweep.MaxDistance = cfg.GetFloat64("Sweep.MaxDistance")
	c.Sweep.Points = cfg.GetInt("Sweep.Points")

	c.Plot.OutputFile = os.ExpandEnv(cfg.GetString("Plot.OutputFile"))
	c.Plot.Width = cfg.GetFloat64("Plot.Width")
	c.Plot.Height = cfg.GetFloat64("Plot.Height")
	c.Plot.Show = cfg.GetBool("Plot.Show")

	c.HTTPAddress = cfg.GetString("HTTPAddress")
	c.LogLevel = cfg.GetString("LogLevel")
	c.LogFile = os.ExpandEnv(cfg.GetString("LogFile"))

	if err := c.validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("envnoise: configuration: %# v", pretty.Formatter(c))
	return c, nil
}

// validate checks the settings that are not checked by the noise
// models themselves.
func (c *Config) validate() error {
	if len(c.Spectrum.Frequencies) != len(c.Spectrum.Levels) {
		return fmt.Errorf("envnoise: parsing configuration: the number of Spectrum.Frequencies (%d) "+
			"must equal the number of Spectrum.Levels (%d)", len(c.Spectrum.Frequencies), len(c.Spectrum.Levels))
	}
	for _, s := range []struct {
		name string
		v    []float64
	}{
		{"Spectrum.Frequencies", c.Spectrum.Frequencies},
		{"Spectrum.Levels", c.Spectrum.Levels},
		{"Spectrum.Bands", c.Spectrum.Bands},
	} {
		for _, v := range s.v {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return fmt.Errorf("envnoise: parsing configuration: %s contains %g but should only contain finite numbers", s.name, v)
			}
		}
	}
	if c.Sweep.Points < 2 {
		return fmt.Errorf("envnoise: parsing configuration: Sweep.Points=%d but should be >=2", c.Sweep.Points)
	}
	if c.Sweep.Points > maxSweepPoints {
		return fmt.Errorf("envnoise: parsing configuration: Sweep.Points=%d but should be <=%d", c.Sweep.Points, maxSweepPoints)
	}
	if c.Plot.Width <= 0 {
		return fmt.Errorf("envnoise: parsing configuration: Plot.Width=%g but should be >0", c.Plot.Width)
	}
	if c.Plot.Height <= 0 {
		return fmt.Errorf("envnoise: parsing configuration: Plot.Height=%g but should be >0", c.Plot.Height)
	}
	return nil
}

// Source returns the noise source with the given name, which must be
// one of SourceNames.
func (c *Config) Source(name string) (noise.Source, error) {
	switch strings.ToLower(name) {
	case "tnm":
		return noise.TNMRoad{Volume: c.Road.Volume, Speed: c.Road.Speed, RoadType: c.Road.Type}, nil
	case "crtn":
		return noise.CRTNRoad{Volume: c.Road.Volume, Speed: c.Road.Speed, RoadType: c.Road.Type}, nil
	case "rail":
		return noise.RailLine{Volume: c.Rail.Volume, Speed: c.Rail.Speed, TrackType: c.Rail.TrackType}, nil
	case "aircraft":
		return noise.AirRoute{Volume: c.Aircraft.Volume, AircraftType: c.Aircraft.Type, FlightPath: c.Aircraft.FlightPath}, nil
	case "industrial":
		return noise.IndustrialSite{SourceLevel: c.Industrial.SourceLevel, SourceType: c.Industrial.SourceType, Terrain: c.Industrial.Terrain}, nil
	case "wind":
		return noise.WindTurbine{Power: c.Wind.Power, WindSpeed: c.Wind.Speed, Terrain: c.Wind.Terrain}, nil
	default:
		return nil, fmt.Errorf("%w %q; choose from %s", ErrUnknownSource, name, strings.Join(SourceNames, ", "))
	}
}

// Sources returns all of the noise sources, in the order of SourceNames.
func (c *Config) Sources() ([]noise.Source, error) {
	o := make([]noise.Source, len(SourceNames))
	for i, n := range SourceNames {
		s, err := c.Source(n)
		if err != nil {
			return nil, err
		}
		o[i] = s
	}
	return o, nil
}

// formatFloats formats v with full precision for use as string flag
// defaults.
func formatFloats(v []float64) []string {
	o := make([]string, len(v))
	for i, f := range v {
		o[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return o
}

// toFloat64SliceE converts a configuration value to a float slice. Values
// set by command-line flags are given as string slices, or as strings in
// the form "[1.0,2.0]".
func toFloat64SliceE(i interface{}) ([]float64, error) {
	switch v := i.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for j, vv := range v {
			f, err := cast.ToFloat64E(vv)
			if err != nil {
				return nil, err
			}
			o[j] = f
		}
		return o, nil
	case []string:
		o := make([]float64, len(v))
		for j, vv := range v {
			f, err := cast.ToFloat64E(strings.TrimSpace(vv))
			if err != nil {
				return nil, err
			}
			o[j] = f
		}
		return o, nil
	case string:
		v = strings.TrimSpace(v)
		v = strings.TrimSuffix(strings.TrimPrefix(v, "["), "]")
		if strings.TrimSpace(v) == "" {
			return []float64{}, nil
		}
		return toFloat64SliceE(strings.Split(v, ","))
	default:
		return nil, fmt.Errorf("invalid type %T for float slice", i)
	}
}
