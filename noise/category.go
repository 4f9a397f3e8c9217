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

package noise

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Adjustments is a fixed table mapping the labels of one categorical model
// parameter to the level adjustment, in dB, that each label contributes.
// The zero value accepts no labels.
type Adjustments struct {
	param string
	adj   map[string]float64
}

func newAdjustments(param string, adj map[string]float64) Adjustments {
	return Adjustments{param: param, adj: adj}
}

// Param returns the name of the parameter the table applies to.
func (a Adjustments) Param() string { return a.param }

// Adjustment returns the level adjustment for label. It returns an
// *InvalidCategoryError if label is not in the table.
func (a Adjustments) Adjustment(label string) (float64, error) {
	v, ok := a.adj[label]
	if !ok {
		return 0, &InvalidCategoryError{Param: a.param, Value: label, Allowed: a.Labels()}
	}
	return v, nil
}

// Labels returns the accepted labels in alphabetical order.
func (a Adjustments) Labels() []string {
	labels := make([]string, 0, len(a.adj))
	for l := range a.adj {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// These are the category tables used by the noise models. The adjustments
// are indicative values rather than values taken from a standard.
var (
	// RoadTypes holds road surface adjustments for the traffic models.
	RoadTypes = newAdjustments("road type", map[string]float64{
		"light":  0,
		"medium": 2,
		"heavy":  4,
	})

	// TrackTypes holds track adjustments for RailwayNoise.
	TrackTypes = newAdjustments("track type", map[string]float64{
		"light":  0,
		"medium": 2,
		"heavy":  4,
	})

	// AircraftTypes holds aircraft adjustments for AircraftNoise.
	AircraftTypes = newAdjustments("aircraft type", map[string]float64{
		"small_prop": -10,
		"large_prop": 0,
		"jet":        10,
	})

	// FlightPaths holds flight phase adjustments for AircraftNoise.
	FlightPaths = newAdjustments("flight path", map[string]float64{
		"landing": -5,
		"takeoff": 0,
		"cruise":  -15,
	})

	// IndustrialSources holds source adjustments for IndustrialNoise.
	IndustrialSources = newAdjustments("source type", map[string]float64{
		"factory":      0,
		"power_plant":  5,
		"construction": 10,
	})

	// IndustrialTerrains holds terrain adjustments for IndustrialNoise.
	IndustrialTerrains = newAdjustments("terrain", map[string]float64{
		"urban":    0,
		"suburban": -5,
		"rural":    -10,
	})

	// WindTerrains holds terrain adjustments for WindTurbineNoise.
	WindTerrains = newAdjustments("terrain", map[string]float64{
		"flat":        0,
		"hilly":       -5,
		"mountainous": -10,
	})
)

// InvalidCategoryError is returned when a categorical argument is not one of
// the labels accepted by a model.
type InvalidCategoryError struct {
	// Param is the name of the parameter, e.g. "road type".
	Param string

	// Value is the label that was supplied.
	Value string

	// Allowed lists the accepted labels.
	Allowed []string
}

func (e *InvalidCategoryError) Error() string {
	quoted := make([]string, len(e.Allowed))
	for i, l := range e.Allowed {
		quoted[i] = strconv.Quote(l)
	}
	var choices string
	switch n := len(quoted); n {
	case 0:
		choices = "no labels"
	case 1:
		choices = quoted[0]
	case 2:
		choices = quoted[0] + " or " + quoted[1]
	default:
		choices = strings.Join(quoted[:n-1], ", ") + ", or " + quoted[n-1]
	}
	return fmt.Sprintf("noise: invalid %s %q; choose from %s", e.Param, e.Value, choices)
}

// InvalidMagnitudeError is returned when a numeric argument that is passed
// through a logarithm or used as a distance is not strictly positive.
type InvalidMagnitudeError struct {
	Param string
	Value float64
}

func (e *InvalidMagnitudeError) Error() string {
	if math.IsInf(e.Value, 0) || math.IsNaN(e.Value) {
		return fmt.Sprintf("noise: %s=%g but should be a finite number", e.Param, e.Value)
	}
	return fmt.Sprintf("noise: %s=%g but should be >0", e.Param, e.Value)
}

// ErrLengthMismatch is returned by WeightedSoundLevels when the frequency
// and level slices are not the same length.
var ErrLengthMismatch = errors.New("noise: frequencies and levels must be the same length")

// magnitude is a named numeric argument.
type magnitude struct {
	param string
	value float64
}

// checkPositive returns an *InvalidMagnitudeError for the first value
// that is not a finite number > 0.
func checkPositive(ms ...magnitude) error {
	for _, m := range ms {
		if !(m.value > 0) || math.IsInf(m.value, 1) {
			return &InvalidMagnitudeError{Param: m.param, Value: m.value}
		}
	}
	return nil
}

// checkFinite returns an *InvalidMagnitudeError for the first value that
// is infinite or NaN.
func checkFinite(ms ...magnitude) error {
	for _, m := range ms {
		if math.IsInf(m.value, 0) || math.IsNaN(m.value) {
			return &InvalidMagnitudeError{Param: m.param, Value: m.value}
		}
	}
	return nil
}
