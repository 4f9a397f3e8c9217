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
	"math"
	"reflect"
	"testing"
)

func TestLabels(t *testing.T) {
	var tests = []struct {
		table Adjustments
		want  []string
	}{
		{table: RoadTypes, want: []string{"heavy", "light", "medium"}},
		{table: TrackTypes, want: []string{"heavy", "light", "medium"}},
		{table: AircraftTypes, want: []string{"jet", "large_prop", "small_prop"}},
		{table: FlightPaths, want: []string{"cruise", "landing", "takeoff"}},
		{table: IndustrialSources, want: []string{"construction", "factory", "power_plant"}},
		{table: IndustrialTerrains, want: []string{"rural", "suburban", "urban"}},
		{table: WindTerrains, want: []string{"flat", "hilly", "mountainous"}},
	}
	for _, test := range tests {
		t.Run(test.table.Param(), func(t *testing.T) {
			if have := test.table.Labels(); !reflect.DeepEqual(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestAdjustment(t *testing.T) {
	var tests = []struct {
		table Adjustments
		label string
		want  float64
	}{
		{table: RoadTypes, label: "medium", want: 2},
		{table: TrackTypes, label: "heavy", want: 4},
		{table: AircraftTypes, label: "small_prop", want: -10},
		{table: FlightPaths, label: "cruise", want: -15},
		{table: IndustrialSources, label: "construction", want: 10},
		{table: IndustrialTerrains, label: "suburban", want: -5},
		{table: WindTerrains, label: "mountainous", want: -10},
	}
	for _, test := range tests {
		t.Run(test.label, func(t *testing.T) {
			have, err := test.table.Adjustment(test.label)
			if err != nil {
				t.Fatal(err)
			}
			if have != test.want {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestLabelsCannotMutateTable(t *testing.T) {
	labels := RoadTypes.Labels()
	labels[0] = "dirt"
	if _, err := RoadTypes.Adjustment("dirt"); err == nil {
		t.Error("modifying the returned labels changed the table")
	}
	if _, err := RoadTypes.Adjustment("heavy"); err != nil {
		t.Error(err)
	}
}

func TestInvalidCategoryErrorMessage(t *testing.T) {
	_, err := RoadTypes.Adjustment("gravel")
	want := `noise: invalid road type "gravel"; choose from "heavy", "light", or "medium"`
	if err == nil || err.Error() != want {
		t.Errorf("have %v, want %s", err, want)
	}

	var tests = []struct {
		allowed []string
		want    string
	}{
		{allowed: nil, want: `noise: invalid x "y"; choose from no labels`},
		{allowed: []string{"a"}, want: `noise: invalid x "y"; choose from "a"`},
		{allowed: []string{"a", "b"}, want: `noise: invalid x "y"; choose from "a" or "b"`},
	}
	for _, test := range tests {
		e := &InvalidCategoryError{Param: "x", Value: "y", Allowed: test.allowed}
		if e.Error() != test.want {
			t.Errorf("have %s, want %s", e.Error(), test.want)
		}
	}
}

func TestZeroAdjustments(t *testing.T) {
	var a Adjustments
	_, err := a.Adjustment("light")
	var catErr *InvalidCategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("have %v, want *InvalidCategoryError", err)
	}
	if len(a.Labels()) != 0 {
		t.Errorf("zero table has labels %v", a.Labels())
	}
}

func TestInvalidMagnitudeErrorMessage(t *testing.T) {
	err := checkPositive(magnitude{"speed", 100}, magnitude{"distance", -2})
	want := "noise: distance=-2 but should be >0"
	if err == nil || err.Error() != want {
		t.Errorf("have %v, want %s", err, want)
	}
}

func TestNonFiniteMagnitudeErrorMessage(t *testing.T) {
	err := checkPositive(magnitude{"frequency", math.Inf(1)})
	want := "noise: frequency=+Inf but should be a finite number"
	if err == nil || err.Error() != want {
		t.Errorf("have %v, want %s", err, want)
	}
	if err := checkFinite(magnitude{"source level", -3}); err != nil {
		t.Errorf("negative finite value rejected: %v", err)
	}
}
