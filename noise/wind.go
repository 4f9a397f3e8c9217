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

import "math"

const (
	windBaseLevel         = 90.0  // dB(A)
	windReferenceDistance = 100.0 // m
)

// WindTurbineNoise calculates the noise level in dB(A) at distance m from a
// wind turbine with rated power in kW, at wind speed m/s, where terrain is one
// of the labels in WindTerrains.
//
// Higher wind speeds lower the modeled level, which accounts for masking by
// wind noise at the receiver.
func WindTurbineNoise(distance, power, windSpeed float64, terrain string) (float64, error) {
	adj, err := WindTerrains.Adjustment(terrain)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(
		magnitude{"distance", distance},
		magnitude{"turbine power", power},
		magnitude{"wind speed", windSpeed},
	); err != nil {
		return 0, err
	}
	base := windBaseLevel + 10*math.Log10(power) - 20*math.Log10(windSpeed)
	return base + adj - spreading(distance, windReferenceDistance), nil
}

// WindTurbine is a turbine modeled with WindTurbineNoise.
type WindTurbine struct {
	Power     float64 // kW
	WindSpeed float64 // m/s
	Terrain   string
}

// Level calculates the noise level at distance.
func (w WindTurbine) Level(distance float64) (float64, error) {
	return WindTurbineNoise(distance, w.Power, w.WindSpeed, w.Terrain)
}

// Name returns the label for this model.
func (w WindTurbine) Name() string { return "Wind Turbine Noise" }
