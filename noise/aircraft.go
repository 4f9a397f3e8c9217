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
	aircraftBaseLevel         = 80.0   // dB(A)
	aircraftReferenceDistance = 1000.0 // m
)

// AircraftNoise calculates the aircraft noise level in dB(A) at distance m
// from the aircraft, where volume is the number of flights per hour,
// aircraftType is one of the labels in AircraftTypes and flightPath is one of
// the labels in FlightPaths. Both labels are checked before anything is
// calculated.
func AircraftNoise(distance, volume float64, aircraftType, flightPath string) (float64, error) {
	typeAdj, err := AircraftTypes.Adjustment(aircraftType)
	if err != nil {
		return 0, err
	}
	pathAdj, err := FlightPaths.Adjustment(flightPath)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(
		magnitude{"distance", distance},
		magnitude{"flight volume", volume},
	); err != nil {
		return 0, err
	}
	base := aircraftBaseLevel + 10*math.Log10(volume)
	return base + typeAdj + pathAdj - spreading(distance, aircraftReferenceDistance), nil
}

// AirRoute is a flight route modeled with AircraftNoise.
type AirRoute struct {
	// Volume is the number of flights per hour.
	Volume float64

	// AircraftType is one of the labels in AircraftTypes.
	AircraftType string

	// FlightPath is one of the labels in FlightPaths.
	FlightPath string
}

// Level calculates the noise level at distance.
func (a AirRoute) Level(distance float64) (float64, error) {
	return AircraftNoise(distance, a.Volume, a.AircraftType, a.FlightPath)
}

// Name returns the label for this model.
func (a AirRoute) Name() string { return "Aircraft Noise" }
