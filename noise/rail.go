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
	railBaseLevel         = 68.0 // dB(A)
	railReferenceDistance = 10.0 // m
)

// RailwayNoise calculates the railway noise level in dB(A) at distance m
// from the track, where volume is the number of trains per hour, speed is the
// average train speed in km/h, and trackType is one of the labels in
// TrackTypes.
func RailwayNoise(distance, volume, speed float64, trackType string) (float64, error) {
	adj, err := TrackTypes.Adjustment(trackType)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(
		magnitude{"distance", distance},
		magnitude{"train volume", volume},
		magnitude{"speed", speed},
	); err != nil {
		return 0, err
	}
	base := railBaseLevel + 10*math.Log10(volume) + 10*math.Log10(speed)
	return base + adj - spreading(distance, railReferenceDistance), nil
}

// RailLine is a railway modeled with RailwayNoise.
type RailLine struct {
	Volume    float64 // trains/hour
	Speed     float64 // km/h
	TrackType string
}

// Level calculates the noise level at distance.
func (r RailLine) Level(distance float64) (float64, error) {
	return RailwayNoise(distance, r.Volume, r.Speed, r.TrackType)
}

// Name returns the label for this model.
func (r RailLine) Name() string { return "Railway Noise" }
