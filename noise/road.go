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
	tnmBaseLevel         = 50.0  // dB(A)
	tnmReferenceDistance = 15.0  // m
	tnmAbsorption        = 0.005 // dB/m, typical for open terrain

	crtnBaseLevel         = 68.0 // dB(A)
	crtnReferenceDistance = 10.0 // m
	crtnGroundAbsorption  = -1.5 // dB, soft ground
)

// TrafficNoiseTNM calculates the road traffic noise level in dB(A) using a
// simplified version of the Federal Highway Administration (FHWA) Traffic
// Noise Model (TNM).
//
// distance is the distance from the road to the receiver in m, volume is the
// traffic volume in vehicles per hour, speed is the average vehicle speed in
// km/h, and roadType is one of the labels in RoadTypes. Atmospheric
// absorption grows linearly with distance beyond the 15 m reference.
func TrafficNoiseTNM(distance, volume, speed float64, roadType string) (float64, error) {
	adj, err := RoadTypes.Adjustment(roadType)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(
		magnitude{"distance", distance},
		magnitude{"traffic volume", volume},
		magnitude{"speed", speed},
	); err != nil {
		return 0, err
	}
	base := tnmBaseLevel + 10*math.Log10(volume) + 10*math.Log10(speed)
	attenuation := spreading(distance, tnmReferenceDistance)
	absorption := tnmAbsorption * distance
	return base + adj - attenuation - absorption, nil
}

// TrafficNoiseCRTN calculates the road traffic noise level in dB(A) using the
// Calculation of Road Traffic Noise (CRTN) model. The arguments are the same
// as for TrafficNoiseTNM, but the model uses a 10 m reference distance and a
// constant ground absorption term instead of distance-scaled absorption.
func TrafficNoiseCRTN(distance, volume, speed float64, roadType string) (float64, error) {
	adj, err := RoadTypes.Adjustment(roadType)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(
		magnitude{"distance", distance},
		magnitude{"traffic volume", volume},
		magnitude{"speed", speed},
	); err != nil {
		return 0, err
	}
	base := crtnBaseLevel + 10*math.Log10(volume) + 10*math.Log10(speed)
	attenuation := spreading(distance, crtnReferenceDistance)
	return base + adj - attenuation + crtnGroundAbsorption, nil
}

// TNMRoad is a road modeled with TrafficNoiseTNM.
type TNMRoad struct {
	// Volume is the traffic volume in vehicles per hour.
	Volume float64

	// Speed is the average vehicle speed in km/h.
	Speed float64

	// RoadType is one of the labels in RoadTypes.
	RoadType string
}

// Level calculates the noise level at distance.
func (r TNMRoad) Level(distance float64) (float64, error) {
	return TrafficNoiseTNM(distance, r.Volume, r.Speed, r.RoadType)
}

// Name returns the label for this model.
func (r TNMRoad) Name() string { return "Traffic Noise (TNM)" }

// CRTNRoad is a road modeled with TrafficNoiseCRTN.
type CRTNRoad struct {
	// Volume is the traffic volume in vehicles per hour.
	Volume float64

	// Speed is the average vehicle speed in km/h.
	Speed float64

	// RoadType is one of the labels in RoadTypes.
	RoadType string
}

// Level calculates the noise level at distance.
func (r CRTNRoad) Level(distance float64) (float64, error) {
	return TrafficNoiseCRTN(distance, r.Volume, r.Speed, r.RoadType)
}

// Name returns the label for this model.
func (r CRTNRoad) Name() string { return "Traffic Noise (CRTN)" }
