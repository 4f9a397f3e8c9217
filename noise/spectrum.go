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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Coefficients of the simplified A-weighting curve.
const (
	aWeightSlope  = 20.599 // dB/decade
	aWeightOffset = -16.1  // dB
)

// IEC 61672 analog prototype pole frequencies (Hz) used by AWeightingIEC.
const (
	iecF1 = 20.598997
	iecF2 = 107.65265
	iecF4 = 737.86223
	iecF5 = 12194.217
)

// OctaveBands are the octave band center frequencies, in Hz, from 31.5 Hz
// to 8 kHz.
var OctaveBands = []float64{31.5, 63, 125, 250, 500, 1000, 2000, 4000, 8000}

// AWeighting returns the simplified A-weighting correction, in dB, at
// frequency Hz: 20.599·log10(f) − 16.1.
func AWeighting(frequency float64) (float64, error) {
	if err := checkPositive(magnitude{"frequency", frequency}); err != nil {
		return 0, err
	}
	return aWeightSlope*math.Log10(frequency) + aWeightOffset, nil
}

// WeightedSoundLevels calculates A-weighted sound levels in dB(A) from
// unweighted levels in dB, where levels[i] was measured in the band centered
// on frequencies[i] Hz. ErrLengthMismatch is returned if the slices are not
// the same length.
func WeightedSoundLevels(frequencies, levels []float64) ([]float64, error) {
	if len(frequencies) != len(levels) {
		return nil, ErrLengthMismatch
	}
	weights := make([]float64, len(frequencies))
	for i, f := range frequencies {
		w, err := AWeighting(f)
		if err != nil {
			return nil, err
		}
		weights[i] = w
	}
	return floats.AddTo(make([]float64, len(levels)), levels, weights), nil
}

// AWeightingIEC returns the A-weighting correction, in dB, at frequency Hz
// from the IEC 61672 analog transfer function, normalized so that the
// correction is 0 dB at 1 kHz. It can be used to check the simplified curve
// returned by AWeighting.
func AWeightingIEC(frequency float64) (float64, error) {
	if err := checkPositive(magnitude{"frequency", frequency}); err != nil {
		return 0, err
	}
	return 20 * math.Log10(iecResponse(frequency)/iecResponse(1000)), nil
}

// iecResponse is the magnitude of the unnormalized A-weighting transfer
// function at f Hz.
func iecResponse(f float64) float64 {
	f2 := f * f
	return iecF5 * iecF5 * f2 * f2 /
		((f2 + iecF1*iecF1) * math.Sqrt((f2+iecF2*iecF2)*(f2+iecF4*iecF4)) * (f2 + iecF5*iecF5))
}

// PinkNoise returns the relative level, in dB, of pink noise at frequency
// Hz: −10·log10(f). Pink noise power falls by 3 dB per octave.
func PinkNoise(frequency float64) (float64, error) {
	if err := checkPositive(magnitude{"frequency", frequency}); err != nil {
		return 0, err
	}
	return -10 * math.Log10(frequency), nil
}

// PinkNoiseSpectrum returns PinkNoise for each of the given frequencies.
func PinkNoiseSpectrum(frequencies []float64) ([]float64, error) {
	o := make([]float64, len(frequencies))
	for i, f := range frequencies {
		l, err := PinkNoise(f)
		if err != nil {
			return nil, err
		}
		o[i] = l
	}
	return o, nil
}
