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

// Package noise holds a collection of simplified models for estimating
// environmental noise levels, in A-weighted decibels (dB(A)), at a given
// distance from road traffic, railways, aircraft, industrial sites, and wind
// turbines, along with a few spectral utilities.
//
// Each model combines a base level, fixed category adjustments and a
// distance attenuation term additively in the decibel domain. All functions
// are pure and safe for concurrent use.
package noise

import "math"

// Version gives the version number.
const Version = "1.0.0"

// Source is an interface for any type that can calculate the A-weighted
// sound level, in dB(A), at a receiver the given distance (in m) away.
type Source interface {
	Level(distance float64) (float64, error)
	Name() string
}

// spreading returns the geometric spreading loss in dB between the
// reference distance ref and distance.
func spreading(distance, ref float64) float64 {
	return 20 * math.Log10(distance/ref)
}
