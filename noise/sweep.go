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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Distances returns n evenly spaced distances from min to max, inclusive.
func Distances(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("noise: a distance sweep needs at least 2 points but %d were requested", n)
	}
	if err := checkPositive(magnitude{"minimum distance", min}); err != nil {
		return nil, err
	}
	if !(max > min) || math.IsInf(max, 1) {
		return nil, fmt.Errorf("noise: maximum distance %g should be greater than minimum distance %g", max, min)
	}
	return floats.Span(make([]float64, n), min, max), nil
}

// Sweep calculates the level of s at each of the given distances, in order.
// It stops at the first error.
func Sweep(s Source, distances []float64) ([]float64, error) {
	levels := make([]float64, len(distances))
	for i, d := range distances {
		l, err := s.Level(d)
		if err != nil {
			return nil, fmt.Errorf("%s at %g m: %w", s.Name(), d, err)
		}
		levels[i] = l
	}
	return levels, nil
}
