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

const industrialReferenceDistance = 100.0 // m

// IndustrialNoise calculates the noise level in dB(A) at distance m from an
// industrial source whose emission level at the 100 m reference distance is
// sourceLevel dB(A). sourceType is one of the labels in IndustrialSources and
// terrain is one of the labels in IndustrialTerrains.
//
// sourceLevel is used as given; unlike the other models there is no base
// level derived from volume or speed.
func IndustrialNoise(distance, sourceLevel float64, sourceType, terrain string) (float64, error) {
	sourceAdj, err := IndustrialSources.Adjustment(sourceType)
	if err != nil {
		return 0, err
	}
	terrainAdj, err := IndustrialTerrains.Adjustment(terrain)
	if err != nil {
		return 0, err
	}
	if err := checkPositive(magnitude{"distance", distance}); err != nil {
		return 0, err
	}
	if err := checkFinite(magnitude{"source level", sourceLevel}); err != nil {
		return 0, err
	}
	return sourceLevel + sourceAdj + terrainAdj - spreading(distance, industrialReferenceDistance), nil
}

// IndustrialSite is an industrial source modeled with IndustrialNoise.
type IndustrialSite struct {
	SourceLevel float64 // dB(A)
	SourceType  string
	Terrain     string
}

// Level calculates the noise level at distance.
func (s IndustrialSite) Level(distance float64) (float64, error) {
	return IndustrialNoise(distance, s.SourceLevel, s.SourceType, s.Terrain)
}

// Name returns the label for this model.
func (s IndustrialSite) Name() string { return "Industrial Noise" }
