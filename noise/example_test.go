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

package noise_test

import (
	"errors"
	"fmt"

	"github.com/spatialmodel/envnoise/noise"
)

// This example calculates noise levels at each model's reference distance,
// where the distance attenuation term is zero.
func Example() {
	tnm, _ := noise.TrafficNoiseTNM(15, 500, 100, "heavy")
	crtn, _ := noise.TrafficNoiseCRTN(10, 500, 100, "heavy")
	rail, _ := noise.RailwayNoise(10, 10, 100, "medium")
	air, _ := noise.AircraftNoise(1000, 5, "jet", "landing")
	industry, _ := noise.IndustrialNoise(100, 80, "factory", "urban")
	wind, _ := noise.WindTurbineNoise(100, 2000, 10, "hilly")
	pink, _ := noise.PinkNoise(1000)

	fmt.Printf("TNM: %.1f dB(A)\n", tnm)
	fmt.Printf("CRTN: %.1f dB(A)\n", crtn)
	fmt.Printf("railway: %.1f dB(A)\n", rail)
	fmt.Printf("aircraft: %.1f dB(A)\n", air)
	fmt.Printf("industrial: %.1f dB(A)\n", industry)
	fmt.Printf("wind turbine: %.1f dB(A)\n", wind)
	fmt.Printf("pink noise at 1 kHz: %.1f dB\n", pink)

	// Output:
	// TNM: 100.9 dB(A)
	// CRTN: 117.5 dB(A)
	// railway: 100.0 dB(A)
	// aircraft: 92.0 dB(A)
	// industrial: 80.0 dB(A)
	// wind turbine: 98.0 dB(A)
	// pink noise at 1 kHz: -30.0 dB
}

// This example shows how a railway noise level falls off with distance.
func ExampleSweep() {
	d, err := noise.Distances(10, 40, 4)
	if err != nil {
		panic(err)
	}
	levels, err := noise.Sweep(noise.RailLine{Volume: 10, Speed: 100, TrackType: "medium"}, d)
	if err != nil {
		panic(err)
	}
	for i, l := range levels {
		fmt.Printf("%g m: %.1f dB(A)\n", d[i], l)
	}

	// Output:
	// 10 m: 100.0 dB(A)
	// 20 m: 94.0 dB(A)
	// 30 m: 90.5 dB(A)
	// 40 m: 88.0 dB(A)
}

func ExampleInvalidCategoryError() {
	_, err := noise.AircraftNoise(1000, 5, "glider", "landing")
	var catErr *noise.InvalidCategoryError
	if errors.As(err, &catErr) {
		fmt.Println(catErr.Allowed)
	}
	fmt.Println(err)

	// Output:
	// [jet large_prop small_prop]
	// noise: invalid aircraft type "glider"; choose from "jet", "large_prop", or "small_prop"
}
