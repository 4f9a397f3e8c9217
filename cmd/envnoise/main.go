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

// Command envnoise is a command-line interface for the EnvNoise
// environmental noise models.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/envnoise/noiseutil"
)

func main() {
	if err := noiseutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
