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

package noiseutil

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestFigure(t *testing.T) {
	c, err := LoadConfig(exampleConfig(t))
	require.NoError(t, err)
	fig, err := NewFigure(c)
	require.NoError(t, err)

	for i, row := range fig.plots {
		for j, p := range row {
			assert.NotNil(t, p, "panel (%d, %d)", i, j)
		}
	}
	assert.Equal(t, "Traffic Noise (TNM)", fig.plots[0][0].Title.Text)
	assert.Equal(t, "Wind Turbine Noise", fig.plots[2][1].Title.Text)
	assert.Equal(t, "Pink Noise", fig.plots[3][0].Title.Text)

	for _, format := range []string{"png", "jpg"} {
		t.Run(format, func(t *testing.T) {
			var b bytes.Buffer
			n, err := fig.WriteTo(&b, 4*vg.Inch, 6*vg.Inch, format)
			require.NoError(t, err)
			assert.Equal(t, int64(b.Len()), n)
			img, gotFormat, err := image.Decode(&b)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"png": "png", "jpg": "jpeg"}[format], gotFormat)
			assert.Equal(t, 384, img.Bounds().Dx())
			assert.Equal(t, 576, img.Bounds().Dy())
		})
	}

	var b bytes.Buffer
	_, err = fig.WriteTo(&b, 4*vg.Inch, 6*vg.Inch, "tif")
	require.NoError(t, err)
	assert.NotZero(t, b.Len())

	_, err = fig.WriteTo(&b, 4*vg.Inch, 6*vg.Inch, "bmp")
	assert.EqualError(t, err, `envnoise: unsupported image format "bmp"`)
}

func TestFigureInvalid(t *testing.T) {
	cfg := exampleConfig(t)
	cfg.Set("Wind.Terrain", "ocean")
	c, err := LoadConfig(cfg)
	require.NoError(t, err)
	_, err = NewFigure(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Wind Turbine Noise at 10 m: noise: invalid terrain "ocean"`)
}
