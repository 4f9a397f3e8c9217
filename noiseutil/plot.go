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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/envnoise/noise"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	figureRows = 4
	figureCols = 2
)

// Figure is a multi-panel chart of noise levels versus distance for each
// source, along with the pink noise and A-weighted spectra.
type Figure struct {
	plots [][]*plot.Plot
}

// NewFigure creates a chart of the models configured in c.
func NewFigure(c *Config) (*Figure, error) {
	f := &Figure{plots: make([][]*plot.Plot, figureRows)}
	for i := range f.plots {
		f.plots[i] = make([]*plot.Plot, figureCols)
	}
	sources, err := c.Sources()
	if err != nil {
		return nil, err
	}
	for i, s := range sources {
		d, levels, err := c.Sweep.Run(s)
		if err != nil {
			return nil, err
		}
		p, err := levelPlot(s.Name(), d, levels)
		if err != nil {
			return nil, err
		}
		f.plots[i/figureCols][i%figureCols] = p
	}

	pink, err := noise.PinkNoiseSpectrum(c.Spectrum.Bands)
	if err != nil {
		return nil, fmt.Errorf("envnoise: pink noise: %v", err)
	}
	p, err := spectrumPlot("Pink Noise", "Noise Level (dB)", c.Spectrum.Bands, "Pink noise", pink)
	if err != nil {
		return nil, err
	}
	f.plots[3][0] = p

	weighted, err := noise.WeightedSoundLevels(c.Spectrum.Frequencies, c.Spectrum.Levels)
	if err != nil {
		return nil, fmt.Errorf("envnoise: A-weighting: %v", err)
	}
	p, err = spectrumPlot("A-weighted Sound Levels", "Level (dB)", c.Spectrum.Frequencies,
		"Unweighted", c.Spectrum.Levels, "A-weighted", weighted)
	if err != nil {
		return nil, err
	}
	f.plots[3][1] = p
	return f, nil
}

// levelPlot plots noise level against distance.
func levelPlot(title string, distances, levels []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "A-weighted Sound Level (dB(A))"
	p.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(p, "Level", xys(distances, levels)); err != nil {
		return nil, fmt.Errorf("envnoise: plotting %s: %v", title, err)
	}
	return p, nil
}

// spectrumPlot plots one or more spectra on a logarithmic frequency
// axis. vs holds alternating series names and []float64 levels.
func spectrumPlot(title, ylabel string, freqs []float64, vs ...interface{}) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = ylabel
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	args := make([]interface{}, len(vs))
	for i, v := range vs {
		if levels, ok := v.([]float64); ok {
			args[i] = xys(freqs, levels)
		} else {
			args[i] = v
		}
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return nil, fmt.Errorf("envnoise: plotting %s: %v", title, err)
	}
	return p, nil
}

func xys(x, y []float64) plotter.XYs {
	o := make(plotter.XYs, len(x))
	for i := range x {
		o[i].X = x[i]
		o[i].Y = y[i]
	}
	return o
}

// WriteTo draws the figure at the given size and writes it to w.
// Valid formats are "png", "jpg", "jpeg", "tif", and "tiff".
func (f *Figure) WriteTo(w io.Writer, width, height vg.Length, format string) (int64, error) {
	c := vgimg.New(width, height)
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: figureRows,
		Cols: figureCols,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,

		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(f.plots, tiles, dc)
	for i := range f.plots {
		for j, p := range f.plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: c}.WriteTo(w)
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: c}.WriteTo(w)
	default:
		return 0, fmt.Errorf("envnoise: unsupported image format %q", format)
	}
}

// SavePlot creates a chart of the models configured in c and writes it
// to c.Plot.OutputFile, opening it afterwards if c.Plot.Show is true.
func SavePlot(c *Config) error {
	fig, err := NewFigure(c)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(filepath.Ext(c.Plot.OutputFile), ".")
	w, err := os.Create(c.Plot.OutputFile)
	if err != nil {
		return fmt.Errorf("envnoise: creating plot file: %v", err)
	}
	if _, err = fig.WriteTo(w, vg.Length(c.Plot.Width)*vg.Inch, vg.Length(c.Plot.Height)*vg.Inch, format); err != nil {
		w.Close()
		os.Remove(c.Plot.OutputFile)
		return err
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("envnoise: writing plot file: %v", err)
	}
	logrus.WithField("file", c.Plot.OutputFile).Info("wrote noise level chart")
	if c.Plot.Show {
		if err := open.Run(c.Plot.OutputFile); err != nil {
			return fmt.Errorf("envnoise: opening plot: %v", err)
		}
	}
	return nil
}
