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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/envnoise/noise"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// sourceSets are the commands that evaluate noise sources.
	sourceSets := []*pflag.FlagSet{levelCmd.Flags(), sweepCmd.Flags(), plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()}
	sweepSets := []*pflag.FlagSet{sweepCmd.Flags(), plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()}

	// Options are the configuration options available to EnvNoise.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print. Valid
              options are "debug", "info", "warn", and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to a file that log messages should be copied
              to in addition to standard error. It can include environment
              variables. If LogFile is left blank, no log file is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "distance",
			usage: `
              distance is the distance from the source to the receiver in m.`,
			shorthand:  "d",
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{levelCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Road.Volume",
			usage: `
              Road.Volume is the road traffic volume in vehicles per hour.`,
			defaultVal: 500.0,
			flagsets:   sourceSets,
		},
		{
			name: "Road.Speed",
			usage: `
              Road.Speed is the average vehicle speed in km/h.`,
			defaultVal: 100.0,
			flagsets:   sourceSets,
		},
		{
			name: "Road.Type",
			usage: `
              Road.Type is the road surface type. Valid options are
              "light", "medium", and "heavy".`,
			defaultVal: "heavy",
			flagsets:   sourceSets,
		},
		{
			name: "Rail.Volume",
			usage: `
              Rail.Volume is the number of trains per hour.`,
			defaultVal: 10.0,
			flagsets:   sourceSets,
		},
		{
			name: "Rail.Speed",
			usage: `
              Rail.Speed is the average train speed in km/h.`,
			defaultVal: 100.0,
			flagsets:   sourceSets,
		},
		{
			name: "Rail.TrackType",
			usage: `
              Rail.TrackType is the track type. Valid options are
              "light", "medium", and "heavy".`,
			defaultVal: "medium",
			flagsets:   sourceSets,
		},
		{
			name: "Aircraft.Volume",
			usage: `
              Aircraft.Volume is the number of flights per hour.`,
			defaultVal: 5.0,
			flagsets:   sourceSets,
		},
		{
			name: "Aircraft.Type",
			usage: `
              Aircraft.Type is the aircraft type. Valid options are
              "small_prop", "large_prop", and "jet".`,
			defaultVal: "jet",
			flagsets:   sourceSets,
		},
		{
			name: "Aircraft.FlightPath",
			usage: `
              Aircraft.FlightPath is the flight phase. Valid options are
              "landing", "takeoff", and "cruise".`,
			defaultVal: "landing",
			flagsets:   sourceSets,
		},
		{
			name: "Industrial.SourceLevel",
			usage: `
              Industrial.SourceLevel is the emission level of the industrial
              source in dB(A) at the 100 m reference distance.`,
			defaultVal: 80.0,
			flagsets:   sourceSets,
		},
		{
			name: "Industrial.SourceType",
			usage: `
              Industrial.SourceType is the type of industrial source. Valid
              options are "factory", "power_plant", and "construction".`,
			defaultVal: "factory",
			flagsets:   sourceSets,
		},
		{
			name: "Industrial.Terrain",
			usage: `
              Industrial.Terrain is the terrain around the industrial source.
              Valid options are "urban", "suburban", and "rural".`,
			defaultVal: "urban",
			flagsets:   sourceSets,
		},
		{
			name: "Wind.Power",
			usage: `
              Wind.Power is the rated power of the wind turbine in kW.`,
			defaultVal: 2000.0,
			flagsets:   sourceSets,
		},
		{
			name: "Wind.Speed",
			usage: `
              Wind.Speed is the wind speed in m/s.`,
			defaultVal: 10.0,
			flagsets:   sourceSets,
		},
		{
			name: "Wind.Terrain",
			usage: `
              Wind.Terrain is the terrain around the wind turbine. Valid
              options are "flat", "hilly", and "mountainous".`,
			defaultVal: "hilly",
			flagsets:   sourceSets,
		},
		{
			name: "Sweep.MinDistance",
			usage: `
              Sweep.MinDistance is the closest receiver distance in m when
              calculating levels over a range of distances.`,
			defaultVal: 10.0,
			flagsets:   sweepSets,
		},
		{
			name: "Sweep.MaxDistance",
			usage: `
              Sweep.MaxDistance is the farthest receiver distance in m when
              calculating levels over a range of distances.`,
			defaultVal: 200.0,
			flagsets:   sweepSets,
		},
		{
			name: "Sweep.Points",
			usage: `
              Sweep.Points is the number of evenly spaced receiver distances
              between Sweep.MinDistance and Sweep.MaxDistance.`,
			defaultVal: 20,
			flagsets:   sweepSets,
		},
		{
			name: "Spectrum.Frequencies",
			usage: `
              Spectrum.Frequencies are the band frequencies in Hz of the
              unweighted sound levels in Spectrum.Levels.`,
			defaultVal: formatFloats([]float64{0.5, 1, 2, 4, 8, 16}),
			flagsets:   []*pflag.FlagSet{aweightCmd.Flags(), plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Spectrum.Levels",
			usage: `
              Spectrum.Levels are the unweighted sound levels in dB to be
              A-weighted. There must be one for each of Spectrum.Frequencies.`,
			defaultVal: formatFloats([]float64{60, 63, 65, 68, 70, 74}),
			flagsets:   []*pflag.FlagSet{aweightCmd.Flags(), plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Spectrum.Bands",
			usage: `
              Spectrum.Bands are the frequencies in Hz at which to estimate
              the pink noise level.`,
			defaultVal: formatFloats(noise.OctaveBands),
			flagsets:   []*pflag.FlagSet{pinkCmd.Flags(), plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Plot.OutputFile",
			usage: `
              Plot.OutputFile is the path where the chart should be written.
              The format is chosen from the file extension: png, jpg, or tif.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "noise_levels.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Plot.Width",
			usage: `
              Plot.Width is the width of the chart in inches.`,
			defaultVal: 12.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Plot.Height",
			usage: `
              Plot.Height is the height of the chart in inches.`,
			defaultVal: 16.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), serveCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Plot.Show",
			usage: `
              If Plot.Show is true, open the chart in the default image viewer
              after it is written.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "HTTPAddress",
			usage: `
              HTTPAddress is the address the server should listen on.`,
			defaultVal: "localhost:7171",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags(), configCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ENVNOISE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(levelCmd)
	Root.AddCommand(sweepCmd)
	Root.AddCommand(spectrumCmd)
	spectrumCmd.AddCommand(aweightCmd)
	spectrumCmd.AddCommand(pinkCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(serveCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("envnoise: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "envnoise",
	Short: "Simplified environmental noise models.",
	Long: `EnvNoise estimates A-weighted environmental noise levels at a distance from
road traffic, railways, aircraft, industrial sites, and wind turbines using
simplified closed-form models, and provides A-weighting and pink noise
spectral utilities. Use the subcommands specified below to access the model
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ENVNOISE_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_' (for example
ENVNOISE_ROAD_VOLUME=800).
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogger(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of EnvNoise.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "EnvNoise v%s\n", noise.Version)
	},
	DisableAutoGenTag: true,
}

// levelCmd calculates the noise level from one source at one distance.
var levelCmd = &cobra.Command{
	Use:   "level source",
	Short: "Calculate the noise level at one distance.",
	Long: `level calculates the A-weighted noise level in dB(A) from the given source
at the receiver distance specified by --distance. Valid sources are
tnm, crtn, rail, aircraft, industrial, and wind.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: SourceNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		s, err := c.Source(args[0])
		if err != nil {
			return err
		}
		l, err := s.Level(c.Distance)
		if err != nil {
			return fmt.Errorf("envnoise: %v", err)
		}
		logrus.WithFields(logrus.Fields{
			"source":   args[0],
			"distance": c.Distance,
		}).Debug("calculated noise level")
		fmt.Fprintf(cmd.OutOrStdout(), "%s at %g m: %.2f dB(A)\n", s.Name(), c.Distance, l)
		return nil
	},
	DisableAutoGenTag: true,
}

// sweepCmd calculates noise levels from one source over a range of distances.
var sweepCmd = &cobra.Command{
	Use:   "sweep source",
	Short: "Calculate noise levels over a range of distances.",
	Long: `sweep calculates the A-weighted noise level in dB(A) from the given source
at Sweep.Points evenly spaced distances between Sweep.MinDistance and
Sweep.MaxDistance. Valid sources are tnm, crtn, rail, aircraft, industrial,
and wind.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: SourceNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		s, err := c.Source(args[0])
		if err != nil {
			return err
		}
		d, levels, err := c.Sweep.Run(s)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# %s\n", s.Name())
		fmt.Fprintf(w, "%12s %14s\n", "Distance (m)", "Level (dB(A))")
		for i, l := range levels {
			fmt.Fprintf(w, "%12.1f %14.2f\n", d[i], l)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var spectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Spectral utilities.",
	Long: `spectrum provides frequency-dependent utilities. Use the subcommands
specified below to choose one.`,
	DisableAutoGenTag: true,
}

// aweightCmd A-weights a spectrum of sound levels.
var aweightCmd = &cobra.Command{
	Use:   "aweight",
	Short: "A-weight a spectrum of sound levels.",
	Long: `aweight applies the simplified A-weighting curve 20.599·log10(f) − 16.1 to
the unweighted levels in Spectrum.Levels, measured at the frequencies in
Spectrum.Frequencies. The IEC 61672 correction is printed for comparison.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		weighted, err := noise.WeightedSoundLevels(c.Spectrum.Frequencies, c.Spectrum.Levels)
		if err != nil {
			return fmt.Errorf("envnoise: %v", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%14s %12s %15s %12s\n", "Frequency (Hz)", "Level (dB)", "Level (dB(A))", "IEC A (dB)")
		for i, f := range c.Spectrum.Frequencies {
			iec, err := noise.AWeightingIEC(f)
			if err != nil {
				return fmt.Errorf("envnoise: %v", err)
			}
			fmt.Fprintf(w, "%14g %12.2f %15.2f %12.2f\n", f, c.Spectrum.Levels[i], weighted[i], iec)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// pinkCmd estimates pink noise levels.
var pinkCmd = &cobra.Command{
	Use:   "pink",
	Short: "Estimate pink noise levels.",
	Long: `pink estimates the relative pink noise level −10·log10(f) in dB at each of
the frequencies in Spectrum.Bands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		levels, err := noise.PinkNoiseSpectrum(c.Spectrum.Bands)
		if err != nil {
			return fmt.Errorf("envnoise: %v", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%14s %12s\n", "Frequency (Hz)", "Level (dB)")
		for i, f := range c.Spectrum.Bands {
			fmt.Fprintf(w, "%14g %12.2f\n", f, levels[i])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// plotCmd writes a chart of all of the models.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Chart noise levels from every source.",
	Long: `plot calculates noise levels over the configured range of distances for
every source, along with the pink noise and A-weighted spectra, and writes
them as a multi-panel chart to Plot.OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		return SavePlot(c)
	},
	DisableAutoGenTag: true,
}

// serveCmd starts an HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve noise levels over HTTP.",
	Long: `serve starts an HTTP server at HTTPAddress that calculates noise levels,
sweeps, spectra, and charts on request. The configuration values are used
as defaults for parameters that are not specified in the request. Prometheus
metrics are available at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		s := NewServer(c, prometheus.NewRegistry())
		return s.ListenAndServe(ctx, c.HTTPAddress)
	},
	DisableAutoGenTag: true,
}

// configCmd prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config prints the configuration that results from combining the defaults,
the configuration file, environment variables, and command-line arguments,
in TOML format. The output can be used as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		var b bytes.Buffer
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return fmt.Errorf("envnoise: encoding configuration: %v", err)
		}
		_, err = b.WriteTo(cmd.OutOrStdout())
		return err
	},
	DisableAutoGenTag: true,
}
