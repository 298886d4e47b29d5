/*
Copyright © 2026 the FireSim authors.
This file is part of FireSim.

FireSim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FireSim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FireSim.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package firesimutil wires the fire growth model to its command-line
// interface and configuration.
package firesimutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	log "github.com/sirupsen/logrus"
	"github.com/spatialfire/firesim/fuel"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Root is the main command.
var Root = &cobra.Command{
	Use:   "firesim",
	Short: "A probabilistic wildland fire growth model.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile := Cfg.GetString("config"); cfgFile != "" {
			Cfg.SetConfigFile(cfgFile)
			if err := Cfg.ReadInConfig(); err != nil {
				return fmt.Errorf("firesimutil: reading config file: %v", err)
			}
		}
		level, err := log.ParseLevel(Cfg.GetString("loglevel"))
		if err != nil {
			return fmt.Errorf("firesimutil: %v", err)
		}
		log.SetLevel(level)
		return nil
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the fire growth simulation.",
	Long: `run reads the landscape rasters, fuel table, and weather input,
then runs Monte-Carlo fire growth scenarios until the output statistics
reach the configured confidence or a resource limit trips, writing
probability and intensity rasters for each configured output day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
}

var fuelsCmd = &cobra.Command{
	Use:   "fuels",
	Short: "List the registered fuel types.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range fuel.All() {
			fmt.Printf("%3d  %s\n", f.Code, f.Name)
		}
		return nil
	},
}

// options are the configuration options available to the model. Each is
// registered as a flag and bound into Cfg so it can come from the command
// line, a config file, or an environment variable.
var options = []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}{
	{
		name:       "config",
		usage:      `config file location.`,
		defaultVal: "",
	},
	{
		name:       "loglevel",
		usage:      `logging level: debug, info, warning, or error.`,
		defaultVal: "info",
	},
	{
		name:       "output_dir",
		shorthand:  "o",
		usage:      `directory to write outputs to.`,
		defaultVal: ".",
	},
	{
		name:       "fuel_raster",
		usage:      `fuel grid raster (ESRI ASCII).`,
		defaultVal: "",
	},
	{
		name:       "slope_raster",
		usage:      `slope grid raster [%] (ESRI ASCII).`,
		defaultVal: "",
	},
	{
		name:       "aspect_raster",
		usage:      `aspect grid raster [degrees] (ESRI ASCII).`,
		defaultVal: "",
	},
	{
		name:       "elevation_raster",
		usage:      `elevation grid raster [m] (ESRI ASCII).`,
		defaultVal: "",
	},
	{
		name:       "fuel_table",
		usage:      `fuel lookup table CSV (grid_value,export_value,descriptive_name,fuel_type).`,
		defaultVal: "",
	},
	{
		name:       "weather",
		usage:      `weather stream CSV (Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI).`,
		defaultVal: "",
	},
	{
		name:       "start",
		usage:      `ignition date and time, e.g. 2024-07-15 14:00.`,
		defaultVal: "",
	},
	{
		name:       "latitude",
		usage:      `ignition latitude [degrees].`,
		defaultVal: 0.0,
	},
	{
		name:       "longitude",
		usage:      `ignition longitude [degrees].`,
		defaultVal: 0.0,
	},
	{
		name:       "ignition_x",
		usage:      `ignition easting in the raster projection [m].`,
		defaultVal: 0.0,
	},
	{
		name:       "ignition_y",
		usage:      `ignition northing in the raster projection [m].`,
		defaultVal: 0.0,
	},
	{
		name:       "ignition_size",
		usage:      `ignition size [ha]; up to one cell's area ignites a single cell.`,
		defaultVal: 0.0,
	},
	{
		name:       "perimeter",
		usage:      `ignition perimeter polygon shapefile; overrides the point ignition.`,
		defaultVal: "",
	},
	{
		name:       "deterministic",
		usage:      `disable the random spread and extinction gates.`,
		defaultVal: false,
	},
	{
		name:       "minimum_ros",
		usage:      `rate of spread [m/min] below which a cell stops spreading.`,
		defaultVal: 0.05,
	},
	{
		name:       "maximum_spread_distance",
		usage:      `maximum cell widths a front sample may advance per step.`,
		defaultVal: 3.0,
	},
	{
		name:       "minimum_ffmc",
		usage:      `minimum daily FFMC for spread during daylight.`,
		defaultVal: 88.0,
	},
	{
		name:       "minimum_ffmc_at_night",
		usage:      `minimum daily FFMC for spread outside daylight.`,
		defaultVal: 85.0,
	},
	{
		name:       "offset_sunrise",
		usage:      `hours after sunrise before daytime spread rules apply.`,
		defaultVal: 0.0,
	},
	{
		name:       "offset_sunset",
		usage:      `hours before sunset when daytime spread rules stop.`,
		defaultVal: 0.0,
	},
	{
		name:       "default_percent_conifer",
		usage:      `percent conifer for M-1/M-2 fuels [multiple of 5].`,
		defaultVal: 50,
	},
	{
		name:       "default_percent_dead_fir",
		usage:      `percent dead fir for M-3/M-4 fuels [multiple of 5].`,
		defaultVal: 50,
	},
	{
		name:       "intensity_max_low",
		usage:      `upper bound of the low intensity class [kW/m].`,
		defaultVal: 2000.0,
	},
	{
		name:       "intensity_max_moderate",
		usage:      `upper bound of the moderate intensity class [kW/m].`,
		defaultVal: 4000.0,
	},
	{
		name:       "confidence_level",
		usage:      `relative error the size statistics must reach before stopping.`,
		defaultVal: 0.05,
	},
	{
		name:       "maximum_time_seconds",
		usage:      `wall-clock limit for the whole run.`,
		defaultVal: 3600,
	},
	{
		name:       "maximum_count_simulations",
		usage:      `limit on the total number of scenarios run.`,
		defaultVal: 100000,
	},
	{
		name:       "threshold_scenario_weight",
		usage:      `weight of the per-scenario draw in the random thresholds.`,
		defaultVal: 0.0,
	},
	{
		name:       "threshold_daily_weight",
		usage:      `weight of the per-day draw in the random thresholds.`,
		defaultVal: 0.25,
	},
	{
		name:       "threshold_hourly_weight",
		usage:      `weight of the per-hour draw in the random thresholds.`,
		defaultVal: 0.75,
	},
	{
		name:       "output_date_offsets",
		usage:      `day offsets from the ignition day to publish maps for.`,
		defaultVal: []int{1, 2, 3},
	},
	{
		name:       "save_individual",
		usage:      `save per-scenario observer rasters at each save point.`,
		defaultVal: false,
	},
	{
		name:       "save_as_ascii",
		usage:      `write rasters as ESRI ASCII grids.`,
		defaultVal: true,
	},
	{
		name:       "save_points",
		usage:      `log front sample points for debugging.`,
		defaultVal: false,
	},
	{
		name:       "save_intensity",
		usage:      `write low/moderate/high intensity class rasters.`,
		defaultVal: true,
	},
	{
		name:       "save_probability",
		usage:      `write the burn probability raster.`,
		defaultVal: true,
	},
	{
		name:       "save_occurrence",
		usage:      `write the raw burn count raster.`,
		defaultVal: false,
	},
	{
		name:       "save_simulation_area",
		usage:      `write the ignition area as a shapefile.`,
		defaultVal: false,
	},
	{
		name:       "surface",
		usage:      `run every combustible cell once as its own ignition.`,
		defaultVal: false,
	},
	{
		name:       "run_async",
		usage:      `run scenarios in parallel.`,
		defaultVal: true,
	},
}

func init() {
	Cfg = viper.New()
	Root.AddCommand(runCmd, fuelsCmd)
	for i, option := range options {
		if len(option.flagsets) == 0 {
			options[i].flagsets = []*pflag.FlagSet{Root.PersistentFlags()}
		}
		for _, fs := range options[i].flagsets {
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					fs.String(option.name, v, option.usage)
				} else {
					fs.StringP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				fs.Bool(option.name, v, option.usage)
			case int:
				fs.Int(option.name, v, option.usage)
			case float64:
				fs.Float64(option.name, v, option.usage)
			case []int:
				fs.IntSlice(option.name, v, option.usage)
			default:
				panic(fmt.Sprintf("invalid argument type: %T", option.defaultVal))
			}
			Cfg.BindPFlag(option.name, fs.Lookup(option.name))
		}
		Cfg.SetDefault(option.name, option.defaultVal)
	}
	Cfg.AutomaticEnv()
	Cfg.SetEnvPrefix("FIRESIM")
}

// Execute runs the root command, exiting nonzero on any fatal condition.
func Execute() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// intSlice reads an option that may arrive as a flag slice or a config
// list.
func intSlice(cfg *viper.Viper, key string) []int {
	return cast.ToIntSlice(cfg.Get(key))
}
