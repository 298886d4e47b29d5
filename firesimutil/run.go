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

package firesimutil

import (
	"fmt"
	"os"
	"time"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	log "github.com/sirupsen/logrus"
	"github.com/spatialfire/firesim"
	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/rasters"
	"github.com/spatialfire/firesim/weather"
)

var startLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// Run assembles a model from the configuration and runs it. Malformed or
// missing inputs are fatal; bounded-runtime conditions are not.
func Run(cfg *viper.Viper) error {
	settings := &firesim.Settings{
		Deterministic:           cfg.GetBool("deterministic"),
		MinimumRos:              cfg.GetFloat64("minimum_ros"),
		MaximumSpreadDistance:   cfg.GetFloat64("maximum_spread_distance"),
		MinimumFfmc:             cfg.GetFloat64("minimum_ffmc"),
		MinimumFfmcAtNight:      cfg.GetFloat64("minimum_ffmc_at_night"),
		OffsetSunrise:           cfg.GetFloat64("offset_sunrise"),
		OffsetSunset:            cfg.GetFloat64("offset_sunset"),
		DefaultPercentConifer:   cfg.GetInt("default_percent_conifer"),
		DefaultPercentDeadFir:   cfg.GetInt("default_percent_dead_fir"),
		IntensityMaxLow:         cfg.GetFloat64("intensity_max_low"),
		IntensityMaxModerate:    cfg.GetFloat64("intensity_max_moderate"),
		ConfidenceLevel:         cfg.GetFloat64("confidence_level"),
		MaximumTimeSeconds:      cfg.GetInt("maximum_time_seconds"),
		MaximumCountSimulations: cfg.GetInt("maximum_count_simulations"),
		ThresholdScenarioWeight: cfg.GetFloat64("threshold_scenario_weight"),
		ThresholdDailyWeight:    cfg.GetFloat64("threshold_daily_weight"),
		ThresholdHourlyWeight:   cfg.GetFloat64("threshold_hourly_weight"),
		OutputDateOffsets:       intSlice(cfg, "output_date_offsets"),
		SaveIndividual:          cfg.GetBool("save_individual"),
		SaveAsAscii:             cfg.GetBool("save_as_ascii"),
		SavePoints:              cfg.GetBool("save_points"),
		SaveIntensity:           cfg.GetBool("save_intensity"),
		SaveProbability:         cfg.GetBool("save_probability"),
		SaveOccurrence:          cfg.GetBool("save_occurrence"),
		SaveSimulationArea:      cfg.GetBool("save_simulation_area"),
		Surface:                 cfg.GetBool("surface"),
		RunAsync:                cfg.GetBool("run_async"),
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	outputDir := os.ExpandEnv(cfg.GetString("output_dir"))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("firesimutil: creating output directory: %v", err)
	}

	lookup, err := fuel.ReadLookupFile(os.ExpandEnv(cfg.GetString("fuel_table")),
		fuel.LookupOptions{
			DefaultPercentConifer: settings.DefaultPercentConifer,
			DefaultPercentDeadFir: settings.DefaultPercentDeadFir,
		})
	if err != nil {
		return err
	}
	land, err := loadLandscape(cfg, lookup)
	if err != nil {
		return err
	}

	startTime, err := parseStart(cfg.GetString("start"))
	if err != nil {
		return err
	}
	startPoint := firesim.NewStartPoint(
		cfg.GetFloat64("latitude"), cfg.GetFloat64("longitude"),
		settings.OffsetSunrise, settings.OffsetSunset)

	perimeter, startCell, err := loadIgnition(cfg, land)
	if err != nil {
		return err
	}

	streams, err := loadStreams(cfg, lookup, settings.Deterministic)
	if err != nil {
		return err
	}

	model, err := firesim.NewModel(land, settings, outputDir, startPoint,
		startTime, streams, perimeter, startCell)
	if err != nil {
		return err
	}
	return model.RunScenarios()
}

func parseStart(s string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("firesimutil: bad start time %q", s)
}

func loadLandscape(cfg *viper.Viper, lookup *fuel.Lookup) (*firesim.Landscape, error) {
	read := func(key string) (*rasters.Layer, error) {
		path := os.ExpandEnv(cfg.GetString(key))
		if path == "" {
			return nil, fmt.Errorf("firesimutil: %s is not configured", key)
		}
		return rasters.ReadASCIIFile(path)
	}
	fuelLayer, err := read("fuel_raster")
	if err != nil {
		return nil, err
	}
	slopeLayer, err := read("slope_raster")
	if err != nil {
		return nil, err
	}
	aspectLayer, err := read("aspect_raster")
	if err != nil {
		return nil, err
	}
	elevLayer, err := read("elevation_raster")
	if err != nil {
		return nil, err
	}
	return firesim.NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, lookup)
}

func loadIgnition(cfg *viper.Viper, land *firesim.Landscape) (*firesim.Perimeter, firesim.CellHash, error) {
	if path := os.ExpandEnv(cfg.GetString("perimeter")); path != "" {
		p, err := firesim.ReadPerimeterFile(land, path)
		if err != nil {
			return nil, -1, err
		}
		return p, -1, nil
	}
	p := geom.Point{X: cfg.GetFloat64("ignition_x"), Y: cfg.GetFloat64("ignition_y")}
	return firesim.PerimeterFromPoint(land, p, cfg.GetFloat64("ignition_size"))
}

func loadStreams(cfg *viper.Viper, lookup *fuel.Lookup, deterministic bool) ([]firesim.StreamPair, error) {
	path := os.ExpandEnv(cfg.GetString("weather"))
	if path == "" {
		return nil, fmt.Errorf("firesimutil: weather is not configured")
	}
	data, err := weather.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	survivalFns := make(map[int]weather.SurvivalFunc)
	for _, f := range lookup.UsedFuels() {
		f := f
		survivalFns[f.Code] = func(w *weather.Fwi) float64 {
			return f.SurvivalProbability(w)
		}
	}
	streams := make([]firesim.StreamPair, 0, len(data))
	for _, sd := range data {
		hourly := weather.NewStream(sd.BuildHourly(), sd.MinDate, sd.MaxDate,
			survivalFns, deterministic)
		daily := weather.NewDailyStream(sd.Daily, survivalFns, deterministic)
		streams = append(streams, firesim.StreamPair{ID: sd.ID, Hourly: hourly, Daily: daily})
		log.Debugf("weather stream %d covers days %d-%d with weighted DSR %g",
			sd.ID, sd.MinDate, sd.MaxDate, hourly.WeightedDsr())
	}
	return streams, nil
}
