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

package firesim

import (
	"strings"
	"time"

	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/rasters"
	"github.com/spatialfire/firesim/weather"
)

// testLookupCSV is a small fuel table used across the tests: raster value
// 2 is C-2, 0 is non-fuel.
const testLookupCSV = `grid_value,export_value,descriptive_name,fuel_type
0,0,Non-fuel,Non-fuel
1,1,Spruce-Lichen Woodland,C-1
2,2,Boreal Spruce,C-2
3,3,Mature Jack Pine,C-3
8,8,Leafless Aspen,D-1
`

func testLookup() *fuel.Lookup {
	l, err := fuel.ReadLookup(strings.NewReader(testLookupCSV), fuel.LookupOptions{
		DefaultPercentConifer: 50,
		DefaultPercentDeadFir: 50,
	})
	if err != nil {
		panic(err)
	}
	return l
}

// testLayers builds flat rows×cols layers of one fuel raster value with
// 100 m cells.
func testLayers(rows, cols int, fuelValue float64) (fuelLayer, slopeLayer, aspectLayer, elevLayer *rasters.Layer) {
	base := rasters.GridBase{
		Rows: rows, Cols: cols, CellSize: 100,
		XLLCorner: 0, YLLCorner: 0, Nodata: -9999,
	}
	fuelLayer = rasters.NewLayer(base)
	slopeLayer = rasters.NewLayer(base)
	aspectLayer = rasters.NewLayer(base)
	elevLayer = rasters.NewLayer(base)
	for i := range fuelLayer.Data.Elements {
		fuelLayer.Data.Elements[i] = fuelValue
	}
	return
}

// uniformLandscape builds a flat rows×cols landscape of one fuel raster
// value with 100 m cells.
func uniformLandscape(rows, cols int, fuelValue float64) *Landscape {
	fuelLayer, slopeLayer, aspectLayer, elevLayer := testLayers(rows, cols, fuelValue)
	land, err := NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, testLookup())
	if err != nil {
		panic(err)
	}
	return land
}

// constantWeather is the S1 weather: FFMC 90, DMC 35.5, DC 275, 20 km/h
// wind from the south.
func constantWeather() *weather.Fwi {
	return &weather.Fwi{
		Temp: 20, RH: 30, WS: 20, WD: 180,
		Ffmc: 90, Dmc: 35.5, Dc: 275,
		Isi: 9, Bui: 54, Fwi: 18,
	}
}

// constantStream builds a stream with the same record for every hour of
// days minDate through minDate+days.
func constantStream(w *weather.Fwi, minDate, days int, fuels []*fuel.FuelType,
	deterministic bool) *weather.Stream {
	maxDate := minDate + days
	byHour := make([]*weather.Fwi, (maxDate-minDate+2)*weather.DayHours)
	for i := range byHour {
		byHour[i] = w
	}
	fns := make(map[int]weather.SurvivalFunc)
	for _, f := range fuels {
		f := f
		fns[f.Code] = func(w *weather.Fwi) float64 { return f.SurvivalProbability(w) }
	}
	return weather.NewStream(byHour, minDate, maxDate, fns, deterministic)
}

// testModel builds a deterministic single-stream model igniting the given
// cell. The simulated period covers startDay plus the output offsets.
func testModel(land *Landscape, settings *Settings, startCell CellHash,
	perimeter *Perimeter, startDay int) *Model {
	stream := constantStream(constantWeather(), startDay, 5,
		land.Lookup().UsedFuels(), settings.Deterministic)
	startPoint := NewStartPoint(55.0, -120.0, settings.OffsetSunrise, settings.OffsetSunset)
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).
		AddDate(0, 0, startDay-1)
	m, err := NewModel(land, settings, ".", startPoint, startTime,
		[]StreamPair{{ID: 1, Hourly: stream, Daily: stream}},
		perimeter, startCell)
	if err != nil {
		panic(err)
	}
	return m
}

// testSettings is the deterministic baseline configuration used by the
// engine tests: one output day, no file outputs.
func testSettings() *Settings {
	s := DefaultSettings()
	s.Deterministic = true
	s.RunAsync = false
	s.OutputDateOffsets = []int{1}
	s.SaveProbability = false
	s.SaveIntensity = true
	s.MaximumTimeSeconds = 600
	return s
}
