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
	"fmt"
	"path/filepath"
	"time"

	shp "github.com/jonas-p/go-shp"
	log "github.com/sirupsen/logrus"
)

// RunScenarios is the top-level entry point: run the Monte-Carlo loop,
// write the final outputs, and clean up any interim files. Bounded
// runtime conditions (out of time, over the simulation count) are not
// errors; the run saves what it has and reports success.
func (m *Model) RunScenarios() error {
	start := float64(m.StartTime.YearDay()) +
		float64(m.StartTime.Hour())/24 + float64(m.StartTime.Minute())/1440
	startDay := m.StartTime.YearDay()
	log.Infof("simulation start time is %s", m.StartTime.Format("2006-01-02 15:04"))
	if !m.Settings.SaveAsAscii {
		log.Warn("only ESRI ASCII raster output is supported; writing .asc files")
	}
	probabilities, err := m.RunIterations(start, startDay)
	if err != nil {
		return err
	}
	for _, p := range probabilities {
		p.Show()
	}
	if err := m.SaveProbabilities(probabilities, false); err != nil {
		return err
	}
	// the final save supersedes any interim output
	DeleteInterim()
	if m.Settings.SaveSimulationArea {
		path := filepath.Join(m.OutputDir, "simulation_area.shp")
		if err := m.SaveSimulationArea(path); err != nil {
			return err
		}
	}
	log.Infof("run complete after %s", m.RunTime().Round(time.Millisecond))
	return nil
}

// SaveSimulationArea writes the ignition cells as a polygon shapefile.
func (m *Model) SaveSimulationArea(path string) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("firesim: creating %s: %v", path, err)
	}
	defer w.Close()
	cells := []CellHash{m.StartCell}
	if m.Perimeter != nil {
		cells = m.Perimeter.Burned
	}
	for _, h := range cells {
		if h < 0 {
			continue
		}
		row, col := m.Land.RowCol(h)
		x0 := m.Land.XLLCorner + float64(col)*m.Land.CellSize
		y0 := m.Land.YLLCorner + float64(m.Land.Rows-1-row)*m.Land.CellSize
		x1 := x0 + m.Land.CellSize
		y1 := y0 + m.Land.CellSize
		poly := shp.Polygon{
			Box:       shp.Box{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1},
			NumParts:  1,
			NumPoints: 5,
			Parts:     []int32{0},
			Points: []shp.Point{
				{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1},
				{X: x1, Y: y0}, {X: x0, Y: y0},
			},
		}
		w.Write(&poly)
	}
	return nil
}
