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

	"github.com/spatialfire/firesim/rasters"
	"github.com/spatialfire/firesim/weather"
)

// Observer is notified when cells burn and can save what it collected at
// each save point. Observers belong to one scenario and are reset with it;
// they never hold the scenario, which passes its id only inside the base
// name given to Save.
type Observer interface {
	HandleBurn(e *Event)
	Reset()
	Save(dir, baseName string) error
}

// ArrivalObserver records the time fire first arrived in each cell and
// saves it as a raster.
type ArrivalObserver struct {
	land    *Landscape
	arrival map[CellHash]float64
}

// NewArrivalObserver creates an arrival-time observer for the landscape.
func NewArrivalObserver(land *Landscape) *ArrivalObserver {
	return &ArrivalObserver{land: land, arrival: make(map[CellHash]float64)}
}

// HandleBurn records the event time for the cell on first burn.
func (o *ArrivalObserver) HandleBurn(e *Event) {
	if _, ok := o.arrival[e.Cell]; !ok {
		o.arrival[e.Cell] = e.Time
	}
}

// Reset clears the collected arrival times.
func (o *ArrivalObserver) Reset() {
	o.arrival = make(map[CellHash]float64)
}

// Save writes the arrival times as a raster layer.
func (o *ArrivalObserver) Save(dir, baseName string) error {
	l := rasters.NewLayer(o.land.GridBase)
	l.Nodata = -9999
	for i := range l.Data.Elements {
		l.Data.Elements[i] = l.Nodata
	}
	for h, t := range o.arrival {
		r, c := o.land.RowCol(h)
		l.Data.Set(t, r, c)
	}
	return l.WriteASCIIFile(filepath.Join(dir, fmt.Sprintf("%s_arrival.asc", baseName)), 4)
}

// SourceObserver records the azimuth fire spread into each cell from.
type SourceObserver struct {
	land   *Landscape
	source map[CellHash]float64
}

// NewSourceObserver creates a spread-direction observer for the landscape.
func NewSourceObserver(land *Landscape) *SourceObserver {
	return &SourceObserver{land: land, source: make(map[CellHash]float64)}
}

// HandleBurn records the direction of the spread that burned the cell.
func (o *SourceObserver) HandleBurn(e *Event) {
	if _, ok := o.source[e.Cell]; !ok {
		o.source[e.Cell] = weather.ToDegrees(e.Raz)
	}
}

// Reset clears the collected directions.
func (o *SourceObserver) Reset() {
	o.source = make(map[CellHash]float64)
}

// Save writes the spread directions as a raster layer.
func (o *SourceObserver) Save(dir, baseName string) error {
	l := rasters.NewLayer(o.land.GridBase)
	l.Nodata = -9999
	for i := range l.Data.Elements {
		l.Data.Elements[i] = l.Nodata
	}
	for h, d := range o.source {
		r, c := o.land.RowCol(h)
		l.Data.Set(d, r, c)
	}
	return l.WriteASCIIFile(filepath.Join(dir, fmt.Sprintf("%s_source.asc", baseName)), 1)
}
