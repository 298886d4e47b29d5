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

// Package firesim implements a probabilistic wildland fire growth model:
// a priority-queue-driven scenario engine that propagates a fire front
// across a cellular landscape with elliptical spread geometry, a
// Monte-Carlo iteration controller that replicates scenarios until the
// output statistics are confident, and a concurrent probability aggregator
// that renders per-cell burn probability and intensity class rasters.
package firesim

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/rasters"
)

// CellHash is the packed identifier of a cell: row*Cols + col.
type CellHash int

// maxSlopePct caps the slope stored on cells; beyond this the spread
// factor saturates anyway.
const maxSlopePct = 100

// Cell is one landscape cell. Cells are immutable once the landscape is
// built.
type Cell struct {
	Fuel     *fuel.FuelType
	FuelCode int
	// SlopePct is the slope [%], capped at maxSlopePct.
	SlopePct int
	// AspectDeg is the downslope azimuth [degrees]; 0 when flat.
	AspectDeg int
	Elevation float64
}

// SpreadKey identifies the inputs to the spread calculation that vary
// across the landscape; cells sharing a key share a SpreadInfo for any
// one hour of weather.
type SpreadKey struct {
	FuelCode int
	Slope    int
	Aspect   int
}

// Key returns the spread memoization key for the cell.
func (c *Cell) Key() SpreadKey {
	return SpreadKey{FuelCode: c.FuelCode, Slope: c.SlopePct, Aspect: c.AspectDeg}
}

// Landscape is the rectangular raster of cells the simulation runs on,
// read-only after construction and shared by all scenarios.
type Landscape struct {
	rasters.GridBase
	cells []Cell
	// fuelCount is the number of combustible cells.
	fuelCount int
	lookup    *fuel.Lookup
}

// NewLandscape builds a landscape from fuel, slope, aspect, and elevation
// layers and the fuel lookup table. All layers must share one extent and
// the grid must contain at least one combustible cell.
func NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer *rasters.Layer,
	lookup *fuel.Lookup) (*Landscape, error) {
	for _, l := range []*rasters.Layer{slopeLayer, aspectLayer, elevLayer} {
		if !fuelLayer.SameExtent(l.GridBase) {
			return nil, fmt.Errorf("firesim: raster extents do not match: %+v vs %+v",
				fuelLayer.GridBase, l.GridBase)
		}
	}
	land := &Landscape{
		GridBase: fuelLayer.GridBase,
		cells:    make([]Cell, fuelLayer.Rows*fuelLayer.Cols),
		lookup:   lookup,
	}
	for r := 0; r < land.Rows; r++ {
		for c := 0; c < land.Cols; c++ {
			i := r*land.Cols + c
			fv := fuelLayer.Data.Get(r, c)
			var f *fuel.FuelType
			if fv != fuelLayer.Nodata {
				f = lookup.ByGridValue(int(fv))
			}
			slope := int(math.Round(slopeLayer.Data.Get(r, c)))
			if slope < 0 || slopeLayer.Data.Get(r, c) == slopeLayer.Nodata {
				slope = 0
			}
			if slope > maxSlopePct {
				slope = maxSlopePct
			}
			aspect := 0
			if slope > 0 {
				a := aspectLayer.Data.Get(r, c)
				if a != aspectLayer.Nodata {
					aspect = int(math.Round(math.Mod(a+360, 360)))
					if aspect == 360 {
						aspect = 0
					}
				}
			}
			land.cells[i] = Cell{
				Fuel:      f,
				FuelCode:  fuel.SafeCode(f),
				SlopePct:  slope,
				AspectDeg: aspect,
				Elevation: elevLayer.Data.Get(r, c),
			}
			if f != nil {
				land.fuelCount++
			}
		}
	}
	if land.fuelCount == 0 {
		return nil, fmt.Errorf("firesim: landscape contains no combustible cells")
	}
	return land, nil
}

// Hash packs (row, col) into a cell identifier.
func (l *Landscape) Hash(row, col int) CellHash {
	return CellHash(row*l.Cols + col)
}

// RowCol unpacks a cell identifier.
func (l *Landscape) RowCol(h CellHash) (row, col int) {
	return int(h) / l.Cols, int(h) % l.Cols
}

// CellByHash returns the cell for h.
func (l *Landscape) CellByHash(h CellHash) *Cell {
	return &l.cells[h]
}

// CellRC returns the cell at (row, col).
func (l *Landscape) CellRC(row, col int) *Cell {
	return &l.cells[row*l.Cols+col]
}

// InBounds reports whether (row, col) is inside the grid.
func (l *Landscape) InBounds(row, col int) bool {
	return row >= 0 && row < l.Rows && col >= 0 && col < l.Cols
}

// NumCells returns the total number of cells.
func (l *Landscape) NumCells() int {
	return len(l.cells)
}

// FuelCount returns the number of combustible cells.
func (l *Landscape) FuelCount() int {
	return l.fuelCount
}

// Lookup returns the fuel lookup the landscape was built with.
func (l *Landscape) Lookup() *fuel.Lookup {
	return l.lookup
}

// CellArea returns the area of one cell in hectares.
func (l *Landscape) CellArea() float64 {
	return l.CellSize * l.CellSize / 10000.0
}

// neighborOffsets is the 8-connected adjacency used for spread and the
// surrounded check.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// NearestCombustible finds the combustible cell closest to (row, col),
// searching outward in expanding rings. It returns an error if the grid
// has no combustible cell at all.
func (l *Landscape) NearestCombustible(row, col int) (CellHash, error) {
	if l.InBounds(row, col) && l.CellRC(row, col).Fuel != nil {
		return l.Hash(row, col), nil
	}
	maxRing := l.Rows
	if l.Cols > maxRing {
		maxRing = l.Cols
	}
	for ring := 1; ring < maxRing; ring++ {
		best := CellHash(-1)
		bestDist := math.Inf(1)
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if dr > -ring && dr < ring && dc > -ring && dc < ring {
					continue
				}
				r, c := row+dr, col+dc
				if !l.InBounds(r, c) || l.CellRC(r, c).Fuel == nil {
					continue
				}
				d := float64(dr*dr + dc*dc)
				if d < bestDist {
					bestDist = d
					best = l.Hash(r, c)
				}
			}
		}
		if best >= 0 {
			return best, nil
		}
	}
	return -1, fmt.Errorf("firesim: no combustible cell near (%d, %d)", row, col)
}

// FindCell returns the cell containing the map coordinate p.
func (l *Landscape) FindCell(p geom.Point) (CellHash, error) {
	row, col, ok := l.CellAt(p)
	if !ok {
		return -1, fmt.Errorf("firesim: point (%g, %g) is outside the grid", p.X, p.Y)
	}
	return l.Hash(row, col), nil
}
