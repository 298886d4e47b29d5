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

import "math"

// pointPrecision quantizes front sample coordinates so that samples that
// have converged to the same position collapse to one point.
const pointPrecision = 0.001

// InnerPos is a sub-cell position of one fire front sample, in grid
// coordinates: X is the fractional column, Y the fractional row.
type InnerPos struct {
	X, Y float64
}

func quantize(v float64) float64 {
	return math.Round(v/pointPrecision) * pointPrecision
}

// cellPoints is the set of front samples currently inside one cell.
type cellPoints map[InnerPos]struct{}

// CellPointsMap tracks which cells hold fire front samples. Points are
// added or advance; they are only dropped when their cell burns closed.
type CellPointsMap struct {
	land *Landscape
	m    map[CellHash]cellPoints
}

func newCellPointsMap(land *Landscape) *CellPointsMap {
	return &CellPointsMap{land: land, m: make(map[CellHash]cellPoints)}
}

// Insert adds the sample at grid coordinates (x, y) to the cell containing
// it. Samples outside the grid are rejected.
func (c *CellPointsMap) Insert(x, y float64) (CellHash, bool) {
	col := int(math.Floor(x))
	row := int(math.Floor(y))
	if !c.land.InBounds(row, col) {
		return -1, false
	}
	h := c.land.Hash(row, col)
	pts, ok := c.m[h]
	if !ok {
		pts = make(cellPoints)
		c.m[h] = pts
	}
	pts[InnerPos{X: quantize(x), Y: quantize(y)}] = struct{}{}
	return h, true
}

// Merge folds src into c, skipping cells marked in unburnable.
func (c *CellPointsMap) Merge(unburnable BurnedData, src *CellPointsMap) {
	for h, pts := range src.m {
		if unburnable.Get(h) {
			continue
		}
		dst, ok := c.m[h]
		if !ok {
			c.m[h] = pts
			continue
		}
		for p := range pts {
			dst[p] = struct{}{}
		}
	}
}

// RemoveIf drops every cell entry for which pred is true.
func (c *CellPointsMap) RemoveIf(pred func(CellHash) bool) {
	for h := range c.m {
		if pred(h) {
			delete(c.m, h)
		}
	}
}

// Delete removes the entry for h.
func (c *CellPointsMap) Delete(h CellHash) {
	delete(c.m, h)
}

// Len returns the number of cells currently holding samples.
func (c *CellPointsMap) Len() int {
	return len(c.m)
}
