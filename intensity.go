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
	"sync"

	"github.com/spatialfire/firesim/rasters"
)

// BurnedData is a bitset over the whole grid: a set bit means the cell
// cannot receive new fire (already burned, burned out, or non-fuel). A
// buffer is owned by exactly one scenario at a time and reused through the
// pool.
type BurnedData []uint64

func newBurnedData(numCells int) BurnedData {
	return make(BurnedData, (numCells+63)/64)
}

// Set marks h.
func (b BurnedData) Set(h CellHash) {
	b[h>>6] |= 1 << (uint(h) & 63)
}

// Get reports whether h is marked.
func (b BurnedData) Get(h CellHash) bool {
	return b[h>>6]&(1<<(uint(h)&63)) != 0
}

// Zero clears every bit.
func (b BurnedData) Zero() {
	for i := range b {
		b[i] = 0
	}
}

// burnedPool reuses BurnedData buffers across scenario runs. Buffers are
// zeroed before they escape so scenarios always start clean.
type burnedPool struct {
	mu       sync.Mutex
	free     []BurnedData
	numCells int
}

func newBurnedPool(numCells int) *burnedPool {
	return &burnedPool{numCells: numCells}
}

func (p *burnedPool) acquire() BurnedData {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		b := p.free[n-1]
		p.free = p.free[:n-1]
		b.Zero()
		return b
	}
	return newBurnedData(p.numCells)
}

func (p *burnedPool) release(b BurnedData) {
	if b == nil {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, b)
	p.mu.Unlock()
}

// IntensityMap records, for one scenario, the maximum fire-line intensity
// at which each cell burned and the time fire arrived. A cell's arrival
// time is written exactly once; later visits only raise the intensity.
type IntensityMap struct {
	land      *Landscape
	intensity map[CellHash]float64
	arrival   map[CellHash]float64
}

func newIntensityMap(land *Landscape) *IntensityMap {
	return &IntensityMap{
		land:      land,
		intensity: make(map[CellHash]float64),
		arrival:   make(map[CellHash]float64),
	}
}

// Burn records the cell burning at the given time and intensity.
func (m *IntensityMap) Burn(h CellHash, time, intensity float64) {
	if intensity < 1 {
		// a burned cell always records at least intensity 1
		intensity = 1
	}
	if old, ok := m.intensity[h]; ok {
		if intensity > old {
			m.intensity[h] = intensity
		}
		return
	}
	m.intensity[h] = intensity
	m.arrival[h] = time
}

// HasBurned reports whether the cell has burned in this scenario.
func (m *IntensityMap) HasBurned(h CellHash) bool {
	_, ok := m.intensity[h]
	return ok
}

// CanBurn reports whether the cell is combustible and not yet burned.
func (m *IntensityMap) CanBurn(h CellHash) bool {
	if m.land.CellByHash(h).Fuel == nil {
		return false
	}
	return !m.HasBurned(h)
}

// Arrival returns the time fire arrived in the cell.
func (m *IntensityMap) Arrival(h CellHash) (float64, bool) {
	t, ok := m.arrival[h]
	return t, ok
}

// Intensity returns the recorded intensity for the cell.
func (m *IntensityMap) Intensity(h CellHash) float64 {
	return m.intensity[h]
}

// Each calls fn for every burned cell.
func (m *IntensityMap) Each(fn func(h CellHash, intensity float64)) {
	for h, v := range m.intensity {
		fn(h, v)
	}
}

// FireSize returns the burned area [ha].
func (m *IntensityMap) FireSize() float64 {
	return float64(len(m.intensity)) * m.land.CellArea()
}

// BurnedCount returns the number of burned cells.
func (m *IntensityMap) BurnedCount() int {
	return len(m.intensity)
}

// IsSurrounded reports whether every 8-connected neighbor of the cell has
// burned or cannot burn; such a cell needs no further spread events.
func (m *IntensityMap) IsSurrounded(unburnable BurnedData, h CellHash) bool {
	row, col := m.land.RowCol(h)
	for _, off := range neighborOffsets {
		r, c := row+off[0], col+off[1]
		if !m.land.InBounds(r, c) {
			continue
		}
		nh := m.land.Hash(r, c)
		if !unburnable.Get(nh) && !m.HasBurned(nh) {
			return false
		}
	}
	return true
}

// ApplyPerimeter marks every interior cell of the perimeter burned at the
// given time.
func (m *IntensityMap) ApplyPerimeter(p *Perimeter, time float64) {
	for _, h := range p.Burned {
		m.Burn(h, time, 1)
	}
}

// Save writes the intensity map as a raster layer.
func (m *IntensityMap) Save(dir, baseName string) error {
	l := rasters.NewLayer(m.land.GridBase)
	l.Nodata = 0
	for h, v := range m.intensity {
		r, c := m.land.RowCol(h)
		l.Data.Set(v, r, c)
	}
	return l.WriteASCIIFile(fmt.Sprintf("%s/%s.asc", dir, baseName), 0)
}
