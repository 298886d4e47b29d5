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

import "testing"

func testIntensityMap(land *Landscape, cells map[CellHash]float64) *IntensityMap {
	m := newIntensityMap(land)
	for h, v := range cells {
		m.Burn(h, 1.0, v)
	}
	return m
}

func TestProbabilityClassPartition(t *testing.T) {
	land := uniformLandscape(10, 10, 2)
	p := NewProbabilityMap(land, 2, 1, 2000, 4000, true)
	im := testIntensityMap(land, map[CellHash]float64{
		0: 100, 1: 2000, 2: 2001, 3: 4000, 4: 4001, 5: 900000,
	})
	if err := p.AddProbability(im); err != nil {
		t.Fatal(err)
	}
	im2 := testIntensityMap(land, map[CellHash]float64{0: 5000, 9: 10})
	if err := p.AddProbability(im2); err != nil {
		t.Fatal(err)
	}
	for i := range p.total.Elements {
		sum := p.low.Elements[i] + p.moderate.Elements[i] + p.high.Elements[i]
		if p.total.Elements[i] != sum {
			t.Errorf("cell %d: total %g != %g", i, p.total.Elements[i], sum)
		}
	}
	if p.NumSizes() != 2 {
		t.Errorf("numSizes = %d, want 2", p.NumSizes())
	}
	// cell 0 burned low once and high once
	if p.total.Elements[0] != 2 {
		t.Errorf("cell 0 total = %g, want 2", p.total.Elements[0])
	}
	if p.low.Elements[0] != 1 || p.high.Elements[0] != 1 {
		t.Errorf("cell 0 classes = low %g high %g, want 1/1",
			p.low.Elements[0], p.high.Elements[0])
	}
}

func TestProbabilityMerge(t *testing.T) {
	land := uniformLandscape(10, 10, 2)
	p := NewProbabilityMap(land, 2, 1, 2000, 4000, true)
	q := p.CopyEmpty()
	im := testIntensityMap(land, map[CellHash]float64{0: 10, 1: 3000})
	if err := q.AddProbability(im); err != nil {
		t.Fatal(err)
	}
	if err := p.AddProbabilities(q); err != nil {
		t.Fatal(err)
	}
	if p.total.Elements[0] != 1 || p.total.Elements[1] != 1 {
		t.Errorf("merged totals = %g, %g; want 1, 1",
			p.total.Elements[0], p.total.Elements[1])
	}
	if p.NumSizes() != 1 {
		t.Errorf("numSizes = %d, want 1", p.NumSizes())
	}
	q.Reset()
	if q.NumSizes() != 0 {
		t.Errorf("reset map still has %d sizes", q.NumSizes())
	}
}

func TestProbabilitySizesSorted(t *testing.T) {
	land := uniformLandscape(5, 5, 2)
	p := NewProbabilityMap(land, 2, 1, 2000, 4000, false)
	for _, cells := range []map[CellHash]float64{
		{0: 10, 1: 10, 2: 10},
		{0: 10},
		{0: 10, 1: 10},
	} {
		if err := p.AddProbability(testIntensityMap(land, cells)); err != nil {
			t.Fatal(err)
		}
	}
	sizes := p.Sizes()
	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[i-1] {
			t.Fatalf("sizes not sorted: %v", sizes)
		}
	}
}

func TestIntensityMapWriteOnce(t *testing.T) {
	land := uniformLandscape(5, 5, 2)
	m := newIntensityMap(land)
	m.Burn(3, 1.5, 100)
	m.Burn(3, 2.5, 500)
	m.Burn(3, 3.5, 50)
	if got, _ := m.Arrival(3); got != 1.5 {
		t.Errorf("arrival = %f, want first write 1.5", got)
	}
	if got := m.Intensity(3); got != 500 {
		t.Errorf("intensity = %f, want max 500", got)
	}
}

func TestIsSurrounded(t *testing.T) {
	land := uniformLandscape(5, 5, 2)
	m := newIntensityMap(land)
	unburnable := newBurnedData(land.NumCells())
	center := land.Hash(2, 2)
	if m.IsSurrounded(unburnable, center) {
		t.Error("open cell reported surrounded")
	}
	for _, off := range neighborOffsets {
		unburnable.Set(land.Hash(2+off[0], 2+off[1]))
	}
	if !m.IsSurrounded(unburnable, center) {
		t.Error("cell with all neighbors unburnable not reported surrounded")
	}
}

func TestBurnedPoolReuse(t *testing.T) {
	pool := newBurnedPool(100)
	b := pool.acquire()
	b.Set(5)
	pool.release(b)
	b2 := pool.acquire()
	if b2.Get(5) {
		t.Error("pool returned a dirty buffer")
	}
}
