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
	"math"
	"testing"
)

// runOneScenario runs a single deterministic scenario and returns it.
func runOneScenario(t *testing.T, m *Model) (*Scenario, map[float64]*ProbabilityMap) {
	t.Helper()
	startDay := m.StartTime.YearDay()
	start := float64(startDay) + 0.5
	it, err := m.readScenarios(start, startDay, startDay+3)
	if err != nil {
		t.Fatal(err)
	}
	m.initTaskLimiter(it.Size())
	m.startedAt = m.StartTime
	probs := m.makeProbMaps(it.SavePoints(), it.StartTime())
	it.Reset(nil, nil)
	for _, s := range it.Scenarios() {
		if err := s.Run(probs); err != nil {
			t.Fatal(err)
		}
	}
	return it.Scenarios()[0], probs
}

// A point ignition in uniform C-2 with a steady south wind should grow a
// roughly elliptical fire elongated along the wind axis.
func TestUniformSpread(t *testing.T) {
	land := uniformLandscape(100, 100, 2)
	settings := testSettings()
	m := testModel(land, settings, land.Hash(50, 50), nil, 150)
	s, _ := runOneScenario(t, m)

	if !s.Ran() {
		t.Fatal("scenario did not complete")
	}
	n := s.intensity.BurnedCount()
	if n < 10 {
		t.Fatalf("only %d cells burned", n)
	}
	if !s.intensity.HasBurned(land.Hash(50, 50)) {
		t.Error("ignition cell did not burn")
	}
	// wind from 180° pushes the head north (up in row terms); the burned
	// extent along the wind axis should exceed the crosswind extent
	minRow, maxRow := 100, 0
	minCol, maxCol := 100, 0
	s.intensity.Each(func(h CellHash, _ float64) {
		r, c := land.RowCol(h)
		if r < minRow {
			minRow = r
		}
		if r > maxRow {
			maxRow = r
		}
		if c < minCol {
			minCol = c
		}
		if c > maxCol {
			maxCol = c
		}
	})
	along := maxRow - minRow
	across := maxCol - minCol
	if along <= across {
		t.Errorf("burn not elongated along wind axis: rows %d vs cols %d", along, across)
	}
	// the head runs north (towards row 0), so the fire reaches farther
	// north of the ignition than south of it
	if 50-minRow <= maxRow-50 {
		t.Errorf("head did not run north: rows %d-%d around ignition row 50", minRow, maxRow)
	}
	// every burned cell has a positive intensity and an arrival time
	s.intensity.Each(func(h CellHash, v float64) {
		if v <= 0 {
			t.Errorf("burned cell %d has non-positive intensity", h)
		}
		if _, ok := s.intensity.Arrival(h); !ok {
			t.Errorf("burned cell %d has no arrival time", h)
		}
	})
}

// Rows of non-fuel must stop the fire completely.
func TestNonFuelBarrier(t *testing.T) {
	fuelLayer, slopeLayer, aspectLayer, elevLayer := testLayers(100, 100, 2)
	for c := 0; c < 100; c++ {
		fuelLayer.Data.Set(0, 60, c)
		fuelLayer.Data.Set(0, 61, c)
	}
	withBarrier, err := NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, testLookup())
	if err != nil {
		t.Fatal(err)
	}
	settings := testSettings()
	m := testModel(withBarrier, settings, withBarrier.Hash(50, 50), nil, 150)
	s, _ := runOneScenario(t, m)
	s.intensity.Each(func(h CellHash, _ float64) {
		r, _ := withBarrier.RowCol(h)
		if r >= 62 {
			t.Errorf("cell in row %d burned past the barrier", r)
		}
	})
}

// Two identical deterministic runs must agree cell for cell.
func TestDeterministicReproducibility(t *testing.T) {
	run := func() map[CellHash]float64 {
		land := uniformLandscape(60, 60, 2)
		settings := testSettings()
		m := testModel(land, settings, land.Hash(30, 30), nil, 150)
		s, _ := runOneScenario(t, m)
		out := make(map[CellHash]float64)
		s.intensity.Each(func(h CellHash, v float64) { out[h] = v })
		return out
	}
	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("burn counts differ: %d vs %d", len(a), len(b))
	}
	for h, v := range a {
		if bv, ok := b[h]; !ok || bv != v {
			t.Fatalf("cell %d differs: %f vs %f", h, v, b[h])
		}
	}
}

// A perimeter ignition burns all its cells at the start time.
func TestPerimeterIgnition(t *testing.T) {
	land := uniformLandscape(100, 100, 2)
	var burned []CellHash
	inside := make(map[CellHash]bool)
	for r := 48; r <= 52; r++ {
		for c := 48; c <= 52; c++ {
			h := land.Hash(r, c)
			burned = append(burned, h)
			inside[h] = true
		}
	}
	var edge []CellHash
	for _, h := range burned {
		r, c := land.RowCol(h)
		if r == 48 || r == 52 || c == 48 || c == 52 {
			edge = append(edge, h)
		}
	}
	perim := &Perimeter{Burned: burned, Edge: edge}
	settings := testSettings()
	m := testModel(land, settings, -1, perim, 150)
	s, _ := runOneScenario(t, m)
	start := float64(150) + 0.5
	for _, h := range burned {
		if !s.intensity.HasBurned(h) {
			t.Errorf("perimeter cell %d not burned", h)
			continue
		}
		arrival, ok := s.intensity.Arrival(h)
		if !ok || arrival != start {
			t.Errorf("perimeter cell %d arrival = %f, want %f", h, arrival, start)
		}
	}
}

// Property 2: current time never decreases over an entire run. The event
// loop returns an error if it does, so a clean run is the assertion; this
// also checks the surrounded-cell bookkeeping doesn't deadlock the queue.
func TestMonotoneTime(t *testing.T) {
	land := uniformLandscape(40, 40, 2)
	settings := testSettings()
	m := testModel(land, settings, land.Hash(20, 20), nil, 150)
	s, _ := runOneScenario(t, m)
	if s.currentTime < s.startTime {
		t.Errorf("current time %f ended before start %f", s.currentTime, s.startTime)
	}
}

// Snapshots keep the class partition: total equals low + moderate + high
// for every cell.
func TestSnapshotClassPartition(t *testing.T) {
	land := uniformLandscape(60, 60, 2)
	settings := testSettings()
	m := testModel(land, settings, land.Hash(30, 30), nil, 150)
	_, probs := runOneScenario(t, m)
	for _, p := range probs {
		if p.NumSizes() != 1 {
			t.Errorf("snapshot at %f has %d sizes, want 1", p.Time, p.NumSizes())
		}
		for i := range p.total.Elements {
			sum := p.low.Elements[i] + p.moderate.Elements[i] + p.high.Elements[i]
			if math.Abs(p.total.Elements[i]-sum) > 1e-9 {
				t.Fatalf("cell %d: total %g != low+moderate+high %g",
					i, p.total.Elements[i], sum)
			}
		}
	}
}
