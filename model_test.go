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
	"testing"

	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/weather"
)

// A deterministic run stops after one iteration and records one size per
// scenario.
func TestDeterministicStopsAfterOneIteration(t *testing.T) {
	land := uniformLandscape(40, 40, 2)
	settings := testSettings()
	m := testModel(land, settings, land.Hash(20, 20), nil, 150)
	probs, err := m.RunIterations(150.5, 150)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range probs {
		if p.NumSizes() != 1 {
			t.Errorf("snapshot at %f has %d sizes, want 1", p.Time, p.NumSizes())
		}
	}
}

// Even with a tiny wall-clock budget the run must finish its first
// iteration and produce at least one size.
func TestOutOfTimeStillProducesResult(t *testing.T) {
	land := uniformLandscape(40, 40, 2)
	settings := testSettings()
	settings.MaximumTimeSeconds = 1
	m := testModel(land, settings, land.Hash(20, 20), nil, 150)
	probs, err := m.RunIterations(150.5, 150)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range probs {
		if p.NumSizes() < 1 {
			t.Errorf("snapshot at %f has no sizes", p.Time)
		}
	}
}

// The simulation count limit bounds a stochastic run.
func TestSimulationCountLimit(t *testing.T) {
	land := uniformLandscape(30, 30, 2)
	settings := testSettings()
	settings.Deterministic = false
	settings.ConfidenceLevel = 0.0001
	settings.MaximumCountSimulations = 12
	m := testModel(land, settings, land.Hash(15, 15), nil, 150)
	probs, err := m.RunIterations(150.5, 150)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, p := range probs {
		if n := p.NumSizes(); n > total {
			total = n
		}
	}
	// one scenario per iteration; the limit allows at most 12 recorded
	// sizes plus the iteration in flight when the limit tripped
	if total > settings.MaximumCountSimulations+1 {
		t.Errorf("recorded %d sizes, limit %d", total, settings.MaximumCountSimulations)
	}
	if total < 1 {
		t.Error("no sizes recorded")
	}
}

// With a loose confidence level the stochastic controller stops on its
// own well inside the simulation cap.
func TestConfidenceStop(t *testing.T) {
	land := uniformLandscape(30, 30, 2)
	settings := testSettings()
	settings.Deterministic = false
	settings.ConfidenceLevel = 0.20
	settings.MaximumCountSimulations = 50
	m := testModel(land, settings, land.Hash(15, 15), nil, 150)
	probs, err := m.RunIterations(150.5, 150)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, p := range probs {
		if n := p.NumSizes(); n > total {
			total = n
		}
	}
	if total < 1 || total > 51 {
		t.Errorf("controller recorded %d sizes", total)
	}
}

// Surface mode runs every combustible cell exactly once.
func TestSurfaceMode(t *testing.T) {
	fuelLayer, slopeLayer, aspectLayer, elevLayer := testLayers(4, 4, 2)
	fuelLayer.Data.Set(0, 0, 0)
	land, err := NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, testLookup())
	if err != nil {
		t.Fatal(err)
	}
	settings := testSettings()
	settings.Surface = true
	m := testModel(land, settings, land.Hash(2, 2), nil, 150)
	if len(m.starts) != 15 {
		t.Fatalf("surface starts = %d, want 15", len(m.starts))
	}
	probs, err := m.RunIterations(150.5, 150)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range probs {
		if p.NumSizes() != 15 {
			t.Errorf("snapshot has %d sizes, want one per combustible cell", p.NumSizes())
		}
	}
}

// The nd calculation is symmetric around the reference day.
func TestNd(t *testing.T) {
	land := uniformLandscape(5, 5, 2)
	settings := testSettings()
	m := testModel(land, settings, land.Hash(2, 2), nil, 150)
	ref := fuel.CalculateNdRefForPoint(0, 55.0, -120.0)
	if got := m.Nd(ref); got != 0 {
		t.Errorf("nd at reference day = %d, want 0", got)
	}
	if m.Nd(ref-10) != m.Nd(ref+10) {
		t.Errorf("nd not symmetric: %d vs %d", m.Nd(ref-10), m.Nd(ref+10))
	}
}

// The weather stream index law from the weather package holds for the
// times scenarios use.
func TestStreamIndexLaw(t *testing.T) {
	for _, tc := range []struct{ day, hour, minDate int }{
		{150, 0, 150}, {150, 12, 150}, {155, 23, 150},
	} {
		got := weather.TimeIndex(weather.ToTime(tc.day, tc.hour), tc.minDate)
		want := tc.day*24 + tc.hour - tc.minDate*24
		if got != want {
			t.Errorf("timeIndex(%d, %d) = %d, want %d", tc.day, tc.hour, got, want)
		}
	}
}
