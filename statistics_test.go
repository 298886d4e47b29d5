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
	"math/rand"
	"testing"
)

func TestStatisticsBasics(t *testing.T) {
	s := NewStatistics([]float64{3, 1, 2, 5, 4})
	if s.N() != 5 {
		t.Errorf("n = %d, want 5", s.N())
	}
	if s.Min() != 1 || s.Max() != 5 {
		t.Errorf("min/max = %f/%f, want 1/5", s.Min(), s.Max())
	}
	if s.Mean() != 3 {
		t.Errorf("mean = %f, want 3", s.Mean())
	}
	if s.Median() != 3 {
		t.Errorf("median = %f, want 3", s.Median())
	}
}

func TestStatisticsEmpty(t *testing.T) {
	if s := NewStatistics(nil); s != nil {
		t.Error("expected nil statistics for no values")
	}
}

func TestSingleValueNotConfident(t *testing.T) {
	s := NewStatistics([]float64{42})
	if s.IsConfident(0.05) {
		t.Error("one value should never be confident")
	}
}

// Tight samples are confident; loose ones are not.
func TestConfidence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tight := make([]float64, 200)
	for i := range tight {
		tight[i] = 100 + rng.Float64()
	}
	if !NewStatistics(tight).IsConfident(0.05) {
		t.Error("narrow distribution should be confident at 0.05")
	}
	loose := make([]float64, 5)
	for i := range loose {
		loose[i] = 1000 * rng.Float64()
	}
	if NewStatistics(loose).IsConfident(0.01) {
		t.Error("wide distribution should not be confident at 0.01")
	}
}

// Property 6: loosening the relative error never makes a confident set
// unconfident, and never asks for more runs.
func TestConfidenceMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 20)
	for i := range values {
		values[i] = 50 + 40*rng.Float64()
	}
	s := NewStatistics(values)
	prevRuns := int(^uint(0) >> 1)
	confidentOnce := false
	for _, level := range []float64{0.01, 0.05, 0.1, 0.2, 0.5} {
		if confidentOnce && !s.IsConfident(level) {
			t.Errorf("confident at a tighter level but not at %f", level)
		}
		if s.IsConfident(level) {
			confidentOnce = true
		}
		runs := s.RunsRequired(level)
		if runs > prevRuns {
			t.Errorf("runs required grew from %d to %d as level loosened to %f",
				prevRuns, runs, level)
		}
		prevRuns = runs
	}
}

func TestRunsRequiredZeroWhenConfident(t *testing.T) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = 100
	}
	s := NewStatistics(values)
	if !s.IsConfident(0.2) {
		t.Fatal("constant values must be confident")
	}
	if runs := s.RunsRequired(0.2); runs != 0 {
		t.Errorf("runs required = %d, want 0", runs)
	}
}

func TestSizeVector(t *testing.T) {
	var v sizeVector
	v.Add(2)
	v.Add(1)
	if v.Len() != 2 {
		t.Errorf("len = %d, want 2", v.Len())
	}
	got := v.Values()
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("values = %v", got)
	}
}
