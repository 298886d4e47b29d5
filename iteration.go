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

import "math/rand"

// Iteration is one Monte-Carlo realization: every scenario (one per
// weather stream) sharing a single pair of threshold seeds. Scenarios in
// an iteration run in parallel and report their final sizes into one
// shared vector.
type Iteration struct {
	scenarios  []*Scenario
	finalSizes *sizeVector
	cancelled  bool
}

// NewIteration groups scenarios into an iteration.
func NewIteration(scenarios []*Scenario) *Iteration {
	return &Iteration{scenarios: scenarios, finalSizes: &sizeVector{}}
}

// Scenarios returns the iteration's scenarios.
func (it *Iteration) Scenarios() []*Scenario {
	return it.scenarios
}

// Size returns the number of scenarios.
func (it *Iteration) Size() int {
	return len(it.scenarios)
}

// SavePoints returns the snapshot times shared by the scenarios.
func (it *Iteration) SavePoints() []float64 {
	return it.scenarios[0].SavePoints()
}

// StartTime returns the ignition time shared by the scenarios.
func (it *Iteration) StartTime() float64 {
	return it.scenarios[0].StartTime()
}

// FinalSizes returns the sizes recorded by the iteration's scenarios.
func (it *Iteration) FinalSizes() []float64 {
	return it.finalSizes.Values()
}

// Reset rolls a fresh threshold realization for every scenario. The RNGs
// are shared across scenarios so each reset consumes new draws, keeping
// successive iterations independent but reproducible.
func (it *Iteration) Reset(rngExtinction, rngSpread *rand.Rand) *Iteration {
	it.cancelled = false
	it.finalSizes = &sizeVector{}
	for _, s := range it.scenarios {
		s.Reset(rngExtinction, rngSpread, it.finalSizes)
	}
	return it
}

// ResetWithNewStart points every scenario at a new ignition cell; only
// surface mode uses this.
func (it *Iteration) ResetWithNewStart(startCell CellHash) *Iteration {
	it.cancelled = false
	it.finalSizes = &sizeVector{}
	for _, s := range it.scenarios {
		s.ResetWithNewStart(startCell, it.finalSizes)
	}
	return it
}

// Cancel stops every scenario in the iteration.
func (it *Iteration) Cancel(showWarning bool) {
	it.cancelled = true
	for _, s := range it.scenarios {
		s.Cancel(showWarning)
	}
}
