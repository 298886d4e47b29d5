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

func TestEventOrdering(t *testing.T) {
	var q eventQueue
	q.push(makeSpread(2.0))
	q.push(makeNewFire(1.0, 7))
	q.push(makeSave(1.0))
	q.push(makeEnd(1.0))
	q.push(makeSpread(1.0))

	want := []EventType{EventEnd, EventSave, EventSpread, EventNewFire, EventSpread}
	wantTimes := []float64{1, 1, 1, 1, 2}
	for i := range want {
		e := q.pop()
		if e.Type != want[i] || e.Time != wantTimes[i] {
			t.Errorf("pop %d = (%v, %f), want (%v, %f)",
				i, e.Type, e.Time, want[i], wantTimes[i])
		}
	}
}

func TestEventTieBreakOnCell(t *testing.T) {
	var q eventQueue
	q.push(makeNewFire(1.0, 9))
	q.push(makeNewFire(1.0, 3))
	q.push(makeNewFire(1.0, 5))
	prev := CellHash(-1)
	for q.Len() > 0 {
		e := q.pop()
		if e.Cell < prev {
			t.Errorf("cell %d popped after %d", e.Cell, prev)
		}
		prev = e.Cell
	}
}

func TestEventTimesWeaklyIncreasing(t *testing.T) {
	var q eventQueue
	for _, tm := range []float64{3, 1, 2, 5, 4, 1.5} {
		q.push(makeSpread(tm))
	}
	prev := -1.0
	for q.Len() > 0 {
		e := q.pop()
		if e.Time < prev {
			t.Errorf("time %f popped after %f", e.Time, prev)
		}
		prev = e.Time
	}
}
