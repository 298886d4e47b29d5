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

import "container/heap"

// EventType orders simultaneous events: simulation end first, then saves,
// then spread, then new fires.
type EventType int

const (
	EventEnd EventType = iota
	EventSave
	EventSpread
	EventNewFire
)

// noCell marks events that are not tied to a location.
const noCell CellHash = -1

// Event is one scheduled occurrence in a scenario. Times are in decimal
// days.
type Event struct {
	Time float64
	Type EventType
	Cell CellHash
	// Intensity [kW/m], Ros [m/min], and Raz [radians] describe the
	// spread that caused the event, for burn bookkeeping and observers.
	Intensity float64
	Ros       float64
	Raz       float64
	// TimeAtLocation is how long the cell has been burning [decimal days].
	TimeAtLocation float64
}

// makeEnd schedules the end of the simulation.
func makeEnd(time float64) Event {
	return Event{Time: time, Type: EventEnd, Cell: noCell}
}

// makeSave schedules a snapshot of simulation state.
func makeSave(time float64) Event {
	return Event{Time: time, Type: EventSave, Cell: noCell}
}

// makeNewFire schedules an ignition in a cell.
func makeNewFire(time float64, cell CellHash) Event {
	return Event{Time: time, Type: EventNewFire, Cell: cell}
}

// makeSpread schedules a fire spread step.
func makeSpread(time float64) Event {
	return Event{Time: time, Type: EventSpread, Cell: noCell}
}

// eventLess is the total order on events: time ascending, then type, then
// cell hash. Ties are impossible beyond that because at most one event per
// (time, type, cell) is ever queued.
func eventLess(a, b *Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Cell < b.Cell
}

// eventQueue is a min-heap of events ordered by eventLess.
type eventQueue []Event

func (q eventQueue) Len() int            { return len(q) }
func (q eventQueue) Less(i, j int) bool  { return eventLess(&q[i], &q[j]) }
func (q eventQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(Event)) }
func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// push adds an event to the queue.
func (q *eventQueue) push(e Event) {
	heap.Push(q, e)
}

// pop removes and returns the earliest event.
func (q *eventQueue) pop() Event {
	return heap.Pop(q).(Event)
}
