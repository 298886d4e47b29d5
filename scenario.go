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
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/weather"
)

// cellCenter offsets a cell index to the middle of the cell in grid
// coordinates.
const cellCenter = 0.5

// ScenarioState tracks a scenario through its lifecycle.
type ScenarioState int

const (
	StateCreated ScenarioState = iota
	StateReady
	StateRunning
	StateDone
	StateCancelled
)

// Global progress counters shared by all scenarios.
var (
	scenarioCount     atomic.Int64
	scenarioCompleted atomic.Int64
	simCounts         = map[int]int{}
	simCountsMu       sync.Mutex
)

// ScenarioCompleted returns how many scenarios have finished since the
// process started.
func ScenarioCompleted() int {
	return int(scenarioCompleted.Load())
}

// Scenario simulates one fire: an event loop over a priority queue that
// advances a cell-point front across the landscape, guided by one weather
// stream and one ignition. A scenario is owned by a single goroutine while
// running; everything it shares (weather, landscape, settings) is
// read-only.
type Scenario struct {
	model       *Model
	id          int
	stream      *weather.Stream
	streamDaily *weather.Stream
	startPoint  *StartPoint
	startTime   float64
	startDay    int
	lastDate    int

	// exactly one of perimeter and startCell (>= 0) is set
	perimeter *Perimeter
	startCell CellHash

	savePoints []float64
	lastSave   float64

	extinctionThresholds []float64
	spreadThresholds     []float64

	currentTime      float64
	points           *CellPointsMap
	unburnable       BurnedData
	queue            eventQueue
	intensity        *IntensityMap
	spreadInfo       map[SpreadKey]*SpreadInfo
	currentTimeIndex int
	maxRos           float64

	probabilities map[float64]*ProbabilityMap
	finalSizes    *sizeVector

	simulation int
	state      ScenarioState
	cancelled  atomic.Bool
	ran        bool
	oobSpread  int
	step       int
	observers  []Observer
}

// NewScenario creates a scenario for one (weather stream × ignition)
// pair. Save points are added afterwards with AddSaveByOffset.
func NewScenario(model *Model, id int, stream, streamDaily *weather.Stream,
	startTime float64, perimeter *Perimeter, startCell CellHash,
	startPoint *StartPoint, startDay, lastDate int) (*Scenario, error) {
	if _, err := stream.At(startTime); err != nil {
		return nil, fmt.Errorf("firesim: no weather for scenario start: %v", err)
	}
	s := &Scenario{
		model:       model,
		id:          id,
		stream:      stream,
		streamDaily: streamDaily,
		startPoint:  startPoint,
		startTime:   startTime,
		startDay:    startDay,
		lastDate:    lastDate,
		perimeter:   perimeter,
		startCell:   startCell,
		lastSave:    float64(stream.MinDate()),
		state:       StateCreated,
	}
	return s, nil
}

// ID returns the scenario id (the id of its weather stream).
func (s *Scenario) ID() int { return s.id }

// StartTime returns the ignition time [decimal days].
func (s *Scenario) StartTime() float64 { return s.startTime }

// SavePoints returns the snapshot times.
func (s *Scenario) SavePoints() []float64 { return s.savePoints }

// Ran reports whether the scenario has completed a run.
func (s *Scenario) Ran() bool { return s.ran }

// RegisterObserver adds an observer notified on every burn.
func (s *Scenario) RegisterObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// AddSaveByOffset adds a save point the given number of days after the
// start of the ignition day (1 is the next midnight).
func (s *Scenario) AddSaveByOffset(offset int) error {
	t := float64(int(s.startTime) + offset)
	if int(t) > s.stream.MaxDate()+1 {
		return fmt.Errorf("firesim: no weather for save time %f", t)
	}
	s.savePoints = append(s.savePoints, t)
	if t > s.lastSave {
		s.lastSave = t
	}
	return nil
}

func (s *Scenario) logEntry() *log.Entry {
	return log.WithFields(log.Fields{
		"scenario":   s.id,
		"simulation": s.simulation,
		"time":       s.currentTime,
	})
}

func (s *Scenario) clear() {
	s.queue = nil
	s.points = newCellPointsMap(s.model.Land)
	s.spreadInfo = make(map[SpreadKey]*SpreadInfo)
	s.extinctionThresholds = nil
	s.spreadThresholds = nil
	s.maxRos = 0
	s.model.releaseUnburnable(s.unburnable)
	s.unburnable = nil
	s.step = 0
	s.oobSpread = 0
}

// Reset prepares the scenario for another run, rolling fresh threshold
// vectors from the provided RNGs. Passing nil RNGs (deterministic mode)
// leaves every gate open.
func (s *Scenario) Reset(rngExtinction, rngSpread *rand.Rand, finalSizes *sizeVector) *Scenario {
	s.cancelled.Store(false)
	s.clear()
	s.finalSizes = finalSizes
	s.probabilities = nil
	s.ran = false
	settings := s.model.Settings
	if rngExtinction != nil {
		s.extinctionThresholds = makeThresholds(rngExtinction, settings,
			s.startDay, s.lastDate, identity)
	}
	if rngSpread != nil {
		s.spreadThresholds = makeThresholds(rngSpread, settings,
			s.startDay, s.lastDate, CalculateRosFromThreshold)
	}
	for _, o := range s.observers {
		o.Reset()
	}
	s.currentTime = s.startTime - 1
	s.intensity = newIntensityMap(s.model.Land)
	s.currentTimeIndex = -1
	scenarioCount.Add(1)
	simCountsMu.Lock()
	simCounts[s.id]++
	s.simulation = simCounts[s.id]
	simCountsMu.Unlock()
	s.state = StateReady
	return s
}

// ResetWithNewStart points the scenario at a different ignition cell and
// resets it; used by surface mode to sweep every combustible cell.
func (s *Scenario) ResetWithNewStart(startCell CellHash, finalSizes *sizeVector) *Scenario {
	s.startCell = startCell
	s.perimeter = nil
	return s.Reset(nil, nil, finalSizes)
}

// Cancel asks the scenario to stop; the event loop notices at the next
// dispatch and exits cleanly.
func (s *Scenario) Cancel(showWarning bool) {
	if !s.cancelled.Swap(true) && showWarning {
		s.logEntry().Warn("simulation cancelled")
	}
}

// CurrentFireSize returns the burned area so far [ha].
func (s *Scenario) CurrentFireSize() float64 {
	return s.intensity.FireSize()
}

// CanBurn reports whether the cell is combustible and unburned.
func (s *Scenario) CanBurn(h CellHash) bool {
	return s.intensity.CanBurn(h)
}

// extinctionThreshold returns the survival gate for the time.
func (s *Scenario) extinctionThreshold(time float64) float64 {
	if s.extinctionThresholds == nil {
		return 0
	}
	return thresholdAt(s.extinctionThresholds, time, s.startDay)
}

// spreadThresholdByRos returns the rate of spread the stochastic spread
// gate requires at the time.
func (s *Scenario) spreadThresholdByRos(time float64) float64 {
	if s.spreadThresholds == nil {
		return 0
	}
	return thresholdAt(s.spreadThresholds, time, s.startDay)
}

// findMinRos is the effective minimum spreading rate at the time: the
// stochastic gate can only raise the configured floor.
func (s *Scenario) findMinRos(time float64) float64 {
	settings := s.model.Settings
	if settings.Deterministic {
		return settings.MinimumRos
	}
	return math.Max(s.spreadThresholdByRos(time), settings.MinimumRos)
}

// minimumFfmcForSpread gates spread on the daily FFMC, with a separate
// bound outside daylight hours.
func (s *Scenario) minimumFfmcForSpread(time float64) float64 {
	if s.startPoint.IsDaytime(time) {
		return s.model.Settings.MinimumFfmc
	}
	return s.model.Settings.MinimumFfmcAtNight
}

// duffMoistureSurvives is the piecewise duff moisture table: a fire always
// survives when moisture is below the limit for how long it has been in
// the cell.
func duffMoistureSurvives(mc, timeAtLocation float64) bool {
	return mc < 100 ||
		(mc <= 109 && timeAtLocation < 5) ||
		(mc <= 119 && timeAtLocation < 4) ||
		(mc <= 131 && timeAtLocation < 3) ||
		(mc <= 145 && timeAtLocation < 2) ||
		(mc <= 218 && timeAtLocation < 1)
}

// survives decides whether fire in the cell lives through the next hour:
// the duff moisture limits grant survival outright, otherwise the
// pre-rolled extinction threshold is compared against the fuel's survival
// probability. Weather lookups out of range count as non-survival.
func (s *Scenario) survives(time float64, h CellHash, timeAtLocation float64) bool {
	if s.model.Settings.Deterministic {
		return true
	}
	wx, err := s.stream.At(time)
	if err != nil {
		return false
	}
	if duffMoistureSurvives(wx.McDmcPct(), timeAtLocation) {
		return true
	}
	p, err := s.stream.SurvivalProbability(time, s.model.Land.CellByHash(h).FuelCode)
	if err != nil {
		return false
	}
	return s.extinctionThreshold(time) < p
}

func (s *Scenario) notify(e *Event) {
	for _, o := range s.observers {
		o.HandleBurn(e)
	}
}

// burn marks the event's cell burned, recording arrival and intensity and
// notifying observers.
func (s *Scenario) burn(e *Event) {
	s.notify(e)
	s.intensity.Burn(e.Cell, e.Time, e.Intensity)
}

func (s *Scenario) addEvent(e Event) {
	s.queue.push(e)
}

// saveStats folds the intensity snapshot into the probability map for the
// save time; the last save also records the scenario's final size.
func (s *Scenario) saveStats(time float64) error {
	p, ok := s.probabilities[time]
	if !ok {
		return fmt.Errorf("firesim: no probability map for save time %f", time)
	}
	if err := p.AddProbability(s.intensity); err != nil {
		return err
	}
	if time == s.lastSave {
		s.finalSizes.Add(s.intensity.FireSize())
	}
	return nil
}

func (s *Scenario) saveObservers(time float64) {
	baseName := fmt.Sprintf("%03d_%06d_%03d", s.id, s.simulation, int(time))
	for _, o := range s.observers {
		if err := o.Save(s.model.OutputDir, baseName); err != nil {
			s.logEntry().WithError(err).Error("saving observer")
		}
	}
}

// Run executes the scenario's event loop, publishing snapshots into
// probabilities. Cancelled runs push their current size and return
// without error. Any panic inside the loop is logged and treated as an
// early end so one pathological cell cannot take down the whole
// Monte-Carlo run.
func (s *Scenario) Run(probabilities map[float64]*ProbabilityMap) (err error) {
	if s.ran {
		return fmt.Errorf("firesim: scenario %d has already run", s.id)
	}
	if err := s.model.acquireTask(); err != nil {
		return err
	}
	defer s.model.releaseTask()
	defer func() {
		if r := recover(); r != nil {
			s.logEntry().Errorf("scenario panic: %v", r)
			s.model.releaseUnburnable(s.unburnable)
			s.unburnable = nil
			s.state = StateCancelled
			err = nil
			s.finalSizes.Add(s.intensity.FireSize())
		}
	}()
	s.state = StateRunning
	s.unburnable = s.model.acquireUnburnable()
	s.probabilities = probabilities
	for _, t := range s.savePoints {
		s.addEvent(makeSave(t))
	}
	if s.perimeter == nil {
		s.addEvent(makeNewFire(s.startTime, s.startCell))
	} else {
		s.intensity.ApplyPerimeter(s.perimeter, s.startTime)
		for _, h := range s.perimeter.Edge {
			row, col := s.model.Land.RowCol(h)
			s.points.Insert(float64(col)+cellCenter, float64(row)+cellCenter)
		}
		s.addEvent(makeSpread(s.startTime))
	}
	// the end sorts before a save at the same instant, so it goes one
	// minute after the final save
	s.addEvent(makeEnd(s.lastSave + 1.0/dayMinutes))
	// all original front cells count as burned from the start
	for h := range s.points.m {
		if s.CanBurn(h) {
			e := Event{Time: s.startTime, Type: EventSpread, Cell: h}
			s.burn(&e)
		}
	}
	for !s.cancelled.Load() && len(s.queue) > 0 {
		e := s.queue.pop()
		if err := s.evaluate(&e); err != nil {
			s.model.releaseUnburnable(s.unburnable)
			s.unburnable = nil
			return err
		}
	}
	s.model.releaseUnburnable(s.unburnable)
	s.unburnable = nil
	if s.cancelled.Load() {
		s.state = StateCancelled
		// exit cleanly with whatever burned so far
		s.finalSizes.Add(s.intensity.FireSize())
		return nil
	}
	completed := scenarioCompleted.Add(1)
	if s.oobSpread > 0 {
		s.logEntry().Warnf("tried to spread out of bounds %d times", s.oobSpread)
	}
	s.logEntry().WithField("completed", completed).
		Infof("completed with final size %0.1f ha", s.CurrentFireSize())
	s.ran = true
	s.state = StateDone
	return nil
}

// evaluate dispatches one event. Time must never decrease across events;
// a violation is a bug in the queue ordering.
func (s *Scenario) evaluate(e *Event) error {
	if e.Time < s.currentTime {
		return fmt.Errorf("firesim: event time %f before current time %f", e.Time, s.currentTime)
	}
	switch e.Type {
	case EventSpread:
		s.step++
		return s.scheduleFireSpread(e)
	case EventSave:
		s.currentTime = e.Time
		if s.model.Settings.SaveIndividual || s.model.Settings.SavePoints {
			s.saveObservers(e.Time)
		}
		return s.saveStats(e.Time)
	case EventNewFire:
		s.currentTime = e.Time
		cell := s.model.Land.CellByHash(e.Cell)
		if cell.Fuel == nil {
			return fmt.Errorf("firesim: trying to start a fire in non-fuel")
		}
		row, col := s.model.Land.RowCol(e.Cell)
		x := float64(col) + cellCenter
		y := float64(row) + cellCenter
		s.points.Insert(x, y)
		s.logEntry().Debugf("starting fire at (%g, %g) in %s", x, y, fuel.SafeName(cell.Fuel))
		if !s.survives(e.Time, e.Cell, e.TimeAtLocation) {
			wx, _ := s.streamDaily.At(e.Time)
			if wx != nil {
				s.logEntry().Infof("did not survive ignition in %s with FFMC %0.1f DMC %0.1f",
					fuel.SafeName(cell.Fuel), wx.Ffmc, wx.Dmc)
			}
			// the fire still existed; record the origin
		}
		burnEvent := *e
		if burnEvent.Intensity < 1 {
			burnEvent.Intensity = 1
		}
		s.burn(&burnEvent)
		return s.scheduleFireSpread(e)
	case EventEnd:
		s.currentTime = e.Time
		s.logEntry().Debug("end of simulation")
		s.queue = nil
		s.state = StateDone
		return nil
	}
	return fmt.Errorf("firesim: invalid event type %d", e.Type)
}

// scheduleFireSpread advances the front one step: evaluate spread for
// every cell holding samples, move the samples along the ellipse offsets,
// burn newly reached cells, apply survival and surrounded checks, and
// queue the next step.
func (s *Scenario) scheduleFireSpread(e *Event) error {
	time := e.Time
	land := s.model.Land
	settings := s.model.Settings
	thisTime := timeIndex(time)
	wx, err := s.stream.At(time)
	if err != nil {
		return fmt.Errorf("firesim: no weather at time %f", time)
	}
	wxDaily, err := s.streamDaily.At(time)
	if err != nil {
		return fmt.Errorf("firesim: no daily weather at time %f", time)
	}
	s.currentTime = time
	nextTime := indexToTime(thisTime + 1)
	maxDuration := (nextTime - time) * dayMinutes
	maxTime := time + maxDuration/dayMinutes
	if wxDaily.Ffmc < s.minimumFfmcForSpread(time) {
		s.addEvent(makeSpread(maxTime))
		s.logEntry().Debugf("waiting until %f because of FFMC", maxTime)
		return nil
	}
	if s.currentTimeIndex != thisTime {
		s.currentTimeIndex = thisTime
		// weather changed, so cached spread no longer applies
		s.spreadInfo = make(map[SpreadKey]*SpreadInfo)
		s.maxRos = 0
	}
	rosMin := settings.MinimumRos
	minRos := s.findMinRos(time)
	nd := s.model.Nd(int(time))
	in := spreadInput{
		cellSize: land.CellSize,
		minRos:   minRos,
		nd:       nd,
		wx:       wx,
		wxDaily:  wxDaily,
	}
	// split the front: cells spreading this step leave s.points, the rest
	// stay behind untouched
	toSpread := make(map[SpreadKey][]InnerPos)
	for h, pts := range s.points.m {
		key := land.CellByHash(h).Key()
		origin, ok := s.spreadInfo[key]
		if !ok {
			origin = NewSpreadInfo(key, in)
			s.spreadInfo[key] = origin
		}
		if origin.IsNotSpreading() || origin.HeadRos < rosMin {
			continue
		}
		if origin.HeadRos > s.maxRos {
			s.maxRos = origin.HeadRos
		}
		for p := range pts {
			toSpread[key] = append(toSpread[key], p)
		}
		s.points.Delete(h)
	}
	if len(toSpread) == 0 {
		s.logEntry().Debugf("waiting until %f", maxTime)
		s.addEvent(makeSpread(maxTime))
		return nil
	}
	duration := maxDuration
	if s.maxRos > 0 {
		duration = math.Min(maxDuration, settings.MaximumSpreadDistance*land.CellSize/s.maxRos)
	}
	newTime := time + duration/dayMinutes
	cellPts := newCellPointsMap(land)
	for key, pts := range toSpread {
		offsets := s.spreadInfo[key].Offsets
		for _, p := range pts {
			for _, o := range offsets {
				// DY is a northing displacement; rows grow southward
				x := p.X + o.DX*duration
				y := p.Y - o.DY*duration
				if _, ok := cellPts.Insert(x, y); !ok {
					s.oobSpread++
				}
			}
		}
	}
	cellPts.RemoveIf(func(h CellHash) bool { return s.unburnable.Get(h) })
	// merge new points back into cells that didn't spread
	s.points.Merge(s.unburnable, cellPts)
	for h := range s.points.m {
		key := land.CellByHash(h).Key()
		maxIntensity := 0.0
		if si, ok := s.spreadInfo[key]; ok && !si.IsNotSpreading() {
			maxIntensity = si.MaxIntensity
		}
		if s.CanBurn(h) && maxIntensity > 0 {
			si := s.spreadInfo[key]
			burnEvent := Event{
				Time:      newTime,
				Type:      EventSpread,
				Cell:      h,
				Intensity: maxIntensity,
				Ros:       si.HeadRos,
				Raz:       si.Raz,
			}
			s.burn(&burnEvent)
		}
		arrival, _ := s.intensity.Arrival(h)
		if !s.unburnable.Get(h) &&
			s.survives(newTime, h, newTime-arrival) &&
			!s.intensity.IsSurrounded(s.unburnable, h) {
			continue
		}
		// went out or surrounded; drop the points and never revisit
		s.unburnable.Set(h)
		s.points.Delete(h)
	}
	s.logEntry().Debugf("spreading %d cells until %f", s.points.Len(), newTime)
	s.addEvent(makeSpread(newTime))
	return nil
}
