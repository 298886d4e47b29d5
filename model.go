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
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/weather"
	"golang.org/x/sync/semaphore"
)

// Model owns everything one simulation run shares: the landscape, the
// settings, the weather streams, the ignition, the reusable burned-data
// pool, and the task limiter bounding concurrent scenarios. All shared
// state is read-only during the run except the pool and the aggregators,
// which take their own locks.
type Model struct {
	Land      *Landscape
	Settings  *Settings
	OutputDir string

	StartPoint *StartPoint
	// StartTime is the calendar ignition time; simulation times are
	// decimal days of its year.
	StartTime time.Time

	// Streams pairs each hourly weather stream with the daily-derived
	// stream used for gating and survival.
	Streams []StreamPair

	// Perimeter or StartCell describes the ignition.
	Perimeter *Perimeter
	StartCell CellHash

	// ndRef is the day of year of minimum foliar moisture content.
	ndRef int

	pool    *burnedPool
	nonFuel BurnedData

	limiter *semaphore.Weighted

	outOfTime atomic.Bool
	overCount atomic.Bool
	startedAt time.Time

	// starts lists every combustible cell; only surface mode uses it.
	starts []CellHash
}

// StreamPair couples the hourly weather stream driving spread with the
// daily diurnal stream used for gating and survival.
type StreamPair struct {
	ID     int
	Hourly *weather.Stream
	Daily  *weather.Stream
}

// NewModel assembles a model from prepared pieces. Exactly one of
// perimeter and startCell (>= 0) must describe the ignition.
func NewModel(land *Landscape, settings *Settings, outputDir string,
	startPoint *StartPoint, startTime time.Time, streams []StreamPair,
	perimeter *Perimeter, startCell CellHash) (*Model, error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("firesim: no weather streams")
	}
	if perimeter == nil && startCell < 0 {
		return nil, fmt.Errorf("firesim: no ignition configured")
	}
	m := &Model{
		Land:       land,
		Settings:   settings,
		OutputDir:  outputDir,
		StartPoint: startPoint,
		StartTime:  startTime,
		Streams:    streams,
		Perimeter:  perimeter,
		StartCell:  startCell,
		pool:       newBurnedPool(land.NumCells()),
	}
	elevation := 0.0
	if startCell >= 0 {
		elevation = land.CellByHash(startCell).Elevation
	} else if len(perimeter.Burned) > 0 {
		elevation = land.CellByHash(perimeter.Burned[0]).Elevation
	}
	m.ndRef = fuel.CalculateNdRefForPoint(int(elevation), startPoint.Latitude, startPoint.Longitude)
	m.nonFuel = newBurnedData(land.NumCells())
	for i := 0; i < land.NumCells(); i++ {
		if land.CellByHash(CellHash(i)).Fuel == nil {
			m.nonFuel.Set(CellHash(i))
		}
	}
	if settings.Surface {
		for i := 0; i < land.NumCells(); i++ {
			if land.CellByHash(CellHash(i)).Fuel != nil {
				m.starts = append(m.starts, CellHash(i))
			}
		}
	}
	return m, nil
}

// Nd returns the days from minimum foliar moisture content for a day of
// year.
func (m *Model) Nd(day int) int {
	nd := day - m.ndRef
	if nd < 0 {
		return -nd
	}
	return nd
}

// acquireUnburnable fetches a zeroed burned-data buffer with the non-fuel
// cells pre-marked.
func (m *Model) acquireUnburnable() BurnedData {
	b := m.pool.acquire()
	copy(b, m.nonFuel)
	return b
}

func (m *Model) releaseUnburnable(b BurnedData) {
	m.pool.release(b)
}

// initTaskLimiter sizes the semaphore bounding concurrent scenarios: the
// hardware concurrency, raised so one full iteration always fits.
func (m *Model) initTaskLimiter(scenariosPerIteration int) {
	limit := runtime.NumCPU()
	if scenariosPerIteration > limit {
		log.Infof("raising task limit to run all %d scenarios of an iteration at once",
			scenariosPerIteration)
		limit = scenariosPerIteration
	}
	m.limiter = semaphore.NewWeighted(int64(limit))
}

func (m *Model) acquireTask() error {
	return m.limiter.Acquire(context.Background(), 1)
}

func (m *Model) releaseTask() {
	m.limiter.Release(1)
}

// IsOutOfTime reports whether the wall-clock limit has tripped.
func (m *Model) IsOutOfTime() bool {
	return m.outOfTime.Load()
}

// IsOverSimulationCountLimit reports whether the scenario count limit has
// tripped.
func (m *Model) IsOverSimulationCountLimit() bool {
	return m.overCount.Load()
}

func (m *Model) shouldStop() bool {
	return !m.Settings.Surface && (m.IsOutOfTime() || m.IsOverSimulationCountLimit())
}

// RunTime returns the elapsed wall-clock time of the run.
func (m *Model) RunTime() time.Duration {
	return time.Since(m.startedAt)
}

// readScenarios builds one iteration with one scenario per weather
// stream.
func (m *Model) readScenarios(start float64, startDay, lastDate int) (*Iteration, error) {
	scenarios := make([]*Scenario, 0, len(m.Streams))
	for _, sp := range m.Streams {
		s, err := NewScenario(m, sp.ID, sp.Hourly, sp.Daily, start,
			m.Perimeter, m.StartCell, m.StartPoint, startDay, lastDate)
		if err != nil {
			return nil, err
		}
		for _, offset := range m.Settings.OutputDateOffsets {
			if err := s.AddSaveByOffset(offset); err != nil {
				return nil, err
			}
		}
		if m.Settings.SaveIndividual || m.Settings.SavePoints {
			s.RegisterObserver(NewArrivalObserver(m.Land))
			s.RegisterObserver(NewSourceObserver(m.Land))
		}
		scenarios = append(scenarios, s)
	}
	return NewIteration(scenarios), nil
}

func insertSorted(values *[]float64, v float64) {
	i := sort.SearchFloat64s(*values, v)
	*values = append(*values, 0)
	copy((*values)[i+1:], (*values)[i:])
	(*values)[i] = v
}

// addStatistics folds one iteration's final sizes into the running
// statistics. It returns false when a resource limit says to stop.
func (m *Model) addStatistics(allSizes, means, pct *[]float64, sizes []float64) (bool, error) {
	if len(sizes) == 0 {
		return false, fmt.Errorf("firesim: no sizes at end of iteration")
	}
	s := NewStatistics(sizes)
	insertSorted(pct, s.Percentile(95))
	insertSorted(means, s.Mean())
	for _, size := range sizes {
		insertSorted(allSizes, size)
	}
	if m.Settings.Surface {
		return true, nil
	}
	if len(*allSizes) >= m.Settings.MaximumCountSimulations {
		m.overCount.Store(true)
		log.Infof("stopping after %d simulations: simulation limit of %d reached",
			len(*allSizes), m.Settings.MaximumCountSimulations)
		return false, nil
	}
	if m.IsOutOfTime() {
		log.Infof("stopping after %d iterations: time limit of %ds reached",
			len(*pct), m.Settings.MaximumTimeSeconds)
		return false, nil
	}
	return true, nil
}

// runsRequired decides how many more iterations the stopping rule wants:
// zero in deterministic mode or once a limit trips, otherwise the largest
// estimate among the three tracked statistics.
func (m *Model) runsRequired(iterationsDone int, allSizes, means, pct []float64) int {
	if m.Settings.Deterministic {
		log.Infof("stopping after iteration %d: deterministic mode", iterationsDone)
		return 0
	}
	if m.IsOverSimulationCountLimit() || m.IsOutOfTime() {
		return 0
	}
	forSizes := NewStatistics(allSizes)
	forMeans := NewStatistics(means)
	forPct := NewStatistics(pct)
	level := m.Settings.ConfidenceLevel
	if forSizes.IsConfident(level) && forMeans.IsConfident(level) && forPct.IsConfident(level) {
		return 0
	}
	runsForMeans := forMeans.RunsRequired(level)
	runsForPct := forPct.RunsRequired(level)
	runsForSizes := forSizes.RunsRequired(level)
	log.Debugf("runs required: {means: %d, pct: %d, sizes: %d}",
		runsForMeans, runsForPct, runsForSizes)
	left := runsForMeans
	if runsForPct > left {
		left = runsForPct
	}
	if runsForSizes > left {
		left = runsForSizes
	}
	return left
}

// makeProbMaps creates one probability map per save point.
func (m *Model) makeProbMaps(saves []float64, started float64) map[float64]*ProbabilityMap {
	out := make(map[float64]*ProbabilityMap, len(saves))
	for _, t := range saves {
		out[t] = NewProbabilityMap(m.Land, t, started,
			m.Settings.IntensityMaxLow, m.Settings.IntensityMaxModerate,
			m.Settings.SaveIntensity)
	}
	return out
}

// SaveProbabilities writes every snapshot's outputs and logs the fuel
// seasonality for its day.
func (m *Model) SaveProbabilities(probabilities map[float64]*ProbabilityMap, interim bool) error {
	for _, p := range probabilities {
		p.SetPerimeter(m.Perimeter)
		if err := p.SaveAll(m.Settings, m.OutputDir, m.StartTime, interim); err != nil {
			return err
		}
		day := int(p.Time + 0.5)
		nd := m.Nd(day)
		greenup := "before"
		if fuel.IsGreen(nd) {
			greenup = "after"
		}
		log.Infof("fuels for day %d are %s green-up and grass has %d%% curing",
			day-int(p.StartTime), greenup, fuel.GrassCuring(nd))
	}
	return nil
}

// runIteration runs every scenario of it, in parallel when configured.
// onScenarioDone is called after each scenario completes.
func (m *Model) runIteration(it *Iteration, prob map[float64]*ProbabilityMap,
	onScenarioDone func()) error {
	if !m.Settings.RunAsync {
		for _, s := range it.Scenarios() {
			if err := s.Run(prob); err != nil {
				return err
			}
			onScenarioDone()
		}
		return nil
	}
	var wg sync.WaitGroup
	errs := make(chan error, it.Size())
	for _, s := range it.Scenarios() {
		wg.Add(1)
		go func(s *Scenario) {
			defer wg.Done()
			if err := s.Run(prob); err != nil {
				errs <- err
				return
			}
			onScenarioDone()
		}(s)
	}
	wg.Wait()
	close(errs)
	return <-errs
}

// RunIterations runs the Monte-Carlo loop: iterations of scenarios until
// the stopping rules trip, folding each iteration's snapshots into the
// shared probability maps. The returned maps are keyed by snapshot time.
func (m *Model) RunIterations(start float64, startDay int) (map[float64]*ProbabilityMap, error) {
	m.startedAt = time.Now()
	lastDate := startDay
	for _, o := range m.Settings.OutputDateOffsets {
		if startDay+o > lastDate {
			lastDate = startDay + o
		}
	}
	// independent seed roles so dropping one threshold kind leaves the
	// other stream untouched
	var rngSpread, rngExtinction *rand.Rand
	if !m.Settings.Deterministic {
		rngSpread = newThresholdRng(0, startDay, m.StartPoint.Latitude, m.StartPoint.Longitude)
		rngExtinction = newThresholdRng(1, startDay, m.StartPoint.Latitude, m.StartPoint.Longitude)
	}
	iteration, err := m.readScenarios(start, startDay, lastDate)
	if err != nil {
		return nil, err
	}
	scenariosPerIteration := iteration.Size()
	m.initTaskLimiter(scenariosPerIteration)
	saves := iteration.SavePoints()
	started := iteration.StartTime()
	probabilities := m.makeProbMaps(saves, started)
	iterProb := m.makeProbMaps(saves, started)

	var allSizes, means, pct []float64
	var iterationsDone atomic.Int64
	var firstIterScenariosDone atomic.Int64

	// Cooperative deadline: a monitor goroutine flips the out-of-time
	// flag once per second and cancels running scenarios; the first
	// iteration is spared until at least one iteration has completed, so
	// the run always produces a result. When the first iteration is
	// interrupted mid-flight with some scenarios done, its partial maps
	// are saved as interim output.
	stopMonitor := make(chan struct{})
	var monitorWg sync.WaitGroup
	monitorWg.Add(1)
	go func() {
		defer monitorWg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		interimSaved := false
		for {
			select {
			case <-stopMonitor:
				return
			case <-ticker.C:
				if m.RunTime() >= time.Duration(m.Settings.MaximumTimeSeconds)*time.Second {
					m.outOfTime.Store(true)
				}
				if !m.shouldStop() {
					continue
				}
				if iterationsDone.Load() > 0 {
					iteration.Cancel(m.IsOutOfTime())
					continue
				}
				log.Warn("out of time before any iteration completed; letting the first finish")
				done := firstIterScenariosDone.Load()
				if !interimSaved && done > 0 && int(done) < scenariosPerIteration {
					log.Infof("saving interim results for (%d of %d) scenarios",
						done, scenariosPerIteration)
					if err := m.SaveProbabilities(iterProb, true); err != nil {
						log.WithError(err).Error("interim save failed")
					}
					interimSaved = true
				}
			}
		}
	}()
	finalize := func() (map[float64]*ProbabilityMap, error) {
		close(stopMonitor)
		monitorWg.Wait()
		return probabilities, nil
	}

	curStart := 0
	resetIter := func(it *Iteration) bool {
		if m.Settings.Surface {
			if curStart >= len(m.starts) {
				return false
			}
			it.ResetWithNewStart(m.starts[curStart])
			curStart++
			return true
		}
		it.Reset(rngExtinction, rngSpread)
		return true
	}

	runsLeft := 1
	for runsLeft > 0 {
		if !resetIter(iteration) {
			break
		}
		onDone := func() {
			if iterationsDone.Load() == 0 {
				firstIterScenariosDone.Add(1)
			}
		}
		if err := m.runIteration(iteration, iterProb, onDone); err != nil {
			close(stopMonitor)
			monitorWg.Wait()
			return nil, err
		}
		finalSizes := iteration.FinalSizes()
		iterationsDone.Add(1)
		for t, p := range iterProb {
			if err := probabilities[t].AddProbabilities(p); err != nil {
				close(stopMonitor)
				monitorWg.Wait()
				return nil, err
			}
			p.Reset()
		}
		ok, err := m.addStatistics(&allSizes, &means, &pct, finalSizes)
		if err != nil {
			close(stopMonitor)
			monitorWg.Wait()
			return nil, err
		}
		if !ok {
			return finalize()
		}
		if m.Settings.Surface {
			runsLeft = len(m.starts) - int(iterationsDone.Load())
		} else {
			runsLeft = m.runsRequired(int(iterationsDone.Load()), allSizes, means, pct)
			if runsLeft > 0 {
				log.Infof("need another %d iterations", runsLeft)
			}
		}
	}
	return finalize()
}
