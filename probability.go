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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/sparse"
	log "github.com/sirupsen/logrus"
	"github.com/spatialfire/firesim/rasters"
)

// interimPaths records interim output files so they can be removed once
// the final save completes.
var (
	interimPaths   = map[string]struct{}{}
	interimPathsMu sync.Mutex
)

func recordIfInterim(path string) {
	if !strings.Contains(filepath.Base(path), "interim_") {
		return
	}
	interimPathsMu.Lock()
	interimPaths[path] = struct{}{}
	interimPathsMu.Unlock()
}

// DeleteInterim removes every interim output file recorded so far.
func DeleteInterim() {
	interimPathsMu.Lock()
	defer interimPathsMu.Unlock()
	for path := range interimPaths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Error("removing interim file")
		}
	}
	interimPaths = map[string]struct{}{}
}

// ProbabilityMap accumulates per-cell burn counts for one snapshot time,
// partitioned by intensity class. When the map is created with
// saveIntensity, the invariant total = low + moderate + high holds for
// every cell; without it only total is counted and the class grids stay
// zero. All updates take the map's mutex; it is the
// only cross-scenario mutable aggregation point.
type ProbabilityMap struct {
	mu sync.Mutex

	land *Landscape
	// Time is the snapshot time [decimal days]; StartTime the scenario
	// ignition time.
	Time      float64
	StartTime float64

	// Intensity class bounds [kW/m]: low is (0, lowMax], moderate is
	// (lowMax, medMax], high is (medMax, maxValue].
	minValue, lowMax, medMax, maxValue float64

	total    *sparse.DenseArray
	low      *sparse.DenseArray
	moderate *sparse.DenseArray
	high     *sparse.DenseArray

	// sizes holds the final fire size of every scenario folded in, sorted.
	sizes []float64

	saveIntensity bool
	perimeter     *Perimeter
}

// NewProbabilityMap creates an empty aggregation grid for one snapshot
// time.
func NewProbabilityMap(land *Landscape, time, startTime float64,
	lowMax, medMax float64, saveIntensity bool) *ProbabilityMap {
	return &ProbabilityMap{
		land:          land,
		Time:          time,
		StartTime:     startTime,
		minValue:      0,
		lowMax:        lowMax,
		medMax:        medMax,
		maxValue:      float64(int(^uint(0) >> 1)),
		total:         sparse.ZerosDense(land.Rows, land.Cols),
		low:           sparse.ZerosDense(land.Rows, land.Cols),
		moderate:      sparse.ZerosDense(land.Rows, land.Cols),
		high:          sparse.ZerosDense(land.Rows, land.Cols),
		saveIntensity: saveIntensity,
	}
}

// CopyEmpty returns an empty map with the same configuration, used to give
// each iteration a private aggregation target.
func (p *ProbabilityMap) CopyEmpty() *ProbabilityMap {
	return NewProbabilityMap(p.land, p.Time, p.StartTime, p.lowMax, p.medMax, p.saveIntensity)
}

// SetPerimeter attaches the ignition perimeter so saved outputs can mark
// the initial burned area.
func (p *ProbabilityMap) SetPerimeter(perim *Perimeter) {
	p.perimeter = perim
}

// AddProbability folds one scenario's intensity snapshot into the counts.
func (p *ProbabilityMap) AddProbability(m *IntensityMap) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	m.Each(func(h CellHash, v float64) {
		if v <= 0 {
			return
		}
		r, c := p.land.RowCol(h)
		p.total.Set(p.total.Get(r, c)+1, r, c)
		if !p.saveIntensity {
			return
		}
		switch {
		case v >= p.minValue && v <= p.lowMax:
			p.low.Set(p.low.Get(r, c)+1, r, c)
		case v > p.lowMax && v <= p.medMax:
			p.moderate.Set(p.moderate.Get(r, c)+1, r, c)
		case v > p.medMax && v <= p.maxValue:
			p.high.Set(p.high.Get(r, c)+1, r, c)
		default:
			err = fmt.Errorf("firesim: intensity %f fits no class", v)
		}
	})
	if err != nil {
		return err
	}
	p.insertSize(m.FireSize())
	return nil
}

// AddProbabilities merges the counts of another map for the same snapshot
// time, clearing nothing; the caller resets rhs if it is to be reused.
func (p *ProbabilityMap) AddProbabilities(rhs *ProbabilityMap) error {
	if rhs.Time != p.Time || rhs.StartTime != p.StartTime ||
		rhs.lowMax != p.lowMax || rhs.medMax != p.medMax {
		return fmt.Errorf("firesim: merging incompatible probability maps")
	}
	rhs.mu.Lock()
	defer rhs.mu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total.AddDense(rhs.total)
	if p.saveIntensity {
		p.low.AddDense(rhs.low)
		p.moderate.AddDense(rhs.moderate)
		p.high.AddDense(rhs.high)
	}
	for _, s := range rhs.sizes {
		p.insertSize(s)
	}
	return nil
}

func (p *ProbabilityMap) insertSize(size float64) {
	i := sort.SearchFloat64s(p.sizes, size)
	p.sizes = append(p.sizes, 0)
	copy(p.sizes[i+1:], p.sizes[i:])
	p.sizes[i] = size
}

// Reset zeroes the counts and sizes.
func (p *ProbabilityMap) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total.Scale(0)
	p.low.Scale(0)
	p.moderate.Scale(0)
	p.high.Scale(0)
	p.sizes = nil
}

// NumSizes returns how many scenario sizes have been folded in.
func (p *ProbabilityMap) NumSizes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sizes)
}

// Sizes returns a copy of the recorded final fire sizes, sorted.
func (p *ProbabilityMap) Sizes() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.sizes))
	copy(out, p.sizes)
	return out
}

// Statistics summarizes the recorded sizes.
func (p *ProbabilityMap) Statistics() *Statistics {
	return NewStatistics(p.Sizes())
}

// Show logs the size distribution for the snapshot.
func (p *ProbabilityMap) Show() {
	s := p.Statistics()
	if s == nil {
		return
	}
	day := int(p.Time - float64(int(p.StartTime)))
	log.Infof("Fire size at end of day %d: %0.1f ha - %0.1f ha (mean %0.1f ha, median %0.1f ha)",
		day, s.Min(), s.Max(), s.Mean(), s.Median())
}

// makeBaseName builds the output file base name for a saved raster:
// name_day_date, with an interim_ prefix while the run is incomplete.
func makeBaseName(name string, startTime time.Time, time float64, interim bool) string {
	day := int(time + 0.5)
	date := startTime.AddDate(0, 0, day-startTime.YearDay())
	prefix := ""
	if interim {
		prefix = "interim_"
	}
	return fmt.Sprintf("%s%s_%03d_%s", prefix, name, day, date.Format("2006-01-02"))
}

// saveCounts writes one count grid divided by divisor.
func (p *ProbabilityMap) saveCounts(counts *sparse.DenseArray, dir, baseName string,
	divisor float64, digits int) error {
	l := rasters.NewLayer(p.land.GridBase)
	l.Nodata = -9999
	for i, v := range counts.Elements {
		l.Data.Elements[i] = v / divisor
	}
	path := filepath.Join(dir, baseName+".asc")
	recordIfInterim(path)
	return l.WriteASCIIFile(path, digits)
}

// SaveAll writes the snapshot's outputs: probability, occurrence,
// intensity class rasters, and the sizes CSV, as enabled by the settings.
func (p *ProbabilityMap) SaveAll(s *Settings, dir string,
	startTime time.Time, interim bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := float64(len(p.sizes))
	if n == 0 {
		return fmt.Errorf("firesim: no sizes recorded for snapshot at %f", p.Time)
	}
	name := func(prefix string) string {
		return makeBaseName(prefix, startTime, p.Time, interim)
	}
	if s.SaveProbability {
		total := p.total
		if p.perimeter != nil {
			// mark initial perimeter cells so outputs show processing status
			total = p.total.Copy()
			mult := 4.0
			if interim {
				mult = 3.0
			}
			for _, h := range p.perimeter.Burned {
				r, c := p.land.RowCol(h)
				total.Set(total.Get(r, c)*mult, r, c)
			}
		}
		if err := p.saveCounts(total, dir, name("probability"), n, 4); err != nil {
			return err
		}
	}
	if s.SaveOccurrence {
		if err := p.saveCounts(p.total, dir, name("occurrence"), 1, 0); err != nil {
			return err
		}
	}
	if p.saveIntensity {
		if err := p.saveCounts(p.low, dir, name("intensity_L"), n, 4); err != nil {
			return err
		}
		if err := p.saveCounts(p.moderate, dir, name("intensity_M"), n, 4); err != nil {
			return err
		}
		if err := p.saveCounts(p.high, dir, name("intensity_H"), n, 4); err != nil {
			return err
		}
	}
	return p.saveSizes(dir, name("sizes"))
}

func (p *ProbabilityMap) saveSizes(dir, baseName string) error {
	path := filepath.Join(dir, baseName+".csv")
	recordIfInterim(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("firesim: %v", err)
	}
	for _, s := range p.sizes {
		fmt.Fprintf(f, "%g\n", s)
	}
	return f.Close()
}
