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
	"sort"
	"sync"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxTDf caps the degrees of freedom used for the Student's T lookup; the
// quantile is essentially flat past this.
const maxTDf = 100

// Statistics summarizes a set of fire sizes: distribution percentiles and
// the Student's T relative-error test that drives the stopping rule. The
// stopping rule assumes the statistic's sampling distribution is roughly
// normal; heavy-tailed size distributions may need more runs than it
// estimates.
type Statistics struct {
	n           int
	mean        float64
	stdDev      float64
	sampleVar   float64
	percentiles [101]float64
}

// NewStatistics computes statistics for values. It returns nil for an
// empty set. values need not be sorted.
func NewStatistics(values []float64) *Statistics {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	var acc stats.Stats
	for _, v := range sorted {
		acc.Update(v)
	}
	s := &Statistics{
		n:    len(sorted),
		mean: acc.Mean(),
	}
	s.stdDev = acc.PopulationStandardDeviation()
	if s.n > 1 {
		s.sampleVar = acc.SampleVariance()
	}
	for i := 0; i <= 100; i++ {
		pos := int(float64(i) / 100.0 * float64(s.n))
		if pos > s.n-1 {
			pos = s.n - 1
		}
		s.percentiles[i] = sorted[pos]
	}
	return s
}

// N returns the number of values.
func (s *Statistics) N() int { return s.n }

// Min returns the smallest value.
func (s *Statistics) Min() float64 { return s.percentiles[0] }

// Max returns the largest value.
func (s *Statistics) Max() float64 { return s.percentiles[100] }

// Median returns the middle value.
func (s *Statistics) Median() float64 { return s.percentiles[50] }

// Mean returns the average value.
func (s *Statistics) Mean() float64 { return s.mean }

// StandardDeviation returns the population standard deviation.
func (s *Statistics) StandardDeviation() float64 { return s.stdDev }

// SampleVariance returns the sample variance.
func (s *Statistics) SampleVariance() float64 { return s.sampleVar }

// Percentile returns the i-th percentile value.
func (s *Statistics) Percentile(i int) float64 { return s.percentiles[i] }

// tValue is the one-sided 90% Student's T critical value for df degrees
// of freedom.
var (
	tValueCache   = map[int]float64{}
	tValueCacheMu sync.Mutex
)

func tValue(df int) float64 {
	if df < 1 {
		df = 1
	}
	if df > maxTDf {
		df = maxTDf
	}
	tValueCacheMu.Lock()
	defer tValueCacheMu.Unlock()
	if v, ok := tValueCache[df]; ok {
		return v
	}
	v := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}.Quantile(0.9)
	tValueCache[df] = v
	return v
}

// relativeErrorAt is the Student's T relative error the statistics would
// have with n runs (keeping the current mean and variance).
func (s *Statistics) relativeErrorAt(n int) float64 {
	if s.n < 2 || s.mean == 0 {
		// one value says nothing about variability
		return math.Inf(1)
	}
	return tValue(n) * math.Sqrt(s.sampleVar/float64(n)) / math.Abs(s.mean)
}

// StudentsT returns the relative half-width of the confidence interval.
func (s *Statistics) StudentsT() float64 {
	return s.relativeErrorAt(s.n)
}

// IsConfident reports whether the values are within the requested
// relative error at the configured confidence.
func (s *Statistics) IsConfident(relativeError float64) bool {
	re := relativeError / (1 + relativeError)
	return s.StudentsT() <= re
}

// RunsRequired estimates how many more runs are needed to reach the
// requested relative error, assuming the variance stays put.
func (s *Statistics) RunsRequired(relativeError float64) int {
	re := relativeError / (1 + relativeError)
	lo, hi := s.n, 10*s.n
	if s.relativeErrorAt(hi) > re {
		return hi - s.n
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if s.relativeErrorAt(mid) <= re {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo - s.n
}

// sizeVector collects final fire sizes from concurrently running
// scenarios.
type sizeVector struct {
	mu     sync.Mutex
	values []float64
}

// Add appends a value.
func (v *sizeVector) Add(size float64) {
	v.mu.Lock()
	v.values = append(v.values, size)
	v.mu.Unlock()
}

// Values returns a copy of the collected values.
func (v *sizeVector) Values() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Len returns how many values have been collected.
func (v *sizeVector) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.values)
}
