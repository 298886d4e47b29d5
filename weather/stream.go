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

package weather

import (
	"fmt"
	"math"
)

// SurvivalFunc computes the probability that a smouldering fire survives
// the next hour under the given weather. The fuel package supplies one per
// fuel type; keeping it as a function value avoids a dependency cycle
// between the weather stream and the fuel model.
type SurvivalFunc func(w *Fwi) float64

// Stream is an ordered sequence of hourly weather records for one scenario,
// along with survival probabilities precomputed for every used fuel so
// extinction checks during simulation are constant time. A Stream is
// read-only after construction and may be shared across goroutines.
type Stream struct {
	byHour   []*Fwi
	survival map[int][]float32
	minDate  int
	maxDate  int
	// weightedDsr ranks streams by decayed Daily Severity Rating, with
	// hours near the start of the stream weighted most heavily.
	weightedDsr float64
}

// NewStream builds a stream from hourly records indexed relative to
// minDate. survivalFns maps fuel codes to their survival probability
// functions; pass deterministic=true to pin every survival probability to 1.
func NewStream(byHour []*Fwi, minDate, maxDate int,
	survivalFns map[int]SurvivalFunc, deterministic bool) *Stream {
	s := &Stream{
		byHour:   byHour,
		survival: make(map[int][]float32, len(survivalFns)),
		minDate:  minDate,
		maxDate:  maxDate,
	}
	for code, fn := range survivalFns {
		byFuel := make([]float32, len(byHour))
		for i, w := range byHour {
			switch {
			case w == nil:
				byFuel[i] = 0
			case deterministic:
				byFuel[i] = 1
			default:
				byFuel[i] = float32(fn(w))
			}
		}
		s.survival[code] = byFuel
	}
	weight := 1000000000.0
	for _, w := range byHour {
		if w != nil {
			dsr := 0.0272 * math.Pow(w.Fwi, 1.77)
			s.weightedDsr += weight * dsr
			weight *= 0.8
		}
	}
	return s
}

// NewDailyStream expands daily noon observations into hourly records and
// builds a stream from them.
func NewDailyStream(daily map[int]*Fwi, survivalFns map[int]SurvivalFunc,
	deterministic bool) *Stream {
	minDate, maxDate := dayRange(daily)
	return NewStream(MakeHourly(daily), minDate, maxDate, survivalFns, deterministic)
}

// MinDate returns the first day of year covered by the stream.
func (s *Stream) MinDate() int { return s.minDate }

// MaxDate returns the last day of year covered by the stream.
func (s *Stream) MaxDate() int { return s.maxDate }

// WeightedDsr returns the stream's decayed severity weighting.
func (s *Stream) WeightedDsr() float64 { return s.weightedDsr }

// At returns the record for the given time in decimal days, or an error if
// the stream has no weather for that hour.
func (s *Stream) At(time float64) (*Fwi, error) {
	i := TimeIndex(time, s.minDate)
	if i < 0 || i >= len(s.byHour) || s.byHour[i] == nil {
		return nil, fmt.Errorf("weather: no weather at time %f", time)
	}
	return s.byHour[i], nil
}

// SurvivalProbability returns the precomputed survival probability for the
// fuel code at the given time. Times outside the stream return an error so
// callers can treat the lookup as non-survival.
func (s *Stream) SurvivalProbability(time float64, fuelCode int) (float64, error) {
	byFuel, ok := s.survival[fuelCode]
	if !ok {
		return 0, fmt.Errorf("weather: no survival data for fuel code %d", fuelCode)
	}
	i := TimeIndex(time, s.minDate)
	if i < 0 || i >= len(byFuel) {
		return 0, fmt.Errorf("weather: no survival data at time %f", time)
	}
	return float64(byFuel[i]), nil
}
