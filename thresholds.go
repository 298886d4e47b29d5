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
	"hash/fnv"
	"math"
	"math/rand"
)

// Probability is handled through pre-rolled thresholds drawn from fixed
// seeds so results reproduce exactly. Each scenario reset rolls one
// threshold per simulated hour; an event occurs when its computed
// probability beats the threshold. Thresholds gate extinction and spread.

// maxDays bounds the simulated period; the original data layout covers a
// year plus slack.
const maxDays = 370

// newThresholdRng derives the RNG for one threshold role from the
// ignition: role distinguishes spread from extinction, and the start day
// and coordinates pin the stream to the fire.
func newThresholdRng(role int, startDay int, lat, lon float64) *rand.Rand {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	put(uint64(role))
	put(uint64(startDay))
	put(math.Float64bits(lat))
	put(math.Float64bits(lon))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// makeThresholds rolls the per-hour threshold vector for one scenario,
// blending a scenario-level draw, a daily draw, and an hourly draw by the
// configured weights. Draws continue over the full period regardless of
// lastDate so extending the simulation doesn't change earlier days.
// convert maps each threshold to its comparison domain (identity for
// extinction, threshold-to-ROS for spread).
func makeThresholds(rng *rand.Rand, s *Settings, startDay, lastDate int,
	convert func(float64) float64) []float64 {
	totalWeight := s.ThresholdScenarioWeight + s.ThresholdDailyWeight + s.ThresholdHourlyWeight
	thresholds := make([]float64, (lastDate-startDay+2)*dayHours)
	general := rng.Float64()
	for day := startDay; day < maxDays; day++ {
		daily := rng.Float64()
		for h := 0; h < dayHours; h++ {
			hourly := rng.Float64()
			if day <= lastDate+1 {
				blended := (s.ThresholdScenarioWeight*general +
					s.ThresholdDailyWeight*daily +
					s.ThresholdHourlyWeight*hourly) / totalWeight
				// weight makes events more likely, so subtract from 1
				v := math.Max(0, math.Min(1, 1.0-blended))
				thresholds[(day-startDay)*dayHours+h] = convert(v)
			}
		}
	}
	return thresholds
}

// identity is the convert function for extinction thresholds.
func identity(v float64) float64 { return v }

// thresholdAt indexes a threshold vector by simulation time.
func thresholdAt(thresholds []float64, time float64, startDay int) float64 {
	i := int(time*dayHours) - startDay*dayHours
	if i < 0 || i >= len(thresholds) {
		return 1.0
	}
	return thresholds[i]
}
