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

import "fmt"

// Settings are the controls for a simulation run. A Settings value is
// constructed at startup, validated once, and treated as read-only by
// every scenario; there is no process-wide mutable configuration.
type Settings struct {
	// Deterministic disables the random spread and extinction gates.
	Deterministic bool

	// MinimumRos is the rate of spread [m/min] below which a cell's
	// spread event is dropped.
	MinimumRos float64
	// MaximumSpreadDistance bounds how many cell widths a front sample
	// may advance in one spread step.
	MaximumSpreadDistance float64
	// MinimumFfmc and MinimumFfmcAtNight gate spread on the daily FFMC
	// during and outside daylight hours.
	MinimumFfmc        float64
	MinimumFfmcAtNight float64
	// OffsetSunrise and OffsetSunset widen or narrow the daylight window
	// [hours].
	OffsetSunrise float64
	OffsetSunset  float64

	// DefaultPercentConifer and DefaultPercentDeadFir select mixedwood
	// variants from the fuel table [multiples of 5 in 0-100].
	DefaultPercentConifer int
	DefaultPercentDeadFir int

	// IntensityMaxLow and IntensityMaxModerate bound the intensity
	// classes [kW/m].
	IntensityMaxLow      float64
	IntensityMaxModerate float64

	// ConfidenceLevel is the relative error the size statistics must
	// reach before the Monte-Carlo loop stops.
	ConfidenceLevel float64
	// MaximumTimeSeconds bounds wall-clock run time.
	MaximumTimeSeconds int
	// MaximumCountSimulations bounds the total number of scenarios run.
	MaximumCountSimulations int

	// Threshold weights blend the per-scenario, per-day, and per-hour
	// random draws into the spread and extinction thresholds.
	ThresholdScenarioWeight float64
	ThresholdDailyWeight    float64
	ThresholdHourlyWeight   float64

	// OutputDateOffsets lists the day offsets from the ignition day at
	// which probability maps are published.
	OutputDateOffsets []int

	SaveIndividual     bool
	SaveAsAscii        bool
	SavePoints         bool
	SaveIntensity      bool
	SaveProbability    bool
	SaveOccurrence     bool
	SaveSimulationArea bool

	// Surface runs one scenario per combustible cell instead of Monte
	// Carlo replication.
	Surface bool
	// RunAsync runs scenarios in parallel goroutines.
	RunAsync bool
}

// DefaultSettings mirrors the stock configuration.
func DefaultSettings() *Settings {
	return &Settings{
		MinimumRos:              0.05,
		MaximumSpreadDistance:   3.0,
		MinimumFfmc:             88.0,
		MinimumFfmcAtNight:      85.0,
		OffsetSunrise:           0.0,
		OffsetSunset:            0.0,
		DefaultPercentConifer:   50,
		DefaultPercentDeadFir:   50,
		IntensityMaxLow:         2000,
		IntensityMaxModerate:    4000,
		ConfidenceLevel:         0.05,
		MaximumTimeSeconds:      3600,
		MaximumCountSimulations: 100000,
		ThresholdScenarioWeight: 0.0,
		ThresholdDailyWeight:    0.25,
		ThresholdHourlyWeight:   0.75,
		OutputDateOffsets:       []int{1, 2, 3},
		SaveAsAscii:             true,
		SaveIntensity:           true,
		SaveProbability:         true,
		RunAsync:                true,
	}
}

// minimumRosFloor keeps the minimum spreading rate from being configured
// to effectively zero.
const minimumRosFloor = 0.05

// Validate checks settings consistency and applies floors.
func (s *Settings) Validate() error {
	if s.MinimumRos < minimumRosFloor {
		s.MinimumRos = minimumRosFloor
	}
	if s.MaximumSpreadDistance <= 0 {
		return fmt.Errorf("firesim: maximumSpreadDistance must be positive")
	}
	if s.ConfidenceLevel <= 0 || s.ConfidenceLevel >= 1 {
		return fmt.Errorf("firesim: confidenceLevel must be in (0, 1)")
	}
	if len(s.OutputDateOffsets) == 0 {
		return fmt.Errorf("firesim: no output date offsets configured")
	}
	for _, o := range s.OutputDateOffsets {
		if o < 0 {
			return fmt.Errorf("firesim: negative output date offset %d", o)
		}
	}
	total := s.ThresholdScenarioWeight + s.ThresholdDailyWeight + s.ThresholdHourlyWeight
	if total <= 0 {
		return fmt.Errorf("firesim: threshold weights must sum to a positive value")
	}
	if s.IntensityMaxLow <= 0 || s.IntensityMaxModerate <= s.IntensityMaxLow {
		return fmt.Errorf("firesim: intensity class bounds must satisfy 0 < low < moderate")
	}
	return nil
}
