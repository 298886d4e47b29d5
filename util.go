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

// Simulation time is measured in decimal days of the year; an hour is
// 1/24 and the spread step durations are in minutes.
const (
	dayHours   = 24
	dayMinutes = 1440
)

// timeIndex converts a decimal day to an absolute hour index.
func timeIndex(time float64) int {
	return int(time * dayHours)
}

// indexToTime converts an absolute hour index back to decimal days.
func indexToTime(index int) float64 {
	return float64(index) / dayHours
}
