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
	"testing"

	"github.com/spatialfire/firesim/weather"
)

func testSpreadInput() spreadInput {
	w := constantWeather()
	return spreadInput{
		cellSize: 100,
		minRos:   0.05,
		nd:       30,
		wx:       w,
		wxDaily:  w,
	}
}

func TestSpreadProducesOffsets(t *testing.T) {
	key := SpreadKey{FuelCode: 2} // C-2, flat
	s := NewSpreadInfo(key, testSpreadInput())
	if s.IsNotSpreading() {
		t.Fatal("C-2 at FFMC 90 with 20 km/h wind should spread")
	}
	if len(s.Offsets) < 8 {
		t.Errorf("only %d offsets; need at least the eight seed directions", len(s.Offsets))
	}
	if s.MaxIntensity <= 0 {
		t.Error("head intensity not positive")
	}
	if s.LengthToBreadth <= 1 {
		t.Errorf("length to breadth = %f, want > 1 in wind", s.LengthToBreadth)
	}
	// wind from 180° blows the head to the north: raz near 0/360
	razDeg := weather.ToDegrees(s.Raz)
	if razDeg > 30 && razDeg < 330 {
		t.Errorf("head azimuth = %f°, want near north", razDeg)
	}
	// the head offset is the largest
	var maxRos float64
	for _, o := range s.Offsets {
		if o.Ros > maxRos {
			maxRos = o.Ros
		}
	}
	if math.Abs(maxRos-s.HeadRos) > 1e-6 && maxRos > s.HeadRos {
		t.Errorf("an offset ros %f exceeds the head ros %f", maxRos, s.HeadRos)
	}
}

func TestNonFuelDoesNotSpread(t *testing.T) {
	s := NewSpreadInfo(SpreadKey{FuelCode: 0}, testSpreadInput())
	if !s.IsNotSpreading() {
		t.Error("non-fuel key spread")
	}
}

func TestMinimumRosGate(t *testing.T) {
	in := testSpreadInput()
	in.minRos = 1e9
	s := NewSpreadInfo(SpreadKey{FuelCode: 2}, in)
	if !s.IsNotSpreading() {
		t.Error("impossible minimum ros still spread")
	}
}

func TestSlopeTable(t *testing.T) {
	if slopeTable[0] != 1.0 {
		t.Errorf("flat slope factor = %f, want 1", slopeTable[0])
	}
	for i := 1; i <= maxSlopeForFactor; i++ {
		if slopeTable[i] <= slopeTable[i-1] {
			t.Fatalf("slope table not increasing at %d", i)
		}
	}
	if slopeTable[maxSlopePct] != 10.0 {
		t.Errorf("extreme slope factor = %f, want 10", slopeTable[maxSlopePct])
	}
}

func TestSlopeSteepensUphillSpread(t *testing.T) {
	in := testSpreadInput()
	flat := NewSpreadInfo(SpreadKey{FuelCode: 2}, in)
	// aspect 180 means the downslope faces south; wind also from the
	// south, so slope reinforces the wind
	steep := NewSpreadInfo(SpreadKey{FuelCode: 2, Slope: 30, Aspect: 180}, in)
	if steep.IsNotSpreading() || flat.IsNotSpreading() {
		t.Fatal("expected both to spread")
	}
	if steep.HeadRos <= flat.HeadRos {
		t.Errorf("uphill head ros %f not above flat %f", steep.HeadRos, flat.HeadRos)
	}
}

func TestHorizontalAdjustmentFlat(t *testing.T) {
	f := horizontalAdjustment(0, 0)
	for _, theta := range []float64{0, 1, 2, 3} {
		if f(theta) != 1.0 {
			t.Errorf("flat adjustment at %f = %f, want 1", theta, f(theta))
		}
	}
	g := horizontalAdjustment(90, 40)
	for _, theta := range []float64{0, 0.5, 1.5, 3} {
		v := g(theta)
		if v <= 0 || v > 1 {
			t.Errorf("slope adjustment at %f = %f outside (0, 1]", theta, v)
		}
	}
}
