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
	"math"
	"strings"
	"testing"
)

func TestAngleRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 179.5, 180, 270, 359, 360, 725} {
		got := ToDegrees(ToRadians(deg))
		want := math.Mod(deg, 360)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("toDegrees(toRadians(%f)) = %f, want %f", deg, got, want)
		}
	}
}

func TestMoistureRoundTrip(t *testing.T) {
	for _, ffmc := range []float64{50, 70, 85, 90, 95, 101} {
		got := MoistureToFfmc(FfmcToMoisture(ffmc))
		if math.Abs(got-ffmc) > 1e-9 {
			t.Errorf("round trip of FFMC %f gave %f", ffmc, got)
		}
	}
}

func TestTimeIndexLaw(t *testing.T) {
	for _, tc := range []struct{ day, hour, minDate int }{
		{100, 0, 100}, {100, 12, 100}, {105, 23, 100}, {100, 6, 99},
	} {
		got := TimeIndex(ToTime(tc.day, tc.hour), tc.minDate)
		want := tc.day*24 + tc.hour - tc.minDate*24
		if got != want {
			t.Errorf("timeIndex(toTime(%d, %d), %d) = %d, want %d",
				tc.day, tc.hour, tc.minDate, got, want)
		}
		if got2 := DayHourIndex(tc.day, tc.hour, tc.minDate); got2 != want {
			t.Errorf("dayHourIndex(%d, %d, %d) = %d, want %d",
				tc.day, tc.hour, tc.minDate, got2, want)
		}
	}
}

func testDaily() map[int]*Fwi {
	daily := make(map[int]*Fwi)
	for d := 150; d <= 153; d++ {
		daily[d] = &Fwi{
			Temp: 20, RH: 30, WS: 20, WD: 180, Prec: 1.5,
			Ffmc: 90, Dmc: 35, Dc: 275, Isi: 9, Bui: 54, Fwi: 18,
		}
	}
	return daily
}

func TestMakeHourlyDaytime(t *testing.T) {
	r := MakeHourly(testDaily())
	at := func(day, hour int) *Fwi { return r[DayHourIndex(day, hour, 150)] }
	// 16:00 carries the daily FFMC unchanged
	if w := at(151, 16); w == nil || w.Ffmc != 90 {
		t.Fatalf("16:00 FFMC = %v, want the daily value 90", w)
	}
	// precipitation lands on noon only
	if w := at(151, 12); w == nil || w.Prec != 1.5 {
		t.Errorf("noon precipitation missing")
	}
	for h := 13; h <= 20; h++ {
		if w := at(151, h); w == nil || w.Prec != 0 {
			t.Errorf("hour %d has precipitation %v", h, w)
		}
	}
	// wind follows the diurnal proportion table
	if w := at(151, 12); math.Abs(w.WS-20) > 1e-9 {
		t.Errorf("noon wind = %f, want 20", w.WS)
	}
	if w := at(151, 3); w == nil {
		t.Error("night hour missing")
	}
}

func TestMakeHourlyNightInterpolation(t *testing.T) {
	r := MakeHourly(testDaily())
	at := func(day, hour int) *Fwi { return r[DayHourIndex(day, hour, 150)] }
	f2000 := at(151, 20).Ffmc
	f0600 := at(152, 6).Ffmc
	// hours between should be on the line from 20:00 to 06:00
	for i, dh := range []struct{ day, hour, offset int }{
		{151, 21, 1}, {151, 23, 3}, {152, 2, 6}, {152, 5, 9},
	} {
		w := at(dh.day, dh.hour)
		if w == nil {
			t.Fatalf("case %d: missing night hour", i)
		}
		want := f2000 + (f0600-f2000)/10.0*float64(dh.offset)
		if math.Abs(w.Ffmc-want) > 1e-9 {
			t.Errorf("night hour %d FFMC = %f, want %f", dh.hour, w.Ffmc, want)
		}
	}
}

func TestStreamSurvivalDeterministic(t *testing.T) {
	fns := map[int]SurvivalFunc{2: func(w *Fwi) float64 { return 0.4 }}
	s := NewDailyStream(testDaily(), fns, true)
	p, err := s.SurvivalProbability(ToTime(151, 12), 2)
	if err != nil {
		t.Fatal(err)
	}
	if p != 1 {
		t.Errorf("deterministic survival = %f, want 1", p)
	}
	s2 := NewDailyStream(testDaily(), fns, false)
	p2, err := s2.SurvivalProbability(ToTime(151, 12), 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p2-0.4) > 1e-6 {
		t.Errorf("survival = %f, want 0.4", p2)
	}
	if _, err := s2.SurvivalProbability(ToTime(151, 12), 99); err == nil {
		t.Error("expected error for unknown fuel code")
	}
}

const goodCSV = `Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI
1,2024-05-29 11:00,0,18,35,15,170,89,35,270,8,52,16
1,2024-05-29 12:00,0.5,20,30,20,180,90,35.5,275,9,54,18
1,2024-05-29 13:00,0,21,28,21,185,90.5,35.5,275,9.2,54,18.5
`

func TestReadCSV(t *testing.T) {
	streams, err := ReadCSV(strings.NewReader(goodCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(streams) != 1 {
		t.Fatalf("got %d streams, want 1", len(streams))
	}
	s := streams[0]
	if s.ID != 1 || len(s.Hourly) != 3 {
		t.Errorf("stream = id %d with %d rows", s.ID, len(s.Hourly))
	}
	daily, ok := s.Daily[s.MinDate]
	if !ok || daily.Ffmc != 90 {
		t.Errorf("noon row not captured as daily value")
	}
	hourly := s.BuildHourly()
	if hourly[11] == nil || hourly[11].Ffmc != 89 {
		t.Error("11:00 row not aligned to its hour index")
	}
	if hourly[10] != nil {
		t.Error("hour with no input row should be nil")
	}
}

func TestReadCSVBadHeader(t *testing.T) {
	bad := strings.Replace(goodCSV, "FFMC", "FMC", 1)
	if _, err := ReadCSV(strings.NewReader(bad)); err == nil {
		t.Error("expected error for a wrong header")
	}
}

func TestReadCSVGap(t *testing.T) {
	gap := `Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI
1,2024-05-29 11:00,0,18,35,15,170,89,35,270,8,52,16
1,2024-05-29 13:00,0,21,28,21,185,90.5,35.5,275,9.2,54,18.5
`
	if _, err := ReadCSV(strings.NewReader(gap)); err == nil {
		t.Error("expected error for a weather gap")
	}
}

func TestReadCSVYearBoundary(t *testing.T) {
	cross := `Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI
1,2024-12-31 23:00,0,18,35,15,170,89,35,270,8,52,16
1,2025-01-01 00:00,0,18,35,15,170,89,35,270,8,52,16
`
	if _, err := ReadCSV(strings.NewReader(cross)); err == nil {
		t.Error("expected error for crossing a year boundary")
	}
}

func TestReadCSVNotMonotone(t *testing.T) {
	dup := `Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI
1,2024-05-29 12:00,0,18,35,15,170,89,35,270,8,52,16
1,2024-05-29 12:00,0,18,35,15,170,89,35,270,8,52,16
`
	if _, err := ReadCSV(strings.NewReader(dup)); err == nil {
		t.Error("expected error for non-increasing dates")
	}
}
