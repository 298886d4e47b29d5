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
	"testing"

	"github.com/ctessum/geom"
)

// Above the arctic circle in midwinter the sun never rises; in midsummer
// it never sets. The sentinels must come back exactly.
func TestSunriseSunsetSentinels(t *testing.T) {
	const lat, lon = 80.0, -120.0
	if got := sunriseSunset(1, lat, lon, true); got != sunNeverRises {
		t.Errorf("midwinter sunrise = %f, want %d", got, sunNeverRises)
	}
	if got := sunriseSunset(1, lat, lon, false); got != sunNeverSets {
		t.Errorf("midwinter sunset = %f, want %d", got, sunNeverSets)
	}
	if got := sunriseSunset(172, lat, lon, true); got != sunNeverSets {
		t.Errorf("midsummer sunrise = %f, want %d", got, sunNeverSets)
	}
	if got := sunriseSunset(172, lat, lon, false); got != sunNeverRises {
		t.Errorf("midsummer sunset = %f, want %d", got, sunNeverRises)
	}
}

func TestDaylightOrdering(t *testing.T) {
	p := NewStartPoint(50.0, -95.0, 0, 0)
	sunrise, sunset := p.Daylight(172)
	if sunrise < 0 || sunrise >= 24 || sunset < 0 || sunset >= 24 {
		t.Fatalf("daylight hours out of range: %f, %f", sunrise, sunset)
	}
	if sunrise >= sunset {
		t.Errorf("sunrise %f not before sunset %f at mid latitude", sunrise, sunset)
	}
	if !p.IsDaytime(172.5) {
		t.Error("noon not reported as daytime")
	}
	if p.IsDaytime(172.0) {
		t.Error("midnight reported as daytime")
	}
}

func TestPerimeterRasterization(t *testing.T) {
	land := uniformLandscape(10, 10, 2)
	// a square covering the cell centers of rows 2-4, cols 2-4
	poly := geom.Polygon{{
		{X: 210, Y: 510}, {X: 490, Y: 510}, {X: 490, Y: 790},
		{X: 210, Y: 790}, {X: 210, Y: 510},
	}}
	p, err := NewPerimeter(land, poly)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Burned) != 9 {
		t.Errorf("burned %d cells, want 9", len(p.Burned))
	}
	if len(p.Edge) != 8 {
		t.Errorf("edge has %d cells, want 8", len(p.Edge))
	}
}

func TestPerimeterNoFuel(t *testing.T) {
	fuelLayer, slopeLayer, aspectLayer, elevLayer := testLayers(10, 10, 2)
	for r := 2; r <= 4; r++ {
		for c := 2; c <= 4; c++ {
			fuelLayer.Data.Set(0, r, c)
		}
	}
	land, err := NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, testLookup())
	if err != nil {
		t.Fatal(err)
	}
	poly := geom.Polygon{{
		{X: 210, Y: 510}, {X: 490, Y: 510}, {X: 490, Y: 790},
		{X: 210, Y: 790}, {X: 210, Y: 510},
	}}
	if _, err := NewPerimeter(land, poly); err == nil {
		t.Error("expected error for a perimeter covering no fuel")
	}
}

func TestPointIgnitionNonFuelRelocates(t *testing.T) {
	fuelLayer, slopeLayer, aspectLayer, elevLayer := testLayers(10, 10, 2)
	fuelLayer.Data.Set(0, 5, 5)
	land, err := NewLandscape(fuelLayer, slopeLayer, aspectLayer, elevLayer, testLookup())
	if err != nil {
		t.Fatal(err)
	}
	// point in the center of the non-fuel cell (5, 5)
	p := land.CellCenter(5, 5)
	perim, startCell, err := PerimeterFromPoint(land, p, 0)
	if err != nil {
		t.Fatal(err)
	}
	if perim != nil {
		t.Fatal("zero-size ignition should give a cell, not a perimeter")
	}
	if startCell == land.Hash(5, 5) {
		t.Error("ignition stayed in non-fuel")
	}
	if land.CellByHash(startCell).Fuel == nil {
		t.Error("relocated ignition is non-fuel")
	}
}

func TestPointIgnitionWithSize(t *testing.T) {
	land := uniformLandscape(20, 20, 2)
	perim, startCell, err := PerimeterFromPoint(land, land.CellCenter(10, 10), 100)
	if err != nil {
		t.Fatal(err)
	}
	if perim == nil || startCell >= 0 {
		t.Fatal("sized ignition should give a perimeter")
	}
	// 100 ha is ~100 cells of 1 ha each in a disc
	if len(perim.Burned) < 5 || len(perim.Burned) > 150 {
		t.Errorf("perimeter covers %d cells for 100 ha", len(perim.Burned))
	}
}
