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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// StartPoint is the geographic ignition location, with the daylight hours
// for every day of the year precomputed from it.
type StartPoint struct {
	Latitude  float64
	Longitude float64
	// days[d] is the (sunrise, sunset) pair for day of year d, with the
	// configured offsets applied.
	days [maxDays][2]float64
}

// Sunrise sentinels: the sun never rising returns -1 and never setting
// returns 25, so daylight comparisons stay out of min/max arithmetic.
const (
	sunNeverRises = -1
	sunNeverSets  = 25
)

func fixRange(value, min, max float64) float64 {
	for value < min {
		value += max
	}
	for value >= max {
		value -= max
	}
	return value
}

// sunriseSunset computes local sunrise or sunset for the Julian day
// (edwilliams.org/sunrise_sunset_algorithm.htm).
func sunriseSunset(jd int, latitude, longitude float64, forSunrise bool) float64 {
	zenith := 96.0 * math.Pi / 180.0
	const localOffset = -5
	tHour := 18.0
	if forSunrise {
		tHour = 6.0
	}
	lngHour := longitude / 15
	t := float64(jd) + (tHour-lngHour)/24
	m := 0.9856*t - 3.289
	rad := func(d float64) float64 { return d * math.Pi / 180.0 }
	deg := func(r float64) float64 { return r * 180.0 / math.Pi }
	l := fixRange(m+1.916*math.Sin(rad(m))+0.020*math.Sin(rad(2*m))+282.634, 0, 360)
	ra := fixRange(deg(math.Atan(0.91764*math.Tan(rad(l)))), 0, 360)
	lQuadrant := math.Floor(l/90) * 90
	raQuadrant := math.Floor(ra/90) * 90
	ra += lQuadrant - raQuadrant
	ra /= 15
	sinDec := 0.39782 * math.Sin(rad(l))
	cosDec := math.Cos(math.Asin(sinDec))
	cosH := (math.Cos(zenith) - sinDec*math.Sin(rad(latitude))) / (cosDec * math.Cos(rad(latitude)))
	if cosH > 1 {
		if forSunrise {
			return sunNeverRises
		}
		return sunNeverSets
	}
	if cosH < -1 {
		if forSunrise {
			return sunNeverSets
		}
		return sunNeverRises
	}
	h := deg(math.Acos(cosH))
	if forSunrise {
		h = 360 - h
	}
	h /= 15
	meanT := h + ra - 0.06571*t - 6.622
	ut := meanT - lngHour
	return fixRange(ut+localOffset, 0, 24)
}

// NewStartPoint builds a start point and its daylight table with the
// configured sunrise and sunset offsets.
func NewStartPoint(latitude, longitude, offsetSunrise, offsetSunset float64) *StartPoint {
	p := &StartPoint{Latitude: latitude, Longitude: longitude}
	for d := 0; d < maxDays; d++ {
		p.days[d][0] = fixRange(sunriseSunset(d, latitude, longitude, true)+offsetSunrise, 0, 24)
		p.days[d][1] = fixRange(sunriseSunset(d, latitude, longitude, false)-offsetSunset, 0, 24)
	}
	return p
}

// Daylight returns the sunrise and sunset hours for the day of year.
func (p *StartPoint) Daylight(day int) (sunrise, sunset float64) {
	return p.days[day][0], p.days[day][1]
}

// IsDaytime reports whether the time [decimal days] falls between sunrise
// and sunset.
func (p *StartPoint) IsDaytime(time float64) bool {
	day := int(time)
	hour := (time - float64(day)) * dayHours
	sunrise, sunset := p.Daylight(day % maxDays)
	return hour >= sunrise && hour <= sunset
}

// Perimeter is an ignition polygon rasterized onto the landscape: the
// cells it covers and the combustible edge cells that seed the moving
// front.
type Perimeter struct {
	// Burned is every combustible cell inside the polygon.
	Burned []CellHash
	// Edge is the subset of Burned with at least one unburned
	// combustible neighbor.
	Edge []CellHash
}

// NewPerimeter rasterizes poly onto the landscape. Cells whose centers
// are inside the polygon burn; the edge is whatever touches unburned
// fuel.
func NewPerimeter(land *Landscape, poly geom.Polygonal) (*Perimeter, error) {
	b := poly.Bounds()
	p := &Perimeter{}
	inside := make(map[CellHash]bool)
	minRow, minCol, _ := land.CellAt(geom.Point{X: b.Min.X, Y: b.Max.Y})
	maxRow, maxCol, _ := land.CellAt(geom.Point{X: b.Max.X, Y: b.Min.Y})
	if minRow < 0 {
		minRow = 0
	}
	if minCol < 0 {
		minCol = 0
	}
	if maxRow > land.Rows-1 {
		maxRow = land.Rows - 1
	}
	if maxCol > land.Cols-1 {
		maxCol = land.Cols - 1
	}
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			center := land.CellCenter(r, c)
			if center.Within(poly) == geom.Outside {
				continue
			}
			h := land.Hash(r, c)
			if land.CellByHash(h).Fuel == nil {
				continue
			}
			inside[h] = true
			p.Burned = append(p.Burned, h)
		}
	}
	if len(p.Burned) == 0 {
		return nil, fmt.Errorf("firesim: perimeter covers no combustible cells")
	}
	for _, h := range p.Burned {
		row, col := land.RowCol(h)
		for _, off := range neighborOffsets {
			r, c := row+off[0], col+off[1]
			if !land.InBounds(r, c) {
				continue
			}
			nh := land.Hash(r, c)
			if !inside[nh] && land.CellByHash(nh).Fuel != nil {
				p.Edge = append(p.Edge, h)
				break
			}
		}
	}
	if len(p.Edge) == 0 {
		// fully enclosed by non-fuel or grid edge; keep the fire static
		p.Edge = nil
	}
	return p, nil
}

// ReadPerimeterFile reads the first polygon from a shapefile and
// rasterizes it onto the landscape.
func ReadPerimeterFile(land *Landscape, path string) (*Perimeter, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("firesim: opening perimeter %s: %v", path, err)
	}
	defer d.Close()
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if poly, ok := g.(geom.Polygonal); ok {
			return NewPerimeter(land, poly)
		}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("firesim: reading perimeter %s: %v", path, err)
	}
	return nil, fmt.Errorf("firesim: no polygon in perimeter file %s", path)
}

// PerimeterFromPoint builds an ignition around a point: a size [ha] up to
// one cell's area gives the single cell containing it (or the nearest
// combustible cell), and a larger size gives a circle of that area.
func PerimeterFromPoint(land *Landscape, p geom.Point, sizeHa float64) (*Perimeter, CellHash, error) {
	row, col, ok := land.CellAt(p)
	if !ok {
		return nil, -1, fmt.Errorf("firesim: ignition (%g, %g) is outside the grid", p.X, p.Y)
	}
	if sizeHa <= land.CellArea() {
		h, err := land.NearestCombustible(row, col)
		if err != nil {
			return nil, -1, err
		}
		return nil, h, nil
	}
	radius := math.Sqrt(sizeHa * 10000.0 / math.Pi)
	const segments = 36
	ring := make([]geom.Point, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		ring[i] = geom.Point{X: p.X + radius*math.Cos(theta), Y: p.Y + radius*math.Sin(theta)}
	}
	perim, err := NewPerimeter(land, geom.Polygon{ring})
	if err != nil {
		// a small circle can land entirely in non-fuel; fall back to the
		// nearest combustible cell
		h, ferr := land.NearestCombustible(row, col)
		if ferr != nil {
			return nil, -1, err
		}
		return nil, h, nil
	}
	return perim, -1, nil
}
