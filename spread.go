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

	"github.com/spatialfire/firesim/fuel"
	"github.com/spatialfire/firesim/weather"
)

// maxSpreadAngle is the angular step [degrees] between offsets sampled on
// the spread ellipse.
const maxSpreadAngle = 5.0

// invalidRos marks spread calculations that produced no usable spread.
const invalidRos = -1.0

// maxSlopeForFactor is the slope [%] beyond which the spread factor is
// constant (GLC-X-10 39a/b).
const maxSlopeForFactor = 69

// slopeTable holds the precomputed slope spread factors [ST-X-3 eq 39].
var slopeTable = makeSlopeTable()

func makeSlopeTable() [maxSlopePct + 1]float64 {
	var t [maxSlopePct + 1]float64
	for i := 0; i <= maxSlopeForFactor; i++ {
		t[i] = math.Exp(3.533 * math.Pow(float64(i)/100.0, 1.2))
	}
	for i := maxSlopeForFactor + 1; i <= maxSlopePct; i++ {
		t[i] = 10.0
	}
	return t
}

// CalculateRosFromThreshold inverts the Wotton spread-event probability to
// the rate of spread whose spread probability equals the threshold.
func CalculateRosFromThreshold(threshold float64) float64 {
	if threshold == 1.0 {
		return math.Inf(1)
	}
	if threshold == 0.0 {
		return 0.0
	}
	return 25.0 / 4.0 * math.Log(-(math.Exp(41.0/25.0)*threshold)/(threshold-1))
}

// Offset is one sampled direction of the spread ellipse: the distance a
// front sample moves per minute [cell widths], with the intensity and rate
// of spread along that direction.
type Offset struct {
	Intensity float64
	Ros       float64
	// Direction is the spread azimuth [radians].
	Direction float64
	// DX and DY are the per-minute displacement [cell widths].
	DX, DY float64
}

// SpreadInfo is the result of evaluating fire behavior for one
// (fuel, slope, aspect) key under one hour of weather. Identical keys
// collapse to one evaluation per hour through the scenario's memoization.
type SpreadInfo struct {
	// HeadRos is the head fire rate of spread [m/min]; invalidRos when
	// the fire is not spreading.
	HeadRos float64
	// Raz is the head fire spread azimuth [radians].
	Raz float64
	// LengthToBreadth is the ellipse axis ratio.
	LengthToBreadth float64
	// MaxIntensity is the head fire intensity [kW/m].
	MaxIntensity  float64
	Sfc, Tfc, Cfb float64
	IsCrown       bool
	Offsets       []Offset
}

// IsNotSpreading reports whether the evaluation produced no spread.
func (s *SpreadInfo) IsNotSpreading() bool {
	return s.HeadRos < 0
}

// horizontalAdjustment returns the factor converting ground spread
// distance to horizontal map distance for a spread direction, given the
// slope azimuth and percent slope.
func horizontalAdjustment(slopeAzimuth, slopePct int) func(theta float64) float64 {
	if slopePct == 0 {
		return func(float64) float64 { return 1.0 }
	}
	bSemi := math.Cos(math.Atan(float64(slopePct) / 100.0))
	slopeRadians := weather.ToRadians(float64(slopeAzimuth))
	return func(theta float64) float64 {
		angleUnrotated := theta - slopeRadians
		deg := weather.ToDegrees(angleUnrotated)
		if deg == 270 || deg == 90 {
			// directly across the slope, horizontal equals spread distance
			return 1.0
		}
		tanU := math.Tan(angleUnrotated)
		y := bSemi / math.Sqrt(bSemi*tanU*(bSemi*tanU)+1.0)
		x := y * tanU
		return math.Min(1.0, math.Sqrt(x*x+y*y))
	}
}

// spreadInput bundles the scenario-level inputs to a spread evaluation.
type spreadInput struct {
	cellSize float64
	minRos   float64
	nd       int
	wx       *weather.Fwi
	wxDaily  *weather.Fwi
}

// initialRos runs the wind/slope/crowning chain [ST-X-3 eqs 39-64] for one
// weather record, returning the head rate of spread and filling in the
// derived fields. It mirrors the two-pass evaluation where daily weather
// gates the spread and hourly weather drives it.
func initialRos(s *SpreadInfo, f *fuel.FuelType, in spreadInput, wx *weather.Fwi,
	key SpreadKey, foliarMoisture, buiEff, criticalIntensity float64) (headRos, ffmcEffect, wsv, rso float64) {
	ffmcEffect = fuel.FfmcEffect(wx.Ffmc)
	raz := wx.WindHeading()
	isz := 0.208 * ffmcEffect
	wsv = wx.WS
	if key.Slope != 0 {
		isf := f.CalculateIsf(in.nd, wx, slopeTable[key.Slope], isz)
		wse := 0.0
		if isf != 0 {
			wse = math.Log(isf/isz) / 0.05039
		}
		if wse > 40 {
			wse = 28.0 - math.Log(1.0-math.Min(0.999*2.496*ffmcEffect, isf)/(2.496*ffmcEffect))/0.0818
		}
		heading := weather.FixRadians(weather.ToRadians(float64(key.Aspect)) + math.Pi)
		wsvX := wx.WsvX() + wse*math.Sin(heading)
		wsvY := wx.WsvY() + wse*math.Cos(heading)
		wsv = math.Sqrt(wsvX*wsvX + wsvY*wsvY)
		if wsv == 0 {
			raz = 0
		} else {
			raz = math.Acos(wsvY / wsv)
			if wsvX < 0 {
				raz = 2*math.Pi - raz
			}
		}
	}
	s.Raz = raz
	isi := isz * standardWsv(wsv)
	headRos = f.CalculateRos(in.nd, wx, isi) * buiEff
	if in.minRos > headRos {
		return invalidRos, ffmcEffect, wsv, rso
	}
	s.Sfc = f.SurfaceFuelConsumption(wx)
	rso = fuel.CriticalRos(s.Sfc, criticalIntensity)
	sfi := fuel.FireIntensity(s.Sfc, headRos)
	s.IsCrown = fuel.IsCrown(criticalIntensity, sfi) && f.CanCrown()
	if s.IsCrown {
		headRos = f.FinalRos(isi, foliarMoisture,
			f.CrownFractionBurned(headRos, rso), headRos)
	}
	return headRos, ffmcEffect, wsv, rso
}

// standardWsv is the wind function f(W) [ST-X-3 eq 53/53a].
func standardWsv(v float64) float64 {
	if v < 40.0 {
		return math.Exp(0.05039 * v)
	}
	return 12.0 * (1.0 - math.Exp(-0.0818*(v-28)))
}

// standardBackIsiWsv is the backing wind function [ST-X-3 eq 75].
func standardBackIsiWsv(v float64) float64 {
	return 0.208 * math.Exp(-0.05039*v)
}

// NewSpreadInfo evaluates fire behavior for one spread key and hour. The
// daily weather gates whether spread happens at all; the hourly weather
// drives the actual rates.
func NewSpreadInfo(key SpreadKey, in spreadInput) *SpreadInfo {
	s := &SpreadInfo{HeadRos: invalidRos, Cfb: -1, Tfc: -1, Sfc: -1}
	f := fuel.ByCode(key.FuelCode)
	if f == nil {
		return s
	}
	foliarMoisture := fuel.FoliarMoisture(in.nd)
	buiEff := f.BuiEffect(in.wx.Bui)
	criticalIntensity := f.CriticalSurfaceIntensity(foliarMoisture)
	headRos, ffmcEffect, wsv, rso := initialRos(s, f, in, in.wxDaily, key, foliarMoisture, buiEff, criticalIntensity)
	if in.minRos > headRos || s.Sfc < 1e-6 {
		s.HeadRos = invalidRos
		return s
	}
	if in.wx != in.wxDaily {
		// only happens when the hourly record is not the daily record
		headRos, ffmcEffect, wsv, rso = initialRos(s, f, in, in.wx, key, foliarMoisture, buiEff, criticalIntensity)
		if in.minRos > headRos || s.Sfc < 1e-6 {
			s.HeadRos = invalidRos
			return s
		}
	}
	s.HeadRos = headRos
	backIsi := ffmcEffect * standardBackIsiWsv(wsv)
	backRos := f.CalculateRos(in.nd, in.wx, backIsi) * buiEff
	if s.IsCrown {
		backRos = f.FinalRos(backIsi, foliarMoisture,
			f.CrownFractionBurned(backRos, rso), backRos)
	}
	s.Tfc = s.Sfc
	if f.CanCrown() && s.IsCrown {
		s.Cfb = f.CrownFractionBurned(s.HeadRos, rso)
		s.Tfc += f.CrownConsumption(s.Cfb)
	}
	s.MaxIntensity = fuel.FireIntensity(s.Tfc, s.HeadRos)
	s.LengthToBreadth = f.LengthToBreadth(wsv)
	correction := horizontalAdjustment(key.Aspect, key.Slope)
	s.Offsets = calculateOffsets(correction, s.Tfc, s.Raz, s.HeadRos, backRos,
		s.LengthToBreadth, in.cellSize, in.minRos)
	if len(s.Offsets) == 0 {
		*s = SpreadInfo{HeadRos: invalidRos, Cfb: -1, Tfc: -1, Sfc: -1}
	}
	return s
}

// calculateOffsets samples the spread ellipse at fixed angular steps and
// returns the per-minute displacement for each sampled direction
// (Richards' elliptical growth, with slope correction applied per
// direction). The head is always sampled first; flanks and back are only
// added while every nearer-to-head direction is still spreading.
func calculateOffsets(correction func(float64) float64, tfc, headRaz, headRos,
	backRos, lengthToBreadth, cellSize, minRos float64) []Offset {
	var offsets []Offset
	addOffset := func(direction, ros float64) bool {
		if ros < minRos {
			return false
		}
		rosCell := ros / cellSize
		offsets = append(offsets, Offset{
			Intensity: fuel.FireIntensity(tfc, ros),
			Ros:       ros,
			Direction: direction,
			DX:        rosCell * math.Sin(direction),
			DY:        rosCell * math.Cos(direction),
		})
		return true
	}
	if !addOffset(headRaz, headRos*correction(headRaz)) {
		return offsets
	}
	a := (headRos + backRos) / 2.0
	c := a - backRos
	flankRos := a / lengthToBreadth
	aSq := a * a
	flankRosSq := flankRos * flankRos
	aSqSubCSq := aSq - c*c
	ac := a * c
	calculateRos := func(theta float64) float64 {
		cosT := math.Cos(theta)
		cosTSq := cosT * cosT
		sinT := math.Sin(theta)
		sinTSq := sinT * sinT
		fSqCosTSq := flankRosSq * cosTSq
		return math.Abs((a*((flankRos*cosT*math.Sqrt(fSqCosTSq+aSqSubCSq*sinTSq)-ac*sinTSq)/(fSqCosTSq+aSq*sinTSq)) + c) / cosT)
	}
	addOffsets := func(angleRadians, rosFlat float64) bool {
		if rosFlat < minRos {
			return false
		}
		direction := weather.FixRadians(angleRadians + headRaz)
		added := addOffset(direction, rosFlat*correction(direction))
		direction = weather.FixRadians(headRaz - angleRadians)
		// both sides always evaluated; spread is symmetric across the
		// head axis before slope correction
		if addOffset(direction, rosFlat*correction(direction)) {
			added = true
		}
		return added
	}
	added := true
	for i := maxSpreadAngle; added && i < 90; i += maxSpreadAngle {
		theta := weather.ToRadians(i)
		added = addOffsets(theta, calculateRos(theta))
	}
	if added {
		added = addOffsets(weather.ToRadians(90), flankRos*math.Sqrt(aSqSubCSq)/a)
		for i := 90 + maxSpreadAngle; added && i < 180; i += maxSpreadAngle {
			theta := weather.ToRadians(i)
			added = addOffsets(theta, calculateRos(theta))
		}
		if added && backRos >= minRos {
			direction := weather.FixRadians(math.Pi + headRaz)
			addOffset(direction, backRos*correction(direction))
		}
	}
	return offsets
}
