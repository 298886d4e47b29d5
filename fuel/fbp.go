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

// Package fuel implements the Fire Behavior Prediction fuel model: fuel
// types as tagged parameter structs (no virtual hierarchy), the algebraic
// spread and consumption equations, duff survival, and the fuel lookup
// table that maps raster codes to fuel types.
package fuel

import (
	"math"

	"github.com/spatialfire/firesim/weather"
)

// kind discriminates the behavior families of fuel types.
type kind int

const (
	kindConifer kind = iota
	kindDeciduous
	kindMixedwood
	kindDeadFir
	kindGrass
	kindSlash
)

// slopeLimitIsi keeps the slope-equivalent ISI finite on extreme slopes
// (ST-X-3 eq 41 limit).
const slopeLimitIsi = 0.01

// defaultGrassFuelLoad is the standing grass fuel load [kg/m²].
const defaultGrassFuelLoad = 0.35

// FuelType is one FBP fuel with its constant parameters. Values are
// immutable after registration; all behavior is dispatch on the kind tag.
type FuelType struct {
	Code int
	Name string

	kind kind
	// Rate-of-spread coefficients [ST-X-3 table 6].
	a, b, c float64
	// Buildup effect parameters [ST-X-3 table 7].
	q, bui0 float64
	// Crown base height [m] and crown fuel load [kg/m²] [ST-X-3 table 8].
	cbh, cfl float64
	// Duff layer description [Anderson table 1].
	bulkDensity, inorganicPercent, duffDepth float64
	duffFfmc, duffDmc                        *Duff
	// Mixedwood composition.
	percentConifer, percentDeadFir float64
	// rosMult scales the deciduous contribution for green mixedwood.
	rosMult float64
	sfc     func(f *FuelType, w *weather.Fwi) float64
}

// FfmcEffect is the fine fuel moisture function f(F) [ST-X-3 eq 45/46].
func FfmcEffect(ffmc float64) float64 {
	mc := weather.FfmcToMoisture(ffmc)
	return 91.9 * math.Exp(-0.1386*mc) * (1 + math.Pow(mc, 5.31)/49300000.0)
}

// FireIntensity is the fire line intensity [kW/m] for the given fuel
// consumption [kg/m²] and rate of spread [m/min] [ST-X-3 eq 69].
func FireIntensity(fc, ros float64) float64 {
	return 300.0 * fc * ros
}

// CriticalRos is the critical surface fire rate of spread [ST-X-3 eq 57].
// A zero surface fuel consumption gives zero.
func CriticalRos(sfc, csi float64) float64 {
	if sfc > 0 {
		return csi / (300.0 * sfc)
	}
	return 0
}

// IsCrown reports whether the surface intensity is enough for the fire to
// reach the crown [ST-X-3 eq 59].
func IsCrown(csi, sfi float64) bool {
	return sfi > csi
}

// FoliarMoisture is the foliar moisture content [%] for the given number
// of days from minimum foliar moisture [ST-X-3 eq 2/3].
func FoliarMoisture(nd int) float64 {
	n := float64(nd)
	switch {
	case nd >= 50:
		return 120.0
	case nd >= 30:
		return 32.9 + 3.17*n - 0.0288*n*n
	default:
		return 85.0 + 0.0189*n*n
	}
}

// IsGreen reports whether green-up has occurred.
func IsGreen(nd int) bool {
	return nd >= 30
}

// startGreening is where grass starts greening, from the intersection of
// the foliar moisture parabola with its ceiling.
const startGreening = -43

// GrassCuring is the percent curing of grass fuels for the given number of
// days from minimum foliar moisture.
func GrassCuring(nd int) int {
	switch {
	case nd < startGreening:
		return 100
	case nd >= 50:
		return 0
	default:
		return int(52.5042 - 1.07324*float64(nd))
	}
}

// BaseMultiplierCuring is the grass rate-of-spread multiplier for the
// given curing percent [GLC-X-10 eq 35a/35b].
func BaseMultiplierCuring(curing float64) float64 {
	if curing >= 58.8 {
		return 0.176 + 0.02*(curing-58.8)
	}
	return 0.005 * (math.Exp(0.061*curing) - 1)
}

// CalculateNdRefForPoint returns the day of year of minimum foliar
// moisture content for a location [ST-X-3 eq 1/4].
func CalculateNdRefForPoint(elevation int, lat, lon float64) int {
	var latn float64
	if elevation <= 0 {
		latn = 46.0 + 23.4*math.Exp(-0.0360*(150+lon))
		return int(math.Trunc(0.5 + 151.0*(lat/latn)))
	}
	latn = 43.0 + 33.7*math.Exp(-0.0351*(150+lon))
	return int(math.Trunc(0.5 + 142.1*(lat/latn) + 0.0172*float64(elevation)))
}

// CalculateNdForPoint returns the days between day and the date of minimum
// foliar moisture content at a location.
func CalculateNdForPoint(day, elevation int, lat, lon float64) int {
	nd := day - CalculateNdRefForPoint(elevation, lat, lon)
	if nd < 0 {
		return -nd
	}
	return nd
}

// RosBasic is the base rate of spread for the ISI [ST-X-3 eq 26].
func (f *FuelType) RosBasic(isi float64) float64 {
	return f.a * math.Pow(1.0-math.Exp(-f.b*isi), f.c)
}

// CalculateRos returns the surface rate of spread [m/min] for the fuel at
// the given ISI. nd selects grass curing and mixedwood seasonality.
func (f *FuelType) CalculateRos(nd int, w *weather.Fwi, isi float64) float64 {
	switch f.kind {
	case kindGrass:
		return f.baseMultiplier(nd, w) * f.RosBasic(isi)
	case kindMixedwood:
		pc := f.percentConifer / 100.0
		return pc*f.RosBasic(isi) + f.rosMult*(1-pc)*fuelD1.RosBasic(isi)
	case kindDeadFir:
		pdf := f.percentDeadFir / 100.0
		return pdf*f.RosBasic(isi) + (1-pdf)*fuelD1.RosBasic(isi)
	default:
		return f.RosBasic(isi)
	}
}

func (f *FuelType) grassCuring(nd int, w *weather.Fwi) float64 {
	if w.Dc > 500 {
		// drought conditions
		return 100
	}
	return float64(GrassCuring(nd))
}

func (f *FuelType) baseMultiplier(nd int, w *weather.Fwi) float64 {
	return BaseMultiplierCuring(f.grassCuring(nd, w))
}

// BuiEffect is the buildup effect on rate of spread [ST-X-3 eq 54].
func (f *FuelType) BuiEffect(bui float64) float64 {
	if bui <= 0 || f.q >= 1 {
		return 1.0
	}
	return math.Exp(50.0 * math.Log(f.q) * ((1.0 / bui) - (1.0 / f.bui0)))
}

// SurfaceFuelConsumption is the surface fuel consumption [kg/m²]
// [ST-X-3 eqs 9-25].
func (f *FuelType) SurfaceFuelConsumption(w *weather.Fwi) float64 {
	return f.sfc(f, w)
}

// LengthToBreadth is the elliptical length-to-breadth ratio at the given
// net wind speed [km/h] [ST-X-3 eq 79-81].
func (f *FuelType) LengthToBreadth(ws float64) float64 {
	if f.kind == kindGrass {
		if ws < 1.0 {
			return 1.0
		}
		return 1.1 * math.Pow(ws, 0.464)
	}
	return 1.0 + 8.729*math.Pow(1.0-math.Exp(-0.030*ws), 2.155)
}

// CanCrown reports whether the fuel carries a crown fire.
func (f *FuelType) CanCrown() bool {
	return f.cfl > 0
}

// CrownFractionBurned is the crown fraction burned [ST-X-3 eq 58].
func (f *FuelType) CrownFractionBurned(rss, rso float64) float64 {
	if f.cfl <= 0 {
		return 0
	}
	return math.Max(0.0, 1.0-math.Exp(-0.230*(rss-rso)))
}

// CrownConsumption is the crown fuel consumption [kg/m²] [ST-X-3 eq 66].
func (f *FuelType) CrownConsumption(cfb float64) float64 {
	if f.kind == kindMixedwood {
		return f.percentConifer / 100.0 * f.cfl * cfb
	}
	return f.cfl * cfb
}

// CriticalSurfaceIntensity is the critical surface fire intensity [kW/m]
// [ST-X-3 eq 56].
func (f *FuelType) CriticalSurfaceIntensity(foliarMoisture float64) float64 {
	return 0.001 * math.Pow(f.cbh, 1.5) * math.Pow(460.0+25.9*foliarMoisture, 1.5)
}

// crownRateOfSpread is the crown fire rate of spread [ST-X-3 eq 62-64].
func crownRateOfSpread(isi, foliarMoisture float64) float64 {
	fme := math.Pow(1.5-0.00275*foliarMoisture, 4.0) / (460.0 + 25.9*foliarMoisture) * 1000.0
	const fmeAvg = 0.778
	return 60.0 * (1.0 - math.Exp(-0.0497*isi)) * fme / fmeAvg
}

// FinalRos is the rate of spread after accounting for crowning.
func (f *FuelType) FinalRos(isi, foliarMoisture, cfb, rss float64) float64 {
	if !f.CanCrown() {
		return rss
	}
	rsc := crownRateOfSpread(isi, foliarMoisture)
	return rss + cfb*math.Max(0.0, rsc-rss)
}

// limitIsf is the slope-equivalent ISI inversion [ST-X-3 eq 41].
func (f *FuelType) limitIsf(mu, rsf float64) float64 {
	inner := 1.0
	if rsf > 0 {
		inner = 1.0 - math.Pow(rsf/(mu*f.a), 1.0/f.c)
	}
	return (1.0 / -f.b) * math.Log(math.Max(slopeLimitIsi, inner))
}

// CalculateIsf is the ISI with slope influence and zero wind (ISF)
// [ST-X-3 eq 41], given the zero-wind ISI and slope spread factor.
func (f *FuelType) CalculateIsf(nd int, w *weather.Fwi, slopeFactor, isz float64) float64 {
	switch f.kind {
	case kindGrass:
		mu := math.Max(0.001, f.baseMultiplier(nd, w))
		return f.limitIsf(mu, mu*f.RosBasic(isz)*slopeFactor)
	case kindMixedwood:
		pc := f.percentConifer / 100.0
		return pc*f.limitIsf(1.0, f.RosBasic(isz)*slopeFactor) +
			(1-pc)*fuelD1.limitIsf(1.0, fuelD1.RosBasic(isz)*slopeFactor)
	case kindDeadFir:
		pdf := f.percentDeadFir / 100.0
		return pdf*f.limitIsf(1.0, f.RosBasic(isz)*slopeFactor) +
			(1-pdf)*fuelD1.limitIsf(1.0, fuelD1.RosBasic(isz)*slopeFactor)
	default:
		return f.limitIsf(1.0, f.RosBasic(isz)*slopeFactor)
	}
}

// duffFfmcDepth is the depth of the duff layer that responds to FFMC [cm].
const duffFfmcDepth = 1.2

func (f *FuelType) dmcRatio() float64 {
	if f.duffDepth <= 0 {
		return 0
	}
	return (f.duffDepth - duffFfmcDepth) / f.duffDepth
}

func (f *FuelType) ffmcRatio() float64 {
	return 1 - f.dmcRatio()
}

// ProbabilityPeat is the probability of sustained smouldering in the
// fuel's duff at the given moisture fraction [Anderson eq 1].
func (f *FuelType) ProbabilityPeat(mcFraction float64) float64 {
	pb := f.bulkDensity
	fi := f.inorganicPercent
	pi := fi * pb
	ri := fi / (1 - fi)
	constPart := -19.329 + 1.7170*ri + 23.059*pi
	return 1 / (1 + math.Exp(17.047*mcFraction/(1-fi)+constPart))
}

// SurvivalProbability is the chance [0,1] that fire smouldering in this
// fuel survives the hour, combining the Anderson peat, Hartford/Frandsen
// duff, and Otway aspen formulations.
func (f *FuelType) SurvivalProbability(w *weather.Fwi) float64 {
	// Same composite weights for all fuels; the fuel's duff attributes
	// differentiate the result.
	const (
		wFfmc         = 0.25
		wDmc          = 1.0
		ratioHartford = 0.5
		ratioFrandsen = 1.0 - ratioHartford
		ratioAspen    = 0.5
		ratioFuel     = 1.0 - ratioAspen
	)
	mcFfmc := w.McFfmc()*wFfmc + wDmc
	const mcFfmcSaturated = 2.5*wFfmc + wDmc
	const mcDmcZero = wDmc
	probFfmcPeat := f.ProbabilityPeat(mcFfmc)
	probFfmcPeatSaturated := f.ProbabilityPeat(mcFfmcSaturated)
	probFfmcPeatZero := f.ProbabilityPeat(mcDmcZero)
	probFfmcPeatWeighted := (probFfmcPeat - probFfmcPeatSaturated) / probFfmcPeatZero
	probFfmc := f.duffFfmc.ProbabilityOfSurvival(mcFfmc * 100)
	probFfmcSaturated := f.duffFfmc.ProbabilityOfSurvival(mcFfmcSaturated * 100)
	probFfmcZero := f.duffFfmc.ProbabilityOfSurvival(mcDmcZero)
	probFfmcWeighted := (probFfmc - probFfmcSaturated) / probFfmcZero
	termOtway := math.Exp(-3.11 + 0.12*w.Dmc)
	probOtway := termOtway / (1 + termOtway)
	mcPct := w.McDmcPct()*f.dmcRatio() + w.McFfmcPct()*f.ffmcRatio()
	probWeightFfmc := f.duffFfmc.ProbabilityOfSurvival(mcPct)
	probWeightFfmcPeat := f.ProbabilityPeat(mcPct / 100)
	probWeightDmc := f.duffDmc.ProbabilityOfSurvival(w.McDmcPct())
	probWeightDmcPeat := f.ProbabilityPeat(w.McDmc())
	// chance of survival is 1 - chance of it not surviving in every fuel
	return 1 - (1-probFfmcPeatWeighted)*(1-probFfmcWeighted)*
		((1-probOtway)*ratioAspen+
			((1-probWeightFfmcPeat)*ratioHartford+(1-probWeightFfmc)*ratioFrandsen)*
				((1-probWeightDmcPeat)*ratioHartford+(1-probWeightDmc)*ratioFrandsen)*ratioFuel)
}
