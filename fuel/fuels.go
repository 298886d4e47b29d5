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

package fuel

import (
	"fmt"
	"math"
	"sort"

	"github.com/spatialfire/firesim/weather"
)

// Surface fuel consumption families [ST-X-3 eqs 9-25, GLC-X-10 eq 9a/9b].

func sfcC1(_ *FuelType, w *weather.Fwi) float64 {
	if w.Ffmc > 84 {
		return 0.75 + 0.75*math.Sqrt(1-math.Exp(-0.23*(w.Ffmc-84)))
	}
	return math.Max(0, 0.75-0.75*math.Sqrt(1-math.Exp(0.23*(w.Ffmc-84))))
}

func sfcC2(_ *FuelType, w *weather.Fwi) float64 {
	return 5.0 * (1.0 - math.Exp(-0.0115*w.Bui))
}

func sfcC3(_ *FuelType, w *weather.Fwi) float64 {
	return 5.0 * math.Pow(1.0-math.Exp(-0.0164*w.Bui), 2.24)
}

func sfcC5(_ *FuelType, w *weather.Fwi) float64 {
	return 5.0 * math.Pow(1.0-math.Exp(-0.0149*w.Bui), 2.48)
}

func sfcC7(_ *FuelType, w *weather.Fwi) float64 {
	ffc := math.Max(0, 2.0*(1.0-math.Exp(-0.104*(w.Ffmc-70))))
	wfc := 1.5 * (1.0 - math.Exp(-0.0201*w.Bui))
	return ffc + wfc
}

func sfcD1(_ *FuelType, w *weather.Fwi) float64 {
	return 1.5 * (1.0 - math.Exp(-0.0183*w.Bui))
}

func sfcMixedwood(f *FuelType, w *weather.Fwi) float64 {
	pc := f.percentConifer / 100.0
	return pc*sfcC2(f, w) + (1-pc)*sfcD1(f, w)
}

func sfcGrass(_ *FuelType, _ *weather.Fwi) float64 {
	return defaultGrassFuelLoad
}

// sfcSlash builds the two-term slash consumption [ST-X-3 eqs 19-25].
func sfcSlash(ffcA, ffcB, wfcA, wfcB float64) func(*FuelType, *weather.Fwi) float64 {
	return func(_ *FuelType, w *weather.Fwi) float64 {
		return ffcA*(1.0-math.Exp(ffcB*w.Bui)) + wfcA*(1.0-math.Exp(wfcB*w.Bui))
	}
}

// The concrete fuel types. Codes are the internal identifiers stored on
// cells; code 0 is reserved for non-fuel.
var (
	fuelC1 = &FuelType{Code: 1, Name: "C-1", kind: kindConifer,
		a: 90, b: 0.0649, c: 4.5, q: 0.90, bui0: 72, cbh: 2, cfl: 0.75,
		bulkDensity: 0.045, inorganicPercent: 0.05, duffDepth: 3.4,
		duffFfmc: DuffReindeer, duffDmc: DuffPeat, sfc: sfcC1}
	fuelC2 = &FuelType{Code: 2, Name: "C-2", kind: kindConifer,
		a: 110, b: 0.0282, c: 1.5, q: 0.70, bui0: 64, cbh: 3, cfl: 0.80,
		bulkDensity: 0.034, inorganicPercent: 0.0, duffDepth: 10.0,
		duffFfmc: DuffSphagnumUpper, duffDmc: DuffSphagnumUpper, sfc: sfcC2}
	fuelC3 = &FuelType{Code: 3, Name: "C-3", kind: kindConifer,
		a: 110, b: 0.0444, c: 3.0, q: 0.75, bui0: 62, cbh: 8, cfl: 1.15,
		bulkDensity: 0.020, inorganicPercent: 0.15, duffDepth: 6.5,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney, sfc: sfcC3}
	fuelC4 = &FuelType{Code: 4, Name: "C-4", kind: kindConifer,
		a: 110, b: 0.0293, c: 1.5, q: 0.80, bui0: 66, cbh: 4, cfl: 1.20,
		bulkDensity: 0.031, inorganicPercent: 0.15, duffDepth: 6.2,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney, sfc: sfcC3}
	fuelC5 = &FuelType{Code: 5, Name: "C-5", kind: kindConifer,
		a: 30, b: 0.0697, c: 4.0, q: 0.80, bui0: 56, cbh: 18, cfl: 1.20,
		bulkDensity: 0.093, inorganicPercent: 0.15, duffDepth: 4.6,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney, sfc: sfcC5}
	fuelC6 = &FuelType{Code: 6, Name: "C-6", kind: kindConifer,
		a: 30, b: 0.0800, c: 3.0, q: 0.80, bui0: 62, cbh: 7, cfl: 1.80,
		bulkDensity: 0.050, inorganicPercent: 0.15, duffDepth: 5.0,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney, sfc: sfcC5}
	fuelC7 = &FuelType{Code: 7, Name: "C-7", kind: kindConifer,
		a: 45, b: 0.0305, c: 2.0, q: 0.85, bui0: 106, cbh: 10, cfl: 0.50,
		bulkDensity: 0.020, inorganicPercent: 0.15, duffDepth: 5.0,
		duffFfmc: DuffSprucePine, duffDmc: DuffSprucePine, sfc: sfcC7}
	fuelD1 = &FuelType{Code: 8, Name: "D-1", kind: kindDeciduous,
		a: 30, b: 0.0232, c: 1.6, q: 0.90, bui0: 32,
		bulkDensity: 0.061, inorganicPercent: 0.59, duffDepth: 2.4,
		duffFfmc: DuffPeat, duffDmc: DuffPeat, sfc: sfcD1}
	fuelD2 = &FuelType{Code: 9, Name: "D-2", kind: kindDeciduous,
		a: 6, b: 0.0232, c: 1.6, q: 0.90, bui0: 32,
		bulkDensity: 0.061, inorganicPercent: 0.59, duffDepth: 2.4,
		duffFfmc: DuffPeat, duffDmc: DuffPeat, sfc: sfcD1}
	fuelO1A = &FuelType{Code: 10, Name: "O-1a", kind: kindGrass,
		a: 190, b: 0.0310, c: 1.4, q: 1.0, bui0: 1, duffDepth: duffFfmcDepth,
		duffFfmc: DuffPeatMuck, duffDmc: DuffPeatMuck, sfc: sfcGrass}
	fuelO1B = &FuelType{Code: 11, Name: "O-1b", kind: kindGrass,
		a: 250, b: 0.0350, c: 1.7, q: 1.0, bui0: 1, duffDepth: duffFfmcDepth,
		duffFfmc: DuffPeatMuck, duffDmc: DuffPeatMuck, sfc: sfcGrass}
	fuelS1 = &FuelType{Code: 12, Name: "S-1", kind: kindSlash,
		a: 75, b: 0.0297, c: 1.3, q: 0.75, bui0: 38,
		bulkDensity: 0.078, inorganicPercent: 0.15, duffDepth: 7.4,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney,
		sfc: sfcSlash(4.0, -0.025, 4.0, -0.034)}
	fuelS2 = &FuelType{Code: 13, Name: "S-2", kind: kindSlash,
		a: 40, b: 0.0438, c: 1.7, q: 0.75, bui0: 63,
		bulkDensity: 0.132, inorganicPercent: 0.15, duffDepth: 7.4,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffWhiteSpruce,
		sfc: sfcSlash(10.0, -0.013, 6.0, -0.060)}
	fuelS3 = &FuelType{Code: 14, Name: "S-3", kind: kindSlash,
		a: 55, b: 0.0829, c: 3.2, q: 0.75, bui0: 31,
		bulkDensity: 0.100, inorganicPercent: 0.15, duffDepth: 7.4,
		duffFfmc: DuffFeatherMoss, duffDmc: DuffPineSeney,
		sfc: sfcSlash(12.0, -0.0166, 20.0, -0.0210)}
)

// mixedwoodCodeBase starts the code space for the generated mixedwood and
// dead-fir variants; each percent (multiple of 5) gets its own code.
const mixedwoodCodeBase = 20

var (
	byCode = map[int]*FuelType{}
	byName = map[string]*FuelType{}
)

func register(f *FuelType) *FuelType {
	if _, ok := byCode[f.Code]; ok {
		panic(fmt.Sprintf("fuel: duplicate code %d", f.Code))
	}
	if _, ok := byName[f.Name]; ok {
		panic(fmt.Sprintf("fuel: duplicate name %q", f.Name))
	}
	byCode[f.Code] = f
	byName[f.Name] = f
	return f
}

func makeMixedwood(code int, name string, rosMult float64, pc float64) *FuelType {
	return &FuelType{Code: code, Name: name, kind: kindMixedwood,
		a: 110, b: 0.0282, c: 1.5, q: 0.80, bui0: 50, cbh: 6, cfl: 0.80,
		bulkDensity: 0.108, inorganicPercent: 0.25, duffDepth: 5.0,
		duffFfmc: DuffPeat, duffDmc: DuffPeat,
		percentConifer: pc, rosMult: rosMult, sfc: sfcMixedwood}
}

func makeDeadFir(code int, name string, a, b, c float64, rosMult float64, pdf float64) *FuelType {
	return &FuelType{Code: code, Name: name, kind: kindDeadFir,
		a: a, b: b, c: c, q: 0.80, bui0: 50, cbh: 6, cfl: 0.80,
		bulkDensity: 0.108, inorganicPercent: 0.25, duffDepth: 5.0,
		duffFfmc: DuffPeatMuck, duffDmc: DuffPeatMuck,
		percentDeadFir: pdf, rosMult: rosMult, sfc: sfcC2}
}

func init() {
	for _, f := range []*FuelType{
		fuelC1, fuelC2, fuelC3, fuelC4, fuelC5, fuelC6, fuelC7,
		fuelD1, fuelD2, fuelO1A, fuelO1B, fuelS1, fuelS2, fuelS3,
	} {
		register(f)
	}
	// Mixedwood and dead-fir variants for every percent that the lookup
	// table can select (multiples of 5 in [0, 100]).
	code := mixedwoodCodeBase
	for pct := 0; pct <= 100; pct += 5 {
		register(makeMixedwood(code, fmt.Sprintf("M-1 (%02d PC)", pct), 1.0, float64(pct)))
		register(makeMixedwood(code+1, fmt.Sprintf("M-2 (%02d PC)", pct), 0.2, float64(pct)))
		register(makeDeadFir(code+2, fmt.Sprintf("M-3 (%02d PDF)", pct),
			120, 0.0572, 1.4, 1.0, float64(pct)))
		register(makeDeadFir(code+3, fmt.Sprintf("M-4 (%02d PDF)", pct),
			100, 0.0404, 1.48, 0.2, float64(pct)))
		code += 4
	}
}

// ByCode returns the fuel registered with the given code, or nil for
// non-fuel (including code 0).
func ByCode(code int) *FuelType {
	return byCode[code]
}

// ByName returns the fuel registered with the given name, or nil if there
// is none.
func ByName(name string) *FuelType {
	return byName[name]
}

// SafeName returns the name of f, or "Non-fuel" for nil.
func SafeName(f *FuelType) string {
	if f == nil {
		return "Non-fuel"
	}
	return f.Name
}

// SafeCode returns the code of f, or 0 for nil.
func SafeCode(f *FuelType) int {
	if f == nil {
		return 0
	}
	return f.Code
}

// All returns every registered fuel ordered by code.
func All() []*FuelType {
	out := make([]*FuelType, 0, len(byCode))
	for _, f := range byCode {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
