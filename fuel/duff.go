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

import "math"

// Duff is one duff layer type with its smouldering-ignition regression
// coefficients (Frandsen; eq Ig-1). Probabilities come out as fractions.
type Duff struct {
	Name string
	// Ash is inorganic content [% oven dry weight].
	Ash float64
	// Rho is organic bulk density [kg/m³].
	Rho            float64
	B0, B1, B2, B3 float64
}

// ProbabilityOfSurvival returns the probability [0,1] that smouldering
// survives at the given moisture content [% dry oven weight].
func (d *Duff) ProbabilityOfSurvival(mcPct float64) float64 {
	constPart := d.B0 + d.B2*d.Ash + d.B3*d.Rho
	den := 1 + math.Exp(-(d.B1*mcPct + constPart))
	if den == 0 {
		return 1.0
	}
	return 1.0 / den
}

// The duff types referenced by the fuel definitions. Coefficients are
// stored scaled the same way the published tables give them.
var (
	DuffSphagnumUpper = &Duff{"Sphagnum Upper", 12.4, 21.8, -8.8306, -0.0608, 0.8095, 0.2735}
	DuffFeatherMoss   = &Duff{"Feather Moss", 18.1, 42.7, 9.0970, -0.1040, 0.1165, -0.0646}
	DuffReindeer      = &Duff{"Reindeer/Feather", 26.1, 56.3, 8.0359, -0.0393, -0.0591, -0.0340}
	DuffWhiteSpruce   = &Duff{"White Spruce", 35.9, 122.0, 332.5604, -1.2220, -2.1024, -1.2619}
	DuffPeat          = &Duff{"Peat", 9.4, 222.0, -19.8198, -0.1169, 1.0414, 0.0782}
	DuffPeatMuck      = &Duff{"Peat Muck", 34.9, 203.0, 37.2276, -0.1876, -0.2833, -0.0951}
	DuffPineSeney     = &Duff{"Pine Seney", 36.5, 190.0, 45.1778, -0.3227, -0.3644, -0.0362}
	DuffSprucePine    = &Duff{"Spruce/Pine", 30.7, 116.0, 58.6921, -0.2737, -0.5413, -0.1246}
)
