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

import "math"

// Hourly FFMC follows the diurnal model described in BC FRR245: daytime
// hours use per-hour regression curves on the noon moisture content, the
// morning curve family is picked by relative-humidity category, and night
// is linearly interpolated between 20:00 and next-day 06:00. Hourly wind is
// a fixed proportion of the daily wind.

// windByHour is the proportion of the daily wind speed observed at each
// hour, from a statistical analysis of hourly observations.
var windByHour = [DayHours]float64{
	.570, .565, .563, .563, .564, .581,
	.642, .725, .808, .880, .936, .977,
	1, 1.008, .999, .973, .915, .831,
	.724, .631, .593, .586, .584, .579,
}

// WindSpeedAdjustment returns the diurnal wind proportion for hour.
func WindSpeedAdjustment(hour int) float64 {
	return windByHour[hour]
}

func ffmc1200(x float64) float64 {
	if x < 21 {
		const a, b, c, d, e = 1.460075956, -0.00039079, 0.28156683, -0.00153983, -0.01282069
		return MoistureToFfmc(math.Pow((a+c*x+e*x*x)/(1+b*x+d*x*x), 2))
	}
	const a, b, c, d, e = -60.0581786, -0.79226507, 1.04936e-05, 24.04228773, -4.7906e+09
	return MoistureToFfmc(a + b*x + c*x*x*x + d*math.Sqrt(x) + e*math.Exp(-x))
}

func ffmc1300(x float64) float64 {
	if x < 22 {
		const a, b, c, d, e, f = 1.255216373, 0.022921707, 0.35809518, -0.00333111, -0.01642423, 3.05664e-05
		return MoistureToFfmc(math.Pow((a+c*x+e*x*x)/(1+b*x+d*x*x+f*x*x*x), 2))
	}
	const a, b, c, d, e = 806.4657627, -1.49162346, 0.000887319, -11465.7458, 12093.7804
	lnX := math.Log(x)
	return MoistureToFfmc(a + b*x + c*x*x*lnX + d/math.Sqrt(x) + e*lnX/x)
}

func ffmc1400(x float64) float64 {
	if x < 23 {
		const a, b, c, d, e = 0.908217387, 0.989724752, 0.001041606, 4.634e-11, -0.00558197
		return MoistureToFfmc(a + b*x + c*x*x*math.Sqrt(x) + d*math.Exp(x) + e*math.Log(x))
	}
	const a, b, c, d, e = 6403.107753, 352.7042531, 873.3642944, -3766.49257, 3580.933366
	lnX := math.Log(x)
	return MoistureToFfmc(a + b*x + c*math.Sqrt(x)*lnX + d*x/lnX + e/(x*x))
}

func ffmc1500(x float64) float64 {
	if x < 23 {
		const a, b, c, d, e, f = 0.248711327, 0.9000214139, 0.965899432, 0.007692506, -0.00030317, 1.12165e-05
		x2 := x * x
		x3 := x2 * x
		return MoistureToFfmc(math.Sqrt(a + b*x + c*x2 + d*x3 + e*x2*x2 + f*x2*x3))
	}
	const a, b, c, d, e = 3201.553847, 176.852125, 436.6821439, -1883.24627, 1790.467302
	lnX := math.Log(x)
	return MoistureToFfmc(a + b*x + c*math.Sqrt(x)*lnX + d*x/lnX + e/(x*x))
}

func ffmc1700(x float64) float64 {
	if x < 40 {
		const a, b, c, d, e = 0.357837756, 1.043214753, -0.0013703, -8.5092e-05, 0.158059188
		return MoistureToFfmc(a + b*x + c*x*x + d*x*x*math.Sqrt(x) + e*math.Exp(-x))
	}
	const a, b, c, d, e = 2776.473019, 153.8288088, -0.0001011, 371.9483315, -1620.09304
	lnX := math.Log(x)
	rtX := math.Sqrt(x)
	return MoistureToFfmc(a + b*x + c*x*x*rtX + d*rtX*lnX + e*x/lnX)
}

func ffmc1800(x float64) float64 {
	if x < 40 {
		const a, b, c, d = 1.071980333, 1.36047785, 1.201854444, -0.00827306
		return MoistureToFfmc(math.Sqrt(a + b*x + c*x*x + d*x*x*x))
	}
	const a, b, c, d, e = 5552.947643, 306.6577058, -0.00020219, 743.89688, -3240.18702
	lnX := math.Log(x)
	rtX := math.Sqrt(x)
	return MoistureToFfmc(a + b*x + c*x*x*rtX + d*rtX*lnX + e*x/lnX)
}

func ffmc1900(x float64) float64 {
	if x < 42 {
		const a, b, c, d, e = 1.948509314, 1.124895722, -0.00510068, 8.90555e-20, 0.262028658
		return MoistureToFfmc(a + b*x + c*x*x + d*math.Exp(x) + e*math.Exp(-x))
	}
	const a, b, c, d, e = 28.7672909, -1.51195157, 0.421751405, -0.02633183, 0.000585907
	rtX := math.Sqrt(x)
	return MoistureToFfmc(a + b*x + c*x*rtX + d*x*x + e*x*x*rtX)
}

func ffmc2000(x float64) float64 {
	if x < 49 {
		const a, b, c, d, e = 3.367449306, 1.0839743, 0.007668483, -0.00361458, 0.000267591
		return MoistureToFfmc(a + b*x + c*x*x + d*x*x*math.Sqrt(x) + e*x*x*x)
	}
	const a, b, c, d, e = -111.658439, 1.238144219, -1.74e-06, 379.1717488, -5.512e+20
	return MoistureToFfmc(a + b*x + c*x*x*x + d/math.Log(x) + e*math.Exp(-x))
}

// lognormal is the common form of the morning curves.
func lognormal(x, a, b, c, d float64) float64 {
	return MoistureToFfmc(a + b*math.Exp(-0.5*math.Pow(math.Log(x/c)/d, 2)))
}

func ffmc0600High(x float64) float64 {
	return lognormal(x, 14.89281073, 194.5261398, 2159.088828, 2.390534289)
}
func ffmc0700High(x float64) float64 {
	return lognormal(x, 12.52268635, 160.3933412, 1308.435221, 2.26945513)
}
func ffmc0800High(x float64) float64 {
	return lognormal(x, 10.21004191, 136.7485497, 848.3773713, 2.154869886)
}
func ffmc0900High(x float64) float64 {
	return lognormal(x, 9.099751897, 127.608943, 1192.457539, 2.288739471)
}
func ffmc1000High(x float64) float64 {
	return lognormal(x, 7.891852885, 126.9570677, 2357.682971, 2.538559055)
}
func ffmc1100High(x float64) float64 {
	const a, b, c, d, e = 7.934004974, -0.2113458, -0.29835869, 0.015806934, 0.590134367
	lnX := math.Log(x)
	lnX2 := lnX * lnX
	return MoistureToFfmc((a + c*lnX + e*lnX2) / (1 + b*lnX + d*lnX2))
}

func ffmc0600Med(x float64) float64 {
	return lognormal(x, 11.80584752, 145.1618675, 1610.269345, 2.412647414)
}
func ffmc0700Med(x float64) float64 {
	return lognormal(x, 10.62087345, 120.3071748, 843.7712567, 2.143231971)
}
func ffmc0800Med(x float64) float64 {
	return lognormal(x, 9.179219105, 105.6311973, 547.1226761, 1.946001003)
}
func ffmc0900Med(x float64) float64 {
	return lognormal(x, 6.381382418, 88.54320781, 544.0978144, 2.000706808)
}
func ffmc1000Med(x float64) float64 {
	return lognormal(x, 3.497497088, 71.24103374, 525.2068553, 2.010941812)
}
func ffmc1100Med(x float64) float64 {
	return lognormal(x, 0.514536459, 53.63085254, 461.9583952, 2.149631748)
}

func ffmc0600Low(x float64) float64 {
	return lognormal(x, 6.966628145, 65.41928741, 192.8242799, 1.748892433)
}
func ffmc0700Low(x float64) float64 {
	return lognormal(x, 6.221403215, 61.83553856, 216.2009556, 1.812026562)
}
func ffmc0800Low(x float64) float64 {
	return lognormal(x, 5.454482668, 58.64610176, 253.0830911, 1.896023728)
}
func ffmc0900Low(x float64) float64 {
	return lognormal(x, 3.966946509, 47.66100216, 206.2626505, 1.814962092)
}
func ffmc1000Low(x float64) float64 {
	return lognormal(x, 2.509991705, 37.42399135, 161.7254088, 1.710574764)
}
func ffmc1100Low(x float64) float64 {
	const a, b, c, d, e = 1.291826916, -0.38168658, 0.15814773, 0.051353647, 0.356051255
	lnX := math.Log(x)
	lnX2 := lnX * lnX
	return MoistureToFfmc((a + c*lnX + e*lnX2) / (1 + b*lnX + d*lnX2))
}

var morningHigh = [6]func(float64) float64{
	ffmc0600High, ffmc0700High, ffmc0800High, ffmc0900High, ffmc1000High, ffmc1100High,
}
var morningMed = [6]func(float64) float64{
	ffmc0600Med, ffmc0700Med, ffmc0800Med, ffmc0900Med, ffmc1000Med, ffmc1100Med,
}
var morningLow = [6]func(float64) float64{
	ffmc0600Low, ffmc0700Low, ffmc0800Low, ffmc0900Low, ffmc1000Low, ffmc1100Low,
}

// makeWx derives the record for one hour from the daily observation.
// Precipitation is attributed to the noon hour only and wind speed is
// scaled by the diurnal proportion table.
func makeWx(daily *Fwi, windDaily *Fwi, ffmc float64, hour int) *Fwi {
	w := *daily
	w.Ffmc = ffmc
	w.WS = windDaily.WS * WindSpeedAdjustment(hour)
	if hour != 12 {
		w.Prec = 0
	}
	return &w
}

// makeWxSpeed is makeWx with an explicit wind speed, used during the night
// interpolation.
func makeWxSpeed(daily *Fwi, speed, ffmc float64, hour int) *Fwi {
	w := *daily
	w.Ffmc = ffmc
	w.WS = speed
	if hour != 12 {
		w.Prec = 0
	}
	return &w
}

// MakeHourly expands daily noon observations (keyed by day of year) into an
// hourly sequence covering [minDate, maxDate+1]. The returned slice is
// indexed by DayHourIndex relative to the minimum day in data; hours with
// no derivable weather are nil.
func MakeHourly(data map[int]*Fwi) []*Fwi {
	minDate, maxDate := dayRange(data)
	r := make([]*Fwi, (maxDate-minDate+2)*DayHours)
	at := func(day, hour int) *Fwi { return r[DayHourIndex(day, hour, minDate)] }
	set := func(day, hour int, w *Fwi) { r[DayHourIndex(day, hour, minDate)] = w }
	// Daytime curves on the noon moisture content. The first day borrows
	// the next day's observation instead of all zeros.
	obs := func(day int) *Fwi {
		if day == minDate {
			if w, ok := data[day+1]; ok {
				return w
			}
		}
		return data[day]
	}
	for day := minDate; day <= maxDate; day++ {
		wx := obs(day)
		x := wx.McFfmcPct()
		set(day, 12, makeWx(wx, wx, ffmc1200(x), 12))
		set(day, 13, makeWx(wx, wx, ffmc1300(x), 13))
		set(day, 14, makeWx(wx, wx, ffmc1400(x), 14))
		set(day, 15, makeWx(wx, wx, ffmc1500(x), 15))
		set(day, 16, makeWx(wx, wx, wx.Ffmc, 16))
		set(day, 17, makeWx(wx, wx, ffmc1700(x), 17))
		set(day, 18, makeWx(wx, wx, ffmc1800(x), 18))
		set(day, 19, makeWx(wx, wx, ffmc1900(x), 19))
		set(day, 20, makeWx(wx, wx, ffmc2000(x), 20))
	}
	// The day past the end has no noon value to match against, so it gets
	// the high-RH morning curves.
	wxLast := data[maxDate]
	xLast := wxLast.McFfmcPct()
	for i, f := range morningHigh {
		set(maxDate+1, 6+i, makeWx(wxLast, wxLast, f(xLast), 6+i))
	}
	// Morning curve family for each other day is whichever of the three RH
	// categories lands the 11:00 value closest to the known noon FFMC.
	for day := maxDate - 1; day >= minDate; day-- {
		wx := obs(day)
		wxWind := data[day+1]
		x := wx.McFfmcPct()
		at1200 := at(day+1, 12).Ffmc
		diff := func(f func(float64) float64) float64 { return math.Abs(at1200 - f(x)) }
		dHigh, dMed, dLow := diff(ffmc1100High), diff(ffmc1100Med), diff(ffmc1100Low)
		curves := morningHigh
		switch {
		case at1200 >= ffmc1100Low(x) && dLow <= dMed && dLow <= dHigh:
			curves = morningLow
		case at1200 >= ffmc1100Med(x) && dMed <= dHigh && dMed <= dLow:
			curves = morningMed
		}
		for i, f := range curves {
			set(day+1, 6+i, makeWx(wxWind, wx, f(x), 6+i))
		}
	}
	// Night (21:00–05:00) is linear between 20:00 and next-day 06:00 for
	// both FFMC and wind speed.
	for day := maxDate; day >= minDate; day-- {
		wx := obs(day)
		ffmcAt0600 := at(day+1, 6).Ffmc
		ffmcAt2000 := at(day, 20).Ffmc
		ffmcSlope := (ffmcAt0600 - ffmcAt2000) / 10.0
		windAt0600 := at(day+1, 6).WS
		windAt2000 := at(day, 20).WS
		windSlope := (windAt0600 - windAt2000) / 10.0
		add := func(dayOffset, hour, offset int) {
			set(day+dayOffset, hour, makeWxSpeed(wx,
				windAt2000+windSlope*float64(offset),
				ffmcAt2000+ffmcSlope*float64(offset),
				hour))
		}
		add(0, 21, 1)
		add(0, 22, 2)
		add(0, 23, 3)
		for h := 0; h <= 5; h++ {
			add(1, h, 4+h)
		}
	}
	return r
}

func dayRange(data map[int]*Fwi) (minDate, maxDate int) {
	first := true
	for d := range data {
		if first {
			minDate, maxDate = d, d
			first = false
			continue
		}
		if d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}
	return
}
