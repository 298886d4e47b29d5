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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// expectedHeader is the only accepted weather input header.
var expectedHeader = []string{
	"Scenario", "Date", "PREC", "TEMP", "RH", "WS", "WD",
	"FFMC", "DMC", "DC", "ISI", "BUI", "FWI",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// StreamData is the weather read for one input scenario: the hourly
// records in order and the daily (noon) observations keyed by day of year.
type StreamData struct {
	ID     int
	Hourly []*Fwi
	// hourOf[i] is day*DayHours+hour for Hourly[i].
	hourOf []int
	Daily  map[int]*Fwi
	// MinDate and MaxDate are the first and last days of year with data.
	MinDate, MaxDate int
	Year             int
}

// BuildHourly returns the hourly records aligned so that index
// DayHourIndex(day, hour, MinDate) holds the record for that hour; hours
// with no input row are nil.
func (s *StreamData) BuildHourly() []*Fwi {
	r := make([]*Fwi, (s.MaxDate-s.MinDate+2)*DayHours)
	for i, w := range s.Hourly {
		r[s.hourOf[i]-s.MinDate*DayHours] = w
	}
	return r
}

// ReadCSV reads a weather input file. Rows for each scenario must be
// sequential hours, dates must be strictly increasing, and all rows must
// fall within one calendar year. Noon rows supply the daily observations.
func ReadCSV(r io.Reader) ([]*StreamData, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("weather: reading header: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("weather: header has %d columns, want %d",
			len(header), len(expectedHeader))
	}
	for i, h := range expectedHeader {
		if !strings.EqualFold(header[i], h) {
			return nil, fmt.Errorf("weather: header column %d is %q, want %q",
				i, header[i], h)
		}
	}
	streams := make(map[int]*StreamData)
	lastTime := make(map[int]time.Time)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("weather: line %d: %v", line, err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("weather: line %d: bad scenario %q", line, rec[0])
		}
		var t time.Time
		parsed := false
		for _, layout := range dateLayouts {
			if t, err = time.Parse(layout, strings.TrimSpace(rec[1])); err == nil {
				parsed = true
				break
			}
		}
		if !parsed {
			return nil, fmt.Errorf("weather: line %d: bad date %q", line, rec[1])
		}
		vals := make([]float64, 11)
		for i := 0; i < 11; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[2+i]), 64)
			if err != nil {
				return nil, fmt.Errorf("weather: line %d: bad %s %q",
					line, expectedHeader[2+i], rec[2+i])
			}
			vals[i] = v
		}
		w := &Fwi{
			Prec: vals[0], Temp: vals[1], RH: vals[2], WS: vals[3], WD: vals[4],
			Ffmc: vals[5], Dmc: vals[6], Dc: vals[7],
			Isi: vals[8], Bui: vals[9], Fwi: vals[10],
		}
		s, ok := streams[id]
		if !ok {
			s = &StreamData{
				ID:      id,
				Daily:   make(map[int]*Fwi),
				MinDate: t.YearDay(),
				Year:    t.Year(),
			}
			streams[id] = s
		} else {
			prev := lastTime[id]
			if !t.After(prev) {
				return nil, fmt.Errorf("weather: line %d: date %v is not after %v",
					line, t, prev)
			}
			if t.Sub(prev) != time.Hour {
				return nil, fmt.Errorf("weather: line %d: gap of %v in scenario %d, want 1h",
					line, t.Sub(prev), id)
			}
			if t.Year() != s.Year {
				return nil, fmt.Errorf("weather: line %d: scenario %d crosses a year boundary",
					line, id)
			}
		}
		lastTime[id] = t
		s.Hourly = append(s.Hourly, w)
		s.hourOf = append(s.hourOf, t.YearDay()*DayHours+t.Hour())
		s.MaxDate = t.YearDay()
		if t.Hour() == 12 {
			s.Daily[t.YearDay()] = w
		}
	}
	if len(streams) == 0 {
		return nil, fmt.Errorf("weather: no data rows")
	}
	out := make([]*StreamData, 0, len(streams))
	for _, s := range streams {
		if len(s.Daily) == 0 {
			return nil, fmt.Errorf("weather: scenario %d has no noon observations", s.ID)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ReadCSVFile reads the weather input at path.
func ReadCSVFile(path string) ([]*StreamData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("weather: %v", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
