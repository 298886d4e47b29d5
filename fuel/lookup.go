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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// lookupHeader is the required fuel table header.
var lookupHeader = []string{"grid_value", "export_value", "descriptive_name", "fuel_type"}

// LookupOptions configures how ambiguous fuel table entries resolve.
type LookupOptions struct {
	// DefaultPercentConifer selects the M-1/M-2 variant [multiple of 5 in 0-100].
	DefaultPercentConifer int
	// DefaultPercentDeadFir selects the M-3/M-4 variant [multiple of 5 in 0-100].
	DefaultPercentDeadFir int
	// Green selects the post-green-up member of seasonal pairs.
	Green bool
}

func (o LookupOptions) validate() error {
	for _, v := range []int{o.DefaultPercentConifer, o.DefaultPercentDeadFir} {
		if v < 0 || v > 100 || v%5 != 0 {
			return fmt.Errorf("fuel: percent %d must be a multiple of 5 in [0, 100]", v)
		}
	}
	return nil
}

// Lookup maps raster grid values to fuel types.
type Lookup struct {
	byGridValue map[int]*FuelType
	exportValue map[int]int
	opts        LookupOptions
}

// ByGridValue returns the fuel for a raster value, or nil for non-fuel
// (unknown values included).
func (l *Lookup) ByGridValue(v int) *FuelType {
	return l.byGridValue[v]
}

// ExportValue returns the output raster value for an input raster value.
func (l *Lookup) ExportValue(v int) int {
	if e, ok := l.exportValue[v]; ok {
		return e
	}
	return v
}

// UsedFuels returns the distinct fuels present in the table.
func (l *Lookup) UsedFuels() []*FuelType {
	seen := map[int]*FuelType{}
	for _, f := range l.byGridValue {
		if f != nil {
			seen[f.Code] = f
		}
	}
	out := make([]*FuelType, 0, len(seen))
	for _, f := range All() {
		if _, ok := seen[f.Code]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Resolve maps a fuel type name from the table to a registered fuel,
// applying the configured mixedwood percentages and seasonal selection.
// Unknown names return nil.
func (l *Lookup) Resolve(name string) *FuelType {
	name = strings.TrimSpace(name)
	switch name {
	case "", "Non-fuel", "Non Fuel", "NF":
		return nil
	}
	if f := ByName(name); f != nil {
		return f
	}
	pc := l.opts.DefaultPercentConifer
	pdf := l.opts.DefaultPercentDeadFir
	season := func(spring, summer string) string {
		if l.opts.Green {
			return summer
		}
		return spring
	}
	switch name {
	case "M-1/M-2":
		name = season("M-1", "M-2")
	case "M-3/M-4":
		name = season("M-3", "M-4")
	case "D-1/D-2":
		return ByName(season("D-1", "D-2"))
	case "O-1":
		return ByName(season("O-1a", "O-1b"))
	}
	switch name {
	case "M-1":
		return ByName(fmt.Sprintf("M-1 (%02d PC)", pc))
	case "M-2":
		return ByName(fmt.Sprintf("M-2 (%02d PC)", pc))
	case "M-3":
		return ByName(fmt.Sprintf("M-3 (%02d PDF)", pdf))
	case "M-4":
		return ByName(fmt.Sprintf("M-4 (%02d PDF)", pdf))
	}
	return nil
}

// ReadLookup reads a fuel table CSV with header
// grid_value,export_value,descriptive_name,fuel_type. Rows with unknown
// fuel type names are warned about and treated as non-fuel.
func ReadLookup(r io.Reader, opts LookupOptions) (*Lookup, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("fuel: reading lookup header: %v", err)
	}
	if len(header) != len(lookupHeader) {
		return nil, fmt.Errorf("fuel: lookup header has %d columns, want %d",
			len(header), len(lookupHeader))
	}
	for i, h := range lookupHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), h) {
			return nil, fmt.Errorf("fuel: lookup header column %d is %q, want %q",
				i, header[i], h)
		}
	}
	l := &Lookup{
		byGridValue: map[int]*FuelType{},
		exportValue: map[int]int{},
		opts:        opts,
	}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("fuel: lookup line %d: %v", line, err)
		}
		gridValue, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("fuel: lookup line %d: bad grid_value %q", line, rec[0])
		}
		exportValue, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("fuel: lookup line %d: bad export_value %q", line, rec[1])
		}
		name := strings.TrimSpace(rec[3])
		f := l.Resolve(name)
		if f == nil && name != "" && name != "Non-fuel" && name != "Non Fuel" && name != "NF" {
			log.WithFields(log.Fields{
				"grid_value": gridValue,
				"fuel_type":  name,
			}).Warn("unknown fuel type; treating as non-fuel")
		}
		l.byGridValue[gridValue] = f
		l.exportValue[gridValue] = exportValue
	}
	if len(l.byGridValue) == 0 {
		return nil, fmt.Errorf("fuel: lookup table is empty")
	}
	return l, nil
}

// ReadLookupFile reads the fuel table at path.
func ReadLookupFile(path string, opts LookupOptions) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fuel: %v", err)
	}
	defer f.Close()
	return ReadLookup(f, opts)
}
