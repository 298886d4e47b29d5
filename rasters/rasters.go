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

// Package rasters reads and writes the georeferenced grid layers that the
// fire growth model runs on. Grids are rectangular, row-major, and share a
// common extent; the on-disk format is the ESRI ASCII grid.
package rasters

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// GridBase describes the extent and georeferencing shared by all of the
// layers in a landscape.
type GridBase struct {
	Rows, Cols int
	// CellSize is the width and height of each cell [m].
	CellSize float64
	// XLLCorner and YLLCorner are the coordinates of the lower-left corner
	// of the lower-left cell.
	XLLCorner, YLLCorner float64
	// Nodata is the sentinel value for cells with no data.
	Nodata float64
}

// SameExtent reports whether b and o cover the same extent.
func (b GridBase) SameExtent(o GridBase) bool {
	return b.Rows == o.Rows && b.Cols == o.Cols &&
		b.CellSize == o.CellSize &&
		b.XLLCorner == o.XLLCorner && b.YLLCorner == o.YLLCorner
}

// Bounds returns the bounding box of the grid.
func (b GridBase) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: b.XLLCorner, Y: b.YLLCorner},
		Max: geom.Point{
			X: b.XLLCorner + float64(b.Cols)*b.CellSize,
			Y: b.YLLCorner + float64(b.Rows)*b.CellSize,
		},
	}
}

// CellCenter returns the map coordinates of the center of the cell at
// (row, col). Row 0 is the northernmost row, matching raster file order.
func (b GridBase) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: b.XLLCorner + (float64(col)+0.5)*b.CellSize,
		Y: b.YLLCorner + (float64(b.Rows-1-row)+0.5)*b.CellSize,
	}
}

// CellAt returns the (row, col) of the cell containing the map coordinate p,
// or ok=false if p is outside the grid.
func (b GridBase) CellAt(p geom.Point) (row, col int, ok bool) {
	col = int(math.Floor((p.X - b.XLLCorner) / b.CellSize))
	rowFromBottom := int(math.Floor((p.Y - b.YLLCorner) / b.CellSize))
	row = b.Rows - 1 - rowFromBottom
	ok = row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
	return
}

// Layer is one grid of values sharing a GridBase.
type Layer struct {
	GridBase
	Data *sparse.DenseArray
}

// NewLayer allocates a zeroed layer covering b.
func NewLayer(b GridBase) *Layer {
	return &Layer{GridBase: b, Data: sparse.ZerosDense(b.Rows, b.Cols)}
}

// ReadASCII reads an ESRI ASCII grid from r.
func ReadASCII(r io.Reader) (*Layer, error) {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 1024*1024), 1024*1024)
	var b GridBase
	b.Nodata = -9999
	header := map[string]*float64{
		"xllcorner":    &b.XLLCorner,
		"yllcorner":    &b.YLLCorner,
		"cellsize":     &b.CellSize,
		"nodata_value": &b.Nodata,
	}
	var vals []float64
	for scan.Scan() {
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		key := strings.ToLower(fields[0])
		if len(fields) == 2 {
			switch key {
			case "ncols":
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("rasters: bad ncols %q: %v", fields[1], err)
				}
				b.Cols = n
				continue
			case "nrows":
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("rasters: bad nrows %q: %v", fields[1], err)
				}
				b.Rows = n
				continue
			}
			if dst, ok := header[key]; ok {
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("rasters: bad header %s %q: %v", key, fields[1], err)
				}
				*dst = v
				continue
			}
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("rasters: bad value %q: %v", f, err)
			}
			vals = append(vals, v)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("rasters: %v", err)
	}
	if b.Rows <= 0 || b.Cols <= 0 {
		return nil, fmt.Errorf("rasters: missing nrows/ncols header")
	}
	if len(vals) != b.Rows*b.Cols {
		return nil, fmt.Errorf("rasters: have %d values for a %d×%d grid",
			len(vals), b.Rows, b.Cols)
	}
	l := NewLayer(b)
	copy(l.Data.Elements, vals)
	return l, nil
}

// ReadASCIIFile reads the ESRI ASCII grid at path.
func ReadASCIIFile(path string) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rasters: %v", err)
	}
	defer f.Close()
	l, err := ReadASCII(f)
	if err != nil {
		return nil, fmt.Errorf("rasters: reading %s: %v", path, err)
	}
	return l, nil
}

// WriteASCII writes l to w as an ESRI ASCII grid. digits controls the
// number of decimal places written; use 0 for integer layers.
func (l *Layer) WriteASCII(w io.Writer, digits int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols         %d\n", l.Cols)
	fmt.Fprintf(bw, "nrows         %d\n", l.Rows)
	fmt.Fprintf(bw, "xllcorner     %g\n", l.XLLCorner)
	fmt.Fprintf(bw, "yllcorner     %g\n", l.YLLCorner)
	fmt.Fprintf(bw, "cellsize      %g\n", l.CellSize)
	fmt.Fprintf(bw, "NODATA_value  %g\n", l.Nodata)
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("rasters: %v", err)
				}
			}
			fmt.Fprintf(bw, "%.*f", digits, l.Data.Get(r, c))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("rasters: %v", err)
		}
	}
	return bw.Flush()
}

// WriteASCIIFile writes l to path as an ESRI ASCII grid.
func (l *Layer) WriteASCIIFile(path string, digits int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasters: %v", err)
	}
	if err := l.WriteASCII(f, digits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
