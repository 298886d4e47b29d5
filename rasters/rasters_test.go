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

package rasters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ctessum/geom"
)

func TestReadASCII(t *testing.T) {
	in := `ncols 3
nrows 2
xllcorner 100.0
yllcorner 200.0
cellsize 50
NODATA_value -9999
1 2 3
4 -9999 6
`
	l, err := ReadASCII(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if l.Rows != 2 || l.Cols != 3 || l.CellSize != 50 {
		t.Fatalf("header = %+v", l.GridBase)
	}
	if got := l.Data.Get(0, 2); got != 3 {
		t.Errorf("(0,2) = %f, want 3", got)
	}
	if got := l.Data.Get(1, 1); got != -9999 {
		t.Errorf("(1,1) = %f, want nodata", got)
	}
}

func TestReadASCIIWrongCount(t *testing.T) {
	in := `ncols 3
nrows 2
xllcorner 0
yllcorner 0
cellsize 50
NODATA_value -9999
1 2 3 4
`
	if _, err := ReadASCII(strings.NewReader(in)); err == nil {
		t.Error("expected error for a short grid")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	b := GridBase{Rows: 3, Cols: 4, CellSize: 25, XLLCorner: 10, YLLCorner: 20, Nodata: -1}
	l := NewLayer(b)
	for i := range l.Data.Elements {
		l.Data.Elements[i] = float64(i) * 0.5
	}
	var buf bytes.Buffer
	if err := l.WriteASCII(&buf, 4); err != nil {
		t.Fatal(err)
	}
	got, err := ReadASCII(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.SameExtent(b) {
		t.Fatalf("extent changed: %+v vs %+v", got.GridBase, b)
	}
	for i := range l.Data.Elements {
		if got.Data.Elements[i] != l.Data.Elements[i] {
			t.Fatalf("element %d = %f, want %f", i, got.Data.Elements[i], l.Data.Elements[i])
		}
	}
}

func TestCellCenterAndCellAt(t *testing.T) {
	b := GridBase{Rows: 10, Cols: 10, CellSize: 100, XLLCorner: 0, YLLCorner: 0, Nodata: -1}
	for _, tc := range []struct{ row, col int }{{0, 0}, {9, 9}, {3, 7}} {
		p := b.CellCenter(tc.row, tc.col)
		row, col, ok := b.CellAt(p)
		if !ok || row != tc.row || col != tc.col {
			t.Errorf("cellAt(cellCenter(%d, %d)) = (%d, %d, %v)",
				tc.row, tc.col, row, col, ok)
		}
	}
	if _, _, ok := b.CellAt(geom.Point{X: -5, Y: 50}); ok {
		t.Error("point west of the grid reported in bounds")
	}
}
