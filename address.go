package oosheet

import (
	"math"
	"strconv"
	"strings"
)

// Sheet extent of the xlsx grid. Coordinates at or beyond these limits are
// out of bounds.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// ColumnIndex converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26, "AF"→31, "BA"→52. Letters are case-insensitive.
func ColumnIndex(name string) (int, error) {
	if name == "" {
		return 0, malformed("empty column name")
	}
	var col uint64
	for i := 0; i < len(name); i++ {
		b := name[i]
		if !isAlpha(b) {
			return 0, malformed("invalid column name %q", name)
		}
		if col > (math.MaxUint64-26)/26 {
			return 0, malformed("column %q overflows int", name)
		}
		col = col*26 + uint64(b&^0x20-'A') + 1
	}
	if col-1 > math.MaxInt {
		return 0, malformed("column %q overflows int", name)
	}
	return int(col - 1), nil
}

// ColumnName converts a 0-based column index to its column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA". Negative indexes yield "".
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	var buf [14]byte // 26^14 > math.MaxInt64
	i := len(buf)
	for n := uint64(index) + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ParseCell parses a cell descriptor like "B12" or "$b$12" into a 0-based
// column and row.
func ParseCell(descriptor string) (col, row int, err error) {
	name := strings.ReplaceAll(descriptor, "$", "")
	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, 0, malformed("invalid cell %q", descriptor)
	}
	col, err = ColumnIndex(name[:i])
	if err != nil {
		return 0, 0, err
	}
	if col >= MaxColumns {
		return 0, 0, malformed("column in cell %q beyond sheet extent", descriptor)
	}
	row, err = parseRow(name[i:])
	if err != nil {
		return 0, 0, malformed("invalid row in cell %q", descriptor)
	}
	return col, row, nil
}

// CellName renders a 0-based column and row as "B12".
func CellName(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// parseRow converts a displayed 1-based row number to a 0-based row.
func parseRow(s string) (int, error) {
	if s == "" {
		return 0, malformed("empty row")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, malformed("invalid row %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxRows {
		return 0, malformed("row %q out of range", s)
	}
	return n - 1, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Address is a rectangular block of cells on one sheet. Bounds are 0-based
// and inclusive.
type Address struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// CellAddress returns the single-cell address at col, row.
func CellAddress(sheet string, col, row int) Address {
	return Address{Sheet: sheet, StartCol: col, StartRow: row, EndCol: col, EndRow: row}
}

// Width is the number of columns covered.
func (a Address) Width() int { return a.EndCol - a.StartCol + 1 }

// Height is the number of rows covered.
func (a Address) Height() int { return a.EndRow - a.StartRow + 1 }

// IsCell reports whether the address covers exactly one cell.
func (a Address) IsCell() bool {
	return a.StartCol == a.EndCol && a.StartRow == a.EndRow
}

// Contains reports whether col, row lies inside the address.
func (a Address) Contains(col, row int) bool {
	return col >= a.StartCol && col <= a.EndCol && row >= a.StartRow && row <= a.EndRow
}

// Cells returns the start and end cell names, e.g. "A1" and "C4".
func (a Address) Cells() (start, end string) {
	return CellName(a.StartCol, a.StartRow), CellName(a.EndCol, a.EndRow)
}

// Ref renders the address without its sheet: "A1" or "A1:C4".
func (a Address) Ref() string {
	start, end := a.Cells()
	if a.IsCell() {
		return start
	}
	return start + ":" + end
}

// Selector renders "Sheet1.A1" or "Sheet1.A1:C4".
func (a Address) Selector() string {
	if a.Sheet == "" {
		return a.Ref()
	}
	return a.Sheet + "." + a.Ref()
}

func (a Address) String() string { return a.Selector() }

// Validate checks that start ≤ end on both axes and that the block lies
// inside the sheet grid.
func (a Address) Validate() error {
	switch {
	case a.StartCol < 0 || a.StartRow < 0:
		return bounds("negative start (col %d, row %d)", a.StartCol, a.StartRow)
	case a.StartCol > a.EndCol || a.StartRow > a.EndRow:
		return bounds("start %s after end %s", CellName(a.StartCol, a.StartRow), CellName(a.EndCol, a.EndRow))
	case a.EndCol >= MaxColumns || a.EndRow >= MaxRows:
		return bounds("end (col %d, row %d) beyond sheet extent", a.EndCol, a.EndRow)
	}
	return nil
}

// Union returns the smallest address covering both a and b. The sheet of a
// is kept.
func (a Address) Union(b Address) Address {
	return Address{
		Sheet:    a.Sheet,
		StartCol: min(a.StartCol, b.StartCol),
		StartRow: min(a.StartRow, b.StartRow),
		EndCol:   max(a.EndCol, b.EndCol),
		EndRow:   max(a.EndRow, b.EndRow),
	}
}

// shifted translates both corners.
func (a Address) shifted(dcol, drow int) Address {
	a.StartCol += dcol
	a.EndCol += dcol
	a.StartRow += drow
	a.EndRow += drow
	return a
}

// grown extends the start edge for negative deltas and the end edge for
// positive ones.
func (a Address) grown(dcol, drow int) Address {
	if dcol < 0 {
		a.StartCol += dcol
	} else {
		a.EndCol += dcol
	}
	if drow < 0 {
		a.StartRow += drow
	} else {
		a.EndRow += drow
	}
	return a
}

// shrunk contracts the end edge for positive deltas and the start edge for
// negative ones. It is the inverse of grown.
func (a Address) shrunk(dcol, drow int) Address {
	if dcol > 0 {
		a.EndCol -= dcol
	} else {
		a.StartCol -= dcol
	}
	if drow > 0 {
		a.EndRow -= drow
	} else {
		a.StartRow -= drow
	}
	return a
}
