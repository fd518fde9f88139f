package oosheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Predicate tests a single-cell range.
type Predicate func(cell *Range) (bool, error)

type conditionKind int

const (
	plainEquals conditionKind = iota + 1
	plainSatisfies
	columnEquals
	columnSatisfies
	rowEquals
	rowSatisfies
)

// Condition is what a scan or search looks for. Build one with Equals,
// Satisfies, ColumnEquals, ColumnSatisfies, RowEquals or RowSatisfies; the
// zero Condition is invalid.
//
// Plain conditions test the cell at the moving edge of a range. Column and
// row conditions test a probe cell pinned to a fixed column or row, at the
// moving edge along the other axis.
type Condition struct {
	kind  conditionKind
	col   int // 0-based reference column
	row   int // 0-based reference row
	value any
	pred  Predicate
	nfc   bool // compare text in Unicode normal form C
	err   error
}

// Equals matches a cell by content:
//   - nil matches empty cells (value 0, no text, no formula)
//   - a string matches the cell text exactly
//   - a number or bool matches the cell value
//   - a time.Time matches the cell value as a date
//
// Find compares every value but nil and time.Time with the cell text; see
// Range.Find.
func Equals(v any) Condition {
	return Condition{kind: plainEquals, value: v, err: checkValue(v)}
}

// Normalized returns c comparing text in Unicode normal form C, so that
// precomposed and decomposed accents match. Conditions on non-text values
// are unaffected.
func (c Condition) Normalized() Condition {
	c.nfc = true
	return c
}

// Satisfies matches cells for which p returns true.
func Satisfies(p Predicate) Condition {
	return Condition{kind: plainSatisfies, pred: p, err: checkPredicate(p)}
}

// ColumnEquals matches when the cell in column col (letters, e.g. "C") on
// the moving row equals v.
func ColumnEquals(col string, v any) Condition {
	c := Condition{kind: columnEquals, value: v, err: checkValue(v)}
	c.setColumn(col)
	return c
}

// ColumnSatisfies matches when the cell in column col on the moving row
// satisfies p.
func ColumnSatisfies(col string, p Predicate) Condition {
	c := Condition{kind: columnSatisfies, pred: p, err: checkPredicate(p)}
	c.setColumn(col)
	return c
}

// RowEquals matches when the cell in row (the displayed 1-based number) on
// the moving column equals v.
func RowEquals(row int, v any) Condition {
	c := Condition{kind: rowEquals, value: v, err: checkValue(v)}
	c.setRow(row)
	return c
}

// RowSatisfies matches when the cell in row on the moving column satisfies
// p.
func RowSatisfies(row int, p Predicate) Condition {
	c := Condition{kind: rowSatisfies, pred: p, err: checkPredicate(p)}
	c.setRow(row)
	return c
}

func (c *Condition) setColumn(name string) {
	col, err := ColumnIndex(strings.ReplaceAll(name, "$", ""))
	if err == nil && col >= MaxColumns {
		err = malformed("column %q beyond sheet extent", name)
	}
	if err != nil && c.err == nil {
		c.err = err
	}
	c.col = col
}

func (c *Condition) setRow(row int) {
	if (row < 1 || row > MaxRows) && c.err == nil {
		c.err = malformed("row %d out of range", row)
	}
	c.row = row - 1
}

// String describes the condition, e.g. `column C = "total"`.
func (c Condition) String() string {
	var target string
	switch c.kind {
	case columnEquals, columnSatisfies:
		target = "column " + ColumnName(c.col) + " "
	case rowEquals, rowSatisfies:
		target = fmt.Sprintf("row %d ", c.row+1)
	case 0:
		return "<invalid>"
	}
	if c.pred != nil {
		return target + "satisfies predicate"
	}
	if c.value == nil {
		return target + "is empty"
	}
	if c.nfc {
		return fmt.Sprintf("%s~= %#v", target, c.value)
	}
	return fmt.Sprintf("%s= %#v", target, c.value)
}

func (c Condition) isReference() bool {
	return c.kind != plainEquals && c.kind != plainSatisfies
}

func (c Condition) validate() error {
	if c.kind == 0 {
		return precondition("empty condition")
	}
	return c.err
}

// test evaluates the condition against a single-cell range.
func (c Condition) test(cell *Range) (bool, error) {
	if c.pred != nil {
		return c.pred(cell)
	}
	return matchValue(cell, c.value, c.nfc)
}

// testText evaluates a condition the way Find does: a plain value other
// than nil or a time.Time is compared with the cell text.
func (c Condition) testText(cell *Range) (bool, error) {
	var want string
	switch v := c.value.(type) {
	case string:
		want = v
	case bool:
		want = "FALSE"
		if v {
			want = "TRUE"
		}
	case nil, time.Time:
		return c.test(cell)
	default:
		f, _ := toFloat(v)
		want = strconv.FormatFloat(f, 'f', -1, 64)
	}
	got, err := cell.doc.backend.Text(cell.addr.Sheet, cell.addr.StartCol, cell.addr.StartRow)
	if err != nil {
		return false, err
	}
	return sameText(got, want, c.nfc), nil
}

func checkValue(v any) error {
	switch v.(type) {
	case nil, string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	}
	return precondition("unsupported condition value of type %T", v)
}

func checkPredicate(p Predicate) error {
	if p == nil {
		return precondition("nil predicate")
	}
	return nil
}

// matchValue compares the content of a single-cell range with v.
func matchValue(cell *Range, v any, nfc bool) (bool, error) {
	store, sheet, col, row := cell.doc.backend, cell.addr.Sheet, cell.addr.StartCol, cell.addr.StartRow
	switch want := v.(type) {
	case nil:
		return store.IsEmpty(sheet, col, row)
	case string:
		got, err := store.Text(sheet, col, row)
		if err != nil {
			return false, err
		}
		return sameText(got, want, nfc), nil
	case time.Time:
		got, err := store.Value(sheet, col, row)
		if err != nil {
			return false, err
		}
		return math.Abs(got-DateToSerial(want)) < 1e-9, nil
	}
	want, ok := toFloat(v)
	if !ok {
		return false, precondition("unsupported condition value of type %T", v)
	}
	got, err := store.Value(sheet, col, row)
	if err != nil {
		return false, err
	}
	return got == want, nil
}

// sameText compares two strings exactly or, with nfc set, in Unicode
// normal form C.
func sameText(a, b string, nfc bool) bool {
	if a == b {
		return true
	}
	return nfc && norm.NFC.String(a) == norm.NFC.String(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
