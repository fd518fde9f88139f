package oosheet

import (
	"iter"
	"strings"
	"time"
)

// Value returns the numeric value of a single-cell range.
func (r *Range) Value() (float64, error) {
	col, row, err := r.cell("value")
	if err != nil {
		return 0, err
	}
	v, err := r.doc.backend.Value(r.addr.Sheet, col, row)
	if err != nil {
		return 0, r.wrap("value", err)
	}
	return v, nil
}

// Formula returns the formula of a single-cell range, including its
// leading "=". Cells without a formula return their literal content.
func (r *Range) Formula() (string, error) {
	col, row, err := r.cell("formula")
	if err != nil {
		return "", err
	}
	f, err := r.doc.backend.Formula(r.addr.Sheet, col, row)
	if err != nil {
		return "", r.wrap("formula", err)
	}
	return f, nil
}

// Text returns the displayed text of a single-cell range.
func (r *Range) Text() (string, error) {
	col, row, err := r.cell("text")
	if err != nil {
		return "", err
	}
	s, err := r.doc.backend.Text(r.addr.Sheet, col, row)
	if err != nil {
		return "", r.wrap("text", err)
	}
	return s, nil
}

// Date returns the value of a single-cell range read as a serial date.
func (r *Range) Date() (time.Time, error) {
	v, err := r.Value()
	if err != nil {
		return time.Time{}, err
	}
	return SerialToDate(v), nil
}

// IsEmpty reports whether a single-cell range holds nothing: value 0, no
// text and no formula.
func (r *Range) IsEmpty() (bool, error) {
	col, row, err := r.cell("empty")
	if err != nil {
		return false, err
	}
	empty, err := r.doc.backend.IsEmpty(r.addr.Sheet, col, row)
	if err != nil {
		return false, r.wrap("empty", err)
	}
	return empty, nil
}

// CellType returns the type of the computed content of a single-cell range.
func (r *Range) CellType() (CellType, error) {
	col, row, err := r.cell("type")
	if err != nil {
		return CellBlank, err
	}
	t, err := r.doc.backend.CellType(r.addr.Sheet, col, row)
	if err != nil {
		return CellBlank, r.wrap("type", err)
	}
	return t, nil
}

// SetValue writes v into every cell of the range.
func (r *Range) SetValue(v float64) *Range {
	return r.each("set value", func(store CellStore, sheet string, col, row int) error {
		return store.SetValue(sheet, col, row, v)
	})
}

// SetText writes s as text into every cell of the range.
func (r *Range) SetText(s string) *Range {
	return r.each("set text", func(store CellStore, sheet string, col, row int) error {
		return store.SetText(sheet, col, row, s)
	})
}

// SetFormula writes formula into every cell of the range. A missing
// leading "=" is added. References are not adjusted per cell.
func (r *Range) SetFormula(formula string) *Range {
	if !strings.HasPrefix(formula, "=") {
		formula = "=" + formula
	}
	return r.each("set formula", func(store CellStore, sheet string, col, row int) error {
		return store.SetFormula(sheet, col, row, formula)
	})
}

// SetDate writes t as a serial date into every cell of the range. Cells
// whose number format is not already a date format get the document's date
// format; existing date formats are kept.
func (r *Range) SetDate(t time.Time) *Range {
	serial := DateToSerial(t)
	dateFormat := r.doc.opts.dateFormat
	return r.each("set date", func(store CellStore, sheet string, col, row int) error {
		if err := store.SetValue(sheet, col, row, serial); err != nil {
			return err
		}
		code, err := store.NumberFormat(sheet, col, row)
		if err != nil {
			return err
		}
		if IsDateFormat(code) {
			return nil
		}
		return store.SetNumberFormat(sheet, col, row, dateFormat)
	})
}

// each applies fn to every member cell in Cells order, as one undo step
// when the backend supports grouping. A backend implementing WriteChecker
// vets the whole range first; other failures can leave earlier cells
// written.
func (r *Range) each(op string, fn func(store CellStore, sheet string, col, row int) error) *Range {
	if r.err != nil {
		return r
	}
	a := r.addr
	if c, ok := r.doc.backend.(WriteChecker); ok {
		if err := c.CheckWrite(a); err != nil {
			return r.fail(op, err)
		}
	}
	err := r.doc.group(func() error {
		for col := a.StartCol; col <= a.EndCol; col++ {
			for row := a.StartRow; row <= a.EndRow; row++ {
				if err := fn(r.doc.backend, a.Sheet, col, row); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return r.fail(op, err)
	}
	return r
}

// DataArray returns the computed values of the range, one slice per
// column from left to right, each holding that column's cells from top to
// bottom. Numbers are float64, text and errors string, logicals bool and
// blank cells nil.
func (r *Range) DataArray() ([][]any, error) {
	if r.err != nil {
		return nil, r.err
	}
	a := r.addr
	store := r.doc.backend
	data := make([][]any, 0, a.Width())
	for col := a.StartCol; col <= a.EndCol; col++ {
		column := make([]any, 0, a.Height())
		for row := a.StartRow; row <= a.EndRow; row++ {
			v, err := cellData(store, a.Sheet, col, row)
			if err != nil {
				return nil, r.wrap("data array", err)
			}
			column = append(column, v)
		}
		data = append(data, column)
	}
	return data, nil
}

func cellData(store CellStore, sheet string, col, row int) (any, error) {
	t, err := store.CellType(sheet, col, row)
	if err != nil {
		return nil, err
	}
	switch t {
	case CellBlank:
		return nil, nil
	case CellNumber:
		return store.Value(sheet, col, row)
	case CellBoolean:
		v, err := store.Value(sheet, col, row)
		return v != 0, err
	}
	return store.Text(sheet, col, row)
}

// Find yields every cell matching q, scanning row by row from the top and
// left to right within a row. Column and row conditions are not accepted.
//
// A plain value matches the cell text exactly: Equals(10) finds a cell
// showing "10", whether it holds a number or text, and Equals(true) finds
// "TRUE". Equals(nil) finds empty cells and a time.Time is compared as a
// date value.
func (r *Range) Find(q Condition) iter.Seq2[*Range, error] {
	a := r.addr
	return func(yield func(*Range, error) bool) {
		if r.err != nil {
			yield(nil, r.err)
			return
		}
		if err := q.validate(); err != nil {
			yield(nil, r.wrap("find", err))
			return
		}
		if q.isReference() {
			yield(nil, r.wrap("find", precondition("find takes Equals or Satisfies, got %s", q)))
			return
		}
		for row := a.StartRow; row <= a.EndRow; row++ {
			for col := a.StartCol; col <= a.EndCol; col++ {
				cell := r.derive(CellAddress(a.Sheet, col, row))
				ok, err := q.testText(cell)
				if err != nil {
					yield(nil, r.wrap("find", err))
					return
				}
				if ok && !yield(cell, nil) {
					return
				}
			}
		}
	}
}

// LastFilledColumn walks right from the first cell of a one-column range
// while the next cell along the first row is non-empty, and returns the
// column where the walk stopped with the range's row span.
func (r *Range) LastFilledColumn() *Range {
	if r.err != nil {
		return r.derive(r.addr)
	}
	if r.addr.Width() != 1 {
		return r.derive(r.addr).fail("last filled column", precondition("range is %d columns wide", r.addr.Width()))
	}
	a := r.addr
	col := a.StartCol
	for col+1 < MaxColumns {
		empty, err := r.doc.backend.IsEmpty(a.Sheet, col+1, a.StartRow)
		if err != nil {
			return r.derive(a).fail("last filled column", err)
		}
		if empty {
			break
		}
		col++
	}
	a.StartCol, a.EndCol = col, col
	return r.derive(a)
}

// LastFilledRow walks down from the first cell of a one-row range while
// the next cell along the first column is non-empty, and returns the row
// where the walk stopped with the range's column span.
func (r *Range) LastFilledRow() *Range {
	if r.err != nil {
		return r.derive(r.addr)
	}
	if r.addr.Height() != 1 {
		return r.derive(r.addr).fail("last filled row", precondition("range is %d rows high", r.addr.Height()))
	}
	a := r.addr
	row := a.StartRow
	for row+1 < MaxRows {
		empty, err := r.doc.backend.IsEmpty(a.Sheet, a.StartCol, row+1)
		if err != nil {
			return r.derive(a).fail("last filled row", err)
		}
		if empty {
			break
		}
		row++
	}
	a.StartRow, a.EndRow = row, row
	return r.derive(a)
}
