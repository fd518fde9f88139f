package oosheet

import (
	"errors"
	"iter"
)

// Range addresses a rectangular block of cells on one sheet of a Document.
//
// A Range is a handle, not an owner: it holds bounds, the document holds
// the cells. Methods that change the bounds or the cells mutate the handle
// and return it so calls chain:
//
//	doc.Range("a1").SetValue(12).Copy().ShiftRight(1).Paste()
//
// The first failure in a chain is kept and every later call becomes a
// no-op; check it with Err. Scalar getters and the pure operators Add, Sub
// and Delta return their errors directly.
type Range struct {
	doc  *Document
	addr Address
	err  error
}

// Err returns the first error recorded by a chained call.
func (r *Range) Err() error { return r.err }

// Document returns the document the range belongs to.
func (r *Range) Document() *Document { return r.doc }

// Address returns the current bounds.
func (r *Range) Address() Address { return r.addr }

// Sheet returns the name of the owning sheet.
func (r *Range) Sheet() string { return r.addr.Sheet }

// Selector renders the range as "Sheet1.A1" or "Sheet1.A1:C4".
func (r *Range) Selector() string { return r.addr.Selector() }

func (r *Range) String() string { return r.addr.Selector() }

// Width is the number of columns covered.
func (r *Range) Width() int { return r.addr.Width() }

// Height is the number of rows covered.
func (r *Range) Height() int { return r.addr.Height() }

// IsCell reports whether the range covers exactly one cell.
func (r *Range) IsCell() bool { return r.addr.IsCell() }

// Clone returns an independent handle with the same bounds and error state.
func (r *Range) Clone() *Range {
	c := *r
	return &c
}

// FirstRow returns the top row of the range.
func (r *Range) FirstRow() *Range {
	a := r.addr
	a.EndRow = a.StartRow
	return r.derive(a)
}

// LastRow returns the bottom row of the range.
func (r *Range) LastRow() *Range {
	a := r.addr
	a.StartRow = a.EndRow
	return r.derive(a)
}

// FirstColumn returns the leftmost column of the range.
func (r *Range) FirstColumn() *Range {
	a := r.addr
	a.EndCol = a.StartCol
	return r.derive(a)
}

// LastColumn returns the rightmost column of the range.
func (r *Range) LastColumn() *Range {
	a := r.addr
	a.StartCol = a.EndCol
	return r.derive(a)
}

// Cells yields one single-cell range per member cell in column-major order:
// columns left to right, and top to bottom within each column. Writes that
// apply to every member cell follow the same order.
func (r *Range) Cells() iter.Seq[*Range] {
	a := r.addr
	return func(yield func(*Range) bool) {
		if r.err != nil {
			return
		}
		for col := a.StartCol; col <= a.EndCol; col++ {
			for row := a.StartRow; row <= a.EndRow; row++ {
				if !yield(r.derive(CellAddress(a.Sheet, col, row))) {
					return
				}
			}
		}
	}
}

// Rows yields one full-width range per row, top to bottom.
func (r *Range) Rows() iter.Seq[*Range] {
	a := r.addr
	return func(yield func(*Range) bool) {
		if r.err != nil {
			return
		}
		for row := a.StartRow; row <= a.EndRow; row++ {
			sub := a
			sub.StartRow, sub.EndRow = row, row
			if !yield(r.derive(sub)) {
				return
			}
		}
	}
}

// Columns yields one full-height range per column, left to right.
func (r *Range) Columns() iter.Seq[*Range] {
	a := r.addr
	return func(yield func(*Range) bool) {
		if r.err != nil {
			return
		}
		for col := a.StartCol; col <= a.EndCol; col++ {
			sub := a
			sub.StartCol, sub.EndCol = col, col
			if !yield(r.derive(sub)) {
				return
			}
		}
	}
}

// derive returns a new handle on the same document carrying r's error.
func (r *Range) derive(a Address) *Range {
	return &Range{doc: r.doc, addr: a, err: r.err}
}

// fail records err as the sticky error of the range and returns r.
func (r *Range) fail(op string, err error) *Range {
	if r.err == nil {
		r.err = r.wrap(op, err)
	}
	return r
}

// wrap attaches the operation and current selector to err unless it
// already carries them.
func (r *Range) wrap(op string, err error) error {
	var re *RangeError
	if errors.As(err, &re) {
		return err
	}
	return &RangeError{Op: op, Selector: r.addr.Selector(), Err: err}
}

// cell returns the coordinates of a single-cell range, or ErrPrecondition.
func (r *Range) cell(op string) (col, row int, err error) {
	if r.err != nil {
		return 0, 0, r.err
	}
	if !r.addr.IsCell() {
		return 0, 0, r.wrap(op, precondition("not a single cell"))
	}
	return r.addr.StartCol, r.addr.StartRow, nil
}
