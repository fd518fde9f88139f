package oosheet

import (
	"fmt"
	"log/slog"
)

type scanMode int

const (
	scanShift scanMode = iota
	scanGrow
	scanShrink
)

var scanOps = [...]string{
	scanShift:  "shift until",
	scanGrow:   "grow until",
	scanShrink: "shrink until",
}

// ShiftUntil shifts the range by dcol, drow until cond holds. The condition
// is tested before every step, so a range that already satisfies it is
// returned unchanged. Exactly one condition must be given.
//
// Plain conditions test the leading edge of the range, which must then be a
// single cell. Column conditions require vertical movement and row
// conditions horizontal movement. The scan fails with ErrNotFound when it
// reaches the sheet edge or exceeds the document's step limit.
func (r *Range) ShiftUntil(dcol, drow int, cond ...Condition) *Range {
	return r.scan(scanShift, dcol, drow, cond)
}

func (r *Range) ShiftRightUntil(cond ...Condition) *Range { return r.ShiftUntil(1, 0, cond...) }
func (r *Range) ShiftLeftUntil(cond ...Condition) *Range  { return r.ShiftUntil(-1, 0, cond...) }
func (r *Range) ShiftDownUntil(cond ...Condition) *Range  { return r.ShiftUntil(0, 1, cond...) }
func (r *Range) ShiftUpUntil(cond ...Condition) *Range    { return r.ShiftUntil(0, -1, cond...) }

// GrowUntil grows the range one step at a time, like Grow(dcol, drow),
// until cond holds at the edge being extended. See ShiftUntil for the
// condition rules.
func (r *Range) GrowUntil(dcol, drow int, cond ...Condition) *Range {
	return r.scan(scanGrow, dcol, drow, cond)
}

func (r *Range) GrowRightUntil(cond ...Condition) *Range { return r.GrowUntil(1, 0, cond...) }
func (r *Range) GrowLeftUntil(cond ...Condition) *Range  { return r.GrowUntil(-1, 0, cond...) }
func (r *Range) GrowDownUntil(cond ...Condition) *Range  { return r.GrowUntil(0, 1, cond...) }
func (r *Range) GrowUpUntil(cond ...Condition) *Range    { return r.GrowUntil(0, -1, cond...) }

// ShrinkUntil shrinks the range one step at a time, like Shrink(dcol, drow),
// until cond holds at the edge being contracted. Contracting past a single
// row or column fails with ErrNotFound.
func (r *Range) ShrinkUntil(dcol, drow int, cond ...Condition) *Range {
	return r.scan(scanShrink, dcol, drow, cond)
}

func (r *Range) ShrinkRightUntil(cond ...Condition) *Range { return r.ShrinkUntil(1, 0, cond...) }
func (r *Range) ShrinkLeftUntil(cond ...Condition) *Range  { return r.ShrinkUntil(-1, 0, cond...) }
func (r *Range) ShrinkDownUntil(cond ...Condition) *Range  { return r.ShrinkUntil(0, 1, cond...) }
func (r *Range) ShrinkUpUntil(cond ...Condition) *Range    { return r.ShrinkUntil(0, -1, cond...) }

func (r *Range) scan(mode scanMode, dcol, drow int, conds []Condition) *Range {
	op := scanOps[mode]
	if r.err != nil {
		return r
	}
	if len(conds) != 1 {
		return r.fail(op, precondition("exactly one condition required, got %d", len(conds)))
	}
	cond := conds[0]
	if err := cond.validate(); err != nil {
		return r.fail(op, err)
	}
	if dcol == 0 && drow == 0 {
		return r.fail(op, precondition("no movement"))
	}
	switch cond.kind {
	case columnEquals, columnSatisfies:
		if dcol != 0 {
			return r.fail(op, precondition("%s needs vertical movement", cond))
		}
	case rowEquals, rowSatisfies:
		if drow != 0 {
			return r.fail(op, precondition("%s needs horizontal movement", cond))
		}
	}

	limit := r.doc.opts.maxScanSteps
	cur := r.addr
	for step := 0; ; step++ {
		probe, err := probeCell(cur, cond, dcol, drow)
		if err != nil {
			return r.fail(op, err)
		}
		ok, err := cond.test(r.derive(probe))
		if err != nil {
			return r.fail(op, err)
		}
		if ok {
			r.doc.opts.logger.Debug("scan matched",
				slog.String("op", op), slog.String("from", r.addr.Selector()),
				slog.String("to", cur.Selector()), slog.Int("steps", step))
			r.addr = cur
			return r
		}
		if step >= limit {
			return r.fail(op, fmt.Errorf("%w: %s after %d steps", ErrNotFound, cond, step))
		}
		next := advance(mode, cur, dcol, drow)
		if next.Validate() != nil {
			return r.fail(op, fmt.Errorf("%w: %s before leaving %s", ErrNotFound, cond, cur.Ref()))
		}
		cur = next
	}
}

func advance(mode scanMode, a Address, dcol, drow int) Address {
	switch mode {
	case scanGrow:
		return a.grown(dcol, drow)
	case scanShrink:
		return a.shrunk(dcol, drow)
	}
	return a.shifted(dcol, drow)
}

// probeCell locates the cell a condition is tested against: the moving
// edge for plain conditions, the reference column or row otherwise.
// Positive deltas move the end edge and negative deltas the start edge.
func probeCell(a Address, cond Condition, dcol, drow int) (Address, error) {
	edge := a
	switch {
	case dcol > 0:
		edge.StartCol = a.EndCol
	case dcol < 0:
		edge.EndCol = a.StartCol
	}
	switch {
	case drow > 0:
		edge.StartRow = a.EndRow
	case drow < 0:
		edge.EndRow = a.StartRow
	}

	switch cond.kind {
	case columnEquals, columnSatisfies:
		return CellAddress(a.Sheet, cond.col, edge.StartRow), nil
	case rowEquals, rowSatisfies:
		return CellAddress(a.Sheet, edge.StartCol, cond.row), nil
	}
	if !edge.IsCell() {
		return Address{}, precondition("moving edge %s is not a single cell", edge.Ref())
	}
	return edge, nil
}
