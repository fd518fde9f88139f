package oosheet

// Shift translates the range by dcol columns and drow rows.
func (r *Range) Shift(dcol, drow int) *Range {
	return r.reshape("shift", r.addr.shifted(dcol, drow))
}

// ShiftRight moves the range n columns right.
func (r *Range) ShiftRight(n int) *Range { return r.Shift(n, 0) }

// ShiftLeft moves the range n columns left.
func (r *Range) ShiftLeft(n int) *Range { return r.Shift(-n, 0) }

// ShiftDown moves the range n rows down.
func (r *Range) ShiftDown(n int) *Range { return r.Shift(0, n) }

// ShiftUp moves the range n rows up.
func (r *Range) ShiftUp(n int) *Range { return r.Shift(0, -n) }

// Grow extends the range. Negative deltas move the start edge outward,
// positive ones the end edge.
func (r *Range) Grow(dcol, drow int) *Range {
	return r.reshape("grow", r.addr.grown(dcol, drow))
}

// GrowRight adds n columns on the right.
func (r *Range) GrowRight(n int) *Range { return r.Grow(n, 0) }

// GrowLeft adds n columns on the left.
func (r *Range) GrowLeft(n int) *Range { return r.Grow(-n, 0) }

// GrowDown adds n rows at the bottom.
func (r *Range) GrowDown(n int) *Range { return r.Grow(0, n) }

// GrowUp adds n rows at the top.
func (r *Range) GrowUp(n int) *Range { return r.Grow(0, -n) }

// Shrink contracts the range. Positive deltas pull the end edge in,
// negative ones push the start edge in. Grow(d) followed by Shrink(d)
// restores the original bounds.
func (r *Range) Shrink(dcol, drow int) *Range {
	return r.reshape("shrink", r.addr.shrunk(dcol, drow))
}

// ShrinkRight drops n columns from the right.
func (r *Range) ShrinkRight(n int) *Range { return r.Shrink(n, 0) }

// ShrinkLeft drops n columns from the left.
func (r *Range) ShrinkLeft(n int) *Range { return r.Shrink(-n, 0) }

// ShrinkDown drops n rows from the bottom.
func (r *Range) ShrinkDown(n int) *Range { return r.Shrink(0, n) }

// ShrinkUp drops n rows from the top.
func (r *Range) ShrinkUp(n int) *Range { return r.Shrink(0, -n) }

// reshape replaces the bounds after validating them.
func (r *Range) reshape(op string, next Address) *Range {
	if r.err != nil {
		return r
	}
	if err := next.Validate(); err != nil {
		return r.fail(op, err)
	}
	r.addr = next
	return r
}

// Add returns a new range translated by dcol, drow. The receiver is left
// unchanged.
func (r *Range) Add(dcol, drow int) (*Range, error) {
	if r.err != nil {
		return nil, r.err
	}
	next := r.addr.shifted(dcol, drow)
	if err := next.Validate(); err != nil {
		return nil, r.wrap("add", err)
	}
	return r.derive(next), nil
}

// Sub returns a new range translated by -dcol, -drow. The receiver is left
// unchanged.
func (r *Range) Sub(dcol, drow int) (*Range, error) {
	return r.Add(-dcol, -drow)
}

// Delta returns the offset from other's start corner to r's start corner.
func (r *Range) Delta(other *Range) (dcol, drow int) {
	return r.addr.StartCol - other.addr.StartCol, r.addr.StartRow - other.addr.StartRow
}

// DragTo fills the range's content towards destination, like dragging the
// fill handle, and grows the range to cover the filled area. A destination
// without a sheet prefix refers to the range's own sheet.
func (r *Range) DragTo(destination string) *Range {
	if r.err != nil {
		return r
	}
	dest, err := parseSelector(destination, r.doc.backend, r.addr.Sheet)
	if err != nil {
		return r.fail("drag", err)
	}
	return r.dragTo(dest)
}

// DragToRange is DragTo with a range as destination.
func (r *Range) DragToRange(destination *Range) *Range {
	if r.err != nil {
		return r
	}
	if destination.err != nil {
		return r.fail("drag", destination.err)
	}
	return r.dragTo(destination.addr)
}

func (r *Range) dragTo(dest Address) *Range {
	if dest.Sheet != r.addr.Sheet {
		return r.fail("drag", crossSheet(r.addr.Sheet, dest.Sheet))
	}
	src := r.addr
	err := r.doc.dispatch("drag", src, func() error {
		if err := r.doc.backend.Focus(src); err != nil {
			return err
		}
		return r.doc.backend.DragFill(src, dest)
	})
	if err != nil {
		return r.fail("drag", err)
	}
	r.addr = src.Union(dest)
	return r
}
