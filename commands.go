package oosheet

// Focus makes the range the document's current selection.
func (r *Range) Focus() *Range {
	if r.err != nil {
		return r
	}
	a := r.addr
	if err := r.doc.dispatch("focus", a, func() error { return r.doc.backend.Focus(a) }); err != nil {
		return r.fail("focus", err)
	}
	return r
}

// Copy puts the range on the clipboard.
func (r *Range) Copy() *Range {
	return r.command("copy", func(b Backend, a Address) error { return b.Copy(a) })
}

// Cut puts the range on the clipboard and clears it.
func (r *Range) Cut() *Range {
	return r.command("cut", func(b Backend, a Address) error { return b.Cut(a) })
}

// Paste writes the clipboard at the range's top-left cell.
func (r *Range) Paste() *Range {
	return r.command("paste", func(b Backend, a Address) error { return b.Paste(a) })
}

// Delete clears contents and formatting of the range.
func (r *Range) Delete() *Range {
	return r.command("delete", func(b Backend, a Address) error { return b.Delete(a) })
}

// Flatten replaces every formula in the range by its current result, so
// later changes upstream no longer affect it.
func (r *Range) Flatten() *Range {
	return r.command("flatten", func(b Backend, a Address) error { return b.Flatten(a) })
}

// InsertRow inserts one row above the range. See InsertRows.
func (r *Range) InsertRow() *Range { return r.InsertRows(1) }

// InsertRows inserts n rows above the range. The range then covers the new
// rows plus its original cells, which moved down by n.
func (r *Range) InsertRows(n int) *Range {
	if r.err == nil && n < 1 {
		return r.fail("insert rows", precondition("insert %d rows", n))
	}
	r.command("insert rows", func(b Backend, a Address) error { return b.InsertRows(a, n) })
	return r.reshape("insert rows", r.addr.grown(0, n))
}

// InsertColumn inserts one column left of the range. See InsertColumns.
func (r *Range) InsertColumn() *Range { return r.InsertColumns(1) }

// InsertColumns inserts n columns left of the range. The range then covers
// the new columns plus its original cells, which moved right by n.
func (r *Range) InsertColumns(n int) *Range {
	if r.err == nil && n < 1 {
		return r.fail("insert columns", precondition("insert %d columns", n))
	}
	r.command("insert columns", func(b Backend, a Address) error { return b.InsertColumns(a, n) })
	return r.reshape("insert columns", r.addr.grown(n, 0))
}

// DeleteRows removes the rows the range spans.
func (r *Range) DeleteRows() *Range {
	return r.command("delete rows", func(b Backend, a Address) error { return b.DeleteRows(a) })
}

// DeleteColumns removes the columns the range spans.
func (r *Range) DeleteColumns() *Range {
	return r.command("delete columns", func(b Backend, a Address) error { return b.DeleteColumns(a) })
}

// FormatAs copies the formatting of selector onto the range. The source
// may live on another sheet.
func (r *Range) FormatAs(selector string) *Range {
	if r.err != nil {
		return r
	}
	src, err := parseSelector(selector, r.doc.backend, r.addr.Sheet)
	if err != nil {
		return r.fail("format as", err)
	}
	return r.formatAs(src)
}

// FormatAsRange copies the formatting of src onto the range.
func (r *Range) FormatAsRange(src *Range) *Range {
	if r.err != nil {
		return r
	}
	if src.err != nil {
		return r.fail("format as", src.err)
	}
	return r.formatAs(src.addr)
}

func (r *Range) formatAs(src Address) *Range {
	return r.command("format as", func(b Backend, a Address) error { return b.FormatCopy(src, a) })
}

// Protect locks the cells of the range. Locks take effect while the sheet
// is protected.
func (r *Range) Protect() *Range {
	return r.command("protect", func(b Backend, a Address) error { return b.Protect(a) })
}

// Unprotect unlocks the cells of the range.
func (r *Range) Unprotect() *Range {
	return r.command("unprotect", func(b Backend, a Address) error { return b.Unprotect(a) })
}

// ProtectSheet protects the range's sheet, optionally with a password.
func (r *Range) ProtectSheet(password ...string) *Range {
	return r.sheetCommand("protect sheet", password, func(b Backend, sheet, pw string) error {
		return b.ProtectSheet(sheet, pw)
	})
}

// UnprotectSheet removes the protection of the range's sheet. A sheet
// protected with a password needs the same password.
func (r *Range) UnprotectSheet(password ...string) *Range {
	return r.sheetCommand("unprotect sheet", password, func(b Backend, sheet, pw string) error {
		return b.UnprotectSheet(sheet, pw)
	})
}

func (r *Range) sheetCommand(cmd string, password []string, fn func(b Backend, sheet, password string) error) *Range {
	if r.err != nil {
		return r
	}
	if len(password) > 1 {
		return r.fail(cmd, precondition("at most one password, got %d", len(password)))
	}
	var pw string
	if len(password) == 1 {
		pw = password[0]
	}
	return r.command(cmd, func(b Backend, a Address) error { return fn(b, a.Sheet, pw) })
}

// command focuses the range and runs fn through the document's dispatcher.
func (r *Range) command(cmd string, fn func(b Backend, a Address) error) *Range {
	if r.err != nil {
		return r
	}
	a := r.addr
	b := r.doc.backend
	err := r.doc.dispatch(cmd, a, func() error {
		if err := b.Focus(a); err != nil {
			return err
		}
		return fn(b, a)
	})
	if err != nil {
		return r.fail(cmd, err)
	}
	return r
}
