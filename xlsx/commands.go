package xlsx

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

// clipboard holds cells captured by Copy or Cut, column-major.
type clipboard struct {
	src   oosheet.Address
	cells [][]clipCell
	cut   bool
}

type clipCell struct {
	cellState
	style int
}

// Focus activates the sheet of a and stores a as its selection.
func (w *Workbook) Focus(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx, err := w.file.GetSheetIndex(a.Sheet)
	if err != nil {
		return fmt.Errorf("focus %s: %w", a, err)
	}
	if idx < 0 {
		return fmt.Errorf("focus %s: no sheet %q", a, a.Sheet)
	}
	w.file.SetActiveSheet(idx)

	panes, err := w.file.GetPanes(a.Sheet)
	if err != nil {
		return fmt.Errorf("focus %s: %w", a, err)
	}
	start, _ := a.Cells()
	panes.Selection = []excelize.Selection{{SQRef: a.Ref(), ActiveCell: start, Pane: panes.ActivePane}}
	if err := w.file.SetPanes(a.Sheet, &panes); err != nil {
		return fmt.Errorf("focus %s: %w", a, err)
	}
	return nil
}

// Selection returns the selection of the active sheet, A1 when the sheet
// has none.
func (w *Workbook) Selection() (oosheet.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet := w.file.GetSheetName(w.file.GetActiveSheetIndex())
	panes, err := w.file.GetPanes(sheet)
	if err != nil {
		return oosheet.Address{}, fmt.Errorf("read selection of %q: %w", sheet, err)
	}
	ref := "A1"
	if len(panes.Selection) > 0 {
		s := panes.Selection[0]
		if fields := strings.Fields(s.SQRef); len(fields) > 0 {
			ref = fields[0]
		} else if s.ActiveCell != "" {
			ref = s.ActiveCell
		}
	}
	return oosheet.ParseSelector(sheet+"."+ref, oosheet.SheetList{sheet})
}

// Copy puts the content and styles of a on the clipboard.
func (w *Workbook) Copy(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	clip, err := w.copyCells(a)
	if err != nil {
		return err
	}
	w.clip = clip
	return nil
}

// Cut puts a on the clipboard and clears it.
func (w *Workbook) Cut(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(a.Sheet, a); err != nil {
		return err
	}
	clip, err := w.copyCells(a)
	if err != nil {
		return err
	}
	clip.cut = true
	return w.mutate(func() error {
		w.clip = clip
		return cells(a, func(col, row int) error {
			return w.clearCell(a.Sheet, col, row, true)
		})
	})
}

func (w *Workbook) copyCells(a oosheet.Address) (*clipboard, error) {
	clip := &clipboard{src: a, cells: make([][]clipCell, a.Width())}
	for i := range clip.cells {
		clip.cells[i] = make([]clipCell, a.Height())
	}
	err := cells(a, func(col, row int) error {
		st, err := w.read(a.Sheet, col, row)
		if err != nil {
			return err
		}
		style, err := w.file.GetCellStyle(a.Sheet, oosheet.CellName(col, row))
		if err != nil {
			return err
		}
		clip.cells[col-a.StartCol][row-a.StartRow] = clipCell{cellState: st, style: style}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", a, err)
	}
	return clip, nil
}

// Paste writes the clipboard with its top-left cell at the top-left of a.
// Relative references of copied formulas follow the move; cut formulas are
// written unchanged.
func (w *Workbook) Paste(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clip == nil {
		return ErrClipboardEmpty
	}
	clip := w.clip
	target := oosheet.Address{
		Sheet:    a.Sheet,
		StartCol: a.StartCol,
		StartRow: a.StartRow,
		EndCol:   a.StartCol + clip.src.Width() - 1,
		EndRow:   a.StartRow + clip.src.Height() - 1,
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("paste at %s: %w", a, err)
	}
	if err := w.writable(a.Sheet, target); err != nil {
		return err
	}
	dcol, drow := target.StartCol-clip.src.StartCol, target.StartRow-clip.src.StartRow
	if clip.cut {
		dcol, drow = 0, 0
	}
	return w.mutate(func() error {
		return cells(target, func(col, row int) error {
			c := clip.cells[col-target.StartCol][row-target.StartRow]
			return w.place(target.Sheet, col, row, c, dcol, drow)
		})
	})
}

// place writes a captured cell, moving formula references by dcol, drow.
func (w *Workbook) place(sheet string, col, row int, c clipCell, dcol, drow int) error {
	cell := oosheet.CellName(col, row)
	var err error
	if c.formula != "" {
		delete(w.frozen, cellKey{sheet, col, row})
		err = w.file.SetCellFormula(sheet, cell, shiftFormula(c.formula, dcol, drow))
	} else {
		err = w.writeResult(sheet, col, row, c.result)
	}
	if err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return w.file.SetCellStyle(sheet, cell, cell, c.style)
}

// Delete clears values, formulas and formatting of a.
func (w *Workbook) Delete(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(a.Sheet, a); err != nil {
		return err
	}
	return w.mutate(func() error {
		return cells(a, func(col, row int) error {
			return w.clearCell(a.Sheet, col, row, true)
		})
	})
}

// InsertRows inserts n empty rows above a.
func (w *Workbook) InsertRows(a oosheet.Address, n int) error {
	return w.structural("insert rows", a, func() error {
		return w.file.InsertRows(a.Sheet, a.StartRow+1, n)
	})
}

// InsertColumns inserts n empty columns left of a.
func (w *Workbook) InsertColumns(a oosheet.Address, n int) error {
	return w.structural("insert columns", a, func() error {
		return w.file.InsertCols(a.Sheet, oosheet.ColumnName(a.StartCol), n)
	})
}

// DeleteRows removes the rows a spans.
func (w *Workbook) DeleteRows(a oosheet.Address) error {
	return w.structural("delete rows", a, func() error {
		for range a.Height() {
			if err := w.file.RemoveRow(a.Sheet, a.StartRow+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteColumns removes the columns a spans.
func (w *Workbook) DeleteColumns(a oosheet.Address) error {
	return w.structural("delete columns", a, func() error {
		for range a.Width() {
			if err := w.file.RemoveCol(a.Sheet, oosheet.ColumnName(a.StartCol)); err != nil {
				return err
			}
		}
		return nil
	})
}

// structural runs an edit that moves cells. Held formula results are
// dropped since their positions change.
func (w *Workbook) structural(op string, a oosheet.Address, fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.unprotected(a.Sheet); err != nil {
		return err
	}
	return w.mutate(func() error {
		clear(w.frozen)
		if err := fn(); err != nil {
			return fmt.Errorf("%s at %s: %w", op, a, err)
		}
		w.opts.logger.Debug(op, slog.String("target", a.Selector()))
		return nil
	})
}

// FormatCopy applies the styles of src to dest, repeating src as a tile
// when dest is larger.
func (w *Workbook) FormatCopy(src, dest oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(dest.Sheet, dest); err != nil {
		return err
	}
	return w.mutate(func() error {
		return cells(dest, func(col, row int) error {
			from := oosheet.CellName(
				src.StartCol+(col-dest.StartCol)%src.Width(),
				src.StartRow+(row-dest.StartRow)%src.Height(),
			)
			style, err := w.file.GetCellStyle(src.Sheet, from)
			if err != nil {
				return err
			}
			cell := oosheet.CellName(col, row)
			return w.file.SetCellStyle(dest.Sheet, cell, cell, style)
		})
	})
}

// Flatten replaces the formulas in a by their current results.
func (w *Workbook) Flatten(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	type flat struct {
		col, row int
		r        result
	}
	var pending []flat
	err := cells(a, func(col, row int) error {
		st, err := w.read(a.Sheet, col, row)
		if err != nil {
			return err
		}
		if st.formula != "" {
			pending = append(pending, flat{col, row, st.result})
		}
		return nil
	})
	if err != nil || len(pending) == 0 {
		return err
	}
	for _, p := range pending {
		if err := w.writable(a.Sheet, oosheet.CellAddress(a.Sheet, p.col, p.row)); err != nil {
			return err
		}
	}
	return w.mutate(func() error {
		for _, p := range pending {
			if err := w.writeResult(a.Sheet, p.col, p.row, p.r); err != nil {
				return err
			}
		}
		return nil
	})
}
