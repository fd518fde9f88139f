package xlsx

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

// Protect marks the cells of a as locked. Locks apply while the sheet is
// protected. Cells without an explicit flag are locked.
func (w *Workbook) Protect(a oosheet.Address) error {
	return w.setLocked(a, true)
}

// Unprotect marks the cells of a as unlocked.
func (w *Workbook) Unprotect(a oosheet.Address) error {
	return w.setLocked(a, false)
}

func (w *Workbook) setLocked(a oosheet.Address, locked bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.protected[a.Sheet] {
		return fmt.Errorf("%w: sheet %q: cell protection cannot change", ErrProtected, a.Sheet)
	}
	change := fmt.Sprintf("locked=%t", locked)
	return w.mutate(func() error {
		return cells(a, func(col, row int) error {
			return w.restyle(a.Sheet, oosheet.CellName(col, row), change, func(s *excelize.Style) {
				hidden := s.Protection != nil && s.Protection.Hidden
				s.Protection = &excelize.Protection{Locked: locked, Hidden: hidden}
			})
		})
	})
}

// ProtectSheet protects sheet, with a password unless password is empty.
// Protecting a protected sheet does nothing.
func (w *Workbook) ProtectSheet(sheet, password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.protected[sheet] {
		return nil
	}
	return w.mutate(func() error {
		err := w.file.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			Password:            password,
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
		if err != nil {
			return fmt.Errorf("protect sheet %q: %w", sheet, err)
		}
		w.protected[sheet] = true
		w.passwords[sheet] = password != ""
		w.opts.logger.Debug("sheet protected", slog.String("sheet", sheet), slog.Bool("password", password != ""))
		return nil
	})
}

// UnprotectSheet removes the protection of sheet. A sheet protected with a
// password needs the same password; for other sheets password is ignored.
// Unprotecting an unprotected sheet does nothing.
func (w *Workbook) UnprotectSheet(sheet, password string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.protected[sheet] {
		return nil
	}
	var args []string
	if w.passwords[sheet] {
		if password == "" {
			return fmt.Errorf("%w: sheet %q", ErrPassword, sheet)
		}
		args = append(args, password)
	}
	return w.mutate(func() error {
		if err := w.file.UnprotectSheet(sheet, args...); err != nil {
			if errors.Is(err, excelize.ErrUnprotectSheetPassword) {
				return fmt.Errorf("%w: sheet %q", ErrPassword, sheet)
			}
			return fmt.Errorf("unprotect sheet %q: %w", sheet, err)
		}
		delete(w.protected, sheet)
		delete(w.passwords, sheet)
		w.opts.logger.Debug("sheet unprotected", slog.String("sheet", sheet))
		return nil
	})
}

// IsProtected reports whether sheet is protected.
func (w *Workbook) IsProtected(sheet string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.protected[sheet]
}

// CheckWrite implements oosheet.WriteChecker: it fails with ErrProtected
// when a covers a locked cell of a protected sheet.
func (w *Workbook) CheckWrite(a oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writable(a.Sheet, a)
}

// writable fails with ErrProtected when a covers a locked cell of a
// protected sheet.
func (w *Workbook) writable(sheet string, a oosheet.Address) error {
	if !w.protected[sheet] {
		return nil
	}
	return cells(a, func(col, row int) error {
		cell := oosheet.CellName(col, row)
		locked, err := w.locked(sheet, cell)
		if err != nil {
			return err
		}
		if locked {
			return fmt.Errorf("%w: %s!%s is locked", ErrProtected, sheet, cell)
		}
		return nil
	})
}

// unprotected fails with ErrProtected when sheet is protected. Structural
// edits use it.
func (w *Workbook) unprotected(sheet string) error {
	if w.protected[sheet] {
		return fmt.Errorf("%w: sheet %q", ErrProtected, sheet)
	}
	return nil
}

func (w *Workbook) locked(sheet, cell string) (bool, error) {
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, fmt.Errorf("read style %s!%s: %w", sheet, cell, err)
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return false, fmt.Errorf("read style %d: %w", id, err)
	}
	if style.Protection == nil {
		return true, nil
	}
	return style.Protection.Locked, nil
}
