// Package xlsx implements the oosheet backend over an Office Open XML
// workbook, using excelize for storage and formula evaluation.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

var (
	// ErrProtected is returned for writes into locked cells of a protected
	// sheet, and for structural edits of a protected sheet.
	ErrProtected = errors.New("xlsx: protected")

	// ErrPassword is returned when unprotecting a sheet with a missing or
	// wrong password.
	ErrPassword = errors.New("xlsx: incorrect sheet password")

	// ErrClipboardEmpty is returned by Paste before any Copy or Cut.
	ErrClipboardEmpty = errors.New("xlsx: clipboard is empty")
)

var (
	_ oosheet.Backend      = (*Workbook)(nil)
	_ oosheet.Grouper      = (*Workbook)(nil)
	_ oosheet.WriteChecker = (*Workbook)(nil)
)

// Workbook is an oosheet.Backend over an excelize file.
//
// Workbook serialises its own calls with a mutex. Undo and Redo replace
// the underlying *excelize.File, so callers should fetch it through File
// rather than keep the pointer passed to Wrap.
type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	opts *Options

	autoCalc bool
	frozen   map[cellKey]result // formula results held while autoCalc is off
	styles   map[styleKey]int   // derived style IDs, see restyle

	protected map[string]bool // sheets under protection
	passwords map[string]bool // protected sheets that need a password

	clip *clipboard
	hist history
}

type cellKey struct {
	sheet    string
	col, row int
}

// New creates a Workbook over a new file with a single sheet "Sheet1".
func New(opts ...Option) *Workbook {
	return Wrap(excelize.NewFile(), opts...)
}

// Open opens the workbook at path.
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return Wrap(f, opts...), nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook reader: %w", err)
	}
	return Wrap(f, opts...), nil
}

// Wrap creates a Workbook over an already opened file.
func Wrap(f *excelize.File, opts ...Option) *Workbook {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Workbook{
		file:      f,
		opts:      o,
		autoCalc:  o.autoCalculate,
		frozen:    make(map[cellKey]result),
		styles:    make(map[styleKey]int),
		protected: make(map[string]bool),
		passwords: make(map[string]bool),
	}
}

// File returns the current underlying file.
func (w *Workbook) File() *excelize.File {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// Write writes the workbook to out.
func (w *Workbook) Write(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList()
}

// AddSheet appends an empty sheet named name.
func (w *Workbook) AddSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutate(func() error {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
		return nil
	})
}

// ResolveSheet implements oosheet.SheetResolver: "" is the first sheet and
// other names must match a sheet exactly.
func (w *Workbook) ResolveSheet(name string) (string, error) {
	return oosheet.SheetList(w.Sheets()).ResolveSheet(name)
}

// SetAutoCalculate switches automatic calculation. Switching it off holds
// the current result of every formula; formulas written while it is off get
// the result they have when written. Held results stay until Recalculate or
// until calculation is switched back on.
func (w *Workbook) SetAutoCalculate(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if on == w.autoCalc {
		return nil
	}
	w.autoCalc = on
	clear(w.frozen)
	w.opts.logger.Debug("auto calculate", slog.Bool("on", on))
	if on {
		return nil
	}
	return w.freeze()
}

// AutoCalculate reports whether automatic calculation is on.
func (w *Workbook) AutoCalculate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.autoCalc
}

// Recalculate recomputes every formula result.
func (w *Workbook) Recalculate() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.frozen)
	w.opts.logger.Debug("recalculate")
	if w.autoCalc {
		return nil
	}
	return w.freeze()
}

// freeze computes and holds the result of every formula in the workbook.
func (w *Workbook) freeze() error {
	for _, sheet := range w.file.GetSheetList() {
		rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("scan %q: %w", sheet, err)
		}
		for row, cols := range rows {
			for col := range cols {
				formula, err := w.file.GetCellFormula(sheet, oosheet.CellName(col, row))
				if err != nil {
					return err
				}
				if formula == "" {
					continue
				}
				if _, err := w.formulaResult(sheet, col, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// cells calls fn for every cell of a in column-major order.
func cells(a oosheet.Address, fn func(col, row int) error) error {
	for col := a.StartCol; col <= a.EndCol; col++ {
		for row := a.StartRow; row <= a.EndRow; row++ {
			if err := fn(col, row); err != nil {
				return err
			}
		}
	}
	return nil
}
