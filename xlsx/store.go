package xlsx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

// result is the computed content of a cell.
type result struct {
	kind oosheet.CellType
	raw  string // unformatted value, "1"/"0" or "TRUE"/"FALSE" for booleans
	text string // value rendered with the cell's number format
}

// cellState is a cell's content together with its formula, if any.
type cellState struct {
	result
	formula string // without the leading "="
}

func (r result) number() float64 {
	switch r.kind {
	case oosheet.CellNumber:
		v, _ := strconv.ParseFloat(r.raw, 64)
		return v
	case oosheet.CellBoolean:
		if isTrue(r.raw) {
			return 1
		}
	}
	return 0
}

func isTrue(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "TRUE")
}

// classify derives the result type of a computed formula value.
func classify(raw string) oosheet.CellType {
	switch {
	case raw == "":
		return oosheet.CellBlank
	case strings.HasPrefix(raw, "#"):
		return oosheet.CellError
	case raw == "TRUE" || raw == "FALSE":
		return oosheet.CellBoolean
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return oosheet.CellNumber
	}
	return oosheet.CellText
}

func (w *Workbook) read(sheet string, col, row int) (cellState, error) {
	cell := oosheet.CellName(col, row)
	formula, err := w.file.GetCellFormula(sheet, cell)
	if err != nil {
		return cellState{}, fmt.Errorf("read formula %s!%s: %w", sheet, cell, err)
	}
	if formula != "" {
		r, err := w.formulaResult(sheet, col, row)
		return cellState{result: r, formula: formula}, err
	}

	typ, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return cellState{}, fmt.Errorf("read type %s!%s: %w", sheet, cell, err)
	}
	raw, err := w.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return cellState{}, fmt.Errorf("read value %s!%s: %w", sheet, cell, err)
	}
	text, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return cellState{}, fmt.Errorf("read value %s!%s: %w", sheet, cell, err)
	}

	r := result{raw: raw, text: text}
	switch typ {
	case excelize.CellTypeBool:
		r.kind = oosheet.CellBoolean
		r.text = "FALSE"
		if isTrue(raw) {
			r.text = "TRUE"
		}
	case excelize.CellTypeError:
		r.kind = oosheet.CellError
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		r.kind = oosheet.CellText
	default:
		switch _, err := strconv.ParseFloat(raw, 64); {
		case raw == "":
			r.kind = oosheet.CellBlank
		case err == nil:
			r.kind = oosheet.CellNumber
		default:
			r.kind = oosheet.CellText
		}
	}
	return cellState{result: r}, nil
}

// formulaResult evaluates the formula at col, row. Evaluation errors such
// as #DIV/0! become error results rather than Go errors.
func (w *Workbook) formulaResult(sheet string, col, row int) (result, error) {
	key := cellKey{sheet, col, row}
	if !w.autoCalc {
		if r, ok := w.frozen[key]; ok {
			return r, nil
		}
	}
	cell := oosheet.CellName(col, row)
	raw, err := w.file.CalcCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		code, ok := errorValue(raw, err, w.formulaText(sheet, cell))
		if !ok {
			return result{}, fmt.Errorf("calculate %s!%s: %w", sheet, cell, err)
		}
		raw = code
	}
	r := result{kind: classify(raw), raw: raw, text: raw}
	if r.kind == oosheet.CellNumber {
		if text, err := w.file.CalcCellValue(sheet, cell); err == nil {
			r.text = text
		}
	}
	if !w.autoCalc {
		w.frozen[key] = r
	}
	return r, nil
}

// errorValue maps a failed calculation to the error value the cell shows.
// excelize reports error values such as #DIV/0! through err, and rejects
// formulas holding a #REF! operand as invalid.
func errorValue(raw string, err error, formula string) (string, bool) {
	switch {
	case strings.HasPrefix(raw, "#"):
		return raw, true
	case strings.HasPrefix(err.Error(), "#"):
		return err.Error(), true
	case errors.Is(err, excelize.ErrInvalidFormula) && strings.Contains(strings.ToUpper(formula), refError):
		return refError, true
	}
	return "", false
}

func (w *Workbook) formulaText(sheet, cell string) string {
	formula, _ := w.file.GetCellFormula(sheet, cell)
	return formula
}

// Value returns the numeric value of a cell: 0 for text, blanks and
// errors, 1 or 0 for booleans.
func (w *Workbook) Value(sheet string, col, row int) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.read(sheet, col, row)
	return st.number(), err
}

// Text returns the cell as displayed.
func (w *Workbook) Text(sheet string, col, row int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.read(sheet, col, row)
	return st.text, err
}

// Formula returns "=" plus the formula of a formula cell, otherwise the
// literal content. Text that would read back as a number or a formula is
// prefixed with an apostrophe.
func (w *Workbook) Formula(sheet string, col, row int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.read(sheet, col, row)
	if err != nil {
		return "", err
	}
	if st.formula != "" {
		return "=" + st.formula, nil
	}
	switch st.kind {
	case oosheet.CellText:
		if _, err := strconv.ParseFloat(st.raw, 64); err == nil || strings.HasPrefix(st.raw, "=") {
			return "'" + st.raw, nil
		}
		return st.raw, nil
	case oosheet.CellBoolean:
		return st.text, nil
	}
	return st.raw, nil
}

// IsEmpty reports whether a cell has value 0, no text and no formula. A
// cell holding the empty string is empty.
func (w *Workbook) IsEmpty(sheet string, col, row int) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.read(sheet, col, row)
	return st.formula == "" && st.number() == 0 && st.text == "", err
}

// CellType returns the type of the cell's value, or of a formula's result.
func (w *Workbook) CellType(sheet string, col, row int) (oosheet.CellType, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.read(sheet, col, row)
	return st.kind, err
}

// SetValue writes a number, keeping the cell's style.
func (w *Workbook) SetValue(sheet string, col, row int, v float64) error {
	return w.write(sheet, col, row, func(cell string) error {
		return w.file.SetCellFloat(sheet, cell, v, -1, 64)
	})
}

// SetText writes a text value, keeping the cell's style.
func (w *Workbook) SetText(sheet string, col, row int, s string) error {
	return w.write(sheet, col, row, func(cell string) error {
		return w.file.SetCellStr(sheet, cell, s)
	})
}

// SetFormula writes a formula. A leading "=" is optional and ";" is
// accepted as argument separator.
func (w *Workbook) SetFormula(sheet string, col, row int, formula string) error {
	formula = normalizeFormula(formula)
	err := w.write(sheet, col, row, func(cell string) error {
		return w.file.SetCellFormula(sheet, cell, formula)
	})
	if err != nil || w.AutoCalculate() {
		return err
	}

	// freeze the result the formula has now
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.formulaResult(sheet, col, row)
	return err
}

// write replaces the content of one cell through set, which receives the
// cell name. Any previous formula is dropped first.
func (w *Workbook) write(sheet string, col, row int, set func(cell string) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(sheet, oosheet.CellAddress(sheet, col, row)); err != nil {
		return err
	}
	return w.mutate(func() error {
		cell := oosheet.CellName(col, row)
		if err := w.clearFormula(sheet, cell); err != nil {
			return err
		}
		delete(w.frozen, cellKey{sheet, col, row})
		if err := set(cell); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
		return nil
	})
}

func (w *Workbook) clearFormula(sheet, cell string) error {
	formula, err := w.file.GetCellFormula(sheet, cell)
	if err != nil || formula == "" {
		return err
	}
	return w.file.SetCellFormula(sheet, cell, "")
}

// clearCell removes value and formula. With style set, the cell also
// falls back to the default style.
func (w *Workbook) clearCell(sheet string, col, row int, style bool) error {
	cell := oosheet.CellName(col, row)
	if err := w.clearFormula(sheet, cell); err != nil {
		return err
	}
	delete(w.frozen, cellKey{sheet, col, row})
	if err := w.file.SetCellDefault(sheet, cell, ""); err != nil {
		return fmt.Errorf("clear %s!%s: %w", sheet, cell, err)
	}
	if style {
		return w.file.SetCellStyle(sheet, cell, cell, 0)
	}
	return nil
}

// writeResult stores a computed result as a literal value.
func (w *Workbook) writeResult(sheet string, col, row int, r result) error {
	cell := oosheet.CellName(col, row)
	if err := w.clearFormula(sheet, cell); err != nil {
		return err
	}
	delete(w.frozen, cellKey{sheet, col, row})
	switch r.kind {
	case oosheet.CellNumber:
		return w.file.SetCellFloat(sheet, cell, r.number(), -1, 64)
	case oosheet.CellBoolean:
		return w.file.SetCellBool(sheet, cell, isTrue(r.raw))
	case oosheet.CellBlank:
		return w.file.SetCellDefault(sheet, cell, "")
	}
	return w.file.SetCellStr(sheet, cell, r.raw)
}
