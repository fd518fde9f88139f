package oosheet

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

type cellKey struct {
	sheet    string
	col, row int
}

type memCell struct {
	value   float64
	text    string
	isText  bool
	formula string
	format  string
}

// memBackend is an in-memory Backend. Formulas are stored but not
// evaluated; commands are recorded in calls.
type memBackend struct {
	sheets    SheetList
	cells     map[cellKey]*memCell
	selection Address
	calls     []string
	groups    int
	failWith  error
}

func newMemBackend(sheets ...string) *memBackend {
	if len(sheets) == 0 {
		sheets = []string{"Sheet1", "Sheet2"}
	}
	return &memBackend{sheets: sheets, cells: make(map[cellKey]*memCell)}
}

// newTestDocument returns a document over a fresh memBackend.
func newTestDocument(t *testing.T, opts ...Option) (*Document, *memBackend) {
	t.Helper()
	b := newMemBackend()
	return New(b, opts...), b
}

// fillGrid writes base+col+row into every cell of sheet in the given
// bounds, like dragging a number right and down.
func (m *memBackend) fillGrid(sheet string, endCol, endRow int, base float64) {
	for col := 0; col <= endCol; col++ {
		for row := 0; row <= endRow; row++ {
			m.cell(sheet, col, row).value = base + float64(col+row)
		}
	}
}

func (m *memBackend) cell(sheet string, col, row int) *memCell {
	k := cellKey{sheet, col, row}
	c, ok := m.cells[k]
	if !ok {
		c = &memCell{}
		m.cells[k] = c
	}
	return c
}

func (m *memBackend) peek(sheet string, col, row int) memCell {
	if c, ok := m.cells[cellKey{sheet, col, row}]; ok {
		return *c
	}
	return memCell{}
}

func (m *memBackend) ResolveSheet(name string) (string, error) { return m.sheets.ResolveSheet(name) }

func (m *memBackend) Value(sheet string, col, row int) (float64, error) {
	c := m.peek(sheet, col, row)
	if c.isText {
		return 0, nil
	}
	return c.value, nil
}

func (m *memBackend) SetValue(sheet string, col, row int, v float64) error {
	if m.failWith != nil {
		return m.failWith
	}
	c := m.cell(sheet, col, row)
	c.value, c.text, c.isText, c.formula = v, "", false, ""
	return nil
}

func (m *memBackend) Text(sheet string, col, row int) (string, error) {
	c := m.peek(sheet, col, row)
	switch {
	case c.isText:
		return c.text, nil
	case c.value == 0 && c.formula == "":
		return "", nil
	}
	return strconv.FormatFloat(c.value, 'f', -1, 64), nil
}

func (m *memBackend) SetText(sheet string, col, row int, s string) error {
	c := m.cell(sheet, col, row)
	c.value, c.text, c.isText, c.formula = 0, s, true, ""
	return nil
}

func (m *memBackend) Formula(sheet string, col, row int) (string, error) {
	c := m.peek(sheet, col, row)
	if c.formula != "" {
		return c.formula, nil
	}
	return m.Text(sheet, col, row)
}

func (m *memBackend) SetFormula(sheet string, col, row int, formula string) error {
	c := m.cell(sheet, col, row)
	c.formula, c.text, c.isText = formula, "", false
	return nil
}

func (m *memBackend) IsEmpty(sheet string, col, row int) (bool, error) {
	c := m.peek(sheet, col, row)
	return c.value == 0 && c.text == "" && c.formula == "", nil
}

func (m *memBackend) NumberFormat(sheet string, col, row int) (string, error) {
	if f := m.peek(sheet, col, row).format; f != "" {
		return f, nil
	}
	return "General", nil
}

func (m *memBackend) SetNumberFormat(sheet string, col, row int, code string) error {
	m.cell(sheet, col, row).format = code
	return nil
}

func (m *memBackend) CellType(sheet string, col, row int) (CellType, error) {
	c := m.peek(sheet, col, row)
	switch {
	case c.isText:
		return CellText, nil
	case c.value == 0 && c.formula == "":
		return CellBlank, nil
	}
	return CellNumber, nil
}

func (m *memBackend) record(cmd string, addrs ...Address) error {
	parts := []string{cmd}
	for _, a := range addrs {
		parts = append(parts, a.Selector())
	}
	m.calls = append(m.calls, strings.Join(parts, " "))
	return m.failWith
}

func (m *memBackend) Focus(a Address) error {
	m.selection = a
	return m.record("focus", a)
}

func (m *memBackend) Selection() (Address, error) {
	if m.selection.Sheet == "" {
		return CellAddress(m.sheets[0], 0, 0), nil
	}
	return m.selection, nil
}

func (m *memBackend) Copy(a Address) error   { return m.record("copy", a) }
func (m *memBackend) Cut(a Address) error    { return m.record("cut", a) }
func (m *memBackend) Paste(a Address) error  { return m.record("paste", a) }
func (m *memBackend) Delete(a Address) error { return m.record("delete", a) }
func (m *memBackend) InsertRows(a Address, n int) error {
	return m.record(fmt.Sprintf("insert-rows(%d)", n), a)
}
func (m *memBackend) InsertColumns(a Address, n int) error {
	return m.record(fmt.Sprintf("insert-columns(%d)", n), a)
}
func (m *memBackend) DeleteRows(a Address) error         { return m.record("delete-rows", a) }
func (m *memBackend) DeleteColumns(a Address) error      { return m.record("delete-columns", a) }
func (m *memBackend) DragFill(src, dest Address) error   { return m.record("drag", src, dest) }
func (m *memBackend) FormatCopy(src, dest Address) error { return m.record("format", src, dest) }
func (m *memBackend) Flatten(a Address) error            { return m.record("flatten", a) }
func (m *memBackend) Protect(a Address) error            { return m.record("protect", a) }
func (m *memBackend) Unprotect(a Address) error          { return m.record("unprotect", a) }
func (m *memBackend) ProtectSheet(sheet, password string) error {
	return m.record(strings.TrimSpace("protect-sheet " + sheet + " " + password))
}
func (m *memBackend) UnprotectSheet(sheet, password string) error {
	return m.record(strings.TrimSpace("unprotect-sheet " + sheet + " " + password))
}
func (m *memBackend) Undo() error        { return m.record("undo") }
func (m *memBackend) Redo() error        { return m.record("redo") }
func (m *memBackend) Recalculate() error { return m.record("recalculate") }

func (m *memBackend) Group(fn func() error) error {
	m.groups++
	return fn()
}
