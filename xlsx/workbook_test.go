package xlsx

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Governa/oosheet"
)

// newTestWorkbook returns a workbook with sheets Sheet1 and Sheet2 and an
// empty undo history.
func newTestWorkbook(t *testing.T, opts ...Option) *Workbook {
	t.Helper()
	w := New(opts...)
	_, err := w.File().NewSheet("Sheet2")
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func at(t *testing.T, ref string) (col, row int) {
	t.Helper()
	col, row, err := oosheet.ParseCell(ref)
	require.NoError(t, err)
	return col, row
}

func addr(t *testing.T, w *Workbook, selector string) oosheet.Address {
	t.Helper()
	a, err := oosheet.ParseSelector(selector, w)
	require.NoError(t, err)
	return a
}

func setValue(t *testing.T, w *Workbook, ref string, v float64) {
	t.Helper()
	col, row := at(t, ref)
	require.NoError(t, w.SetValue("Sheet1", col, row, v))
}

func setText(t *testing.T, w *Workbook, ref, s string) {
	t.Helper()
	col, row := at(t, ref)
	require.NoError(t, w.SetText("Sheet1", col, row, s))
}

func setFormula(t *testing.T, w *Workbook, ref, f string) {
	t.Helper()
	col, row := at(t, ref)
	require.NoError(t, w.SetFormula("Sheet1", col, row, f))
}

func valueOf(t *testing.T, w *Workbook, ref string) float64 {
	t.Helper()
	col, row := at(t, ref)
	v, err := w.Value("Sheet1", col, row)
	require.NoError(t, err)
	return v
}

func textOf(t *testing.T, w *Workbook, ref string) string {
	t.Helper()
	col, row := at(t, ref)
	s, err := w.Text("Sheet1", col, row)
	require.NoError(t, err)
	return s
}

func formulaOf(t *testing.T, w *Workbook, ref string) string {
	t.Helper()
	col, row := at(t, ref)
	f, err := w.Formula("Sheet1", col, row)
	require.NoError(t, err)
	return f
}

func TestWorkbook_ResolveSheet(t *testing.T) {
	w := newTestWorkbook(t)

	assert.Equal(t, []string{"Sheet1", "Sheet2"}, w.Sheets())
	name, err := w.ResolveSheet("")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", name)

	_, err = w.ResolveSheet("Sheet3")
	assert.ErrorIs(t, err, oosheet.ErrMalformedAddress)

	require.NoError(t, w.AddSheet("Q1.2024"))
	a := addr(t, w, "Q1.2024.B2")
	assert.Equal(t, "Q1.2024", a.Sheet)
}

func TestWorkbook_WriteAndReopen(t *testing.T) {
	w := newTestWorkbook(t)
	setValue(t, w, "A1", 5)
	setFormula(t, w, "A2", "a1*3")
	setText(t, w, "B1", "hello")

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))

	again, err := OpenReader(&buf)
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 15.0, valueOf(t, again, "A2"))
	assert.Equal(t, "=A1*3", formulaOf(t, again, "A2"))
	assert.Equal(t, "hello", textOf(t, again, "B1"))
}

func TestWorkbook_SaveAsAndOpen(t *testing.T) {
	w := newTestWorkbook(t)
	setValue(t, w, "C3", 42)

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, w.SaveAs(path))

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 42.0, valueOf(t, again, "C3"))

	_, err = Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
