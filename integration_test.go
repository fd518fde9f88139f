package oosheet_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Governa/oosheet"
	"github.com/Governa/oosheet/xlsx"
)

// newDocument returns a document over an in-memory workbook with sheets
// Sheet1 and Sheet2.
func newDocument(t *testing.T, opts ...xlsx.Option) (*oosheet.Document, *xlsx.Workbook) {
	t.Helper()
	w := xlsx.New(opts...)
	_, err := w.File().NewSheet("Sheet2")
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return oosheet.New(w), w
}

func value(t *testing.T, doc *oosheet.Document, selector string) float64 {
	t.Helper()
	v, err := doc.Range(selector).Value()
	require.NoError(t, err)
	return v
}

func text(t *testing.T, doc *oosheet.Document, selector string) string {
	t.Helper()
	s, err := doc.Range(selector).Text()
	require.NoError(t, err)
	return s
}

func formula(t *testing.T, doc *oosheet.Document, selector string) string {
	t.Helper()
	f, err := doc.Range(selector).Formula()
	require.NoError(t, err)
	return f
}

func TestXLSX_CellContent(t *testing.T) {
	doc, _ := newDocument(t)

	require.NoError(t, doc.Range("a1").SetValue(10).Err())
	assert.Equal(t, 10.0, value(t, doc, "a1"))
	assert.Equal(t, "10", formula(t, doc, "a1"))
	assert.Equal(t, "10", text(t, doc, "a1"))

	require.NoError(t, doc.Range("b1").SetText("10").Err())
	assert.Equal(t, "'10", formula(t, doc, "b1"))
	assert.Zero(t, value(t, doc, "b1"))

	require.NoError(t, doc.Range("a2").SetFormula("=a1+5").Err())
	assert.Equal(t, 15.0, value(t, doc, "a2"))
	assert.Equal(t, "15", text(t, doc, "a2"))
	assert.Equal(t, "=A1+5", formula(t, doc, "a2"))
}

func TestXLSX_Dates(t *testing.T) {
	doc, _ := newDocument(t)
	day := time.Date(2010, 12, 17, 0, 0, 0, 0, time.UTC)

	r := doc.Range("a1").SetDate(day)
	require.NoError(t, r.Err())
	got, err := r.Date()
	require.NoError(t, err)
	assert.True(t, day.Equal(got), "got %s", got)

	require.NoError(t, r.SetDate(got.AddDate(0, 0, 5)).Err())
	got, err = r.Date()
	require.NoError(t, err)
	assert.Equal(t, 22, got.Day())
	assert.Contains(t, text(t, doc, "a1"), "/")
}

func TestXLSX_MultipleCells(t *testing.T) {
	doc, _ := newDocument(t)

	require.NoError(t, doc.Range("a1:g10").SetValue(5).Err())
	assert.Equal(t, 5.0, value(t, doc, "d5"))

	require.NoError(t, doc.Range("a1:g10").SetText("hello").Err())
	assert.Equal(t, "hello", text(t, doc, "e8"))

	require.NoError(t, doc.Range("a1").SetValue(1).Err())
	require.NoError(t, doc.Range("a2:g5").SetFormula("=a1+3").Err())
	assert.Equal(t, 4.0, value(t, doc, "b3"))

	require.NoError(t, doc.Range("a1:h11").Delete().Err())
	require.NoError(t, doc.Range("b2:g10").SetValue(17).Err())
	assert.Zero(t, value(t, doc, "a1"))
	assert.Zero(t, value(t, doc, "h11"))
	assert.Equal(t, 17.0, value(t, doc, "g10"))
}

func TestXLSX_DragTo(t *testing.T) {
	doc, _ := newDocument(t)

	require.NoError(t, doc.Range("a1").SetValue(1).DragTo("a5").Err())
	assert.Equal(t, 5.0, value(t, doc, "a5"))

	require.NoError(t, doc.Range("a1").SetText("hello").DragTo("a5").Err())
	assert.Equal(t, "hello", text(t, doc, "a5"))

	require.NoError(t, doc.Range("a1").SetValue(1).Err())
	require.NoError(t, doc.Range("a2").SetFormula("=a1*2").DragTo("a5").Err())
	assert.Equal(t, 16.0, value(t, doc, "a5"))

	r := doc.Range("a1").SetDate(time.Date(2011, 1, 13, 0, 0, 0, 0, time.UTC)).DragTo("a5")
	require.NoError(t, r.Err())
	got, err := doc.Range("a5").Date()
	require.NoError(t, err)
	assert.Equal(t, 17, got.Day())
}

func TestXLSX_DragToCascades(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(10)
	doc.Range("a2").SetValue(20)
	doc.Range("a3").SetValue(30)

	require.NoError(t, doc.Range("a1:a3").DragTo("b3").Err())
	assert.Equal(t, 11.0, value(t, doc, "b1"))
	assert.Equal(t, 21.0, value(t, doc, "b2"))
	assert.Equal(t, 31.0, value(t, doc, "b3"))

	r := doc.Range("c1").SetValue(1).DragTo("c5").DragTo("e5")
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.C1:E5", r.Selector())
	assert.Equal(t, 7.0, value(t, doc, "e5"))
}

func TestXLSX_OtherSheet(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(2)
	doc.Range("Sheet2.a1").SetValue(5)
	doc.Range("Sheet2.a2").SetValue(3)

	require.NoError(t, doc.Range("Sheet2.a1:a2").DragTo("b2").Err())
	assert.Equal(t, 2.0, value(t, doc, "a1"))
	assert.Equal(t, 6.0, value(t, doc, "Sheet2.b1"))
	assert.Equal(t, 4.0, value(t, doc, "Sheet2.b2"))

	err := doc.Range("a1").DragTo("Sheet2.a3").Err()
	assert.ErrorIs(t, err, oosheet.ErrCrossSheet)
}

func TestXLSX_InsertRows(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(11)
	doc.Range("b2").SetFormula("=a1+5")

	r := doc.Range("b2").InsertRows(5)
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.B2:B7", r.Selector())
	assert.Equal(t, "=A1+5", formula(t, doc, "b7"))

	require.NoError(t, r.SetValue(5).Err())
	assert.Equal(t, 5.0, value(t, doc, "b2"))
	assert.Equal(t, 5.0, value(t, doc, "b7"))
}

func TestXLSX_InsertRowThenDrag(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(10)
	doc.Range("a2").SetFormula("=a1+5")
	doc.Range("b1").SetValue(12)

	require.NoError(t, doc.Range("a2").InsertRow().DragTo("b3").Err())
	assert.Equal(t, 17.0, value(t, doc, "b3"))
}

func TestXLSX_InsertColumns(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(11)
	doc.Range("b2").SetFormula("=a1+5")

	r := doc.Range("b2").InsertColumns(5)
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.B2:G2", r.Selector())
	assert.Equal(t, "=A1+5", formula(t, doc, "g2"))

	require.NoError(t, r.SetValue(6).Err())
	assert.Equal(t, 6.0, value(t, doc, "d2"))
}

func TestXLSX_DeleteRowsAndColumns(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("d5").SetValue(2)

	require.NoError(t, doc.Range("a2").DeleteRows().Err())
	assert.Equal(t, 2.0, value(t, doc, "d4"))
	require.NoError(t, doc.Range("a1:a3").DeleteRows().Err())
	assert.Equal(t, 2.0, value(t, doc, "d1"))

	require.NoError(t, doc.Range("a2").DeleteColumns().Err())
	assert.Equal(t, 2.0, value(t, doc, "c1"))
	require.NoError(t, doc.Range("a1:b1").DeleteColumns().Err())
	assert.Equal(t, 2.0, value(t, doc, "a1"))
}

func TestXLSX_CopyCutPaste(t *testing.T) {
	doc, _ := newDocument(t)
	r := doc.Range("a1").SetValue(12).Copy().SetValue(15).ShiftRight(1).Paste().
		ShiftDown(1).SetValue(18).Cut().ShiftLeft(1).Paste()
	require.NoError(t, r.Err())

	assert.Equal(t, 15.0, value(t, doc, "a1"))
	assert.Equal(t, 12.0, value(t, doc, "b1"))
	assert.Zero(t, value(t, doc, "b2"))
	assert.Equal(t, 18.0, value(t, doc, "a2"))
}

func TestXLSX_UndoRedo(t *testing.T) {
	doc, _ := newDocument(t)
	for i := 1; i <= 5; i++ {
		doc.Range("a1").SetValue(float64(i))
	}

	require.NoError(t, doc.Undo())
	assert.Equal(t, 4.0, value(t, doc, "a1"))
	require.NoError(t, doc.Undo())
	require.NoError(t, doc.Undo())
	assert.Equal(t, 2.0, value(t, doc, "a1"))
	require.NoError(t, doc.Redo())
	assert.Equal(t, 3.0, value(t, doc, "a1"))
	require.NoError(t, doc.Redo())
	assert.Equal(t, 4.0, value(t, doc, "a1"))
	require.NoError(t, doc.Undo())
	assert.Equal(t, 3.0, value(t, doc, "a1"))
}

func TestXLSX_RangeWriteIsOneUndoStep(t *testing.T) {
	doc, _ := newDocument(t)
	require.NoError(t, doc.Range("a1:c3").SetValue(9).Err())
	require.NoError(t, doc.Undo())

	assert.Zero(t, value(t, doc, "a1"))
	assert.Zero(t, value(t, doc, "c3"))
}

func TestXLSX_ShiftUntil(t *testing.T) {
	doc, _ := newDocument(t)
	date := time.Date(2011, 1, 20, 0, 0, 0, 0, time.UTC)
	doc.Range("c10").SetText("total")
	doc.Range("d11").SetValue(19)
	doc.Range("e12").SetValue(19.5)
	doc.Range("f13").SetDate(date)
	doc.Range("c14").SetValue(20)

	tests := []struct {
		from string
		cond oosheet.Condition
		down bool
		want string
	}{
		{"a1:z1", oosheet.ColumnEquals("c", "total"), true, "Sheet1.A10:Z10"},
		{"a1:z1", oosheet.ColumnEquals("d", 19), true, "Sheet1.A11:Z11"},
		{"a1:z1", oosheet.ColumnEquals("e", 19.5), true, "Sheet1.A12:Z12"},
		{"a1:z1", oosheet.ColumnEquals("f", date), true, "Sheet1.A13:Z13"},
		{"a1:z2", oosheet.ColumnEquals("c", "total"), true, "Sheet1.A9:Z10"},
		{"a1:c30", oosheet.RowEquals(11, 19), false, "Sheet1.B1:D30"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			r := doc.Range(tt.from)
			if tt.down {
				r = r.ShiftDownUntil(tt.cond)
			} else {
				r = r.ShiftRightUntil(tt.cond)
			}
			require.NoError(t, r.Err())
			assert.Equal(t, tt.want, r.Selector())
		})
	}
}

func TestXLSX_ShiftUntilNormalisesText(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("c10").SetText("fue\u0301")

	r := doc.Range("a1:d1").ShiftDownUntil(oosheet.ColumnEquals("c", "fu\u00e9").Normalized())
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.A10:D10", r.Selector())
}

func TestXLSX_GrowAndShrinkUntil(t *testing.T) {
	doc, _ := newDocument(t)
	require.NoError(t, doc.Range("a1").SetValue(5).DragTo("a10").DragTo("g10").Err())

	r := doc.Range("b3").GrowDownUntil(oosheet.ColumnEquals("c", 15))
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.B3:B9", r.Selector())

	r = doc.Range("b2:f9").ShrinkDownUntil(oosheet.ColumnEquals("f", 13))
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.B2:F4", r.Selector())

	over14, err := oosheet.Expr("value > 14")
	require.NoError(t, err)
	r = doc.Range("b3").GrowDownUntil(oosheet.ColumnSatisfies("d", over14))
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.B3:B8", r.Selector())
}

func TestXLSX_Flatten(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(5)
	doc.Range("a2").SetFormula("=a1+3").Flatten()
	doc.Range("a1").SetValue(10)
	assert.Equal(t, 8.0, value(t, doc, "a2"))

	require.NoError(t, doc.Range("a2").SetFormula("=a1+3").DragTo("a10").Err())
	require.NoError(t, doc.Range("a1:a10").Flatten().Err())
	doc.Range("a1").SetValue(0)
	assert.Equal(t, 13.0, value(t, doc, "a2"))
	assert.Equal(t, 25.0, value(t, doc, "a6"))
	assert.Equal(t, 37.0, value(t, doc, "a10"))
}

func TestXLSX_FlattenText(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetText("Hello World")
	require.NoError(t, doc.Range("a2").SetFormula(`=SUBSTITUTE(A1; "World"; "Moon")`).Flatten().Err())
	doc.Range("a1").SetText("asdf")

	assert.Equal(t, "Hello Moon", text(t, doc, "a2"))
}

func TestXLSX_Protection(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").Unprotect()
	doc.Range("a2").Protect()
	doc.Range("a1").SetValue(10)
	doc.Range("a2").SetValue(15)

	require.NoError(t, doc.Range("a2").ProtectSheet().Err())
	require.NoError(t, doc.Range("a1").SetValue(11).Err())
	assert.ErrorIs(t, doc.Range("a2").SetValue(12).Err(), xlsx.ErrProtected)
	assert.Equal(t, 11.0, value(t, doc, "a1"))
	assert.Equal(t, 15.0, value(t, doc, "a2"))

	assert.ErrorIs(t, doc.Range("a1").DragTo("a10").Err(), xlsx.ErrProtected)
	assert.Zero(t, value(t, doc, "a10"))

	require.NoError(t, doc.Range("a2").UnprotectSheet().Err())
	require.NoError(t, doc.Range("a1").SetValue(1).DragTo("a10").Err())
	assert.Equal(t, 2.0, value(t, doc, "a2"))
	assert.Equal(t, 10.0, value(t, doc, "a10"))

	require.NoError(t, doc.Range("Sheet2.a1").ProtectSheet().Err())
	require.NoError(t, doc.Range("Sheet1.a1").SetValue(17).Err())
}

func TestXLSX_SheetPassword(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").Unprotect()
	doc.Range("a2").SetValue(5)
	require.NoError(t, doc.Range("a1").SetValue(10).DragTo("a3").Err())
	assert.Equal(t, 11.0, value(t, doc, "a2"))

	require.NoError(t, doc.Range("a2").Protect().ProtectSheet("secretpassword").Err())
	assert.ErrorIs(t, doc.Range("a1").SetValue(20).DragTo("a3").Err(), xlsx.ErrProtected)
	assert.Equal(t, 11.0, value(t, doc, "a2"))

	assert.ErrorIs(t, doc.Range("a2").UnprotectSheet().Err(), xlsx.ErrPassword)

	require.NoError(t, doc.Range("a2").UnprotectSheet("secretpassword").Err())
	require.NoError(t, doc.Range("a1").SetValue(40).DragTo("a3").Err())
	assert.Equal(t, 41.0, value(t, doc, "a2"))
}

func TestXLSX_Selection(t *testing.T) {
	doc, _ := newDocument(t)
	for _, selector := range []string{"Sheet1.A1", "Sheet1.B2:G10", "Sheet2.B2:G10"} {
		require.NoError(t, doc.Range(selector).Focus().Err())
		sel, err := doc.Selection()
		require.NoError(t, err)
		assert.Equal(t, selector, sel.Selector())
	}
}

func TestXLSX_FormatAs(t *testing.T) {
	doc, w := newDocument(t)
	require.NoError(t, w.SetNumberFormat("Sheet1", 0, 0, "dddd, mmmm dd, yyyy"))
	doc.Range("a1").SetDate(time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC))
	doc.Range("a2:3").SetDate(time.Date(2011, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Tuesday, March 01, 2011", text(t, doc, "a1"))

	require.NoError(t, doc.Range("a2").FormatAs("a1").Err())
	assert.Equal(t, "Wednesday, March 02, 2011", text(t, doc, "a2"))

	require.NoError(t, doc.Range("a3").FormatAsRange(doc.Range("a1")).Err())
	assert.Equal(t, "Wednesday, March 02, 2011", text(t, doc, "a3"))
}

func TestXLSX_DataArray(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(1)
	doc.Range("a2").SetFormula("=a1 * 2").DragTo("a7")
	doc.Range("b1").SetFormula("=a1 * 1.5").DragTo("b7")
	require.NoError(t, doc.Range("b1:b7").DragTo("d7").Err())

	data, err := doc.Range("a1:7").DataArray()
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Len(t, data[0], 7)
	assert.Equal(t, 4.0, data[0][2])

	data, err = doc.Range("a1:d7").DataArray()
	require.NoError(t, err)
	require.Len(t, data, 4)
	assert.Equal(t, 48.0, data[1][5])
	assert.Equal(t, 72.0, data[2][5])
}

func TestXLSX_Iteration(t *testing.T) {
	doc, _ := newDocument(t)
	i := 10.0
	for row := range doc.Range("a2:d10").Rows() {
		require.NoError(t, row.SetValue(i).Err())
		i++
	}
	assert.Equal(t, 10.0, value(t, doc, "d2"))
	assert.Equal(t, 18.0, value(t, doc, "a10"))
	assert.Zero(t, value(t, doc, "a11"))

	for cell := range doc.Range("f1:g3").Cells() {
		require.NoError(t, cell.SetValue(32).Err())
	}
	assert.Equal(t, 32.0, value(t, doc, "g3"))
}

func TestXLSX_FindMatchesText(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetText("10")
	doc.Range("a2").SetValue(10)
	doc.Range("a3").SetFormula("=5*2")
	doc.Range("a4").SetFormula("=1=1")

	var found []string
	for cell, err := range doc.Range("a1:a4").Find(oosheet.Equals(10)) {
		require.NoError(t, err)
		found = append(found, cell.Address().Ref())
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, found)

	found = nil
	for cell, err := range doc.Range("a1:a4").Find(oosheet.Equals(true)) {
		require.NoError(t, err)
		found = append(found, cell.Address().Ref())
	}
	assert.Equal(t, []string{"A4"}, found)
}

func TestXLSX_ErrorValuesDoNotStopReads(t *testing.T) {
	doc, _ := newDocument(t)
	doc.Range("a1").SetValue(1)
	doc.Range("a2").SetFormula("=1/0")
	doc.Range("a3").SetText("stop")

	data, err := doc.Range("a1:a3").DataArray()
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1.0, "#DIV/0!", "stop"}}, data)

	r := doc.Range("a1").ShiftDownUntil(oosheet.Equals("stop"))
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.A3", r.Selector())

	typ, err := doc.Range("a2").CellType()
	require.NoError(t, err)
	assert.Equal(t, oosheet.CellError, typ)
}

func TestXLSX_Find(t *testing.T) {
	doc, _ := newDocument(t)
	words := strings.Fields("there are several cells with single words in it")
	i := 0
	for cell := range doc.Range("a1:d8").Cells() {
		cell.SetText(words[i%len(words)])
		i++
	}

	var found []string
	for cell, err := range doc.Range("a1:g10").Find(oosheet.Equals("words")) {
		require.NoError(t, err)
		found = append(found, cell.Selector())
	}
	assert.Equal(t, []string{"Sheet1.D1", "Sheet1.A7", "Sheet1.B8"}, found)

	hasL, err := oosheet.Expr(`text contains "l"`)
	require.NoError(t, err)
	n := 0
	for _, err := range doc.Range("a1:g10").Find(oosheet.Satisfies(hasL)) {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 11, n)
}

func TestXLSX_AutoCalculate(t *testing.T) {
	doc, w := newDocument(t)
	doc.Range("a1").SetValue(10)
	doc.Range("a2").SetFormula("=a1+5")

	require.NoError(t, w.SetAutoCalculate(false))
	doc.Range("a1").SetValue(11)
	assert.Equal(t, 15.0, value(t, doc, "a2"))

	require.NoError(t, doc.Recalculate())
	assert.Equal(t, 16.0, value(t, doc, "a2"))
}
