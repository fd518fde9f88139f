package oosheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr_Predicate(t *testing.T) {
	doc, b := newTestDocument(t)
	b.fillGrid("Sheet1", 0, 9, 10) // A1:A10 = 10..19
	b.SetText("Sheet1", 1, 0, "total")

	p, err := Expr(`value > 14 && text endsWith "8"`)
	require.NoError(t, err)

	r := doc.Range("a1").ShiftUntil(0, 1, Satisfies(p))
	require.NoError(t, r.Err())
	assert.Equal(t, "Sheet1.A9", r.String())

	p, err = Expr(`col == "B" && row == 1 && text == "total" && !empty`)
	require.NoError(t, err)
	ok, err := p(doc.Range("b1"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p(doc.Range("a1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpr_Date(t *testing.T) {
	doc, b := newTestDocument(t)
	b.SetValue("Sheet1", 0, 0, 40563) // 2011-01-20

	p, err := Expr(`date.Year() == 2011 && date.Day() == 20`)
	require.NoError(t, err)
	ok, err := p(doc.Range("a1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpr_CompileErrors(t *testing.T) {
	_, err := Expr(`value >`)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = Expr(`value + 1`)
	assert.ErrorIs(t, err, ErrPrecondition, "non-boolean result")

	_, err = Expr(`nosuchfield == 1`)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestExpr_NeedsSingleCell(t *testing.T) {
	doc, _ := newTestDocument(t)
	p, err := Expr(`empty`)
	require.NoError(t, err)

	_, err = p(doc.Range("a1:b2"))
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestExpr_Cached(t *testing.T) {
	a, err := compileExpr(`row > 3`)
	require.NoError(t, err)
	b, err := compileExpr(`row > 3`)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
