package oosheet

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable listing of the range: its selector and
// size, then every non-blank cell column by column with its type, text and
// formula.
//
//	Range: Sheet1.A1:B3 (2x3)
//	  Column A:
//	    A1: Number 10
//	    A2: Number 15 =A1+5
func (r *Range) Describe() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	a := r.addr
	store := r.doc.backend

	var b strings.Builder
	fmt.Fprintf(&b, "Range: %s (%dx%d)\n", a.Selector(), a.Width(), a.Height())
	for col := a.StartCol; col <= a.EndCol; col++ {
		var lines []string
		for row := a.StartRow; row <= a.EndRow; row++ {
			line, err := describeCell(store, a.Sheet, col, row)
			if err != nil {
				return "", r.wrap("describe", err)
			}
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  Column %s:\n", ColumnName(col))
		for _, l := range lines {
			b.WriteString("    ")
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// describeCell renders one cell, or "" for blank cells without a formula.
func describeCell(store CellStore, sheet string, col, row int) (string, error) {
	typ, err := store.CellType(sheet, col, row)
	if err != nil {
		return "", err
	}
	formula, err := store.Formula(sheet, col, row)
	if err != nil {
		return "", err
	}
	isFormula := strings.HasPrefix(formula, "=")
	if typ == CellBlank && !isFormula {
		return "", nil
	}
	text, err := store.Text(sheet, col, row)
	if err != nil {
		return "", err
	}

	line := fmt.Sprintf("%s: %s", CellName(col, row), typ)
	if text != "" {
		line += " " + text
	}
	if isFormula {
		line += " " + formula
	}
	return line, nil
}
