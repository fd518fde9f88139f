package oosheet

import (
	"strings"
)

// SheetResolver maps a sheet name from a selector to the canonical sheet
// name of a document. An empty name resolves to the first sheet.
type SheetResolver interface {
	ResolveSheet(name string) (string, error)
}

// SheetList resolves sheet names against a fixed, ordered list.
type SheetList []string

// ResolveSheet implements SheetResolver with exact name matching.
func (l SheetList) ResolveSheet(name string) (string, error) {
	if len(l) == 0 {
		return "", malformed("document has no sheets")
	}
	if name == "" {
		return l[0], nil
	}
	for _, s := range l {
		if s == name {
			return s, nil
		}
	}
	return "", malformed("unknown sheet %q", name)
}

// ParseSelector parses "[Sheet.]Cell[:Cell|:Row]" into an Address.
//
// Absolute markers ($) are stripped and letters are case-insensitive. A bare
// row number on the right of the colon inherits the start column, so
// "Sheet2.B3:10" addresses B3:B10. Without a sheet prefix the first sheet
// reported by sheets is used. Inverted ranges are rejected, never swapped.
func ParseSelector(selector string, sheets SheetResolver) (Address, error) {
	return parseSelector(selector, sheets, "")
}

// parseSelector is ParseSelector with a fallback sheet used when the
// selector carries no sheet prefix. An empty fallback defers to sheets.
func parseSelector(selector string, sheets SheetResolver, fallback string) (Address, error) {
	s := strings.TrimSpace(selector)
	if s == "" {
		return Address{}, malformed("empty selector")
	}

	name, cells := "", s
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		name, cells = s[:idx], s[idx+1:]
		if name == "" {
			return Address{}, malformed("empty sheet name in %q", selector)
		}
	}

	sheet := fallback
	if name != "" || sheet == "" {
		if sheets == nil {
			return Address{}, malformed("no sheet resolver for %q", selector)
		}
		var err error
		if sheet, err = sheets.ResolveSheet(name); err != nil {
			return Address{}, err
		}
	}

	addr, err := parseCells(cells)
	if err != nil {
		return Address{}, err
	}
	addr.Sheet = sheet
	return addr, nil
}

// parseCells parses the part of a selector after the sheet prefix.
func parseCells(cells string) (Address, error) {
	cells = strings.ReplaceAll(cells, "$", "")
	start, end, isRange := strings.Cut(cells, ":")

	startCol, startRow, err := ParseCell(start)
	if err != nil {
		return Address{}, err
	}
	if !isRange {
		return CellAddress("", startCol, startRow), nil
	}

	var endCol, endRow int
	if end != "" && !isAlpha(end[0]) {
		endCol = startCol
		if endRow, err = parseRow(end); err != nil {
			return Address{}, malformed("invalid range end %q", end)
		}
	} else if endCol, endRow, err = ParseCell(end); err != nil {
		return Address{}, err
	}

	addr := Address{StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}
	if addr.StartCol > addr.EndCol || addr.StartRow > addr.EndRow {
		return Address{}, bounds("inverted range %q", cells)
	}
	return addr, nil
}
