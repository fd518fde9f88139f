package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

// builtinFormats maps the implicit number format IDs of SpreadsheetML to
// their format codes.
var builtinFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// NumberFormat returns the number format code of a cell.
func (w *Workbook) NumberFormat(sheet string, col, row int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cell := oosheet.CellName(col, row)
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("read style %s!%s: %w", sheet, cell, err)
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return "", fmt.Errorf("read style %d: %w", id, err)
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return *style.CustomNumFmt, nil
	}
	if code, ok := builtinFormats[style.NumFmt]; ok {
		return code, nil
	}
	return builtinFormats[0], nil
}

// SetNumberFormat sets the number format code of a cell, keeping the rest
// of its style.
func (w *Workbook) SetNumberFormat(sheet string, col, row int, code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writable(sheet, oosheet.CellAddress(sheet, col, row)); err != nil {
		return err
	}
	return w.mutate(func() error {
		return w.restyle(sheet, oosheet.CellName(col, row), "numfmt="+code, func(s *excelize.Style) {
			s.NumFmt = 0
			s.CustomNumFmt = &code
		})
	})
}

type styleKey struct {
	base   int
	change string
}

// restyle applies fn to a copy of the cell's style and assigns the result.
// Derived styles are cached per base style and change.
func (w *Workbook) restyle(sheet, cell, change string, fn func(*excelize.Style)) error {
	base, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return fmt.Errorf("read style %s!%s: %w", sheet, cell, err)
	}
	key := styleKey{base, change}
	id, ok := w.styles[key]
	if !ok {
		style, err := w.file.GetStyle(base)
		if err != nil {
			return fmt.Errorf("read style %d: %w", base, err)
		}
		fn(style)
		if id, err = w.file.NewStyle(style); err != nil {
			return fmt.Errorf("create style: %w", err)
		}
		w.styles[key] = id
	}
	return w.file.SetCellStyle(sheet, cell, cell, id)
}
