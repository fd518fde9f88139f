package xlsx

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"

	"github.com/Governa/oosheet"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // formula cannot be evaluated as written
	SeverityWarning                 // formula evaluates to an error value
)

// Issue is a single problem found by Validate.
type Issue struct {
	Severity Severity
	Cell     oosheet.Address
	Message  string
}

// String formats the issue as "[ERROR] Sheet1.A2: message" or "[WARN] ...".
func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, i.Cell, i.Message)
}

// Validate checks every formula of the workbook. Formulas that efp cannot
// tokenise or that hold #REF! references are errors; formulas whose result
// is an error value such as #DIV/0! are warnings.
func (w *Workbook) Validate() ([]Issue, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var issues []Issue
	for _, sheet := range w.file.GetSheetList() {
		rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", sheet, err)
		}
		for row, cols := range rows {
			for col := range cols {
				cell := oosheet.CellName(col, row)
				formula, err := w.file.GetCellFormula(sheet, cell)
				if err != nil {
					return nil, fmt.Errorf("read formula %s!%s: %w", sheet, cell, err)
				}
				if formula == "" {
					continue
				}
				issue, err := w.checkFormula(sheet, col, row, formula)
				if err != nil {
					return nil, err
				}
				if issue != nil {
					issues = append(issues, *issue)
				}
			}
		}
	}
	w.opts.logger.Debug("validate", slog.Int("issues", len(issues)))
	return issues, nil
}

func (w *Workbook) checkFormula(sheet string, col, row int, formula string) (*Issue, error) {
	at := oosheet.CellAddress(sheet, col, row)
	ps := efp.ExcelParser()
	for _, t := range ps.Parse(formula) {
		if t.TType == efp.TokenTypeUnknown {
			return &Issue{SeverityError, at, fmt.Sprintf("cannot tokenise formula =%s", formula)}, nil
		}
		if t.TType == efp.TokenTypeOperand && strings.Contains(t.TValue, refError) {
			return &Issue{SeverityError, at, fmt.Sprintf("formula =%s references a removed cell", formula)}, nil
		}
	}
	r, err := w.formulaResult(sheet, col, row)
	if err != nil {
		return &Issue{SeverityError, at, err.Error()}, nil
	}
	if r.kind == oosheet.CellError {
		return &Issue{SeverityWarning, at, fmt.Sprintf("formula =%s evaluates to %s", formula, r.raw)}, nil
	}
	return nil, nil
}
