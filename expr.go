package oosheet

import (
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprCache maps expression source to its compiled *vm.Program.
var exprCache sync.Map

// exprEnv is the environment an Expr predicate is compiled against.
type exprEnv struct {
	Value   float64   `expr:"value"`
	Text    string    `expr:"text"`
	Formula string    `expr:"formula"`
	Empty   bool      `expr:"empty"`
	Date    time.Time `expr:"date"`
	Col     string    `expr:"col"`
	Row     int       `expr:"row"`
}

// Expr compiles a boolean expr-lang expression into a Predicate. The
// expression sees the tested cell as:
//
//	value    numeric value (float)
//	text     displayed text
//	formula  formula with leading "=", or the literal content
//	empty    value 0, no text and no formula
//	date     value read as a date
//	col      column letters, e.g. "C"
//	row      displayed row number, starting at 1
//
// For example: `value > 14 && text endsWith "0"`.
func Expr(expression string) (Predicate, error) {
	program, err := compileExpr(expression)
	if err != nil {
		return nil, precondition("compile expression %q: %v", expression, err)
	}
	return func(cell *Range) (bool, error) {
		env, err := cellEnv(cell)
		if err != nil {
			return false, err
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false, fmt.Errorf("evaluate expression %q: %w", expression, err)
		}
		b, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("expression %q evaluated to %T, expected bool", expression, out)
		}
		return b, nil
	}, nil
}

func compileExpr(expression string) (*vm.Program, error) {
	if cached, ok := exprCache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	exprCache.Store(expression, program)
	return program, nil
}

func cellEnv(cell *Range) (exprEnv, error) {
	col, row, err := cell.cell("expr")
	if err != nil {
		return exprEnv{}, err
	}
	store, sheet := cell.doc.backend, cell.addr.Sheet
	env := exprEnv{Col: ColumnName(col), Row: row + 1}
	if env.Value, err = store.Value(sheet, col, row); err != nil {
		return exprEnv{}, err
	}
	if env.Text, err = store.Text(sheet, col, row); err != nil {
		return exprEnv{}, err
	}
	if env.Formula, err = store.Formula(sheet, col, row); err != nil {
		return exprEnv{}, err
	}
	if env.Empty, err = store.IsEmpty(sheet, col, row); err != nil {
		return exprEnv{}, err
	}
	env.Date = SerialToDate(env.Value)
	return env, nil
}
