package xlsx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"

	"github.com/Governa/oosheet"
)

const refError = "#REF!"

// Parts of an A1 reference operand, after any "Sheet!" prefix is removed.
var (
	cellPart = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)$`)
	colPart  = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})$`)
	rowPart  = regexp.MustCompile(`^(\$?)([0-9]+)$`)
)

// normalizeFormula turns user input into the stored form: no leading "=",
// "," as argument separator and upper-case references and function names.
func normalizeFormula(formula string) string {
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	return shiftFormula(commaSeparated(formula), 0, 0)
}

// commaSeparated replaces ";" argument separators outside string literals,
// quoted sheet names and array constants.
func commaSeparated(formula string) string {
	if !strings.Contains(formula, ";") {
		return formula
	}
	b := []byte(formula)
	var inString, inQuote bool
	braces := 0
	for i, c := range b {
		switch {
		case c == '"' && !inQuote:
			inString = !inString
		case c == '\'' && !inString:
			inQuote = !inQuote
		case inString || inQuote:
		case c == '{':
			braces++
		case c == '}':
			braces--
		case c == ';' && braces == 0:
			b[i] = ','
		}
	}
	return string(b)
}

// shiftFormula moves the relative references of a stored formula by dcol
// columns and drow rows. Absolute parts ("$") stay; references pushed off
// the sheet become #REF!. Formulas efp cannot tokenise are returned as is.
func shiftFormula(formula string, dcol, drow int) string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	for _, t := range tokens {
		if t.TType == efp.TokenTypeUnknown {
			return formula
		}
	}

	var b strings.Builder
	var open []string // function names, innermost last
	var closed string // name of the function closed by the previous token
	for _, t := range tokens {
		last := closed
		closed = ""
		switch {
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			open = append(open, t.TValue)
			switch t.TValue {
			case "ARRAY":
				b.WriteString("{")
			case "ARRAYROW":
			default:
				b.WriteString(strings.ToUpper(t.TValue) + "(")
			}
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop:
			if len(open) > 0 {
				closed = open[len(open)-1]
				open = open[:len(open)-1]
			}
			switch closed {
			case "ARRAY":
				b.WriteString("}")
			case "ARRAYROW":
			default:
				b.WriteString(")")
			}
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			b.WriteString("(")
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStop:
			b.WriteString(")")
		case t.TType == efp.TokenTypeArgument:
			if last == "ARRAYROW" {
				b.WriteString(";")
			} else {
				b.WriteString(",")
			}
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText:
			b.WriteString(`"` + strings.ReplaceAll(t.TValue, `"`, `""`) + `"`)
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange:
			b.WriteString(shiftRef(quoteSheet(t.TValue), dcol, drow))
		case t.TType == efp.TokenTypeWhitespace,
			t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeIntersection:
			b.WriteString(" ")
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

// shiftRef shifts one reference operand such as "B2", "$A$1:C3",
// "Sheet2!A1" or "A:C". Operands that are no A1 reference, like defined
// names, are returned unchanged.
func shiftRef(ref string, dcol, drow int) string {
	prefix, body := "", ref
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		prefix, body = ref[:i+1], ref[i+1:]
	}
	parts := strings.Split(body, ":")
	if len(parts) > 2 {
		return ref
	}
	span := len(parts) == 2
	for i, p := range parts {
		shifted, ok := shiftPart(p, dcol, drow, span)
		if !ok {
			return ref
		}
		if shifted == refError {
			return refError
		}
		parts[i] = shifted
	}
	return prefix + strings.Join(parts, ":")
}

// shiftPart shifts one side of a reference; ok is false when p is not a
// reference. Bare columns and rows only count inside spans ("A:A", "1:3").
func shiftPart(p string, dcol, drow int, span bool) (shifted string, ok bool) {
	if m := cellPart.FindStringSubmatch(p); m != nil {
		col, err := oosheet.ColumnIndex(m[2])
		if err != nil {
			return refError, true
		}
		row, _ := strconv.Atoi(m[4])
		row--
		if m[1] == "" {
			col += dcol
		}
		if m[3] == "" {
			row += drow
		}
		if !inSheet(col, row) {
			return refError, true
		}
		return m[1] + oosheet.ColumnName(col) + m[3] + strconv.Itoa(row+1), true
	}
	if !span {
		return p, false
	}
	if m := colPart.FindStringSubmatch(p); m != nil {
		col, err := oosheet.ColumnIndex(m[2])
		if err != nil {
			return refError, true
		}
		if m[1] == "" {
			col += dcol
		}
		if !inSheet(col, 0) {
			return refError, true
		}
		return m[1] + oosheet.ColumnName(col), true
	}
	if m := rowPart.FindStringSubmatch(p); m != nil {
		row, _ := strconv.Atoi(m[2])
		row--
		if m[1] == "" {
			row += drow
		}
		if !inSheet(0, row) {
			return refError, true
		}
		return m[1] + strconv.Itoa(row+1), true
	}
	return p, false
}

var plainSheet = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// quoteSheet restores the quotes efp strips from sheet names such as
// 'My Sheet'!A1.
func quoteSheet(ref string) string {
	i := strings.LastIndex(ref, "!")
	if i <= 0 || strings.HasPrefix(ref, "'") || plainSheet.MatchString(ref[:i]) {
		return ref
	}
	return "'" + strings.ReplaceAll(ref[:i], "'", "''") + "'" + ref[i:]
}

func inSheet(col, row int) bool {
	return col >= 0 && col < oosheet.MaxColumns && row >= 0 && row < oosheet.MaxRows
}
