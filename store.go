package oosheet

// CellType classifies the computed content of a cell. Formula cells report
// the type of their current result.
type CellType int

const (
	CellBlank CellType = iota
	CellNumber
	CellText
	CellBoolean
	CellError
)

// String returns the string representation of CellType.
func (t CellType) String() string {
	switch t {
	case CellBlank:
		return "Blank"
	case CellNumber:
		return "Number"
	case CellText:
		return "Text"
	case CellBoolean:
		return "Boolean"
	case CellError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CellStore reads and writes the content of single cells. Columns and rows
// are 0-based.
type CellStore interface {
	// Value returns the numeric value of a cell. Text cells read as 0 and
	// formula cells read as their computed result.
	Value(sheet string, col, row int) (float64, error)
	SetValue(sheet string, col, row int, v float64) error

	// Text returns the displayed text of a cell.
	Text(sheet string, col, row int) (string, error)
	SetText(sheet string, col, row int, s string) error

	// Formula returns the formula of a cell with its leading "=", or the
	// cell's literal content when it holds no formula.
	Formula(sheet string, col, row int) (string, error)
	SetFormula(sheet string, col, row int, formula string) error

	// IsEmpty reports value == 0, text == "" and no formula.
	IsEmpty(sheet string, col, row int) (bool, error)

	NumberFormat(sheet string, col, row int) (string, error)
	SetNumberFormat(sheet string, col, row int, code string) error

	CellType(sheet string, col, row int) (CellType, error)
}

// RangeCommand executes editor actions on resolved addresses.
type RangeCommand interface {
	// Focus makes addr the current selection of the document.
	Focus(addr Address) error
	Selection() (Address, error)

	Copy(addr Address) error
	Cut(addr Address) error
	Paste(addr Address) error
	// Delete clears contents and formatting.
	Delete(addr Address) error

	// InsertRows inserts n rows above addr, InsertColumns n columns to its
	// left.
	InsertRows(addr Address, n int) error
	InsertColumns(addr Address, n int) error
	DeleteRows(addr Address) error
	DeleteColumns(addr Address) error

	// DragFill extends the content of src over dest the way a fill handle
	// drag does.
	DragFill(src, dest Address) error
	// FormatCopy applies the formatting of src to dest.
	FormatCopy(src, dest Address) error
	// Flatten replaces every formula in addr by its computed value.
	Flatten(addr Address) error

	Protect(addr Address) error
	Unprotect(addr Address) error
	ProtectSheet(sheet, password string) error
	UnprotectSheet(sheet, password string) error

	Undo() error
	Redo() error
	Recalculate() error
}

// Backend is everything a Document needs from a spreadsheet implementation.
type Backend interface {
	CellStore
	RangeCommand
	SheetResolver
}

// Grouper is implemented by backends that can merge several writes into a
// single undo step.
type Grouper interface {
	Group(fn func() error) error
}

// WriteChecker is implemented by backends that can refuse a write up front.
// Multi-cell writes call CheckWrite for the whole range before writing any
// cell, so a refused range is left untouched.
type WriteChecker interface {
	CheckWrite(a Address) error
}
