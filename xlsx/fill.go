package xlsx

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/Governa/oosheet"
)

// fillStep extends the seed block from to the block to along one axis.
type fillStep struct {
	from, to oosheet.Address
	vertical bool
}

// DragFill extends src over dest the way dragging the fill handle does.
// The fill runs down or up when dest lies outside the rows of src, then
// left or right when dest lies outside its columns. Each line of the
// source block seeds the cells it is extended into:
//   - numbers continue their arithmetic series; a single number counts up by 1
//   - text ending in an integer continues the same way on that integer
//   - formulas are repeated with relative references moved along
//   - anything else is repeated
//
// Styles follow the seeds. A fill over a locked cell of a protected sheet
// fails before anything is written.
func (w *Workbook) DragFill(src, dest oosheet.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if src.Sheet != dest.Sheet {
		return fmt.Errorf("fill %s over %s: %w", src, dest, oosheet.ErrCrossSheet)
	}

	var steps []fillStep
	cur := src
	if dest.StartRow < cur.StartRow || dest.EndRow > cur.EndRow {
		next := cur
		next.StartRow, next.EndRow = min(cur.StartRow, dest.StartRow), max(cur.EndRow, dest.EndRow)
		steps = append(steps, fillStep{from: cur, to: next, vertical: true})
		cur = next
	}
	if dest.StartCol < cur.StartCol || dest.EndCol > cur.EndCol {
		next := cur
		next.StartCol, next.EndCol = min(cur.StartCol, dest.StartCol), max(cur.EndCol, dest.EndCol)
		steps = append(steps, fillStep{from: cur, to: next})
	}
	if len(steps) == 0 {
		return nil
	}

	for _, s := range steps {
		err := cells(s.to, func(col, row int) error {
			if s.from.Contains(col, row) {
				return nil
			}
			return w.writable(s.to.Sheet, oosheet.CellAddress(s.to.Sheet, col, row))
		})
		if err != nil {
			return err
		}
	}
	return w.mutate(func() error {
		for _, s := range steps {
			if err := w.fill(s); err != nil {
				return fmt.Errorf("fill %s over %s: %w", s.from, s.to, err)
			}
		}
		return nil
	})
}

// fill extends every line of s.from: columns for vertical steps, rows
// otherwise.
func (w *Workbook) fill(s fillStep) error {
	lines, length := s.from.Width(), s.from.Height()
	if !s.vertical {
		lines, length = length, lines
	}
	// position maps a line and an offset along it to a cell; offsets are
	// relative to the first seed and may be negative.
	position := func(line, offset int) (col, row int) {
		if s.vertical {
			return s.from.StartCol + line, s.from.StartRow + offset
		}
		return s.from.StartCol + offset, s.from.StartRow + line
	}
	first, last := s.to.StartRow-s.from.StartRow, s.to.EndRow-s.from.StartRow
	if !s.vertical {
		first, last = s.to.StartCol-s.from.StartCol, s.to.EndCol-s.from.StartCol
	}

	for line := range lines {
		seeds := make([]seed, length)
		for i := range seeds {
			col, row := position(line, i)
			st, err := w.read(s.from.Sheet, col, row)
			if err != nil {
				return err
			}
			style, err := w.file.GetCellStyle(s.from.Sheet, oosheet.CellName(col, row))
			if err != nil {
				return err
			}
			seeds[i] = seed{clipCell: clipCell{cellState: st, style: style}}
		}
		next := series(seeds)
		for offset := first; offset <= last; offset++ {
			if offset >= 0 && offset < length {
				continue
			}
			col, row := position(line, offset)
			dcol, drow := 0, offset-mod(offset, length)
			if !s.vertical {
				dcol, drow = drow, 0
			}
			if err := w.place(s.from.Sheet, col, row, next(offset), dcol, drow); err != nil {
				return err
			}
		}
	}
	return nil
}

type seed struct {
	clipCell
	prefix string // text before a trailing integer
	seq    int    // the trailing integer
	digits int    // width of the trailing integer, for zero padding
	counts bool   // the text ends in an integer
}

var trailingInt = regexp.MustCompile(`^(.*?)([0-9]+)$`)

// series returns the content for each offset along a line seeded by seeds.
// Formulas keep their seed's text; place moves their references.
func series(seeds []seed) func(offset int) clipCell {
	n := len(seeds)
	numbers, texts := true, true
	for i := range seeds {
		s := &seeds[i]
		if s.formula != "" || s.kind != oosheet.CellNumber {
			numbers = false
		}
		if s.formula == "" && s.kind == oosheet.CellText {
			if m := trailingInt.FindStringSubmatch(s.raw); m != nil {
				s.seq, _ = strconv.Atoi(m[2])
				s.prefix, s.digits, s.counts = m[1], len(m[2]), true
			}
		}
		if !s.counts || s.prefix != seeds[0].prefix {
			texts = false
		}
	}

	styled := func(offset int, c clipCell) clipCell {
		c.style = seeds[mod(offset, n)].style
		return c
	}

	if numbers {
		values := make([]float64, n)
		for i, s := range seeds {
			values[i] = s.number()
		}
		if step, ok := arithmetic(values); ok {
			return func(offset int) clipCell {
				v := values[0] + float64(offset)*step
				return styled(offset, numberCell(v))
			}
		}
	}
	if texts {
		values := make([]float64, n)
		for i, s := range seeds {
			values[i] = float64(s.seq)
		}
		if step, ok := arithmetic(values); ok {
			return func(offset int) clipCell {
				v := int(math.Round(values[0] + float64(offset)*step))
				return styled(offset, seeds[mod(offset, n)].withNumber(v))
			}
		}
	}

	return func(offset int) clipCell {
		s := seeds[mod(offset, n)]
		if s.counts {
			return s.withNumber(s.seq + floorDiv(offset, n))
		}
		return s.clipCell
	}
}

// arithmetic returns the common difference of values, 1 for a single value.
func arithmetic(values []float64) (float64, bool) {
	if len(values) == 1 {
		return 1, true
	}
	step := values[1] - values[0]
	for i := 2; i < len(values); i++ {
		if math.Abs(values[i]-values[i-1]-step) > 1e-9 {
			return 0, false
		}
	}
	return step, true
}

func numberCell(v float64) clipCell {
	raw := strconv.FormatFloat(v, 'g', -1, 64)
	return clipCell{cellState: cellState{result: result{kind: oosheet.CellNumber, raw: raw, text: raw}}}
}

func (s seed) withNumber(v int) clipCell {
	c := s.clipCell
	c.raw = s.prefix + fmt.Sprintf("%0*d", s.digits, v)
	c.text = c.raw
	return c
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func floorDiv(a, n int) int {
	return (a - mod(a, n)) / n
}
