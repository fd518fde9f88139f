package xlsx

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"

	"github.com/xuri/excelize/v2"
)

// snapshot is the serialised workbook plus the protection state excelize
// does not report back.
type snapshot struct {
	data      []byte
	protected map[string]bool
	passwords map[string]bool
}

type history struct {
	undo, redo []snapshot
	depth      int  // nesting of Group calls
	saved      bool // the running group already has its undo step
}

// Undo reverts the workbook to the state before the last mutation or group.
// Without history it does nothing.
func (w *Workbook) Undo() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step(&w.hist.undo, &w.hist.redo, "undo")
}

// Redo re-applies the last undone mutation or group.
func (w *Workbook) Redo() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step(&w.hist.redo, &w.hist.undo, "redo")
}

func (w *Workbook) step(from, to *[]snapshot, op string) error {
	if len(*from) == 0 {
		w.opts.logger.Debug(op+": empty history")
		return nil
	}
	current, err := w.capture()
	if err != nil {
		return err
	}
	s := (*from)[len(*from)-1]
	if err := w.restore(s); err != nil {
		return err
	}
	*from = (*from)[:len(*from)-1]
	*to = append(*to, current)
	w.opts.logger.Debug(op, slog.Int("undo", len(w.hist.undo)), slog.Int("redo", len(w.hist.redo)))
	return nil
}

// Group runs fn as a single undo step. Calls made by fn lock the Workbook
// themselves, so fn may use any Workbook method.
func (w *Workbook) Group(fn func() error) error {
	w.mu.Lock()
	if w.hist.depth == 0 {
		w.hist.saved = false
	}
	w.hist.depth++
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.hist.depth--
		w.mu.Unlock()
	}()
	return fn()
}

// mutate runs fn and, when it succeeds, records the state from before fn
// as an undo step.
func (w *Workbook) mutate(fn func() error) error {
	s, err := w.begin()
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	w.commit(s)
	return nil
}

func (w *Workbook) begin() (*snapshot, error) {
	if w.opts.undoLimit == 0 || (w.hist.depth > 0 && w.hist.saved) {
		return nil, nil
	}
	s, err := w.capture()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (w *Workbook) commit(s *snapshot) {
	if s == nil {
		return
	}
	if w.hist.depth > 0 {
		w.hist.saved = true
	}
	w.hist.undo = append(w.hist.undo, *s)
	if n := len(w.hist.undo) - w.opts.undoLimit; n > 0 {
		w.hist.undo = w.hist.undo[n:]
	}
	w.hist.redo = nil
	w.opts.logger.Debug("snapshot", slog.Int("undo", len(w.hist.undo)), slog.Int("bytes", len(s.data)))
}

func (w *Workbook) capture() (snapshot, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return snapshot{}, fmt.Errorf("snapshot workbook: %w", err)
	}
	return snapshot{
		data:      buf.Bytes(),
		protected: maps.Clone(w.protected),
		passwords: maps.Clone(w.passwords),
	}, nil
}

func (w *Workbook) restore(s snapshot) error {
	f, err := excelize.OpenReader(bytes.NewReader(s.data))
	if err != nil {
		return fmt.Errorf("restore workbook: %w", err)
	}
	old := w.file
	w.file = f
	if err := old.Close(); err != nil {
		w.opts.logger.Debug("close replaced file", slog.Any("error", err))
	}
	w.protected = s.protected
	w.passwords = s.passwords
	clear(w.frozen)
	clear(w.styles)
	return nil
}
