package oosheet

import (
	"log/slog"
)

// Document binds ranges to a spreadsheet backend.
//
// A Document is not safe for concurrent use. The backend is treated as a
// single exclusively owned resource and every call blocks until the backend
// returns.
type Document struct {
	backend Backend
	opts    *Options
}

// New creates a Document over backend.
func New(backend Backend, opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Document{backend: backend, opts: o}
}

// Backend returns the backend the Document was created with.
func (d *Document) Backend() Backend { return d.backend }

// Range returns a handle for selector. A malformed selector yields a Range
// whose Err reports the failure.
func (d *Document) Range(selector string) *Range {
	addr, err := ParseSelector(selector, d.backend)
	if err != nil {
		return &Range{doc: d, err: &RangeError{Op: "parse", Selector: selector, Err: err}}
	}
	return &Range{doc: d, addr: addr}
}

// RangeAt returns a handle for an already resolved address.
func (d *Document) RangeAt(addr Address) *Range {
	r := &Range{doc: d, addr: addr}
	if err := addr.Validate(); err != nil {
		r.err = &RangeError{Op: "address", Selector: addr.Selector(), Err: err}
	}
	return r
}

// Selection returns the document's current selection.
func (d *Document) Selection() (*Range, error) {
	addr, err := d.backend.Selection()
	if err != nil {
		return nil, &RangeError{Op: "selection", Err: err}
	}
	return d.RangeAt(addr), nil
}

// Undo reverts the last edit.
func (d *Document) Undo() error {
	return d.dispatch("undo", Address{}, d.backend.Undo)
}

// Redo re-applies the last undone edit.
func (d *Document) Redo() error {
	return d.dispatch("redo", Address{}, d.backend.Redo)
}

// Recalculate recomputes every formula of the document.
func (d *Document) Recalculate() error {
	return d.dispatch("recalculate", Address{}, d.backend.Recalculate)
}

// dispatch runs a backend command with listeners and logging around it.
// Document-wide commands pass the zero Address.
func (d *Document) dispatch(cmd string, target Address, fn func() error) error {
	var selector string
	if target.Sheet != "" {
		selector = target.Selector()
	}
	for _, l := range d.opts.listeners {
		if err := l.BeforeCommand(cmd, target); err != nil {
			return &RangeError{Op: cmd, Selector: selector, Err: err}
		}
	}
	err := fn()
	for _, l := range d.opts.listeners {
		l.AfterCommand(cmd, target, err)
	}
	if err != nil {
		d.opts.logger.Debug("command failed", slog.String("cmd", cmd), slog.String("target", selector), slog.Any("error", err))
		return &RangeError{Op: cmd, Selector: selector, Err: err}
	}
	d.opts.logger.Debug("command", slog.String("cmd", cmd), slog.String("target", selector))
	return nil
}

// group runs fn as a single undo step when the backend supports it.
func (d *Document) group(fn func() error) error {
	if g, ok := d.backend.(Grouper); ok {
		return g.Group(fn)
	}
	return fn()
}
