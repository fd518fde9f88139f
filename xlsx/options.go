package xlsx

import (
	"io"
	"log/slog"
)

// DefaultUndoLimit is the number of undo steps a Workbook keeps unless
// WithUndoLimit says otherwise.
const DefaultUndoLimit = 100

// Options holds configuration for a Workbook.
type Options struct {
	undoLimit     int
	autoCalculate bool
	logger        *slog.Logger
}

func defaultOptions() *Options {
	return &Options{
		undoLimit:     DefaultUndoLimit,
		autoCalculate: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Workbook.
type Option func(*Options)

// WithUndoLimit bounds the undo history to n steps. Zero disables undo;
// negative values are ignored.
func WithUndoLimit(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.undoLimit = n
		}
	}
}

// WithAutoCalculate sets whether formula results follow their inputs
// (default: true). See Workbook.SetAutoCalculate.
func WithAutoCalculate(on bool) Option {
	return func(o *Options) { o.autoCalculate = on }
}

// WithLogger sets the logger for snapshot and command diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
