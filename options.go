package oosheet

import (
	"io"
	"log/slog"
)

// DefaultDateFormat is applied by SetDate to cells without a date format.
const DefaultDateFormat = "m/d/yyyy"

// DefaultMaxScanSteps bounds the *Until scans. It equals the row extent of a
// sheet.
const DefaultMaxScanSteps = MaxRows

// Options holds configuration for a Document.
type Options struct {
	maxScanSteps int
	dateFormat   string
	logger       *slog.Logger
	listeners    []CommandListener
}

func defaultOptions() *Options {
	return &Options{
		maxScanSteps: DefaultMaxScanSteps,
		dateFormat:   DefaultDateFormat,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Document.
type Option func(*Options)

// WithMaxScanSteps sets how many steps a *Until scan may take before it
// fails with ErrNotFound (default: DefaultMaxScanSteps). Values below 1 are
// ignored.
func WithMaxScanSteps(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxScanSteps = n
		}
	}
}

// WithDateFormat sets the number format code SetDate applies to cells that
// are not already date-formatted (default: DefaultDateFormat).
func WithDateFormat(code string) Option {
	return func(o *Options) { o.dateFormat = code }
}

// WithLogger sets the structured logger. Editing commands are logged at
// debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithListener adds a listener that is notified around each editing command.
func WithListener(l CommandListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}
