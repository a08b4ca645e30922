package xlspill

import (
	"io"
	"log/slog"
	"time"
)

// Clock supplies the current time to TODAY. Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

// WallClock reads the system time.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// DefaultPreviewRows is the SHOWDATA row limit when none is given.
const DefaultPreviewRows = 5

// Options holds configuration for the Engine and the Manager.
type Options struct {
	logger      *slog.Logger
	clock       Clock
	library     *Library
	previewRows int
	listeners   []Listener
}

func defaultOptions() *Options {
	return &Options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:       WallClock{},
		previewRows: DefaultPreviewRows,
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.library == nil {
		o.library = NewLibrary()
	}
	return o
}

// Option configures the Engine or the Manager.
type Option func(*Options)

// WithLogger sets the structured logger (default: discard).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used by TODAY.
func WithClock(clock Clock) Option {
	return func(o *Options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLibrary replaces the built-in function library.
func WithLibrary(lib *Library) Option {
	return func(o *Options) { o.library = lib }
}

// WithPreviewRows sets the default SHOWDATA row limit (default: 5).
func WithPreviewRows(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.previewRows = n
		}
	}
}

// WithListener adds a listener notified of every edit the Manager handles.
func WithListener(l Listener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}
