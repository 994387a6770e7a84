package studio

import (
	"time"

	"github.com/opd-ai/go-gradient/internal/ui"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Clipboard receives the CSS declaration on Copy.
type Clipboard = ui.Clipboard

// Options configures the Studio instance behavior.
type Options struct {
	// Headless runs without opening the preview window. The session still
	// accepts events through Dispatch.
	Headless bool

	// WindowTitle overrides the preset's window title.
	WindowTitle string

	// WatchConfig reloads the preset in place whenever the file changes
	// on disk. Only presets loaded with New are watched.
	WatchConfig bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means use DefaultWatchDebounce.
	WatchDebounce time.Duration

	// ShutdownTimeout sets the maximum time to wait for graceful shutdown.
	// Zero means use DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// StrictValidation turns preset warnings, such as an out of range
	// angle, into load errors.
	StrictValidation bool

	// EnvLookup resolves GRADIENT_* overrides. Nil means os.LookupEnv.
	EnvLookup func(key string) (string, bool)

	// Clipboard receives copied CSS. Nil means the system clipboard.
	Clipboard Clipboard

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector.
	// If nil, DefaultMetrics() is used.
	Metrics *Metrics
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		WatchDebounce:   DefaultWatchDebounce,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
