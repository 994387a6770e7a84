package config

import "github.com/opd-ai/go-gradient/internal/gradient"

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 640
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 480
	// DefaultTitle is the default window title.
	DefaultTitle = "Gradient Studio"
)

// DefaultConfig returns the config used when no preset is given:
// a red to blue linear gradient at 90 degrees with animation off.
func DefaultConfig() Config {
	return Config{
		Gradient: gradient.DefaultState(),
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			Panel:  true,
		},
	}
}
