// Package config loads go-gradient presets.
// Presets are Lua scripts that fill in the studio.gradient and studio.window
// tables; values can be overridden from the environment and are validated
// before they reach the engine.
package config

import (
	"fmt"

	"github.com/opd-ai/go-gradient/internal/gradient"
)

// WindowConfig holds preview window settings.
type WindowConfig struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is shown in the window title bar.
	Title string
	// Panel controls whether the control panel starts expanded.
	Panel bool
}

// Config is a fully loaded preset.
type Config struct {
	Gradient gradient.State
	Window   WindowConfig
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := c
	out.Gradient = c.Gradient.Clone()
	return out
}

// String returns a short human-readable summary.
func (c Config) String() string {
	return fmt.Sprintf("%s %d° %d colors, %dx%d",
		c.Gradient.Type, c.Gradient.Angle, len(c.Gradient.Colors), c.Window.Width, c.Window.Height)
}
