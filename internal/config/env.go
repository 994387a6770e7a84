package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/opd-ai/go-gradient/internal/gradient"
)

// Environment variables that override preset values.
const (
	EnvType     = "GRADIENT_TYPE"
	EnvAngle    = "GRADIENT_ANGLE"
	EnvColors   = "GRADIENT_COLORS"
	EnvAnimate  = "GRADIENT_ANIMATE"
	EnvDuration = "GRADIENT_DURATION"
)

// envVarPattern matches environment variable references in preset strings.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unset variables without a default expand to the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			if idx := strings.Index(inner, ":-"); idx >= 0 {
				if val := os.Getenv(inner[:idx]); val != "" {
					return val
				}
				return inner[idx+2:]
			}
			return os.Getenv(inner)
		}

		return os.Getenv(match[1:])
	})
}

// LookupFunc reports the value of an environment variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnvOverrides replaces gradient settings with GRADIENT_* variables
// found through lookup. Empty values are ignored. On error cfg is left
// unchanged.
func ApplyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	next := cfg.Gradient.Clone()

	if v, ok := get(EnvType); ok {
		t, err := gradient.ParseType(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvType, err)
		}
		next.Type = t
	}
	if v, ok := get(EnvAngle); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid angle %q: %w", EnvAngle, v, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: invalid angle %q: %w", EnvAngle, v, ErrNotFinite)
		}
		next.Angle = roundHalfUp(f)
	}
	if v, ok := get(EnvColors); ok {
		var colors []string
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				colors = append(colors, c)
			}
		}
		if len(colors) == 0 {
			return fmt.Errorf("%s: no colors in %q", EnvColors, v)
		}
		next.Colors = colors
	}
	if v, ok := get(EnvAnimate); ok {
		next.Animation.Enabled = parseBool(v)
	}
	if v, ok := get(EnvDuration); ok {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", EnvDuration, v, err)
		}
		next.Animation.Duration = d
	}

	cfg.Gradient = next
	return nil
}

// parseBool accepts the usual spellings of true; everything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}

// ErrNotFinite is returned for NaN or infinite numeric settings.
var ErrNotFinite = errors.New("not a finite number")

// roundHalfUp rounds f to the nearest int, saturating at the int32 range so
// huge values stay out of range for the validator instead of wrapping.
// f must not be NaN.
func roundHalfUp(f float64) int {
	f = math.Floor(f + 0.5)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}
