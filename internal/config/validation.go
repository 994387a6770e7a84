package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/render"
)

// maxDimension bounds window sizes before a warning is raised.
const maxDimension = 10000

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains issues that were corrected or can be ignored.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator checks a Config and normalizes what it can.
type Validator struct {
	// strictMode turns correctable problems into errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode makes out-of-range angles and durations errors instead of warnings.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate checks cfg and normalizes it in place: colors become lower-case
// #rrggbb and out-of-range angles are clamped.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		result.AddError("config", "is nil")
		return result
	}

	v.validateColors(&cfg.Gradient, result)
	v.validateAngle(&cfg.Gradient, result)
	v.validateAnimation(&cfg.Gradient.Animation, result)
	v.validateWindow(&cfg.Window, result)

	return result
}

func (v *Validator) validateColors(s *gradient.State, result *ValidationResult) {
	if len(s.Colors) == 0 {
		result.AddError("gradient.colors", "at least one color is required")
		return
	}
	for i, c := range s.Colors {
		hex, err := render.NormalizeHex(c)
		if err != nil {
			result.AddError(fmt.Sprintf("gradient.colors[%d]", i+1), err.Error())
			continue
		}
		s.Colors[i] = hex
	}
}

func (v *Validator) validateAngle(s *gradient.State, result *ValidationResult) {
	clamped := gradient.ClampAngle(s.Angle)
	if clamped == s.Angle {
		return
	}
	msg := fmt.Sprintf("%d is outside [0, %d]", s.Angle, gradient.MaxAngle)
	if v.strictMode {
		result.AddError("gradient.angle", msg)
		return
	}
	result.AddWarning("gradient.angle", msg+fmt.Sprintf(", clamped to %d", clamped))
	s.Angle = clamped
}

func (v *Validator) validateAnimation(a *gradient.Animation, result *ValidationResult) {
	d := a.Duration
	if d > 0 && !math.IsInf(d, 0) {
		return
	}
	msg := fmt.Sprintf("duration %v is not a positive number, %vs is used", d, gradient.DefaultDuration)
	if v.strictMode && a.Enabled {
		result.AddError("gradient.animation.duration", msg)
		return
	}
	if a.Enabled {
		result.AddWarning("gradient.animation.duration", msg)
	}
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("window.height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}
	if wc.Width > maxDimension {
		result.AddWarning("window.width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("window.height", fmt.Sprintf("unusually large value %d", wc.Height))
	}
}

// ValidateConfig is a convenience function to validate and normalize a
// Config with default settings. Returns nil if the config is usable.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
