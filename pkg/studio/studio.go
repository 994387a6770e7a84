package studio

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/opd-ai/go-gradient/internal/config"
	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// Gradient model and UI event types, re-exported for callers outside
// this module.
type (
	State     = gradient.State
	Animation = gradient.Animation
	Type      = gradient.Type
	Result    = gradient.Result
	Session   = ui.Session
	View      = ui.View

	// Action is any event accepted by Dispatch.
	Action       = ui.Event
	SetColor     = ui.SetColor
	AddColor     = ui.AddColor
	RemoveColor  = ui.RemoveColor
	SetAngle     = ui.SetAngle
	DragAngle    = ui.DragAngle
	SetType      = ui.SetType
	ToggleType   = ui.ToggleType
	SetAnimation = ui.SetAnimation
	SetDuration  = ui.SetDuration
	ShiftHue     = ui.ShiftHue
	SelectColor  = ui.SelectColor
	Reset        = ui.Reset
	TogglePanel  = ui.TogglePanel
	Copy         = ui.Copy
)

// Gradient types.
const (
	Linear = gradient.Linear
	Radial = gradient.Radial
)

// DefaultState returns the studio's initial gradient.
func DefaultState() State {
	return gradient.DefaultState()
}

// Studio is an embeddable gradient studio with lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Studio interface {
	// Start opens the preview window, or in headless mode only marks the
	// instance running. It returns immediately.
	Start() error

	// Stop closes the preview and waits for background goroutines.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// ReloadConfig reloads the preset in place. On error the current
	// state is kept.
	ReloadConfig() error

	IsRunning() bool
	Status() Status

	// Session returns the session shared with the preview window.
	Session() *Session

	// State returns a copy of the current gradient state.
	State() State

	// Result returns the CSS generated for the current state.
	Result() Result

	// Dispatch applies an action to the session, as if it came from the
	// preview window.
	Dispatch(a Action) error

	// WritePNG encodes the current gradient at the given size.
	WritePNG(w io.Writer, width, height int) error

	// SetErrorHandler registers a callback for runtime errors.
	// Panics in the handler are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle and state events.
	SetEventHandler(handler EventHandler)

	Health() HealthCheck
	Metrics() *Metrics
}

// configLoader loads a fresh config for the initial load and each reload.
type configLoader func(p *config.Parser) (*config.Config, error)

// New creates a Studio from a Lua preset on disk.
// The instance is created but not started; call Start() to begin operation.
//
// Example:
//
//	s, err := studio.New("sunset.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop()
//	if err := s.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(path string, opts *Options) (Studio, error) {
	return newFromLoader(path, path, func(p *config.Parser) (*config.Config, error) {
		return p.ParseFile(path)
	}, opts)
}

// NewFromFS creates a Studio from a preset inside fsys, such as an embed.FS.
func NewFromFS(fsys fs.FS, path string, opts *Options) (Studio, error) {
	return newFromLoader("embedded:"+path, "", func(p *config.Parser) (*config.Config, error) {
		return p.ParseFromFS(fsys, path)
	}, opts)
}

// NewFromReader creates a Studio from preset content. The content is read
// once; ReloadConfig re-evaluates it, picking up environment changes.
func NewFromReader(r io.Reader, opts *Options) (Studio, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return newFromLoader("reader", "", func(p *config.Parser) (*config.Config, error) {
		return p.ParseReader(bytes.NewReader(content))
	}, opts)
}

// NewFromState creates a Studio starting from state. Colors are validated
// and normalized the same way preset colors are.
func NewFromState(state State, opts *Options) (Studio, error) {
	o := resolveOptions(opts)
	cfg := config.DefaultConfig()
	cfg.Gradient = state.Clone()
	if o.WindowTitle != "" {
		cfg.Window.Title = o.WindowTitle
	}

	validate := config.ValidateConfig
	if o.StrictValidation {
		validate = config.ValidateConfigStrict
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	return newStudio(&cfg, o, "state", "", nil), nil
}

func newFromLoader(source, watchPath string, load configLoader, opts *Options) (Studio, error) {
	o := resolveOptions(opts)
	cfg, err := loadConfig(o, load)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newStudio(cfg, o, source, watchPath, load), nil
}

// loadConfig runs load with a fresh parser and logs validation warnings.
func loadConfig(o Options, load configLoader) (*config.Config, error) {
	popts := []config.ParserOption{config.WithStrictValidation(o.StrictValidation)}
	if o.EnvLookup != nil {
		popts = append(popts, config.WithEnvLookup(o.EnvLookup))
	}
	p, err := config.NewParser(popts...)
	if err != nil {
		return nil, fmt.Errorf("parser init: %w", err)
	}
	defer p.Close()

	start := time.Now()
	cfg, err := load(p)
	o.Metrics.RecordLoadLatency(time.Since(start))
	if err != nil {
		return nil, err
	}
	for _, w := range p.Warnings() {
		o.Logger.Warn("preset warning", "field", w.Field, "message", w.Message)
	}
	if o.WindowTitle != "" {
		cfg.Window.Title = o.WindowTitle
	}
	return cfg, nil
}

// resolveOptions copies opts and fills in defaults for nil fields.
func resolveOptions(opts *Options) Options {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics()
	}
	if o.Clipboard == nil {
		o.Clipboard = ui.SystemClipboard{}
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}
	return o
}
