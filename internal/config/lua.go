package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-gradient/internal/gradient"
)

// Resource limits applied while a preset script runs.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 50 * 1024 * 1024 // 50 MB
)

// LuaConfigParser executes preset scripts with the Golua runtime and reads
// the resulting studio.gradient and studio.window tables.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	stdout  io.Writer
	mu      sync.Mutex
}

// ErrResourceLimit is returned when a preset exceeds its CPU or memory budget.
var ErrResourceLimit = errors.New("preset exceeded resource limits")

// NewLuaConfigParser creates a parser with a fresh Lua runtime whose
// print output is discarded.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a parser that sends print output to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
		stdout:  stdout,
	}, nil
}

// Parse runs a preset script and extracts the configuration.
// Fields the script leaves unset keep their DefaultConfig values.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.runtime == nil {
		return nil, fmt.Errorf("lua parser is closed")
	}

	p.initStudioGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"preset",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile preset: %w", err)
	}

	if err := p.run(closure); err != nil {
		return nil, err
	}

	return p.extractConfig()
}

// run executes the compiled preset under hard resource limits. golua
// panics when a limit is exceeded; the panic is turned into
// ErrResourceLimit and the runtime is replaced, since its state is no
// longer reliable.
func (p *LuaConfigParser) run(closure *rt.Closure) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.reset()
			err = fmt.Errorf("%w: %v", ErrResourceLimit, r)
		}
	}()

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return fmt.Errorf("failed to execute preset: %w", err)
	}
	return nil
}

func (p *LuaConfigParser) reset() {
	if p.cleanup != nil {
		p.cleanup()
	}
	p.runtime = rt.New(p.stdout)
	p.cleanup = lib.LoadAll(p.runtime)
}

// initStudioGlobal installs an empty studio table so scripts can assign
// studio.gradient and studio.window directly.
func (p *LuaConfigParser) initStudioGlobal() {
	studio := rt.NewTable()
	studio.Set(rt.StringValue("gradient"), rt.TableValue(rt.NewTable()))
	studio.Set(rt.StringValue("window"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("studio"), rt.TableValue(studio))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	studioVal := p.runtime.GlobalEnv().Get(rt.StringValue("studio"))
	if studioVal == rt.NilValue {
		return &cfg, nil
	}
	studio, ok := studioVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("studio is not a table")
	}

	if t, ok := studio.Get(rt.StringValue("gradient")).TryTable(); ok {
		if err := extractGradient(&cfg.Gradient, t); err != nil {
			return nil, err
		}
	}
	if t, ok := studio.Get(rt.StringValue("window")).TryTable(); ok {
		if err := extractWindow(&cfg.Window, t); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func extractGradient(s *gradient.State, table *rt.Table) error {
	if val := getTableString(table, "type"); val != nil {
		t, err := gradient.ParseType(*val)
		if err != nil {
			return fmt.Errorf("invalid gradient.type: %w", err)
		}
		s.Type = t
	}
	val, err := getTableInt(table, "angle")
	if err != nil {
		return fmt.Errorf("invalid gradient.angle: %w", err)
	}
	if val != nil {
		s.Angle = *val
	}

	colorsVal := table.Get(rt.StringValue("colors"))
	if colorsVal != rt.NilValue {
		colors, err := getStringList(colorsVal)
		if err != nil {
			return fmt.Errorf("invalid gradient.colors: %w", err)
		}
		for i, c := range colors {
			colors[i] = ExpandEnv(c)
		}
		s.Colors = colors
	}

	if anim, ok := table.Get(rt.StringValue("animation")).TryTable(); ok {
		if val := getTableBool(anim, "enabled"); val != nil {
			s.Animation.Enabled = *val
		}
		if val := getTableFloat(anim, "duration"); val != nil {
			s.Animation.Duration = *val
		}
	}
	return nil
}

func extractWindow(w *WindowConfig, table *rt.Table) error {
	for _, dim := range []struct {
		key string
		dst *int
	}{{"width", &w.Width}, {"height", &w.Height}} {
		val, err := getTableInt(table, dim.key)
		if err != nil {
			return fmt.Errorf("invalid window.%s: %w", dim.key, err)
		}
		if val != nil {
			*dim.dst = *val
		}
	}
	if val := getTableString(table, "title"); val != nil {
		w.Title = ExpandEnv(*val)
	}
	if val := getTableBool(table, "panel"); val != nil {
		w.Panel = *val
	}
	return nil
}

// Close releases the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	p.runtime = nil
	return nil
}

// getStringList reads a Lua sequence of strings.
func getStringList(val rt.Value) ([]string, error) {
	table, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", val.TypeName())
	}
	n := table.Len()
	out := make([]string, 0, n)
	for i := int64(1); i <= n; i++ {
		item := table.Get(rt.IntValue(i))
		s, ok := item.TryString()
		if !ok {
			return nil, fmt.Errorf("entry %d: expected a string, got %s", i, item.TypeName())
		}
		out = append(out, s)
	}
	return out, nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	// Accept "yes"/"true" strings, which env expansion tends to produce.
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Float values are rounded half up, matching how angles are rounded elsewhere.
// NaN and infinities are rejected with ErrNotFinite.
func getTableInt(table *rt.Table, key string) (*int, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}

	if n, ok := val.TryInt(); ok {
		i := roundHalfUp(float64(n))
		return &i, nil
	}
	if f, ok := val.TryFloat(); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrNotFinite
		}
		i := roundHalfUp(f)
		return &i, nil
	}

	return nil, nil
}
