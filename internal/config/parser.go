package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Parser loads presets and returns validated, normalized configs.
type Parser struct {
	luaParser *LuaConfigParser
	validator *Validator
	lookup    LookupFunc
	// Warnings from the most recent successful parse.
	warnings []ValidationError
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithEnvLookup sets where GRADIENT_* overrides are read from.
// Pass nil to disable overrides.
func WithEnvLookup(lookup LookupFunc) ParserOption {
	return func(p *Parser) {
		p.lookup = lookup
	}
}

// WithStrictValidation makes correctable problems fail the parse.
func WithStrictValidation(strict bool) ParserOption {
	return func(p *Parser) {
		p.validator.WithStrictMode(strict)
	}
}

// NewParser creates a Parser. By default overrides are read with os.LookupEnv.
func NewParser(opts ...ParserOption) (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}

	p := &Parser{
		luaParser: luaParser,
		validator: NewValidator(),
		lookup:    os.LookupEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParseFile reads and parses a preset file.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return p.Parse(content)
}

// Parse runs preset content, applies environment overrides and validates
// the result.
func (p *Parser) Parse(content []byte) (*Config, error) {
	cfg, err := p.luaParser.Parse(content)
	if err != nil {
		return nil, err
	}
	if p.lookup != nil {
		if err := ApplyEnvOverrides(cfg, p.lookup); err != nil {
			return nil, fmt.Errorf("environment override: %w", err)
		}
	}

	result := p.validator.Validate(cfg)
	if err := result.Error(); err != nil {
		return nil, err
	}
	p.warnings = result.Warnings
	return cfg, nil
}

// ParseFromFS reads and parses a preset from a filesystem such as an embed.FS.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}

	return p.Parse(content)
}

// ParseReader parses a preset from r.
func (p *Parser) ParseReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return p.Parse(content)
}

// Warnings returns the validation warnings from the last successful parse.
func (p *Parser) Warnings() []ValidationError {
	return append([]ValidationError(nil), p.warnings...)
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}
