package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceKind distinguishes where an effective field's value came from, for
// ValidationError's file:line:col reporting.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where one YAML-path's value was last written.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

// ValidationError reports a Config field that failed Validate, annotated
// with the file:line:col it was set from when that's known.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// rawConfig mirrors Config with pointer fields so the YAML decoder can
// distinguish "absent" from "zero value" when merging over DefaultConfig.
type rawConfig struct {
	Color                *string  `yaml:"color"`
	Thickness            *float64 `yaml:"thickness"`
	Corner               *string  `yaml:"corner"`
	ForegroundOnly       *bool    `yaml:"foreground_only"`
	SuppressInFullscreen *bool    `yaml:"suppress_in_fullscreen"`
	PartialRedrawRatio   *float64 `yaml:"partial_redraw_ratio"`
	RenderMode           *string  `yaml:"render_mode"`
	MinIntegrityLevel    *string  `yaml:"min_integrity_level"`
	SingleInstanceName   *string  `yaml:"single_instance_name"`
	LogLevel             *string  `yaml:"log_level"`
	LogFormat            *string  `yaml:"log_format"`
}

// LoadResult is the outcome of a Load call: the effective config plus
// per-field provenance for diagnostics (mirrors the teacher's
// LoadResult/Sources introspection idiom).
type LoadResult struct {
	Config  *Config
	Sources map[string]Source
	File    string
}

// DefaultConfigPath returns the standard per-user config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "borderd", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath loads defaults merged with whatever path contains; a
// missing file is not an error — it just means "defaults only".
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	sources := map[string]Source{}

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read: %w", path, err)
		}

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
		}

		var raw rawConfig
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		applyRaw(cfg, &raw)
		sources = collectSources(&doc, path)
	}

	if err := cfg.resolveColor(); err != nil {
		return nil, attachSourceContext(&ValidationError{Path: "color", Err: err}, sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{Config: cfg, Sources: sources, File: path}, nil
}

func applyRaw(cfg *Config, raw *rawConfig) {
	if raw.Color != nil {
		cfg.ColorHex = *raw.Color
	}
	if raw.Thickness != nil {
		cfg.Thickness = *raw.Thickness
	}
	if raw.Corner != nil {
		cfg.Corner = *raw.Corner
	}
	if raw.ForegroundOnly != nil {
		cfg.ForegroundOnly = *raw.ForegroundOnly
	}
	if raw.SuppressInFullscreen != nil {
		cfg.SuppressInFullscreen = *raw.SuppressInFullscreen
	}
	if raw.PartialRedrawRatio != nil {
		cfg.PartialRedrawRatio = *raw.PartialRedrawRatio
	}
	if raw.RenderMode != nil {
		cfg.RenderMode = RenderMode(*raw.RenderMode)
	}
	if raw.MinIntegrityLevel != nil {
		cfg.MinIntegrityLevel = *raw.MinIntegrityLevel
	}
	if raw.SingleInstanceName != nil {
		cfg.SingleInstanceName = *raw.SingleInstanceName
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = *raw.LogFormat
	}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		out[keyNode.Value] = Source{Kind: SourceFile, File: file, Line: valNode.Line, Column: valNode.Column}
	}
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
