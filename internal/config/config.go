// Package config implements the ambient startup configuration layer: a
// YAML file merged over hardcoded defaults, with per-field provenance
// tracking so validation errors point at a file:line:col (grounded on the
// teacher's own loader/Source/ValidationError idiom). This is distinct from
// the small, atomically-swapped live configuration the control plane
// mutates at runtime (internal/controlplane.LiveConfig) — this package only
// covers what's read once at process start.
package config

import (
	"fmt"

	"github.com/1broseidon/borderd/internal/platform"
)

// RenderMode selects between the composited overlay and the per-window
// OS-attribute variant (spec §9 Design Notes render-mode variants).
type RenderMode string

const (
	RenderModeComposited      RenderMode = "composited"
	RenderModeWindowAttribute RenderMode = "windowattribute"
)

// CornerToken values recognized by the corner radius mapping (spec §4.5).
const (
	CornerDefault    = "default"
	CornerDoNot      = "donot"
	CornerRound      = "round"
	CornerRoundSmall = "roundsmall"
)

var validCornerTokens = map[string]bool{
	CornerDefault:    true,
	CornerDoNot:      true,
	CornerRound:      true,
	CornerRoundSmall: true,
}

// Config is the effective startup configuration: hardcoded defaults merged
// with whatever the YAML file overrides.
type Config struct {
	Color       platform.Color `yaml:"-"`
	ColorHex    string         `yaml:"color"`
	Thickness   float64        `yaml:"thickness"`
	Corner      string         `yaml:"corner"`
	ForegroundOnly       bool    `yaml:"foreground_only"`
	SuppressInFullscreen bool    `yaml:"suppress_in_fullscreen"`
	PartialRedrawRatio   float64 `yaml:"partial_redraw_ratio"`

	RenderMode RenderMode `yaml:"render_mode"`

	// MinIntegrityLevel gates which processes' control-plane messages are
	// accepted (spec §C supplemented feature: elevation/integrity gating).
	MinIntegrityLevel string `yaml:"min_integrity_level"`

	// SingleInstanceName is the named guard used to refuse a second
	// concurrent instance at startup (spec §C supplemented feature).
	SingleInstanceName string `yaml:"single_instance_name"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the hardcoded baseline every load starts from.
func DefaultConfig() *Config {
	return &Config{
		Color:                platform.Color{R: 0, G: 0.47, B: 1, A: 1},
		ColorHex:             "#FF0078FF",
		Thickness:            2,
		Corner:               CornerDefault,
		ForegroundOnly:       false,
		SuppressInFullscreen: true,
		PartialRedrawRatio:   0.3,
		RenderMode:           RenderModeComposited,
		MinIntegrityLevel:    "medium",
		SingleInstanceName:   "borderd-instance",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Validate checks every field spec §4.7's message-acceptance rules also
// apply to: color well-formed, thickness in [1, 1000], corner recognized.
func (c *Config) Validate() error {
	if _, err := ParseColor(c.ColorHex); err != nil {
		return &ValidationError{Path: "color", Err: err}
	}
	if c.Thickness < 1 || c.Thickness > 1000 {
		return &ValidationError{Path: "thickness", Err: fmt.Errorf("thickness must be within [1, 1000], got %v", c.Thickness)}
	}
	if !validCornerTokens[c.Corner] {
		return &ValidationError{Path: "corner", Err: fmt.Errorf("corner must be one of default, donot, round, roundsmall, got %q", c.Corner)}
	}
	if c.PartialRedrawRatio <= 0 || c.PartialRedrawRatio > 1 {
		return &ValidationError{Path: "partial_redraw_ratio", Err: fmt.Errorf("partial_redraw_ratio must be within (0, 1], got %v", c.PartialRedrawRatio)}
	}
	if c.RenderMode != RenderModeComposited && c.RenderMode != RenderModeWindowAttribute {
		return &ValidationError{Path: "render_mode", Err: fmt.Errorf("render_mode must be composited or windowattribute, got %q", c.RenderMode)}
	}
	return nil
}

// resolveColor fills Color from ColorHex; called once after YAML decode
// since Color itself carries no yaml tag (the wire/file format is always
// the hex string).
func (c *Config) resolveColor() error {
	color, err := ParseColor(c.ColorHex)
	if err != nil {
		return err
	}
	c.Color = color
	return nil
}
