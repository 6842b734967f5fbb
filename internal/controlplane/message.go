// Package controlplane implements the Control-Plane Receiver of spec §4.7:
// parsing the two UTF-16 text message families delivered through the host
// window's inter-window data channel, field-level validation, and the live
// Config value the scheduler reads at the start of each tick.
package controlplane

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/platform"
)

// LiveConfig is the small, atomically-swapped config value the scheduler
// reads once at the start of each tick (spec §9 Design Notes "Config
// mutation"). It carries only the fields a control-plane message can
// change; everything else (render mode, min integrity level, ...) is fixed
// for the process lifetime and lives in config.Config.
type LiveConfig struct {
	Color          platform.Color
	Thickness      float64
	Corner         string
	ForegroundOnly bool
}

// FromStartup seeds a LiveConfig from the startup configuration.
func FromStartup(c *config.Config) LiveConfig {
	return LiveConfig{
		Color:          c.Color,
		Thickness:      c.Thickness,
		Corner:         c.Corner,
		ForegroundOnly: c.ForegroundOnly,
	}
}

// TargetOverride is the parsed form of a "target list" message (spec §6
// family 2): an explicit handle set, optionally further restricted to the
// foreground family.
type TargetOverride struct {
	Handles        []platform.Handle
	ForegroundOnly bool
}

const hwndsPrefix = "HWNDS "

// IsTargetList reports whether text carries the literal "HWNDS " prefix of
// spec §6's target-list message family, as opposed to a settings message.
func IsTargetList(text string) bool {
	return strings.HasPrefix(text, hwndsPrefix)
}

// ApplySettings parses a settings message (spec §6 family 1) against base,
// rejecting invalid fields individually with a warn log and applying the
// rest (spec §4.7 "Acceptance"). It never returns an error: every field is
// independent.
func ApplySettings(text string, base LiveConfig, logger *slog.Logger) LiveConfig {
	if logger == nil {
		logger = slog.Default()
	}
	out := base
	for _, tok := range strings.Fields(text) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			logger.Warn("control-plane: malformed token, expected key=value", "token", tok)
			continue
		}
		key = strings.ToLower(key)
		switch key {
		case "color":
			c, err := config.ParseColor(value)
			if err != nil {
				logger.Warn("control-plane: rejecting invalid color", "value", value, "error", err)
				continue
			}
			out.Color = c
		case "thickness":
			t, err := parseThickness(value)
			if err != nil {
				logger.Warn("control-plane: rejecting invalid thickness", "value", value, "error", err)
				continue
			}
			out.Thickness = t
		case "corner":
			if !validCorner(value) {
				logger.Warn("control-plane: rejecting unrecognized corner token", "value", value)
				continue
			}
			out.Corner = value
		case "foregroundonly":
			b, err := parseBool(value)
			if err != nil {
				logger.Warn("control-plane: rejecting invalid foregroundonly value", "value", value, "error", err)
				continue
			}
			out.ForegroundOnly = b
		default:
			logger.Warn("control-plane: unrecognized settings key", "key", key)
		}
	}
	return out
}

// parseThickness enforces spec §6's bounds (0, 1000) exclusive-open, and
// spec §8 property 7: an out-of-bounds value is rejected, leaving the
// caller's prior value unchanged — ApplySettings relies on this by simply
// not writing out.Thickness on error.
func parseThickness(value string) (float64, error) {
	t, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if t <= 0 || t >= 1000 {
		return 0, fmt.Errorf("thickness must be within (0, 1000), got %v", t)
	}
	return t, nil
}

func validCorner(token string) bool {
	switch token {
	case config.CornerDefault, config.CornerDoNot, config.CornerRound, config.CornerRoundSmall:
		return true
	default:
		return false
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected one of 0,1,true,false,on,off, got %q", value)
	}
}

// ParseTargetList parses the space-separated hex handles following the
// HWNDS literal prefix (spec §6 family 2). Malformed tokens are dropped
// silently (spec §7 "invalid target handles are silently ignored");
// validity against the live window set is the caller's responsibility
// (the observer does not enumerate override handles; it drops one only
// when neither its frame nor its raw bounds can be read).
func ParseTargetList(rest string) TargetOverride {
	var ov TargetOverride
	for _, tok := range strings.Fields(rest) {
		if strings.EqualFold(tok, "foregroundonly") {
			ov.ForegroundOnly = true
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 64)
		if err != nil {
			continue
		}
		ov.Handles = append(ov.Handles, platform.Handle(v))
	}
	return ov
}
