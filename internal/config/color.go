package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/borderd/internal/platform"
)

// ParseColor accepts the two hex forms spec §6's wire protocol allows:
// #RRGGBB (opaque) and #AARRGGBB, with or without the leading '#'.
func ParseColor(s string) (platform.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return platform.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return argbToColor(0xFF000000 | uint32(v)), nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return platform.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return argbToColor(uint32(v)), nil
	default:
		return platform.Color{}, fmt.Errorf("color must be #RRGGBB or #AARRGGBB, got %q", s)
	}
}

func argbToColor(argb uint32) platform.Color {
	a := byte(argb >> 24)
	r := byte(argb >> 16)
	g := byte(argb >> 8)
	b := byte(argb)
	return platform.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}
