// Package winattr implements the WindowAttribute render-mode variant (spec
// §9 Design Notes "Render-mode variants"): instead of drawing into a
// composition surface and clipping the overlay host window, it applies the
// configured color directly to each tracked window's native border via the
// OS window-attribute API, reconciling a small per-window style cache the
// same way internal/cache reconciles window geometry.
package winattr

import "github.com/1broseidon/borderd/internal/platform"

// Applier is the thin OS-facing seam winattr draws through; the Windows
// implementation lives in applier_windows.go.
type Applier interface {
	SetBorderColor(h platform.Handle, c platform.Color) error
	ResetBorderColor(h platform.Handle) error
}

// StyleCache tracks which color is currently applied to which window, so
// Reconcile only issues an OS call when a window is new or its color
// changed, and clears the attribute from windows that dropped out of the
// tracked set.
type StyleCache struct {
	applied map[platform.Handle]platform.Color
}

func NewStyleCache() *StyleCache {
	return &StyleCache{applied: make(map[platform.Handle]platform.Color)}
}

// Reconcile applies color to every handle in want, skipping any whose
// cached color already matches, then clears the attribute from any
// previously-applied handle no longer in want. Apply/reset failures are
// reported via report but do not stop the reconcile of the remaining
// handles (spec §5 "a rendering failure does not corrupt the cache").
func (s *StyleCache) Reconcile(applier Applier, color platform.Color, want []platform.Handle, report func(h platform.Handle, err error)) {
	wantSet := make(map[platform.Handle]bool, len(want))
	for _, h := range want {
		wantSet[h] = true
		if cur, ok := s.applied[h]; ok && cur == color {
			continue
		}
		if err := applier.SetBorderColor(h, color); err != nil {
			if report != nil {
				report(h, err)
			}
			continue
		}
		s.applied[h] = color
	}

	for h := range s.applied {
		if wantSet[h] {
			continue
		}
		if err := applier.ResetBorderColor(h); err != nil && report != nil {
			report(h, err)
		}
		delete(s.applied, h)
	}
}

// Len reports how many windows currently carry an applied color, mainly
// for tests.
func (s *StyleCache) Len() int { return len(s.applied) }
