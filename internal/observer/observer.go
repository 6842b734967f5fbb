// Package observer implements the Window Observer of spec §4.1: it turns
// the platform's raw enumeration into the top-most-first ordered list of
// eligible window rectangles the rest of the engine consumes as a Snapshot.
package observer

import (
	"log/slog"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
)

// shellReservedClasses are the class names spec §4.1 excludes regardless of
// other eligibility (tray, desktop manager, desktop worker).
var shellReservedClasses = map[string]bool{
	"Shell_TrayWnd":     true,
	"Progman":           true,
	"WorkerW":           true,
}

// WindowState is one eligible window's contribution to a Snapshot: its
// handle and its geometry in virtual-screen (not yet overlay-local)
// coordinates.
type WindowState struct {
	Handle platform.Handle
	Rect   geometry.Rect
}

// Snapshot is the Observer's output for one tick: eligible windows in
// top-most-first order, plus the virtual screen bounds they were filtered
// against.
type Snapshot struct {
	Windows []WindowState
	VSB     geometry.Rect
}

// Observer wraps a platform.WindowSystem with the eligibility predicate,
// geometry fallback, and intersection filter of spec §4.1.
type Observer struct {
	ws     platform.WindowSystem
	logger *slog.Logger

	// ForegroundOnly mirrors the live Config's foreground_only flag; the
	// scheduler updates it before calling Take.
	ForegroundOnly bool

	// Targets, when non-nil, overrides enumeration with an explicit set of
	// handles to treat as the eligible set (spec §4.7 target list override).
	// A nil slice means "use enumeration"; a non-nil empty slice means "no
	// eligible windows".
	Targets []platform.Handle
}

// New builds an Observer over ws.
func New(ws platform.WindowSystem, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{ws: ws, logger: logger}
}

// Take produces a fresh Snapshot (spec §4.1, §4.6 step 2). Handles that go
// invalid mid-enumeration are dropped for this tick, not treated as a fatal
// error (spec §5 failure isolation).
func (o *Observer) Take() (Snapshot, error) {
	vsb, err := o.ws.VirtualScreenBounds()
	if err != nil {
		return Snapshot{}, err
	}

	candidates, err := o.candidates()
	if err != nil {
		return Snapshot{}, err
	}

	var fg platform.Handle
	if o.ForegroundOnly {
		fg, err = o.ws.ForegroundWindow()
		if err != nil {
			o.logger.Warn("observer: foreground window lookup failed", "error", err)
		}
	}

	snap := Snapshot{VSB: vsb}
	for _, h := range candidates {
		if !o.eligible(h, fg) {
			continue
		}
		rect, ok := o.geometry(h)
		if !ok {
			continue
		}
		if !rect.Intersects(vsb) {
			continue
		}
		snap.Windows = append(snap.Windows, WindowState{Handle: h, Rect: rect})
	}
	return snap, nil
}

// candidates returns the handles to evaluate: the override target list when
// set, otherwise a fresh top-most-first enumeration.
func (o *Observer) candidates() ([]platform.Handle, error) {
	if o.Targets != nil {
		return o.Targets, nil
	}
	return o.ws.EnumerateTopLevelWindows()
}

// eligible implements spec §4.1's predicate. When Targets is set, only the
// foreground_only filter still applies — the override already names the
// eligible set, so the visibility/ownership/class checks that exist to
// exclude shell chrome from raw enumeration don't apply to an explicit list.
func (o *Observer) eligible(h platform.Handle, fg platform.Handle) bool {
	if o.Targets != nil {
		return !o.ForegroundOnly || o.isForegroundOrDescendant(h, fg)
	}
	if !o.ws.IsVisible(h) || o.ws.IsMinimized(h) {
		return false
	}
	if o.ws.RootOf(h) != h {
		return false
	}
	if o.ws.IsToolWindow(h) {
		return false
	}
	if shellReservedClasses[o.ws.ClassName(h)] {
		return false
	}
	if o.ws.IsCloaked(h) {
		return false
	}
	if o.ForegroundOnly && !o.isForegroundOrDescendant(h, fg) {
		return false
	}
	return true
}

func (o *Observer) isForegroundOrDescendant(h, fg platform.Handle) bool {
	if fg == 0 {
		return false
	}
	if h == fg {
		return true
	}
	return o.ws.RootOf(fg) == h
}

// geometry implements spec §4.1's "prefer frame bounds, fall back to raw
// bounds" rule.
func (o *Observer) geometry(h platform.Handle) (geometry.Rect, bool) {
	if r, err := o.ws.FrameBounds(h); err == nil {
		return r, true
	}
	r, err := o.ws.RawBounds(h)
	if err != nil {
		o.logger.Warn("observer: geometry unavailable, dropping window this tick", "handle", h, "error", err)
		return geometry.Rect{}, false
	}
	return r, true
}
