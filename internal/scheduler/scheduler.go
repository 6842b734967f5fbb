// Package scheduler implements the Refresh Scheduler of spec §4.6: the
// per-tick pipeline that drains the control-plane state, takes a fresh
// Observer snapshot, reconciles the Cache, and drives either the
// Occlusion-Clip Builder + Renderer (composited mode) or the winattr style
// cache (WindowAttribute mode).
package scheduler

import (
	"log/slog"

	"github.com/1broseidon/borderd/internal/cache"
	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/controlplane"
	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/observer"
	"github.com/1broseidon/borderd/internal/occlusion"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/renderer"
	"github.com/1broseidon/borderd/internal/winattr"
)

// ClipInstaller installs a region as the overlay host window's clip (spec
// §4.4's "installed as the overlay host window's clipping region"); the
// concrete Windows implementation wraps winapi.BuildClipRegion/SetWindowRgn.
type ClipInstaller interface {
	InstallClip(region geometry.Region) error
}

// Scheduler owns one tick of spec §4.6. It never blocks: Tick is called
// synchronously from the UI thread's message procedure in response to a
// timer, a bridged refresh request, or a just-processed control-plane
// message.
type Scheduler struct {
	ws       platform.WindowSystem
	host     platform.Handle
	obs      *observer.Observer
	cache    *cache.Cache
	renderer *renderer.Renderer
	clip     ClipInstaller
	receiver *controlplane.Receiver
	logger   *slog.Logger

	mode                 config.RenderMode
	suppressInFullscreen bool
	partialRatio         float64

	styleCache   *winattr.StyleCache
	styleApplier winattr.Applier

	lastLive     controlplane.LiveConfig
	haveLastLive bool
}

// New wires a Scheduler. clip and styleApplier may be nil for whichever
// render mode isn't in effect (the composited path never touches
// styleApplier, and vice versa).
func New(
	ws platform.WindowSystem,
	host platform.Handle,
	obs *observer.Observer,
	c *cache.Cache,
	r *renderer.Renderer,
	clip ClipInstaller,
	receiver *controlplane.Receiver,
	startup *config.Config,
	styleApplier winattr.Applier,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ws:                   ws,
		host:                 host,
		obs:                  obs,
		cache:                c,
		renderer:             r,
		clip:                 clip,
		receiver:             receiver,
		logger:               logger,
		mode:                 startup.RenderMode,
		suppressInFullscreen: startup.SuppressInFullscreen,
		partialRatio:         startup.PartialRedrawRatio,
		styleCache:           winattr.NewStyleCache(),
		styleApplier:         styleApplier,
	}
}

// Tick runs one full refresh cycle (spec §4.6 steps 1-6).
func (s *Scheduler) Tick() {
	live := s.receiver.Live()

	if s.suppressInFullscreen && s.isFullscreenExclusive() {
		return
	}

	targets := s.receiver.Targets()
	s.obs.ForegroundOnly = live.ForegroundOnly
	s.obs.Targets = nil
	if targets != nil {
		s.obs.Targets = targets.Handles
		s.obs.ForegroundOnly = live.ForegroundOnly || targets.ForegroundOnly
	}

	snap, err := s.obs.Take()
	if err != nil {
		s.logger.Warn("scheduler: observer snapshot failed", "error", err)
		return
	}

	local := translateToLocal(snap.Windows, snap.VSB)
	report := s.cache.Reconcile(local)

	styleChanged := !s.haveLastLive || live != s.lastLive
	s.lastLive = live
	s.haveLastLive = true

	if report.Empty() && !styleChanged {
		return
	}

	if s.mode == config.RenderModeWindowAttribute {
		s.tickWindowAttribute(snap, live)
		return
	}
	s.tickComposited(snap, local, report, live, styleChanged)
}

func (s *Scheduler) tickWindowAttribute(snap observer.Snapshot, live controlplane.LiveConfig) {
	if s.styleApplier == nil {
		return
	}
	handles := make([]platform.Handle, len(snap.Windows))
	for i, w := range snap.Windows {
		handles[i] = w.Handle
	}
	s.styleCache.Reconcile(s.styleApplier, live.Color, handles, func(h platform.Handle, err error) {
		s.logger.Warn("scheduler: applying window attribute failed", "handle", h, "error", err)
	})
}

func (s *Scheduler) tickComposited(snap observer.Snapshot, local []observer.WindowState, report cache.DiffReport, live controlplane.LiveConfig, styleChanged bool) {
	localVSB := geometry.NewRect(0, 0, snap.VSB.Width(), snap.VSB.Height())
	if err := s.renderer.EnsureSurface(localVSB); err != nil {
		s.logger.Warn("scheduler: ensure surface failed", "error", err)
		return
	}

	rects := make([]geometry.Rect, len(local))
	for i, w := range local {
		rects[i] = w.Rect
	}
	clipRegion := occlusion.Build(rects, live.Thickness)
	if s.clip != nil {
		if err := s.clip.InstallClip(clipRegion); err != nil {
			s.logger.Warn("scheduler: install clip region failed", "error", err)
		}
	}

	windows := make([]renderer.WindowRect, len(local))
	for i, w := range local {
		windows[i] = renderer.WindowRect{Rect: w.Rect}
	}

	dirty := report.DirtyRect()
	plan := renderer.DrawPlan{
		Windows:      windows,
		Color:        live.Color,
		ThicknessPx:  live.Thickness,
		Corner:       renderer.CornerToken(live.Corner),
		DirtyRect:    dirty,
		FullRedraw:   styleChanged || dirty.Empty(),
		PartialRatio: s.partialRatio,
		DPIScale:     geometry.NewDPIScale(s.ws.DPI(s.host)),
	}
	if err := s.renderer.Draw(plan); err != nil {
		s.logger.Warn("scheduler: draw failed", "error", err)
	}
}

// isFullscreenExclusive approximates "a fullscreen exclusive application
// owns the foreground window" as the foreground window's raw bounds
// exactly covering the primary monitor (spec §9 Design Notes
// original_source supplement "game-mode suppression"). Multi-monitor
// fullscreen on a non-primary display is not detected by this heuristic.
// A zero foreground handle means there is no foreground window and never
// counts as fullscreen.
func (s *Scheduler) isFullscreenExclusive() bool {
	fg, err := s.ws.ForegroundWindow()
	if err != nil || fg == 0 {
		return false
	}
	raw, err := s.ws.RawBounds(fg)
	if err != nil {
		return false
	}
	primary, err := s.ws.PrimaryScreenBounds()
	if err != nil {
		return false
	}
	return raw == primary
}

func translateToLocal(windows []observer.WindowState, vsb geometry.Rect) []observer.WindowState {
	out := make([]observer.WindowState, len(windows))
	for i, w := range windows {
		out[i] = observer.WindowState{Handle: w.Handle, Rect: w.Rect.Translate(-vsb.L, -vsb.T)}
	}
	return out
}
