package renderer

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
)

// CornerToken selects the rounded-rect radius a border is drawn with
// (spec §4.5 "Corner radius mapping").
type CornerToken string

const (
	CornerDefault    CornerToken = "default"
	CornerDoNot      CornerToken = "donot"
	CornerRound      CornerToken = "round"
	CornerRoundSmall CornerToken = "roundsmall"
)

// CornerRadiusPx implements spec §4.5's fixed mapping table.
func CornerRadiusPx(token CornerToken) float64 {
	switch token {
	case CornerDoNot:
		return 0
	case CornerRound:
		return 12
	case CornerRoundSmall:
		return 6
	default:
		return 8
	}
}

// WindowRect is one entry of the scheduler's fresh snapshot, already
// translated to overlay-local coordinates by the time it reaches the
// renderer.
type WindowRect struct {
	Rect geometry.Rect
}

// DrawPlan bundles everything the renderer needs for one frame: it is
// produced by the scheduler from the current Config and Snapshot (spec
// §4.6 step 6).
type DrawPlan struct {
	Windows      []WindowRect
	Color        platform.Color
	ThicknessPx  float64
	Corner       CornerToken
	DirtyRect    geometry.Rect // zero value means "no known dirty rect"
	FullRedraw   bool
	PartialRatio float64 // Config.PartialRedrawRatio
	DPIScale     geometry.DPIScale
}

const maxConsecutiveFailures = 3

// Renderer owns the composition device/surface chain and the
// consecutive-failure counter from spec §4.5/§7.
type Renderer struct {
	device platform.GraphicsDevice
	host   platform.HostWindow

	surface  platform.Surface
	visual   platform.Visual
	target   platform.Target
	surfaceW int
	surfaceH int

	consecutiveFailures int
	logger              *slog.Logger
}

// New wires a Renderer to an already-created graphics device and host
// window. The surface is not created here: EnsureSurface creates it, and
// Draw returns an error until it has (spec §3: "Created at startup; surface re-created when VSB size
// changes...").
func New(device platform.GraphicsDevice, host platform.HostWindow, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{device: device, host: host, logger: logger}
}

// EnsureSurface makes sure the composition surface matches vsb's size,
// tearing down and recreating the surface/visual/target chain if the
// dimensions differ (spec §4.5 step 1, §3 invariant on surface_w/surface_h).
func (r *Renderer) EnsureSurface(vsb geometry.Rect) error {
	w, h := vsb.Width(), vsb.Height()
	if r.surface != nil && w == r.surfaceW && h == r.surfaceH {
		return nil
	}
	r.teardownSurface()

	target, err := r.device.CreateTarget(r.host)
	if err != nil {
		return fmt.Errorf("create composition target: %w", err)
	}
	root, err := r.device.CreateVisual()
	if err != nil {
		target.Release()
		return fmt.Errorf("create root visual: %w", err)
	}
	if err := target.SetRoot(root); err != nil {
		root.Release()
		target.Release()
		return fmt.Errorf("set composition root: %w", err)
	}
	surfaceVisual, err := r.device.CreateVisual()
	if err != nil {
		root.Release()
		target.Release()
		return fmt.Errorf("create surface visual: %w", err)
	}
	if err := root.AddChild(surfaceVisual); err != nil {
		surfaceVisual.Release()
		root.Release()
		target.Release()
		return fmt.Errorf("attach surface visual: %w", err)
	}
	surface, err := r.device.CreateSurface(w, h)
	if err != nil {
		surfaceVisual.Release()
		root.Release()
		target.Release()
		return fmt.Errorf("create surface: %w", err)
	}
	if err := surfaceVisual.SetContent(surface); err != nil {
		surface.Release()
		surfaceVisual.Release()
		root.Release()
		target.Release()
		return fmt.Errorf("bind surface content: %w", err)
	}

	r.target = target
	r.visual = surfaceVisual
	r.surface = surface
	r.surfaceW, r.surfaceH = w, h
	r.consecutiveFailures = 0
	return nil
}

func (r *Renderer) teardownSurface() {
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.visual != nil {
		r.visual.Release()
		r.visual = nil
	}
	if r.target != nil {
		r.target.Release()
		r.target = nil
	}
	r.surfaceW, r.surfaceH = 0, 0
}

// SelectPartial implements spec §4.5's partial-redraw decision: partial is
// chosen iff the dirty area ratio is below the configured threshold AND
// the dirty rect is non-empty.
func SelectPartial(dirty geometry.Rect, surfaceArea int, ratio float64) bool {
	if dirty.Empty() || surfaceArea == 0 {
		return false
	}
	return float64(dirty.Area())/float64(surfaceArea) < ratio
}

// Draw runs one draw cycle (spec §4.5 steps 2-5). vsb must already have
// been passed to EnsureSurface by the caller (the scheduler) this tick.
func (r *Renderer) Draw(plan DrawPlan) error {
	if r.surface == nil {
		return fmt.Errorf("renderer: no surface; call EnsureSurface first")
	}

	partial := !plan.FullRedraw && SelectPartial(plan.DirtyRect, r.surfaceW*r.surfaceH, plan.PartialRatio)

	var updateRect *geometry.Rect
	if partial {
		dr := plan.DirtyRect
		updateRect = &dr
	}

	ctx, offset, err := r.surface.BeginDraw(updateRect)
	if err != nil {
		return r.onDrawFailure(err)
	}
	r.consecutiveFailures = 0

	// toLocal maps a full-surface-coordinate rect into the draw context's
	// own coordinate system, whose origin is `offset` within the current
	// update rect (spec §6 begin_draw's (draw_context, offset) contract).
	baseL, baseT := 0, 0
	if partial {
		baseL, baseT = plan.DirtyRect.L, plan.DirtyRect.T
	}
	toLocal := func(full geometry.Rect) geometry.Rect {
		return full.Translate(offset.X-baseL, offset.Y-baseT)
	}

	if partial {
		ctx.FillRect(toLocal(plan.DirtyRect), platform.Color{})
	} else {
		ctx.Clear(platform.Color{})
	}

	radius := plan.DPIScale.Scale(CornerRadiusPx(plan.Corner))
	for _, win := range plan.Windows {
		target := toLocal(win.Rect)
		if radius > 0 && plan.Corner != CornerDoNot {
			ctx.StrokeRoundedRect(target, radius, plan.ThicknessPx, plan.Color)
		} else {
			ctx.StrokeRect(target, plan.ThicknessPx, plan.Color)
		}
	}

	if err := r.surface.EndDraw(); err != nil {
		// EndDraw failing after a successful BeginDraw is a one-shot
		// device-operation failure (spec §7): the frame is lost, but this
		// does not count toward the consecutive-begin-draw-failure policy.
		r.logger.Warn("renderer: end draw failed, frame lost", "error", err)
		return nil
	}
	if err := r.device.Commit(); err != nil {
		r.logger.Warn("renderer: commit failed, frame lost", "error", err)
		return nil
	}
	return nil
}

func (r *Renderer) onDrawFailure(err error) error {
	r.consecutiveFailures++
	r.logger.Warn("renderer: begin draw failed", "error", err, "consecutive_failures", r.consecutiveFailures)
	if r.consecutiveFailures >= maxConsecutiveFailures {
		r.logger.Warn("renderer: recreating surface after repeated draw failures")
		w, h := r.surfaceW, r.surfaceH
		r.teardownSurface()
		if w > 0 && h > 0 {
			_ = r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: w, B: h})
		}
	}
	return nil // a lost frame is not a fatal error; next tick retries.
}

// Close releases composition resources in reverse construction order
// (spec §5 shutdown sequencing).
func (r *Renderer) Close() {
	r.teardownSurface()
	if r.device != nil {
		r.device.Release()
	}
}
