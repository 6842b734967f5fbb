//go:build windows

// Package compositiondev is the concrete Windows implementation of the
// composition interfaces in internal/platform (spec §4.5, §6 composition.*).
// No Go binding for DirectComposition/Direct2D exists in the retrieved
// corpus, so the composition tree is realized with plain GDI: a device
// context, a DIB section for the surface, and UpdateLayeredWindow to
// present it (see DESIGN.md). The tree shape (device -> target -> visual ->
// surface) is kept exactly as internal/platform describes it even though a
// single DIB section is the only thing that ultimately gets drawn — the
// visual tree here is a bookkeeping structure, not a compositor.
package compositiondev

import (
	"fmt"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/renderer"
	"github.com/1broseidon/borderd/internal/winapi"
)

// System implements platform.CompositionSystem.
type System struct{}

func New() *System { return &System{} }

func (s *System) CreateDevice() (platform.GraphicsDevice, error) {
	return &Device{}, nil
}

// Device implements platform.GraphicsDevice. It holds no GPU resources of
// its own; each Surface owns its DIB section.
type Device struct {
	target *Target
}

func (d *Device) CreateTarget(host platform.HostWindow) (platform.Target, error) {
	hwnd := winapi.HWND(host.NativeHandle())
	if hwnd == 0 {
		return nil, fmt.Errorf("compositiondev: host window handle is zero")
	}
	t := &Target{hwnd: hwnd}
	d.target = t
	return t, nil
}

func (d *Device) CreateVisual() (platform.Visual, error) {
	return &Visual{}, nil
}

func (d *Device) CreateSurface(w, h int) (platform.Surface, error) {
	dib, err := winapi.CreateDIBSection(w, h)
	if err != nil {
		return nil, fmt.Errorf("compositiondev: create surface: %w", err)
	}
	buf := &renderer.PixelBuffer{W: w, H: h, Stride: w * 4, Pix: dib.Pixels()}
	return &Surface{dib: dib, buf: buf, device: d}, nil
}

// Commit presents the last-drawn surface belonging to the device's target,
// if any. EndDraw already calls UpdateLayeredWindow for that surface, so
// Commit is a no-op for the raw-GDI backend — kept to satisfy spec §6's
// commit(device) contract, which composited backends (a real
// DirectComposition device) would use to flush a batched frame.
func (d *Device) Commit() error { return nil }

func (d *Device) Release() {
	d.target = nil
}

// Target implements platform.Target, binding a composition root to the
// host window's HWND.
type Target struct {
	hwnd winapi.HWND
	root *Visual
}

func (t *Target) SetRoot(v platform.Visual) error {
	vv, ok := v.(*Visual)
	if !ok {
		return fmt.Errorf("compositiondev: SetRoot given a foreign Visual type")
	}
	t.root = vv
	return nil
}

func (t *Target) Release() { t.root = nil }

// Visual implements platform.Visual. Content/children are tracked so a
// caller building a real tree gets correct semantics even though only the
// eventual leaf surface is ever presented.
type Visual struct {
	content  *Surface
	children []*Visual
}

func (v *Visual) SetContent(s platform.Surface) error {
	sv, ok := s.(*Surface)
	if !ok {
		return fmt.Errorf("compositiondev: SetContent given a foreign Surface type")
	}
	v.content = sv
	return nil
}

func (v *Visual) AddChild(child platform.Visual) error {
	cv, ok := child.(*Visual)
	if !ok {
		return fmt.Errorf("compositiondev: AddChild given a foreign Visual type")
	}
	v.children = append(v.children, cv)
	return nil
}

func (v *Visual) Release() {
	v.content = nil
	v.children = nil
}

// Surface implements platform.Surface over a DIB section shared with a
// renderer.PixelBuffer so the same drawing primitives that are unit-tested
// off-Windows run unmodified against real GDI-backed memory.
type Surface struct {
	dib    *winapi.DIBSection
	buf    *renderer.PixelBuffer
	device *Device
}

func (s *Surface) BeginDraw(updateRect *geometry.Rect) (platform.DrawContext, geometry.Point, error) {
	// The DIB is the whole VSB-sized surface at local origin (0,0); a nil
	// updateRect means a full redraw, so the offset is the origin itself.
	// A non-nil updateRect is the caller's absolute dirty rect, and the
	// offset returned must be its top-left so callers can translate their
	// absolute-space draw commands down into the surface's local space.
	if updateRect == nil {
		return s.buf, geometry.Point{X: 0, Y: 0}, nil
	}
	return s.buf, geometry.Point{X: updateRect.L, Y: updateRect.T}, nil
}

// EndDraw presents the surface's current pixel content on the bound host
// window via UpdateLayeredWindow. The host window's on-screen position is
// read fresh each time since it tracks VSB.TopLeft, which can move on a
// display-configuration change (spec §4.6 S5).
func (s *Surface) EndDraw() error {
	if s.device == nil || s.device.target == nil {
		return fmt.Errorf("compositiondev: EndDraw called with no bound target")
	}
	hwnd := s.device.target.hwnd
	r, ok := winapi.GetWindowRectRaw(hwnd)
	if !ok {
		return fmt.Errorf("compositiondev: GetWindowRect failed")
	}
	return winapi.UpdateLayeredWindow(hwnd, s.dib, int(r.Left), int(r.Top), s.buf.W, s.buf.H)
}

func (s *Surface) Release() {
	if s.dib != nil {
		s.dib.Release()
		s.dib = nil
	}
}
