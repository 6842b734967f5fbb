// Package platform defines the abstract OS interfaces the engine core
// consumes (spec §6). Everything in this package is a contract; the
// concrete Windows adapter lives in windows_backend.go and internal/winapi.
// The core (observer, cache, scheduler, renderer, ...) never imports
// anything from internal/winapi directly — only this package's types.
package platform

import "github.com/1broseidon/borderd/internal/geometry"

// Handle is an opaque OS-assigned top-level window identifier (spec §3's
// Window Handle). It is comparable and hashable, and may outlive the
// window it names becoming invalid asynchronously.
type Handle uintptr

// EventClass names one of the window lifecycle events the Event-Hook
// Demultiplexer subscribes to (spec §4.3).
type EventClass int

const (
	EventShow EventClass = iota
	EventHide
	EventLocationChange
	EventMinimizeStart
	EventMinimizeEnd
	EventForeground
	EventReorder
	EventDestroy
)

func (c EventClass) String() string {
	switch c {
	case EventShow:
		return "SHOW"
	case EventHide:
		return "HIDE"
	case EventLocationChange:
		return "LOCATION_CHANGE"
	case EventMinimizeStart:
		return "MINIMIZE_START"
	case EventMinimizeEnd:
		return "MINIMIZE_END"
	case EventForeground:
		return "FOREGROUND"
	case EventReorder:
		return "REORDER"
	case EventDestroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}

// Event is a single delivered OS window event. It arrives on an arbitrary
// worker thread (spec §5) — the callback registered via Subscribe must not
// touch cache/renderer/config state directly, only enqueue the event.
type Event struct {
	Class  EventClass
	Handle Handle
}

// Subscription is a live registration returned by Subscribe; pass it to
// Unsubscribe at shutdown. Unsubscribe must be idempotent (spec §4.3).
type Subscription interface {
	Unsubscribe()
}

// WindowSystem is the abstract OS interface surface named in spec §6. A
// concrete implementation (WindowsBackend) is an external-collaborator-style
// adapter: the core only ever holds a WindowSystem value.
type WindowSystem interface {
	// EnumerateTopLevelWindows returns candidate handles in top-most-first
	// z-order (spec §4.1 Ordering).
	EnumerateTopLevelWindows() ([]Handle, error)

	IsVisible(h Handle) bool
	IsMinimized(h Handle) bool
	IsCloaked(h Handle) bool
	IsToolWindow(h Handle) bool
	RootOf(h Handle) Handle
	ClassName(h Handle) string

	// FrameBounds returns the system-reported extended frame bounds,
	// excluding invisible shadow/resize margins (spec §4.1, preferred).
	FrameBounds(h Handle) (geometry.Rect, error)
	// RawBounds is the fallback used when FrameBounds is unavailable.
	RawBounds(h Handle) (geometry.Rect, error)

	ForegroundWindow() (Handle, error)

	// VirtualScreenBounds returns the rectangle spanning all monitors
	// (spec §3 VSB).
	VirtualScreenBounds() (geometry.Rect, error)

	// PrimaryScreenBounds returns the primary monitor's rectangle at
	// (0,0), used by the fullscreen-suppression heuristic (spec §9
	// Design Notes original_source supplement "game-mode suppression").
	PrimaryScreenBounds() (geometry.Rect, error)

	// DPI returns h's current per-monitor DPI (96 = 100%), used to scale
	// corner radii (spec §9 Design Notes original_source supplement
	// "per-monitor DPI change").
	DPI(h Handle) int

	// Subscribe installs an OS-level hook for the given classes and invokes
	// callback for each matching event on an arbitrary worker thread.
	// callback must return quickly and must not call back into the
	// WindowSystem, the cache, or the renderer (spec §5).
	Subscribe(classes []EventClass, callback func(Event)) (Subscription, error)
}

// CompositionSystem is the abstract GPU composition interface named in
// spec §6. It owns device/surface/visual lifetimes; DrawContext is the
// drawing sink bound to a surface between BeginDraw and EndDraw.
type CompositionSystem interface {
	CreateDevice() (GraphicsDevice, error)
}

// GraphicsDevice owns the composition device and the target bound to a
// host window (spec §3 Composition Resources, §6 composition.*).
type GraphicsDevice interface {
	CreateTarget(host HostWindow) (Target, error)
	CreateVisual() (Visual, error)
	CreateSurface(w, h int) (Surface, error)
	Commit() error
	Release()
}

// Target binds a composition tree root to a host window.
type Target interface {
	SetRoot(v Visual) error
	Release()
}

// Visual is one node of the composition tree. Leaf visuals hold a Surface
// as content; interior visuals hold children (spec §9 acyclic ownership).
type Visual interface {
	SetContent(s Surface) error
	AddChild(v Visual) error
	Release()
}

// Surface is a GPU-backed off-screen BGRA8 premultiplied bitmap (spec §3).
type Surface interface {
	// BeginDraw starts a draw batch, optionally scoped to updateRect for a
	// partial redraw; a nil updateRect means full-surface redraw. Returns
	// the pixel offset the draw context's origin maps to within the
	// surface, per spec §6's begin_draw contract.
	BeginDraw(updateRect *geometry.Rect) (DrawContext, geometry.Point, error)
	EndDraw() error
	Release()
}

// DrawContext exposes the drawing primitives spec §6 lists under
// "drawing": clear/fill_rect/stroke_rect/stroke_rounded_rect.
type DrawContext interface {
	Clear(color Color)
	FillRect(r geometry.Rect, color Color)
	StrokeRect(r geometry.Rect, width float64, color Color)
	StrokeRoundedRect(r geometry.Rect, radius float64, width float64, color Color)
}

// Color is premultiplied-independent RGBA in [0,1] ready for the drawing
// backend; conversion from the wire's 0xAARRGGBB happens in internal/config.
type Color struct {
	R, G, B, A float64
}

// HostWindow is the minimal surface the composition system needs from the
// overlay host window (spec §4.8); internal/hostwindow implements it.
type HostWindow interface {
	NativeHandle() Handle
}
