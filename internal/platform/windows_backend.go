//go:build windows

package platform

import (
	"fmt"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/winapi"
)

// eventRanges maps each EventClass to the WinEvent ID (or ID range) it
// subscribes to (spec §4.3).
var eventRanges = map[EventClass][2]uint32{
	EventShow:            {winapi.EventObjectShow, winapi.EventObjectShow},
	EventHide:            {winapi.EventObjectHide, winapi.EventObjectHide},
	EventLocationChange:  {winapi.EventObjectLocationChange, winapi.EventObjectLocationChange},
	EventMinimizeStart:   {winapi.EventSystemMinimizeStart, winapi.EventSystemMinimizeStart},
	EventMinimizeEnd:     {winapi.EventSystemMinimizeEnd, winapi.EventSystemMinimizeEnd},
	EventForeground:      {winapi.EventSystemForeground, winapi.EventSystemForeground},
	EventReorder:         {winapi.EventObjectReorder, winapi.EventObjectReorder},
	EventDestroy:         {winapi.EventObjectDestroy, winapi.EventObjectDestroy},
}

func classForEventID(id uint32) (EventClass, bool) {
	for class, rng := range eventRanges {
		if id >= rng[0] && id <= rng[1] {
			return class, true
		}
	}
	return 0, false
}

// WindowsBackend implements WindowSystem on top of internal/winapi's raw
// syscall wrappers. The core never imports winapi directly; it only ever
// holds this value behind the WindowSystem interface.
type WindowsBackend struct{}

// NewWindowsBackend constructs the backend, failing fast if user32's entry
// points didn't resolve (spec §6 "Fatal startup").
func NewWindowsBackend() (*WindowsBackend, error) {
	if !winapi.Loaded() {
		return nil, fmt.Errorf("platform: user32.dll entry points failed to resolve")
	}
	return &WindowsBackend{}, nil
}

var _ WindowSystem = (*WindowsBackend)(nil)

func (b *WindowsBackend) EnumerateTopLevelWindows() ([]Handle, error) {
	hs, err := winapi.EnumTopLevelWindows()
	if err != nil {
		return nil, err
	}
	out := make([]Handle, len(hs))
	for i, h := range hs {
		out[i] = Handle(h)
	}
	return out, nil
}

func (b *WindowsBackend) IsVisible(h Handle) bool  { return winapi.IsWindowVisible(winapi.HWND(h)) }
func (b *WindowsBackend) IsMinimized(h Handle) bool { return winapi.IsIconic(winapi.HWND(h)) }
func (b *WindowsBackend) IsCloaked(h Handle) bool   { return winapi.DwmGetCloaked(winapi.HWND(h)) }

// IsToolWindow reports WS_EX_TOOLWINDOW without WS_EX_APPWINDOW, the
// standard Explorer-taskbar-visibility heuristic the eligibility predicate
// relies on (spec §4.1).
func (b *WindowsBackend) IsToolWindow(h Handle) bool {
	ex := winapi.GetWindowLong(winapi.HWND(h), winapi.GWLExStyle)
	return ex&winapi.WSExToolWindow != 0 && ex&winapi.WSExAppWindow == 0
}

func (b *WindowsBackend) RootOf(h Handle) Handle {
	return Handle(winapi.GetAncestorRoot(winapi.HWND(h)))
}

func (b *WindowsBackend) ClassName(h Handle) string {
	return winapi.GetClassName(winapi.HWND(h))
}

func (b *WindowsBackend) FrameBounds(h Handle) (geometry.Rect, error) {
	r, ok := winapi.DwmGetExtendedFrameBounds(winapi.HWND(h))
	if !ok {
		return geometry.Rect{}, fmt.Errorf("platform: DwmGetExtendedFrameBounds failed for %v", h)
	}
	return r.ToGeometry(), nil
}

func (b *WindowsBackend) RawBounds(h Handle) (geometry.Rect, error) {
	r, ok := winapi.GetWindowRectRaw(winapi.HWND(h))
	if !ok {
		return geometry.Rect{}, fmt.Errorf("platform: GetWindowRect failed for %v", h)
	}
	return r.ToGeometry(), nil
}

func (b *WindowsBackend) ForegroundWindow() (Handle, error) {
	h := winapi.GetForegroundWindow()
	if h == 0 {
		return 0, fmt.Errorf("platform: no foreground window")
	}
	return Handle(h), nil
}

func (b *WindowsBackend) VirtualScreenBounds() (geometry.Rect, error) {
	x := winapi.GetSystemMetrics(winapi.SmXVirtualScreen)
	y := winapi.GetSystemMetrics(winapi.SmYVirtualScreen)
	w := winapi.GetSystemMetrics(winapi.SmCXVirtualScreen)
	h := winapi.GetSystemMetrics(winapi.SmCYVirtualScreen)
	if w <= 0 || h <= 0 {
		return geometry.Rect{}, fmt.Errorf("platform: GetSystemMetrics returned a non-positive virtual screen size")
	}
	return geometry.NewRect(x, y, x+w, y+h), nil
}

func (b *WindowsBackend) PrimaryScreenBounds() (geometry.Rect, error) {
	w := winapi.GetSystemMetrics(winapi.SmCXScreen)
	h := winapi.GetSystemMetrics(winapi.SmCYScreen)
	if w <= 0 || h <= 0 {
		return geometry.Rect{}, fmt.Errorf("platform: GetSystemMetrics returned a non-positive primary screen size")
	}
	return geometry.NewRect(0, 0, w, h), nil
}

func (b *WindowsBackend) DPI(h Handle) int {
	return winapi.GetDpiForWindow(winapi.HWND(h))
}

// eventSubscription adapts one SetWinEventHook registration per requested
// class range into a single Subscription the demultiplexer can Unsubscribe
// as a unit.
type eventSubscription struct {
	hooks []*winapi.EventHook
}

func (s *eventSubscription) Unsubscribe() {
	for _, h := range s.hooks {
		h.Unhook()
	}
	s.hooks = nil
}

// Subscribe installs one WinEvent hook per distinct (min, max) range among
// classes, demultiplexing the raw event ID back to an EventClass before
// invoking callback. Hooks deliver out-of-context on arbitrary worker
// threads (spec §5); callback must only enqueue work.
func (b *WindowsBackend) Subscribe(classes []EventClass, callback func(Event)) (Subscription, error) {
	wanted := make(map[EventClass]bool, len(classes))
	for _, c := range classes {
		wanted[c] = true
	}

	sub := &eventSubscription{}
	for class := range wanted {
		rng, ok := eventRanges[class]
		if !ok {
			continue
		}
		class := class
		hook, err := winapi.SetWinEventHook(rng[0], rng[1], func(hookID uintptr, eventID uint32, hwnd winapi.HWND, idObject, idChild int32, threadID, eventTime uint32) {
			if idObject != winapi.IdObjectWindow {
				return
			}
			if resolved, ok := classForEventID(eventID); ok && resolved == class {
				callback(Event{Class: resolved, Handle: Handle(hwnd)})
			}
		})
		if err != nil {
			sub.Unsubscribe()
			return nil, err
		}
		sub.hooks = append(sub.hooks, hook)
	}
	return sub, nil
}
