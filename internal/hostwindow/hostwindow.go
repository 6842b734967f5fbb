//go:build windows

// Package hostwindow implements the Overlay Host Window of spec §4.8: a
// popup-style, non-activating, click-through, tool-window-classified
// top-level window positioned and sized to the virtual screen, which
// receives only timer ticks, bridged refresh requests, control-plane
// messages, and display/DPI change notifications.
package hostwindow

import (
	"log/slog"

	"github.com/1broseidon/borderd/internal/controlplane"
	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/hook"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/winapi"
)

// Window wraps the raw HWND and satisfies platform.HostWindow.
type Window struct {
	hwnd            winapi.HWND
	logger          *slog.Logger
	receiver        *controlplane.Receiver
	onTimer         func()
	onRefresh       func()
	onDisplayChange func()
}

var _ platform.HostWindow = (*Window)(nil)

// Callbacks groups the scheduler hooks New wires into the window procedure,
// keeping New's own signature from growing every time spec §4.8 gains a new
// message class.
type Callbacks struct {
	OnTimer         func()
	OnRefresh       func()
	OnDisplayChange func()
}

// New registers the window class and creates the host window at bounds
// (spec §4.8 "positioned at VSB with size VSB"). receiver processes
// WM_COPYDATA payloads; cb routes WM_TIMER, the bridged WM_REFRESHREQUEST,
// and WM_DISPLAYCHANGE/WM_DPICHANGED to the scheduler.
func New(className string, bounds geometry.Rect, receiver *controlplane.Receiver, cb Callbacks, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Window{receiver: receiver, onTimer: cb.OnTimer, onRefresh: cb.OnRefresh, onDisplayChange: cb.OnDisplayChange, logger: logger}

	if err := winapi.RegisterHostWindowClass(className, w.wndProc); err != nil {
		return nil, err
	}
	hwnd, err := winapi.CreateHostWindow(className, "borderd overlay", bounds.L, bounds.T, bounds.Width(), bounds.Height())
	if err != nil {
		return nil, err
	}
	w.hwnd = hwnd
	winapi.AllowControlPlaneMessages(hwnd)
	return w, nil
}

// NativeHandle implements platform.HostWindow.
func (w *Window) NativeHandle() platform.Handle { return platform.Handle(w.hwnd) }

// StartTimer installs the periodic scheduler tick (spec §4.6), delivered
// as WM_TIMER on this window's message queue.
func (w *Window) StartTimer(id uintptr, millis uint32) {
	winapi.SetTimer(w.hwnd, id, millis)
}

func (w *Window) StopTimer(id uintptr) {
	winapi.KillTimer(w.hwnd, id)
}

// InstallClip implements scheduler.ClipInstaller by converting region into
// a single GDI region and installing it as this window's clip (spec §4.4
// "installed as the overlay host window's clipping region"). SetWindowRgn
// takes ownership of the handle on success; nothing further to release.
func (w *Window) InstallClip(region geometry.Region) error {
	hrgn := winapi.BuildClipRegion(region)
	winapi.SetWindowRgn(w.hwnd, hrgn, true)
	return nil
}

// Destroy tears the window down; the UI thread's message loop exits once
// DestroyWindow's resulting WM_NCDESTROY is processed.
func (w *Window) Destroy() {
	winapi.DestroyWindow(w.hwnd)
}

func (w *Window) wndProc(hwnd winapi.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	switch msg {
	case winapi.WMCopyData:
		w.handleCopyData(wparam, lparam)
		return 1

	case winapi.WMTimer:
		if w.onTimer != nil {
			w.onTimer()
		}
		return 0

	case winapi.WMRefreshRequest:
		if w.onRefresh != nil {
			w.onRefresh()
		}
		return 0

	case winapi.WMDisplayChange, winapi.WMDpiChanged:
		if w.onDisplayChange != nil {
			w.onDisplayChange()
		}
		return 0

	case winapi.WMNCHitTest:
		// "Hit-test always reports transparent" (spec §4.8): clicks pass
		// through to whatever is underneath.
		ht := int32(winapi.HTTransparent)
		return uintptr(ht)

	case winapi.WMActivate:
		// "Activation requests are rejected" (spec §4.8); WS_EX_NOACTIVATE
		// already keeps the window from stealing focus, this just avoids
		// doing any activation-related work on the rare delivered message.
		return 0

	case winapi.WMNCDestroy:
		winapi.PostQuitMessage(0)
		return 0

	default:
		return winapi.DefWindowProc(hwnd, msg, wparam, lparam)
	}
}

// BridgeRefreshRequests consumes demux's coalesced refresh requests on a
// dedicated goroutine and marshals each onto the host window's message
// queue as WM_REFRESHREQUEST, since WinEvent callbacks run out-of-context
// on arbitrary OS threads and must never touch the UI thread's state
// directly (spec §5). It runs until the process exits; callers launch it in
// its own goroutine alongside the message loop.
func (w *Window) BridgeRefreshRequests(demux *hook.Demultiplexer) {
	for range demux.Refresh {
		winapi.PostMessage(w.hwnd, winapi.WMRefreshRequest, 0, 0)
	}
}

func (w *Window) handleCopyData(wparam, lparam uintptr) {
	text := winapi.ReadCopyData(lparam)
	if text == "" || w.receiver == nil {
		return
	}

	// The control-plane wire protocol has the sender stamp its own process
	// id into wParam (cmd/borderd's sender has no window of its own to pass
	// an HWND for, unlike the generic WM_COPYDATA convention).
	level := controlplane.IntegrityUntrusted
	if rid, err := winapi.IntegrityRIDFromPID(uint32(wparam)); err != nil {
		w.logger.Warn("hostwindow: could not resolve sender integrity level, treating as untrusted", "error", err)
	} else {
		level = controlplane.IntegrityLevelFromRID(rid)
	}

	w.receiver.Handle(text, level)
}
