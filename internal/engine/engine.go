//go:build windows

// Package engine wires every component named in spec.md §4 into the single
// Engine value spec.md §9's Design Notes ("Global state") calls for: owned
// by main, passed by explicit reference to the scheduler, with event-hook
// callbacks only ever touching a narrow refresh channel rather than engine
// state directly.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/borderd/internal/cache"
	"github.com/1broseidon/borderd/internal/compositiondev"
	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/controlplane"
	"github.com/1broseidon/borderd/internal/hook"
	"github.com/1broseidon/borderd/internal/hostwindow"
	"github.com/1broseidon/borderd/internal/observer"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/renderer"
	"github.com/1broseidon/borderd/internal/scheduler"
	"github.com/1broseidon/borderd/internal/winapi"
	"github.com/1broseidon/borderd/internal/winattr"
)

// HostWindowClassName identifies the overlay host window's registered
// class. cmd/borderd's send-config/send-targets subcommands look up a
// running instance by this class name via winapi.FindWindow.
const HostWindowClassName = "BorderdOverlayHostWindow"

// tickIntervalMillis is the scheduler's periodic timer (spec §4.6).
const tickIntervalMillis = 150

// schedulerTimerID is the only WM_TIMER this window ever installs.
const schedulerTimerID = 1

// Engine owns every long-lived resource for one run: the platform adapter,
// the observer/cache/scheduler pipeline, the event-hook demultiplexer, the
// control-plane receiver, the composition device chain (or the
// WindowAttribute applier, depending on startup.RenderMode), and the
// overlay host window itself.
type Engine struct {
	startup *config.Config
	logger  *slog.Logger

	ws     *platform.WindowsBackend
	demux  *hook.Demultiplexer
	host   *hostwindow.Window
	sched  *scheduler.Scheduler

	device   platform.GraphicsDevice
	renderer *renderer.Renderer

	shutdownOnce sync.Once
}

// New acquires the single-instance lock, builds the full component graph,
// and creates the overlay host window, but does not start the message loop
// or the scheduler's timer — call Run for that. Any failure here is a
// "fatal startup" error per spec §7: the caller should surface a negative
// exit code and terminate.
func New(startup *config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	acquired, err := winapi.AcquireSingleInstanceLock(startup.SingleInstanceName)
	if err != nil {
		return nil, fmt.Errorf("engine: single-instance lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("engine: another instance is already running (lock %q held)", startup.SingleInstanceName)
	}

	ws, err := platform.NewWindowsBackend()
	if err != nil {
		return nil, fmt.Errorf("engine: platform backend: %w", err)
	}

	vsb, err := ws.VirtualScreenBounds()
	if err != nil {
		return nil, fmt.Errorf("engine: virtual screen bounds: %w", err)
	}

	e := &Engine{startup: startup, logger: logger, ws: ws}

	e.demux = hook.New(ws, logger)
	receiver := controlplane.New(startup, e.demux, logger)

	obs := observer.New(ws, logger)
	c := cache.New()

	var clip scheduler.ClipInstaller
	var styleApplier winattr.Applier
	if startup.RenderMode == config.RenderModeWindowAttribute {
		styleApplier = winattr.WindowsApplier{}
	} else {
		compSystem := compositiondev.New()
		device, err := compSystem.CreateDevice()
		if err != nil {
			return nil, fmt.Errorf("engine: create composition device: %w", err)
		}
		e.device = device
	}

	cb := hostwindow.Callbacks{
		OnTimer:         e.onTick,
		OnRefresh:       e.onTick,
		OnDisplayChange: e.onTick,
	}
	host, err := hostwindow.New(HostWindowClassName, vsb, receiver, cb, logger)
	if err != nil {
		return nil, fmt.Errorf("engine: create host window: %w", err)
	}
	e.host = host

	if e.device != nil {
		e.renderer = renderer.New(e.device, host, logger)
		clip = host
	}

	e.sched = scheduler.New(ws, host.NativeHandle(), obs, c, e.renderer, clip, receiver, startup, styleApplier, logger)

	if err := e.demux.Start(); err != nil {
		return nil, fmt.Errorf("engine: start event-hook demultiplexer: %w", err)
	}

	return e, nil
}

// onTick is called back from the host window's message procedure on the UI
// thread only (WM_TIMER, the bridged WM_REFRESHREQUEST, or a display/DPI
// change) — never from a worker thread, satisfying spec §5's single-writer
// rule for cache/config/renderer state.
func (e *Engine) onTick() {
	e.sched.Tick()
}

// Run starts the periodic timer, launches the refresh-bridging goroutine,
// and blocks pumping the Win32 message loop until WM_QUIT (spec §5's "UI
// thread suspends only in its message-wait").
func (e *Engine) Run() {
	e.host.StartTimer(schedulerTimerID, tickIntervalMillis)
	go e.host.BridgeRefreshRequests(e.demux)
	winapi.RunMessageLoop()
}

// Shutdown implements spec §5's cancellation sequence: disable the
// scheduler's timer, uninstall event hooks, release the composition tree
// in reverse construction order, then destroy the host window. Idempotent
// (spec §4.3 "unhooking at shutdown must be idempotent") — both the
// interrupt-signal goroutine and the code following Run's return may call
// this.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.host.StopTimer(schedulerTimerID)
		e.demux.Stop()
		if e.renderer != nil {
			e.renderer.Close()
		}
		e.host.Destroy()
	})
}
