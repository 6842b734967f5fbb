//go:build windows

package winapi

import "syscall"

// WinEventProc matches the native WINEVENTPROC callback shape. hookID and
// threadID are delivered by the OS but unused by the demultiplexer, which
// only cares about (eventID, hwnd).
type WinEventProc func(hookID uintptr, eventID uint32, hwnd HWND, idObject, idChild int32, threadID, eventTime uint32)

// EventHook is a live SetWinEventHook registration.
type EventHook struct {
	handle uintptr
}

// SetWinEventHook installs a hook for the inclusive event range
// [eventMin, eventMax] and returns a handle to pass to UnhookWinEvent. The
// callback is delivered on an arbitrary thread per WINEVENT_OUTOFCONTEXT
// (spec §5) — it must only enqueue work, never touch engine state.
func SetWinEventHook(eventMin, eventMax uint32, proc WinEventProc) (*EventHook, error) {
	cb := syscall.NewCallback(func(hookID uintptr, eventID uint32, hwnd uintptr, idObject, idChild int32, threadID, eventTime uint32) uintptr {
		proc(hookID, eventID, HWND(hwnd), idObject, idChild, threadID, eventTime)
		return 0
	})
	ret, _, _ := procSetWinEventHook.Call(
		uintptr(eventMin), uintptr(eventMax), 0, cb, 0, 0,
		uintptr(WineventOutOfContext|WineventSkipOwnProcess))
	if ret == 0 {
		return nil, errSyscall("SetWinEventHook")
	}
	return &EventHook{handle: ret}, nil
}

// Unhook removes the hook. Idempotent: a second call is a harmless no-op
// (spec §4.3 cancellation requirement).
func (h *EventHook) Unhook() {
	if h == nil || h.handle == 0 {
		return
	}
	procUnhookWinEvent.Call(h.handle)
	h.handle = 0
}

func errSyscall(name string) error {
	return &syscallError{name: name}
}

type syscallError struct{ name string }

func (e *syscallError) Error() string { return e.name + " failed" }
