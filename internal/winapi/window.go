//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"
)

// WndProc matches the native WNDPROC shape.
type WndProc func(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr

type wndClassExW struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

// RegisterHostWindowClass registers a window class named className whose
// WndProc is proc. The name is used exactly as given, not made unique per
// run: CreateHostWindow and FindWindow refer to the window by it.
func RegisterHostWindowClass(className string, proc WndProc) error {
	namePtr, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return err
	}
	cb := syscall.NewCallback(func(hwnd uintptr, msg uint32, wparam, lparam uintptr) uintptr {
		return proc(HWND(hwnd), msg, wparam, lparam)
	})

	wc := wndClassExW{
		style:         CsHRedraw | CsVRedraw,
		lpfnWndProc:   cb,
		lpszClassName: namePtr,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))

	ret, _, _ := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if ret == 0 {
		return fmt.Errorf("RegisterClassExW(%s) failed", className)
	}
	return nil
}

// CreateHostWindow creates a popup, non-activating, click-through,
// tool-classified top-level window positioned and sized to bounds (spec
// §4.8). Returns the raw handle; the caller wraps it to satisfy
// platform.HostWindow.
func CreateHostWindow(className, title string, l, t, w, h int) (HWND, error) {
	classPtr, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return 0, err
	}
	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}

	exStyle := uintptr(WSExTopmost | WSExToolWindow | WSExNoActivate | WSExTransparent | WSExLayered)
	style := uintptr(WSPopup)

	ret, _, _ := procCreateWindowExW.Call(
		exStyle,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		style,
		uintptr(int32(l)), uintptr(int32(t)), uintptr(int32(w)), uintptr(int32(h)),
		0, 0, 0, 0,
	)
	if ret == 0 {
		return 0, fmt.Errorf("CreateWindowExW(%s) failed", className)
	}
	hwnd := HWND(ret)

	// 255 alpha with LWA_ALPHA would dim nothing; the layered attribute is
	// required for WS_EX_LAYERED windows to be composited at all even when
	// content comes from a DirectComposition visual tree rather than GDI.
	procSetLayeredWindowAttrs.Call(uintptr(hwnd), 0, 255, uintptr(LwaAlpha))

	return hwnd, nil
}

// AllowControlPlaneMessages whitelists WM_COPYDATA (and the cross-process
// messages it depends on) through UIPI so a lower-integrity sender can
// reach this window (spec §6 "sender's integrity-level filter explicitly
// whitelisted").
func AllowControlPlaneMessages(hwnd HWND) {
	const wmCopyGlobalAtom = 0x0049
	for _, msg := range []uint32{WMCopyData, wmCopyGlobalAtom} {
		procChangeWindowMessageFilterEx.Call(uintptr(hwnd), uintptr(msg), uintptr(MsgflagAdd), 0)
	}
}

func DestroyWindow(hwnd HWND) {
	procDestroyWindow.Call(uintptr(hwnd))
}

func DefWindowProc(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr {
	ret, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return ret
}

type msg struct {
	hwnd    HWND
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      Point
}

// RunMessageLoop pumps GetMessage/TranslateMessage/DispatchMessage until
// WM_QUIT. This blocks the calling (UI) thread, matching spec §5's
// "the UI thread suspends only in its message-wait."
func RunMessageLoop() {
	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func PostQuitMessage(exitCode int) {
	procPostQuitMessage.Call(uintptr(exitCode))
}

// PostMessage posts a message to hwnd's queue without blocking for a
// result; the platform adapter's refresh bridge uses it to hand coalesced
// refresh requests to the UI thread (spec §5).
func PostMessage(hwnd HWND, m uint32, wparam, lparam uintptr) bool {
	ret, _, _ := procPostMessageW.Call(uintptr(hwnd), uintptr(m), wparam, lparam)
	return ret != 0
}

func SetTimer(hwnd HWND, id uintptr, millis uint32) uintptr {
	ret, _, _ := procSetTimer.Call(uintptr(hwnd), id, uintptr(millis), 0)
	return ret
}

func KillTimer(hwnd HWND, id uintptr) {
	procKillTimer.Call(uintptr(hwnd), id)
}
