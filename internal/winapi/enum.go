//go:build windows

package winapi

import (
	"syscall"
	"unsafe"
)

// EnumTopLevelWindows calls EnumWindows and returns the handles it visited,
// in the order the OS delivered them (top-most-first is a property of
// EnumWindows' underlying Z-order-linked-list walk, not something this
// wrapper imposes — spec §4.1 Ordering relies on that OS contract).
func EnumTopLevelWindows() ([]HWND, error) {
	var handles []HWND
	cb := syscall.NewCallback(func(hwnd HWND, lparam uintptr) uintptr {
		handles = append(handles, hwnd)
		return 1 // continue enumeration
	})
	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		if err != syscall.Errno(0) {
			return nil, err
		}
	}
	return handles, nil
}

func IsWindowVisible(h HWND) bool {
	ret, _, _ := procIsWindowVisible.Call(uintptr(h))
	return ret != 0
}

func IsIconic(h HWND) bool {
	ret, _, _ := procIsIconic.Call(uintptr(h))
	return ret != 0
}

// GetWindow walks the owner/child/sibling relation; cmd selects which
// relation (e.g. GWOwner). The eligibility predicate's "is its own root"
// check (spec §4.1) uses GetAncestorRoot, not this function.
func GetWindow(h HWND, cmd uintptr) HWND {
	ret, _, _ := procGetWindow.Call(uintptr(h), cmd)
	return HWND(ret)
}

// GetAncestorRoot returns the root ancestor of h (GA_ROOT = 2).
func GetAncestorRoot(h HWND) HWND {
	const gaRoot = 2
	ret, _, _ := procGetAncestor.Call(uintptr(h), gaRoot)
	return HWND(ret)
}

func GetWindowRectRaw(h HWND) (Rect, bool) {
	var r Rect
	ret, _, _ := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	return r, ret != 0
}

func GetClassName(h HWND) string {
	buf := make([]uint16, 256)
	ret, _, _ := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:ret])
}

func GetForegroundWindow() HWND {
	ret, _, _ := procGetForegroundWindow.Call()
	return HWND(ret)
}

func GetWindowLong(h HWND, index int) int32 {
	ret, _, _ := procGetWindowLongW.Call(uintptr(h), uintptr(index))
	return int32(ret)
}

// DwmGetExtendedFrameBounds reads DWMWA_EXTENDED_FRAME_BOUNDS (spec §4.1
// "prefer the system-reported extended frame bounds").
func DwmGetExtendedFrameBounds(h HWND) (Rect, bool) {
	var r Rect
	ret, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(h), DwmwaExtendedFrameBounds, uintptr(unsafe.Pointer(&r)), unsafe.Sizeof(r))
	return r, ret == 0 // S_OK == 0
}

// DwmGetCloaked reads DWMWA_CLOAKED; a non-zero result means the shell has
// hidden the window (e.g. on another virtual desktop), spec §4.1.
func DwmGetCloaked(h HWND) bool {
	var cloaked uint32
	ret, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(h), DwmwaCloaked, uintptr(unsafe.Pointer(&cloaked)), unsafe.Sizeof(cloaked))
	return ret == 0 && cloaked != 0
}

// DwmSetBorderColor sets or clears (DwmColorDefault/DwmColorNone) a
// window's native DWMWA_BORDER_COLOR, the mechanism the WindowAttribute
// render-mode variant uses instead of drawing into a composition surface
// (spec §9 "Render-mode variants").
func DwmSetBorderColor(h HWND, colorref uint32) error {
	ret, _, _ := procDwmSetWindowAttribute.Call(
		uintptr(h), DwmwaBorderColor, uintptr(unsafe.Pointer(&colorref)), unsafe.Sizeof(colorref))
	if ret != 0 {
		return errSyscall("DwmSetWindowAttribute(DWMWA_BORDER_COLOR)")
	}
	return nil
}

// GetDpiForWindow returns hwnd's DPI, or 96 (100%) if the call fails —
// older Windows builds before 1607 lack this entry point entirely.
func GetDpiForWindow(h HWND) int {
	ret, _, _ := procGetDpiForWindow.Call(uintptr(h))
	if ret == 0 {
		return 96
	}
	return int(ret)
}

func GetSystemMetrics(index int) int {
	ret, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(ret))
}

func GetCurrentProcessID() uint32 {
	ret, _, _ := procGetCurrentProcessId.Call()
	return uint32(ret)
}
