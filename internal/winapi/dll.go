//go:build windows

// Package winapi wraps the raw Win32 calls the platform adapter needs:
// window enumeration, geometry, WinEvent hooks, and the GDI DIB-section
// surface that stands in for a composition device chain. It exposes one
// package-level function per OS call (no wrapper type), translated from
// the teacher's internal/x11 XGB protocol calls to golang.org/x/sys/windows
// NewLazySystemDLL/NewProc syscalls, the same raw-syscall idiom used by
// LanternOps-breeze's desktop repaint helpers and RtlZeroMemory's console
// size probe in the retrieved example corpus.
package winapi

import "golang.org/x/sys/windows"

var (
	user32  = windows.NewLazySystemDLL("user32.dll")
	dwmapi  = windows.NewLazySystemDLL("dwmapi.dll")
	gdi32   = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	advapi32 = windows.NewLazySystemDLL("advapi32.dll")

	procEnumWindows             = user32.NewProc("EnumWindows")
	procIsWindowVisible         = user32.NewProc("IsWindowVisible")
	procIsIconic                = user32.NewProc("IsIconic")
	procGetWindowRect           = user32.NewProc("GetWindowRect")
	procGetWindow               = user32.NewProc("GetWindow")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procGetClassNameW           = user32.NewProc("GetClassNameW")
	procGetForegroundWindow     = user32.NewProc("GetForegroundWindow")
	procGetWindowLongW          = user32.NewProc("GetWindowLongW")
	procSetWinEventHook         = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent          = user32.NewProc("UnhookWinEvent")
	procGetSystemMetrics        = user32.NewProc("GetSystemMetrics")
	procRegisterClassExW        = user32.NewProc("RegisterClassExW")
	procCreateWindowExW         = user32.NewProc("CreateWindowExW")
	procDestroyWindow           = user32.NewProc("DestroyWindow")
	procDefWindowProcW          = user32.NewProc("DefWindowProcW")
	procGetMessageW             = user32.NewProc("GetMessageW")
	procTranslateMessage        = user32.NewProc("TranslateMessage")
	procDispatchMessageW        = user32.NewProc("DispatchMessageW")
	procPostMessageW            = user32.NewProc("PostMessageW")
	procPostQuitMessage         = user32.NewProc("PostQuitMessage")
	procSetWindowPos            = user32.NewProc("SetWindowPos")
	procSetLayeredWindowAttrs   = user32.NewProc("SetLayeredWindowAttributes")
	procChangeWindowMessageFilterEx = user32.NewProc("ChangeWindowMessageFilterEx")
	procSetTimer                = user32.NewProc("SetTimer")
	procKillTimer                = user32.NewProc("KillTimer")
	procSetWindowRgn             = user32.NewProc("SetWindowRgn")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
	procDwmIsCompositionEnabled = dwmapi.NewProc("DwmIsCompositionEnabled")

	procGetDpiForWindow = user32.NewProc("GetDpiForWindow")

	procCreateRectRgn  = gdi32.NewProc("CreateRectRgn")
	procCombineRgn     = gdi32.NewProc("CombineRgn")
	procDeleteObject   = gdi32.NewProc("DeleteObject")
	procCreateDIBSection = gdi32.NewProc("CreateDIBSection")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC       = gdi32.NewProc("DeleteDC")
	procSelectObject   = gdi32.NewProc("SelectObject")

	procUpdateLayeredWindow = user32.NewProc("UpdateLayeredWindow")
	procGetDC               = user32.NewProc("GetDC")
	procReleaseDC           = user32.NewProc("ReleaseDC")

	procGetCurrentProcessId = kernel32.NewProc("GetCurrentProcessId")

	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procOpenProcess               = kernel32.NewProc("OpenProcess")
	procCloseHandle               = kernel32.NewProc("CloseHandle")
	procOpenProcessToken          = advapi32.NewProc("OpenProcessToken")
	procGetTokenInformation       = advapi32.NewProc("GetTokenInformation")
	procGetSidSubAuthority        = advapi32.NewProc("GetSidSubAuthority")
	procGetSidSubAuthorityCount   = advapi32.NewProc("GetSidSubAuthorityCount")

	procFindWindowW  = user32.NewProc("FindWindowW")
	procSendMessageW = user32.NewProc("SendMessageW")
	procCreateMutexW = kernel32.NewProc("CreateMutexW")
)

// Loaded reports whether the user32 entry points resolved. Guards
// construction of the real backend so a non-Windows test run (or a Windows
// build missing an API) fails fast with a clear error rather than a panic
// deep in a syscall.
func Loaded() bool {
	return procEnumWindows.Find() == nil
}
