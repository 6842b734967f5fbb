//go:build windows

package winapi

// Window style / extended style bits the host window and eligibility
// predicate need (spec §4.1, §4.8).
const (
	GWLExStyle = -20
	GWLStyle   = -16

	WSExToolWindow = 0x00000080
	WSExNoActivate = 0x08000000
	WSExTransparent = 0x00000020
	WSExLayered    = 0x00080000
	WSExTopmost    = 0x00000008
	WSExAppWindow  = 0x00040000

	WSPopup   = 0x80000000
	WSVisible = 0x10000000

	GWOwner = 4

	SWHide = 0
	SWShow = 5

	SwpNoActivate  = 0x0010
	SwpNoSize      = 0x0001
	SwpNoZOrder    = 0x0004
	SwpShowWindow  = 0x0040
	HwndTopmost    = ^uintptr(0) // (HWND)-1

	LwaAlpha  = 0x2
	LwaColorKey = 0x1

	// DwmGetWindowAttribute/DwmSetWindowAttribute attribute IDs.
	DwmwaExtendedFrameBounds = 9
	DwmwaCloaked             = 14
	DwmwaBorderColor         = 34

	// DwmSetWindowAttribute(DWMWA_BORDER_COLOR) sentinel values.
	DwmColorDefault uint32 = 0xFFFFFFFF
	DwmColorNone    uint32 = 0xFFFFFFFE

	// System metrics indices for the primary monitor's size, used by the
	// fullscreen-suppression heuristic (a single-monitor approximation; see
	// DESIGN.md).
	SmCXScreen = 0
	SmCYScreen = 1

	// WinEvent hook flags (out-of-context worker-thread delivery, spec §5).
	WineventOutOfContext = 0x0000
	WineventSkipOwnProcess = 0x0002

	EventObjectShow           = 0x8002
	EventObjectHide           = 0x8003
	EventObjectLocationChange = 0x800B
	EventSystemMinimizeStart  = 0x0016
	EventSystemMinimizeEnd    = 0x0017
	EventSystemForeground     = 0x0003
	EventObjectReorder        = 0x8004
	EventObjectDestroy        = 0x8001

	IdObjectWindow = 0

	// GDI region combine modes for clip-region installation.
	RgnAnd = 1
	RgnOr  = 2
	RgnDiff = 4

	// System metrics indices for virtual-screen bounds.
	SmXVirtualScreen  = 76
	SmYVirtualScreen  = 77
	SmCXVirtualScreen = 78
	SmCYVirtualScreen = 79

	// Message filter allow-list (spec §6's "integrity-level filter
	// explicitly whitelisted").
	MsgflagAdd = 1

	WMCopyData  = 0x004A
	WMTimer     = 0x0113
	WMDestroy   = 0x0002
	WMNCDestroy = 0x0082
	WMNCHitTest = 0x0084
	WMActivate  = 0x0006
	WMDisplayChange = 0x007E
	WMDpiChanged    = 0x02E0
	WMUser      = 0x0400
	// WMRefreshRequest is the host window's private message used to marshal
	// a coalesced WinEvent-hook refresh request from the bridging goroutine
	// onto the UI thread's message queue (spec §4.8 "refresh requests").
	WMRefreshRequest = WMUser + 1

	HTTransparent = -1

	CsHRedraw = 0x0002
	CsVRedraw = 0x0001
)
