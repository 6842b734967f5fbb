//go:build windows

package winattr

import (
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/winapi"
)

// WindowsApplier implements Applier via DwmSetWindowAttribute's
// DWMWA_BORDER_COLOR, available from Windows 11 22000 onward. On older
// Windows releases the underlying syscall fails harmlessly and Reconcile's
// report callback surfaces it as a warning; the composited render mode
// remains the only one guaranteed to work on Windows 10.
type WindowsApplier struct{}

var _ Applier = WindowsApplier{}

func (WindowsApplier) SetBorderColor(h platform.Handle, c platform.Color) error {
	return winapi.DwmSetBorderColor(winapi.HWND(h), colorToColorRef(c))
}

func (WindowsApplier) ResetBorderColor(h platform.Handle) error {
	return winapi.DwmSetBorderColor(winapi.HWND(h), winapi.DwmColorDefault)
}

// colorToColorRef packs platform.Color's [0,1] floats into a 0x00BBGGRR
// COLORREF, the format DWMWA_BORDER_COLOR expects. Alpha is not
// representable and is dropped, matching a native window border's opaque
// outline.
func colorToColorRef(c platform.Color) uint32 {
	r := clampByte(c.R)
	g := clampByte(c.G)
	b := clampByte(c.B)
	return uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return byte(v * 255)
}
