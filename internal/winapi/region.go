//go:build windows

package winapi

import (
	"github.com/1broseidon/borderd/internal/geometry"
)

// HRGN is a GDI region handle.
type HRGN uintptr

// CreateRectRgn allocates a single-rectangle GDI region.
func CreateRectRgn(r geometry.Rect) HRGN {
	ret, _, _ := procCreateRectRgn.Call(uintptr(r.L), uintptr(r.T), uintptr(r.R), uintptr(r.B))
	return HRGN(ret)
}

// CombineRgn combines src1 and src2 into dest using the given mode
// (RgnOr/RgnDiff/RgnAnd), mirroring Win32's CombineRgn semantics.
func CombineRgn(dest, src1, src2 HRGN, mode int) {
	procCombineRgn.Call(uintptr(dest), uintptr(src1), uintptr(src2), uintptr(mode))
}

// DeleteObject releases a GDI object (region, brush, ...).
func DeleteObject(h HRGN) {
	if h == 0 {
		return
	}
	procDeleteObject.Call(uintptr(h))
}

// SetWindowRgn installs region as hwnd's clipping region; a nil-handle
// region (0) restores the default (unclipped) shape. redraw requests an
// immediate repaint of the changed area.
func SetWindowRgn(hwnd HWND, region HRGN, redraw bool) {
	r := uintptr(0)
	if redraw {
		r = 1
	}
	procSetWindowRgn.Call(uintptr(hwnd), uintptr(region), r)
}

// BuildClipRegion converts a geometry.Region (disjoint rect list) into a
// single GDI region by OR-combining one rect-region per piece. The caller
// owns the returned handle until it passes it to SetWindowRgn, which takes
// ownership on success.
func BuildClipRegion(region geometry.Region) HRGN {
	if len(region) == 0 {
		return CreateRectRgn(geometry.Rect{})
	}
	acc := CreateRectRgn(region[0])
	for _, piece := range region[1:] {
		next := CreateRectRgn(piece)
		combined := CreateRectRgn(geometry.Rect{})
		CombineRgn(combined, acc, next, RgnOr)
		DeleteObject(acc)
		DeleteObject(next)
		acc = combined
	}
	return acc
}
