//go:build windows

package winapi

import "github.com/1broseidon/borderd/internal/geometry"

// HWND is the raw Win32 window handle type; platform.Handle wraps it as a
// uintptr at the package boundary so the core never imports winapi.
type HWND uintptr

// Rect mirrors the Win32 RECT layout (LONG left, top, right, bottom) for
// syscalls that write directly into it via unsafe.Pointer.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// ToGeometry converts a Win32 RECT into the engine's Rect type.
func (r Rect) ToGeometry() geometry.Rect {
	return geometry.NewRect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// FromGeometry converts an engine Rect back into a Win32 RECT, used when
// positioning the overlay host window.
func FromGeometry(r geometry.Rect) Rect {
	return Rect{Left: int32(r.L), Top: int32(r.T), Right: int32(r.R), Bottom: int32(r.B)}
}

// Point mirrors the Win32 POINT layout.
type Point struct {
	X, Y int32
}
