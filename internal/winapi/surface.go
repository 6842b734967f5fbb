//go:build windows

package winapi

import (
	"fmt"
	"unsafe"
)

// bitmapInfoHeader mirrors BITMAPINFOHEADER for a top-down, 32-bit BGRA DIB.
type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

const biRGB = 0

// DIBSection is a GDI device-independent bitmap whose pixel memory is
// directly addressable from Go: CreateDIBSection hands back a pointer into
// process memory instead of a GPU-private buffer, which is how the surface
// backing renderer.PixelBuffer is made to work without a DirectComposition
// binding (no such Go binding exists in the retrieved corpus; see DESIGN.md).
type DIBSection struct {
	DC     uintptr
	Bitmap uintptr
	Bits   uintptr // pointer to the top-down BGRA8 pixel buffer
	W, H   int
}

// CreateDIBSection allocates a top-down 32-bit BGRA DIB section of size
// w x h, selected into a fresh memory DC.
func CreateDIBSection(w, h int) (*DIBSection, error) {
	hdr := bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       int32(w),
		Height:      -int32(h), // negative height: top-down DIB
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}

	memDC, _, _ := procCreateCompatibleDC.Call(0)
	if memDC == 0 {
		return nil, errSyscall("CreateCompatibleDC")
	}

	var bits uintptr
	bmp, _, _ := procCreateDIBSection.Call(
		memDC, uintptr(unsafe.Pointer(&hdr)), 0 /* DIB_RGB_COLORS */, uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bmp == 0 {
		procDeleteDC.Call(memDC)
		return nil, errSyscall("CreateDIBSection")
	}

	prev, _, _ := procSelectObject.Call(memDC, bmp)
	_ = prev

	return &DIBSection{DC: memDC, Bitmap: bmp, Bits: bits, W: w, H: h}, nil
}

// Pixels returns a slice viewing the DIB's backing memory directly, BGRA8
// premultiplied, stride = W*4, suitable for wrapping in a renderer.PixelBuffer
// without copying.
func (d *DIBSection) Pixels() []byte {
	if d.Bits == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(d.Bits)), d.W*d.H*4)
}

// Release frees the bitmap and its memory DC.
func (d *DIBSection) Release() {
	if d.Bitmap != 0 {
		procDeleteObject.Call(d.Bitmap)
		d.Bitmap = 0
	}
	if d.DC != 0 {
		procDeleteDC.Call(d.DC)
		d.DC = 0
	}
}

// blendFunction mirrors BLENDFUNCTION for UpdateLayeredWindow's
// per-pixel-alpha composite mode.
type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

const (
	acSrcOver  = 0
	acSrcAlpha = 1
	ulwAlpha   = 2
)

// UpdateLayeredWindow blits src's DIB content onto hwnd at the given
// screen position and size, compositing via per-pixel alpha (spec §3
// "premultiplied 8-bit BGRA" surface format maps directly onto
// AC_SRC_ALPHA's expectation that source pixels are premultiplied).
func UpdateLayeredWindow(hwnd HWND, src *DIBSection, x, y, w, h int) error {
	ptDst := Point{X: int32(x), Y: int32(y)}
	size := Point{X: int32(w), Y: int32(h)}
	ptSrc := Point{X: 0, Y: 0}
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}

	ret, _, _ := procUpdateLayeredWindow.Call(
		uintptr(hwnd), 0,
		uintptr(unsafe.Pointer(&ptDst)), uintptr(unsafe.Pointer(&size)),
		src.DC, uintptr(unsafe.Pointer(&ptSrc)),
		0, uintptr(unsafe.Pointer(&blend)), uintptr(ulwAlpha))
	if ret == 0 {
		return fmt.Errorf("UpdateLayeredWindow failed")
	}
	return nil
}
