//go:build windows

package compositiondev

import (
	"testing"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/renderer"
)

// fakeHost satisfies platform.HostWindow without a real window handle.
type fakeHost struct{}

func (fakeHost) NativeHandle() platform.Handle { return 1 }

// bufferDevice implements platform.GraphicsDevice like the real Device,
// except CreateSurface hands back a *Surface built directly around a
// renderer.PixelBuffer rather than a real DIB section, so this exercises
// Surface.BeginDraw's real offset contract without any GDI calls.
type bufferDevice struct {
	target *Target
}

func (d *bufferDevice) CreateTarget(host platform.HostWindow) (platform.Target, error) {
	t := &Target{hwnd: 1}
	d.target = t
	return t, nil
}

func (d *bufferDevice) CreateVisual() (platform.Visual, error) { return &Visual{}, nil }

func (d *bufferDevice) CreateSurface(w, h int) (platform.Surface, error) {
	buf := renderer.NewPixelBuffer(w, h)
	return &Surface{buf: buf, device: &Device{target: d.target}}, nil
}

func (d *bufferDevice) Commit() error { return nil }
func (d *bufferDevice) Release()      {}

func TestSurfaceBeginDrawOffsetMatchesUpdateRect(t *testing.T) {
	s := &Surface{buf: renderer.NewPixelBuffer(200, 150)}

	ctx, offset, err := s.BeginDraw(nil)
	if err != nil {
		t.Fatalf("BeginDraw(nil): %v", err)
	}
	if ctx == nil {
		t.Fatalf("BeginDraw(nil) returned a nil draw context")
	}
	if offset != (geometry.Point{X: 0, Y: 0}) {
		t.Fatalf("full-redraw offset = %+v, want origin", offset)
	}

	dirty := geometry.Rect{L: 50, T: 40, R: 150, B: 110}
	_, offset, err = s.BeginDraw(&dirty)
	if err != nil {
		t.Fatalf("BeginDraw(dirty): %v", err)
	}
	if want := (geometry.Point{X: dirty.L, Y: dirty.T}); offset != want {
		t.Fatalf("partial-redraw offset = %+v, want %+v (dirty rect's top-left)", offset, want)
	}
}

// TestPartialRedrawMatchesFullRedrawAtDirtyRectCoordinates exercises the
// full Renderer.Draw partial-redraw path against a real compositiondev
// Surface instead of the renderer package's own fakeSurface, verifying
// the partial-redraw law: pixels a border is drawn at land at the same
// absolute coordinates whether the frame was a full or partial redraw.
func TestPartialRedrawMatchesFullRedrawAtDirtyRectCoordinates(t *testing.T) {
	dirty := geometry.Rect{L: 50, T: 40, R: 150, B: 110}
	color := platform.Color{R: 1, G: 0, B: 0, A: 1}
	basePlan := renderer.DrawPlan{
		Windows:      []renderer.WindowRect{{Rect: dirty}},
		Color:        color,
		ThicknessPx:  2,
		Corner:       renderer.CornerDoNot,
		DirtyRect:    dirty,
		PartialRatio: 1.0,
	}

	fullDev := &bufferDevice{}
	fullPlan := basePlan
	fullPlan.FullRedraw = true
	full := renderer.New(fullDev, fakeHost{}, nil)
	if err := full.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 200, B: 150}); err != nil {
		t.Fatalf("EnsureSurface (full): %v", err)
	}
	if err := full.Draw(fullPlan); err != nil {
		t.Fatalf("Draw (full): %v", err)
	}

	partialDev := &bufferDevice{}
	partialPlan := basePlan
	partialPlan.FullRedraw = false
	partial := renderer.New(partialDev, fakeHost{}, nil)
	if err := partial.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 200, B: 150}); err != nil {
		t.Fatalf("EnsureSurface (partial): %v", err)
	}
	if err := partial.Draw(partialPlan); err != nil {
		t.Fatalf("Draw (partial): %v", err)
	}

	fullBuf := fullDev.target.root.children[0].content.buf
	partialBuf := partialDev.target.root.children[0].content.buf

	// The top-left corner of the border's stroke band, per StrokeRect's
	// centered-on-edge convention: (dirty.L, dirty.T) falls inside the top
	// band for a width-2 stroke.
	fb, fg, fr, fa := fullBuf.At(dirty.L, dirty.T)
	pb, pg, pr, pa := partialBuf.At(dirty.L, dirty.T)
	if fb != pb || fg != pg || fr != pr || fa != pa {
		t.Fatalf("pixel at dirty rect origin (%d,%d) differs between full and partial redraw: full=%d,%d,%d,%d partial=%d,%d,%d,%d",
			dirty.L, dirty.T, fb, fg, fr, fa, pb, pg, pr, pa)
	}
	if pa == 0 {
		t.Fatalf("expected an opaque border pixel at (%d,%d), got fully transparent", dirty.L, dirty.T)
	}

	// A point strictly outside the dirty rect's stroke band must stay
	// untouched by the partial redraw (sanity check that the partial pass
	// didn't just paint the whole buffer).
	ob, og, or_, oa := partialBuf.At(5, 5)
	if ob != 0 || og != 0 || or_ != 0 || oa != 0 {
		t.Fatalf("pixel outside dirty rect (5,5) was painted by a partial redraw: %d,%d,%d,%d", ob, og, or_, oa)
	}
}
