package renderer

import (
	"errors"
	"testing"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
)

// fakeHost, fakeTarget, fakeVisual are trivial no-op implementations used
// to exercise EnsureSurface's construction/teardown ordering.
type fakeHost struct{}

func (fakeHost) NativeHandle() platform.Handle { return 1 }

type fakeTarget struct{ released bool }

func (t *fakeTarget) SetRoot(platform.Visual) error { return nil }
func (t *fakeTarget) Release()                      { t.released = true }

type fakeVisual struct {
	released bool
	content  platform.Surface
	children []platform.Visual
}

func (v *fakeVisual) SetContent(s platform.Surface) error { v.content = s; return nil }
func (v *fakeVisual) AddChild(c platform.Visual) error     { v.children = append(v.children, c); return nil }
func (v *fakeVisual) Release()                              { v.released = true }

// fakeSurface wraps a PixelBuffer and can be told to fail BeginDraw a
// fixed number of times, exercising the §7 consecutive-failure policy.
type fakeSurface struct {
	pb            *PixelBuffer
	failNext      int
	beginCalls    int
	released      bool
}

func (s *fakeSurface) BeginDraw(updateRect *geometry.Rect) (platform.DrawContext, geometry.Point, error) {
	s.beginCalls++
	if s.failNext > 0 {
		s.failNext--
		return nil, geometry.Point{}, errors.New("simulated begin-draw failure")
	}
	if updateRect == nil {
		return s.pb, geometry.Point{}, nil
	}
	return s.pb, geometry.Point{X: updateRect.L, Y: updateRect.T}, nil
}

func (s *fakeSurface) EndDraw() error { return nil }
func (s *fakeSurface) Release()       { s.released = true }

type fakeDevice struct {
	w, h          int
	createdCount  int
	lastSurface   *fakeSurface
	released      bool
	failNextBegin int
}

func (d *fakeDevice) CreateTarget(platform.HostWindow) (platform.Target, error) { return &fakeTarget{}, nil }
func (d *fakeDevice) CreateVisual() (platform.Visual, error)                    { return &fakeVisual{}, nil }
func (d *fakeDevice) CreateSurface(w, h int) (platform.Surface, error) {
	d.createdCount++
	s := &fakeSurface{pb: NewPixelBuffer(w, h), failNext: d.failNextBegin}
	d.failNextBegin = 0
	d.w, d.h = w, h
	d.lastSurface = s
	return s, nil
}
func (d *fakeDevice) Commit() error { return nil }
func (d *fakeDevice) Release()      { d.released = true }

func TestEnsureSurfaceRecreatesOnResize(t *testing.T) {
	dev := &fakeDevice{}
	r := New(dev, fakeHost{}, nil)

	if err := r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 1920, B: 1080}); err != nil {
		t.Fatalf("EnsureSurface: %v", err)
	}
	if dev.createdCount != 1 {
		t.Fatalf("expected 1 surface created, got %d", dev.createdCount)
	}

	// Same size: no recreation.
	if err := r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 1920, B: 1080}); err != nil {
		t.Fatalf("EnsureSurface (same size): %v", err)
	}
	if dev.createdCount != 1 {
		t.Fatalf("expected surface not recreated for unchanged VSB, got %d creations", dev.createdCount)
	}

	// Display reconfiguration (spec §8 scenario S5): surface_w tracks the
	// new VSB width and the old surface is torn down.
	if err := r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 3840, B: 1080}); err != nil {
		t.Fatalf("EnsureSurface (resize): %v", err)
	}
	if dev.createdCount != 2 {
		t.Fatalf("expected surface recreated after resize, got %d creations", dev.createdCount)
	}
	if r.surfaceW != 3840 || r.surfaceH != 1080 {
		t.Fatalf("surfaceW/H = %d/%d, want 3840/1080", r.surfaceW, r.surfaceH)
	}
}

func TestDrawRecreatesSurfaceAfterThreeFailures(t *testing.T) {
	dev := &fakeDevice{}
	r := New(dev, fakeHost{}, nil)
	if err := r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 100, B: 100}); err != nil {
		t.Fatalf("EnsureSurface: %v", err)
	}
	dev.lastSurface.failNext = 3

	plan := DrawPlan{FullRedraw: true, Color: red, ThicknessPx: 2, Corner: CornerDefault}
	for i := 0; i < 3; i++ {
		if err := r.Draw(plan); err != nil {
			t.Fatalf("Draw should not return an error on a transient failure: %v", err)
		}
	}
	// The third consecutive failure must have triggered surface recreation.
	if dev.createdCount != 2 {
		t.Fatalf("expected surface recreated once after 3 consecutive failures, got %d creations", dev.createdCount)
	}
	if r.consecutiveFailures != 0 {
		t.Fatalf("failure counter should reset after recreation, got %d", r.consecutiveFailures)
	}
}

func TestDrawFullRedrawPaintsWindows(t *testing.T) {
	dev := &fakeDevice{}
	r := New(dev, fakeHost{}, nil)
	if err := r.EnsureSurface(geometry.Rect{L: 0, T: 0, R: 50, B: 50}); err != nil {
		t.Fatalf("EnsureSurface: %v", err)
	}

	plan := DrawPlan{
		Windows:     []WindowRect{{Rect: geometry.Rect{L: 5, T: 5, R: 20, B: 20}}},
		Color:       red,
		ThicknessPx: 2,
		Corner:      CornerDoNot,
		FullRedraw:  true,
	}
	if err := r.Draw(plan); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if _, _, _, a := dev.lastSurface.pb.At(5, 5); a == 0 {
		t.Fatalf("expected border pixel to be painted after full redraw")
	}
}
