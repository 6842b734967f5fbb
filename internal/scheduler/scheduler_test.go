package scheduler

import (
	"testing"

	"github.com/1broseidon/borderd/internal/cache"
	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/controlplane"
	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/hook"
	"github.com/1broseidon/borderd/internal/observer"
	"github.com/1broseidon/borderd/internal/platform"
	"github.com/1broseidon/borderd/internal/renderer"
)

// --- fake platform.WindowSystem ---

type fakeWS struct {
	order   []platform.Handle
	rects   map[platform.Handle]geometry.Rect
	vsb     geometry.Rect
	primary geometry.Rect
	fg      platform.Handle
}

func (f *fakeWS) EnumerateTopLevelWindows() ([]platform.Handle, error) { return f.order, nil }
func (f *fakeWS) IsVisible(platform.Handle) bool                       { return true }
func (f *fakeWS) IsMinimized(platform.Handle) bool                     { return false }
func (f *fakeWS) IsCloaked(platform.Handle) bool                       { return false }
func (f *fakeWS) IsToolWindow(platform.Handle) bool                    { return false }
func (f *fakeWS) RootOf(h platform.Handle) platform.Handle             { return h }
func (f *fakeWS) ClassName(platform.Handle) string                     { return "Normal" }
func (f *fakeWS) FrameBounds(h platform.Handle) (geometry.Rect, error) { return f.rects[h], nil }
func (f *fakeWS) RawBounds(h platform.Handle) (geometry.Rect, error)   { return f.rects[h], nil }
func (f *fakeWS) ForegroundWindow() (platform.Handle, error)           { return f.fg, nil }
func (f *fakeWS) VirtualScreenBounds() (geometry.Rect, error)          { return f.vsb, nil }
func (f *fakeWS) PrimaryScreenBounds() (geometry.Rect, error)          { return f.primary, nil }
func (f *fakeWS) DPI(platform.Handle) int                              { return 96 }
func (f *fakeWS) Subscribe(classes []platform.EventClass, cb func(platform.Event)) (platform.Subscription, error) {
	return nil, nil
}

// --- fake composition chain ---

type fakeHost struct{}

func (fakeHost) NativeHandle() platform.Handle { return 1 }

type fakeSurface struct{}

func (fakeSurface) BeginDraw(*geometry.Rect) (platform.DrawContext, geometry.Point, error) {
	return fakeCtx{}, geometry.Point{}, nil
}
func (fakeSurface) EndDraw() error { return nil }
func (fakeSurface) Release()       {}

type fakeCtx struct{}

func (fakeCtx) Clear(platform.Color)                                          {}
func (fakeCtx) FillRect(geometry.Rect, platform.Color)                        {}
func (fakeCtx) StrokeRect(geometry.Rect, float64, platform.Color)             {}
func (fakeCtx) StrokeRoundedRect(geometry.Rect, float64, float64, platform.Color) {}

type fakeVisual struct{}

func (*fakeVisual) SetContent(platform.Surface) error { return nil }
func (*fakeVisual) AddChild(platform.Visual) error     { return nil }
func (*fakeVisual) Release()                           {}

type fakeTarget struct{}

func (*fakeTarget) SetRoot(platform.Visual) error { return nil }
func (*fakeTarget) Release()                      {}

type fakeDevice struct {
	surfacesCreated int
}

func (d *fakeDevice) CreateTarget(platform.HostWindow) (platform.Target, error) { return &fakeTarget{}, nil }
func (d *fakeDevice) CreateVisual() (platform.Visual, error)                    { return &fakeVisual{}, nil }
func (d *fakeDevice) CreateSurface(w, h int) (platform.Surface, error) {
	d.surfacesCreated++
	return fakeSurface{}, nil
}
func (d *fakeDevice) Commit() error { return nil }
func (d *fakeDevice) Release()      {}

type fakeClip struct {
	installed []geometry.Region
}

func (c *fakeClip) InstallClip(r geometry.Region) error {
	c.installed = append(c.installed, r)
	return nil
}

type fakeApplier struct {
	applied map[platform.Handle]platform.Color
}

func newFakeApplier() *fakeApplier { return &fakeApplier{applied: map[platform.Handle]platform.Color{}} }
func (a *fakeApplier) SetBorderColor(h platform.Handle, c platform.Color) error {
	a.applied[h] = c
	return nil
}
func (a *fakeApplier) ResetBorderColor(h platform.Handle) error {
	delete(a.applied, h)
	return nil
}

func newTestScheduler(ws *fakeWS, dev *fakeDevice, clip *fakeClip, startup *config.Config, applier *fakeApplier) (*Scheduler, *controlplane.Receiver) {
	obs := observer.New(ws, nil)
	c := cache.New()
	r := renderer.New(dev, fakeHost{}, nil)
	receiver := controlplane.New(startup, hook.New(nil, nil), nil)
	return New(ws, platform.Handle(1), obs, c, r, clip, receiver, startup, applier, nil), receiver
}

func TestTickDrawsOnFirstTickThenSkipsWhenUnchanged(t *testing.T) {
	ws := &fakeWS{
		order: []platform.Handle{1},
		rects: map[platform.Handle]geometry.Rect{1: geometry.NewRect(10, 10, 110, 110)},
		vsb:   geometry.NewRect(0, 0, 1920, 1080),
	}
	dev := &fakeDevice{}
	clip := &fakeClip{}
	startup := config.DefaultConfig()
	sched, _ := newTestScheduler(ws, dev, clip, startup, nil)

	sched.Tick()
	if dev.surfacesCreated != 1 {
		t.Fatalf("expected 1 surface created after first tick, got %d", dev.surfacesCreated)
	}
	if len(clip.installed) != 1 {
		t.Fatalf("expected 1 clip install after first tick, got %d", len(clip.installed))
	}

	sched.Tick()
	if dev.surfacesCreated != 1 {
		t.Fatalf("expected no new surface on unchanged second tick, got %d", dev.surfacesCreated)
	}
	if len(clip.installed) != 1 {
		t.Fatalf("expected no new clip install on unchanged second tick, got %d", len(clip.installed))
	}
}

func TestTickRedrawsWhenWindowMoves(t *testing.T) {
	ws := &fakeWS{
		order: []platform.Handle{1},
		rects: map[platform.Handle]geometry.Rect{1: geometry.NewRect(10, 10, 110, 110)},
		vsb:   geometry.NewRect(0, 0, 1920, 1080),
	}
	dev := &fakeDevice{}
	clip := &fakeClip{}
	startup := config.DefaultConfig()
	sched, _ := newTestScheduler(ws, dev, clip, startup, nil)

	sched.Tick()
	ws.rects[1] = geometry.NewRect(20, 20, 120, 120)
	sched.Tick()

	if len(clip.installed) != 2 {
		t.Fatalf("expected a clip reinstall after the window moved, got %d installs", len(clip.installed))
	}
}

func TestTickSuppressesDrawDuringFullscreenExclusive(t *testing.T) {
	ws := &fakeWS{
		order:   []platform.Handle{1},
		rects:   map[platform.Handle]geometry.Rect{1: geometry.NewRect(10, 10, 110, 110)},
		vsb:     geometry.NewRect(0, 0, 1920, 1080),
		primary: geometry.NewRect(0, 0, 1920, 1080),
		fg:      2,
	}
	ws.rects[2] = geometry.NewRect(0, 0, 1920, 1080)
	dev := &fakeDevice{}
	clip := &fakeClip{}
	startup := config.DefaultConfig()
	startup.SuppressInFullscreen = true
	sched, _ := newTestScheduler(ws, dev, clip, startup, nil)

	sched.Tick()

	if dev.surfacesCreated != 0 {
		t.Fatalf("expected drawing suppressed under a fullscreen-exclusive foreground window, got %d surfaces", dev.surfacesCreated)
	}
}

func TestTickWindowAttributeModeAppliesColorWithoutComposition(t *testing.T) {
	ws := &fakeWS{
		order: []platform.Handle{1},
		rects: map[platform.Handle]geometry.Rect{1: geometry.NewRect(10, 10, 110, 110)},
		vsb:   geometry.NewRect(0, 0, 1920, 1080),
	}
	dev := &fakeDevice{}
	clip := &fakeClip{}
	startup := config.DefaultConfig()
	startup.RenderMode = config.RenderModeWindowAttribute
	applier := newFakeApplier()
	sched, _ := newTestScheduler(ws, dev, clip, startup, applier)

	sched.Tick()

	if len(applier.applied) != 1 {
		t.Fatalf("expected 1 window styled, got %d", len(applier.applied))
	}
	if dev.surfacesCreated != 0 {
		t.Fatalf("expected no composition surface created in window-attribute mode, got %d", dev.surfacesCreated)
	}
}

func TestTranslateToLocalShiftsByVSBOrigin(t *testing.T) {
	windows := []observer.WindowState{{Handle: 1, Rect: geometry.NewRect(110, 60, 210, 160)}}
	vsb := geometry.NewRect(100, 50, 2020, 1130)

	out := translateToLocal(windows, vsb)

	want := geometry.NewRect(10, 10, 110, 110)
	if out[0].Rect != want {
		t.Fatalf("translateToLocal = %+v, want %+v", out[0].Rect, want)
	}
}
