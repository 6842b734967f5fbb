package hook

import (
	"testing"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/platform"
)

type fakeSub struct{ unhooked int }

func (s *fakeSub) Unsubscribe() { s.unhooked++ }

type fakeWS struct {
	cb      func(platform.Event)
	classes []platform.EventClass
	sub     *fakeSub
}

func (f *fakeWS) EnumerateTopLevelWindows() ([]platform.Handle, error) { return nil, nil }
func (f *fakeWS) IsVisible(platform.Handle) bool                       { return false }
func (f *fakeWS) IsMinimized(platform.Handle) bool                     { return false }
func (f *fakeWS) IsCloaked(platform.Handle) bool                       { return false }
func (f *fakeWS) IsToolWindow(platform.Handle) bool                    { return false }
func (f *fakeWS) RootOf(h platform.Handle) platform.Handle             { return h }
func (f *fakeWS) ClassName(platform.Handle) string                     { return "" }
func (f *fakeWS) FrameBounds(platform.Handle) (geometry.Rect, error)    { return geometry.Rect{}, nil }
func (f *fakeWS) RawBounds(platform.Handle) (geometry.Rect, error)      { return geometry.Rect{}, nil }
func (f *fakeWS) ForegroundWindow() (platform.Handle, error)           { return 0, nil }
func (f *fakeWS) VirtualScreenBounds() (geometry.Rect, error)           { return geometry.Rect{}, nil }
func (f *fakeWS) PrimaryScreenBounds() (geometry.Rect, error)           { return geometry.Rect{}, nil }
func (f *fakeWS) DPI(platform.Handle) int                               { return 96 }
func (f *fakeWS) Subscribe(classes []platform.EventClass, cb func(platform.Event)) (platform.Subscription, error) {
	f.classes = classes
	f.cb = cb
	f.sub = &fakeSub{}
	return f.sub, nil
}

func TestStartSubscribesAllEightClasses(t *testing.T) {
	ws := &fakeWS{}
	d := New(ws, nil)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(ws.classes) != 8 {
		t.Fatalf("expected 8 subscribed classes, got %d", len(ws.classes))
	}
}

func TestCoalescesBurstIntoOneRefresh(t *testing.T) {
	ws := &fakeWS{}
	d := New(ws, nil)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 10; i++ {
		ws.cb(platform.Event{Class: platform.EventLocationChange, Handle: 1})
	}

	select {
	case req := <-d.Refresh:
		if req.CorrelationID == "" {
			t.Fatalf("expected a correlation ID on the coalesced refresh")
		}
	default:
		t.Fatalf("expected exactly one pending refresh request")
	}

	select {
	case req := <-d.Refresh:
		t.Fatalf("expected no second pending refresh request, got %+v", req)
	default:
	}
}

func TestStopUnsubscribesIdempotently(t *testing.T) {
	ws := &fakeWS{}
	d := New(ws, nil)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop()
	d.Stop()
	if ws.sub.unhooked != 1 {
		t.Fatalf("expected Unsubscribe called exactly once, got %d", ws.sub.unhooked)
	}
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	d := New(&fakeWS{}, nil)
	d.Stop() // must not panic
}
