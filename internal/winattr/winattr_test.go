package winattr

import (
	"errors"
	"testing"

	"github.com/1broseidon/borderd/internal/platform"
)

type fakeApplier struct {
	set     map[platform.Handle]platform.Color
	setErr  map[platform.Handle]error
	resets  []platform.Handle
	setCall int
}

func newFakeApplier() *fakeApplier {
	return &fakeApplier{set: make(map[platform.Handle]platform.Color)}
}

func (f *fakeApplier) SetBorderColor(h platform.Handle, c platform.Color) error {
	f.setCall++
	if err := f.setErr[h]; err != nil {
		return err
	}
	f.set[h] = c
	return nil
}

func (f *fakeApplier) ResetBorderColor(h platform.Handle) error {
	f.resets = append(f.resets, h)
	delete(f.set, h)
	return nil
}

func TestReconcileAppliesColorToNewWindows(t *testing.T) {
	s := NewStyleCache()
	applier := newFakeApplier()
	red := platform.Color{R: 1, A: 1}

	s.Reconcile(applier, red, []platform.Handle{1, 2}, nil)

	if applier.setCall != 2 {
		t.Fatalf("expected 2 SetBorderColor calls, got %d", applier.setCall)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 applied entries, got %d", s.Len())
	}
}

func TestReconcileSkipsUnchangedColor(t *testing.T) {
	s := NewStyleCache()
	applier := newFakeApplier()
	red := platform.Color{R: 1, A: 1}

	s.Reconcile(applier, red, []platform.Handle{1}, nil)
	s.Reconcile(applier, red, []platform.Handle{1}, nil)

	if applier.setCall != 1 {
		t.Fatalf("expected only 1 SetBorderColor call across two idempotent reconciles, got %d", applier.setCall)
	}
}

func TestReconcileReappliesOnColorChange(t *testing.T) {
	s := NewStyleCache()
	applier := newFakeApplier()

	s.Reconcile(applier, platform.Color{R: 1, A: 1}, []platform.Handle{1}, nil)
	s.Reconcile(applier, platform.Color{B: 1, A: 1}, []platform.Handle{1}, nil)

	if applier.setCall != 2 {
		t.Fatalf("expected a second SetBorderColor call after color change, got %d", applier.setCall)
	}
}

func TestReconcileResetsDroppedWindows(t *testing.T) {
	s := NewStyleCache()
	applier := newFakeApplier()
	red := platform.Color{R: 1, A: 1}

	s.Reconcile(applier, red, []platform.Handle{1, 2}, nil)
	s.Reconcile(applier, red, []platform.Handle{1}, nil)

	if len(applier.resets) != 1 || applier.resets[0] != platform.Handle(2) {
		t.Fatalf("expected handle 2 reset, got %+v", applier.resets)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 remaining applied entry, got %d", s.Len())
	}
}

func TestReconcileReportsApplyFailureWithoutStoppingOthers(t *testing.T) {
	s := NewStyleCache()
	applier := newFakeApplier()
	applier.setErr = map[platform.Handle]error{2: errors.New("denied")}
	red := platform.Color{R: 1, A: 1}

	var failed []platform.Handle
	s.Reconcile(applier, red, []platform.Handle{1, 2, 3}, func(h platform.Handle, err error) {
		failed = append(failed, h)
	})

	if len(failed) != 1 || failed[0] != platform.Handle(2) {
		t.Fatalf("expected only handle 2 reported failed, got %+v", failed)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 successfully applied entries (1 and 3), got %d", s.Len())
	}
}
