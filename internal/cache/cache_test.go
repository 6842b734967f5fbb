package cache

import (
	"testing"

	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/observer"
	"github.com/1broseidon/borderd/internal/platform"
)

func TestReconcileAddedRemovedMoved(t *testing.T) {
	c := New()

	r1 := geometry.Rect{L: 0, T: 0, R: 10, B: 10}
	r2 := geometry.Rect{L: 100, T: 100, R: 110, B: 110}
	first := c.Reconcile([]observer.WindowState{{Handle: 1, Rect: r1}, {Handle: 2, Rect: r2}})
	if first.Empty() {
		t.Fatalf("expected non-empty diff when windows were added")
	}
	if len(first.Added) != 2 || len(first.Removed) != 0 || len(first.Moved) != 0 {
		t.Fatalf("first reconcile: unexpected report %+v", first)
	}

	r1Moved := geometry.Rect{L: 5, T: 5, R: 15, B: 15}
	second := c.Reconcile([]observer.WindowState{{Handle: 1, Rect: r1Moved}})
	if len(second.Moved) != 1 || second.Moved[0].Handle != 1 {
		t.Fatalf("expected handle 1 reported moved, got %+v", second)
	}
	if len(second.Removed) != 1 || second.Removed[0].Handle != 2 {
		t.Fatalf("expected handle 2 reported removed, got %+v", second)
	}
	if c.Len() != 1 {
		t.Fatalf("expected cache to retain only handle 1, got %d entries", c.Len())
	}
}

// Property 1 (spec §8): reconcile is idempotent on an unchanged snapshot.
func TestReconcileIdempotentOnUnchangedSnapshot(t *testing.T) {
	c := New()
	snap := []observer.WindowState{{Handle: 1, Rect: geometry.Rect{L: 0, T: 0, R: 10, B: 10}}}
	c.Reconcile(snap)

	second := c.Reconcile(snap)
	if !second.Empty() {
		t.Fatalf("expected empty diff on unchanged snapshot, got %+v", second)
	}
	if len(second.Unchanged) != 1 {
		t.Fatalf("expected handle reported unchanged, got %+v", second)
	}
}

// Property 2 (spec §8): a handle absent from two consecutive snapshots is
// guaranteed absent from the cache.
func TestHandleAbsentFromTwoSnapshotsStaysAbsent(t *testing.T) {
	c := New()
	c.Reconcile([]observer.WindowState{{Handle: 1, Rect: geometry.Rect{L: 0, T: 0, R: 10, B: 10}}})
	c.Reconcile(nil)
	c.Reconcile(nil)
	if _, ok := c.Rect(1); ok {
		t.Fatalf("expected handle 1 absent after two empty snapshots")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Reconcile([]observer.WindowState{{Handle: 1, Rect: geometry.Rect{L: 0, T: 0, R: 10, B: 10}}})
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected cache empty after Clear, got %d entries", c.Len())
	}
}

func TestIter(t *testing.T) {
	c := New()
	c.Reconcile([]observer.WindowState{
		{Handle: 1, Rect: geometry.Rect{L: 0, T: 0, R: 10, B: 10}},
		{Handle: 2, Rect: geometry.Rect{L: 1, T: 1, R: 11, B: 11}},
	})
	seen := map[platform.Handle]bool{}
	c.Iter(func(h platform.Handle, r geometry.Rect) { seen[h] = true })
	if len(seen) != 2 {
		t.Fatalf("expected Iter to visit 2 entries, got %d", len(seen))
	}
}

func TestDiffReportDirtyRectUnionsAddedRemovedMoved(t *testing.T) {
	c := New()
	c.Reconcile([]observer.WindowState{
		{Handle: 1, Rect: geometry.Rect{L: 0, T: 0, R: 10, B: 10}},
		{Handle: 2, Rect: geometry.Rect{L: 500, T: 500, R: 510, B: 510}},
	})

	report := c.Reconcile([]observer.WindowState{
		{Handle: 1, Rect: geometry.Rect{L: 5, T: 5, R: 15, B: 15}}, // moved
		{Handle: 3, Rect: geometry.Rect{L: 900, T: 900, R: 910, B: 910}}, // added
		// handle 2 removed
	})

	dirty := report.DirtyRect()
	want := geometry.UnionAll([]geometry.Rect{
		{L: 0, T: 0, R: 10, B: 10}, {L: 5, T: 5, R: 15, B: 15}, // moved old+new
		{L: 900, T: 900, R: 910, B: 910},                       // added
		{L: 500, T: 500, R: 510, B: 510},                       // removed
	})
	if dirty != want {
		t.Fatalf("DirtyRect = %+v, want %+v", dirty, want)
	}
}

func TestDiffReportDirtyRectEmptyWhenNoChange(t *testing.T) {
	report := DiffReport{}
	if !report.DirtyRect().Empty() {
		t.Fatalf("expected empty dirty rect for an empty diff")
	}
}
