// Package cache implements the Tracked-Window Cache of spec §4.2: the
// scheduler's record of what was drawn last tick, reconciled against each
// fresh Observer snapshot to produce the diff the dirty-rectangle
// computation needs.
package cache

import (
	"github.com/1broseidon/borderd/internal/geometry"
	"github.com/1broseidon/borderd/internal/observer"
	"github.com/1broseidon/borderd/internal/platform"
)

// Move records a window whose cached rect differs from its fresh one.
type Move struct {
	Handle   platform.Handle
	Old, New geometry.Rect
}

// DiffReport summarizes what changed between the previous reconcile and
// this one (spec §4.2). Added/Removed carry the rect the window had on the
// side it was present (new for Added, old for Removed) so the scheduler can
// compute the dirty rectangle (spec §4.6 step 4) without re-querying the
// cache.
type DiffReport struct {
	Added     []observer.WindowState
	Removed   []observer.WindowState
	Moved     []Move
	Unchanged []platform.Handle
}

// Empty reports whether the diff contains no changes at all.
func (d DiffReport) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0
}

// DirtyRect computes spec §4.6 step 4: the axis-aligned union of every
// rectangle that appears in only one of (old cache, new cache), or whose
// coordinates differ.
func (d DiffReport) DirtyRect() geometry.Rect {
	var rects []geometry.Rect
	for _, w := range d.Added {
		rects = append(rects, w.Rect)
	}
	for _, w := range d.Removed {
		rects = append(rects, w.Rect)
	}
	for _, m := range d.Moved {
		rects = append(rects, m.Old, m.New)
	}
	return geometry.UnionAll(rects)
}

// Cache holds the (Handle, Rect) pairs drawn as of the last reconcile.
type Cache struct {
	entries map[platform.Handle]geometry.Rect
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[platform.Handle]geometry.Rect)}
}

// Reconcile upserts every handle in snapshot and removes every entry whose
// handle is not present in snapshot (spec §4.2). Reconcile is idempotent:
// calling it twice with an unchanged snapshot produces an empty diff the
// second time.
func (c *Cache) Reconcile(snapshot []observer.WindowState) DiffReport {
	seen := make(map[platform.Handle]bool, len(snapshot))
	var report DiffReport

	for _, w := range snapshot {
		seen[w.Handle] = true
		old, existed := c.entries[w.Handle]
		switch {
		case !existed:
			report.Added = append(report.Added, w)
		case old != w.Rect:
			report.Moved = append(report.Moved, Move{Handle: w.Handle, Old: old, New: w.Rect})
		default:
			report.Unchanged = append(report.Unchanged, w.Handle)
		}
		c.entries[w.Handle] = w.Rect
	}

	for h, r := range c.entries {
		if !seen[h] {
			report.Removed = append(report.Removed, observer.WindowState{Handle: h, Rect: r})
			delete(c.entries, h)
		}
	}
	return report
}

// Clear removes all entries (spec §4.2, used at teardown or render-mode
// switch).
func (c *Cache) Clear() {
	c.entries = make(map[platform.Handle]geometry.Rect)
}

// Iter calls fn for every cached entry, for diagnostics (spec §4.2).
func (c *Cache) Iter(fn func(platform.Handle, geometry.Rect)) {
	for h, r := range c.entries {
		fn(h, r)
	}
}

// Len reports the number of tracked windows.
func (c *Cache) Len() int { return len(c.entries) }

// Rect returns the cached rect for h and whether it is present.
func (c *Cache) Rect(h platform.Handle) (geometry.Rect, bool) {
	r, ok := c.entries[h]
	return r, ok
}
