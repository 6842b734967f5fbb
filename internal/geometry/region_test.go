package geometry

import "testing"

func TestRegionUnionDisjoint(t *testing.T) {
	var reg Region
	reg = reg.Union(Rect{L: 0, T: 0, R: 10, B: 10})
	reg = reg.Union(Rect{L: 5, T: 5, R: 15, B: 15})

	// The true union of the two squares is an L + overlap shape whose area
	// equals area(a) + area(b) - area(intersection).
	a := Rect{L: 0, T: 0, R: 10, B: 10}
	b := Rect{L: 5, T: 5, R: 15, B: 15}
	expected := a.Area() + b.Area() - a.Intersect(b).Area()
	if reg.Area() != expected {
		t.Fatalf("Region area = %d, want %d", reg.Area(), expected)
	}

	for _, p := range reg {
		for _, q := range reg {
			if p == q {
				continue
			}
			if p.Intersects(q) {
				t.Fatalf("region pieces %v and %v overlap, disjoint invariant broken", p, q)
			}
		}
	}
}

func TestRegionSubtract(t *testing.T) {
	reg := Region{{L: 0, T: 0, R: 100, B: 100}}
	reg = reg.Subtract(Rect{L: 25, T: 25, R: 75, B: 75})

	if reg.ContainsPoint(50, 50) {
		t.Fatalf("subtracted hole should not be covered")
	}
	if !reg.ContainsPoint(1, 1) {
		t.Fatalf("corner outside the hole should remain covered")
	}

	expectedArea := 100*100 - 50*50
	if reg.Area() != expectedArea {
		t.Fatalf("Subtract area = %d, want %d", reg.Area(), expectedArea)
	}
}

func TestRegionSubsetAndDisjoint(t *testing.T) {
	full := Region{{L: 0, T: 0, R: 10, B: 10}}
	half := Region{{L: 0, T: 0, R: 10, B: 5}}

	if !half.IsSubsetOf(full) {
		t.Fatalf("half should be a subset of full")
	}
	if full.IsSubsetOf(half) {
		t.Fatalf("full should not be a subset of half")
	}

	other := Region{{L: 20, T: 20, R: 30, B: 30}}
	if !full.DisjointFrom(other) {
		t.Fatalf("full and other should be disjoint")
	}
	if full.DisjointFrom(half) {
		t.Fatalf("full and half overlap, should not be reported disjoint")
	}
}

func TestRegionSubtractRegionAndUnionRegion(t *testing.T) {
	reg := Region{{L: 0, T: 0, R: 100, B: 100}}
	holes := Region{
		{L: 0, T: 0, R: 10, B: 10},
		{L: 90, T: 90, R: 100, B: 100},
	}
	reg = reg.SubtractRegion(holes)
	if reg.ContainsPoint(5, 5) || reg.ContainsPoint(95, 95) {
		t.Fatalf("both holes should be removed")
	}

	var acc Region
	acc = acc.UnionRegion(Region{{L: 0, T: 0, R: 5, B: 5}, {L: 10, T: 10, R: 15, B: 15}})
	if acc.Area() != 50 {
		t.Fatalf("UnionRegion area = %d, want 50", acc.Area())
	}
}
