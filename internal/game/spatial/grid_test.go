package spatial

import (
	"sort"
	"testing"
)

func TestGridQueryRadius(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	g.Insert(0, 0, 0)
	g.Insert(1, 4, 4)
	g.Insert(2, 25, 0)
	g.Insert(3, -45, -45)

	got := append([]uint32(nil), g.QueryRadius(0, 0, 5)...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Expected candidates [0 1], got %v", got)
	}

	far := g.QueryRadius(-45, -45, 1)
	if len(far) != 1 || far[0] != 3 {
		t.Errorf("Expected [3] in the corner cell, got %v", far)
	}
}

// TestGridClampsOutsidePositions verifies out-of-world entities land in border cells
func TestGridClampsOutsidePositions(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	g.Insert(7, 500, -500)

	if got := g.QueryCell(49, -49); len(got) != 1 || got[0] != 7 {
		t.Errorf("Expected entity clamped into the border cell, got %v", got)
	}
}

func TestGridRejectsBadQueries(t *testing.T) {
	g := NewGrid(100, 100, 10, 16)
	g.Insert(0, 0, 0)

	if got := g.QueryRadius(0, 0, -1); len(got) != 0 {
		t.Errorf("Negative radius should return nothing, got %v", got)
	}
}

func TestGridClearAndStats(t *testing.T) {
	g := NewGrid(40, 20, 10, 8)
	cols, rows, size := g.Dimensions()
	if cols != 4 || rows != 2 || size != 10 {
		t.Errorf("Expected 4x2 cells of 10, got %dx%d of %v", cols, rows, size)
	}

	g.Insert(0, 1, 1)
	g.Insert(1, 2, 2)
	g.Insert(2, -15, -5)

	s := g.Stats()
	if s.TotalEntities != 3 || s.NonEmptyCells != 2 || s.MaxInCell != 2 {
		t.Errorf("Unexpected stats %+v", s)
	}

	g.Clear()
	if s := g.Stats(); s.TotalEntities != 0 {
		t.Errorf("Expected empty grid after Clear, got %d", s.TotalEntities)
	}
}

func BenchmarkGridQueryRadius(b *testing.B) {
	g := NewGrid(400, 400, 10, 256)
	for i := 0; i < 256; i++ {
		g.Insert(uint32(i), float64(i%16)*25-200, float64(i/16)*25-200)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.QueryRadius(0, 0, 8)
	}
}
