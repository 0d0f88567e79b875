package tilemap

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/lixenwraith/marc/tile"
)

func mustMap(t *testing.T, w, h int, cells ...tile.ID) *Map {
	t.Helper()
	m, err := FromCells(w, h, cells)
	if err != nil {
		t.Fatalf("FromCells(%d, %d) failed: %v", w, h, err)
	}
	return m
}

func TestReplaceTilesScenario(t *testing.T) {
	m := mustMap(t, 2, 2, 0, 1, 1, 0)

	n := ReplaceTiles(m, Is(1), 0)
	if n != 2 {
		t.Errorf("Expected 2 changed cells, got %d", n)
	}
	if want := []tile.ID{0, 0, 0, 0}; !slices.Equal(m.Cells(), want) {
		t.Errorf("Expected grid %v, got %v", want, m.Cells())
	}
}

func TestReplaceReportsCoordinates(t *testing.T) {
	m := mustMap(t, 3, 2,
		1, 2, 1,
		2, 1, 0,
	)

	changes := Replace(m, Is(1), 5)
	want := []Change{
		{X: 0, Y: 0, Old: 1, New: 5},
		{X: 2, Y: 0, Old: 1, New: 5},
		{X: 1, Y: 1, Old: 1, New: 5},
	}
	if !slices.Equal(changes, want) {
		t.Errorf("Expected changes %v, got %v", want, changes)
	}
}

func TestRemoveTilesIdempotent(t *testing.T) {
	m := mustMap(t, 4, 2,
		3, 1, 2, 3,
		0, 3, 3, 1,
	)
	pred := Any(Is(3), Is(2))

	first := RemoveTiles(m, pred)
	once := m.Cells()
	second := RemoveTiles(m, pred)

	if first != 5 {
		t.Errorf("Expected 5 removed on first pass, got %d", first)
	}
	if second != 0 {
		t.Errorf("Expected 0 removed on second pass, got %d", second)
	}
	if !slices.Equal(once, m.Cells()) {
		t.Errorf("Second removal changed grid: %v -> %v", once, m.Cells())
	}
}

func TestResizeInvariant(t *testing.T) {
	base := []tile.ID{
		1, 2, 3,
		4, 5, 6,
	}

	tests := []struct {
		name   string
		resize func(*Map) error
		w, h   int
	}{
		{"grow width", func(m *Map) error { return ResizeWidth(m, 5) }, 5, 2},
		{"shrink width", func(m *Map) error { return ResizeWidth(m, 1) }, 1, 2},
		{"zero width", func(m *Map) error { return ResizeWidth(m, 0) }, 0, 2},
		{"grow height", func(m *Map) error { return ResizeHeight(m, 4) }, 3, 4},
		{"shrink height", func(m *Map) error { return ResizeHeight(m, 1) }, 3, 1},
		{"same size", func(m *Map) error { return ResizeHeight(m, 2) }, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := mustMap(t, 3, 2, base...)
			m := orig.Clone()
			if err := tt.resize(m); err != nil {
				t.Fatalf("resize failed: %v", err)
			}
			if m.Width() != tt.w || m.Height() != tt.h {
				t.Fatalf("Expected %dx%d, got %dx%d", tt.w, tt.h, m.Width(), m.Height())
			}
			if m.Len() != m.Width()*m.Height() {
				t.Fatalf("Grid length %d != %d*%d", m.Len(), m.Width(), m.Height())
			}

			for y := 0; y < m.Height(); y++ {
				for x := 0; x < m.Width(); x++ {
					got, _ := m.At(x, y)
					want, inOld := orig.At(x, y)
					if !inOld {
						want = tile.Empty
					}
					if got != want {
						t.Errorf("Cell (%d,%d): expected %d, got %d", x, y, want, got)
					}
				}
			}
		})
	}
}

func TestResizeNegativeLeavesMapUnchanged(t *testing.T) {
	m := mustMap(t, 2, 1, 7, 8)

	err := ResizeWidth(m, -1)
	var dimErr *InvalidDimensionError
	if !errors.As(err, &dimErr) || dimErr.Axis != "width" {
		t.Fatalf("Expected width InvalidDimensionError, got %v", err)
	}

	err = ResizeHeight(m, -3)
	if !errors.As(err, &dimErr) || dimErr.Axis != "height" || dimErr.Value != -3 {
		t.Fatalf("Expected height InvalidDimensionError, got %v", err)
	}

	if m.Width() != 2 || m.Height() != 1 || !slices.Equal(m.Cells(), []tile.ID{7, 8}) {
		t.Errorf("Map changed after failed resize: %dx%d %v", m.Width(), m.Height(), m.Cells())
	}
}

func TestResizeOversizedLeavesMapUnchanged(t *testing.T) {
	m := mustMap(t, 1, 3, 4, 5, 6)

	tests := []struct {
		name   string
		resize func() error
		axis   string
	}{
		{"width overflows int", func() error { return ResizeWidth(m, math.MaxInt/2) }, "width"},
		{"height overflows int", func() error { return ResizeHeight(m, math.MaxInt) }, "height"},
		{"width beyond archive cell count", func() error { return ResizeWidth(m, MaxCells/2) }, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dimErr *InvalidDimensionError
			if err := tt.resize(); !errors.As(err, &dimErr) || dimErr.Axis != tt.axis {
				t.Fatalf("Expected %s InvalidDimensionError, got %v", tt.axis, err)
			}
			if m.Width() != 1 || m.Height() != 3 || !slices.Equal(m.Cells(), []tile.ID{4, 5, 6}) {
				t.Errorf("Map changed after failed resize: %dx%d %v", m.Width(), m.Height(), m.Cells())
			}
		})
	}

	var dimErr *InvalidDimensionError
	if _, err := New(math.MaxInt/2, 3); !errors.As(err, &dimErr) {
		t.Errorf("Expected InvalidDimensionError from New, got %v", err)
	}
}

func TestTruncated(t *testing.T) {
	m := mustMap(t, 3, 2,
		1, 0, 2,
		0, 3, 4)

	got := Truncated(m, 2, 1)
	want := []Change{
		{X: 2, Y: 0, Old: 2, New: tile.Empty},
		{X: 1, Y: 1, Old: 3, New: tile.Empty},
		{X: 2, Y: 1, Old: 4, New: tile.Empty},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := Truncated(m, 5, 5); len(got) != 0 {
		t.Errorf("Expected nothing dropped when growing, got %v", got)
	}
}

func TestFromCellsRejectsMismatch(t *testing.T) {
	if _, err := FromCells(2, 2, []tile.ID{1, 2, 3}); err == nil {
		t.Errorf("Expected error for 3 cells in a 2x2 map")
	}
	if _, err := New(-1, 2); err == nil {
		t.Errorf("Expected error for negative width")
	}
}

func TestAtSetBounds(t *testing.T) {
	m, _ := New(2, 2)
	if !m.Set(1, 1, 4) {
		t.Fatalf("Set inside bounds failed")
	}
	if m.Set(2, 0, 4) || m.Set(0, -1, 4) {
		t.Errorf("Set outside bounds succeeded")
	}
	if id, ok := m.At(1, 1); !ok || id != 4 {
		t.Errorf("At(1,1) = %d, %v", id, ok)
	}
	if _, ok := m.At(5, 5); ok {
		t.Errorf("At outside bounds reported ok")
	}
}

func TestPredicates(t *testing.T) {
	table := tile.NewTable(
		tile.Property{Solidity: tile.Air},
		tile.Property{Solidity: tile.Solid, Destructible: tile.Destructible},
		tile.Property{Solidity: tile.Air, Collectible: tile.Collectible},
	)
	m := mustMap(t, 3, 1, 0, 1, 2)

	collectible := ByProperty(table, tile.Property.IsCollectible)
	if n := m.Count(collectible); n != 1 {
		t.Errorf("Expected 1 collectible cell, got %d", n)
	}
	if n := m.Count(Not(collectible)); n != 2 {
		t.Errorf("Expected 2 non-collectible cells, got %d", n)
	}
	if n := m.Count(All(Not(Is(0)), Any(Is(1), Is(2)))); n != 2 {
		t.Errorf("Expected 2 cells from combined predicate, got %d", n)
	}
	if Is()(0) {
		t.Errorf("Empty Is matched")
	}
}

func TestValidate(t *testing.T) {
	table := tile.NewTable(tile.Property{}, tile.Property{})
	m := mustMap(t, 2, 2, 0, 1, 1, 2)

	x, y, id, ok := m.Validate(table)
	if ok {
		t.Fatalf("Expected validation failure")
	}
	if x != 1 || y != 1 || id != 2 {
		t.Errorf("Expected offender (1,1)=2, got (%d,%d)=%d", x, y, id)
	}
}

func TestCloneIsDetached(t *testing.T) {
	m := mustMap(t, 1, 1, 3)
	c := m.Clone()
	c.Set(0, 0, 9)
	if id, _ := m.At(0, 0); id != 3 {
		t.Errorf("Clone shares cells with original")
	}
}
