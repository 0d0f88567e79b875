package mapgen

import (
	"errors"
	"testing"

	"github.com/lixenwraith/marc/tilemap"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	if table.Size() != int(Spawner)+1 {
		t.Fatalf("Expected %d entries, got %d", int(Spawner)+1, table.Size())
	}

	coin, _ := table.Lookup(Coin)
	if !coin.IsCollectible() || coin.Frames != 20 {
		t.Errorf("Coin property wrong: %+v", coin)
	}
	marble, _ := table.Lookup(Marble)
	if !marble.IsDestructible() || !marble.IsSolid() {
		t.Errorf("Marble property wrong: %+v", marble)
	}
	spawner, _ := table.Lookup(Spawner)
	if !spawner.IsGenerator() {
		t.Errorf("Spawner property wrong: %+v", spawner)
	}
	empty, _ := table.Lookup(Empty)
	if empty.IsSolid() {
		t.Errorf("Empty tile must not be solid")
	}
}

func TestGenerateDimensions(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{3, 3},
		{4, 4},
		{21, 11},
		{40, 20},
	}

	for _, tt := range tests {
		res, err := Generate(Config{Width: tt.w, Height: tt.h, Seed: 7, Coins: true})
		if err != nil {
			t.Fatalf("%dx%d: Generate failed: %v", tt.w, tt.h, err)
		}
		m := res.Map
		if m.Width() != tt.w || m.Height() != tt.h {
			t.Errorf("Expected %dx%d, got %dx%d", tt.w, tt.h, m.Width(), m.Height())
		}
		if x, y, id, ok := m.Validate(DefaultTable()); !ok {
			t.Errorf("%dx%d: unknown id %d at (%d,%d)", tt.w, tt.h, id, x, y)
		}
		for x := 0; x < tt.w; x++ {
			if id, _ := m.At(x, tt.h-1); id != Ground {
				t.Errorf("%dx%d: expected ground at bottom (%d), got %d", tt.w, tt.h, x, id)
			}
		}
		for y := 0; y < tt.h-1; y++ {
			if id, _ := m.At(0, y); id != Wall {
				t.Errorf("%dx%d: expected left wall at row %d, got %d", tt.w, tt.h, y, id)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{Width: 31, Height: 15, Braiding: 0.3, MarbleRatio: 0.2, Coins: true, Seed: 42}
	a, _ := Generate(cfg)
	b, _ := Generate(cfg)
	if !a.Map.Equal(b.Map) {
		t.Errorf("Same seed produced different maps")
	}
}

func TestGenerateCoinsOnDeadEnds(t *testing.T) {
	res, err := Generate(Config{Width: 25, Height: 25, Coins: true, Seed: 3})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(res.DeadEnds) == 0 {
		t.Fatalf("A tree maze of this size must have dead ends")
	}
	if got := res.Map.Count(tilemap.Is(Coin)); got != len(res.DeadEnds) {
		t.Errorf("Expected %d coins, got %d", len(res.DeadEnds), got)
	}
	if id, _ := res.Map.At(res.Start.X, res.Start.Y); id != Flower {
		t.Errorf("Expected flower at start, got %d", id)
	}
	if id, _ := res.Map.At(res.End.X, res.End.Y); id != Spawner {
		t.Errorf("Expected spawner at end, got %d", id)
	}
}

func TestBraidingReducesDeadEnds(t *testing.T) {
	tree, _ := Generate(Config{Width: 41, Height: 41, Seed: 9})
	braided, _ := Generate(Config{Width: 41, Height: 41, Seed: 9, Braiding: 1})
	if len(braided.DeadEnds) >= len(tree.DeadEnds) {
		t.Errorf("Expected fewer dead ends with braiding: %d vs %d", len(braided.DeadEnds), len(tree.DeadEnds))
	}
}

func TestGenerateRejectsSmall(t *testing.T) {
	var invalid *tilemap.InvalidDimensionError
	if _, err := Generate(Config{Width: 2, Height: 10}); !errors.As(err, &invalid) || invalid.Axis != "width" {
		t.Errorf("Expected width InvalidDimensionError, got %v", err)
	}
	if _, err := Generate(Config{Width: 10, Height: -1}); !errors.As(err, &invalid) || invalid.Axis != "height" {
		t.Errorf("Expected height InvalidDimensionError, got %v", err)
	}
}
