package tile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTableLookup(t *testing.T) {
	table := NewTable(
		Property{Name: "air", Collectible: Collectible, Solidity: Air},
		Property{Name: "wall", Collectible: NotCollectible, Solidity: Solid},
	)

	if table.Size() != 2 {
		t.Fatalf("Expected size 2, got %d", table.Size())
	}

	p, err := table.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup(1) failed: %v", err)
	}
	if p.Solidity != Solid || p.Collectible != NotCollectible {
		t.Errorf("Lookup(1) returned %+v", p)
	}

	_, err = table.Lookup(2)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("Expected OutOfRangeError, got %v", err)
	}
	if oor.ID != 2 || oor.Size != 2 {
		t.Errorf("Unexpected error fields: %+v", oor)
	}
}

func TestTableIsImmutable(t *testing.T) {
	props := []Property{{Name: "a"}, {Name: "b"}}
	table := NewTable(props...)
	props[0].Name = "changed"

	got := table.Properties()
	got[1].Name = "changed too"

	p0, _ := table.Lookup(0)
	p1, _ := table.Lookup(1)
	if p0.Name != "a" || p1.Name != "b" {
		t.Errorf("Table changed through caller slices: %q %q", p0.Name, p1.Name)
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if table.Size() != 0 {
		t.Errorf("Expected nil table size 0")
	}
	if _, err := table.Lookup(0); err == nil {
		t.Errorf("Expected error from nil table lookup")
	}
}

func TestResolveDefaults(t *testing.T) {
	p := Property{Collectible: Collectible}
	if p.Resolved() {
		t.Fatalf("Property with unspecified axes reported as resolved")
	}

	r := p.Resolve()
	if !r.Resolved() {
		t.Fatalf("Resolve left unspecified axes: %+v", r)
	}
	if r.Solidity != Air || r.Destructible != NotDestructible || r.Generator != NotGenerator {
		t.Errorf("Unexpected defaults: %+v", r)
	}
	if r.Collectible != Collectible {
		t.Errorf("Resolve overwrote a specified axis")
	}
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Property
		wantErr bool
	}{
		{
			name: "full",
			in:   "path=images/coin.png,frames=20,solidity=air,collectible=collectible",
			want: Property{Name: "images/coin.png", Frames: 20, Solidity: Air, Collectible: Collectible},
		},
		{
			name: "null axes",
			in:   "path=images/wall.png,frames=1,solidity=solid,generator=",
			want: Property{Name: "images/wall.png", Frames: 1, Solidity: Solid},
		},
		{
			name: "semi solid destructible",
			in:   "path=g,solidity=semi_solid,destructible=destructible,generator=not_generator",
			want: Property{Name: "g", Solidity: SemiSolid, Destructible: Destructible, Generator: NotGenerator},
		},
		{name: "bad solidity", in: "solidity=liquid", wantErr: true},
		{name: "missing equals", in: "path", wantErr: true},
		{name: "unknown key", in: "color=red", wantErr: true},
		{name: "bad frames", in: "frames=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProperty(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProperty(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseProperty(%q) = %+v, want %+v", tt.in, got, tt.want)
			}

			again, err := ParseProperty(got.String())
			if err != nil || again != got {
				t.Errorf("String form %q does not parse back: %+v, %v", got.String(), again, err)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if SemiSolid.String() != "semi_solid" {
		t.Errorf("Expected semi_solid, got %s", SemiSolid.String())
	}
	if SolidityUnspecified.String() != "unspecified" {
		t.Errorf("Expected unspecified, got %s", SolidityUnspecified.String())
	}
	if Solidity(9).Valid() {
		t.Errorf("Solidity(9) reported valid")
	}
	if !strings.HasPrefix(Solidity(9).String(), "invalid") {
		t.Errorf("Unexpected name for invalid value: %s", Solidity(9).String())
	}
	if d, err := ParseDestructible("Not-Destructible"); err != nil || d != NotDestructible {
		t.Errorf("Expected not_destructible, got %v (%v)", d, err)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	table := NewTable(
		Property{Name: "", Frames: 0},
		Property{Name: "images/ground.png", Frames: 1, Solidity: Solid, Destructible: NotDestructible},
		Property{Name: "images/coin.png", Frames: 20, Solidity: Air, Collectible: Collectible},
	)

	var buf bytes.Buffer
	if err := WriteManifest(&buf, table); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[[tile]]") {
		t.Errorf("Manifest missing [[tile]] entries:\n%s", buf.String())
	}

	got, err := LoadManifest(&buf)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if !got.Equal(table) {
		t.Errorf("Manifest round trip mismatch:\n got %+v\nwant %+v", got.Properties(), table.Properties())
	}
}

func TestManifestRejectsUnknownValues(t *testing.T) {
	src := `
[[tile]]
name = "lava"
frames = 4
solidity = "liquid"
`
	if _, err := LoadManifest(strings.NewReader(src)); err == nil {
		t.Errorf("Expected error for unknown solidity")
	}

	src = `
[[tile]]
name = "lava"
colour = "red"
`
	if _, err := LoadManifest(strings.NewReader(src)); err == nil {
		t.Errorf("Expected error for unknown key")
	}
}
