package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

func scenarioTable() *tile.Table {
	return tile.NewTable(
		tile.Property{Name: "images/sky.png", Frames: 1, Collectible: tile.Collectible, Solidity: tile.Air},
		tile.Property{Name: "images/wall.png", Frames: 1, Collectible: tile.NotCollectible, Solidity: tile.Solid},
	)
}

func mustMap(t *testing.T, w, h int, cells ...tile.ID) *tilemap.Map {
	t.Helper()
	m, err := tilemap.FromCells(w, h, cells)
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	return m
}

func mustArchive(t *testing.T, table *tile.Table, maps ...*tilemap.Map) *Archive {
	t.Helper()
	a, err := New(table, maps...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestRoundTrip(t *testing.T) {
	table := tile.NewTable(
		tile.Property{},
		tile.Property{Name: "images/ground.png", Frames: 1, Solidity: tile.Solid, Destructible: tile.NotDestructible},
		tile.Property{Name: "images/marble.png", Frames: 1, Solidity: tile.Solid, Destructible: tile.Destructible},
		tile.Property{Name: "images/coin.png", Frames: 20, Solidity: tile.Air, Collectible: tile.Collectible, Generator: tile.NotGenerator},
		tile.Property{Name: "images/spring.png", Frames: 3, Solidity: tile.SemiSolid, Generator: tile.Generator},
	)

	tests := []struct {
		name string
		maps []*tilemap.Map
	}{
		{"no maps", nil},
		{"single map", []*tilemap.Map{mustMap(t, 3, 2, 0, 1, 2, 3, 4, 0)}},
		{"several maps", []*tilemap.Map{
			mustMap(t, 2, 2, 1, 1, 1, 1),
			mustMap(t, 0, 0),
			mustMap(t, 5, 1, 4, 3, 2, 1, 0),
			mustMap(t, 0, 3),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustArchive(t, table, tt.maps...)

			data, err := Encode(a)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(data)%SectionAlign != 0 {
				t.Errorf("Encoded length %d not aligned", len(data))
			}

			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !got.Equal(a) {
				t.Errorf("Round trip mismatch")
			}
			if got.MapCount() != len(tt.maps) {
				t.Errorf("Expected %d maps, got %d", len(tt.maps), got.MapCount())
			}

			again, err := Encode(got)
			if err != nil {
				t.Fatalf("Re-encode failed: %v", err)
			}
			if !bytes.Equal(data, again) {
				t.Errorf("Encoding is not deterministic")
			}
		})
	}
}

func TestEncodeDoesNotMutate(t *testing.T) {
	m := mustMap(t, 2, 2, 0, 1, 1, 0)
	a := mustArchive(t, scenarioTable(), m)
	before := mustArchive(t, scenarioTable(), m)

	if _, err := Encode(a); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !a.Equal(before) {
		t.Errorf("Encode changed the archive")
	}
}

func TestEncodeLayout(t *testing.T) {
	a := mustArchive(t, scenarioTable(), mustMap(t, 2, 2, 0, 1, 1, 0))
	data, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if got := binary.LittleEndian.Uint32(data); got != Magic {
		t.Errorf("Magic 0x%x", got)
	}
	if got := binary.LittleEndian.Uint32(data[0x08:]); got != 2 {
		t.Errorf("Tile count %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[0x0c:]); got != 1 {
		t.Errorf("Map count %d", got)
	}
	tableOff := binary.LittleEndian.Uint32(data[0x10:])
	if tableOff != 0x20 {
		t.Errorf("Expected table at 0x20, got 0x%x", tableOff)
	}
	mapOff := binary.LittleEndian.Uint32(data[0x14:])
	if mapOff != tableOff+2*PropertyRecordSize {
		t.Errorf("Expected map at 0x%x, got 0x%x", tableOff+2*PropertyRecordSize, mapOff)
	}
	if got := binary.LittleEndian.Uint32(data[mapOff:]); got != MapSignature {
		t.Errorf("Map signature 0x%x", got)
	}

	info, err := ReadInfo(data)
	if err != nil {
		t.Fatalf("ReadInfo failed: %v", err)
	}
	if info.TileCount != 2 || len(info.Maps) != 1 || info.Maps[0].Width != 2 || info.Maps[0].Height != 2 {
		t.Errorf("Unexpected info %+v", info)
	}
}

func TestDecodeTruncatedMapOffsets(t *testing.T) {
	// Header declares 3 maps but only carries 2 offsets
	data := make([]byte, HeaderFixedSize+2*MapOffsetSize)
	binary.LittleEndian.PutUint32(data[0x00:], Magic)
	binary.LittleEndian.PutUint32(data[0x04:], Version)
	binary.LittleEndian.PutUint32(data[0x08:], 0)
	binary.LittleEndian.PutUint32(data[0x0c:], 3)
	binary.LittleEndian.PutUint32(data[0x10:], uint32(len(data)))

	_, err := Decode(data)
	var trunc *TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("Expected TruncatedInputError, got %v", err)
	}
	if trunc.Section != "map offsets" {
		t.Errorf("Expected map offsets section, got %q", trunc.Section)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(mustArchive(t, scenarioTable(), mustMap(t, 2, 2, 0, 1, 1, 0)))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	mapOff := binary.LittleEndian.Uint32(valid[0x14:])

	patch := func(fn func([]byte)) []byte {
		d := slices.Clone(valid)
		fn(d)
		return d
	}

	tests := []struct {
		name string
		data []byte
		want any
	}{
		{"empty", nil, &TruncatedInputError{}},
		{"short header", valid[:HeaderFixedSize-1], &TruncatedInputError{}},
		{"bad magic", patch(func(d []byte) { d[0] = 'X' }), &FormatError{}},
		{"bad version", patch(func(d []byte) { binary.LittleEndian.PutUint32(d[0x04:], 9) }), &FormatError{}},
		{"table past end", patch(func(d []byte) { binary.LittleEndian.PutUint32(d[0x08:], 1000) }), &TruncatedInputError{}},
		{"bad record signature", patch(func(d []byte) { d[0x20] = 0x11 }), &FormatError{}},
		{"bad solidity byte", patch(func(d []byte) { d[0x28] = 7 }), &FormatError{}},
		{"map offset past end", patch(func(d []byte) { binary.LittleEndian.PutUint32(d[0x14:], uint32(len(d))) }), &TruncatedInputError{}},
		{"bad map signature", patch(func(d []byte) { d[mapOff] = 0 }), &FormatError{}},
		{"cell count mismatch", patch(func(d []byte) { binary.LittleEndian.PutUint32(d[mapOff+0xc:], 5) }), &FormatError{}},
		{"cells past end", patch(func(d []byte) {
			binary.LittleEndian.PutUint32(d[mapOff+0x4:], 100)
			binary.LittleEndian.PutUint32(d[mapOff+0xc:], 200)
		}), &TruncatedInputError{}},
		{"table shrunk under references", patch(func(d []byte) { binary.LittleEndian.PutUint32(d[0x08:], 1) }), &CorruptReferenceError{}},
		{"cell beyond table", patch(func(d []byte) { binary.LittleEndian.PutUint16(d[mapOff+MapHeaderSize:], 2) }), &CorruptReferenceError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode(tt.data)
			if a != nil {
				t.Errorf("Decode returned a partial archive")
			}
			switch tt.want.(type) {
			case *TruncatedInputError:
				var e *TruncatedInputError
				if !errors.As(err, &e) {
					t.Errorf("Expected TruncatedInputError, got %v", err)
				}
			case *FormatError:
				var e *FormatError
				if !errors.As(err, &e) {
					t.Errorf("Expected FormatError, got %v", err)
				}
			case *CorruptReferenceError:
				var e *CorruptReferenceError
				if !errors.As(err, &e) {
					t.Errorf("Expected CorruptReferenceError, got %v", err)
				}
			}
		})
	}
}

func TestCorruptReferenceCoordinates(t *testing.T) {
	data, _ := Encode(mustArchive(t, scenarioTable(), mustMap(t, 2, 2, 0, 0, 0, 1)))
	binary.LittleEndian.PutUint32(data[0x08:], 1)

	_, err := Decode(data)
	var ref *CorruptReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("Expected CorruptReferenceError, got %v", err)
	}
	if ref.Map != 0 || ref.X != 1 || ref.Y != 1 || ref.ID != 1 || ref.TableSize != 1 {
		t.Errorf("Unexpected error fields %+v", ref)
	}
}

func TestEncodeRejectsInvalidRecords(t *testing.T) {
	long := make([]byte, NameFieldSize+1)
	for i := range long {
		long[i] = 'a'
	}
	a := mustArchive(t, tile.NewTable(tile.Property{Name: string(long)}))

	_, err := Encode(a)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Expected FormatError for long name, got %v", err)
	}
}

func TestFileSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.marc")

	a := mustArchive(t, scenarioTable(), mustMap(t, 2, 2, 0, 1, 1, 0))
	if err := SaveFile(path, a); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if _, err := os.Stat(path + BackupSuffix); !os.IsNotExist(err) {
		t.Errorf("Backup created for a new file")
	}

	m, _ := a.Map(0)
	tilemap.RemoveTiles(m, tilemap.Is(1))
	if err := a.Replace(0, m); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := SaveFile(path, a); err != nil {
		t.Fatalf("Second SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !loaded.Equal(a) {
		t.Errorf("Loaded archive differs from saved")
	}

	prev, err := LoadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("Loading backup failed: %v", err)
	}
	pm, _ := prev.Map(0)
	if !slices.Equal(pm.Cells(), []tile.ID{0, 1, 1, 0}) {
		t.Errorf("Backup does not hold the previous version: %v", pm.Cells())
	}

	info, err := ReadInfoFile(path)
	if err != nil || len(info.Maps) != 1 {
		t.Errorf("ReadInfoFile: %+v, %v", info, err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.marc")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
