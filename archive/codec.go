package archive

import (
	"bytes"
	"fmt"
	"math"

	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

// Header is the decoded fixed-layout archive header
type Header struct {
	Version     uint32
	TileCount   uint32
	TableOffset uint32
	MapOffsets  []uint32
}

// MapInfo is the decoded header of one map section
type MapInfo struct {
	Offset uint32
	Width  uint32
	Height uint32
}

// Info summarizes an archive without decoding tables or grids
type Info struct {
	Header
	Maps []MapInfo
}

// Decode parses a complete archive
// No partial archive is returned on error
func Decode(data []byte) (*Archive, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	table, err := decodeTable(data, h)
	if err != nil {
		return nil, err
	}

	a := &Archive{version: h.Version, table: table, maps: make([]*tilemap.Map, 0, len(h.MapOffsets))}
	for i, off := range h.MapOffsets {
		info, err := decodeMapHeader(data, off)
		if err != nil {
			return nil, err
		}
		m, err := decodeCells(data, info)
		if err != nil {
			return nil, err
		}
		if x, y, id, ok := m.Validate(table); !ok {
			return nil, &CorruptReferenceError{Map: i, X: x, Y: y, ID: id, TableSize: table.Size()}
		}
		a.maps = append(a.maps, m)
	}
	return a, nil
}

// ReadInfo decodes the archive header and every map header
func ReadInfo(data []byte) (Info, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return Info{}, err
	}
	info := Info{Header: h, Maps: make([]MapInfo, 0, len(h.MapOffsets))}
	for _, off := range h.MapOffsets {
		mi, err := decodeMapHeader(data, off)
		if err != nil {
			return Info{}, err
		}
		info.Maps = append(info.Maps, mi)
	}
	return info, nil
}

// Encode serializes a in canonical layout
// Counts and offsets are recomputed from a; output is deterministic
func Encode(a *Archive) ([]byte, error) {
	table := a.Table()
	if table.Size() > MaxTableSize {
		return nil, &FormatError{Offset: 0, Reason: fmt.Sprintf("table has %d entries, limit %d", table.Size(), MaxTableSize)}
	}

	// Layout pass
	mapCount := uint64(len(a.maps))
	tableOffset := align(headerSize(mapCount))
	cursor := tableOffset + uint64(table.Size())*PropertyRecordSize
	offsets := make([]uint64, mapCount)
	for i, m := range a.maps {
		if x, y, id, ok := m.Validate(table); !ok {
			return nil, &CorruptReferenceError{Map: i, X: x, Y: y, ID: id, TableSize: table.Size()}
		}
		if uint64(m.Width()) > math.MaxUint32 || uint64(m.Height()) > math.MaxUint32 || uint64(m.Len()) > math.MaxUint32 {
			return nil, &FormatError{Offset: cursor, Reason: fmt.Sprintf("map %d dimensions %dx%d exceed u32", i, m.Width(), m.Height())}
		}
		cursor = align(cursor)
		offsets[i] = cursor
		cursor += mapSectionSize(uint64(m.Len()))
	}
	total := align(cursor)
	if total > math.MaxUint32 {
		return nil, &FormatError{Offset: 0, Reason: fmt.Sprintf("archive size %d exceeds u32 offsets", total)}
	}

	buf := make([]byte, total)

	// Header
	le.PutUint32(buf[0x00:], Magic)
	le.PutUint32(buf[0x04:], a.version)
	le.PutUint32(buf[0x08:], uint32(table.Size()))
	le.PutUint32(buf[0x0c:], uint32(mapCount))
	le.PutUint32(buf[0x10:], uint32(tableOffset))
	for i, off := range offsets {
		le.PutUint32(buf[HeaderFixedSize+i*MapOffsetSize:], uint32(off))
	}

	// Property table
	for i, p := range table.Properties() {
		off := tableOffset + uint64(i)*PropertyRecordSize
		if err := encodeRecord(buf[off:off+PropertyRecordSize], p); err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("tile %d: %v", i, err)}
		}
	}

	// Maps
	for i, m := range a.maps {
		off := offsets[i]
		le.PutUint32(buf[off:], MapSignature)
		le.PutUint32(buf[off+0x4:], uint32(m.Width()))
		le.PutUint32(buf[off+0x8:], uint32(m.Height()))
		le.PutUint32(buf[off+0xc:], uint32(m.Len()))
		cell := off + MapHeaderSize
		for _, id := range m.Cells() {
			le.PutUint16(buf[cell:], uint16(id))
			cell += CellSize
		}
	}

	return buf, nil
}

// --- Decoding helpers ---

func decodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderFixedSize {
		return h, &TruncatedInputError{Section: "header", Offset: 0, Need: HeaderFixedSize, Have: len(data)}
	}
	if magic := le.Uint32(data[0x00:]); magic != Magic {
		return h, &FormatError{Offset: 0x00, Reason: fmt.Sprintf("magic 0x%08x, want 0x%08x", magic, Magic)}
	}
	h.Version = le.Uint32(data[0x04:])
	if h.Version != Version {
		return h, &FormatError{Offset: 0x04, Reason: fmt.Sprintf("unsupported version %d", h.Version)}
	}
	h.TileCount = le.Uint32(data[0x08:])
	mapCount := le.Uint32(data[0x0c:])
	h.TableOffset = le.Uint32(data[0x10:])

	if need := headerSize(uint64(mapCount)); need > uint64(len(data)) {
		return h, &TruncatedInputError{Section: "map offsets", Offset: 0, Need: need, Have: len(data)}
	}
	h.MapOffsets = make([]uint32, mapCount)
	for i := range h.MapOffsets {
		h.MapOffsets[i] = le.Uint32(data[HeaderFixedSize+i*MapOffsetSize:])
	}
	return h, nil
}

func decodeTable(data []byte, h Header) (*tile.Table, error) {
	if h.TileCount > MaxTableSize {
		return nil, &FormatError{Offset: 0x08, Reason: fmt.Sprintf("table has %d entries, limit %d", h.TileCount, MaxTableSize)}
	}
	start := uint64(h.TableOffset)
	need := uint64(h.TileCount) * PropertyRecordSize
	if start+need > uint64(len(data)) {
		return nil, &TruncatedInputError{Section: "property table", Offset: start, Need: need, Have: len(data)}
	}

	props := make([]tile.Property, h.TileCount)
	for i := range props {
		off := start + uint64(i)*PropertyRecordSize
		p, err := decodeRecord(data[off : off+PropertyRecordSize])
		if err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("tile %d: %v", i, err)}
		}
		props[i] = p
	}
	return tile.NewTable(props...), nil
}

func decodeMapHeader(data []byte, offset uint32) (MapInfo, error) {
	off := uint64(offset)
	if off+MapHeaderSize > uint64(len(data)) {
		return MapInfo{}, &TruncatedInputError{Section: "map header", Offset: off, Need: MapHeaderSize, Have: len(data)}
	}
	if sig := le.Uint32(data[off:]); sig != MapSignature {
		return MapInfo{}, &FormatError{Offset: off, Reason: fmt.Sprintf("map signature 0x%08x, want 0x%08x", sig, MapSignature)}
	}
	mi := MapInfo{
		Offset: offset,
		Width:  le.Uint32(data[off+0x4:]),
		Height: le.Uint32(data[off+0x8:]),
	}
	if count := le.Uint32(data[off+0xc:]); uint64(count) != uint64(mi.Width)*uint64(mi.Height) {
		return MapInfo{}, &FormatError{Offset: off + 0xc, Reason: fmt.Sprintf("cell count %d != %dx%d", count, mi.Width, mi.Height)}
	}
	return mi, nil
}

func decodeCells(data []byte, mi MapInfo) (*tilemap.Map, error) {
	cells := uint64(mi.Width) * uint64(mi.Height)
	start := uint64(mi.Offset) + MapHeaderSize
	need := cells * CellSize
	if start+need > uint64(len(data)) {
		return nil, &TruncatedInputError{Section: "map cells", Offset: start, Need: need, Have: len(data)}
	}

	grid := make([]tile.ID, cells)
	for i := range grid {
		grid[i] = tile.ID(le.Uint16(data[start+uint64(i)*CellSize:]))
	}
	return tilemap.FromCells(int(mi.Width), int(mi.Height), grid)
}

func decodeRecord(rec []byte) (tile.Property, error) {
	var p tile.Property
	if sig := le.Uint32(rec[0x00:]); sig != RecordSignature {
		return p, fmt.Errorf("record signature 0x%08x, want 0x%08x", sig, RecordSignature)
	}
	p.Frames = le.Uint32(rec[0x04:])
	p.Solidity = tile.Solidity(rec[0x08])
	p.Destructible = tile.Destructibility(rec[0x09])
	p.Collectible = tile.Collectibility(rec[0x0a])
	p.Generator = tile.GeneratorKind(rec[0x0b])
	if !p.Solidity.Valid() || !p.Destructible.Valid() || !p.Collectible.Valid() || !p.Generator.Valid() {
		return p, fmt.Errorf("invalid property values %v", rec[0x08:0x0c])
	}

	name := rec[NameFieldOffset : NameFieldOffset+NameFieldSize]
	if n := bytes.IndexByte(name, 0); n >= 0 {
		name = name[:n]
	}
	p.Name = string(name)
	return p, nil
}

func encodeRecord(rec []byte, p tile.Property) error {
	if len(p.Name) > NameFieldSize {
		return fmt.Errorf("name %q longer than %d bytes", p.Name, NameFieldSize)
	}
	if bytes.IndexByte([]byte(p.Name), 0) >= 0 {
		return fmt.Errorf("name %q contains NUL", p.Name)
	}
	if !p.Solidity.Valid() || !p.Destructible.Valid() || !p.Collectible.Valid() || !p.Generator.Valid() {
		return fmt.Errorf("invalid property values %+v", p)
	}
	le.PutUint32(rec[0x00:], RecordSignature)
	le.PutUint32(rec[0x04:], p.Frames)
	rec[0x08] = uint8(p.Solidity)
	rec[0x09] = uint8(p.Destructible)
	rec[0x0a] = uint8(p.Collectible)
	rec[0x0b] = uint8(p.Generator)
	copy(rec[NameFieldOffset:NameFieldOffset+NameFieldSize], p.Name)
	return nil
}
