package archive

import "encoding/binary"

// Archive byte layout, all integers little-endian
//
// Header
//
//	0x00 u32 magic (MARC)
//	0x04 u32 format version
//	0x08 u32 property table entry count
//	0x0c u32 map count
//	0x10 u32 property table offset
//	0x14 u32[map count] map offsets
//
// Property record, PropertyRecordSize bytes each
//
//	0x00 u32 record signature
//	0x04 u32 frames
//	0x08 u8  solidity
//	0x09 u8  destructible
//	0x0a u8  collectible
//	0x0b u8  generator
//	0x0c u32 reserved
//	0x10 [64]byte name, NUL padded
//
// Map section
//
//	0x00 u32 map signature (MAPF)
//	0x04 u32 width
//	0x08 u32 height
//	0x0c u32 cell count (width*height)
//	0x10 u16[cell count] tile ids, row-major
//
// Table and map sections start on a SectionAlign boundary; gaps are zero
const (
	Magic           uint32 = 0x4352414d // "MARC"
	MapSignature    uint32 = 0x4650414d // "MAPF"
	RecordSignature uint32 = 0x00000010

	// Version is the only format version this package reads and writes
	Version uint32 = 1

	HeaderFixedSize    = 0x14
	MapOffsetSize      = 4
	PropertyRecordSize = 0x50
	MapHeaderSize      = 0x10
	CellSize           = 2
	NameFieldOffset    = 0x10
	NameFieldSize      = 0x40
	SectionAlign       = 0x10

	// MaxTableSize is bounded by the u16 cell width
	MaxTableSize = 1 << 16
)

var le = binary.LittleEndian

func align(n uint64) uint64 {
	if r := n % SectionAlign; r != 0 {
		return n + SectionAlign - r
	}
	return n
}

// headerSize returns the byte size of a header declaring mapCount maps
func headerSize(mapCount uint64) uint64 {
	return HeaderFixedSize + mapCount*MapOffsetSize
}

// mapSectionSize returns the unaligned byte size of a map section
func mapSectionSize(cells uint64) uint64 {
	return MapHeaderSize + cells*CellSize
}
