package archive

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/marc/tile"
)

// ErrMapIndex is returned for a map index outside the archive
var ErrMapIndex = errors.New("map index out of range")

// FormatError reports an unrecognized magic, version, signature or field value
type FormatError struct {
	Offset uint64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("archive format error at offset 0x%x: %s", e.Offset, e.Reason)
}

// TruncatedInputError reports a section extending past the end of the input
type TruncatedInputError struct {
	Section string
	Offset  uint64 // start of the section
	Need    uint64 // bytes required from Offset
	Have    int    // total input length
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("archive truncated: %s at 0x%x needs %d bytes, input has %d",
		e.Section, e.Offset, e.Need, e.Have)
}

// CorruptReferenceError reports a map cell that does not index the property table
type CorruptReferenceError struct {
	Map       int
	X, Y      int
	ID        tile.ID
	TableSize int
}

func (e *CorruptReferenceError) Error() string {
	return fmt.Sprintf("map %d cell (%d,%d) references tile %d, table has %d entries",
		e.Map, e.X, e.Y, e.ID, e.TableSize)
}
