package tilemap

import (
	"fmt"
	"math"

	"github.com/lixenwraith/marc/tile"
)

// InvalidDimensionError reports a negative or inconsistent size request
type InvalidDimensionError struct {
	Axis  string // "width", "height" or "cells"
	Value int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid map %s %d", e.Axis, e.Value)
}

// Map is a width x height grid of tile ids in row-major order
// Invariant: len(cells) == width*height
// Not safe for concurrent mutation
type Map struct {
	width  int
	height int
	cells  []tile.ID
}

// New allocates a map filled with tile.Empty
func New(width, height int) (*Map, error) {
	if width < 0 {
		return nil, &InvalidDimensionError{Axis: "width", Value: width}
	}
	if height < 0 {
		return nil, &InvalidDimensionError{Axis: "height", Value: height}
	}
	if !fits(width, height) {
		return nil, &InvalidDimensionError{Axis: "width", Value: width}
	}
	return &Map{
		width:  width,
		height: height,
		cells:  make([]tile.ID, width*height),
	}, nil
}

// MaxCells is the largest grid an archive map section can describe
const MaxCells = math.MaxUint32

// fits reports whether width*height stays within MaxCells and int
func fits(width, height int) bool {
	if width == 0 || height == 0 {
		return true
	}
	if width > math.MaxInt/height {
		return false
	}
	return uint64(width)*uint64(height) <= MaxCells
}

// FromCells builds a map over a copy of cells
func FromCells(width, height int, cells []tile.ID) (*Map, error) {
	m, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(cells) != width*height {
		return nil, &InvalidDimensionError{Axis: "cells", Value: len(cells)}
	}
	copy(m.cells, cells)
	return m, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }
func (m *Map) Len() int    { return len(m.cells) }

// Cells returns a copy of the grid
func (m *Map) Cells() []tile.ID {
	out := make([]tile.ID, len(m.cells))
	copy(out, m.cells)
	return out
}

// InBounds reports whether (x, y) addresses a cell
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// At returns the tile id at (x, y); ok is false outside the grid
func (m *Map) At(x, y int) (id tile.ID, ok bool) {
	if !m.InBounds(x, y) {
		return tile.Empty, false
	}
	return m.cells[y*m.width+x], true
}

// Set writes id at (x, y); returns false outside the grid
func (m *Map) Set(x, y int, id tile.ID) bool {
	if !m.InBounds(x, y) {
		return false
	}
	m.cells[y*m.width+x] = id
	return true
}

// Clone returns a detached copy
func (m *Map) Clone() *Map {
	return &Map{
		width:  m.width,
		height: m.height,
		cells:  m.Cells(),
	}
}

// Equal compares dimensions and cells
func (m *Map) Equal(other *Map) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Count returns the number of cells satisfying match
func (m *Map) Count(match Predicate) int {
	n := 0
	for _, id := range m.cells {
		if match(id) {
			n++
		}
	}
	return n
}

// Validate checks that every cell indexes into table
// Returns the first offending coordinate
func (m *Map) Validate(table *tile.Table) (x, y int, id tile.ID, ok bool) {
	size := table.Size()
	for i, c := range m.cells {
		if int(c) >= size {
			return i % m.width, i / m.width, c, false
		}
	}
	return 0, 0, 0, true
}

// Remap rewrites every cell through fn
func (m *Map) Remap(fn func(tile.ID) tile.ID) {
	for i, c := range m.cells {
		m.cells[i] = fn(c)
	}
}
