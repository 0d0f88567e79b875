package tilemap

import "github.com/lixenwraith/marc/tile"

// Change records one rewritten cell
type Change struct {
	X, Y int
	Old  tile.ID
	New  tile.ID
}

// ResizeWidth changes the column count
// Growing pads each row on the right with tile.Empty; shrinking drops trailing columns
func ResizeWidth(m *Map, width int) error {
	if width < 0 {
		return &InvalidDimensionError{Axis: "width", Value: width}
	}
	if width == m.width {
		return nil
	}
	if !fits(width, m.height) {
		return &InvalidDimensionError{Axis: "width", Value: width}
	}

	cells := make([]tile.ID, width*m.height)
	keep := min(width, m.width)
	for y := 0; y < m.height; y++ {
		copy(cells[y*width:y*width+keep], m.cells[y*m.width:y*m.width+keep])
	}

	m.width = width
	m.cells = cells
	return nil
}

// ResizeHeight changes the row count
// Growing appends rows of tile.Empty; shrinking drops trailing rows
func ResizeHeight(m *Map, height int) error {
	if height < 0 {
		return &InvalidDimensionError{Axis: "height", Value: height}
	}
	if height == m.height {
		return nil
	}
	if !fits(m.width, height) {
		return &InvalidDimensionError{Axis: "height", Value: height}
	}

	cells := make([]tile.ID, m.width*height)
	copy(cells, m.cells)

	m.height = height
	m.cells = cells
	return nil
}

// Truncated lists the non-empty cells a resize to width x height would drop
// Each change reports the lost tile as Old with New set to tile.Empty
func Truncated(m *Map, width, height int) []Change {
	var changes []Change
	for i, id := range m.cells {
		if id == tile.Empty {
			continue
		}
		x, y := i%m.width, i/m.width
		if x < width && y < height {
			continue
		}
		changes = append(changes, Change{X: x, Y: y, Old: id, New: tile.Empty})
	}
	return changes
}

// Replace rewrites every cell matching match to repl in row-major order
// Cells already equal to repl are not reported
func Replace(m *Map, match Predicate, repl tile.ID) []Change {
	var changes []Change
	for i, id := range m.cells {
		if id == repl || !match(id) {
			continue
		}
		m.cells[i] = repl
		changes = append(changes, Change{X: i % m.width, Y: i / m.width, Old: id, New: repl})
	}
	return changes
}

// ReplaceTiles is Replace returning only the number of changed cells
func ReplaceTiles(m *Map, match Predicate, repl tile.ID) int {
	return len(Replace(m, match, repl))
}

// Remove replaces matching cells with tile.Empty
func Remove(m *Map, match Predicate) []Change {
	return Replace(m, match, tile.Empty)
}

// RemoveTiles is Remove returning only the number of changed cells
func RemoveTiles(m *Map, match Predicate) int {
	return len(Remove(m, match))
}
