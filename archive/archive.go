package archive

import (
	"fmt"

	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

// Archive holds one property table shared by an ordered list of maps
// Maps handed out by Map are detached clones; write back with Replace
type Archive struct {
	version uint32
	table   *tile.Table
	maps    []*tilemap.Map
}

// New assembles an archive in memory, validating every map against table
func New(table *tile.Table, maps ...*tilemap.Map) (*Archive, error) {
	if table == nil {
		table = tile.NewTable()
	}
	a := &Archive{version: Version, table: table}
	for _, m := range maps {
		if _, err := a.Append(m); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Archive) Version() uint32    { return a.version }
func (a *Archive) Table() *tile.Table { return a.table }
func (a *Archive) MapCount() int      { return len(a.maps) }

// Map returns a detached copy of map i
func (a *Archive) Map(i int) (*tilemap.Map, error) {
	if i < 0 || i >= len(a.maps) {
		return nil, fmt.Errorf("map %d of %d: %w", i, len(a.maps), ErrMapIndex)
	}
	return a.maps[i].Clone(), nil
}

// Append stores a copy of m and returns its index
func (a *Archive) Append(m *tilemap.Map) (int, error) {
	if err := a.check(len(a.maps), m); err != nil {
		return 0, err
	}
	a.maps = append(a.maps, m.Clone())
	return len(a.maps) - 1, nil
}

// Replace overwrites map i with a copy of m
func (a *Archive) Replace(i int, m *tilemap.Map) error {
	if i < 0 || i >= len(a.maps) {
		return fmt.Errorf("map %d of %d: %w", i, len(a.maps), ErrMapIndex)
	}
	if err := a.check(i, m); err != nil {
		return err
	}
	a.maps[i] = m.Clone()
	return nil
}

// SetTable swaps the property table
// Refused when any map references an id the new table does not contain
func (a *Archive) SetTable(t *tile.Table) error {
	for i, m := range a.maps {
		if x, y, id, ok := m.Validate(t); !ok {
			return &CorruptReferenceError{Map: i, X: x, Y: y, ID: id, TableSize: t.Size()}
		}
	}
	a.table = t
	return nil
}

// Prune drops tile types no map references and renumbers cells to match
// tile.Empty is always kept. Returns the number of removed table entries
func (a *Archive) Prune() int {
	size := a.table.Size()
	if size == 0 {
		return 0
	}

	used := make([]bool, size)
	used[tile.Empty] = true
	for _, m := range a.maps {
		for _, id := range m.Cells() {
			used[id] = true
		}
	}

	props := a.table.Properties()
	remap := make([]tile.ID, size)
	kept := make([]tile.Property, 0, size)
	for id, u := range used {
		if u {
			remap[id] = tile.ID(len(kept))
			kept = append(kept, props[id])
		}
	}

	removed := size - len(kept)
	if removed == 0 {
		return 0
	}

	for _, m := range a.maps {
		m.Remap(func(id tile.ID) tile.ID { return remap[id] })
	}
	a.table = tile.NewTable(kept...)
	return removed
}

// Equal compares table and maps
func (a *Archive) Equal(b *Archive) bool {
	if a.version != b.version || !a.table.Equal(b.table) || len(a.maps) != len(b.maps) {
		return false
	}
	for i := range a.maps {
		if !a.maps[i].Equal(b.maps[i]) {
			return false
		}
	}
	return true
}

func (a *Archive) check(index int, m *tilemap.Map) error {
	if x, y, id, ok := m.Validate(a.table); !ok {
		return &CorruptReferenceError{Map: index, X: x, Y: y, ID: id, TableSize: a.table.Size()}
	}
	return nil
}
