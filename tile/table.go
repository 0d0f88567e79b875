package tile

import "fmt"

// OutOfRangeError reports a lookup beyond the end of a table
type OutOfRangeError struct {
	ID   ID
	Size int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("tile id %d out of range (table size %d)", e.ID, e.Size)
}

// Table is the ordered property table of an archive, indexed by ID
// Immutable after construction; editing requires building a new table
type Table struct {
	props []Property
}

// NewTable copies props into a new table
func NewTable(props ...Property) *Table {
	t := &Table{props: make([]Property, len(props))}
	copy(t.props, props)
	return t
}

// Lookup returns the property tuple for id
func (t *Table) Lookup(id ID) (Property, error) {
	if t == nil || int(id) >= len(t.props) {
		return Property{}, &OutOfRangeError{ID: id, Size: t.Size()}
	}
	return t.props[id], nil
}

// Size returns the number of tile types
func (t *Table) Size() int {
	if t == nil {
		return 0
	}
	return len(t.props)
}

// Contains reports whether id is a valid index
func (t *Table) Contains(id ID) bool {
	return int(id) < t.Size()
}

// Properties returns a copy of all entries in id order
func (t *Table) Properties() []Property {
	out := make([]Property, t.Size())
	if t != nil {
		copy(out, t.props)
	}
	return out
}

// Equal reports whether both tables hold the same entries in the same order
func (t *Table) Equal(other *Table) bool {
	if t.Size() != other.Size() {
		return false
	}
	for i := 0; i < t.Size(); i++ {
		if t.props[i] != other.props[i] {
			return false
		}
	}
	return true
}

// IDs returns every id whose property satisfies match
func (t *Table) IDs(match func(Property) bool) []ID {
	var ids []ID
	for i := 0; i < t.Size(); i++ {
		if match(t.props[i]) {
			ids = append(ids, ID(i))
		}
	}
	return ids
}
