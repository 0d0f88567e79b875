package tilemap

import "github.com/lixenwraith/marc/tile"

// Predicate selects cells by their tile id
type Predicate func(tile.ID) bool

// Is matches any of ids
func Is(ids ...tile.ID) Predicate {
	if len(ids) == 1 {
		want := ids[0]
		return func(id tile.ID) bool { return id == want }
	}
	set := make(map[tile.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id tile.ID) bool {
		_, ok := set[id]
		return ok
	}
}

// Not inverts p
func Not(p Predicate) Predicate {
	return func(id tile.ID) bool { return !p(id) }
}

// Any matches when at least one of ps matches
func Any(ps ...Predicate) Predicate {
	return func(id tile.ID) bool {
		for _, p := range ps {
			if p(id) {
				return true
			}
		}
		return false
	}
}

// All matches when every p matches
func All(ps ...Predicate) Predicate {
	return func(id tile.ID) bool {
		for _, p := range ps {
			if !p(id) {
				return false
			}
		}
		return true
	}
}

// ByProperty matches ids whose table entry satisfies match
// Ids outside the table never match
func ByProperty(table *tile.Table, match func(tile.Property) bool) Predicate {
	return Is(table.IDs(match)...)
}
