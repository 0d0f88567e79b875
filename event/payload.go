package event

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

// TilesChangedPayload carries every cell rewritten by one operation
type TilesChangedPayload struct {
	Session uuid.UUID
	Map     int
	Changes []tilemap.Change
}

// MapResizedPayload describes a completed resize
// Changes holds the non-empty cells a shrink cut off, New is always tile.Empty
type MapResizedPayload struct {
	Session   uuid.UUID
	Map       int
	OldWidth  int
	OldHeight int
	Width     int
	Height    int
	Changes   []tilemap.Change
}

// TilePayload identifies one cell and the property of the tile it held
type TilePayload struct {
	Session  uuid.UUID
	Map      int
	X, Y     int
	Tile     tile.ID
	Property tile.Property
}

// PlayerMovedPayload reports a player position in tile coordinates
// For EventPlayerBlocked it is the cell the player failed to enter
type PlayerMovedPayload struct {
	X, Y int
}

// ArchivePayload identifies a saved archive
type ArchivePayload struct {
	Path string
	Maps int
}
