package mapgen

import "github.com/lixenwraith/marc/tile"

// Tile ids of DefaultTable
const (
	Empty tile.ID = iota
	Ground
	Wall
	Grass
	Marble
	Flower
	Coin
	Spawner
)

// DefaultTable returns the sample tile set used by generated maps
func DefaultTable() *tile.Table {
	return tile.NewTable(
		tile.Property{Name: "", Solidity: tile.Air},
		tile.Property{Name: "images/ground.png", Frames: 1, Solidity: tile.Solid},
		tile.Property{Name: "images/wall.png", Frames: 1, Solidity: tile.Solid},
		tile.Property{Name: "images/grass.png", Frames: 1, Solidity: tile.SemiSolid},
		tile.Property{Name: "images/marble.png", Frames: 1, Solidity: tile.Solid, Destructible: tile.Destructible},
		tile.Property{Name: "images/flower.png", Frames: 1, Solidity: tile.Air},
		tile.Property{Name: "images/coin.png", Frames: 20, Solidity: tile.Air, Collectible: tile.Collectible},
		tile.Property{Name: "images/spawner.png", Frames: 4, Solidity: tile.SemiSolid, Generator: tile.Generator},
	)
}
