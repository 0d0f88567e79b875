package tile

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// ManifestDTO is the TOML form of a property table
type ManifestDTO struct {
	Tiles []TileDTO `toml:"tile"`
}

// TileDTO is one [[tile]] entry; unspecified axes are omitted
type TileDTO struct {
	Name         string `toml:"name"`
	Frames       uint32 `toml:"frames"`
	Solidity     string `toml:"solidity,omitempty"`
	Collectible  string `toml:"collectible,omitempty"`
	Destructible string `toml:"destructible,omitempty"`
	Generator    string `toml:"generator,omitempty"`
}

// LoadManifest decodes a TOML tile manifest into a table
func LoadManifest(r io.Reader) (*Table, error) {
	var dto ManifestDTO
	md, err := toml.NewDecoder(r).Decode(&dto)
	if err != nil {
		return nil, fmt.Errorf("tile manifest: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("tile manifest: unknown key %q", undec[0].String())
	}

	props := make([]Property, 0, len(dto.Tiles))
	for i, d := range dto.Tiles {
		p, err := d.property()
		if err != nil {
			return nil, fmt.Errorf("tile manifest entry %d: %w", i, err)
		}
		props = append(props, p)
	}
	return NewTable(props...), nil
}

// WriteManifest encodes t as a TOML tile manifest
func WriteManifest(w io.Writer, t *Table) error {
	dto := ManifestDTO{Tiles: make([]TileDTO, 0, t.Size())}
	for _, p := range t.Properties() {
		dto.Tiles = append(dto.Tiles, TileDTO{
			Name:         p.Name,
			Frames:       p.Frames,
			Solidity:     axisText(p.Solidity != SolidityUnspecified, p.Solidity.String()),
			Collectible:  axisText(p.Collectible != CollectibleUnspecified, p.Collectible.String()),
			Destructible: axisText(p.Destructible != DestructibleUnspecified, p.Destructible.String()),
			Generator:    axisText(p.Generator != GeneratorUnspecified, p.Generator.String()),
		})
	}
	return toml.NewEncoder(w).Encode(dto)
}

func axisText(set bool, s string) string {
	if !set {
		return ""
	}
	return s
}

func (d TileDTO) property() (Property, error) {
	p := Property{Name: d.Name, Frames: d.Frames}
	if len(p.Name) > MaxNameLen {
		return p, fmt.Errorf("name longer than %d bytes", MaxNameLen)
	}
	var err error
	if p.Solidity, err = ParseSolidity(d.Solidity); err != nil {
		return p, err
	}
	if p.Collectible, err = ParseCollectible(d.Collectible); err != nil {
		return p, err
	}
	if p.Destructible, err = ParseDestructible(d.Destructible); err != nil {
		return p, err
	}
	if p.Generator, err = ParseGenerator(d.Generator); err != nil {
		return p, err
	}
	return p, nil
}
