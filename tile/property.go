package tile

import (
	"fmt"
	"strconv"
	"strings"
)

// ID indexes a tile type in a property table
type ID uint16

// Empty is the tile type used for padding and removal
const Empty ID = 0

// MaxNameLen is the longest resource name a tile record can hold
const MaxNameLen = 64

// Solidity is the collision class of a tile
type Solidity uint8

const (
	SolidityUnspecified Solidity = iota
	Solid
	SemiSolid
	Air
)

// Collectibility marks tiles the player can pick up
type Collectibility uint8

const (
	CollectibleUnspecified Collectibility = iota
	Collectible
	NotCollectible
)

// Destructibility marks tiles that can be destroyed
type Destructibility uint8

const (
	DestructibleUnspecified Destructibility = iota
	Destructible
	NotDestructible
)

// GeneratorKind marks tiles that trigger an action when touched
type GeneratorKind uint8

const (
	GeneratorUnspecified GeneratorKind = iota
	Generator
	NotGenerator
)

// Property is the fixed property tuple of one tile type
// Zero value of each axis means unspecified; call Resolve before gameplay use
type Property struct {
	Name         string
	Frames       uint32
	Solidity     Solidity
	Collectible  Collectibility
	Destructible Destructibility
	Generator    GeneratorKind
}

// Resolve replaces unspecified axes with gameplay defaults
// Defaults: air, not collectible, not destructible, not a generator
func (p Property) Resolve() Property {
	if p.Solidity == SolidityUnspecified {
		p.Solidity = Air
	}
	if p.Collectible == CollectibleUnspecified {
		p.Collectible = NotCollectible
	}
	if p.Destructible == DestructibleUnspecified {
		p.Destructible = NotDestructible
	}
	if p.Generator == GeneratorUnspecified {
		p.Generator = NotGenerator
	}
	return p
}

// Resolved reports whether no axis is left unspecified
func (p Property) Resolved() bool {
	return p.Solidity != SolidityUnspecified &&
		p.Collectible != CollectibleUnspecified &&
		p.Destructible != DestructibleUnspecified &&
		p.Generator != GeneratorUnspecified
}

func (p Property) IsCollectible() bool  { return p.Collectible == Collectible }
func (p Property) IsDestructible() bool { return p.Destructible == Destructible }
func (p Property) IsGenerator() bool    { return p.Generator == Generator }
func (p Property) IsSolid() bool        { return p.Solidity == Solid }

// --- Spelling ---

var solidityNames = [...]string{"", "solid", "semi_solid", "air"}
var collectibleNames = [...]string{"", "collectible", "not_collectible"}
var destructibleNames = [...]string{"", "destructible", "not_destructible"}
var generatorNames = [...]string{"", "generator", "not_generator"}

func (s Solidity) String() string        { return enumName(solidityNames[:], uint8(s)) }
func (c Collectibility) String() string  { return enumName(collectibleNames[:], uint8(c)) }
func (d Destructibility) String() string { return enumName(destructibleNames[:], uint8(d)) }
func (g GeneratorKind) String() string   { return enumName(generatorNames[:], uint8(g)) }

// Valid reports whether the value is one of the declared variants
func (s Solidity) Valid() bool        { return int(s) < len(solidityNames) }
func (c Collectibility) Valid() bool  { return int(c) < len(collectibleNames) }
func (d Destructibility) Valid() bool { return int(d) < len(destructibleNames) }
func (g GeneratorKind) Valid() bool   { return int(g) < len(generatorNames) }

func enumName(names []string, v uint8) string {
	if int(v) >= len(names) {
		return "invalid(" + strconv.Itoa(int(v)) + ")"
	}
	if v == 0 {
		return "unspecified"
	}
	return names[v]
}

func parseEnum(axis string, names []string, s string) (uint8, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if s == "" || s == "unspecified" || s == "null" {
		return 0, nil
	}
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s value %q", axis, s)
}

// ParseSolidity accepts solid, semi_solid, air or empty for unspecified
func ParseSolidity(s string) (Solidity, error) {
	v, err := parseEnum("solidity", solidityNames[:], s)
	return Solidity(v), err
}

// ParseCollectible accepts collectible, not_collectible or empty
func ParseCollectible(s string) (Collectibility, error) {
	v, err := parseEnum("collectible", collectibleNames[:], s)
	return Collectibility(v), err
}

// ParseDestructible accepts destructible, not_destructible or empty
func ParseDestructible(s string) (Destructibility, error) {
	v, err := parseEnum("destructible", destructibleNames[:], s)
	return Destructibility(v), err
}

// ParseGenerator accepts generator, not_generator or empty
func ParseGenerator(s string) (GeneratorKind, error) {
	v, err := parseEnum("generator", generatorNames[:], s)
	return GeneratorKind(v), err
}

// ParseProperty reads the comma separated key=value form used by the utility
// Keys: path, frames, solidity, collectible, destructible, generator
//
//	path=images/coin.png,frames=20,solidity=air,collectible=collectible
func ParseProperty(s string) (Property, error) {
	var p Property
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return p, fmt.Errorf("tile property %q: missing '='", field)
		}
		var err error
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "path", "name":
			p.Name = strings.TrimSpace(val)
		case "frames":
			var n uint64
			n, err = strconv.ParseUint(strings.TrimSpace(val), 10, 32)
			p.Frames = uint32(n)
		case "solidity":
			p.Solidity, err = ParseSolidity(val)
		case "collectible":
			p.Collectible, err = ParseCollectible(val)
		case "destructible":
			p.Destructible, err = ParseDestructible(val)
		case "generator":
			p.Generator, err = ParseGenerator(val)
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return p, fmt.Errorf("tile property %q: %w", field, err)
		}
	}
	if len(p.Name) > MaxNameLen {
		return p, fmt.Errorf("tile property: name longer than %d bytes", MaxNameLen)
	}
	return p, nil
}

// String renders the property in ParseProperty form, omitting unspecified axes
func (p Property) String() string {
	var b strings.Builder
	b.WriteString("path=")
	b.WriteString(p.Name)
	b.WriteString(",frames=")
	b.WriteString(strconv.FormatUint(uint64(p.Frames), 10))
	if p.Solidity != SolidityUnspecified {
		b.WriteString(",solidity=" + p.Solidity.String())
	}
	if p.Collectible != CollectibleUnspecified {
		b.WriteString(",collectible=" + p.Collectible.String())
	}
	if p.Destructible != DestructibleUnspecified {
		b.WriteString(",destructible=" + p.Destructible.String())
	}
	if p.Generator != GeneratorUnspecified {
		b.WriteString(",generator=" + p.Generator.String())
	}
	return b.String()
}
