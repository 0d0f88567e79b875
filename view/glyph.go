// Package view draws tile maps on a tcell screen
package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marc/tile"
)

// Glyph is the terminal rendering of one tile type
type Glyph struct {
	Rune  rune
	Style tcell.Style
}

var (
	glyphEmpty     = Glyph{' ', tcell.StyleDefault}
	glyphSolid     = Glyph{'█', tcell.StyleDefault.Foreground(tcell.ColorGray)}
	glyphBreakable = Glyph{'▒', tcell.StyleDefault.Foreground(tcell.ColorSilver)}
	glyphSemiSolid = Glyph{'░', tcell.StyleDefault.Foreground(tcell.ColorGreen)}
	glyphCollect   = Glyph{'$', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)}
	glyphGenerator = Glyph{'&', tcell.StyleDefault.Foreground(tcell.ColorPurple)}
	glyphAir       = Glyph{'*', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)}
	glyphUnknown   = Glyph{'?', tcell.StyleDefault.Foreground(tcell.ColorRed)}
	glyphPlayer    = Glyph{'@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)}
)

// GlyphFor picks a glyph from gameplay flags first, then solidity
func GlyphFor(id tile.ID, p tile.Property) Glyph {
	if id == tile.Empty {
		return glyphEmpty
	}
	p = p.Resolve()
	switch {
	case p.IsCollectible():
		return glyphCollect
	case p.IsGenerator():
		return glyphGenerator
	case p.IsSolid() && p.IsDestructible():
		return glyphBreakable
	case p.IsSolid():
		return glyphSolid
	case p.Solidity == tile.SemiSolid:
		return glyphSemiSolid
	}
	return glyphAir
}

// Palette caches one glyph per table entry
type Palette struct {
	glyphs []Glyph
}

func NewPalette(t *tile.Table) *Palette {
	props := t.Properties()
	p := &Palette{glyphs: make([]Glyph, len(props))}
	for i, prop := range props {
		p.glyphs[i] = GlyphFor(tile.ID(i), prop)
	}
	return p
}

// Glyph returns the cached glyph; ids outside the table render as '?'
func (p *Palette) Glyph(id tile.ID) Glyph {
	if int(id) >= len(p.glyphs) {
		return glyphUnknown
	}
	return p.glyphs[id]
}
