package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marc/tilemap"
)

// Renderer draws a map viewport with a one-line status bar at the bottom
type Renderer struct {
	screen  tcell.Screen
	palette *Palette

	camX, camY int
}

func NewRenderer(screen tcell.Screen, palette *Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Camera returns the map coordinate drawn at the top-left cell
func (r *Renderer) Camera() (int, int) { return r.camX, r.camY }

// Draw renders m with the player at (px, py) and status on the last row
func (r *Renderer) Draw(m *tilemap.Map, px, py int, status string) {
	r.screen.Clear()
	sw, sh := r.screen.Size()
	viewH := sh - 1
	if sw <= 0 || viewH <= 0 {
		r.screen.Show()
		return
	}

	r.camX = follow(r.camX, px, sw, m.Width())
	r.camY = follow(r.camY, py, viewH, m.Height())

	for sy := 0; sy < viewH; sy++ {
		for sx := 0; sx < sw; sx++ {
			id, ok := m.At(r.camX+sx, r.camY+sy)
			if !ok {
				continue
			}
			g := r.palette.Glyph(id)
			r.screen.SetContent(sx, sy, g.Rune, nil, g.Style)
		}
	}

	if sx, sy := px-r.camX, py-r.camY; sx >= 0 && sx < sw && sy >= 0 && sy < viewH {
		r.screen.SetContent(sx, sy, glyphPlayer.Rune, nil, glyphPlayer.Style)
	}

	r.drawStatus(sh-1, sw, status)
	r.screen.Show()
}

func (r *Renderer) drawStatus(y, width int, text string) {
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, ch := range text {
		if x >= width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	for ; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// follow keeps pos inside a viewport of span cells over a world of size cells
// The camera moves only when pos leaves the current window
func follow(cam, pos, span, size int) int {
	if size <= span {
		return 0
	}
	if pos < cam {
		cam = pos
	} else if pos >= cam+span {
		cam = pos - span + 1
	}
	return min(max(cam, 0), size-span)
}
