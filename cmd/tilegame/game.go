package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marc/archive"
	"github.com/lixenwraith/marc/core"
	"github.com/lixenwraith/marc/event"
	"github.com/lixenwraith/marc/status"
	"github.com/lixenwraith/marc/view"
	"github.com/lixenwraith/marc/world"
)

// game is the single-goroutine loop state
type game struct {
	screen   tcell.Screen
	session  *world.Session
	events   *event.Registry
	metrics  *status.Registry
	arch     *archive.Archive
	path     string
	renderer *view.Renderer

	px, py  int
	frame   int64
	message string
	quit    bool
}

func newGame(screen tcell.Screen, s *world.Session, events *event.Registry, metrics *status.Registry, arch *archive.Archive, path string) *game {
	g := &game{
		screen:   screen,
		session:  s,
		events:   events,
		metrics:  metrics,
		arch:     arch,
		path:     path,
		renderer: view.NewRenderer(screen, view.NewPalette(s.Table())),
	}
	g.px, g.py = g.spawnPoint()
	return g
}

// spawnPoint returns the first walkable cell in row-major order
func (g *game) spawnPoint() (int, int) {
	m := g.session.Map()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if g.session.Walkable(x, y) {
				return x, y
			}
		}
	}
	return 0, 0
}

// subscribe registers the log and status-line observers
func (g *game) subscribe() error {
	logged := []event.EventType{
		event.EventTilesChanged,
		event.EventTilesRemoved,
		event.EventMapResized,
		event.EventArchiveSaved,
	}
	for _, et := range logged {
		if _, err := g.events.RegisterFunc(et, logEvent); err != nil {
			return err
		}
	}

	_, err := g.events.RegisterFunc(event.EventGeneratorFired, func(_ context.Context, ev event.GameEvent) error {
		if p, ok := ev.Payload.(*event.TilePayload); ok {
			g.message = fmt.Sprintf("generator at %d,%d fired", p.X, p.Y)
		}
		return nil
	})
	return err
}

func logEvent(_ context.Context, ev event.GameEvent) error {
	switch p := ev.Payload.(type) {
	case *event.TilesChangedPayload:
		log.Printf("frame %d: %s, %d cell(s)", ev.Frame, ev.Type, len(p.Changes))
	case *event.MapResizedPayload:
		log.Printf("frame %d: %s %dx%d -> %dx%d", ev.Frame, ev.Type, p.OldWidth, p.OldHeight, p.Width, p.Height)
	case *event.ArchivePayload:
		log.Printf("frame %d: %s %s (%d maps)", ev.Frame, ev.Type, p.Path, p.Maps)
	default:
		log.Printf("frame %d: %s", ev.Frame, ev.Type)
	}
	return nil
}

func (g *game) run(tick time.Duration) {
	input := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	core.Go(func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-done:
				return
			}
		}
	})

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	g.draw()
	for !g.quit {
		select {
		case ev := <-input:
			g.handle(ev)
		case <-ticker.C:
			g.frame++
			g.events.SetFrame(g.frame)
			if _, err := g.events.DispatchPending(context.Background()); err != nil {
				log.Printf("pending dispatch: %v", err)
			}
		}
		g.draw()
	}
}

func (g *game) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			g.quit = true
		case tcell.KeyUp:
			g.move(0, -1)
		case tcell.KeyDown:
			g.move(0, 1)
		case tcell.KeyLeft:
			g.move(-1, 0)
		case tcell.KeyRight:
			g.move(1, 0)
		case tcell.KeyRune:
			g.handleRune(ev.Rune())
		}
	}
}

func (g *game) handleRune(r rune) {
	switch r {
	case 'q':
		g.quit = true
	case 'k':
		g.move(0, -1)
	case 'j':
		g.move(0, 1)
	case 'h':
		g.move(-1, 0)
	case 'l':
		g.move(1, 0)
	case 'w':
		g.save()
	}
}

// move steps onto walkable cells and interacts with the target either way
// Solid destructible tiles are broken in place
func (g *game) move(dx, dy int) {
	x, y := g.px+dx, g.py+dy
	if !g.session.Map().InBounds(x, y) {
		return
	}
	walked := g.session.Walkable(x, y)
	if walked {
		g.px, g.py = x, y
		g.events.Post(g.events.NewEvent(event.EventPlayerMoved, &event.PlayerMovedPayload{X: x, Y: y}))
	}

	outcome, err := g.session.Interact(context.Background(), x, y)
	if err != nil {
		g.report("interact", err)
		return
	}
	switch {
	case outcome != world.OutcomeNone:
		g.message = outcome.String()
	case !walked:
		g.events.Post(g.events.NewEvent(event.EventPlayerBlocked, &event.PlayerMovedPayload{X: x, Y: y}))
	}
}

func (g *game) save() {
	if err := g.session.Commit(); err != nil {
		g.report("commit", err)
		return
	}
	if err := archive.SaveFile(g.path, g.arch); err != nil {
		g.report("save", err)
		return
	}
	g.message = "saved " + g.path
	g.events.Post(g.events.NewEvent(event.EventArchiveSaved, &event.ArchivePayload{Path: g.path, Maps: g.arch.MapCount()}))
}

// report logs err; partial dispatch failures are not shown to the player
func (g *game) report(op string, err error) {
	log.Printf("%s: %v", op, err)
	var pde *event.PartialDispatchError
	if !errors.As(err, &pde) {
		g.message = op + " failed: " + err.Error()
	}
}

func (g *game) draw() {
	collected := g.metrics.Counter(status.TilesCollected).Load()
	line := fmt.Sprintf(" coins %d | %d,%d | %s", collected, g.px, g.py, g.message)
	g.renderer.Draw(g.session.Map(), g.px, g.py, line)
}
