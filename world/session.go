// Package world binds one archive map to the event registry for live play
package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/marc/archive"
	"github.com/lixenwraith/marc/event"
	"github.com/lixenwraith/marc/status"
	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

// ErrOutOfBounds is returned by Interact for coordinates outside the map
var ErrOutOfBounds = errors.New("coordinates outside map")

// Outcome is the effect of one Interact call
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCollected
	OutcomeDestroyed
	OutcomeTriggered
)

var outcomeNames = [...]string{"none", "collected", "destroyed", "triggered"}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Session owns a detached working copy of one archive map
// Mutations apply to the copy and are announced through the registry; Commit
// writes the copy back. Not safe for concurrent use: drive it from the game loop
type Session struct {
	id     uuid.UUID
	arch   *archive.Archive
	index  int
	table  *tile.Table
	m      *tilemap.Map
	events *event.Registry

	generatorDelay time.Duration
	firedSub       event.Subscription

	statChanged    *atomic.Int64
	statRemoved    *atomic.Int64
	statCollected  *atomic.Int64
	statDestroyed  *atomic.Int64
	statGenerators *atomic.Int64
	statResizes    *atomic.Int64
}

// New opens map mapIndex of arch; events must already be initialized
func New(arch *archive.Archive, mapIndex int, events *event.Registry, st *status.Registry) (*Session, error) {
	m, err := arch.Map(mapIndex)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = status.NewRegistry()
	}

	s := &Session{
		id:             uuid.New(),
		arch:           arch,
		index:          mapIndex,
		table:          arch.Table(),
		m:              m,
		events:         events,
		statChanged:    st.Counter(status.TilesChanged),
		statRemoved:    st.Counter(status.TilesRemoved),
		statCollected:  st.Counter(status.TilesCollected),
		statDestroyed:  st.Counter(status.TilesDestroyed),
		statGenerators: st.Counter(status.GeneratorsFired),
		statResizes:    st.Counter(status.MapResizes),
	}

	s.firedSub, err = events.RegisterFunc(event.EventGeneratorFired, s.onGeneratorFired)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	return s, nil
}

// Close detaches the session from the registry; uncommitted changes are kept in memory
func (s *Session) Close() error {
	return s.events.Unregister(s.firedSub)
}

func (s *Session) ID() uuid.UUID      { return s.id }
func (s *Session) Index() int         { return s.index }
func (s *Session) Table() *tile.Table { return s.table }

// Map returns the working copy; callers must not mutate it
func (s *Session) Map() *tilemap.Map { return s.m }

// SetGeneratorDelay sets how long after a trigger EventGeneratorFired is posted
func (s *Session) SetGeneratorDelay(d time.Duration) { s.generatorDelay = d }

// Commit writes the working copy back into the archive
func (s *Session) Commit() error {
	return s.arch.Replace(s.index, s.m)
}

// Property resolves the tile at (x, y)
func (s *Session) Property(x, y int) (tile.ID, tile.Property, error) {
	id, ok := s.m.At(x, y)
	if !ok {
		return tile.Empty, tile.Property{}, fmt.Errorf("(%d,%d): %w", x, y, ErrOutOfBounds)
	}
	prop, err := s.table.Lookup(id)
	if err != nil {
		return id, tile.Property{}, err
	}
	return id, prop.Resolve(), nil
}

// Walkable reports whether a player may stand on (x, y)
func (s *Session) Walkable(x, y int) bool {
	_, prop, err := s.Property(x, y)
	return err == nil && !prop.IsSolid()
}

// ReplaceTiles rewrites matching cells to repl and dispatches one EventTilesChanged
// The mutation stands even when dispatch returns a *event.PartialDispatchError
func (s *Session) ReplaceTiles(ctx context.Context, match tilemap.Predicate, repl tile.ID) (int, error) {
	if !s.table.Contains(repl) {
		return 0, &tile.OutOfRangeError{ID: repl, Size: s.table.Size()}
	}
	changes := tilemap.Replace(s.m, match, repl)
	if len(changes) == 0 {
		return 0, nil
	}
	s.statChanged.Add(int64(len(changes)))
	return len(changes), s.events.Dispatch(ctx, event.EventTilesChanged, &event.TilesChangedPayload{
		Session: s.id,
		Map:     s.index,
		Changes: changes,
	})
}

// RemoveTiles empties matching cells and dispatches one EventTilesRemoved
func (s *Session) RemoveTiles(ctx context.Context, match tilemap.Predicate) (int, error) {
	changes := tilemap.Remove(s.m, match)
	if len(changes) == 0 {
		return 0, nil
	}
	s.statRemoved.Add(int64(len(changes)))
	return len(changes), s.events.Dispatch(ctx, event.EventTilesRemoved, &event.TilesChangedPayload{
		Session: s.id,
		Map:     s.index,
		Changes: changes,
	})
}

// ResizeWidth resizes the working copy and dispatches EventMapResized
// Non-empty cells cut off by a shrink are listed in the payload
func (s *Session) ResizeWidth(ctx context.Context, width int) error {
	return s.resize(ctx, width, s.m.Height(), func() error { return tilemap.ResizeWidth(s.m, width) })
}

// ResizeHeight resizes the working copy and dispatches EventMapResized
func (s *Session) ResizeHeight(ctx context.Context, height int) error {
	return s.resize(ctx, s.m.Width(), height, func() error { return tilemap.ResizeHeight(s.m, height) })
}

func (s *Session) resize(ctx context.Context, width, height int, apply func() error) error {
	oldW, oldH := s.m.Width(), s.m.Height()
	dropped := tilemap.Truncated(s.m, width, height)
	if err := apply(); err != nil {
		return err
	}
	if s.m.Width() == oldW && s.m.Height() == oldH {
		return nil
	}
	s.statResizes.Add(1)
	s.statRemoved.Add(int64(len(dropped)))
	return s.events.Dispatch(ctx, event.EventMapResized, &event.MapResizedPayload{
		Session:   s.id,
		Map:       s.index,
		OldWidth:  oldW,
		OldHeight: oldH,
		Width:     s.m.Width(),
		Height:    s.m.Height(),
		Changes:   dropped,
	})
}

// Interact applies the gameplay rule of the tile at (x, y)
// Collectible and destructible tiles are emptied; generators fire after the
// configured delay. Collectible wins when a tile carries several flags
func (s *Session) Interact(ctx context.Context, x, y int) (Outcome, error) {
	id, prop, err := s.Property(x, y)
	if err != nil {
		return OutcomeNone, err
	}

	payload := &event.TilePayload{
		Session:  s.id,
		Map:      s.index,
		X:        x,
		Y:        y,
		Tile:     id,
		Property: prop,
	}

	switch {
	case id == tile.Empty:
		return OutcomeNone, nil

	case prop.IsCollectible():
		s.m.Set(x, y, tile.Empty)
		s.statCollected.Add(1)
		return OutcomeCollected, s.events.Dispatch(ctx, event.EventTileCollected, payload)

	case prop.IsDestructible():
		s.m.Set(x, y, tile.Empty)
		s.statDestroyed.Add(1)
		return OutcomeDestroyed, s.events.Dispatch(ctx, event.EventTileDestroyed, payload)

	case prop.IsGenerator():
		if err := s.events.Schedule(s.generatorDelay, s.events.NewEvent(event.EventGeneratorFired, payload)); err != nil {
			return OutcomeNone, err
		}
		return OutcomeTriggered, s.events.Dispatch(ctx, event.EventGeneratorTriggered, payload)
	}
	return OutcomeNone, nil
}

// onGeneratorFired counts generator firings that belong to this session
func (s *Session) onGeneratorFired(_ context.Context, ev event.GameEvent) error {
	p, ok := ev.Payload.(*event.TilePayload)
	if !ok || p.Session != s.id {
		return nil
	}
	s.statGenerators.Add(1)
	log.Printf("world: generator %d fired at (%d,%d)", p.Tile, p.X, p.Y)
	return nil
}
