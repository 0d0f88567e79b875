package event

import (
	"strconv"
	"time"
)

// EventType represents the type of game event
type EventType int

const (
	// EventTick marks one pass of the game loop
	// Trigger: Game loop | Payload: nil
	EventTick EventType = iota

	// === Map Events ===

	// EventTilesChanged reports one batched replace operation
	// Trigger: world.Session.ReplaceTiles
	// Consumer: Renderer, status | Payload: *TilesChangedPayload
	EventTilesChanged

	// EventTilesRemoved reports one batched removal (replace with empty)
	// Trigger: world.Session.RemoveTiles, Interact
	// Consumer: Renderer, status | Payload: *TilesChangedPayload
	EventTilesRemoved

	// EventMapResized reports a width or height change
	// Trigger: world.Session.ResizeWidth/ResizeHeight | Payload: *MapResizedPayload
	EventMapResized

	// === Gameplay Events ===

	// EventTileCollected signals the player picked up a collectible tile
	// Trigger: world.Session.Interact
	// Consumer: Audio, score | Payload: *TilePayload
	EventTileCollected

	// EventTileDestroyed signals a destructible tile was broken
	// Trigger: world.Session.Interact | Payload: *TilePayload
	EventTileDestroyed

	// EventGeneratorTriggered signals the player touched a generator tile
	// Trigger: world.Session.Interact | Payload: *TilePayload
	EventGeneratorTriggered

	// EventGeneratorFired is the delayed follow-up of a triggered generator
	// Trigger: Registry timer worker after the configured delay | Payload: *TilePayload
	EventGeneratorFired

	// EventPlayerMoved reports the player cursor position
	// Trigger: Game input loop | Payload: *PlayerMovedPayload
	EventPlayerMoved

	// EventPlayerBlocked reports a step into a cell the player cannot enter or affect
	// Trigger: Game input loop | Consumer: Audio | Payload: *PlayerMovedPayload
	EventPlayerBlocked

	// === Archive Events ===

	// EventArchiveSaved signals the archive was written to disk
	// Trigger: Game save command | Payload: *ArchivePayload
	EventArchiveSaved

	eventTypeCount
)

var typeNames = [...]string{
	EventTick:               "Tick",
	EventTilesChanged:       "TilesChanged",
	EventTilesRemoved:       "TilesRemoved",
	EventMapResized:         "MapResized",
	EventTileCollected:      "TileCollected",
	EventTileDestroyed:      "TileDestroyed",
	EventGeneratorTriggered: "GeneratorTriggered",
	EventGeneratorFired:     "GeneratorFired",
	EventPlayerMoved:        "PlayerMoved",
	EventPlayerBlocked:      "PlayerBlocked",
	EventArchiveSaved:       "ArchiveSaved",
}

// String returns the registered name, or a numeric form for unknown types
func (t EventType) String() string {
	if t >= 0 && t < eventTypeCount {
		return typeNames[t]
	}
	return "EventType(" + strconv.Itoa(int(t)) + ")"
}

// TypeByName returns the EventType for a name as printed by String
func TypeByName(name string) (EventType, bool) {
	for i, n := range typeNames {
		if n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// Types returns every declared event type
func Types() []EventType {
	out := make([]EventType, eventTypeCount)
	for i := range out {
		out[i] = EventType(i)
	}
	return out
}

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type      EventType
	Payload   any
	Frame     int64
	Timestamp time.Time
}
