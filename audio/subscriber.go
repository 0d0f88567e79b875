package audio

import (
	"context"
	"errors"

	"github.com/lixenwraith/marc/event"
)

// Player is the playback side used by event subscriptions
type Player interface {
	Play(c Cue)
}

// EventCues maps gameplay events to the cue they play
var EventCues = map[event.EventType]Cue{
	event.EventTileCollected:      CueCoin,
	event.EventTileDestroyed:      CueBreak,
	event.EventGeneratorTriggered: CueTrigger,
	event.EventGeneratorFired:     CueSpawn,
	event.EventPlayerBlocked:      CueBlocked,
}

// Attach subscribes p to every event in EventCues
// On failure, subscriptions made so far are removed
func Attach(reg *event.Registry, p Player) ([]event.Subscription, error) {
	subs := make([]event.Subscription, 0, len(EventCues))
	for _, et := range event.Types() {
		cue, ok := EventCues[et]
		if !ok {
			continue
		}
		sub, err := reg.RegisterFunc(et, func(context.Context, event.GameEvent) error {
			p.Play(cue)
			return nil
		})
		if err != nil {
			return nil, errors.Join(err, Detach(reg, subs))
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Detach removes subscriptions returned by Attach
func Detach(reg *event.Registry, subs []event.Subscription) error {
	var errs []error
	for _, s := range subs {
		if err := reg.Unregister(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
