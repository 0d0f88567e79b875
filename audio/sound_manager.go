package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// SoundManager plays one-shot cues through a shared mixer
// Every method is safe before Initialize and after Cleanup; playback is then skipped
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool
	muted       atomic.Bool

	played  [cueCount]atomic.Int64
	skipped atomic.Int64
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2},
	}
}

// Initialize opens the speaker; a second call is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.volume)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Clear()
	sm.initialized = false
}

// SetMuted toggles playback without touching the speaker
func (sm *SoundManager) SetMuted(muted bool) {
	sm.muted.Store(muted)
}

func (sm *SoundManager) Muted() bool {
	return sm.muted.Load()
}

// SetVolume sets master gain in 0..1; 0 silences the mixer
func (sm *SoundManager) SetVolume(v float64) {
	v = min(max(v, 0), 1)

	speaker.Lock()
	defer speaker.Unlock()
	if v == 0 {
		sm.volume.Silent = true
		return
	}
	sm.volume.Silent = false
	// Base 2 exponent, 1.0 is unity gain
	sm.volume.Volume = v - 1
}

// Play starts cue c; skipped when muted or not initialized
func (sm *SoundManager) Play(c Cue) {
	if c < 0 || c >= cueCount {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted.Load() {
		sm.skipped.Add(1)
		return
	}

	streamer := newCueStreamer(sampleRate, c)
	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	sm.played[c].Add(1)
}

// Played returns how many times c reached the mixer
func (sm *SoundManager) Played(c Cue) int64 {
	if c < 0 || c >= cueCount {
		return 0
	}
	return sm.played[c].Load()
}

// Skipped returns how many Play calls were dropped
func (sm *SoundManager) Skipped() int64 {
	return sm.skipped.Load()
}
