package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// newCueStreamer returns a finite streamer for c
func newCueStreamer(sr beep.SampleRate, c Cue) beep.Streamer {
	switch c {
	case CueCoin:
		return beep.Seq(
			beep.Take(sr.N(60*time.Millisecond), NewChimeGenerator(sr, 988)),
			beep.Take(sr.N(140*time.Millisecond), NewChimeGenerator(sr, 1319)),
		)
	case CueBreak:
		return beep.Take(sr.N(300*time.Millisecond), NewDecayGenerator(sr, 1))
	case CueTrigger:
		return beep.Take(sr.N(200*time.Millisecond), NewSweepGenerator(sr, 220, 660, 200*time.Millisecond))
	case CueSpawn:
		return beep.Take(sr.N(350*time.Millisecond), NewSweepGenerator(sr, 660, 165, 350*time.Millisecond))
	default:
		return beep.Take(sr.N(150*time.Millisecond), NewBuzzGenerator(sr, 120))
	}
}

// ChimeGenerator is a decaying sine with one overtone
type ChimeGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func NewChimeGenerator(sr beep.SampleRate, freq float64) *ChimeGenerator {
	return &ChimeGenerator{sr: sr, freq: freq}
}

func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 12)
		sample := envelope * (0.25*math.Sin(2*math.Pi*g.freq*t) + 0.08*math.Sin(2*math.Pi*g.freq*2*t))
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChimeGenerator) Err() error { return nil }

// SweepGenerator glides linearly from one frequency to another over span
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	span     int
	pos      int
	phase    float64
}

func NewSweepGenerator(sr beep.SampleRate, from, to float64, span time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, span: max(sr.N(span), 1)}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := math.Min(float64(g.pos)/float64(g.span), 1)
		freq := g.from + (g.to-g.from)*progress

		// Phase accumulation keeps the glide click free
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		envelope := 0.2 * (1 - progress)
		sample := envelope * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error { return nil }

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.15*math.Sin(2*math.Pi*g.freq*2*t) +
			0.075*math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error { return nil }

// DecayGenerator generates a breaking/crackling sound
type DecayGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewDecayGenerator seeds the noise source; equal seeds give equal output
func NewDecayGenerator(sr beep.SampleRate, seed int64) *DecayGenerator {
	return &DecayGenerator{sr: sr, seed: seed}
}

func (g *DecayGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 8)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		rumble := 0.3 * math.Sin(2*math.Pi*80*t)

		sample := envelope * (0.25*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *DecayGenerator) Err() error { return nil }
