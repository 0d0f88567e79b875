package audio

// Cue identifies a one-shot sound effect
type Cue int

const (
	CueCoin Cue = iota
	CueBreak
	CueTrigger
	CueSpawn
	CueBlocked
	cueCount
)

var cueNames = [...]string{
	CueCoin:    "coin",
	CueBreak:   "break",
	CueTrigger: "trigger",
	CueSpawn:   "spawn",
	CueBlocked: "blocked",
}

func (c Cue) String() string {
	if c >= 0 && c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}
