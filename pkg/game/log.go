package game

// LogKind tags a narrative-history entry by its author.
type LogKind string

const (
	LogPlayer LogKind = "player" // declared party actions
	LogGM     LogKind = "gm"     // Oracle narration
	LogSystem LogKind = "system" // mechanical notices (rolls, blocked actions, deltas)
	LogRoll   LogKind = "roll"   // dice results
)

// LogEntry is one line of the session's narrative history.
type LogEntry struct {
	Kind LogKind `json:"kind"`
	Text string  `json:"text"`
	Turn int     `json:"turn"`
}

// Ambience is the music/ambience cue derived for the shell after each turn.
type Ambience string

const (
	AmbienceExploration Ambience = "exploration"
	AmbienceCombat      Ambience = "combat"
	AmbienceVictory     Ambience = "victory"
	AmbienceDefeat      Ambience = "defeat"
)
