// Package game holds the session state and the turn-resolution core: the
// delta worker that reconciles Oracle responses into the roster, and the
// inventory, equipment, and trade operations the shell invokes directly.
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/dice"
)

// Phase is the session lifecycle state. Only PhaseNarrative accepts turns;
// PhaseGameOver is terminal.
type Phase string

const (
	PhaseSetup             Phase = "SETUP"
	PhaseCharacterCreation Phase = "CHARACTER_CREATION"
	PhaseNarrative         Phase = "NARRATIVE"
	PhaseGameOver          Phase = "GAME_OVER"
)

// GameResult is the terminal outcome of a session.
type GameResult string

const (
	ResultVictory GameResult = "VICTORY"
	ResultDefeat  GameResult = "DEFEAT"
)

// Modes are the four game-mode toggles chosen at setup.
type Modes struct {
	KarmicDice bool `json:"karmic_dice"`
	Permadeath bool `json:"permadeath"`
	GMAssist   bool `json:"gm_assist"`
	ManualDice bool `json:"manual_dice"`
}

// GameState is the full state of one session. It is the JSON snapshot
// persisted between turns and accepted as a cold-start shape on load.
type GameState struct {
	ID    uuid.UUID `json:"id"`
	Phase Phase     `json:"phase"`
	Modes Modes     `json:"modes"`
	Turn  int       `json:"turn"`

	World      *WorldData         `json:"world,omitempty"`
	Characters []*actor.Character `json:"characters,omitempty"`
	History    []LogEntry         `json:"history,omitempty"`

	Enemies  []actor.Enemy      `json:"enemies"`
	Allies   []actor.Ally       `json:"allies"`
	Neutrals []actor.NeutralNPC `json:"neutrals"`

	// GroundItems is the "nearby items" pool: loot present in the scene
	// but not yet in any character's bag. Cleared when the party changes
	// location.
	GroundItems []actor.Item `json:"ground_items"`

	Map  *MapData  `json:"map,omitempty"`
	Time *TimeData `json:"time,omitempty"`

	// KarmaStreaks persists the per-entity dice streaks for the session.
	KarmaStreaks dice.Tracker `json:"karma_streaks,omitempty"`

	Result GameResult `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState creates a fresh session in the setup phase.
func NewGameState(modes Modes) *GameState {
	return &GameState{
		ID:           uuid.New(),
		Phase:        PhaseSetup,
		Modes:        modes,
		Enemies:      []actor.Enemy{},
		Allies:       []actor.Ally{},
		Neutrals:     []actor.NeutralNPC{},
		GroundItems:  []actor.Item{},
		KarmaStreaks: dice.NewTracker(),
		CreatedAt:    time.Now(),
	}
}

// DeepCopy returns an independent copy of the game state via a JSON
// round trip. Turn deltas are applied to a copy so a failed application
// never leaves the live state half-mutated.
func (gs *GameState) DeepCopy() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state copy: %w", err)
	}
	return &out, nil
}

// AppendLog adds a history entry stamped with the current turn.
func (gs *GameState) AppendLog(kind LogKind, text string) {
	gs.History = append(gs.History, LogEntry{Kind: kind, Text: text, Turn: gs.Turn})
}

// HistoryTail returns at most limit entries from the end of the history.
func (gs *GameState) HistoryTail(limit int) []LogEntry {
	if limit <= 0 || len(gs.History) <= limit {
		return gs.History
	}
	return gs.History[len(gs.History)-limit:]
}

// CharacterByID finds a party member by ID.
func (gs *GameState) CharacterByID(id string) *actor.Character {
	for _, c := range gs.Characters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CharacterByName finds a party member by exact name. Oracle deltas
// reference entities by name.
func (gs *GameState) CharacterByName(name string) *actor.Character {
	for _, c := range gs.Characters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// MerchantByName finds a neutral NPC that is a merchant.
func (gs *GameState) MerchantByName(name string) *actor.NeutralNPC {
	for i := range gs.Neutrals {
		if gs.Neutrals[i].Name == name && gs.Neutrals[i].IsMerchant {
			return &gs.Neutrals[i]
		}
	}
	return nil
}

// InCombat reports whether hostile enemies are present. Trading, dropping,
// taking, and giving items are locked while in combat.
func (gs *GameState) InCombat() bool {
	return len(gs.Enemies) > 0
}

// AllDead reports whether every party member is at 0 HP.
func (gs *GameState) AllDead() bool {
	if len(gs.Characters) == 0 {
		return false
	}
	for _, c := range gs.Characters {
		if c.Derived.HP > 0 {
			return false
		}
	}
	return true
}

// GroundItemIndex returns the ground-pool index of the named item, or -1.
func (gs *GameState) GroundItemIndex(name string) int {
	for i, item := range gs.GroundItems {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Ambience derives the music/ambience cue for the shell.
func (gs *GameState) Ambience() Ambience {
	switch gs.Result {
	case ResultVictory:
		return AmbienceVictory
	case ResultDefeat:
		return AmbienceDefeat
	}
	if gs.InCombat() {
		return AmbienceCombat
	}
	return AmbienceExploration
}

// Validate checks that a loaded snapshot is usable as a cold start.
func (gs *GameState) Validate() error {
	switch gs.Phase {
	case PhaseSetup, PhaseCharacterCreation, PhaseNarrative, PhaseGameOver:
	default:
		return fmt.Errorf("unknown phase %q", gs.Phase)
	}
	if gs.ID == uuid.Nil {
		return fmt.Errorf("missing session id")
	}
	if gs.Phase == PhaseNarrative && len(gs.Characters) == 0 {
		return fmt.Errorf("narrative phase requires at least one character")
	}
	return nil
}
