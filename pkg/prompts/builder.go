// Package prompts assembles the chat messages sent to the Oracle: the
// narrator system prompt, a JSON projection of the session, the party's
// declared actions with their dice results, and the strict response
// schema the engine validates against.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/dice"
	"github.com/mfigueira/aventuria/pkg/game"
)

// DefaultHistoryLimit is the number of log entries included in a turn
// prompt when no explicit window is set.
const DefaultHistoryLimit = 20

// Builder constructs the message array for a turn resolution using a
// fluent interface. Prompt assembly stays out of the turn processor.
type Builder struct {
	gs           *game.GameState
	actions      []game.TurnAction
	rolls        map[string]dice.Result
	suggestion   string
	historyLimit int
}

// New creates a turn prompt builder with default settings.
func New() *Builder {
	return &Builder{historyLimit: DefaultHistoryLimit}
}

// WithGameState sets the session being narrated.
func (b *Builder) WithGameState(gs *game.GameState) *Builder {
	b.gs = gs
	return b
}

// WithActions sets the party's declared actions for this turn.
func (b *Builder) WithActions(actions []game.TurnAction) *Builder {
	b.actions = actions
	return b
}

// WithRolls sets the per-character dice results, keyed by character ID.
func (b *Builder) WithRolls(rolls map[string]dice.Result) *Builder {
	b.rolls = rolls
	return b
}

// WithSuggestion sets a GM-assist directive folded into the turn.
func (b *Builder) WithSuggestion(s string) *Builder {
	b.suggestion = s
	return b
}

// WithHistoryLimit sets the log window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build assembles the final message array for the Oracle.
func (b *Builder) Build() ([]chat.Message, error) {
	if b.gs == nil {
		return nil, fmt.Errorf("game state is required")
	}
	if len(b.actions) == 0 {
		return nil, fmt.Errorf("at least one declared action is required")
	}

	stateJSON, err := json.Marshal(ToPromptState(b.gs))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt state: %w", err)
	}

	var system strings.Builder
	system.WriteString(OracleSystemPrompt)
	system.WriteString("\n\nThe following JSON is the complete current game state:\n```json\n")
	system.Write(stateJSON)
	system.WriteString("\n```")

	var user strings.Builder
	if tail := b.gs.HistoryTail(b.historyLimit); len(tail) > 0 {
		user.WriteString("### Recent events\n")
		for _, e := range tail {
			user.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Text))
		}
		user.WriteString("\n")
	}
	user.WriteString("### Declared actions this turn\n")
	for _, a := range b.actions {
		user.WriteString(b.actionLine(a))
	}
	if b.suggestion != "" {
		user.WriteString("\nSTORY DIRECTIVE: " + b.suggestion + "\n")
	}

	return []chat.Message{
		{Role: chat.RoleSystem, Content: system.String()},
		{Role: chat.RoleUser, Content: user.String()},
		{Role: chat.RoleSystem, Content: TurnSchemaPrompt},
	}, nil
}

// actionLine renders one declared action with its dice outcome. A downed
// or dead character's action is marked so the Oracle narrates around it.
func (b *Builder) actionLine(a game.TurnAction) string {
	c := b.gs.CharacterByID(a.CharacterID)
	if c == nil {
		return fmt.Sprintf("- Unknown character: %s\n", a.Action)
	}
	if !c.CanAct() {
		state := "incapacitated"
		if c.Dead {
			state = "dead"
		}
		return fmt.Sprintf("- %s (%s - cannot act): %s\n", c.Name, state, a.Action)
	}
	if r, ok := b.rolls[a.CharacterID]; ok {
		outcome := "failure"
		if r.Success {
			outcome = "success"
		}
		return fmt.Sprintf("- %s (rolled %d on %s - %s): %s\n", c.Name, r.Value, r.Die, outcome, a.Action)
	}
	return fmt.Sprintf("- %s: %s\n", c.Name, a.Action)
}

// WorldMessages builds the message array for world generation.
func WorldMessages(theme string) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleUser, Content: fmt.Sprintf(WorldPrompt, theme)},
	}
}

// CharacterMessages builds the message array for character generation.
func CharacterMessages(world *game.WorldData, name, concept string) ([]chat.Message, error) {
	worldJSON, err := json.Marshal(world)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal world: %w", err)
	}
	return []chat.Message{
		{Role: chat.RoleUser, Content: fmt.Sprintf(CharacterPrompt, worldJSON, name, concept)},
	}, nil
}

// OpeningMessages builds the message array for the opening scene.
func OpeningMessages(gs *game.GameState) ([]chat.Message, error) {
	stateJSON, err := json.Marshal(ToPromptState(gs))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt state: %w", err)
	}
	system := OracleSystemPrompt +
		"\n\nThe following JSON is the complete current game state:\n```json\n" +
		string(stateJSON) + "\n```"
	return []chat.Message{
		{Role: chat.RoleSystem, Content: system},
		{Role: chat.RoleUser, Content: OpeningPrompt},
	}, nil
}

// SuggestionMessages builds the message array for a GM-assist suggestion.
func SuggestionMessages(gs *game.GameState, historyLimit int) []chat.Message {
	var events strings.Builder
	for _, e := range gs.HistoryTail(historyLimit) {
		events.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Text))
	}
	if events.Len() == 0 {
		events.WriteString("The adventure has just begun.\n")
	}
	return []chat.Message{
		{Role: chat.RoleUser, Content: fmt.Sprintf(SuggestionPrompt, events.String())},
	}
}
