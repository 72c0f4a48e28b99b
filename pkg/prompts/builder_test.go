package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/dice"
	"github.com/mfigueira/aventuria/pkg/game"
)

func promptCharacter(t *testing.T, name string) *actor.Character {
	t.Helper()
	attrs := actor.Attributes{For: 5, Des: 5, Con: 5, Int: 5, Sab: 5, Car: 5, Agi: 5, Sor: 5}
	pools := actor.DerivePools(attrs)
	return &actor.Character{
		ID:         "id-" + name,
		Name:       name,
		Concept:    "wandering duelist",
		Attributes: attrs,
		Derived:    pools,
		MaxPools:   pools,
		Wealth:     50,
	}
}

func promptSession(t *testing.T, chars ...*actor.Character) *game.GameState {
	t.Helper()
	gs := game.NewGameState(game.Modes{})
	gs.Phase = game.PhaseNarrative
	gs.Characters = chars
	gs.World = &game.WorldData{Premise: "A drowned kingdom.", MainObjective: "Raise the sunken crown."}
	return gs
}

func TestBuilder_Build(t *testing.T) {
	c := promptCharacter(t, "Aria")
	c.Attributes.For = 9
	gs := promptSession(t, c)
	gs.AppendLog(game.LogGM, "The tide recedes.")

	msgs, err := New().
		WithGameState(gs).
		WithActions([]game.TurnAction{{CharacterID: c.ID, Action: "dive for the crown"}}).
		WithRolls(map[string]dice.Result{
			c.ID: {Die: dice.D20, Value: 17, Success: true},
		}).
		Build()
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, chat.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "You are the Oracle")
	assert.Contains(t, msgs[0].Content, "A drowned kingdom.")
	assert.Contains(t, msgs[0].Content, `"FOR":9`, "the turn prompt carries the party's stats")

	assert.Equal(t, chat.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "The tide recedes.")
	assert.Contains(t, msgs[1].Content, "Aria (rolled 17 on d20 - success): dive for the crown")

	assert.Equal(t, chat.RoleSystem, msgs[2].Role)
	assert.Contains(t, msgs[2].Content, "OUTPUT SCHEMA")
}

func TestBuilder_RequiresStateAndActions(t *testing.T) {
	_, err := New().WithActions([]game.TurnAction{{CharacterID: "x", Action: "y"}}).Build()
	assert.Error(t, err)

	_, err = New().WithGameState(promptSession(t, promptCharacter(t, "Aria"))).Build()
	assert.Error(t, err)
}

func TestBuilder_DownedCharacterMarked(t *testing.T) {
	c := promptCharacter(t, "Aria")
	c.Derived.HP = 0
	gs := promptSession(t, c)

	msgs, err := New().
		WithGameState(gs).
		WithActions([]game.TurnAction{{CharacterID: c.ID, Action: "swing wildly"}}).
		Build()
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "incapacitated - cannot act")

	c.Dead = true
	msgs, err = New().
		WithGameState(gs).
		WithActions([]game.TurnAction{{CharacterID: c.ID, Action: "swing wildly"}}).
		Build()
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "dead - cannot act")
}

func TestBuilder_FailedRollAndSuggestion(t *testing.T) {
	c := promptCharacter(t, "Aria")
	gs := promptSession(t, c)

	msgs, err := New().
		WithGameState(gs).
		WithActions([]game.TurnAction{{CharacterID: c.ID, Action: "pick the lock"}}).
		WithRolls(map[string]dice.Result{c.ID: {Die: dice.D10, Value: 2, Success: false}}).
		WithSuggestion("A patrol rounds the corner.").
		Build()
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "rolled 2 on d10 - failure")
	assert.Contains(t, msgs[1].Content, "STORY DIRECTIVE: A patrol rounds the corner.")
}

func TestBuilder_HistoryWindow(t *testing.T) {
	c := promptCharacter(t, "Aria")
	gs := promptSession(t, c)
	for i := 0; i < 30; i++ {
		gs.AppendLog(game.LogGM, "filler")
	}
	gs.AppendLog(game.LogGM, "the latest thing")

	msgs, err := New().
		WithGameState(gs).
		WithActions([]game.TurnAction{{CharacterID: c.ID, Action: "wait"}}).
		WithHistoryLimit(5).
		Build()
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "the latest thing")
	assert.Equal(t, 4, strings.Count(msgs[1].Content, "filler"))
}

func TestWorldMessages(t *testing.T) {
	msgs := WorldMessages("sunless depths, ancient debts")
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.RoleUser, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "sunless depths, ancient debts")
}

func TestCharacterMessages(t *testing.T) {
	world := &game.WorldData{Premise: "A drowned kingdom."}
	msgs, err := CharacterMessages(world, "Aria", "wandering duelist")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "A drowned kingdom.")
	assert.Contains(t, msgs[0].Content, "Name: Aria")
	assert.Contains(t, msgs[0].Content, "Concept: wandering duelist")
}

func TestSuggestionMessages(t *testing.T) {
	gs := promptSession(t, promptCharacter(t, "Aria"))
	msgs := SuggestionMessages(gs, 10)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "The adventure has just begun.")

	gs.AppendLog(game.LogGM, "The bridge collapsed.")
	msgs = SuggestionMessages(gs, 10)
	assert.Contains(t, msgs[0].Content, "The bridge collapsed.")
}
