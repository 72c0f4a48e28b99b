package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/internal/services"
	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/game"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// scriptedSource returns queued values, then zeros.
type scriptedSource struct {
	values []int
	i      int
}

func (s *scriptedSource) Intn(n int) int {
	if s.i >= len(s.values) {
		return 0
	}
	v := s.values[s.i] % n
	s.i++
	return v
}

func turnCharacter(name string, hp int) *actor.Character {
	attrs := actor.Attributes{For: 5, Des: 5, Con: 5, Int: 5, Sab: 5, Car: 5, Agi: 5, Sor: 5}
	pools := actor.DerivePools(attrs)
	c := &actor.Character{
		ID:          "id-" + name,
		Name:        name,
		Attributes:  attrs,
		Derived:     pools,
		MaxPools:    pools,
		SelectedDie: "d20",
		Wealth:      50,
	}
	c.Derived.HP = hp
	return c
}

func turnSession(chars ...*actor.Character) *game.GameState {
	gs := game.NewGameState(game.Modes{})
	gs.Phase = game.PhaseNarrative
	gs.Characters = chars
	gs.World = &game.WorldData{Premise: "A drowned kingdom.", MainObjective: "Raise the crown."}
	return gs
}

func TestProcessTurn_Success(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)

	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		return &game.TurnResponse{
			StoryText: "The goblin's blade bites deep.",
			ResourceChanges: []game.ResourceChange{
				{CharacterName: "Aria", Resource: game.ResourceHP, Value: -5},
			},
		}, nil
	}

	p := NewTurnProcessor(oracle, &scriptedSource{values: []int{14}}, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "charge the goblin"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "The goblin's blade bites deep.", result.StoryText)
	require.Len(t, result.Rolls, 1)
	assert.Equal(t, 15, result.Rolls[0].Value)
	assert.True(t, result.Rolls[0].Success)
	assert.False(t, result.GameOver)

	assert.Equal(t, 1, gs.Turn)
	assert.Equal(t, 30, gs.Characters[0].Derived.HP)
	assert.Equal(t, 1, gs.KarmaStreaks[c.ID], "the streak survives the copy swap")
	last := gs.History[len(gs.History)-1]
	assert.Equal(t, game.LogGM, last.Kind)
	assert.Equal(t, "The goblin's blade bites deep.", last.Text)
}

func TestProcessTurn_OracleFailureLeavesStateUntouched(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)

	p := NewTurnProcessor(services.FailingOracle(assert.AnError), nil, testLogger())
	_, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "charge"},
	}, "")
	require.Error(t, err)

	assert.Equal(t, 0, gs.Turn)
	assert.Equal(t, 35, gs.Characters[0].Derived.HP)
	assert.Empty(t, gs.KarmaStreaks, "a failed turn consumes no karma")
	require.Len(t, gs.History, 1, "only the retry notice is logged")
	assert.Equal(t, game.LogGM, gs.History[0].Kind)
	assert.Equal(t, OracleUnavailableText, gs.History[0].Text)
}

func TestProcessTurn_PhaseGuard(t *testing.T) {
	gs := turnSession(turnCharacter("Aria", 35))
	gs.Phase = game.PhaseSetup

	p := NewTurnProcessor(services.NewMockOracle(), nil, testLogger())
	_, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: "id-Aria", Action: "wait"},
	}, "")
	assert.Error(t, err)
}

func TestProcessTurn_RejectsUnknownCharacterAndEmptyAction(t *testing.T) {
	gs := turnSession(turnCharacter("Aria", 35))
	p := NewTurnProcessor(services.NewMockOracle(), nil, testLogger())

	_, err := p.ProcessTurn(context.Background(), gs, nil, "")
	assert.Error(t, err)

	_, err = p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: "nobody", Action: "wait"},
	}, "")
	assert.Error(t, err)

	_, err = p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: "id-Aria", Action: ""},
	}, "")
	assert.Error(t, err)
}

func TestProcessTurn_ManualDice(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)
	gs.Modes.ManualDice = true

	p := NewTurnProcessor(services.NewMockOracle(), nil, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "leap the chasm", Roll: 18},
	}, "")
	require.NoError(t, err)
	require.Len(t, result.Rolls, 1)
	assert.Equal(t, 18, result.Rolls[0].Value)
	assert.True(t, result.Rolls[0].Success)
	assert.False(t, result.Rolls[0].Biased)

	_, err = p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "leap again", Roll: 25},
	}, "")
	assert.Error(t, err, "manual roll must fit the selected die")
}

func TestProcessTurn_IncapacitatedCharacterDoesNotRoll(t *testing.T) {
	a := turnCharacter("Aria", 35)
	b := turnCharacter("Bram", 0)
	gs := turnSession(a, b)

	var prompt string
	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		for _, m := range messages {
			prompt += m.Content + "\n"
		}
		return &game.TurnResponse{StoryText: "Aria fights on alone."}, nil
	}

	p := NewTurnProcessor(oracle, &scriptedSource{values: []int{10}}, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: a.ID, Action: "hold the line"},
		{CharacterID: b.ID, Action: "crawl to cover"},
	}, "")
	require.NoError(t, err)

	assert.Len(t, result.Rolls, 1, "downed characters do not roll")
	assert.Contains(t, prompt, "Bram (incapacitated - cannot act): crawl to cover")
}

func TestProcessTurn_SuggestionReachesPrompt(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)

	var prompt string
	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		for _, m := range messages {
			prompt += m.Content + "\n"
		}
		return &game.TurnResponse{StoryText: "Thunder rolls."}, nil
	}

	p := NewTurnProcessor(oracle, nil, testLogger())
	_, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "make camp"},
	}, "A storm breaks over the camp.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "STORY DIRECTIVE: A storm breaks over the camp.")
}

func TestProcessTurn_OracleDeclaredGameOver(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)

	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		return &game.TurnResponse{
			StoryText:  "The crown rises from the deep.",
			IsGameOver: true,
			GameResult: game.ResultVictory,
		}, nil
	}

	p := NewTurnProcessor(oracle, nil, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "raise the crown"},
	}, "")
	require.NoError(t, err)
	assert.True(t, result.GameOver)
	assert.Equal(t, game.ResultVictory, result.Result)
	assert.Equal(t, game.PhaseGameOver, gs.Phase)
	assert.Equal(t, game.AmbienceVictory, result.Ambience)
}

func TestProcessTurn_PermadeathWipeIsDefeat(t *testing.T) {
	c := turnCharacter("Aria", 1)
	gs := turnSession(c)
	gs.Modes.Permadeath = true

	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		return &game.TurnResponse{
			StoryText: "The blade finds its mark.",
			ResourceChanges: []game.ResourceChange{
				{CharacterName: "Aria", Resource: game.ResourceHP, Value: -1},
			},
		}, nil
	}

	p := NewTurnProcessor(oracle, &scriptedSource{values: []int{3}}, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "stand and fight"},
	}, "")
	require.NoError(t, err)

	assert.True(t, result.GameOver)
	assert.Equal(t, game.ResultDefeat, result.Result)
	assert.True(t, gs.Characters[0].Dead)
	assert.Equal(t, game.AmbienceDefeat, result.Ambience)
}

func TestProcessTurn_KarmicBiasAppliesOnStreak(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)
	gs.Modes.KarmicDice = true
	gs.KarmaStreaks[c.ID] = -3 // deep failure streak

	oracle := services.NewMockOracle()
	// First source value is a low roll, second a high one; the bias
	// keeps the higher.
	p := NewTurnProcessor(oracle, &scriptedSource{values: []int{1, 17}}, testLogger())
	result, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "try once more"},
	}, "")
	require.NoError(t, err)
	require.Len(t, result.Rolls, 1)
	assert.Equal(t, 18, result.Rolls[0].Value)
	assert.True(t, result.Rolls[0].Biased)
}

func TestProcessTurn_RollLogWritten(t *testing.T) {
	c := turnCharacter("Aria", 35)
	gs := turnSession(c)

	p := NewTurnProcessor(services.NewMockOracle(), &scriptedSource{values: []int{14}}, testLogger())
	_, err := p.ProcessTurn(context.Background(), gs, []game.TurnAction{
		{CharacterID: c.ID, Action: "charge"},
	}, "")
	require.NoError(t, err)

	var kinds []string
	for _, e := range gs.History {
		kinds = append(kinds, string(e.Kind))
	}
	joined := strings.Join(kinds, ",")
	assert.Contains(t, joined, "player")
	assert.Contains(t, joined, "roll")
	assert.Contains(t, joined, "gm")
}
