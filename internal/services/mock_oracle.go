package services

import (
	"context"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/game"
)

// MockOracle is a canned OracleService for tests and offline play.
// Each method defers to its function field when set; otherwise it
// returns a minimal valid response.
type MockOracle struct {
	InitModelFunc         func(ctx context.Context, modelName string) error
	GenerateWorldFunc     func(ctx context.Context, messages []chat.Message) (*game.WorldData, error)
	GenerateCharacterFunc func(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error)
	OpenSceneFunc         func(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error)
	ResolveTurnFunc       func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error)
	SuggestFunc           func(ctx context.Context, messages []chat.Message) (string, error)

	// Calls counts invocations per method name.
	Calls map[string]int
}

var _ OracleService = (*MockOracle)(nil)

// NewMockOracle creates a mock with call counting enabled.
func NewMockOracle() *MockOracle {
	return &MockOracle{Calls: make(map[string]int)}
}

func (m *MockOracle) count(method string) {
	if m.Calls != nil {
		m.Calls[method]++
	}
}

func (m *MockOracle) InitModel(ctx context.Context, modelName string) error {
	m.count("InitModel")
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockOracle) GenerateWorld(ctx context.Context, messages []chat.Message) (*game.WorldData, error) {
	m.count("GenerateWorld")
	if m.GenerateWorldFunc != nil {
		return m.GenerateWorldFunc(ctx, messages)
	}
	return &game.WorldData{
		Premise:       "A quiet village borders a forest that swallows travelers.",
		Themes:        []string{"mystery", "folklore"},
		CoreConflict:  "The forest is growing.",
		MainObjective: "Find what feeds the forest and stop it.",
		CurrencyName:  "coins",
	}, nil
}

func (m *MockOracle) GenerateCharacter(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error) {
	m.count("GenerateCharacter")
	if m.GenerateCharacterFunc != nil {
		return m.GenerateCharacterFunc(ctx, messages)
	}
	return &game.CharacterSeed{
		Description: "A weathered wanderer with more scars than stories.",
		Skills: []actor.Skill{
			{Name: "Woodcraft", Description: "Reading trails and weather."},
		},
	}, nil
}

func (m *MockOracle) OpenScene(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error) {
	m.count("OpenScene")
	if m.OpenSceneFunc != nil {
		return m.OpenSceneFunc(ctx, messages)
	}
	return &game.OpeningScene{
		StoryText: "The village gate creaks open at dawn.",
		MapData:   emptyMap("Village Gate"),
		TimeData:  &game.TimeData{DayCount: 1, Phase: game.PhaseDawn},
	}, nil
}

func (m *MockOracle) ResolveTurn(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
	m.count("ResolveTurn")
	if m.ResolveTurnFunc != nil {
		return m.ResolveTurnFunc(ctx, messages)
	}
	return &game.TurnResponse{
		StoryText: "The moment passes without incident.",
	}, nil
}

func (m *MockOracle) Suggest(ctx context.Context, messages []chat.Message) (string, error) {
	m.count("Suggest")
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, messages)
	}
	return "Introduce a stranger with an urgent request.", nil
}

// FailingOracle returns a mock whose every structured call fails.
func FailingOracle(err error) *MockOracle {
	fail := func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		return nil, err
	}
	m := NewMockOracle()
	m.ResolveTurnFunc = fail
	m.OpenSceneFunc = func(ctx context.Context, messages []chat.Message) (*game.OpeningScene, error) {
		return nil, err
	}
	m.GenerateWorldFunc = func(ctx context.Context, messages []chat.Message) (*game.WorldData, error) {
		return nil, err
	}
	m.GenerateCharacterFunc = func(ctx context.Context, messages []chat.Message) (*game.CharacterSeed, error) {
		return nil, err
	}
	m.SuggestFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return "", err
	}
	return m
}

func emptyMap(location string) *game.MapData {
	grid := make([][]string, game.MapGridSize)
	for i := range grid {
		grid[i] = make([]string, game.MapGridSize)
		for j := range grid[i] {
			grid[i][j] = "."
		}
	}
	return &game.MapData{LocationName: location, Grid: grid}
}
