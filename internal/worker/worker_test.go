package worker

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/internal/services"
	queueSvc "github.com/mfigueira/aventuria/internal/services/queue"
	"github.com/mfigueira/aventuria/internal/storage"
	"github.com/mfigueira/aventuria/pkg/chat"
	"github.com/mfigueira/aventuria/pkg/game"
	queuePkg "github.com/mfigueira/aventuria/pkg/queue"
)

func testWorker(t *testing.T, oracle services.OracleService) (*Worker, storage.Storage, *queueSvc.TurnQueue, *queueSvc.SuggestionQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := queueSvc.NewClientFromRedis(rdb, testLogger())

	turnQueue := queueSvc.NewTurnQueue(client)
	suggestions := queueSvc.NewSuggestionQueue(client)
	store := storage.NewMockStorage()
	processor := NewTurnProcessor(oracle, &scriptedSource{values: []int{14}}, testLogger())

	lock := queueSvc.NewSessionLock(client)
	w := New(turnQueue, suggestions, store, processor, oracle, lock, testLogger(), "test-worker")
	return w, store, turnQueue, suggestions
}

func TestWorker_ProcessTurnJob(t *testing.T) {
	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		return &game.TurnResponse{StoryText: "The road bends north."}, nil
	}
	w, store, turnQueue, _ := testWorker(t, oracle)

	c := turnCharacter("Aria", 35)
	gs := turnSession(c)
	require.NoError(t, store.SaveSession(context.Background(), gs))

	job := queuePkg.NewTurnJob(gs.ID, []game.TurnAction{{CharacterID: c.ID, Action: "follow the road"}})
	require.NoError(t, turnQueue.Enqueue(context.Background(), job))

	require.NoError(t, w.processNextJob())

	saved, err := store.LoadSession(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.Turn)
	assert.Equal(t, "The road bends north.", saved.History[len(saved.History)-1].Text)
}

func TestWorker_TurnFailureStillSavesNotice(t *testing.T) {
	w, store, turnQueue, _ := testWorker(t, services.FailingOracle(assert.AnError))

	c := turnCharacter("Aria", 35)
	gs := turnSession(c)
	require.NoError(t, store.SaveSession(context.Background(), gs))

	job := queuePkg.NewTurnJob(gs.ID, []game.TurnAction{{CharacterID: c.ID, Action: "press on"}})
	require.NoError(t, turnQueue.Enqueue(context.Background(), job))
	require.NoError(t, w.processNextJob(), "a failed turn is not a worker error")

	saved, err := store.LoadSession(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotEmpty(t, saved.History)
	assert.Equal(t, OracleUnavailableText, saved.History[len(saved.History)-1].Text)
	assert.Equal(t, 0, saved.Turn)
}

func TestWorker_SuggestionJob(t *testing.T) {
	oracle := services.NewMockOracle()
	w, store, turnQueue, suggestions := testWorker(t, oracle)

	gs := turnSession(turnCharacter("Aria", 35))
	gs.Modes.GMAssist = true
	require.NoError(t, store.SaveSession(context.Background(), gs))

	require.NoError(t, turnQueue.Enqueue(context.Background(), queuePkg.NewSuggestionJob(gs.ID)))
	require.NoError(t, w.processNextJob())

	depth, err := suggestions.Depth(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
}

func TestWorker_GMAssistSuggestionConsumedByTurn(t *testing.T) {
	var prompt string
	oracle := services.NewMockOracle()
	oracle.ResolveTurnFunc = func(ctx context.Context, messages []chat.Message) (*game.TurnResponse, error) {
		for _, m := range messages {
			prompt += m.Content + "\n"
		}
		return &game.TurnResponse{StoryText: "The stranger arrives."}, nil
	}
	w, store, turnQueue, suggestions := testWorker(t, oracle)

	c := turnCharacter("Aria", 35)
	gs := turnSession(c)
	gs.Modes.GMAssist = true
	require.NoError(t, store.SaveSession(context.Background(), gs))
	require.NoError(t, suggestions.Enqueue(context.Background(), gs.ID, "A stranger arrives at dusk."))

	job := queuePkg.NewTurnJob(gs.ID, []game.TurnAction{{CharacterID: c.ID, Action: "wait by the fire"}})
	require.NoError(t, turnQueue.Enqueue(context.Background(), job))
	require.NoError(t, w.processNextJob())

	assert.Contains(t, prompt, "STORY DIRECTIVE: A stranger arrives at dusk.")
	depth, err := suggestions.Depth(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Zero(t, depth, "the suggestion queue drains into the turn")
}

func TestWorker_MissingSessionDropsJob(t *testing.T) {
	w, _, turnQueue, _ := testWorker(t, services.NewMockOracle())

	job := queuePkg.NewTurnJob(game.NewGameState(game.Modes{}).ID, nil)
	require.NoError(t, turnQueue.Enqueue(context.Background(), job))
	assert.NoError(t, w.processNextJob())
}
