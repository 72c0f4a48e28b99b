package game

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mfigueira/aventuria/pkg/actor"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

func testCharacter(name string, hp int) *actor.Character {
	attrs := actor.Attributes{For: 5, Des: 5, Con: 5, Int: 5, Sab: 5, Car: 5, Agi: 5, Sor: 5}
	pools := actor.DerivePools(attrs)
	c := &actor.Character{
		ID:         "id-" + name,
		Name:       name,
		Attributes: attrs,
		Derived:    pools,
		MaxPools:   pools,
		Wealth:     100,
	}
	c.Derived.HP = hp
	return c
}

func testSession(chars ...*actor.Character) *GameState {
	gs := NewGameState(Modes{})
	gs.Phase = PhaseNarrative
	gs.Characters = chars
	gs.Map = &MapData{LocationName: "Forest", Grid: make([][]string, MapGridSize)}
	return gs
}

func TestDeltaWorker_SystemLogsAndStory(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	resp := &TurnResponse{
		StoryText:  "The forest darkens.",
		SystemLogs: []string{"A storm gathers.", "The bridge collapses."},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	require.Len(t, gs.History, 2)
	assert.Equal(t, LogSystem, gs.History[0].Kind)
	assert.Equal(t, "A storm gathers.", gs.History[0].Text)
}

func TestDeltaWorker_ResourceClampWithoutPermadeath(t *testing.T) {
	c := testCharacter("Aria", 20)
	gs := testSession(c)
	resp := &TurnResponse{
		StoryText: "Ouch.",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Aria", Resource: ResourceHP, Value: -50, Reason: "dragon breath"},
			{CharacterName: "Aria", Resource: ResourceMana, Value: -100},
			{CharacterName: "Aria", Resource: ResourceStamina, Value: 500},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	assert.Equal(t, 0, c.Derived.HP, "hp clamps to zero without permadeath")
	assert.Equal(t, 0, c.Derived.Mana)
	assert.Equal(t, c.MaxPools.Stamina, c.Derived.Stamina, "recovery clamps at the creation-time maximum")
	assert.False(t, c.Dead)
	assert.True(t, c.IsDowned())
}

func TestDeltaWorker_ResourceClamp_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := testCharacter("Aria", 35)
		gs := testSession(c)
		n := rapid.IntRange(1, 30).Draw(t, "changes")
		changes := make([]ResourceChange, 0, n)
		resources := []string{ResourceHP, ResourceMana, ResourceStamina}
		for i := 0; i < n; i++ {
			changes = append(changes, ResourceChange{
				CharacterName: "Aria",
				Resource:      resources[rapid.IntRange(0, 2).Draw(t, "res")],
				Value:         rapid.IntRange(-200, 200).Draw(t, "value"),
			})
		}
		resp := &TurnResponse{StoryText: "x", ResourceChanges: changes}
		if err := NewDeltaWorker(gs, resp, noopLogger).Apply(); err != nil {
			t.Fatal(err)
		}
		if c.Derived.HP < 0 || c.Derived.Mana < 0 || c.Derived.Stamina < 0 {
			t.Fatalf("negative resource observed: %+v", c.Derived)
		}
	})
}

func TestDeltaWorker_PermadeathOneLifeBuffer(t *testing.T) {
	c := testCharacter("Aria", 5)
	gs := testSession(c)
	gs.Modes.Permadeath = true

	resp := &TurnResponse{
		StoryText: "The blade falls.",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Aria", Resource: ResourceHP, Value: -20},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())
	assert.Equal(t, 1, c.Derived.HP, "lethal damage above 1 HP floors at the last stand")
	assert.False(t, c.Dead)

	resp = &TurnResponse{
		StoryText: "The blade falls again.",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Aria", Resource: ResourceHP, Value: -1},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())
	assert.Equal(t, 0, c.Derived.HP)
	assert.True(t, c.Dead, "damage at 1 HP kills outright")

	// Death is terminal: healing does not bring the character back.
	resp = &TurnResponse{
		StoryText: "A prayer goes unanswered.",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Aria", Resource: ResourceHP, Value: 50},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())
	assert.Equal(t, 0, c.Derived.HP)
	assert.True(t, c.Dead)
}

func TestDeltaWorker_EnemyAndAllyResourceChanges(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	gs.Enemies = []actor.Enemy{{Name: "Goblin", CurrentHP: 10, MaxHP: 10, Status: []actor.StatusEffect{}}}
	gs.Allies = []actor.Ally{{Name: "Bram", CurrentHP: 4, MaxHP: 12, Status: []actor.StatusEffect{}}}

	resp := &TurnResponse{
		StoryText: "Steel rings.",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Goblin", Resource: ResourceHP, Value: -15},
			{CharacterName: "Bram", Resource: ResourceHP, Value: 20},
		},
		// Rosters echo back unchanged for this test.
		ActiveEnemies: []actor.Enemy{{Name: "Goblin", CurrentHP: 10, MaxHP: 10}},
		ActiveAllies:  []actor.Ally{{Name: "Bram", CurrentHP: 4, MaxHP: 12}},
	}

	// Resource changes land on the pre-replacement roster; the wholesale
	// replacement afterwards is what the Oracle said the scene now holds.
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())
	assert.Equal(t, 10, gs.Enemies[0].CurrentHP)
	assert.Equal(t, 4, gs.Allies[0].CurrentHP)
}

func TestDeltaWorker_UnknownEntityLoggedNotFatal(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	resp := &TurnResponse{
		StoryText: "Who?",
		ResourceChanges: []ResourceChange{
			{CharacterName: "Stranger", Resource: ResourceHP, Value: -3, Reason: "falling rock"},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	found := false
	for _, e := range gs.History {
		if e.Kind == LogSystem && e.Text == "Stranger: hp -3 (falling rock)" {
			found = true
		}
	}
	assert.True(t, found, "unmatched entity should produce a raw log entry")
}

func TestDeltaWorker_OracleLootLandsOnGround(t *testing.T) {
	c := testCharacter("Aria", 20)
	gs := testSession(c)
	resp := &TurnResponse{
		StoryText: "Loot!",
		InventoryUpdates: []InventoryUpdate{
			{Action: InventoryAdd, Item: &actor.Item{Name: "Rusty Key", Type: actor.ItemMisc}},
		},
		NearbyItems: []actor.Item{
			{Name: "Torch", Type: actor.ItemMisc},
			{Name: "Rusty Key", Type: actor.ItemMisc}, // duplicate, skipped
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	require.Len(t, gs.GroundItems, 2)
	assert.Empty(t, c.Items, "ADD loot requires an explicit pickup, never lands in a bag")
	assert.Equal(t, "Rusty Key", gs.GroundItems[0].Name)
	assert.Equal(t, "Torch", gs.GroundItems[1].Name)
}

func TestDeltaWorker_RemoveDeductsCost(t *testing.T) {
	c := testCharacter("Aria", 20)
	c.Items = []actor.Item{{Name: "Ferry Token", Type: actor.ItemMisc}}
	gs := testSession(c)
	resp := &TurnResponse{
		StoryText: "The ferryman takes his due.",
		InventoryUpdates: []InventoryUpdate{
			{CharacterName: "Aria", Action: InventoryRemove, ItemName: "Ferry Token", Cost: 30},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	assert.Empty(t, c.Items)
	assert.Equal(t, 70, c.Wealth)
}

func TestDeltaWorker_LocationChangeClearsGroundFirst(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	gs.GroundItems = []actor.Item{{Name: "Torch"}, {Name: "Rope"}}

	resp := &TurnResponse{
		StoryText:   "You descend into the cave.",
		NearbyItems: []actor.Item{{Name: "Torch", Type: actor.ItemMisc}},
		MapData:     &MapData{LocationName: "Cave", Grid: make([][]string, MapGridSize)},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	// The Forest pool was emptied before this turn's loot was merged, so
	// the new Torch is present rather than deduplicated away.
	require.Len(t, gs.GroundItems, 1)
	assert.Equal(t, "Torch", gs.GroundItems[0].Name)
	assert.Equal(t, "Cave", gs.Map.LocationName)
}

func TestDeltaWorker_SameLocationKeepsGround(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	gs.GroundItems = []actor.Item{{Name: "Rope"}}

	resp := &TurnResponse{
		StoryText: "Nothing moves.",
		MapData:   &MapData{LocationName: "Forest", Grid: make([][]string, MapGridSize)},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())
	assert.Len(t, gs.GroundItems, 1)
}

func TestDeltaWorker_StatusReplacedWholesale(t *testing.T) {
	c := testCharacter("Aria", 20)
	c.Status = []actor.StatusEffect{{Name: "Poisoned", Duration: 3}}
	gs := testSession(c)

	resp := &TurnResponse{
		StoryText: "The poison fades, but fear sets in.",
		CharacterStatusUpdates: []StatusUpdate{
			{CharacterName: "Aria", Status: []actor.StatusEffect{
				{Name: "Frightened", Duration: 2},
				{Name: "Frightened", Duration: 2}, // duplicates are preserved
			}},
		},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	require.Len(t, c.Status, 2)
	assert.Equal(t, "Frightened", c.Status[0].Name)
}

func TestDeltaWorker_RostersReplacedWithStatusDefault(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	gs.Enemies = []actor.Enemy{{Name: "Old Goblin", CurrentHP: 5, MaxHP: 5}}

	resp := &TurnResponse{
		StoryText: "A troll arrives.",
		ActiveEnemies: []actor.Enemy{
			{Name: "Troll", Difficulty: actor.DifficultyElite, CurrentHP: 40, MaxHP: 40},
		},
		TimeData: &TimeData{DayCount: 2, Phase: PhaseNight},
	}
	require.NoError(t, NewDeltaWorker(gs, resp, noopLogger).Apply())

	require.Len(t, gs.Enemies, 1)
	assert.Equal(t, "Troll", gs.Enemies[0].Name)
	assert.NotNil(t, gs.Enemies[0].Status, "missing status defaults to an empty list")
	assert.Empty(t, gs.Allies)
	assert.Equal(t, PhaseNight, gs.Time.Phase)
	assert.Equal(t, 2, gs.Time.DayCount)
}

func TestTurnResponse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		resp    TurnResponse
		wantErr string
	}{
		{"missing story", TurnResponse{}, "story_text"},
		{
			"bad resource",
			TurnResponse{StoryText: "x", ResourceChanges: []ResourceChange{{CharacterName: "A", Resource: "luck", Value: 1}}},
			"unknown resource",
		},
		{
			"bad inventory action",
			TurnResponse{StoryText: "x", InventoryUpdates: []InventoryUpdate{{Action: "SWAP"}}},
			"unknown inventory action",
		},
		{
			"add without payload",
			TurnResponse{StoryText: "x", InventoryUpdates: []InventoryUpdate{{Action: InventoryAdd}}},
			"missing item payload",
		},
		{
			"game over without result",
			TurnResponse{StoryText: "x", IsGameOver: true},
			"game_result",
		},
		{"valid minimal", TurnResponse{StoryText: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resp.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
