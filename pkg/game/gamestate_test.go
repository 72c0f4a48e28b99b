package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/pkg/actor"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(Modes{KarmicDice: true, Permadeath: true})

	assert.NotEqual(t, uuid.Nil, gs.ID)
	assert.Equal(t, PhaseSetup, gs.Phase)
	assert.True(t, gs.Modes.KarmicDice)
	assert.NotNil(t, gs.KarmaStreaks)
	assert.NotNil(t, gs.Enemies)
	assert.False(t, gs.CreatedAt.IsZero())
}

func TestDeepCopy_Independence(t *testing.T) {
	c := testCharacter("Aria", 20)
	c.Items = []actor.Item{{Name: "Rope"}}
	gs := testSession(c)
	gs.KarmaStreaks["id-Aria"] = 3

	cp, err := gs.DeepCopy()
	require.NoError(t, err)

	cp.Characters[0].Derived.HP = 1
	cp.Characters[0].Items[0].Name = "Chain"
	cp.KarmaStreaks["id-Aria"] = -2
	cp.GroundItems = append(cp.GroundItems, actor.Item{Name: "Torch"})

	assert.Equal(t, 20, c.Derived.HP)
	assert.Equal(t, "Rope", c.Items[0].Name)
	assert.Equal(t, 3, gs.KarmaStreaks["id-Aria"])
	assert.Empty(t, gs.GroundItems)
}

func TestHistoryTail(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	for i := 0; i < 10; i++ {
		gs.AppendLog(LogGM, "entry")
	}
	assert.Len(t, gs.HistoryTail(4), 4)
	assert.Len(t, gs.HistoryTail(50), 10)
	assert.Empty(t, gs.HistoryTail(0))
}

func TestAmbience(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	assert.Equal(t, AmbienceExploration, gs.Ambience())

	gs.Enemies = []actor.Enemy{{Name: "Goblin", CurrentHP: 5, MaxHP: 5}}
	assert.Equal(t, AmbienceCombat, gs.Ambience())

	// A settled result wins over whatever is still on the field.
	gs.Result = ResultDefeat
	assert.Equal(t, AmbienceDefeat, gs.Ambience())
	gs.Result = ResultVictory
	assert.Equal(t, AmbienceVictory, gs.Ambience())
}

func TestAllDead(t *testing.T) {
	a := testCharacter("Aria", 0)
	b := testCharacter("Bram", 5)
	gs := testSession(a, b)
	assert.False(t, gs.AllDead())

	b.Derived.HP = 0
	assert.True(t, gs.AllDead())

	gs.Characters = nil
	assert.False(t, gs.AllDead(), "an empty party is not a defeat")
}

func TestValidate_ColdStart(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	assert.NoError(t, gs.Validate())

	gs.Phase = "LIMBO"
	assert.Error(t, gs.Validate())

	gs = testSession()
	assert.Error(t, gs.Validate(), "narrative phase needs a party")

	gs = NewGameState(Modes{})
	gs.ID = uuid.Nil
	assert.Error(t, gs.Validate())
}

func TestMerchantByName(t *testing.T) {
	gs := testSession(testCharacter("Aria", 20))
	gs.Neutrals = []actor.NeutralNPC{
		{Name: "Old Marta", IsMerchant: true},
		{Name: "Guard", IsMerchant: false},
	}
	assert.NotNil(t, gs.MerchantByName("Old Marta"))
	assert.Nil(t, gs.MerchantByName("Guard"), "non-merchants do not trade")
	assert.Nil(t, gs.MerchantByName("Nobody"))
}
