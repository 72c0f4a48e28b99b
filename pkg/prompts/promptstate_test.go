package prompts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
)

func TestToPromptState(t *testing.T) {
	c := promptCharacter(t, "Aria")
	c.Items = []actor.Item{{Name: "Rope"}, {Name: "Lantern"}}
	c.Equipment = map[actor.Slot]actor.Item{
		actor.SlotHands: {Name: "Sword", Slot: actor.SlotHands},
	}
	gs := promptSession(t, c)
	gs.Turn = 7
	gs.GroundItems = []actor.Item{{Name: "Torch"}}
	gs.Enemies = []actor.Enemy{{Name: "Goblin", CurrentHP: 5, MaxHP: 5}}

	ps := ToPromptState(gs)

	assert.Equal(t, 7, ps.Turn)
	require.Len(t, ps.Party, 1)
	pc := ps.Party[0]
	assert.Equal(t, "Aria", pc.Name)
	assert.Equal(t, 5, pc.Attributes["CON"], "the narrator needs the stats to weigh outcomes")
	assert.Len(t, pc.Attributes, 8)
	assert.Equal(t, "35/35", pc.HP)
	assert.Equal(t, []string{"Rope", "Lantern"}, pc.Carrying)
	assert.Equal(t, "Sword", pc.Equipped["hands"])
	assert.NotNil(t, pc.Status)
	assert.Equal(t, []string{"Torch"}, ps.NearbyItems)
	require.Len(t, ps.Enemies, 1)
}

func TestToPromptState_DownedAndDead(t *testing.T) {
	a := promptCharacter(t, "Aria")
	a.Derived.HP = 0
	b := promptCharacter(t, "Bram")
	b.Derived.HP = 0
	b.Dead = true
	gs := promptSession(t, a, b)

	ps := ToPromptState(gs)
	assert.True(t, ps.Party[0].Downed)
	assert.False(t, ps.Party[0].Dead)
	assert.False(t, ps.Party[1].Downed, "a dead character is not merely downed")
	assert.True(t, ps.Party[1].Dead)
}

// The projection must never leak engine internals into the prompt.
func TestToPromptState_OmitsEngineFields(t *testing.T) {
	gs := promptSession(t, promptCharacter(t, "Aria"))
	gs.KarmaStreaks["id-Aria"] = 4
	gs.AppendLog(game.LogSystem, "secret bookkeeping")

	data, err := json.Marshal(ToPromptState(gs))
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, "karma")
	assert.NotContains(t, s, "secret bookkeeping")
	assert.NotContains(t, s, "modes")
}
