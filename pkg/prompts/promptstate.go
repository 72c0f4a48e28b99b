package prompts

import (
	"fmt"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
)

// PromptState is the view of the session injected into Oracle prompts.
// It projects the game state down to what the narrator needs: full
// history, timestamps, dice streaks, and mode toggles stay out.
type PromptState struct {
	Turn        int                  `json:"turn"`
	World       *game.WorldData      `json:"world,omitempty"`
	Party       []PromptCharacter    `json:"party"`
	Enemies     []actor.Enemy        `json:"active_enemies"`
	Allies      []actor.Ally         `json:"active_allies"`
	Neutrals    []actor.NeutralNPC   `json:"active_neutrals"`
	NearbyItems []string             `json:"nearby_items"`
	Map         *game.MapData        `json:"map,omitempty"`
	Time        *game.TimeData       `json:"time,omitempty"`
}

// PromptCharacter is the party-member slice of PromptState. The Oracle
// sees attributes, pools, skills, gear, and condition; dice streaks and
// wealth arithmetic stay engine-side.
type PromptCharacter struct {
	Name        string               `json:"name"`
	Concept     string               `json:"concept"`
	Description string               `json:"description,omitempty"`
	Attributes  map[string]int       `json:"attributes"`
	HP          string               `json:"hp"`
	Mana        string               `json:"mana"`
	Stamina     string               `json:"stamina"`
	Skills      []actor.Skill        `json:"skills,omitempty"`
	Carrying    []string             `json:"carrying"`
	Equipped    map[string]string    `json:"equipped,omitempty"`
	Status      []actor.StatusEffect `json:"status"`
	Wealth      int                  `json:"wealth"`
	Downed      bool                 `json:"downed,omitempty"`
	Dead        bool                 `json:"dead,omitempty"`
}

// ToPromptState projects a session into its Oracle-facing view.
func ToPromptState(gs *game.GameState) PromptState {
	ps := PromptState{
		Turn:        gs.Turn,
		World:       gs.World,
		Party:       make([]PromptCharacter, 0, len(gs.Characters)),
		Enemies:     gs.Enemies,
		Allies:      gs.Allies,
		Neutrals:    gs.Neutrals,
		NearbyItems: make([]string, 0, len(gs.GroundItems)),
		Map:         gs.Map,
		Time:        gs.Time,
	}
	for _, c := range gs.Characters {
		ps.Party = append(ps.Party, toPromptCharacter(c))
	}
	for _, item := range gs.GroundItems {
		ps.NearbyItems = append(ps.NearbyItems, item.Name)
	}
	return ps
}

func toPromptCharacter(c *actor.Character) PromptCharacter {
	pc := PromptCharacter{
		Name:        c.Name,
		Concept:     c.Concept,
		Description: c.Description,
		Attributes:  c.Attributes.Values(),
		HP:          pool(c.Derived.HP, c.MaxPools.HP),
		Mana:        pool(c.Derived.Mana, c.MaxPools.Mana),
		Stamina:     pool(c.Derived.Stamina, c.MaxPools.Stamina),
		Skills:      c.Skills,
		Carrying:    make([]string, 0, len(c.Items)),
		Status:      c.Status,
		Wealth:      c.Wealth,
		Downed:      c.IsDowned(),
		Dead:        c.Dead,
	}
	for _, item := range c.Items {
		pc.Carrying = append(pc.Carrying, item.Name)
	}
	if len(c.Equipment) > 0 {
		pc.Equipped = make(map[string]string, len(c.Equipment))
		for slot, item := range c.Equipment {
			pc.Equipped[string(slot)] = item.Name
		}
	}
	if pc.Status == nil {
		pc.Status = []actor.StatusEffect{}
	}
	return pc
}

func pool(current, maximum int) string {
	return fmt.Sprintf("%d/%d", current, maximum)
}
