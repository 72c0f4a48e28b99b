package game

import (
	"fmt"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/dice"
)

// Resource names accepted in resource-change deltas.
const (
	ResourceHP      = "hp"
	ResourceMana    = "mana"
	ResourceStamina = "stamina"
)

// Inventory-update actions the Oracle may issue.
const (
	InventoryAdd    = "ADD"
	InventoryRemove = "REMOVE"
)

// ResourceChange adjusts one resource pool of a named entity.
type ResourceChange struct {
	CharacterName string `json:"character_name"`
	Resource      string `json:"resource"`
	Value         int    `json:"value"`
	Reason        string `json:"reason,omitempty"`
}

// InventoryUpdate adds loot to the scene or removes an item from a
// character's bag. ADD payloads land in the ground pool; REMOVE deletes
// the named item and deducts Cost from wealth when present.
type InventoryUpdate struct {
	CharacterName string      `json:"character_name,omitempty"`
	Action        string      `json:"action"`
	Item          *actor.Item `json:"item,omitempty"`      // ADD payload
	ItemName      string      `json:"item_name,omitempty"` // REMOVE target
	Cost          int         `json:"cost,omitempty"`
}

// StatusUpdate replaces a character's status list wholesale.
type StatusUpdate struct {
	CharacterName string               `json:"character_name"`
	Status        []actor.StatusEffect `json:"status"`
}

// TurnResponse is the structured result returned by the Oracle for one
// turn. Rosters are wholesale replacements, not diffs.
type TurnResponse struct {
	StoryText              string             `json:"story_text"`
	SystemLogs             []string           `json:"system_logs,omitempty"`
	ResourceChanges        []ResourceChange   `json:"resource_changes,omitempty"`
	InventoryUpdates       []InventoryUpdate  `json:"inventory_updates,omitempty"`
	NearbyItems            []actor.Item       `json:"nearby_items,omitempty"`
	CharacterStatusUpdates []StatusUpdate     `json:"character_status_updates,omitempty"`
	ActiveEnemies          []actor.Enemy      `json:"active_enemies"`
	ActiveAllies           []actor.Ally       `json:"active_allies"`
	ActiveNeutrals         []actor.NeutralNPC `json:"active_neutrals"`
	MapData                *MapData           `json:"map_data,omitempty"`
	TimeData               *TimeData          `json:"time_data,omitempty"`
	IsGameOver             bool               `json:"is_game_over"`
	GameResult             GameResult         `json:"game_result,omitempty"`
}

// Validate fails closed on responses that miss required fields or carry
// out-of-vocabulary enum values, rather than coercing them.
func (tr *TurnResponse) Validate() error {
	if tr.StoryText == "" {
		return fmt.Errorf("turn response missing story_text")
	}
	for _, rc := range tr.ResourceChanges {
		if rc.CharacterName == "" {
			return fmt.Errorf("resource change missing character_name")
		}
		switch rc.Resource {
		case ResourceHP, ResourceMana, ResourceStamina:
		default:
			return fmt.Errorf("unknown resource %q in resource change", rc.Resource)
		}
	}
	for _, iu := range tr.InventoryUpdates {
		switch iu.Action {
		case InventoryAdd:
			if iu.Item == nil || iu.Item.Name == "" {
				return fmt.Errorf("inventory ADD missing item payload")
			}
		case InventoryRemove:
			if iu.ItemName == "" {
				return fmt.Errorf("inventory REMOVE missing item_name")
			}
		default:
			return fmt.Errorf("unknown inventory action %q", iu.Action)
		}
	}
	if tr.IsGameOver {
		switch tr.GameResult {
		case ResultVictory, ResultDefeat:
		default:
			return fmt.Errorf("game over without a valid game_result")
		}
	}
	if tr.MapData != nil && len(tr.MapData.Grid) != MapGridSize {
		return fmt.Errorf("map grid must be %dx%d", MapGridSize, MapGridSize)
	}
	return nil
}

// TurnAction is one character's declared action for a turn.
type TurnAction struct {
	CharacterID string `json:"character_id"`
	Action      string `json:"action"`
	// Roll carries a player-supplied die result in manual-dice mode.
	Roll int `json:"roll,omitempty"`
}

// TurnResult is what the engine hands back to the shell after a turn.
type TurnResult struct {
	StoryText string        `json:"story_text"`
	Rolls     []dice.Result `json:"rolls,omitempty"`
	Ambience  Ambience      `json:"ambience"`
	GameOver  bool          `json:"game_over"`
	Result    GameResult    `json:"result,omitempty"`
	State     *GameState    `json:"state,omitempty"`
}

// OpeningScene is the Oracle's response when the narrative starts.
type OpeningScene struct {
	StoryText      string             `json:"story_text"`
	ActiveEnemies  []actor.Enemy      `json:"active_enemies"`
	ActiveAllies   []actor.Ally       `json:"active_allies"`
	ActiveNeutrals []actor.NeutralNPC `json:"active_neutrals"`
	MapData        *MapData           `json:"map_data,omitempty"`
	TimeData       *TimeData          `json:"time_data,omitempty"`
}

// Validate checks the opening scene for required fields.
func (os *OpeningScene) Validate() error {
	if os.StoryText == "" {
		return fmt.Errorf("opening scene missing story_text")
	}
	return nil
}

// CharacterSeed is the Oracle's creative contribution to a new
// character: flavor, skills, and starting gear. Attributes and pools
// are player- and engine-owned and never come from the Oracle.
type CharacterSeed struct {
	Description   string        `json:"description"`
	Skills        []actor.Skill `json:"skills,omitempty"`
	StartingItems []actor.Item  `json:"starting_items,omitempty"`
}

// CharacterDraft is the player's submission for a new character: name,
// concept, and point-buy attributes. The engine computes the derived
// pools locally and asks the Oracle only for flavor.
type CharacterDraft struct {
	Name          string           `json:"name"`
	Concept       string           `json:"concept,omitempty"`
	Description   string           `json:"description,omitempty"`
	Skills        []actor.Skill    `json:"skills,omitempty"`
	Attributes    actor.Attributes `json:"attributes"`
	StartingItems []actor.Item     `json:"starting_items,omitempty"`
	Wealth        int              `json:"wealth"`
}

// Validate checks an Oracle character draft before it becomes a Character.
func (cd *CharacterDraft) Validate() error {
	if cd.Name == "" {
		return fmt.Errorf("character draft missing name")
	}
	if err := cd.Attributes.Validate(); err != nil {
		return fmt.Errorf("character draft: %w", err)
	}
	if cd.Wealth < 0 {
		return fmt.Errorf("character draft has negative wealth")
	}
	return nil
}
