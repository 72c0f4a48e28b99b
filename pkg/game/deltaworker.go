package game

import (
	"fmt"
	"log/slog"

	"github.com/mfigueira/aventuria/pkg/actor"
)

// DeltaWorker applies a validated TurnResponse to a game state in a fixed
// order: system logs, resource changes, ground-pool churn (cleared first
// when the location changed), inventory updates, nearby items, status
// replacements, roster replacements, then map and time adoption. Later
// steps may reference entities created by earlier ones, and the session
// log must read coherently, so the order is not negotiable.
//
// Callers are expected to hand in a copy of the live state and swap it in
// on success; Apply itself never rolls back.
type DeltaWorker struct {
	gs     *GameState
	resp   *TurnResponse
	logger *slog.Logger
}

// NewDeltaWorker creates a delta worker for one turn response.
func NewDeltaWorker(gs *GameState, resp *TurnResponse, logger *slog.Logger) *DeltaWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeltaWorker{gs: gs, resp: resp, logger: logger}
}

// Apply applies every delta category of the turn response.
func (dw *DeltaWorker) Apply() error {
	if dw.resp == nil {
		return nil
	}
	if err := dw.resp.Validate(); err != nil {
		return fmt.Errorf("invalid turn response: %w", err)
	}

	for _, line := range dw.resp.SystemLogs {
		dw.gs.AppendLog(LogSystem, line)
	}

	for _, rc := range dw.resp.ResourceChanges {
		dw.applyResourceChange(rc)
	}

	// Items are left behind when the party changes location: the ground
	// pool empties before this turn's loot lands in it.
	if dw.locationChanged() {
		if n := len(dw.gs.GroundItems); n > 0 {
			dw.gs.AppendLog(LogSystem, fmt.Sprintf("%d item(s) left behind at %s.", n, dw.gs.Map.LocationName))
		}
		dw.gs.GroundItems = []actor.Item{}
	}

	for _, iu := range dw.resp.InventoryUpdates {
		switch iu.Action {
		case InventoryAdd:
			dw.addGroundItem(*iu.Item)
		case InventoryRemove:
			dw.removeFromBag(iu)
		}
	}

	for _, item := range dw.resp.NearbyItems {
		dw.addGroundItem(item)
	}

	for _, su := range dw.resp.CharacterStatusUpdates {
		dw.applyStatusUpdate(su)
	}

	dw.replaceRosters()

	if dw.resp.MapData != nil {
		dw.gs.Map = dw.resp.MapData
	}
	if dw.resp.TimeData != nil {
		dw.gs.Time = dw.resp.TimeData
	}

	return nil
}

// locationChanged reports whether the response moves the party to a new
// named location. The first map of a session is not a move.
func (dw *DeltaWorker) locationChanged() bool {
	return dw.resp.MapData != nil && dw.gs.Map != nil &&
		dw.resp.MapData.LocationName != dw.gs.Map.LocationName
}

// applyResourceChange adjusts a pool on the named character, or on an
// enemy or ally when no character matches. An unmatched name is logged
// raw instead of rejected, to keep the session alive.
func (dw *DeltaWorker) applyResourceChange(rc ResourceChange) {
	if c := dw.gs.CharacterByName(rc.CharacterName); c != nil {
		dw.applyCharacterResource(c, rc)
		return
	}
	for i := range dw.gs.Enemies {
		if dw.gs.Enemies[i].Name == rc.CharacterName {
			applyNPCResource(&dw.gs.Enemies[i].CurrentHP, dw.gs.Enemies[i].MaxHP,
				&dw.gs.Enemies[i].CurrentMana, dw.gs.Enemies[i].MaxMana,
				&dw.gs.Enemies[i].CurrentStamina, dw.gs.Enemies[i].MaxStamina, rc)
			dw.logResourceChange(rc)
			return
		}
	}
	for i := range dw.gs.Allies {
		if dw.gs.Allies[i].Name == rc.CharacterName {
			applyNPCResource(&dw.gs.Allies[i].CurrentHP, dw.gs.Allies[i].MaxHP,
				&dw.gs.Allies[i].CurrentMana, dw.gs.Allies[i].MaxMana,
				&dw.gs.Allies[i].CurrentStamina, dw.gs.Allies[i].MaxStamina, rc)
			dw.logResourceChange(rc)
			return
		}
	}

	dw.logger.Warn("resource change references unknown entity",
		"session_id", dw.gs.ID.String(), "name", rc.CharacterName)
	dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s: %s %+d (%s)", rc.CharacterName, rc.Resource, rc.Value, rc.Reason))
}

// applyNPCResource adjusts the matching pool on an enemy or ally,
// clamping to [0, max].
func applyNPCResource(hp *int, maxHP int, mana *int, maxMana int, stamina *int, maxStamina int, rc ResourceChange) {
	switch rc.Resource {
	case ResourceHP:
		*hp = clamp(*hp+rc.Value, 0, maxHP)
	case ResourceMana:
		*mana = clamp(*mana+rc.Value, 0, maxMana)
	case ResourceStamina:
		*stamina = clamp(*stamina+rc.Value, 0, maxStamina)
	}
}

func (dw *DeltaWorker) applyCharacterResource(c *actor.Character, rc ResourceChange) {
	if c.Dead {
		// Death is terminal under permadeath: HP stays locked at 0.
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s is dead and beyond %s changes.", c.Name, rc.Resource))
		return
	}

	switch rc.Resource {
	case ResourceHP:
		dw.applyCharacterHP(c, rc)
	case ResourceMana:
		c.Derived.Mana = clamp(c.Derived.Mana+rc.Value, 0, c.MaxPools.Mana)
		dw.logResourceChange(rc)
	case ResourceStamina:
		c.Derived.Stamina = clamp(c.Derived.Stamina+rc.Value, 0, c.MaxPools.Stamina)
		dw.logResourceChange(rc)
	}
}

// applyCharacterHP applies an HP change under the active death rule.
// Without permadeath, HP clamps to [0, max] and 0 HP means downed.
// With permadeath the one-life-buffer policy applies: damage that would
// drop a character from above 1 HP to 0 or below is floored at 1 (last
// stand); further damage at 1 HP kills outright and permanently.
func (dw *DeltaWorker) applyCharacterHP(c *actor.Character, rc ResourceChange) {
	raw := c.Derived.HP + rc.Value

	if !dw.gs.Modes.Permadeath {
		c.Derived.HP = clamp(raw, 0, c.MaxPools.HP)
		dw.logResourceChange(rc)
		if c.Derived.HP == 0 {
			dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s is down.", c.Name))
		}
		return
	}

	if rc.Value < 0 && c.Derived.HP > 1 && raw <= 0 {
		c.Derived.HP = 1
		dw.logResourceChange(rc)
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s holds on at the brink of death.", c.Name))
		return
	}
	if rc.Value < 0 && c.Derived.HP <= 1 {
		c.Derived.HP = 0
		c.Dead = true
		dw.logResourceChange(rc)
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s has died.", c.Name))
		return
	}

	c.Derived.HP = clamp(raw, 0, c.MaxPools.HP)
	dw.logResourceChange(rc)
}

func (dw *DeltaWorker) logResourceChange(rc ResourceChange) {
	text := fmt.Sprintf("%s: %s %+d", rc.CharacterName, rc.Resource, rc.Value)
	if rc.Reason != "" {
		text += " (" + rc.Reason + ")"
	}
	dw.gs.AppendLog(LogSystem, text)
}

// addGroundItem merges an item into the ground pool, deduplicating by name.
func (dw *DeltaWorker) addGroundItem(item actor.Item) {
	if item.Name == "" {
		return
	}
	if dw.gs.GroundItemIndex(item.Name) >= 0 {
		dw.logger.Debug("skipping duplicate ground item", "session_id", dw.gs.ID.String(), "item", item.Name)
		return
	}
	dw.gs.GroundItems = append(dw.gs.GroundItems, item)
	dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s lies nearby.", item.Name))
}

// removeFromBag deletes a same-named item from the named character's bag
// and deducts any cost from their wealth, floored at zero.
func (dw *DeltaWorker) removeFromBag(iu InventoryUpdate) {
	c := dw.gs.CharacterByName(iu.CharacterName)
	if c == nil {
		dw.logger.Warn("inventory REMOVE references unknown character",
			"session_id", dw.gs.ID.String(), "name", iu.CharacterName)
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s loses %s.", iu.CharacterName, iu.ItemName))
		return
	}
	if i := c.ItemIndex(iu.ItemName); i >= 0 {
		c.RemoveItemAt(i)
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s loses %s.", c.Name, iu.ItemName))
	}
	if iu.Cost > 0 {
		c.Wealth = max(0, c.Wealth-iu.Cost)
		dw.gs.AppendLog(LogSystem, fmt.Sprintf("%s pays %d.", c.Name, iu.Cost))
	}
}

// applyStatusUpdate replaces, not merges, the named character's status list.
func (dw *DeltaWorker) applyStatusUpdate(su StatusUpdate) {
	c := dw.gs.CharacterByName(su.CharacterName)
	if c == nil {
		dw.logger.Warn("status update references unknown character",
			"session_id", dw.gs.ID.String(), "name", su.CharacterName)
		return
	}
	if su.Status == nil {
		su.Status = []actor.StatusEffect{}
	}
	c.Status = su.Status
}

// replaceRosters adopts the Oracle's enemy, ally, and neutral rosters
// wholesale, defaulting missing status lists to empty.
func (dw *DeltaWorker) replaceRosters() {
	enemies := dw.resp.ActiveEnemies
	if enemies == nil {
		enemies = []actor.Enemy{}
	}
	for i := range enemies {
		if enemies[i].Status == nil {
			enemies[i].Status = []actor.StatusEffect{}
		}
	}
	dw.gs.Enemies = enemies

	allies := dw.resp.ActiveAllies
	if allies == nil {
		allies = []actor.Ally{}
	}
	for i := range allies {
		if allies[i].Status == nil {
			allies[i].Status = []actor.StatusEffect{}
		}
	}
	dw.gs.Allies = allies

	neutrals := dw.resp.ActiveNeutrals
	if neutrals == nil {
		neutrals = []actor.NeutralNPC{}
	}
	for i := range neutrals {
		if neutrals[i].Status == nil {
			neutrals[i].Status = []actor.StatusEffect{}
		}
	}
	dw.gs.Neutrals = neutrals
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
