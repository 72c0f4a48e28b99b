package game

import (
	"fmt"

	"github.com/mfigueira/aventuria/pkg/actor"
)

// ActionResult is the outcome of a direct inventory/equipment/trade
// command. A rejected command is a no-op that still logs its reason;
// these are never surfaced as errors to the shell.
type ActionResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (gs *GameState) reject(format string, args ...any) ActionResult {
	msg := fmt.Sprintf(format, args...)
	gs.AppendLog(LogSystem, msg)
	return ActionResult{OK: false, Message: msg}
}

func (gs *GameState) accept(format string, args ...any) ActionResult {
	msg := fmt.Sprintf(format, args...)
	gs.AppendLog(LogSystem, msg)
	return ActionResult{OK: true, Message: msg}
}

// TakeItem moves a ground-pool item into a character's bag.
// Blocked in combat, on duplicates, and at capacity.
func (gs *GameState) TakeItem(charID string, groundIndex int) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if gs.InCombat() {
		return gs.reject("%s cannot pick up items during combat.", c.Name)
	}
	if groundIndex < 0 || groundIndex >= len(gs.GroundItems) {
		return gs.reject("That item is no longer there.")
	}
	item := gs.GroundItems[groundIndex]
	if c.HasItem(item.Name) {
		return gs.reject("%s already carries a %s.", c.Name, item.Name)
	}
	if c.AtCapacity() {
		return gs.reject("%s's bag is full (%d/%d).", c.Name, len(c.Items), c.Capacity())
	}
	gs.GroundItems = append(gs.GroundItems[:groundIndex], gs.GroundItems[groundIndex+1:]...)
	c.Items = append(c.Items, item)
	return gs.accept("%s picks up %s.", c.Name, item.Name)
}

// DropItem moves a bag item onto the ground. Blocked in combat.
func (gs *GameState) DropItem(charID string, itemIndex int) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if gs.InCombat() {
		return gs.reject("%s cannot drop items during combat.", c.Name)
	}
	if itemIndex < 0 || itemIndex >= len(c.Items) {
		return gs.reject("%s does not carry that item.", c.Name)
	}
	item := c.RemoveItemAt(itemIndex)
	gs.GroundItems = append(gs.GroundItems, item)
	return gs.accept("%s drops %s.", c.Name, item.Name)
}

// GiveItem transfers a bag item between party members. Blocked in combat,
// and when the recipient is at capacity or already owns a same-named item.
func (gs *GameState) GiveItem(fromID, toID string, itemIndex int) ActionResult {
	from := gs.CharacterByID(fromID)
	to := gs.CharacterByID(toID)
	if from == nil || to == nil {
		return gs.reject("No such character.")
	}
	if gs.InCombat() {
		return gs.reject("%s cannot trade items during combat.", from.Name)
	}
	if itemIndex < 0 || itemIndex >= len(from.Items) {
		return gs.reject("%s does not carry that item.", from.Name)
	}
	item := from.Items[itemIndex]
	if to.HasItem(item.Name) {
		return gs.reject("%s already carries a %s.", to.Name, item.Name)
	}
	if to.AtCapacity() {
		return gs.reject("%s's bag is full (%d/%d).", to.Name, len(to.Items), to.Capacity())
	}
	from.RemoveItemAt(itemIndex)
	to.Items = append(to.Items, item)
	return gs.accept("%s gives %s to %s.", from.Name, item.Name, to.Name)
}

// EquipItem moves a bag item into its equipment slot. Equipping stays
// allowed in combat; the slot must be free.
func (gs *GameState) EquipItem(charID string, itemIndex int) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if itemIndex < 0 || itemIndex >= len(c.Items) {
		return gs.reject("%s does not carry that item.", c.Name)
	}
	item := c.Items[itemIndex]
	if !actor.ValidSlot(item.Slot) {
		return gs.reject("%s cannot be equipped.", item.Name)
	}
	if occupied, ok := c.Equipment[item.Slot]; ok {
		return gs.reject("%s must unequip %s first.", c.Name, occupied.Name)
	}
	c.RemoveItemAt(itemIndex)
	if c.Equipment == nil {
		c.Equipment = make(map[actor.Slot]actor.Item)
	}
	c.Equipment[item.Slot] = item
	return gs.accept("%s equips %s (%s).", c.Name, item.Name, item.Slot)
}

// UnequipItem moves an equipped item back into the bag, which must have
// room for it. Allowed in combat.
func (gs *GameState) UnequipItem(charID string, slot actor.Slot) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	item, ok := c.Equipment[slot]
	if !ok {
		return gs.reject("%s has nothing equipped there.", c.Name)
	}
	// Removing a back item shrinks capacity, so size the bag against the
	// capacity without the bonus the item itself grants.
	capacityAfter := c.Capacity()
	if slot == actor.SlotBack {
		capacityAfter -= item.CapacityBonus
	}
	if len(c.Items) >= capacityAfter {
		return gs.reject("%s's bag has no room for %s.", c.Name, item.Name)
	}
	delete(c.Equipment, slot)
	c.Items = append(c.Items, item)
	return gs.accept("%s unequips %s.", c.Name, item.Name)
}

// UseItem consumes a consumable: numeric recoveries parsed from its
// effect text are applied, and the item is always spent. Allowed in combat.
func (gs *GameState) UseItem(charID string, itemIndex int, interp EffectInterpreter) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if itemIndex < 0 || itemIndex >= len(c.Items) {
		return gs.reject("%s does not carry that item.", c.Name)
	}
	item := c.Items[itemIndex]
	if item.Type != actor.ItemConsumable {
		return gs.reject("%s is not consumable.", item.Name)
	}
	if interp == nil {
		interp = NewEffectInterpreter()
	}

	recoveries := interp.Interpret(item.Effect)
	c.RemoveItemAt(itemIndex)

	if len(recoveries) == 0 {
		return gs.accept("%s uses %s. Its effect unfolds in the story.", c.Name, item.Name)
	}
	for _, r := range recoveries {
		switch r.Resource {
		case ResourceHP:
			c.Derived.HP = clamp(c.Derived.HP+r.Amount, 0, c.MaxPools.HP)
		case ResourceMana:
			c.Derived.Mana = clamp(c.Derived.Mana+r.Amount, 0, c.MaxPools.Mana)
		case ResourceStamina:
			c.Derived.Stamina = clamp(c.Derived.Stamina+r.Amount, 0, c.MaxPools.Stamina)
		}
		gs.AppendLog(LogSystem, fmt.Sprintf("%s recovers %d %s.", c.Name, r.Amount, r.Resource))
	}
	return gs.accept("%s uses %s.", c.Name, item.Name)
}

// BuyItem purchases a named item from a merchant's catalog. The shop's
// stock is treated as infinite: buying leaves the catalog unchanged.
// Blocked in combat, without funds, at capacity, or on duplicates.
func (gs *GameState) BuyItem(charID, merchantName, itemName string) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if gs.InCombat() {
		return gs.reject("%s cannot trade during combat.", c.Name)
	}
	m := gs.MerchantByName(merchantName)
	if m == nil {
		return gs.reject("There is no merchant called %s here.", merchantName)
	}
	var item *actor.Item
	for i := range m.ShopItems {
		if m.ShopItems[i].Name == itemName {
			item = &m.ShopItems[i]
			break
		}
	}
	if item == nil {
		return gs.reject("%s does not sell %s.", m.Name, itemName)
	}
	if item.Price <= 0 {
		return gs.reject("%s is not for sale.", item.Name)
	}
	if c.Wealth < item.Price {
		return gs.reject("%s cannot afford %s (%d).", c.Name, item.Name, item.Price)
	}
	if c.HasItem(item.Name) {
		return gs.reject("%s already carries a %s.", c.Name, item.Name)
	}
	if c.AtCapacity() {
		return gs.reject("%s's bag is full (%d/%d).", c.Name, len(c.Items), c.Capacity())
	}
	c.Wealth -= item.Price
	c.Items = append(c.Items, *item)
	return gs.accept("%s buys %s for %d.", c.Name, item.Name, item.Price)
}

// SellItem sells a bag item to a merchant for half its price (10 when
// unpriced). The sold item joins the merchant's catalog, so other party
// members may buy it back. Merchants have unlimited buying power.
func (gs *GameState) SellItem(charID string, itemIndex int, merchantName string) ActionResult {
	c := gs.CharacterByID(charID)
	if c == nil {
		return gs.reject("No such character.")
	}
	if gs.InCombat() {
		return gs.reject("%s cannot trade during combat.", c.Name)
	}
	m := gs.MerchantByName(merchantName)
	if m == nil {
		return gs.reject("There is no merchant called %s here.", merchantName)
	}
	if itemIndex < 0 || itemIndex >= len(c.Items) {
		return gs.reject("%s does not carry that item.", c.Name)
	}
	item := c.RemoveItemAt(itemIndex)
	price := item.Price
	if price <= 0 {
		price = 10
	}
	payout := price / 2
	c.Wealth += payout
	m.ShopItems = append(m.ShopItems, item)
	return gs.accept("%s sells %s to %s for %d.", c.Name, item.Name, m.Name, payout)
}
