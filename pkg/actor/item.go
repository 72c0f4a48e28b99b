package actor

// Slot is one of the three equipment attachment points.
type Slot string

const (
	SlotBack  Slot = "back"
	SlotChest Slot = "chest"
	SlotHands Slot = "hands"
)

// ValidSlot reports whether s names a known equipment slot.
func ValidSlot(s Slot) bool {
	return s == SlotBack || s == SlotChest || s == SlotHands
}

// ItemType classifies an item for equip/use rules.
type ItemType string

const (
	ItemConsumable ItemType = "consumable"
	ItemEquipment  ItemType = "equipment"
	ItemMisc       ItemType = "misc"
)

// Item is a carryable object. Identity for duplicate detection and lookup
// is the exact Name; IDs are not guaranteed unique across item instances.
type Item struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Effect        string   `json:"effect,omitempty"` // free-text mechanical note
	Type          ItemType `json:"type"`
	Slot          Slot     `json:"slot,omitempty"`
	CapacityBonus int      `json:"capacity_bonus,omitempty"` // meaningful only for back-slot items
	Price         int      `json:"price,omitempty"`
}

// StatusEffect is a named condition attached to a roster entity.
// Duration counts remaining turns; 0 means indefinite until cleared.
// The engine does not deduplicate same-named effects.
type StatusEffect struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
}
