package actor

// BaseInventoryCapacity is the bag size before any back-slot bonus.
const BaseInventoryCapacity = 7

// Skill is a character ability used by the Oracle for narrative resolution.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"` // "active" or "passive"
	Level       int    `json:"level"`
}

// Character is a player-controlled party member. Characters are never
// removed from the roster; death is a state, not a deletion.
type Character struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Concept     string     `json:"concept,omitempty"` // player-supplied character idea
	Description string     `json:"description,omitempty"`
	Skills      []Skill    `json:"skills,omitempty"`
	Attributes  Attributes `json:"attributes"`

	// Derived holds the current resource pools; MaxPools the creation-time
	// values. Derived is mutated only via resource-change deltas.
	Derived  Pools `json:"derived"`
	MaxPools Pools `json:"max_pools"`

	Items     []Item         `json:"items,omitempty"`
	Equipment map[Slot]Item  `json:"equipment,omitempty"`
	Status    []StatusEffect `json:"status,omitempty"`
	Wealth    int            `json:"wealth"`

	// Dead marks permanent death under permadeath rules. A character at
	// 0 HP who is not Dead is merely downed and can recover via healing.
	Dead bool `json:"dead,omitempty"`

	// SelectedDie is the die this character rolls each turn, e.g. "d20".
	SelectedDie string `json:"selected_die,omitempty"`
}

// Capacity is the bag limit: base capacity plus the equipped back item's bonus.
// Equipped items never count against capacity.
func (c *Character) Capacity() int {
	capacity := BaseInventoryCapacity
	if back, ok := c.Equipment[SlotBack]; ok {
		capacity += back.CapacityBonus
	}
	return capacity
}

// AtCapacity reports whether the bag is full.
func (c *Character) AtCapacity() bool {
	return len(c.Items) >= c.Capacity()
}

// HasItem reports whether the bag holds an item with the exact name.
func (c *Character) HasItem(name string) bool {
	return c.ItemIndex(name) >= 0
}

// ItemIndex returns the bag index of the named item, or -1.
func (c *Character) ItemIndex(name string) int {
	for i, item := range c.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// RemoveItemAt removes the bag item at index i and returns it.
func (c *Character) RemoveItemAt(i int) Item {
	item := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return item
}

// IsDowned reports whether the character is at 0 HP but not permanently dead.
func (c *Character) IsDowned() bool {
	return c.Derived.HP <= 0 && !c.Dead
}

// CanAct reports whether the character may declare actions this turn.
func (c *Character) CanAct() bool {
	return c.Derived.HP > 0 && !c.Dead
}
