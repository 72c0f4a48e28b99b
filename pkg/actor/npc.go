package actor

// Difficulty tiers for enemies.
type Difficulty string

const (
	DifficultyMinion Difficulty = "Minion"
	DifficultyElite  Difficulty = "Elite"
	DifficultyBoss   Difficulty = "Boss"
)

// Enemy is a hostile roster entity. The enemy roster is replaced wholesale
// by each Oracle response.
type Enemy struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Difficulty     Difficulty     `json:"difficulty"`
	CurrentHP      int            `json:"current_hp"`
	MaxHP          int            `json:"max_hp"`
	CurrentMana    int            `json:"current_mana,omitempty"`
	MaxMana        int            `json:"max_mana,omitempty"`
	CurrentStamina int            `json:"current_stamina,omitempty"`
	MaxStamina     int            `json:"max_stamina,omitempty"`
	Skills         []Skill        `json:"skills,omitempty"`
	Status         []StatusEffect `json:"status"`
}

// Ally is a friendly resource-bearing roster entity.
type Ally struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	CurrentHP      int            `json:"current_hp"`
	MaxHP          int            `json:"max_hp"`
	CurrentMana    int            `json:"current_mana,omitempty"`
	MaxMana        int            `json:"max_mana,omitempty"`
	CurrentStamina int            `json:"current_stamina,omitempty"`
	MaxStamina     int            `json:"max_stamina,omitempty"`
	Status         []StatusEffect `json:"status"`
}

// NeutralNPC is a non-aligned roster entity. Merchants carry their own
// sellable catalog, separate from any player inventory.
type NeutralNPC struct {
	Name       string         `json:"name"`
	Role       string         `json:"role,omitempty"`
	IsMerchant bool           `json:"is_merchant,omitempty"`
	ShopItems  []Item         `json:"shop_items,omitempty"`
	CurrentHP  int            `json:"current_hp,omitempty"`
	MaxHP      int            `json:"max_hp,omitempty"`
	Status     []StatusEffect `json:"status"`
}
