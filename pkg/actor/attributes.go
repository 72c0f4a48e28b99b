// Package actor defines the roster entities of a game session: player
// characters and the enemy, ally, and neutral NPC rosters the Oracle
// replaces each turn.
package actor

import "fmt"

// Attributes are the eight core stats, conventionally 1-10 each.
type Attributes struct {
	For int `json:"for"` // strength
	Des int `json:"des"` // dexterity
	Con int `json:"con"` // constitution
	Int int `json:"int"` // intelligence
	Sab int `json:"sab"` // wisdom
	Car int `json:"car"` // charisma
	Agi int `json:"agi"` // agility
	Sor int `json:"sor"` // luck
}

// AttributeNames lists the stat codes in display order.
var AttributeNames = []string{"FOR", "DES", "CON", "INT", "SAB", "CAR", "AGI", "SOR"}

// Values returns the stats keyed by code, in the same order as AttributeNames.
func (a Attributes) Values() map[string]int {
	return map[string]int{
		"FOR": a.For, "DES": a.Des, "CON": a.Con, "INT": a.Int,
		"SAB": a.Sab, "CAR": a.Car, "AGI": a.Agi, "SOR": a.Sor,
	}
}

// Modifier is the display modifier for a stat value.
func Modifier(value int) int {
	return value - 2
}

// Validate checks that every stat is within the conventional 1-10 range.
func (a Attributes) Validate() error {
	for _, name := range AttributeNames {
		v := a.Values()[name]
		if v < 1 || v > 10 {
			return fmt.Errorf("attribute %s out of range: %d", name, v)
		}
	}
	return nil
}

// Pools are the three mutable resource pools. They are derived from
// attributes exactly once at character creation and mutated only through
// resource-change deltas afterwards.
type Pools struct {
	HP      int `json:"hp"`
	Mana    int `json:"mana"`
	Stamina int `json:"stamina"`
}

// DerivePools computes the creation-time resource pools:
// hp = 10 + CON*5, stamina = 5 + (FOR+AGI)*2, mana = 5 + INT*3.
func DerivePools(a Attributes) Pools {
	return Pools{
		HP:      10 + a.Con*5,
		Stamina: 5 + (a.For+a.Agi)*2,
		Mana:    5 + a.Int*3,
	}
}
