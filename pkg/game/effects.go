package game

import (
	"regexp"
	"strconv"
	"strings"
)

// Recovery is one numeric resource restoration parsed from an item effect.
type Recovery struct {
	Resource string
	Amount   int
}

// EffectInterpreter extracts mechanical recoveries from an item's
// free-text effect note. The free-text format is inherently fragile, so
// it stays behind this interface; a structured-effect format can replace
// the regex implementation without touching the rest of the engine.
type EffectInterpreter interface {
	Interpret(effect string) []Recovery
}

// effectPattern matches the original phrasing of consumable effects:
// a recovery verb (recupera/cura/ganha) or a bare "+", a number, and a
// resource keyword, e.g. "Recupera 10 HP" or "+5 de vigor".
var effectPattern = regexp.MustCompile(`(?i)(?:recupera|cura|ganha|restaura|\+)\s*(\d+)\s*(?:pontos?\s+de\s+|de\s+)?(hp|vida|pv|mana|stamina|vigor|energia)`)

// keywordInterpreter is the default EffectInterpreter.
type keywordInterpreter struct{}

// NewEffectInterpreter returns the keyword-matching interpreter.
func NewEffectInterpreter() EffectInterpreter {
	return keywordInterpreter{}
}

func (keywordInterpreter) Interpret(effect string) []Recovery {
	var out []Recovery
	for _, m := range effectPattern.FindAllStringSubmatch(effect, -1) {
		amount, err := strconv.Atoi(m[1])
		if err != nil || amount <= 0 {
			continue
		}
		out = append(out, Recovery{Resource: resourceKeyword(m[2]), Amount: amount})
	}
	return out
}

func resourceKeyword(word string) string {
	switch strings.ToLower(word) {
	case "hp", "vida", "pv":
		return ResourceHP
	case "mana":
		return ResourceMana
	default: // stamina, vigor, energia
		return ResourceStamina
	}
}
