package pantry

import "strings"

// Normalize lowercases a name or unit and strips a single trailing "s".
// This is the sole plural/case reconciliation mechanism. It is deliberately
// crude ("gas" becomes "ga"); matching behavior depends on it staying exactly
// this crude, so do not swap in real lemmatization.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "s") {
		s = strings.TrimSuffix(s, "s")
	}
	return s
}

// stapleNames are assumed always sufficiently available and are excluded from
// feasibility and shopping-list math. The list covers salt, pepper, oil,
// water and sugar across the locales the app ships in (English, Swedish,
// German, French, Spanish, Italian, Croatian). Matched by substring
// containment on the normalized ingredient name, so "sea salt" and
// "olive oil" count as staples too.
var stapleNames = []string{
	"salt", "sal", "sel", "salz", "sale", "sol",
	"pepper", "peppar", "pfeffer", "poivre", "pimienta", "pepe", "papar",
	"oil", "olja", "öl", "huile", "aceite", "olio", "ulje",
	"water", "vatten", "wasser", "eau", "agua", "acqua", "voda",
	"sugar", "socker", "zucker", "sucre", "azúcar", "zucchero", "šećer",
}

// IsStaple reports whether the ingredient name is a pantry staple.
func IsStaple(name string) bool {
	n := Normalize(name)
	for _, staple := range stapleNames {
		if strings.Contains(n, staple) {
			return true
		}
	}
	return false
}

// discreteUnits are tokens for countable whole items, interchangeable with
// each other for matching. Stored in normalized form; every other unit must
// match exactly after normalization.
var discreteUnits = map[string]struct{}{
	"unit":   {},
	"piece":  {},
	"item":   {},
	"pc":     {},
	"st":     {},
	"stk":    {},
	"stück":  {},
	"pièce":  {},
	"pieza":  {},
	"unidad": {},
	"pezzo":  {},
	"komad":  {},
	"unité":  {},
}

func isDiscreteUnit(normalized string) bool {
	_, ok := discreteUnits[normalized]
	return ok
}

// UnitsCompatible reports whether two unit strings may be compared: either
// identical after normalization, or both members of the discrete-unit class.
func UnitsCompatible(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	return isDiscreteUnit(na) && isDiscreteUnit(nb)
}
