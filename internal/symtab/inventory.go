package symtab

import "slices"

// Inventory is an immutable set of symbols.
type Inventory struct {
	set    map[string]struct{}
	maxLen int
}

// NewInventory builds an inventory. Empty strings are ignored.
func NewInventory(symbols ...string) Inventory {
	inv := Inventory{set: make(map[string]struct{}, len(symbols))}
	for _, s := range symbols {
		if s == "" {
			continue
		}
		inv.set[s] = struct{}{}
		inv.maxLen = max(inv.maxLen, len(s))
	}
	return inv
}

// Contains reports whether s is in the inventory.
func (i Inventory) Contains(s string) bool {
	_, ok := i.set[s]
	return ok
}

// MaxLen is the byte length of the longest symbol.
func (i Inventory) MaxLen() int { return i.maxLen }

func (i Inventory) Len() int { return len(i.set) }

// Symbols returns the symbols sorted by byte value.
func (i Inventory) Symbols() []string {
	out := make([]string, 0, len(i.set))
	for s := range i.set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// ContainsRune reports whether any single character of s is in the
// inventory.
func (i Inventory) ContainsRune(s string) bool {
	for _, r := range s {
		if i.Contains(string(r)) {
			return true
		}
	}
	return false
}
