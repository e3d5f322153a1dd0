package remap

import "strings"

// Cascade names two rules where the value of Earlier occurs inside the key
// of Later. Apply never rescans output, so such pairs usually mean the
// dictionary is ordered differently from what its author intended.
type Cascade struct {
	Earlier string
	Later   string
}

// CascadingKeys lists every cascade in d. Rules with empty values are
// skipped.
func CascadingKeys(d *Dictionary) []Cascade {
	var out []Cascade
	pairs := d.Pairs()
	for i, p := range pairs {
		if p.Value == "" {
			continue
		}
		for _, later := range pairs[i+1:] {
			if strings.Contains(later.Key, p.Value) {
				out = append(out, Cascade{Earlier: p.Key, Later: later.Key})
			}
		}
	}
	return out
}

// ExtraKeys returns, in declaration order, the keys of d that the inventory
// does not produce.
func ExtraKeys(d *Dictionary, inventory func(string) bool) []string {
	var out []string
	for _, p := range d.Pairs() {
		if !inventory(p.Key) {
			out = append(out, p.Key)
		}
	}
	return out
}
