package convert

import (
	"slices"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/symtab"
)

// AttachStress merges stress or tone markers into the vowel that governs
// them. The scan runs in the rule's search direction; once a marker has
// been seen, the next vowel in that direction absorbs it, before or after
// its own text. A marker with no vowel in the search direction stays where
// it is. If a second marker is seen before a vowel, the earlier one is left
// in place.
//
// A removed marker hands its Space flag to the symbol that follows it.
func AttachStress(symbols []phonecode.Symbol, rule *symtab.StressRule) []phonecode.Symbol {
	out := slices.Clone(symbols)

	step, i := 1, 0
	if rule.Search == symtab.Backward {
		step, i = -1, len(out)-1
	}

	marker := -1
	for i >= 0 && i < len(out) {
		text := out[i].Text
		switch {
		case rule.IsMarker(text):
			marker = i
		case marker >= 0 && rule.IsVowel(text):
			m := out[marker]
			if rule.Placement == symtab.After {
				out[i].Text = text + m.Text
			} else {
				out[i].Text = m.Text + text
			}
			out = removeSymbol(out, marker)
			if marker < i {
				i--
			}
			marker = -1
		}
		i += step
	}
	return out
}

func removeSymbol(symbols []phonecode.Symbol, i int) []phonecode.Symbol {
	if symbols[i].Space && i+1 < len(symbols) {
		symbols[i+1].Space = true
	}
	return slices.Delete(symbols, i, i+1)
}
