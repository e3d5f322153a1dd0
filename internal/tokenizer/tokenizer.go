// Package tokenizer splits a transcription into the symbols of its
// alphabet.
//
// Input is split on whitespace into fields and every field is segmented by
// greedy longest match against the source inventory of a symbol table.
// Fields need not hold one symbol each: TIMIT and Buckeye are often written
// unspaced and DISC never separates its one-character symbols. Where no
// symbol matches, the single grapheme cluster at that position becomes an
// unknown symbol and segmentation continues after it.
package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/symtab"
	"github.com/example/go-phonecodes/internal/text"
)

// Inventory is the set of symbols a transcription is segmented with.
type Inventory interface {
	Contains(symbol string) bool
	// MaxLen is the byte length of the longest symbol.
	MaxLen() int
}

// Options control a Tokenizer.
type Options struct {
	// FoldUpper upper-cases input before segmentation.
	FoldUpper bool
	// RequireInput makes input without symbols a MalformedInputError.
	RequireInput bool
}

// Tokenizer segments transcriptions of one alphabet. It holds no state
// between calls and is safe for concurrent use.
type Tokenizer struct {
	alphabet  phonecode.Alphabet
	inventory Inventory
	opts      Options
}

// New returns a Tokenizer for alphabet using inv.
func New(alphabet phonecode.Alphabet, inv Inventory, opts Options) *Tokenizer {
	return &Tokenizer{alphabet: alphabet, inventory: inv, opts: opts}
}

// ForTable returns a Tokenizer for the source side of table. Case folding
// follows the table.
func ForTable(table *symtab.Table, opts Options) *Tokenizer {
	opts.FoldUpper = opts.FoldUpper || table.FoldUpper()
	return New(table.Source(), table.Sources(), opts)
}

// Encode splits input into symbols. The first symbol of every field after
// the first has Space set.
func (t *Tokenizer) Encode(input string) ([]phonecode.Symbol, error) {
	s := text.Normalize(input, t.alphabet == phonecode.IPA)
	if t.opts.FoldUpper {
		s = text.Upper(s)
	}

	var out []phonecode.Symbol
	for i, field := range strings.Fields(s) {
		start := len(out)
		out = t.appendField(out, field)
		if i > 0 && len(out) > start {
			out[start].Space = true
		}
	}

	if len(out) == 0 && t.opts.RequireInput {
		return nil, &phonecode.MalformedInputError{Alphabet: t.alphabet, Input: input}
	}
	return out, nil
}

func (t *Tokenizer) appendField(out []phonecode.Symbol, field string) []phonecode.Symbol {
	for pos := 0; pos < len(field); {
		if n := t.longest(field[pos:]); n > 0 {
			out = append(out, phonecode.Symbol{Text: field[pos : pos+n], Known: true})
			pos += n
			continue
		}
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(field[pos:], -1)
		out = append(out, phonecode.Symbol{Text: cluster})
		pos += len(cluster)
	}
	return out
}

// longest returns the byte length of the longest inventory symbol that
// prefixes s, or 0.
func (t *Tokenizer) longest(s string) int {
	for n := min(len(s), t.inventory.MaxLen()); n > 0; n-- {
		if n < len(s) && !utf8.RuneStart(s[n]) {
			continue
		}
		if t.inventory.Contains(s[:n]) {
			return n
		}
	}
	return 0
}
