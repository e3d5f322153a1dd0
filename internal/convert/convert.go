// Package convert maps tokenized symbols through a symbol table.
package convert

import (
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/symtab"
)

// Options control a conversion.
type Options struct {
	// Strict rejects unmapped symbols even when the table passes them
	// through.
	Strict bool
}

// Convert rewrites symbols with table. At each position the entry with the
// longest source sequence wins; whitespace between the symbols of a
// multi-symbol entry is ignored. The emitted symbol keeps the Space flag of
// the first symbol it consumed.
//
// Deleted symbols (empty targets) are removed and their Space flag moves to
// the next symbol, then the table's stress rule, if any, is applied. The
// input slice is not modified.
func Convert(symbols []phonecode.Symbol, table *symtab.Table, opts Options) ([]phonecode.Symbol, error) {
	strict := opts.Strict || !table.Passthrough()
	texts := phonecode.Texts(symbols)

	out := make([]phonecode.Symbol, 0, len(symbols))
	for i := 0; i < len(symbols); {
		entry, ok := table.Match(texts[i:])
		if !ok {
			if strict {
				return nil, &phonecode.UnsupportedSymbolError{
					Symbol:   symbols[i].Text,
					Source:   table.Source(),
					Target:   table.Target(),
					Language: table.Language(),
				}
			}
			out = append(out, phonecode.Symbol{Text: symbols[i].Text, Space: symbols[i].Space})
			i++
			continue
		}
		out = append(out, phonecode.Symbol{Text: entry.Target, Space: symbols[i].Space, Known: true})
		i += len(entry.Source)
	}

	out = dropEmpty(out)
	if rule := table.Stress(); rule != nil {
		out = AttachStress(out, rule)
	}
	return out, nil
}

func dropEmpty(symbols []phonecode.Symbol) []phonecode.Symbol {
	out := symbols[:0]
	carry := false
	for _, s := range symbols {
		if s.Text == "" {
			carry = carry || s.Space
			continue
		}
		if carry {
			s.Space = true
			carry = false
		}
		out = append(out, s)
	}
	return out
}

// Render joins symbols into a transcription. A space is written before
// every symbol that has Space set, except the first.
func Render(symbols []phonecode.Symbol) string {
	var b strings.Builder
	for _, s := range symbols {
		if s.Space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
