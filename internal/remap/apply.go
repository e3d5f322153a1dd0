package remap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/example/go-phonecodes/internal/text"
)

// Apply rewrites s with d. See the package documentation for the matching
// rules. Apply is pure and safe for concurrent use.
func Apply(s string, d *Dictionary) string {
	if d.Len() == 0 || s == "" {
		return s
	}
	s = text.Normalize(s, true)

	bounds := clusterBoundaries(s)

	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for pos < len(s) {
		if p, ok := d.match(s, pos, bounds); ok {
			b.WriteString(p.Value)
			pos += len(p.Key)
			continue
		}
		_, size := utf8.DecodeRuneInString(s[pos:])
		b.WriteString(s[pos : pos+size])
		pos += size
	}
	return b.String()
}

// match returns the first pair whose key is at pos. Keys starting with a
// combining mark match anywhere; all others must span whole clusters.
func (d *Dictionary) match(s string, pos int, bounds []bool) (Pair, bool) {
	for _, p := range d.pairs {
		end := pos + len(p.Key)
		if end > len(s) || s[pos:end] != p.Key {
			continue
		}
		if (bounds[pos] && bounds[end]) || startsWithMark(p.Key) {
			return p, true
		}
	}
	return Pair{}, false
}

func startsWithMark(key string) bool {
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.In(r, unicode.Mn, unicode.Me)
}

// ApplySymbols remaps each symbol independently.
func ApplySymbols(symbols []string, d *Dictionary) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = Apply(s, d)
	}
	return out
}

// clusterBoundaries marks every byte offset of s that starts or ends a
// grapheme cluster.
func clusterBoundaries(s string) []bool {
	bounds := make([]bool, len(s)+1)
	bounds[0] = true
	offset := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(cluster)
		bounds[offset] = true
	}
	return bounds
}
