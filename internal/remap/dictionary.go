// Package remap implements the greedy post-conversion pass that rewrites an
// IPA transcription onto a reduced symbol inventory.
//
// A Dictionary is an ordered list of key/value pairs. Apply scans the text
// left to right and, at every grapheme cluster boundary, replaces the first
// key (in declaration order, not by length) that matches and ends on a
// cluster boundary. Replacements are never rescanned, so the caller orders
// overlapping keys from most to least specific. A base symbol key does not
// match a cluster that carries extra diacritics: {ʌ: ə} leaves ʌ̃ alone.
// A key that starts with a combining mark is the exception and matches
// inside a cluster, so {◌̃: ""} strips nasalisation from every vowel.
package remap

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/example/go-phonecodes/internal/text"
)

// Pair is one ordered replacement rule. An empty Value deletes the key.
type Pair struct {
	Key   string
	Value string
}

// Dictionary is an immutable, ordered set of replacement rules.
type Dictionary struct {
	pairs []Pair
}

// ErrEmptyKey is returned when a rule has an empty key.
var ErrEmptyKey = errors.New("remap key must not be empty")

// New builds a Dictionary. Keys and values are normalized the same way IPA
// tables are. Duplicate or empty keys are rejected.
func New(pairs ...Pair) (*Dictionary, error) {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for i, p := range pairs {
		key := text.Normalize(p.Key, true)
		if key == "" {
			return nil, fmt.Errorf("rule %d: %w", i+1, ErrEmptyKey)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("rule %d: duplicate key %q", i+1, p.Key)
		}
		seen[key] = struct{}{}
		out = append(out, Pair{Key: key, Value: text.Normalize(p.Value, true)})
	}
	return &Dictionary{pairs: out}, nil
}

// MustNew is New for package-level literals. It panics on invalid input.
func MustNew(pairs ...Pair) *Dictionary {
	d, err := New(pairs...)
	if err != nil {
		panic(err)
	}
	return d
}

// FromStrings builds a Dictionary from [key, value] rows, as decoded from
// TOML or JSON arrays.
func FromStrings(rows [][]string) (*Dictionary, error) {
	pairs := make([]Pair, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("rule %d: want [key, value], got %d fields", i+1, len(row))
		}
		pairs = append(pairs, Pair{Key: row[0], Value: row[1]})
	}
	return New(pairs...)
}

// Pairs returns a copy of the rules in declaration order.
func (d *Dictionary) Pairs() []Pair {
	if d == nil {
		return nil
	}
	return append([]Pair(nil), d.pairs...)
}

// Len returns the number of rules.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pairs)
}

// Lookup returns the value for key.
func (d *Dictionary) Lookup(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	key = text.Normalize(key, true)
	for _, p := range d.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParseDictionary parses "key=value,key=value" rules. An empty value
// ("ʔ=") deletes the key.
func ParseDictionary(s string) (*Dictionary, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return New()
	}
	var pairs []Pair
	for i, field := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("rule %d %q: missing '='", i+1, field)
		}
		pairs = append(pairs, Pair{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return New(pairs...)
}

type dictionaryFile struct {
	Pairs [][]string `toml:"pairs"`
}

// LoadDictionary reads a TOML document holding an ordered `pairs` array:
//
//	pairs = [["ʌ̃", "ə"], ["ʌ", "ə"], ["ʔ", ""]]
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	var f dictionaryFile
	if err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode remap dictionary: %w", err)
	}
	return FromStrings(f.Pairs)
}
