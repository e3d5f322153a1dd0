// Package symtab holds the symbol mapping tables that drive a conversion.
//
// A Table maps ordered sequences of source symbols to target strings for one
// (source, target, language) triple. Tables are immutable once built and are
// grouped in a Registry, which is loaded from the TOML files embedded in this
// package and, optionally, from a user directory.
package symtab

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/text"
)

var (
	// ErrDuplicateEntry is returned when two entries share a source sequence.
	ErrDuplicateEntry = errors.New("duplicate source sequence")
	// ErrEmptySource is returned for an entry without source symbols.
	ErrEmptySource = errors.New("entry has no source symbols")
)

// Key identifies a table.
type Key struct {
	Source   phonecode.Alphabet
	Target   phonecode.Alphabet
	Language phonecode.Language
}

func (k Key) String() string {
	s := k.Source.String() + "->" + k.Target.String()
	if k.Language != phonecode.LanguageUnspecified {
		s += " (" + k.Language.String() + ")"
	}
	return s
}

// Entry maps a sequence of source symbols onto one target string. An empty
// Target deletes the matched symbols.
type Entry struct {
	Source []string
	Target string
}

// SourceText returns the source sequence joined with single spaces.
func (e Entry) SourceText() string { return strings.Join(e.Source, " ") }

// Options are the per-table flags.
type Options struct {
	// Passthrough keeps unmapped symbols instead of failing.
	Passthrough bool
	// FoldUpper upper-cases input before matching.
	FoldUpper bool
	// Closures lists source symbols that have no counterpart outside IPA.
	Closures []string
	// Stress attaches marker symbols to vowels after conversion.
	Stress *StressRule
	// Origin names the file the table was read from.
	Origin string
}

// Table is an immutable mapping for one Key.
type Table struct {
	key     Key
	entries []Entry
	opts    Options

	sources Inventory
	targets Inventory
	// index maps a first source symbol to entry positions, longest
	// sequence first and declaration order within equal lengths.
	index map[string][]int
}

// New validates and normalizes entries and builds a table.
func New(key Key, entries []Entry, opts Options) (*Table, error) {
	if !key.Source.Valid() || !key.Target.Valid() {
		return nil, fmt.Errorf("table %s: invalid alphabet", key)
	}
	if key.Source == key.Target {
		return nil, fmt.Errorf("table %s: source and target are the same alphabet", key)
	}

	t := &Table{
		key:   key,
		opts:  opts,
		index: make(map[string][]int),
	}
	t.opts.Closures = nil
	for _, c := range opts.Closures {
		t.opts.Closures = append(t.opts.Closures, t.normalizeSource(c))
	}

	seen := make(map[string]int, len(entries))
	var sources, targets []string
	for i, e := range entries {
		if len(e.Source) == 0 {
			return nil, fmt.Errorf("table %s: entry %d: %w", key, i+1, ErrEmptySource)
		}
		src := make([]string, 0, len(e.Source))
		for _, s := range e.Source {
			s = t.normalizeSource(s)
			if s == "" {
				return nil, fmt.Errorf("table %s: entry %d: %w", key, i+1, ErrEmptySource)
			}
			src = append(src, s)
		}
		entry := Entry{Source: src, Target: text.Normalize(e.Target, key.Target == phonecode.IPA)}
		joined := entry.SourceText()
		if prev, dup := seen[joined]; dup {
			return nil, fmt.Errorf("table %s: entries %d and %d: %w %q", key, prev, i+1, ErrDuplicateEntry, joined)
		}
		seen[joined] = i + 1

		t.entries = append(t.entries, entry)
		sources = append(sources, src...)
		if entry.Target != "" {
			targets = append(targets, entry.Target)
		}
	}

	for i, e := range t.entries {
		t.index[e.Source[0]] = append(t.index[e.Source[0]], i)
	}
	for _, idx := range t.index {
		slices.SortStableFunc(idx, func(a, b int) int {
			return len(t.entries[b].Source) - len(t.entries[a].Source)
		})
	}

	t.sources = NewInventory(sources...)
	t.targets = NewInventory(targets...)
	return t, nil
}

func (t *Table) normalizeSource(s string) string {
	s = text.Normalize(strings.TrimSpace(s), t.key.Source == phonecode.IPA)
	if t.opts.FoldUpper {
		s = text.Upper(s)
	}
	return s
}

func (t *Table) Key() Key                     { return t.key }
func (t *Table) Source() phonecode.Alphabet   { return t.key.Source }
func (t *Table) Target() phonecode.Alphabet   { return t.key.Target }
func (t *Table) Language() phonecode.Language { return t.key.Language }
func (t *Table) Len() int                     { return len(t.entries) }
func (t *Table) Passthrough() bool            { return t.opts.Passthrough }
func (t *Table) FoldUpper() bool              { return t.opts.FoldUpper }
func (t *Table) Stress() *StressRule          { return t.opts.Stress }
func (t *Table) Origin() string               { return t.opts.Origin }

// Sources is the inventory of source symbols the tokenizer segments with.
func (t *Table) Sources() Inventory { return t.sources }

// Targets is the set of non-empty target strings the table can produce.
func (t *Table) Targets() Inventory { return t.targets }

// Entries returns a copy of the entries in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Source: slices.Clone(e.Source), Target: e.Target}
	}
	return out
}

// Closures returns the closure symbols in declaration order.
func (t *Table) Closures() []string { return slices.Clone(t.opts.Closures) }

// IsClosure reports whether symbol is a closure of this table.
func (t *Table) IsClosure(symbol string) bool {
	return slices.Contains(t.opts.Closures, symbol)
}

// Match returns the entry that consumes the most of next, or false. next is
// the remaining input, one string per symbol.
func (t *Table) Match(next []string) (Entry, bool) {
	if len(next) == 0 {
		return Entry{}, false
	}
	for _, i := range t.index[next[0]] {
		e := t.entries[i]
		if len(e.Source) <= len(next) && slices.Equal(e.Source, next[:len(e.Source)]) {
			return e, true
		}
	}
	return Entry{}, false
}

// Invert derives the opposite direction. Explicit entries come first; each
// single-symbol entry with a non-empty target then contributes target ->
// source unless that target was already claimed.
func (t *Table) Invert(explicit []Entry, opts Options) (*Table, error) {
	key := Key{Source: t.key.Target, Target: t.key.Source, Language: t.key.Language}
	ipa := key.Source == phonecode.IPA

	var entries []Entry
	claimed := make(map[string]bool)
	for _, e := range explicit {
		entries = append(entries, e)
		claimed[text.Normalize(strings.Join(e.Source, " "), ipa)] = true
	}
	for _, e := range t.entries {
		if len(e.Source) != 1 || e.Target == "" || claimed[e.Target] {
			continue
		}
		claimed[e.Target] = true
		entries = append(entries, Entry{Source: []string{e.Target}, Target: e.Source[0]})
	}
	return New(key, entries, opts)
}
