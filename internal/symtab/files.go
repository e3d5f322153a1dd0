package symtab

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/example/go-phonecodes/internal/text"
)

const (
	inventoriesFile = "inventories.toml"
	reductionsFile  = "reductions.toml"
)

type tableFile struct {
	Source      string       `toml:"source"`
	Target      string       `toml:"target"`
	Language    string       `toml:"language"`
	Passthrough bool         `toml:"passthrough"`
	Fold        string       `toml:"fold"`
	Closures    []string     `toml:"closures"`
	Pairs       [][]string   `toml:"pairs"`
	Stress      *stressFile  `toml:"stress"`
	Reverse     *reverseFile `toml:"reverse"`
}

type reverseFile struct {
	Passthrough bool        `toml:"passthrough"`
	Pairs       [][]string  `toml:"pairs"`
	Stress      *stressFile `toml:"stress"`
}

type stressFile struct {
	Markers []string `toml:"markers"`
	Vowels  string   `toml:"vowels"`
	Search  string   `toml:"search"`
	Attach  string   `toml:"attach"`
}

type inventoryFile struct {
	Inventories map[string][]string `toml:"inventories"`
}

type reductionFile struct {
	Reductions []struct {
		Name        string     `toml:"name"`
		Description string     `toml:"description"`
		Source      string     `toml:"source"`
		Pairs       [][]string `toml:"pairs"`
	} `toml:"reduction"`
}

// tomlFiles lists the *.toml files at the root of fsys in name order.
func tomlFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read table dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".toml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("parse %s:%d:%d: %w", name, row, col, err)
		}
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func parsePairs(rows [][]string) ([]Entry, error) {
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("pair %d: want [source, target], got %d fields", i+1, len(row))
		}
		src := strings.Fields(row[0])
		if len(src) == 0 {
			return nil, fmt.Errorf("pair %d: %w", i+1, ErrEmptySource)
		}
		entries = append(entries, Entry{Source: src, Target: row[1]})
	}
	return entries, nil
}

func (f *tableFile) key() (Key, error) {
	src, err := phonecode.ParseAlphabet(f.Source)
	if err != nil {
		return Key{}, fmt.Errorf("source: %w", err)
	}
	dst, err := phonecode.ParseAlphabet(f.Target)
	if err != nil {
		return Key{}, fmt.Errorf("target: %w", err)
	}
	lang, err := phonecode.ParseLanguage(f.Language)
	if err != nil {
		return Key{}, err
	}
	return Key{Source: src, Target: dst, Language: lang}, nil
}

func (s *stressFile) rule(target phonecode.Alphabet, inventories map[string]Inventory) (*StressRule, error) {
	if s == nil {
		return nil, nil
	}
	vowels, ok := inventories[s.Vowels]
	if !ok {
		return nil, fmt.Errorf("stress: unknown vowel inventory %q", s.Vowels)
	}
	search, err := parseDirection(s.Search)
	if err != nil {
		return nil, fmt.Errorf("stress: %w", err)
	}
	place, err := parsePlacement(s.Attach)
	if err != nil {
		return nil, fmt.Errorf("stress: %w", err)
	}
	markers := make([]string, 0, len(s.Markers))
	for _, m := range s.Markers {
		markers = append(markers, text.Normalize(m, target == phonecode.IPA))
	}
	return &StressRule{Markers: markers, Vowels: vowels, Search: search, Placement: place}, nil
}

// buildTables turns one table file into its forward table and, when the
// file has a [reverse] section, the derived reverse table.
func (f *tableFile) buildTables(origin string, inventories map[string]Inventory) ([]*Table, error) {
	key, err := f.key()
	if err != nil {
		return nil, err
	}
	var fold bool
	switch strings.ToLower(f.Fold) {
	case "":
	case "upper":
		fold = true
	default:
		return nil, fmt.Errorf("unknown fold %q", f.Fold)
	}

	entries, err := parsePairs(f.Pairs)
	if err != nil {
		return nil, err
	}
	stress, err := f.Stress.rule(key.Target, inventories)
	if err != nil {
		return nil, err
	}
	forward, err := New(key, entries, Options{
		Passthrough: f.Passthrough,
		FoldUpper:   fold,
		Closures:    f.Closures,
		Stress:      stress,
		Origin:      origin,
	})
	if err != nil {
		return nil, err
	}
	if f.Reverse == nil {
		return []*Table{forward}, nil
	}

	explicit, err := parsePairs(f.Reverse.Pairs)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	rstress, err := f.Reverse.Stress.rule(key.Source, inventories)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	reverse, err := forward.Invert(explicit, Options{
		Passthrough: f.Reverse.Passthrough,
		Stress:      rstress,
		Origin:      origin,
	})
	if err != nil {
		return nil, err
	}
	return []*Table{forward, reverse}, nil
}

func (f *reductionFile) build(origin string) ([]*Reduction, error) {
	out := make([]*Reduction, 0, len(f.Reductions))
	for _, r := range f.Reductions {
		if r.Name == "" {
			return nil, fmt.Errorf("%s: reduction without a name", origin)
		}
		src, err := phonecode.ParseAlphabet(r.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: reduction %s: %w", origin, r.Name, err)
		}
		dict, err := remap.FromStrings(r.Pairs)
		if err != nil {
			return nil, fmt.Errorf("%s: reduction %s: %w", origin, r.Name, err)
		}
		out = append(out, &Reduction{
			Name:        r.Name,
			Description: r.Description,
			Source:      src,
			Dictionary:  dict,
		})
	}
	return out, nil
}
