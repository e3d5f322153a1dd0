package symtab

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/remap"
)

//go:embed data/*.toml
var dataFS embed.FS

// Reduction is a named built-in remap dictionary. Source is the alphabet
// whose IPA output the dictionary reduces.
type Reduction struct {
	Name        string
	Description string
	Source      phonecode.Alphabet
	Dictionary  *remap.Dictionary
}

// Registry is the immutable set of tables and reductions. It is safe for
// concurrent use.
type Registry struct {
	tables      map[Key]*Table
	keys        []Key
	reductions  map[string]*Reduction
	names       []string
	inventories map[string]Inventory
}

// Embedded returns the file system holding the built-in table data.
func Embedded() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return LoadFS(Embedded())
})

// Default returns the registry built from the embedded data. It is loaded
// once per process.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// Load reads the embedded data and then every directory in dirs. Tables in
// a later source replace tables with the same key from an earlier one.
// Empty dir names are skipped.
func Load(dirs ...string) (*Registry, error) {
	sources := []fs.FS{Embedded()}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("table dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("table dir %s: not a directory", dir)
		}
		sources = append(sources, os.DirFS(dir))
	}
	return LoadFS(sources...)
}

// LoadFS builds a registry from table files at the root of each file
// system. inventories.toml and reductions.toml are read first; every other
// *.toml file is a table.
func LoadFS(sources ...fs.FS) (*Registry, error) {
	r := &Registry{
		tables:      make(map[Key]*Table),
		reductions:  make(map[string]*Reduction),
		inventories: make(map[string]Inventory),
	}

	for _, fsys := range sources {
		names, err := tomlFiles(fsys)
		if err != nil {
			return nil, err
		}
		if slices.Contains(names, inventoriesFile) {
			var f inventoryFile
			if err := decodeFile(fsys, inventoriesFile, &f); err != nil {
				return nil, err
			}
			for name, symbols := range f.Inventories {
				r.inventories[name] = NewInventory(symbols...)
			}
		}
	}

	for _, fsys := range sources {
		names, err := tomlFiles(fsys)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			switch name {
			case inventoriesFile:
				continue
			case reductionsFile:
				var f reductionFile
				if err := decodeFile(fsys, name, &f); err != nil {
					return nil, err
				}
				reductions, err := f.build(name)
				if err != nil {
					return nil, err
				}
				for _, red := range reductions {
					r.addReduction(red)
				}
				continue
			}

			var f tableFile
			if err := decodeFile(fsys, name, &f); err != nil {
				return nil, err
			}
			tables, err := f.buildTables(name, r.inventories)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			for _, t := range tables {
				r.addTable(t)
			}
		}
	}
	return r, nil
}

func (r *Registry) addTable(t *Table) {
	if _, exists := r.tables[t.key]; !exists {
		r.keys = append(r.keys, t.key)
	}
	r.tables[t.key] = t
}

func (r *Registry) addReduction(red *Reduction) {
	if _, exists := r.reductions[red.Name]; !exists {
		r.names = append(r.names, red.Name)
	}
	r.reductions[red.Name] = red
}

// Lookup returns the table for (source, target, language). A table
// declared without a language serves every language.
func (r *Registry) Lookup(source, target phonecode.Alphabet, lang phonecode.Language) (*Table, bool) {
	if t, ok := r.tables[Key{Source: source, Target: target, Language: lang}]; ok {
		return t, true
	}
	t, ok := r.tables[Key{Source: source, Target: target}]
	return t, ok
}

// Tables returns every table ordered by source, target and language.
func (r *Registry) Tables() []*Table {
	keys := slices.Clone(r.keys)
	slices.SortFunc(keys, compareKeys)
	out := make([]*Table, len(keys))
	for i, k := range keys {
		out[i] = r.tables[k]
	}
	return out
}

// Keys returns the keys of all tables, ordered like Tables.
func (r *Registry) Keys() []Key {
	keys := slices.Clone(r.keys)
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b Key) int {
	switch {
	case a.Source != b.Source:
		return int(a.Source) - int(b.Source)
	case a.Target != b.Target:
		return int(a.Target) - int(b.Target)
	default:
		return int(a.Language) - int(b.Language)
	}
}

// Reduction returns the built-in dictionary with the given name.
func (r *Registry) Reduction(name string) (*Reduction, bool) {
	red, ok := r.reductions[name]
	return red, ok
}

// Reductions returns the built-in dictionaries in load order.
func (r *Registry) Reductions() []*Reduction {
	out := make([]*Reduction, len(r.names))
	for i, name := range r.names {
		out[i] = r.reductions[name]
	}
	return out
}
