// Package doctor provides integrity checks for the symbol tables and remap
// dictionaries phonecodes converts with.
package doctor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/example/go-phonecodes/internal/symtab"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// RegistryFunc loads the tables to check.
type RegistryFunc func() (*symtab.Registry, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Registry loads the built-in tables plus any table directory.
	Registry RegistryFunc
	// MappingFiles are user remap dictionaries (TOML) to validate.
	MappingFiles []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- tables -----------------------------------------------------------
	load := cfg.Registry
	if load == nil {
		load = symtab.Default
	}
	reg, err := load()
	if err != nil {
		res.fail(fmt.Sprintf("tables: %v", err))
		fmt.Fprintf(w, "%s tables: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s tables: %d loaded, %d reductions\n", PassMark, len(reg.Tables()), len(reg.Reductions()))
		checkCoverage(reg, w, &res)
		checkStress(reg, w, &res)
		checkReductions(reg, w, &res)
	}

	// ---- mapping files ----------------------------------------------------
	for _, path := range cfg.MappingFiles {
		if msg := checkMappingFile(path, reg); msg != "" {
			res.fail(fmt.Sprintf("mapping file %q: %s", path, msg))
			fmt.Fprintf(w, "%s mapping file %s: %s\n", FailMark, path, msg)
		} else {
			fmt.Fprintf(w, "%s mapping file: %s\n", PassMark, path)
		}
	}

	return res
}

// checkCoverage verifies every alphabet converts to IPA in each of its
// languages, and back again unless it is TIMIT.
func checkCoverage(reg *symtab.Registry, w io.Writer, res *Result) {
	for _, a := range phonecode.Alphabets() {
		if a == phonecode.IPA {
			continue
		}
		langs := a.Policy().Allowed
		if len(langs) == 0 {
			langs = []phonecode.Language{phonecode.LanguageUnspecified}
		}

		var missing []string
		for _, lang := range langs {
			keys := []symtab.Key{{Source: a, Target: phonecode.IPA, Language: lang}}
			if a != phonecode.TIMIT {
				keys = append(keys, symtab.Key{Source: phonecode.IPA, Target: a, Language: lang})
			}
			for _, k := range keys {
				if _, ok := reg.Lookup(k.Source, k.Target, k.Language); !ok {
					missing = append(missing, k.String())
				}
			}
		}

		if len(missing) > 0 {
			res.fail(fmt.Sprintf("coverage %s: missing %s", a, strings.Join(missing, ", ")))
			fmt.Fprintf(w, "%s coverage %s: missing %s\n", FailMark, a, strings.Join(missing, ", "))
			continue
		}
		fmt.Fprintf(w, "%s coverage: %s\n", PassMark, a)
	}
}

// checkStress verifies that stress and tone rules can find a vowel.
func checkStress(reg *symtab.Registry, w io.Writer, res *Result) {
	for _, t := range reg.Tables() {
		rule := t.Stress()
		if rule == nil {
			continue
		}
		if rule.Vowels.Len() == 0 || len(rule.Markers) == 0 {
			res.fail(fmt.Sprintf("stress rule %s: no vowels or markers", t.Key()))
			fmt.Fprintf(w, "%s stress rule %s: no vowels or markers\n", FailMark, t.Key())
		}
	}
}

// checkReductions verifies that no reduction cascades and that every key is
// produced by the table of its source alphabet.
func checkReductions(reg *symtab.Registry, w io.Writer, res *Result) {
	for _, red := range reg.Reductions() {
		var problems []string
		for _, c := range remap.CascadingKeys(red.Dictionary) {
			problems = append(problems, fmt.Sprintf("%q feeds %q", c.Earlier, c.Later))
		}
		if table, ok := reg.Lookup(red.Source, phonecode.IPA, phonecode.LanguageUnspecified); ok {
			if extra := remap.ExtraKeys(red.Dictionary, table.Targets().Contains); len(extra) > 0 {
				problems = append(problems, "keys outside "+red.Source.String()+" output: "+strings.Join(extra, " "))
			}
		}

		if len(problems) > 0 {
			msg := strings.Join(problems, "; ")
			res.fail(fmt.Sprintf("reduction %s: %s", red.Name, msg))
			fmt.Fprintf(w, "%s reduction %s: %s\n", FailMark, red.Name, msg)
			continue
		}
		fmt.Fprintf(w, "%s reduction: %s\n", PassMark, red.Name)
	}
}

// checkMappingFile returns a problem description, or "" when the file is a
// usable dictionary.
func checkMappingFile(path string, reg *symtab.Registry) string {
	f, err := os.Open(path)
	if err != nil {
		return "not readable"
	}
	defer f.Close()

	d, err := remap.LoadDictionary(f)
	if err != nil {
		return err.Error()
	}
	if cascades := remap.CascadingKeys(d); len(cascades) > 0 {
		return fmt.Sprintf("cascading keys %q and %q", cascades[0].Earlier, cascades[0].Later)
	}
	if reg != nil && !producible(reg, d) {
		return "keys never produced by any ipa table"
	}
	return ""
}

// producible reports whether every key of d is produced by some table
// targeting IPA.
func producible(reg *symtab.Registry, d *remap.Dictionary) bool {
	var tables []*symtab.Table
	for _, t := range reg.Tables() {
		if t.Target() == phonecode.IPA {
			tables = append(tables, t)
		}
	}
	extra := remap.ExtraKeys(d, func(s string) bool {
		for _, t := range tables {
			if t.Targets().Contains(s) {
				return true
			}
		}
		return false
	})
	return len(extra) == 0
}
