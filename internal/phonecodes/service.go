// Package phonecodes converts transcriptions between phonetic alphabets.
//
// Every conversion goes through IPA: one side of a direction must be IPA.
// A Service resolves the direction and language, picks the symbol table,
// then tokenizes, converts and renders the input. An optional remap
// dictionary is applied to IPA output as a last step.
package phonecodes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/go-phonecodes/internal/config"
	"github.com/example/go-phonecodes/internal/convert"
	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/example/go-phonecodes/internal/symtab"
	"github.com/example/go-phonecodes/internal/text"
	"github.com/example/go-phonecodes/internal/tokenizer"
)

// Service converts transcriptions using the tables of one registry. It is
// safe for concurrent use.
type Service struct {
	registry *symtab.Registry
	logger   *slog.Logger
	strict   bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for conversion diagnostics.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrict makes every table reject unmapped symbols.
func WithStrict(strict bool) ServiceOption {
	return func(s *Service) { s.strict = strict }
}

// NewService returns a Service over reg.
func NewService(reg *symtab.Registry, opts ...ServiceOption) *Service {
	s := &Service{registry: reg, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewDefaultService returns a Service over the embedded tables.
func NewDefaultService(opts ...ServiceOption) (*Service, error) {
	reg, err := symtab.Default()
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return NewService(reg, opts...), nil
}

// NewServiceFromConfig returns a Service over the embedded tables and the
// table directory of cfg, strict when cfg says so.
func NewServiceFromConfig(cfg config.Config, opts ...ServiceOption) (*Service, error) {
	load := symtab.Default
	if cfg.Tables.Dir != "" {
		load = func() (*symtab.Registry, error) { return symtab.Load(cfg.Tables.Dir) }
	}
	reg, err := load()
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	opts = append([]ServiceOption{WithStrict(cfg.Convert.Strict)}, opts...)
	return NewService(reg, opts...), nil
}

// Registry returns the registry the service converts with.
func (s *Service) Registry() *symtab.Registry { return s.registry }

// Pairs returns the directions the service can convert, sorted.
func (s *Service) Pairs() []symtab.Key { return s.registry.Keys() }

// Reduction returns the built-in remap dictionary called name.
func (s *Service) Reduction(name string) (*symtab.Reduction, bool) {
	return s.registry.Reduction(name)
}

// Reductions returns all built-in remap dictionaries sorted by name.
func (s *Service) Reductions() []*symtab.Reduction { return s.registry.Reductions() }

// Convert converts input from source to target and returns the rendered
// transcription. On error the result is empty.
func (s *Service) Convert(input string, source, target phonecode.Alphabet, opts ...Option) (string, error) {
	o := buildOptions(opts)
	symbols, table, err := s.run(input, source, target, o)
	if err != nil {
		return "", err
	}

	out := convert.Render(symbols)
	if target == phonecode.IPA {
		out = text.Normalize(out, true)
	}
	if o.mapping != nil {
		out = postProcess(s, out, table, o.mapping, remap.Apply)
	}
	return strings.TrimSpace(out), nil
}

// ConvertSymbols converts a transcription given as one string per symbol
// and returns the converted symbols.
func (s *Service) ConvertSymbols(symbols []string, source, target phonecode.Alphabet, opts ...Option) ([]string, error) {
	o := buildOptions(opts)
	converted, table, err := s.run(strings.Join(symbols, " "), source, target, o)
	if err != nil {
		return nil, err
	}

	out := phonecode.Texts(converted)
	if target == phonecode.IPA {
		for i := range out {
			out[i] = text.Normalize(out[i], true)
		}
	}
	if o.mapping != nil {
		out = postProcess(s, out, table, o.mapping, remap.ApplySymbols)
	}
	return out, nil
}

// ConvertList converts every input independently. It fails as a whole on
// the first error.
func (s *Service) ConvertList(inputs []string, source, target phonecode.Alphabet, opts ...Option) ([]string, error) {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		converted, err := s.Convert(in, source, target, opts...)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}

func (s *Service) run(input string, source, target phonecode.Alphabet, o options) ([]phonecode.Symbol, *symtab.Table, error) {
	table, err := s.resolve(input, source, target, o.language)
	if err != nil {
		return nil, nil, err
	}

	tok := tokenizer.ForTable(table, tokenizer.Options{RequireInput: o.requireInput})
	symbols, err := tok.Encode(input)
	if err != nil {
		return nil, nil, err
	}

	converted, err := convert.Convert(symbols, table, convert.Options{Strict: s.strict})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("converted",
		"table", table.Key().String(),
		"symbols_in", len(symbols),
		"symbols_out", len(converted),
	)
	return converted, table, nil
}

// resolve picks the table for a direction. All checks run before any
// conversion work.
func (s *Service) resolve(input string, source, target phonecode.Alphabet, language string) (*symtab.Table, error) {
	if !source.Valid() || !target.Valid() {
		return nil, &phonecode.UnsupportedConversionError{Source: source, Target: target, Reason: "unknown alphabet"}
	}
	if source == target {
		return nil, &phonecode.UnsupportedConversionError{Source: source, Target: target, Reason: "source and target are the same alphabet"}
	}
	if target == phonecode.TIMIT {
		return nil, &phonecode.UnsupportedConversionError{
			Source: source,
			Target: target,
			Reason: "stop closures cannot be derived from a transcription",
		}
	}
	if source == phonecode.TIMIT && target != phonecode.IPA {
		return nil, s.timitClosureError(input, target)
	}
	if source != phonecode.IPA && target != phonecode.IPA {
		return nil, &phonecode.UnsupportedConversionError{Source: source, Target: target, Reason: "one side must be ipa"}
	}

	other := source
	if source == phonecode.IPA {
		other = target
	}
	lang, err := other.ResolveLanguage(language)
	if err != nil {
		return nil, err
	}

	table, ok := s.registry.Lookup(source, target, lang)
	if !ok {
		reason := "no table"
		if lang != phonecode.LanguageUnspecified {
			reason = "no table for language " + lang.String()
		}
		return nil, &phonecode.UnsupportedConversionError{Source: source, Target: target, Reason: reason}
	}
	return table, nil
}

// timitClosureError names the first closure of a TIMIT transcription.
// Closures only have an IPA rendering, so TIMIT converts to IPA alone.
func (s *Service) timitClosureError(input string, target phonecode.Alphabet) error {
	err := &phonecode.UnsupportedConversionError{
		Source: phonecode.TIMIT,
		Target: target,
		Reason: "timit converts only to ipa",
	}
	table, ok := s.registry.Lookup(phonecode.TIMIT, phonecode.IPA, phonecode.LanguageUnspecified)
	if !ok {
		return err
	}
	symbols, encErr := tokenizer.ForTable(table, tokenizer.Options{}).Encode(input)
	if encErr != nil {
		return err
	}
	for _, sym := range symbols {
		if table.IsClosure(sym.Text) {
			err.Symbol = sym.Text
			err.Reason = "stop closures have no equivalent outside ipa"
			break
		}
	}
	return err
}

// postProcess applies d to IPA output and logs dictionary problems. The
// mapping is skipped for any other target.
func postProcess[T any](s *Service, out T, table *symtab.Table, d *remap.Dictionary, apply func(T, *remap.Dictionary) T) T {
	if table.Target() != phonecode.IPA {
		s.logger.Warn("post mapping skipped: target is not ipa", "table", table.Key().String())
		return out
	}
	for _, c := range remap.CascadingKeys(d) {
		s.logger.Warn("cascading remap keys", "earlier", c.Earlier, "later", c.Later)
	}
	if extra := remap.ExtraKeys(d, table.Targets().Contains); len(extra) > 0 {
		s.logger.Warn("remap keys outside table output", "table", table.Key().String(), "keys", extra)
	}
	return apply(out, d)
}
