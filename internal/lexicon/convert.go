package lexicon

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/sourcegraph/conc/iter"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
)

// SymbolConverter converts one pronunciation given as symbols.
type SymbolConverter interface {
	ConvertSymbols(symbols []string, source, target phonecode.Alphabet, opts ...phonecodes.Option) ([]string, error)
}

// ConvertAll converts every entry to target using at most workers
// goroutines. workers <= 0 uses GOMAXPROCS. The result keeps the input
// order. It fails as a whole if any entry fails.
func ConvertAll(conv SymbolConverter, entries []Entry, target phonecode.Alphabet, workers int, opts ...phonecodes.Option) ([]Entry, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	mapper := iter.Mapper[Entry, Entry]{MaxGoroutines: workers}
	out, err := mapper.MapErr(entries, func(e *Entry) (Entry, error) {
		callOpts := opts
		if e.Language != phonecode.LanguageUnspecified {
			callOpts = append(callOpts[:len(callOpts):len(callOpts)], phonecodes.WithLanguage(e.Language.String()))
		}
		symbols, err := conv.ConvertSymbols(e.Symbols, e.Alphabet, target, callOpts...)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", e.Word, err)
		}
		return Entry{Word: e.Word, Symbols: symbols, Alphabet: target, Language: e.Language}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("lexicon converted", "entries", len(out), "target", target.String(), "workers", workers)
	return out, nil
}
