// Package lexicon reads and writes pronunciation dictionaries and converts
// them between alphabets.
//
// Two layouts are understood. TSV has one word per line followed by a tab
// and its space separated symbols; lines starting with # are comments.
// CMUdict has the word, whitespace and ARPABET symbols; lines starting with
// ;;; are comments and alternative pronunciations carry a "(n)" suffix.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/go-phonecodes/internal/phonecode"
)

// Entry is one pronunciation of a word.
type Entry struct {
	Word     string
	Symbols  []string
	Alphabet phonecode.Alphabet
	Language phonecode.Language
}

// Format names a lexicon file layout.
type Format string

const (
	FormatTSV Format = "tsv"
	FormatCMU Format = "cmudict"
)

var ErrNoPronunciation = errors.New("no pronunciation")

// ParseFormat converts a case-insensitive format name. "cmu" is accepted as
// an alias for cmudict.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatTSV, FormatCMU:
		return f, nil
	case "cmu":
		return FormatCMU, nil
	case "":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("invalid lexicon format %q (expected %s|%s)", raw, FormatTSV, FormatCMU)
	}
}

// Read parses r in format. CMUdict entries are always ARPABET; alphabet
// only applies to TSV.
func Read(r io.Reader, format Format, alphabet phonecode.Alphabet, lang phonecode.Language) ([]Entry, error) {
	switch format {
	case FormatCMU:
		return ReadCMU(r)
	case FormatTSV:
		return ReadTSV(r, alphabet, lang)
	default:
		return nil, fmt.Errorf("invalid lexicon format %q", format)
	}
}

// ReadTSV parses tab separated word and pronunciation lines.
func ReadTSV(r io.Reader, alphabet phonecode.Alphabet, lang phonecode.Language) ([]Entry, error) {
	return scan(r, "#", func(line string) (Entry, error) {
		word, pron, ok := strings.Cut(line, "\t")
		if !ok {
			return Entry{}, errors.New("missing tab between word and pronunciation")
		}
		return newEntry(word, pron, alphabet, lang)
	})
}

// ReadCMU parses CMUdict lines. Variant markers such as WORD(2) are
// stripped so every variant is an Entry with the same Word.
func ReadCMU(r io.Reader) ([]Entry, error) {
	return scan(r, ";;;", func(line string) (Entry, error) {
		fields := strings.Fields(line)
		word, pron := fields[0], strings.Join(fields[1:], " ")
		if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
			word = word[:i]
		}
		return newEntry(word, pron, phonecode.ARPABET, phonecode.LanguageUnspecified)
	})
}

func newEntry(word, pron string, alphabet phonecode.Alphabet, lang phonecode.Language) (Entry, error) {
	word = strings.TrimSpace(word)
	symbols := strings.Fields(pron)
	if word == "" || len(symbols) == 0 {
		return Entry{}, ErrNoPronunciation
	}
	return Entry{Word: word, Symbols: symbols, Alphabet: alphabet, Language: lang}, nil
}

func scan(r io.Reader, comment string, parse func(string) (Entry, error)) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var entries []Entry
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, comment) {
			continue
		}
		e, err := parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return entries, nil
}

// WriteTSV writes entries as tab separated lines.
func WriteTSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", e.Word, strings.Join(e.Symbols, " ")); err != nil {
			return fmt.Errorf("write lexicon: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write lexicon: %w", err)
	}
	return nil
}
