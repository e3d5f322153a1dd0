// Package text holds the string normalisation shared by symbol tables,
// tokenizers and the remapper, so that every comparison happens on the same
// codepoints.
package text

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// ipaVariants maps look-alike codepoints onto the ones used in IPA tables.
// Nasalisation is always the combining tilde U+0303 and the voiced velar
// stop is always the script g U+0261.
var ipaVariants = strings.NewReplacer(
	"g", "ɡ",
	"ε", "ɛ",
	"\u02dc", "\u0303",
	"~", "\u0303",
	":", "ː",
	"’", "ʼ",
)

// Normalize returns s in canonical decomposed form (NFD) with line endings
// normalized to \n. When ipa is set, look-alike codepoints are rewritten to
// their designated IPA forms.
func Normalize(s string, ipa bool) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = norm.NFD.String(s)
	if ipa {
		s = ipaVariants.Replace(s)
	}
	return s
}

// NormalizeInput is Normalize for caller-supplied text. It rejects empty or
// whitespace-only input with ErrEmptyText.
func NormalizeInput(s string, ipa bool) (string, error) {
	s = Normalize(s, ipa)
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

// Upper folds s to upper case. A new Caser is built per call because
// cases.Caser is stateful.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
