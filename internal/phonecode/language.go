package phonecode

import (
	"fmt"
	"strings"
)

// Language identifies the language a transcription is written for.
// The zero value is LanguageUnspecified.
type Language int

const (
	LanguageUnspecified Language = iota
	English
	German
	Dutch
	Spanish
	EgyptianArabic
	Mandarin
	Cantonese
	Lao
	Vietnamese
)

var languageCodes = map[Language]string{
	English:        "eng",
	German:         "deu",
	Dutch:          "nld",
	Spanish:        "spa",
	EgyptianArabic: "arz",
	Mandarin:       "cmn",
	Cantonese:      "yue",
	Lao:            "lao",
	Vietnamese:     "vie",
}

// ParseLanguage converts an ISO 639-3 code. An empty string yields
// LanguageUnspecified.
func ParseLanguage(s string) (Language, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	if code == "" {
		return LanguageUnspecified, nil
	}
	for l, c := range languageCodes {
		if c == code {
			return l, nil
		}
	}
	return LanguageUnspecified, fmt.Errorf("unknown language %q", s)
}

func (l Language) String() string {
	if l == LanguageUnspecified {
		return ""
	}
	if c, ok := languageCodes[l]; ok {
		return c
	}
	return fmt.Sprintf("language(%d)", int(l))
}

// LanguagePolicy describes how an alphabet treats the language argument.
type LanguagePolicy struct {
	// Required makes an absent language an error.
	Required bool
	// Default is used when the language is absent and not required.
	Default Language
	// Allowed lists the accepted languages. An empty list means the
	// alphabet ignores the language entirely.
	Allowed []Language
}

// Ignored reports whether the alphabet does not look at the language.
func (p LanguagePolicy) Ignored() bool { return len(p.Allowed) == 0 }

// Allows reports whether l is in the allowed set.
func (p LanguagePolicy) Allows(l Language) bool {
	for _, a := range p.Allowed {
		if a == l {
			return true
		}
	}
	return false
}

// Policy returns the language policy of a.
func (a Alphabet) Policy() LanguagePolicy {
	switch a {
	case DISC:
		return LanguagePolicy{Default: German, Allowed: []Language{German, English, Dutch}}
	case Callhome:
		return LanguagePolicy{Required: true, Allowed: []Language{Spanish, EgyptianArabic, Mandarin}}
	default:
		return LanguagePolicy{}
	}
}

// ResolveLanguage applies the policy of a to the raw language string.
// Alphabets that ignore the language always resolve to
// LanguageUnspecified, whatever the input.
func (a Alphabet) ResolveLanguage(raw string) (Language, error) {
	p := a.Policy()
	if p.Ignored() {
		return LanguageUnspecified, nil
	}
	if strings.TrimSpace(raw) == "" {
		if p.Required {
			return LanguageUnspecified, &UnsupportedLanguageError{Alphabet: a, Reason: "a language is required"}
		}
		return p.Default, nil
	}
	l, err := ParseLanguage(raw)
	if err != nil || !p.Allows(l) {
		return LanguageUnspecified, &UnsupportedLanguageError{
			Alphabet: a,
			Language: raw,
			Reason:   "expected one of " + joinLanguages(p.Allowed),
		}
	}
	return l, nil
}

func joinLanguages(ls []Language) string {
	codes := make([]string, len(ls))
	for i, l := range ls {
		codes[i] = l.String()
	}
	return strings.Join(codes, "|")
}
