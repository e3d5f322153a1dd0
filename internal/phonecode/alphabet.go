// Package phonecode defines the closed sets of phonetic alphabets and
// languages, the Symbol unit shared by every stage of a conversion, and the
// error taxonomy returned by the conversion pipeline.
package phonecode

import (
	"fmt"
	"strings"
)

// Alphabet identifies a phonetic alphabet.
type Alphabet int

const (
	IPA Alphabet = iota + 1
	ARPABET
	XSAMPA
	Buckeye
	TIMIT
	Callhome
	DISC
)

var alphabetNames = map[Alphabet]string{
	IPA:      "ipa",
	ARPABET:  "arpabet",
	XSAMPA:   "xsampa",
	Buckeye:  "buckeye",
	TIMIT:    "timit",
	Callhome: "callhome",
	DISC:     "disc",
}

// Alphabets returns every known alphabet in declaration order.
func Alphabets() []Alphabet {
	return []Alphabet{IPA, ARPABET, XSAMPA, Buckeye, TIMIT, Callhome, DISC}
}

// ParseAlphabet converts a case-insensitive alphabet name. "x-sampa" is
// accepted as an alias for xsampa and "celex" for disc.
func ParseAlphabet(s string) (Alphabet, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "x-sampa":
		return XSAMPA, nil
	case "celex":
		return DISC, nil
	}
	for _, a := range Alphabets() {
		if alphabetNames[a] == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown alphabet %q (want %s)", s, strings.Join(AlphabetNames(), "|"))
}

// AlphabetNames returns the canonical names of all alphabets.
func AlphabetNames() []string {
	out := make([]string, 0, len(alphabetNames))
	for _, a := range Alphabets() {
		out = append(out, a.String())
	}
	return out
}

func (a Alphabet) String() string {
	if name, ok := alphabetNames[a]; ok {
		return name
	}
	return fmt.Sprintf("alphabet(%d)", int(a))
}

// Valid reports whether a is one of the declared alphabets.
func (a Alphabet) Valid() bool {
	_, ok := alphabetNames[a]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (a Alphabet) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid alphabet %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alphabet) UnmarshalText(b []byte) error {
	parsed, err := ParseAlphabet(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
