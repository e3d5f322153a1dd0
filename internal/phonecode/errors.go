package phonecode

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrUnsupportedLanguage   = errors.New("unsupported language")
	ErrUnsupportedSymbol     = errors.New("unsupported symbol")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrMalformedInput        = errors.New("malformed input")
)

// UnsupportedLanguageError reports a missing or unrecognised language for an
// alphabet that needs one.
type UnsupportedLanguageError struct {
	Alphabet Alphabet
	Language string
	Reason   string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Language == "" {
		return fmt.Sprintf("unsupported language for %s: %s", e.Alphabet, e.Reason)
	}
	return fmt.Sprintf("unsupported language %q for %s: %s", e.Language, e.Alphabet, e.Reason)
}

func (e *UnsupportedLanguageError) Is(target error) bool { return target == ErrUnsupportedLanguage }

// UnsupportedSymbolError reports a source symbol with no table entry when
// passthrough is disabled.
type UnsupportedSymbolError struct {
	Symbol   string
	Source   Alphabet
	Target   Alphabet
	Language Language
}

func (e *UnsupportedSymbolError) Error() string {
	ctx := fmt.Sprintf("%s to %s", e.Source, e.Target)
	if e.Language != LanguageUnspecified {
		ctx += " (" + e.Language.String() + ")"
	}
	return fmt.Sprintf("unsupported symbol %q converting %s", e.Symbol, ctx)
}

func (e *UnsupportedSymbolError) Is(target error) bool { return target == ErrUnsupportedSymbol }

// UnsupportedConversionError reports a direction that cannot be converted.
// Symbol names the offending input symbol when one is responsible.
type UnsupportedConversionError struct {
	Source Alphabet
	Target Alphabet
	Symbol string
	Reason string
}

func (e *UnsupportedConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s", e.Source, e.Target)
	if e.Symbol != "" {
		msg += fmt.Sprintf(": symbol %q", e.Symbol)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnsupportedConversionError) Is(target error) bool { return target == ErrUnsupportedConversion }

// MalformedInputError reports input that produced no symbols when at least
// one was required.
type MalformedInputError struct {
	Alphabet Alphabet
	Input    string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input %q: no symbols", e.Alphabet, e.Input)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }
