package phonecode

import (
	"errors"
	"testing"
)

func TestParseAlphabet(t *testing.T) {
	tests := []struct {
		in      string
		want    Alphabet
		wantErr bool
	}{
		{"ipa", IPA, false},
		{"ARPABET", ARPABET, false},
		{" xsampa ", XSAMPA, false},
		{"x-sampa", XSAMPA, false},
		{"buckeye", Buckeye, false},
		{"timit", TIMIT, false},
		{"callhome", Callhome, false},
		{"disc", DISC, false},
		{"celex", DISC, false},
		{"klingon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlphabet(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAlphabet(%q) = %v; want error", tt.in, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseAlphabet(%q) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseAlphabet(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAlphabetTextRoundTrip(t *testing.T) {
	for _, a := range Alphabets() {
		b, err := a.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", a, err)
		}

		var got Alphabet
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}

		if got != a {
			t.Errorf("round trip %v -> %q -> %v", a, b, got)
		}
	}

	if _, err := Alphabet(99).MarshalText(); err == nil {
		t.Error("expected error marshalling invalid alphabet")
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name     string
		alphabet Alphabet
		raw      string
		want     Language
		wantErr  bool
	}{
		{"arpabet ignores language", ARPABET, "eng", LanguageUnspecified, false},
		{"xsampa ignores unknown codes", XSAMPA, "amh", LanguageUnspecified, false},
		{"timit ignores garbage", TIMIT, "eng_no_stress", LanguageUnspecified, false},
		{"disc defaults to german", DISC, "", German, false},
		{"disc dutch", DISC, "nld", Dutch, false},
		{"disc english upper case", DISC, "ENG", English, false},
		{"disc rejects spanish", DISC, "spa", LanguageUnspecified, true},
		{"callhome requires language", Callhome, "", LanguageUnspecified, true},
		{"callhome mandarin", Callhome, "cmn", Mandarin, false},
		{"callhome rejects german", Callhome, "deu", LanguageUnspecified, true},
		{"callhome rejects unknown", Callhome, "xx", LanguageUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.alphabet.ResolveLanguage(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedLanguage) {
					t.Fatalf("ResolveLanguage(%q) err = %v; want ErrUnsupportedLanguage", tt.raw, err)
				}

				var langErr *UnsupportedLanguageError
				if !errors.As(err, &langErr) || langErr.Alphabet != tt.alphabet {
					t.Fatalf("expected *UnsupportedLanguageError for %v, got %T", tt.alphabet, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ResolveLanguage(%q) error: %v", tt.raw, err)
			}

			if got != tt.want {
				t.Errorf("ResolveLanguage(%q) = %v; want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	symErr := &UnsupportedSymbolError{Symbol: "XX", Source: Callhome, Target: IPA, Language: Spanish}
	if got, want := symErr.Error(), `unsupported symbol "XX" converting callhome to ipa (spa)`; got != want {
		t.Errorf("UnsupportedSymbolError = %q; want %q", got, want)
	}

	convErr := &UnsupportedConversionError{Source: TIMIT, Target: ARPABET, Symbol: "TCL", Reason: "closure"}
	if got, want := convErr.Error(), `cannot convert timit to arpabet: symbol "TCL": closure`; got != want {
		t.Errorf("UnsupportedConversionError = %q; want %q", got, want)
	}

	if !errors.Is(convErr, ErrUnsupportedConversion) {
		t.Error("conversion error should match ErrUnsupportedConversion")
	}

	if !errors.Is(&MalformedInputError{Alphabet: IPA}, ErrMalformedInput) {
		t.Error("malformed error should match ErrMalformedInput")
	}
}
