package text

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ipa   bool
		want  string
	}{
		{
			name:  "passthrough clean text",
			input: "DH IH S",
			want:  "DH IH S",
		},
		{
			name:  "decomposes precomposed nasal vowel",
			input: "\u00e3",
			ipa:   true,
			want:  "a\u0303",
		},
		{
			name:  "decomposes outside ipa too",
			input: "\u00e9",
			want:  "e\u0301",
		},
		{
			name:  "ascii g becomes script g",
			input: "big",
			ipa:   true,
			want:  "biɡ",
		},
		{
			name:  "ascii g kept outside ipa",
			input: "G g",
			want:  "G g",
		},
		{
			name:  "spacing tilde becomes combining tilde",
			input: "ʌ\u02dc",
			ipa:   true,
			want:  "ʌ\u0303",
		},
		{
			name:  "colon becomes length mark",
			input: "a:",
			ipa:   true,
			want:  "aː",
		},
		{
			name:  "greek epsilon becomes open e",
			input: "ε",
			ipa:   true,
			want:  "ɛ",
		},
		{
			name:  "normalizes CRLF to LF",
			input: "a\r\nb\rc",
			want:  "a\nb\nc",
		},
		{
			name:  "idempotent on canonical ipa",
			input: "\u0261\u028c\u0303",
			ipa:   true,
			want:  "\u0261\u028c\u0303",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, tt.ipa)
			if got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q, want %q", tt.input, tt.ipa, got, tt.want)
			}
		})
	}
}

func TestNormalizeInput(t *testing.T) {
	for _, input := range []string{"", "   \t\n  "} {
		_, err := NormalizeInput(input, false)
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("NormalizeInput(%q) err = %v; want ErrEmptyText", input, err)
		}
	}

	got, err := NormalizeInput(" a ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != " a " {
		t.Errorf("NormalizeInput kept %q; want surrounding whitespace preserved", got)
	}
}

func TestUpper(t *testing.T) {
	tests := map[string]string{
		"h# ch aa kcl": "H# CH AA KCL",
		"ax-h":         "AX-H",
		"AH0":          "AH0",
		"":             "",
	}

	for in, want := range tests {
		if got := Upper(in); got != want {
			t.Errorf("Upper(%q) = %q, want %q", in, got, want)
		}
	}
}
