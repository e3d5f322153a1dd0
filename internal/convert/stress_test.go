package convert

import (
	"reflect"
	"testing"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/symtab"
)

func syms(texts ...string) []phonecode.Symbol {
	out := make([]phonecode.Symbol, len(texts))
	for i, t := range texts {
		out[i] = phonecode.Symbol{Text: t}
	}
	return out
}

func TestAttachStress(t *testing.T) {
	ipaVowels := symtab.NewInventory("a", "e", "i", "o", "u", "ɛ", "ɪ")
	tests := []struct {
		name string
		rule symtab.StressRule
		in   []string
		want []string
	}{
		{
			name: "backward before",
			rule: symtab.StressRule{Markers: []string{"ˈ"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.Before},
			in:   []string{"t", "ɛ", "ˈ", "s"},
			want: []string{"t", "ˈɛ", "s"},
		},
		{
			name: "backward skips consonants",
			rule: symtab.StressRule{Markers: []string{"ˈ"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.Before},
			in:   []string{"a", "t", "ˈ"},
			want: []string{"ˈa", "t"},
		},
		{
			name: "forward after",
			rule: symtab.StressRule{Markers: []string{"1"}, Vowels: symtab.NewInventory("EH"), Search: symtab.Forward, Placement: symtab.After},
			in:   []string{"1", "S", "EH", "T"},
			want: []string{"S", "EH1", "T"},
		},
		{
			name: "backward after with multi-character tone",
			rule: symtab.StressRule{Markers: []string{"˧˥"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.After},
			in:   []string{"m", "ja", "˧˥"},
			want: []string{"m", "ja˧˥"},
		},
		{
			name: "marker without vowel stays",
			rule: symtab.StressRule{Markers: []string{"ˈ"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.Before},
			in:   []string{"ˈ", "t", "a"},
			want: []string{"ˈ", "t", "a"},
		},
		{
			name: "every marker finds its own vowel",
			rule: symtab.StressRule{Markers: []string{"ˈ", "ˌ"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.Before},
			in:   []string{"a", "ˌ", "t", "i", "ˈ"},
			want: []string{"ˌa", "t", "ˈi"},
		},
		{
			name: "syllabic consonant carries stress",
			rule: symtab.StressRule{Markers: []string{"ˈ"}, Vowels: ipaVowels, Search: symtab.Backward, Placement: symtab.Before},
			in:   []string{"n̩", "ˈ"},
			want: []string{"ˈn̩"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := phonecode.Texts(AttachStress(syms(tt.in...), &tt.rule))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AttachStress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAttachStressMovesSpace(t *testing.T) {
	rule := &symtab.StressRule{Markers: []string{"1"}, Vowels: symtab.NewInventory("EH"), Search: symtab.Forward, Placement: symtab.After}
	in := []phonecode.Symbol{
		{Text: "T"},
		{Text: "1", Space: true},
		{Text: "EH"},
	}
	want := []phonecode.Symbol{
		{Text: "T"},
		{Text: "EH1", Space: true},
	}
	if got := AttachStress(in, rule); !reflect.DeepEqual(got, want) {
		t.Errorf("AttachStress = %+v, want %+v", got, want)
	}
}
