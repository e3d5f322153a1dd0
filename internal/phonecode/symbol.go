package phonecode

// Symbol is one phonetic unit of a transcription.
type Symbol struct {
	Text string
	// Space is set when whitespace preceded the symbol in the source text.
	Space bool
	// Known is set when the symbol was matched by a table entry.
	Known bool
}

// Texts returns the text of each symbol.
func Texts(symbols []Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = s.Text
	}
	return out
}
