package symtab

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the way a stress rule searches for the vowel that governs a
// marker.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Placement says on which side of its vowel a marker is attached.
type Placement int

const (
	Before Placement = iota
	After
)

func (p Placement) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// syllabicMarks turn a consonant into a syllable nucleus.
const syllabicMarks = "\u0329\u030d"

// StressRule moves stress or tone markers onto vowels. Markers and vowels
// are target-alphabet symbols.
type StressRule struct {
	Markers   []string
	Vowels    Inventory
	Search    Direction
	Placement Placement
}

// IsMarker reports whether s is one of the rule's markers.
func (r *StressRule) IsMarker(s string) bool {
	return slices.Contains(r.Markers, s)
}

// IsVowel reports whether s can carry a marker: it is a listed vowel,
// contains a listed single-character vowel (diphthongs, glide + vowel
// finals), or carries a syllabic diacritic.
func (r *StressRule) IsVowel(s string) bool {
	return r.Vowels.Contains(s) || r.Vowels.ContainsRune(s) || strings.ContainsAny(s, syllabicMarks)
}

func parseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "backward":
		return Backward, nil
	case "forward":
		return Forward, nil
	}
	return 0, fmt.Errorf("unknown search direction %q", s)
}

func parsePlacement(s string) (Placement, error) {
	switch strings.ToLower(s) {
	case "", "before":
		return Before, nil
	case "after":
		return After, nil
	}
	return 0, fmt.Errorf("unknown attach side %q", s)
}
