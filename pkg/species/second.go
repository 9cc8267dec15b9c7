package species

import "github.com/wildfunctions/counterpoint/pkg/melody"

func init() {
	Register("second", func() Species { return &Second{bars: 2} })
}

var consonantOrDissonant = union(melody.Consonances, melody.Dissonances)

// Second sets two half notes against each cantus note. The downbeat is
// consonant; the upbeat may pass through a dissonance.
type Second struct{ bars }

func (s *Second) Name() string { return "second" }

func (s *Second) BeatIntervals(locus, _ int) []int {
	if locus%2 == 1 {
		return consonantOrDissonant
	}
	return melody.Consonances
}
