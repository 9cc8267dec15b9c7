package species

import "github.com/wildfunctions/counterpoint/pkg/melody"

func init() {
	Register("third", func() Species { return &Third{bars: 4} })
}

// Third sets four quarter notes against each cantus note. Odd beats are
// consonant, even beats may be dissonant.
type Third struct{ bars }

func (s *Third) Name() string { return "third" }

func (s *Third) BeatIntervals(locus, _ int) []int {
	if locus%2 == 1 {
		return consonantOrDissonant
	}
	return melody.Consonances
}
