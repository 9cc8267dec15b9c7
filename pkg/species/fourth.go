package species

import "github.com/wildfunctions/counterpoint/pkg/melody"

func init() {
	Register("fourth", func() Species { return &Fourth{bars: 1} })
}

var suspended = union(melody.Consonances, melody.SuspensionDissonances)

// Fourth is syncopated counterpoint. Notes are tied over the barline, so an
// interior note may be a fourth or seventh that resolves as a suspension
// against the next cantus note.
type Fourth struct{ bars }

func (s *Fourth) Name() string { return "fourth" }

func (s *Fourth) BeatIntervals(locus, length int) []int {
	if locus > 0 && locus < length-2 {
		return suspended
	}
	return melody.Consonances
}

// Syncopated reports that each note is tied across the barline.
func (s *Fourth) Syncopated() bool { return true }
