package species

import "github.com/wildfunctions/counterpoint/pkg/melody"

func init() {
	Register("first", func() Species { return &First{bars: 1} })
}

// First is note against note: every interval is a consonance.
type First struct{ bars }

func (s *First) Name() string { return "first" }

func (s *First) BeatIntervals(_, _ int) []int { return melody.Consonances }
