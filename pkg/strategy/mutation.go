package strategy

import (
	"errors"
	"math/rand"

	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/species"
)

// ErrNoCandidates means no interval is legal at a locus. Validated cantus
// firmi rule it out; Mutate leaves such a locus untouched.
var ErrNoCandidates = errors.New("no legal interval at locus")

// Mutate visits every locus of g and, with probability rate, replaces its
// pitch by the cantus pitch plus a legal interval no larger than maxInterval.
// It returns the number of loci whose pitch changed. Changed genomes lose
// their cached fitness.
func Mutate(g *melody.Genome, sp species.Species, cf melody.CantusFirmus, maxInterval int, rate float64, rng *rand.Rand) int {
	changed := 0
	for locus := 0; locus < g.Len(); locus++ {
		if rng.Float64() >= rate {
			continue
		}
		intervals, err := LegalIntervals(g, locus, sp, cf, maxInterval)
		if err != nil {
			continue
		}
		note := cf[sp.CantusIndex(locus)]
		if g.SetPitch(locus, note+intervals[rng.Intn(len(intervals))]) {
			changed++
		}
	}
	return changed
}

// LegalIntervals returns the intervals a mutation may choose at locus.
//
// Three filters apply at once: the species table for the beat of the locus
// (bounded by maxInterval and the rest sentinel), no repeat of the preceding
// pitch, and no repeat of the following pitch. When their intersection is
// empty the neighbour filters are dropped one at a time, then the
// maxInterval bound, then the species table itself in favour of plain
// consonances.
func LegalIntervals(g *melody.Genome, locus int, sp species.Species, cf melody.CantusFirmus, maxInterval int) ([]int, error) {
	length := g.Len()
	note := cf[sp.CantusIndex(locus)]
	table := species.Below(sp.BeatIntervals(locus, length), note, melody.Rest)

	beat := make([]int, 0, len(table))
	for _, i := range table {
		if i <= maxInterval {
			beat = append(beat, i)
		}
	}

	notPrev := beat
	if locus > 0 {
		notPrev = avoiding(beat, note, g.At(locus-1))
	}
	both := notPrev
	if locus < length-1 {
		both = avoiding(notPrev, note, g.At(locus+1))
	}

	for _, candidates := range [][]int{both, notPrev, beat, table, species.Below(melody.Consonances, note, melody.Rest)} {
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, ErrNoCandidates
}

// avoiding drops the intervals that would land note on pitch.
func avoiding(intervals []int, note, pitch int) []int {
	out := make([]int, 0, len(intervals))
	for _, i := range intervals {
		if note+i != pitch {
			out = append(out, i)
		}
	}
	return out
}
