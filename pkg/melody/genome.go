package melody

import (
	"slices"
	"strconv"
	"strings"
)

// Genome is one candidate counterpoint: an ordered pitch sequence plus the
// fitness score cached by the evaluator.
type Genome struct {
	pitches []int
	fitness float64
	scored  bool
}

// NewGenome returns an unscored genome holding a copy of pitches.
func NewGenome(pitches []int) *Genome {
	return &Genome{pitches: slices.Clone(pitches)}
}

// Pitches returns the pitch sequence. Callers must not modify it.
func (g *Genome) Pitches() []int { return g.pitches }

// Len returns the number of loci.
func (g *Genome) Len() int { return len(g.pitches) }

// At returns the pitch at locus i.
func (g *Genome) At(i int) int { return g.pitches[i] }

// Fitness returns the cached score and whether one is set.
func (g *Genome) Fitness() (float64, bool) { return g.fitness, g.scored }

// SetFitness caches a score for the current pitches.
func (g *Genome) SetFitness(f float64) {
	g.fitness = f
	g.scored = true
}

// Invalidate drops the cached score.
func (g *Genome) Invalidate() {
	g.fitness = 0
	g.scored = false
}

// SetPitch replaces the pitch at locus i, dropping the cached score if the
// pitch changed. It reports whether anything changed.
func (g *Genome) SetPitch(i, p int) bool {
	if g.pitches[i] == p {
		return false
	}
	g.pitches[i] = p
	g.Invalidate()
	return true
}

// Equal reports whether both genomes carry the same pitches.
func (g *Genome) Equal(other *Genome) bool {
	return slices.Equal(g.pitches, other.pitches)
}

// Clone returns a deep copy, including the cached score.
func (g *Genome) Clone() *Genome {
	return &Genome{
		pitches: slices.Clone(g.pitches),
		fitness: g.fitness,
		scored:  g.scored,
	}
}

// String returns the pitches as a bracketed list.
func (g *Genome) String() string {
	parts := make([]string, len(g.pitches))
	for i, p := range g.pitches {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
