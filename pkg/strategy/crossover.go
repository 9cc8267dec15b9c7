package strategy

import (
	"math/rand"
	"slices"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

// Crossover picks a point in [0, len] and swaps the tails of the two parents,
// returning head(mother)+tail(father) and head(father)+tail(mother). Parents
// with identical pitches are returned unchanged.
func Crossover(mother, father *melody.Genome, rng *rand.Rand) (*melody.Genome, *melody.Genome) {
	if mother.Equal(father) {
		return mother, father
	}

	m, f := mother.Pitches(), father.Pitches()
	point := rng.Intn(min(len(m), len(f)) + 1)

	c1 := melody.NewGenome(slices.Concat(m[:point], f[point:]))
	c2 := melody.NewGenome(slices.Concat(f[:point], m[point:]))
	return c1, c2
}
