package strategy

import (
	"math/rand"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

func init() {
	Register("roulette", func() Selector { return &RouletteSelector{} })
}

// RouletteSelector implements fitness proportionate selection.
type RouletteSelector struct{}

func (s *RouletteSelector) Name() string { return "roulette" }

func (s *RouletteSelector) Select(population []*melody.Genome, rng *rand.Rand) *melody.Genome {
	return Roulette(population, rng)
}

// Roulette picks a point between zero and the total fitness of the population
// and returns the first genome whose running total passes it. When the total
// is zero or negative every genome is equally likely.
func Roulette(population []*melody.Genome, rng *rand.Rand) *melody.Genome {
	var total float64
	for _, g := range population {
		total += fitnessOf(g)
	}
	if total <= 0 {
		return population[rng.Intn(len(population))]
	}

	point := rng.Float64() * total
	var tally float64
	for _, g := range population {
		tally += fitnessOf(g)
		if tally > point {
			return g
		}
	}
	// Rounding can leave the tally a hair short of the point.
	return population[len(population)-1]
}
