package strategy

import (
	"math/rand"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

const defaultTournamentSize = 5

func init() {
	Register("tournament", func() Selector { return &TournamentSelector{Size: defaultTournamentSize} })
}

// TournamentSelector returns the fittest of Size genomes drawn at random.
type TournamentSelector struct {
	Size int
}

func (s *TournamentSelector) Name() string { return "tournament" }

func (s *TournamentSelector) Select(population []*melody.Genome, rng *rand.Rand) *melody.Genome {
	return Tournament(population, s.Size, rng)
}

// Tournament draws size genomes with replacement and returns the fittest.
func Tournament(population []*melody.Genome, size int, rng *rand.Rand) *melody.Genome {
	best := population[rng.Intn(len(population))]
	bestFit := fitnessOf(best)

	for i := 1; i < size; i++ {
		g := population[rng.Intn(len(population))]
		if f := fitnessOf(g); f > bestFit {
			best, bestFit = g, f
		}
	}

	return best
}
