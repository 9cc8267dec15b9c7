package strategy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/species"
)

// ErrEmptyPopulation is returned when asked to breed from nothing.
var ErrEmptyPopulation = errors.New("empty population")

// Generator produces the next generation from a ranked population. The
// fittest half survives unchanged; the rest are mutated offspring of parents
// chosen by the selector.
type Generator struct {
	Species       species.Species
	CantusFirmus  melody.CantusFirmus
	MutationRange int
	MutationRate  float64
	Selector      Selector
	Rng           *rand.Rand
}

// NewGenerator validates the mutation parameters and returns a Generator.
func NewGenerator(sp species.Species, cf melody.CantusFirmus, mutationRange int, mutationRate float64, sel Selector, rng *rand.Rand) (*Generator, error) {
	if mutationRange <= 0 {
		return nil, &melody.ConfigError{Field: "mutation_range", Message: fmt.Sprintf("must be positive, got %d", mutationRange)}
	}
	if mutationRate < 0 || mutationRate > 1 {
		return nil, &melody.ConfigError{Field: "mutation_rate", Message: fmt.Sprintf("must be within [0, 1], got %g", mutationRate)}
	}
	if err := species.Validate(sp, cf); err != nil {
		return nil, err
	}
	return &Generator{
		Species:       sp,
		CantusFirmus:  cf.Clone(),
		MutationRange: mutationRange,
		MutationRate:  mutationRate,
		Selector:      sel,
		Rng:           rng,
	}, nil
}

// Next returns a population of the same size as ranked, which must be sorted
// fittest first. Genomes in ranked are never modified.
func (g *Generator) Next(ranked []*melody.Genome) ([]*melody.Genome, error) {
	n := len(ranked)
	if n == 0 {
		return nil, ErrEmptyPopulation
	}

	next := make([]*melody.Genome, 0, n+1)
	next = append(next, ranked[:n/2]...)

	for len(next) < n {
		mum := g.Selector.Select(ranked, g.Rng)
		dad := g.Selector.Select(ranked, g.Rng)

		c1, c2 := Crossover(mum, dad, g.Rng)
		for _, child := range []*melody.Genome{c1, c2} {
			// Identical parents come back as-is and must not be mutated in place.
			if child == mum || child == dad {
				child = child.Clone()
			}
			Mutate(child, g.Species, g.CantusFirmus, g.MutationRange, g.MutationRate, g.Rng)
			next = append(next, child)
		}
	}

	return next[:n], nil
}
