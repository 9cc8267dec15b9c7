package strategy

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

// Selector picks parents from a scored population.
type Selector interface {
	Name() string
	Select(population []*melody.Genome, rng *rand.Rand) *melody.Genome
}

var registry = map[string]func() Selector{}

// Register adds a selector constructor to the registry.
func Register(name string, constructor func() Selector) {
	registry[name] = constructor
}

// Get returns a selector by name.
func Get(name string) (Selector, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &melody.ConfigError{
			Field:   "selection",
			Message: fmt.Sprintf("unknown selection: %s (available: %v)", name, Names()),
		}
	}
	return ctor(), nil
}

// Names returns all registered selector names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// fitnessOf returns the cached fitness of g, or zero when unscored.
func fitnessOf(g *melody.Genome) float64 {
	f, _ := g.Fitness()
	return f
}
