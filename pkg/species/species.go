package species

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

// Species is one rule set of species counterpoint. It decides how many
// counterpoint notes sound against each cantus note and which intervals are
// legal on each beat.
type Species interface {
	melody.Alignment
	Name() string
	NotesPerBar() int
	// BeatIntervals returns the legal intervals above the cantus for locus in
	// a counterpoint of the given length, in ascending order.
	BeatIntervals(locus, length int) []int
}

var registry = map[string]func() Species{}

// Register adds a species constructor to the registry.
func Register(name string, constructor func() Species) {
	registry[name] = constructor
}

// Get returns a species by name.
func Get(name string) (Species, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &melody.ConfigError{
			Field:   "species",
			Message: fmt.Sprintf("unknown species: %s (available: %v)", name, Names()),
		}
	}
	return ctor(), nil
}

// Names returns all registered species names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// bars implements melody.Alignment for a fixed number of notes per bar. The
// final bar always holds a single note.
type bars int

func (b bars) NotesPerBar() int { return int(b) }

func (b bars) Length(cantusLen int) int {
	if cantusLen <= 0 {
		return 0
	}
	return (cantusLen-1)*int(b) + 1
}

func (b bars) CantusIndex(locus int) int { return locus / int(b) }

// Validate checks that every cantus pitch leaves room for at least one legal
// interval below the rest sentinel, so candidate sets are never empty.
func Validate(sp Species, cf melody.CantusFirmus) error {
	if err := cf.Validate(); err != nil {
		return err
	}
	length := sp.Length(len(cf))
	for locus := 0; locus < length; locus++ {
		note := cf[sp.CantusIndex(locus)]
		if len(Below(sp.BeatIntervals(locus, length), note, melody.Rest)) == 0 {
			return &melody.ConfigError{
				Field:   "cantus_firmus",
				Message: fmt.Sprintf("pitch %d leaves no legal %s species interval below %d", note, sp.Name(), melody.Rest),
			}
		}
	}
	return nil
}

// Below returns the intervals that keep note+interval under limit.
func Below(intervals []int, note, limit int) []int {
	out := make([]int, 0, len(intervals))
	for _, i := range intervals {
		if note+i < limit {
			out = append(out, i)
		}
	}
	return out
}

// CreatePopulation returns count random genomes whose pitches are drawn from
// the legal intervals above cf.
func CreatePopulation(sp Species, count int, cf melody.CantusFirmus, rng *rand.Rand) ([]*melody.Genome, error) {
	if count <= 0 {
		return nil, &melody.ConfigError{Field: "population", Message: fmt.Sprintf("must be positive, got %d", count)}
	}
	if err := Validate(sp, cf); err != nil {
		return nil, err
	}
	length := sp.Length(len(cf))
	pop := make([]*melody.Genome, count)
	pitches := make([]int, length)
	for i := range pop {
		for locus := range pitches {
			note := cf[sp.CantusIndex(locus)]
			valid := Below(sp.BeatIntervals(locus, length), note, melody.Rest)
			pitches[locus] = note + valid[rng.Intn(len(valid))]
		}
		pop[i] = melody.NewGenome(pitches)
	}
	return pop, nil
}

// union merges interval tables into one ascending table.
func union(tables ...[]int) []int {
	seen := map[int]bool{}
	var out []int
	for _, t := range tables {
		for _, i := range t {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sort.Ints(out)
	return out
}
