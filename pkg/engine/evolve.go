package engine

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrEmptyPopulation is returned when evolution starts from no genomes.
	ErrEmptyPopulation = errors.New("initial population is empty")
	// ErrPopulationSize is returned when a generation step changes the
	// population size.
	ErrPopulationSize = errors.New("generation step changed population size")
)

// EvaluateFunc scores a genome. Higher is fitter.
type EvaluateFunc[G any] func(G) (float64, error)

// GenerateFunc breeds the next, unranked population from a ranked one.
type GenerateFunc[G any] func(ranked []G) ([]G, error)

// HaltFunc reports whether evolution should stop after the given generation.
type HaltFunc[G any] func(ranked []G, generation int) bool

// Run is a single pass of a genetic algorithm. It computes one generation per
// call to Next and cannot be restarted.
//
//	run := engine.Evolve(pop, evaluate, generate, halt)
//	for run.Next() {
//		best := run.Population()[0]
//		...
//	}
//	if err := run.Err(); err != nil {
//		...
//	}
type Run[G any] struct {
	evaluate EvaluateFunc[G]
	generate GenerateFunc[G]
	halt     HaltFunc[G]

	initial    []G
	current    []G
	generation int
	started    bool
	done       bool
	err        error
}

// Evolve returns a Run over initial. Nothing is evaluated until the first
// call to Next. The run stops once halt returns true; a halt function that
// never does makes the run endless.
func Evolve[G any](initial []G, evaluate EvaluateFunc[G], generate GenerateFunc[G], halt HaltFunc[G]) *Run[G] {
	return &Run[G]{
		evaluate: evaluate,
		generate: generate,
		halt:     halt,
		initial:  initial,
	}
}

// Next computes the next ranked population. The first call ranks the initial
// population as generation 1. Later calls return false once halt accepts the
// current population or a step fails.
func (r *Run[G]) Next() bool {
	if r.done {
		return false
	}

	if !r.started {
		r.started = true
		if len(r.initial) == 0 {
			return r.fail(ErrEmptyPopulation)
		}
		ranked, err := Rank(r.initial, r.evaluate)
		if err != nil {
			return r.fail(err)
		}
		r.initial = nil
		r.current = ranked
		r.generation = 1
		return true
	}

	if r.halt(r.current, r.generation) {
		r.done = true
		return false
	}

	next, err := r.generate(r.current)
	if err != nil {
		return r.fail(fmt.Errorf("generation %d: %w", r.generation+1, err))
	}
	if len(next) != len(r.current) {
		return r.fail(fmt.Errorf("generation %d: %w: got %d, want %d", r.generation+1, ErrPopulationSize, len(next), len(r.current)))
	}
	ranked, err := Rank(next, r.evaluate)
	if err != nil {
		return r.fail(fmt.Errorf("generation %d: %w", r.generation+1, err))
	}
	r.generation++
	r.current = ranked
	return true
}

func (r *Run[G]) fail(err error) bool {
	r.err = err
	r.done = true
	r.current = nil
	return false
}

// Population returns the ranked population produced by the last call to
// Next, fittest first.
func (r *Run[G]) Population() []G { return r.current }

// Generation returns the generation number of Population, starting at 1.
func (r *Run[G]) Generation() int { return r.generation }

// Err returns the error that ended the run, or nil if it halted normally.
func (r *Run[G]) Err() error { return r.err }

// All adapts the run to a range-over-func loop yielding generation numbers
// and ranked populations. Like the Run itself, it can be consumed once.
func (r *Run[G]) All() iter.Seq2[int, []G] {
	return func(yield func(int, []G) bool) {
		for r.Next() {
			if !yield(r.generation, r.current) {
				return
			}
		}
	}
}

// Rank evaluates every genome once and returns a new slice sorted by
// descending fitness. Ties keep their original order.
func Rank[G any](pop []G, evaluate EvaluateFunc[G]) ([]G, error) {
	type scoredGenome struct {
		genome  G
		fitness float64
	}
	scored := make([]scoredGenome, len(pop))
	for i, g := range pop {
		f, err := evaluate(g)
		if err != nil {
			return nil, fmt.Errorf("evaluate genome %d: %w", i, err)
		}
		scored[i] = scoredGenome{genome: g, fitness: f}
	}

	slices.SortStableFunc(scored, func(a, b scoredGenome) int {
		switch {
		case a.fitness > b.fitness:
			return -1
		case a.fitness < b.fitness:
			return 1
		}
		return 0
	})

	ranked := make([]G, len(scored))
	for i, s := range scored {
		ranked[i] = s.genome
	}
	return ranked, nil
}
