package melody

// Halter decides when a run has found an acceptable counterpoint.
type Halter struct {
	cf             CantusFirmus
	align          Alignment
	weights        Weights
	maxGenerations int
}

// NewHalter returns a halter that stops once the fittest genome earns every
// cadence reward plus one reward per suspension it contains, or once
// maxGenerations has been passed.
func NewHalter(cf CantusFirmus, align Alignment, w Weights, maxGenerations int) *Halter {
	if align == nil {
		align = NoteForNote{}
	}
	return &Halter{cf: cf.Clone(), align: align, weights: w, maxGenerations: maxGenerations}
}

// Halt reports whether the run should stop after ranked, the population of
// the given generation.
func (h *Halter) Halt(ranked []*Genome, generation int) bool {
	if generation > h.maxGenerations {
		return true
	}
	if len(ranked) == 0 {
		return true
	}
	return h.Acceptable(ranked[0])
}

// Acceptable reports whether g meets the target score.
func (h *Halter) Acceptable(g *Genome) bool {
	f, ok := g.Fitness()
	if !ok {
		return false
	}
	return f >= h.Target(g)
}

// Target returns the score g must reach to be acceptable.
func (h *Halter) Target(g *Genome) float64 {
	suspensions := CountSuspensions(g.Pitches(), h.cf, h.align)
	return h.weights.MaxReward(g.Len()) + float64(suspensions)*h.weights.RewardSuspension
}
