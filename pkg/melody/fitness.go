package melody

import "fmt"

// Weights controls the rewards and punishments of each rule. Punishments are
// positive magnitudes that get subtracted.
type Weights struct {
	RewardFirst float64 `mapstructure:"reward_first" json:"reward_first"`
	PunishFirst float64 `mapstructure:"punish_first" json:"punish_first"`

	RewardLast float64 `mapstructure:"reward_last" json:"reward_last"`
	PunishLast float64 `mapstructure:"punish_last" json:"punish_last"`

	RewardLastStep float64 `mapstructure:"reward_last_step" json:"reward_last_step"`
	PunishLastStep float64 `mapstructure:"punish_last_step" json:"punish_last_step"`

	RewardLastMotion float64 `mapstructure:"reward_last_motion" json:"reward_last_motion"`
	PunishLastMotion float64 `mapstructure:"punish_last_motion" json:"punish_last_motion"`

	PunishRepeatedPenultimate    float64 `mapstructure:"punish_repeated_penultimate" json:"punish_repeated_penultimate"`
	RewardPenultimatePreparation float64 `mapstructure:"reward_penultimate_preparation" json:"reward_penultimate_preparation"`
	PunishPenultimatePreparation float64 `mapstructure:"punish_penultimate_preparation" json:"punish_penultimate_preparation"`

	PunishParallelFifthsOctaves float64 `mapstructure:"punish_parallel_fifths_octaves" json:"punish_parallel_fifths_octaves"`

	PunishRepeats  float64 `mapstructure:"punish_repeats" json:"punish_repeats"`
	PunishThirds   float64 `mapstructure:"punish_thirds" json:"punish_thirds"`
	PunishSixths   float64 `mapstructure:"punish_sixths" json:"punish_sixths"`
	PunishParallel float64 `mapstructure:"punish_parallel" json:"punish_parallel"`
	PunishLeaps    float64 `mapstructure:"punish_leaps" json:"punish_leaps"`

	RewardSuspension float64 `mapstructure:"reward_suspension" json:"reward_suspension"`

	RewardStepwiseMotion float64 `mapstructure:"reward_stepwise_motion" json:"reward_stepwise_motion"`
	PunishStepwiseMotion float64 `mapstructure:"punish_stepwise_motion" json:"punish_stepwise_motion"`
}

// DefaultWeights returns the default rule weights.
func DefaultWeights() Weights {
	return Weights{
		RewardFirst:                  1,
		PunishFirst:                  0.1,
		RewardLast:                   1,
		PunishLast:                   0.1,
		RewardLastStep:               1,
		PunishLastStep:               0.7,
		RewardLastMotion:             1,
		PunishLastMotion:             0.1,
		PunishRepeatedPenultimate:    0.1,
		RewardPenultimatePreparation: 1,
		PunishPenultimatePreparation: 0.7,
		PunishParallelFifthsOctaves:  0.5,
		PunishRepeats:                0.1,
		PunishThirds:                 0.1,
		PunishSixths:                 0.1,
		PunishParallel:               0.1,
		PunishLeaps:                  0.1,
		RewardSuspension:             1,
		RewardStepwiseMotion:         0.5,
		PunishStepwiseMotion:         0.1,
	}
}

// MaxReward is the sum of the cadence rewards a genome of the given length
// can earn. Rules that need more loci than the genome has do not count.
func (w Weights) MaxReward(length int) float64 {
	if length <= 0 {
		return 0
	}
	total := w.RewardFirst + w.RewardLast
	if length >= 2 {
		total += w.RewardLastStep + w.RewardLastMotion
	}
	if length >= 3 {
		total += w.RewardPenultimatePreparation
	}
	return total
}

// Evaluator scores genomes against one cantus firmus.
type Evaluator struct {
	cf      CantusFirmus
	align   Alignment
	weights Weights

	// Melody wide thresholds, derived from the cantus length.
	repeatThreshold float64
	leapThreshold   float64
}

// NewEvaluator returns an evaluator for cf. A nil align means note against note.
func NewEvaluator(cf CantusFirmus, align Alignment, w Weights) *Evaluator {
	if align == nil {
		align = NoteForNote{}
	}
	return &Evaluator{
		cf:              cf.Clone(),
		align:           align,
		weights:         w,
		repeatThreshold: float64(len(cf)) * 0.5,
		leapThreshold:   float64(len(cf)) * 0.3,
	}
}

// Evaluate returns the fitness of g, computing and caching it on first use.
func (e *Evaluator) Evaluate(g *Genome) (float64, error) {
	if f, ok := g.Fitness(); ok {
		return f, nil
	}
	if err := e.check(g); err != nil {
		return 0, err
	}
	f := e.score(g.Pitches())
	g.SetFitness(f)
	return f, nil
}

func (e *Evaluator) check(g *Genome) error {
	if len(e.cf) == 0 {
		return &EvaluationError{Locus: -1, Reason: "empty cantus firmus"}
	}
	if want := e.align.Length(len(e.cf)); g.Len() != want {
		return &EvaluationError{Locus: -1, Reason: fmt.Sprintf("genome has %d loci, want %d", g.Len(), want)}
	}
	for i, p := range g.Pitches() {
		if !IsLegalPitch(p) {
			return &EvaluationError{Locus: i, Pitch: p, Reason: "pitch out of range"}
		}
	}
	return nil
}

func (e *Evaluator) pair(cp []int, i int) Pair {
	return Pair{Counterpoint: cp[i], Cantus: e.cf[e.align.CantusIndex(i)]}
}

func (e *Evaluator) score(cp []int) float64 {
	w := e.weights
	n := len(cp)
	cf := e.cf
	var score float64

	// Start on a fifth or an octave.
	score += reward(IsFifthOrOctave(e.pair(cp, 0).Interval()), w.RewardFirst, w.PunishFirst)

	// Finish on an octave.
	score += reward(e.pair(cp, n-1).Interval() == Octave, w.RewardLast, w.PunishLast)

	if n >= 2 {
		// Step onto the final note.
		score += reward(abs(cp[n-1]-cp[n-2]) == 1, w.RewardLastStep, w.PunishLastStep)

		// Contrary motion onto the final note.
		if len(cf) >= 2 {
			cfMotion := sign(cf[len(cf)-1] - cf[len(cf)-2])
			cpMotion := sign(cp[n-1] - cp[n-2])
			score += reward(cfMotion != 0 && cpMotion == -cfMotion, w.RewardLastMotion, w.PunishLastMotion)
		} else {
			score -= w.PunishLastMotion
		}
	}

	if n >= 3 {
		// Approach the penultimate note from no further than a step.
		switch d := abs(cp[n-2] - cp[n-3]); {
		case d == 0:
			score -= w.PunishRepeatedPenultimate
		case d < 2:
			score += w.RewardPenultimatePreparation
		default:
			score -= w.PunishPenultimatePreparation
		}
	}

	var thirds, sixths, parallel, repeats, leaps int
	last := e.pair(cp, 0)
	for i := 1; i < n-2; i++ {
		current := e.pair(cp, i)
		interval, lastInterval := current.Interval(), last.Interval()

		if interval == Third && lastInterval == Third {
			thirds++
		}
		if interval == Sixth && lastInterval == Sixth {
			sixths++
		}
		if IsParallel(last, current) {
			parallel++
		}
		if leap := abs(current.Counterpoint - last.Counterpoint); leap > 2 {
			leaps += leap - 2
		}
		if IsPerfect(interval) && IsPerfect(lastInterval) {
			score -= w.PunishParallelFifthsOctaves
		}
		if current.Counterpoint == last.Counterpoint {
			repeats++
		}

		stepwise := IsStepwise(cp, i)
		switch {
		case stepwise:
			score += w.RewardStepwiseMotion
		case i%2 == 1 && IsDissonant(interval):
			// Weak-beat dissonances must be passing notes.
			score -= w.PunishStepwiseMotion
		}

		if IsSuspension(cp, i, cf, e.align) {
			score += w.RewardSuspension
		}

		last = current
	}

	score -= excess(float64(thirds), e.repeatThreshold, w.PunishThirds)
	score -= excess(float64(sixths), e.repeatThreshold, w.PunishSixths)
	score -= excess(float64(parallel), e.repeatThreshold, w.PunishParallel)
	score -= excess(float64(leaps), e.leapThreshold, w.PunishLeaps)
	score -= excess(float64(repeats), e.repeatThreshold, w.PunishRepeats)

	return score
}

// IsFifthOrOctave reports whether interval is a valid opening interval.
func IsFifthOrOctave(interval int) bool {
	return interval == Fifth || interval == Octave
}

func reward(ok bool, r, p float64) float64 {
	if ok {
		return r
	}
	return -p
}

func excess(quantity, limit, punishment float64) float64 {
	if quantity > limit {
		return punishment
	}
	return 0
}
