package melody

// Alignment maps counterpoint loci onto the cantus firmus. Species with
// several notes per bar place more than one locus against each cantus note.
type Alignment interface {
	// Length returns the counterpoint length for a cantus of cantusLen notes.
	Length(cantusLen int) int
	// CantusIndex returns the cantus position sounding under locus.
	CantusIndex(locus int) int
}

// NoteForNote aligns one counterpoint pitch with each cantus pitch.
type NoteForNote struct{}

func (NoteForNote) Length(cantusLen int) int  { return cantusLen }
func (NoteForNote) CantusIndex(locus int) int { return locus }

// Pair is a counterpoint pitch sounding against a cantus pitch.
type Pair struct {
	Counterpoint int
	Cantus       int
}

// Interval returns the distance of the counterpoint above the cantus.
func (p Pair) Interval() int { return p.Counterpoint - p.Cantus }

// IsParallel reports whether both voices move in the same direction between
// two consecutive pairs.
func IsParallel(last, current Pair) bool {
	cp := current.Counterpoint - last.Counterpoint
	cf := current.Cantus - last.Cantus
	return (cp > 0 && cf > 0) || (cp < 0 && cf < 0)
}

// IsStepwise reports whether the note at i is approached and left by step.
// Loci without a neighbour on both sides are never stepwise.
func IsStepwise(melody []int, i int) bool {
	if i <= 0 || i >= len(melody)-1 {
		return false
	}
	return abs(melody[i]-melody[i-1]) == 1 && abs(melody[i+1]-melody[i]) == 1
}

// IsSuspension reports whether the note at i is a dissonance against the
// next cantus note that resolves down by step onto a consonance: a fourth
// onto a third or a seventh onto a sixth.
func IsSuspension(melody []int, i int, cf CantusFirmus, align Alignment) bool {
	if i < 0 || i+1 >= len(melody) {
		return false
	}
	ci := align.CantusIndex(i + 1)
	if ci >= len(cf) {
		return false
	}
	dissonance := melody[i] - cf[ci]
	resolution := melody[i+1] - cf[ci]
	return (dissonance == Fourth && resolution == Third) ||
		(dissonance == Seventh && resolution == Sixth)
}

// CountSuspensions counts suspensions over the body of a melody, using the
// same loci the evaluator scans.
func CountSuspensions(melody []int, cf CantusFirmus, align Alignment) int {
	n := 0
	for i := 1; i < len(melody)-2; i++ {
		if IsSuspension(melody, i, cf, align) {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
