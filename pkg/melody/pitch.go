package melody

// Pitches are scale degrees: 1 is the g below middle c, 16 is a'' and Rest
// marks silence. Every counterpoint pitch must lie strictly between 0 and Rest.
const (
	MinPitch = 1
	Rest     = 17
)

// Intervals are measured in scale steps above the cantus firmus.
const (
	Third   = 2
	Fourth  = 3
	Fifth   = 4
	Sixth   = 5
	Seventh = 6
	Octave  = 7
	Ninth   = 8
	Tenth   = 9
	Twelfth = 11
)

// Consonances lists the stable intervals in ascending order.
var Consonances = []int{Third, Fifth, Sixth, Octave, Tenth, Twelfth}

// Dissonances lists the intervals that need stepwise treatment.
var Dissonances = []int{Fourth, Seventh, Ninth, 10}

// SuspensionDissonances are the tied dissonances resolved by a suspension.
var SuspensionDissonances = []int{Fourth, Seventh}

// IsConsonant reports whether interval is a consonance.
func IsConsonant(interval int) bool {
	return contains(Consonances, interval)
}

// IsDissonant reports whether interval is a dissonance.
func IsDissonant(interval int) bool {
	return contains(Dissonances, interval)
}

// IsPerfect reports whether interval is a fifth, octave or twelfth.
func IsPerfect(interval int) bool {
	return interval == Fifth || interval == Octave || interval == Twelfth
}

// IsLegalPitch reports whether p can appear in a counterpoint.
func IsLegalPitch(p int) bool {
	return p > 0 && p < Rest
}

func contains(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
