package melody

import (
	"fmt"
	"strconv"
	"strings"
)

// CantusFirmus is the fixed reference melody. It is never modified once a run
// starts; operators only read from it.
type CantusFirmus []int

// Validate checks that the cantus firmus is non-empty and every pitch is
// encodable.
func (cf CantusFirmus) Validate() error {
	if len(cf) == 0 {
		return &ConfigError{Field: "cantus_firmus", Message: "must contain at least one pitch"}
	}
	for i, p := range cf {
		if !IsLegalPitch(p) {
			return &ConfigError{
				Field:   "cantus_firmus",
				Message: fmt.Sprintf("pitch %d at position %d outside [%d, %d)", p, i, MinPitch, Rest),
			}
		}
	}
	return nil
}

// Clone returns an independent copy.
func (cf CantusFirmus) Clone() CantusFirmus {
	out := make(CantusFirmus, len(cf))
	copy(out, cf)
	return out
}

func (cf CantusFirmus) String() string {
	parts := make([]string, len(cf))
	for i, p := range cf {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseCantus parses a comma or space separated list of pitches.
func ParseCantus(s string) (CantusFirmus, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	cf := make(CantusFirmus, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ConfigError{Field: "cantus_firmus", Message: fmt.Sprintf("%q is not a pitch", f)}
		}
		cf = append(cf, p)
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}
