// Package lilypond renders a cantus firmus and its counterpoint as a
// two-staff LilyPond score.
package lilypond

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/wildfunctions/counterpoint/pkg/melody"
)

var ErrNothingToRender = errors.New("nothing to render")

var names = [...]string{
	"g", "a", "b", "c'", "d'", "e'", "f'",
	"g'", "a'", "b'", "c''", "d''", "e''", "f''",
	"g''", "a''", "r",
}

// Layout describes how the counterpoint sits against the cantus.
type Layout struct {
	Title       string
	NotesPerBar int
	// Tied renders each note as two tied halves, starting after a half rest.
	Tied bool
}

// Normalize drops values outside 1..17.
func Normalize(notes []int) []int {
	out := make([]int, 0, len(notes))
	for _, n := range notes {
		if n >= melody.MinPitch && n <= melody.Rest {
			out = append(out, n)
		}
	}
	return out
}

// Note returns the LilyPond name of a pitch, or a rest for anything out of range.
func Note(p int) string {
	if p < melody.MinPitch || p > melody.Rest {
		return "r"
	}
	return names[p-1]
}

// C and F already lie a semitone above their lower neighbour.
func isCOrF(p int) bool {
	switch p {
	case 4, 7, 11, 14:
		return true
	}
	return false
}

func sharpen(name string) string {
	return name[:1] + "is" + name[1:]
}

// CantusFirmus renders notes as whole notes ending on a final barline.
func CantusFirmus(notes []int) string {
	notes = Normalize(notes)
	if len(notes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(notes)+1)
	for i, n := range notes {
		if i == 0 {
			parts = append(parts, Note(n)+"1")
			continue
		}
		parts = append(parts, Note(n))
	}
	parts = append(parts, `\bar "|."`)
	return strings.Join(parts, " ")
}

// Counterpoint renders notes with durations taken from layout. The
// penultimate note is raised a semitone when it rises by step onto a final
// that is neither C nor F.
func Counterpoint(notes []int, layout Layout) (string, error) {
	notes = Normalize(notes)
	if len(notes) == 0 {
		return "", nil
	}

	spelled := make([]string, len(notes))
	for i, n := range notes {
		spelled[i] = Note(n)
	}
	if last := len(notes) - 1; last > 0 {
		penult, final := notes[last-1], notes[last]
		if final == penult+1 && final != melody.Rest && !isCOrF(final) {
			spelled[last-1] = sharpen(spelled[last-1])
		}
	}

	var parts []string
	last := len(spelled) - 1
	switch {
	case layout.Tied && len(spelled) > 1:
		parts = append(parts, "r2")
		for _, name := range spelled[:last-1] {
			parts = append(parts, name+"2~", name+"2")
		}
		parts = append(parts, spelled[last-1]+"2")
	default:
		d, err := duration(layout.NotesPerBar)
		if err != nil {
			return "", err
		}
		for _, name := range spelled[:last] {
			parts = append(parts, name+d)
		}
	}
	parts = append(parts, spelled[last]+"1", `\bar "|."`)
	return strings.Join(parts, " "), nil
}

func duration(notesPerBar int) (string, error) {
	switch notesPerBar {
	case 0, 1:
		return "1", nil
	case 2:
		return "2", nil
	case 4:
		return "4", nil
	}
	return "", fmt.Errorf("unsupported notes per bar: %d", notesPerBar)
}

var score = template.Must(template.New("score").Parse(`\version "2.24.0"

\header {
  title = "{{.Title}}"
}

result = {
  <<
  \new Staff
  {
    \time 4/4
    \clef treble
    { {{.Counterpoint}} }
  }
  \new Staff
  {
    \time 4/4
    \clef treble
    { {{.CantusFirmus}} }
  }
  >>
}

\score {
  \result
  \midi {
    \context {
      \Score
      tempoWholesPerMinute = #(ly:make-moment 160/2)
    }
  }
  \layout {}
}
`))

// Render returns a complete LilyPond source file for cf and cp.
func Render(cf, cp []int, layout Layout) (string, error) {
	cantus := CantusFirmus(cf)
	counter, err := Counterpoint(cp, layout)
	if err != nil {
		return "", err
	}
	if cantus == "" || counter == "" {
		return "", ErrNothingToRender
	}
	if layout.Title == "" {
		layout.Title = "Counterpoint"
	}

	var b strings.Builder
	err = score.Execute(&b, struct {
		Title        string
		Counterpoint string
		CantusFirmus string
	}{layout.Title, counter, cantus})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
