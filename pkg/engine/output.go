package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// GenerationReport summarizes one generation.
type GenerationReport struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
	Best          string  `json:"best"`
}

// Candidate is one of the fittest distinct genomes of the final generation.
type Candidate struct {
	Rank    int     `json:"rank"`
	Pitches []int   `json:"pitches"`
	Fitness float64 `json:"fitness"`
}

// FinalReport summarizes the entire run.
type FinalReport struct {
	RunID        string             `json:"run_id"`
	Name         string             `json:"name"`
	Config       Config             `json:"config"`
	Species      string             `json:"species"`
	CantusFirmus []int              `json:"cantus_firmus"`
	Generations  int                `json:"generations"`
	BestPitches  []int              `json:"best_pitches"`
	BestFitness  float64            `json:"best_fitness"`
	Target       float64            `json:"target"`
	Acceptable   bool               `json:"acceptable"`
	Top          []Candidate        `json:"top"`
	History      []GenerationReport `json:"history,omitempty"`
	Files        []string           `json:"files,omitempty"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
}

// NewTable returns a table writer in the style shared by all text output.
func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

// Render renders t as Markdown when markdown is set, otherwise as box text.
func Render(t table.Writer, markdown bool) string {
	if markdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}

// WriteTextFinal writes the final report as tables. markdown selects
// GitHub-flavoured Markdown instead of box drawing.
func WriteTextFinal(w io.Writer, r FinalReport, markdown bool) {
	summary := NewTable()
	summary.SetTitle("Result: " + r.Name)
	summary.AppendRows([]table.Row{
		{"Run", r.RunID},
		{"Species", r.Species},
		{"Selection", r.Config.Selection},
		{"Seed", r.Config.Seed},
		{"Cantus firmus", joinInts(r.CantusFirmus)},
		{"Counterpoint", joinInts(r.BestPitches)},
		{"Fitness", fmt.Sprintf("%.4f", r.BestFitness)},
		{"Target", fmt.Sprintf("%.4f", r.Target)},
		{"Acceptable", r.Acceptable},
		{"Generations", r.Generations},
		{"Elapsed", r.Elapsed.Round(time.Millisecond)},
	})
	for _, f := range r.Files {
		summary.AppendRow(table.Row{"Wrote", f})
	}
	fmt.Fprintln(w, Render(summary, markdown))

	if len(r.Top) > 0 {
		top := NewTable()
		top.SetTitle("Fittest distinct genomes")
		top.AppendHeader(table.Row{"#", "Fitness", "Pitches"})
		for _, c := range r.Top {
			top.AppendRow(table.Row{c.Rank, fmt.Sprintf("%.4f", c.Fitness), joinInts(c.Pitches)})
		}
		top.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
			{Number: 2, Align: text.AlignRight},
		})
		fmt.Fprintln(w, Render(top, markdown))
	}

	if len(r.History) > 0 {
		hist := NewTable()
		hist.SetTitle("Generations")
		hist.AppendHeader(table.Row{"Gen", "Best", "Mean", "StdDev", "Best genome"})
		for _, g := range r.History {
			hist.AppendRow(table.Row{
				g.Generation,
				fmt.Sprintf("%.4f", g.BestFitness),
				fmt.Sprintf("%.4f", g.MeanFitness),
				fmt.Sprintf("%.4f", g.StdDevFitness),
				g.Best,
			})
		}
		hist.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		fmt.Fprintln(w, Render(hist, markdown))
	}
}

// WriteJSONFinal writes the final report as JSON.
func WriteJSONFinal(w io.Writer, r FinalReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFinal writes r in the given format.
func WriteFinal(w io.Writer, r FinalReport, format string) error {
	switch format {
	case "json":
		return WriteJSONFinal(w, r)
	case "markdown":
		WriteTextFinal(w, r, true)
	default:
		WriteTextFinal(w, r, false)
	}
	return nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}
