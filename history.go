package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/counterpoint/pkg/engine"
	"github.com/wildfunctions/counterpoint/pkg/storage"
)

var (
	historyDB   string
	historyJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history [RUN_ID]",
	Short: "List stored runs or show one",
	Long: `List runs saved with "evolve --store sqlite", newest first, or show a
single run with its best fitness per generation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", engine.DefaultConfig().DBPath, "sqlite database path")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx, "sqlite", historyDB)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(store)

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if len(args) == 1 {
		run, ok, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("run %s not found in %s", args[0], historyDB)
		}
		if historyJSON {
			return enc.Encode(run)
		}
		fmt.Fprintln(out, runDetail(run))
		return nil
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if historyJSON {
		return enc.Encode(runs)
	}
	t := engine.NewTable()
	t.AppendHeader(table.Row{"ID", "Created", "Species", "Cantus", "Gens", "Fitness", "Acceptable"})
	for _, r := range runs {
		cantus := r.Preset
		if cantus == "" {
			cantus = fmt.Sprint(r.CantusFirmus)
		}
		t.AppendRow(table.Row{r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Species, cantus, r.Generations, fmt.Sprintf("%.4f", r.BestFitness), r.Acceptable})
	}
	fmt.Fprintln(out, engine.Render(t, false))
	return nil
}

func runDetail(r storage.RunRecord) string {
	t := engine.NewTable()
	t.SetTitle("Run " + r.ID)
	t.AppendRows([]table.Row{
		{"Created", r.CreatedAt.Local().Format(time.DateTime)},
		{"Species", r.Species},
		{"Preset", r.Preset},
		{"Cantus firmus", fmt.Sprint(r.CantusFirmus)},
		{"Counterpoint", fmt.Sprint(r.BestPitches)},
		{"Fitness", fmt.Sprintf("%.4f", r.BestFitness)},
		{"Acceptable", r.Acceptable},
		{"Population", r.Population},
		{"Generations", r.Generations},
		{"Seed", r.Seed},
	})
	for i, f := range r.History {
		t.AppendRow(table.Row{fmt.Sprintf("gen %d", i+1), fmt.Sprintf("%.4f", f)})
	}
	return t.Render()
}
