package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/counterpoint/pkg/engine"
	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/species"
)

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List the registered species",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		preset, err := melody.LoadPreset(melody.DefaultPreset)
		if err != nil {
			return err
		}
		cfLen := len(preset.CantusFirmus)

		t := engine.NewTable()
		t.AppendHeader(table.Row{"Species", "Notes per bar", fmt.Sprintf("Length over %d notes", cfLen)})
		for _, name := range species.Names() {
			sp, err := species.Get(name)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{name, sp.NotesPerBar(), sp.Length(cfLen)})
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.Render(t, false))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(speciesCmd)
}
