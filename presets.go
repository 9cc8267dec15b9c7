package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/counterpoint/pkg/engine"
	"github.com/wildfunctions/counterpoint/pkg/melody"
)

var presetsMarkdown bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in cantus firmus presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t := engine.NewTable()
		t.AppendHeader(table.Row{"Name", "Notes", "Cantus firmus", "Description"})
		for _, name := range melody.PresetNames() {
			p, err := melody.LoadPreset(name)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{p.Name, len(p.CantusFirmus), p.CantusFirmus.String(), p.Description})
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.Render(t, presetsMarkdown))
		return nil
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsMarkdown, "markdown", false, "render as a Markdown table")
	rootCmd.AddCommand(presetsCmd)
}
