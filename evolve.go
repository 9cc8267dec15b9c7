package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/counterpoint/pkg/engine"
	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/species"
	"github.com/wildfunctions/counterpoint/pkg/storage"
	"github.com/wildfunctions/counterpoint/pkg/strategy"
)

var (
	configPath string
	cantusFlag string
	flagCfg    = engine.DefaultConfig()
)

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Evolve a counterpoint",
	Long: `Evolve a counterpoint above a cantus firmus.

Settings come from the defaults, then the config file, then flags.

Examples:
  counterpoint evolve
  counterpoint evolve --preset fux-phrygian --species fourth --outdir out
  counterpoint evolve --cantus 5,7,6,5,8,7,9,8,7,6,5 --population 50 --seed 7
  counterpoint evolve --config run.yaml --store sqlite --format json`,
	Args: cobra.NoArgs,
	RunE: runEvolve,
}

func init() {
	f := evolveCmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (yaml, toml or json; default ./counterpoint.*)")
	f.StringVar(&flagCfg.Preset, "preset", flagCfg.Preset, "cantus firmus preset ("+strings.Join(melody.PresetNames(), ", ")+")")
	f.StringVar(&cantusFlag, "cantus", "", "cantus firmus as comma separated scale degrees, overrides --preset")
	f.StringVar(&flagCfg.Species, "species", flagCfg.Species, "species ("+strings.Join(species.Names(), ", ")+")")
	f.IntVar(&flagCfg.Population, "population", flagCfg.Population, "population size")
	f.IntVar(&flagCfg.Generations, "generations", flagCfg.Generations, "maximum number of generations")
	f.Float64Var(&flagCfg.MutationRate, "mutation-rate", flagCfg.MutationRate, "probability of mutating each note")
	f.IntVar(&flagCfg.MutationRange, "mutation-range", flagCfg.MutationRange, "largest interval a mutation may pick")
	f.StringVar(&flagCfg.Selection, "selection", flagCfg.Selection, "parent selection ("+strings.Join(strategy.Names(), ", ")+")")
	f.Int64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "random seed (0 = random)")
	f.StringVar(&flagCfg.Format, "format", flagCfg.Format, "output format ("+strings.Join(engine.Formats, ", ")+")")
	f.StringVar(&flagCfg.OutDir, "outdir", flagCfg.OutDir, "directory for the score and fitness plot")
	f.StringVar(&flagCfg.Store, "store", flagCfg.Store, "save the run to a store (memory, sqlite)")
	f.StringVar(&flagCfg.DBPath, "db", flagCfg.DBPath, "sqlite database path")
	rootCmd.AddCommand(evolveCmd)
}

func runEvolve(cmd *cobra.Command, _ []string) error {
	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var opts []engine.Option
	if cfg.Store != "" {
		store, err := openStore(ctx, cfg.Store, cfg.DBPath)
		if err != nil {
			return err
		}
		defer storage.CloseIfSupported(store)
		opts = append(opts, engine.WithStore(store))
	}

	e, err := engine.New(cfg, newLogger(cfg.Verbose), opts...)
	if err != nil {
		return err
	}
	report, err := e.Run(ctx)
	if err != nil {
		return err
	}
	return engine.WriteFinal(cmd.OutOrStdout(), report, cfg.Format)
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *engine.Config) error {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("preset", func() { cfg.Preset = flagCfg.Preset; cfg.CantusFirmus = nil })
	set("species", func() { cfg.Species = flagCfg.Species })
	set("population", func() { cfg.Population = flagCfg.Population })
	set("generations", func() { cfg.Generations = flagCfg.Generations })
	set("mutation-rate", func() { cfg.MutationRate = flagCfg.MutationRate })
	set("mutation-range", func() { cfg.MutationRange = flagCfg.MutationRange })
	set("selection", func() { cfg.Selection = flagCfg.Selection })
	set("seed", func() { cfg.Seed = flagCfg.Seed })
	set("format", func() { cfg.Format = flagCfg.Format })
	set("outdir", func() { cfg.OutDir = flagCfg.OutDir })
	set("store", func() { cfg.Store = flagCfg.Store })
	set("db", func() { cfg.DBPath = flagCfg.DBPath })
	if verbose {
		cfg.Verbose = true
	}

	if f.Changed("cantus") {
		cf, err := melody.ParseCantus(cantusFlag)
		if err != nil {
			return err
		}
		cfg.CantusFirmus = cf
	}
	return nil
}

func openStore(ctx context.Context, kind, path string) (storage.Store, error) {
	store, err := storage.NewStore(kind, path)
	if err != nil {
		return nil, &melody.ConfigError{Field: "store", Message: err.Error()}
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}
	return store, nil
}
