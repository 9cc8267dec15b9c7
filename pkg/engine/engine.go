package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/wildfunctions/counterpoint/pkg/lilypond"
	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/plot"
	"github.com/wildfunctions/counterpoint/pkg/species"
	"github.com/wildfunctions/counterpoint/pkg/storage"
	"github.com/wildfunctions/counterpoint/pkg/strategy"
)

// topCount bounds FinalReport.Top.
const topCount = 5

// Engine runs the evolutionary search for one cantus firmus.
type Engine struct {
	cfg       Config
	cf        melody.CantusFirmus
	species   species.Species
	evaluator *melody.Evaluator
	halter    *melody.Halter
	generator *strategy.Generator
	rng       *rand.Rand
	logger    *slog.Logger
	store     storage.Store
}

// Option customises an Engine.
type Option func(*Engine)

// WithStore persists every finished run to s. The store must be initialised.
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// New creates a new engine from the given config. A nil logger discards output.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp, err := species.Get(cfg.Species)
	if err != nil {
		return nil, err
	}
	sel, err := strategy.Get(cfg.Selection)
	if err != nil {
		return nil, err
	}
	cf, err := cfg.Cantus()
	if err != nil {
		return nil, err
	}

	if cfg.Seed == 0 {
		cfg.Seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	gen, err := strategy.NewGenerator(sp, cf, cfg.MutationRange, cfg.MutationRate, sel, rng)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		cfg:       cfg,
		cf:        cf,
		species:   sp,
		evaluator: melody.NewEvaluator(cf, sp, cfg.Weights),
		halter:    melody.NewHalter(cf, sp, cfg.Weights, cfg.Generations),
		generator: gen,
		rng:       rng,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the resolved config, including the seed actually used.
func (e *Engine) Config() Config { return e.cfg }

// Run executes the evolutionary loop and returns the final report. The
// context is checked between generations and passed to the store.
func (e *Engine) Run(ctx context.Context) (FinalReport, error) {
	start := time.Now()
	id := uuid.NewString()
	log := e.logger.With("run", id)

	pop, err := species.CreatePopulation(e.species, e.cfg.Population, e.cf, e.rng)
	if err != nil {
		return FinalReport{}, err
	}

	log.Info("starting run",
		"species", e.species.Name(),
		"cantus", e.cf.String(),
		"population", e.cfg.Population,
		"generations", e.cfg.Generations,
		"selection", e.cfg.Selection,
		"mutation_rate", e.cfg.MutationRate,
		"mutation_range", e.cfg.MutationRange,
		"seed", e.cfg.Seed)

	run := Evolve(pop, e.evaluator.Evaluate, e.generator.Next, e.halter.Halt)

	var (
		reports []GenerationReport
		last    []*melody.Genome
	)
	for gen, ranked := range run.All() {
		report := summarize(gen, ranked)
		improved := len(reports) == 0 || report.BestFitness > reports[len(reports)-1].BestFitness
		reports = append(reports, report)
		last = ranked

		if improved {
			log.Info("new best", "generation", gen, "fitness", report.BestFitness, "pitches", report.Best)
		} else {
			log.Debug("generation", "generation", gen, "best", report.BestFitness, "mean", report.MeanFitness, "stddev", report.StdDevFitness)
		}

		if err := ctx.Err(); err != nil {
			return FinalReport{}, err
		}
	}
	if err := run.Err(); err != nil {
		return FinalReport{}, err
	}

	best := last[0]
	fitness, _ := best.Fitness()
	final := FinalReport{
		RunID:        id,
		Name:         e.cfg.Name(),
		Config:       e.cfg,
		Species:      e.species.Name(),
		CantusFirmus: slices.Clone(e.cf),
		Generations:  run.Generation(),
		BestPitches:  slices.Clone(best.Pitches()),
		BestFitness:  fitness,
		Target:       e.halter.Target(best),
		Acceptable:   e.halter.Acceptable(best),
		Top:          topDistinct(last, topCount),
		Elapsed:      time.Since(start),
	}
	if e.cfg.Verbose {
		final.History = reports
	}

	log.Info("finished run",
		"generations", final.Generations,
		"fitness", final.BestFitness,
		"target", final.Target,
		"acceptable", final.Acceptable,
		"elapsed", final.Elapsed)

	if e.store != nil {
		record := storage.RunRecord{
			ID:           id,
			CreatedAt:    start.UTC(),
			Species:      final.Species,
			Preset:       e.cfg.Preset,
			CantusFirmus: final.CantusFirmus,
			Population:   e.cfg.Population,
			Generations:  final.Generations,
			Seed:         e.cfg.Seed,
			Acceptable:   final.Acceptable,
			BestPitches:  final.BestPitches,
			BestFitness:  final.BestFitness,
			History:      bestHistory(reports),
		}
		if len(e.cfg.CantusFirmus) > 0 {
			record.Preset = ""
		}
		if err := e.store.SaveRun(ctx, record); err != nil {
			return final, fmt.Errorf("save run %s: %w", id, err)
		}
		log.Debug("saved run")
	}

	if e.cfg.OutDir != "" {
		final.Files = e.writeOutputs(log, final, reports)
	}

	return final, nil
}

// writeOutputs writes the score and fitness plot into OutDir, compiling the
// score when lilypond is installed. Failures are logged, not returned.
func (e *Engine) writeOutputs(log *slog.Logger, final FinalReport, reports []GenerationReport) []string {
	outDir, err := filepath.Abs(e.cfg.OutDir)
	if err != nil {
		log.Error("resolve outdir", "err", err)
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Error("create outdir", "dir", outDir, "err", err)
		return nil
	}

	var written []string
	base := filepath.Join(outDir, final.Name)

	layout := lilypond.Layout{
		Title:       fmt.Sprintf("%s (%s species)", final.Name, final.Species),
		NotesPerBar: e.species.NotesPerBar(),
		Tied:        syncopated(e.species),
	}
	score, err := lilypond.Render(final.CantusFirmus, final.BestPitches, layout)
	if err != nil {
		log.Error("render score", "err", err)
	} else if err := os.WriteFile(base+".ly", []byte(score), 0o644); err != nil {
		log.Error("write score", "path", base+".ly", "err", err)
	} else {
		written = append(written, base+".ly")
		log.Info("wrote score", "path", base+".ly")

		if bin, err := exec.LookPath("lilypond"); err == nil {
			cmd := exec.Command(bin, "--loglevel=ERROR", "-o", base, base+".ly")
			cmd.Dir = outDir
			if out, err := cmd.CombinedOutput(); err != nil {
				log.Error("lilypond failed", "err", err, "output", string(out))
			} else {
				for _, ext := range []string{".pdf", ".midi"} {
					if _, err := os.Stat(base + ext); err == nil {
						written = append(written, base+ext)
					}
				}
			}
		}
	}

	best := make([]float64, len(reports))
	mean := make([]float64, len(reports))
	for i, r := range reports {
		best[i] = r.BestFitness
		mean[i] = r.MeanFitness
	}
	if err := plot.FitnessHistory(best, mean, layout.Title, base+".png"); err != nil {
		log.Error("plot fitness", "path", base+".png", "err", err)
	} else {
		written = append(written, base+".png")
		log.Info("wrote plot", "path", base+".png")
	}
	return written
}

func summarize(gen int, ranked []*melody.Genome) GenerationReport {
	fitness := make([]float64, len(ranked))
	for i, g := range ranked {
		fitness[i], _ = g.Fitness()
	}
	mean, std := stat.PopMeanStdDev(fitness, nil)
	return GenerationReport{
		Generation:    gen,
		BestFitness:   fitness[0],
		MeanFitness:   mean,
		StdDevFitness: std,
		Best:          ranked[0].String(),
	}
}

// topDistinct returns up to n genomes from ranked with distinct pitches.
func topDistinct(ranked []*melody.Genome, n int) []Candidate {
	var top []Candidate
	seen := make([]*melody.Genome, 0, n)
	for _, g := range ranked {
		if len(top) == n {
			break
		}
		if slices.ContainsFunc(seen, g.Equal) {
			continue
		}
		seen = append(seen, g)
		f, _ := g.Fitness()
		top = append(top, Candidate{Rank: len(top) + 1, Pitches: slices.Clone(g.Pitches()), Fitness: f})
	}
	return top
}

func bestHistory(reports []GenerationReport) []float64 {
	h := make([]float64, len(reports))
	for i, r := range reports {
		h[i] = r.BestFitness
	}
	return h
}

func syncopated(sp species.Species) bool {
	s, ok := sp.(interface{ Syncopated() bool })
	return ok && s.Syncopated()
}
