package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/species"
	"github.com/wildfunctions/counterpoint/pkg/storage"
)

var dorian = []int{5, 7, 6, 5, 8, 7, 9, 8, 7, 6, 5}

func identity(g int) (float64, error) { return float64(g), nil }

func increment(ranked []int) ([]int, error) {
	next := make([]int, len(ranked))
	for i, g := range ranked {
		next[i] = g + 1
	}
	return next, nil
}

func haltAfter(n int) HaltFunc[int] {
	return func(_ []int, generation int) bool { return generation >= n }
}

func TestEvolveRanksAndHalts(t *testing.T) {
	run := Evolve([]int{1, 3, 2}, identity, increment, haltAfter(3))

	var gens []int
	var pops [][]int
	for gen, pop := range run.All() {
		gens = append(gens, gen)
		pops = append(pops, slices.Clone(pop))
	}
	if err := run.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, gens); diff != "" {
		t.Errorf("generations (-want +got):\n%s", diff)
	}
	want := [][]int{{3, 2, 1}, {4, 3, 2}, {5, 4, 3}}
	if diff := cmp.Diff(want, pops); diff != "" {
		t.Errorf("populations (-want +got):\n%s", diff)
	}
	if run.Next() {
		t.Error("run should not restart after halting")
	}
}

func TestEvolveHaltsOnFirstPopulation(t *testing.T) {
	run := Evolve([]int{1}, identity, increment, func([]int, int) bool { return true })
	n := 0
	for run.Next() {
		n++
	}
	if n != 1 {
		t.Errorf("yielded %d populations, want 1", n)
	}
}

func TestEvolveIsLazy(t *testing.T) {
	calls := 0
	generate := func(ranked []int) ([]int, error) {
		calls++
		return increment(ranked)
	}
	run := Evolve([]int{1, 2}, identity, generate, haltAfter(10))
	if calls != 0 {
		t.Fatalf("generate called %d times before Next", calls)
	}
	run.Next()
	run.Next()
	if calls != 1 {
		t.Errorf("generate called %d times after two Next calls, want 1", calls)
	}
	if run.Generation() != 2 {
		t.Errorf("generation = %d, want 2", run.Generation())
	}
}

func TestRankIsStable(t *testing.T) {
	type tagged struct {
		id    string
		score float64
	}
	pop := []tagged{{"a", 1}, {"b", 2}, {"c", 1}, {"d", 2}, {"e", 0}}
	ranked, err := Rank(pop, func(g tagged) (float64, error) { return g.score, nil })
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, g := range ranked {
		ids = append(ids, g.id)
	}
	if diff := cmp.Diff([]string{"b", "d", "a", "c", "e"}, ids); diff != "" {
		t.Errorf("rank order (-want +got):\n%s", diff)
	}
}

func TestEvolveErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		initial  []int
		evaluate EvaluateFunc[int]
		generate GenerateFunc[int]
		want     error
		yields   int
	}{
		{"empty", nil, identity, increment, ErrEmptyPopulation, 0},
		{"evaluate", []int{1}, func(int) (float64, error) { return 0, boom }, increment, boom, 0},
		{"generate", []int{1}, identity, func([]int) ([]int, error) { return nil, boom }, boom, 1},
		{"size", []int{1, 2}, identity, func(r []int) ([]int, error) { return r[:1], nil }, ErrPopulationSize, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := Evolve(tt.initial, tt.evaluate, tt.generate, haltAfter(5))
			yields := 0
			for run.Next() {
				yields++
			}
			if yields != tt.yields {
				t.Errorf("yielded %d populations, want %d", yields, tt.yields)
			}
			if !errors.Is(run.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", run.Err(), tt.want)
			}
			if run.Population() != nil {
				t.Error("population should be cleared after failure")
			}
		})
	}
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.CantusFirmus = dorian
	cfg.Population = 50
	cfg.Generations = 100
	cfg.MutationRate = 0.4
	cfg.MutationRange = 9
	cfg.Seed = 42
	return cfg
}

func TestEngineBestFitnessNeverDecreases(t *testing.T) {
	cfg := smallConfig()
	cfg.Verbose = true

	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.History) != report.Generations {
		t.Fatalf("history has %d entries, want %d", len(report.History), report.Generations)
	}
	if report.Generations > cfg.Generations+1 {
		t.Errorf("ran %d generations, budget %d", report.Generations, cfg.Generations)
	}
	for i := 1; i < len(report.History); i++ {
		if report.History[i].BestFitness < report.History[i-1].BestFitness {
			t.Fatalf("best fitness dropped at generation %d: %.4f -> %.4f",
				report.History[i].Generation, report.History[i-1].BestFitness, report.History[i].BestFitness)
		}
	}
	last := report.History[len(report.History)-1]
	if last.BestFitness != report.BestFitness {
		t.Errorf("final best %.4f differs from last generation %.4f", report.BestFitness, last.BestFitness)
	}
	if report.Acceptable != (report.BestFitness >= report.Target) {
		t.Errorf("acceptable = %v with fitness %.4f and target %.4f", report.Acceptable, report.BestFitness, report.Target)
	}
	if !report.Acceptable && report.Generations != cfg.Generations+1 {
		t.Errorf("stopped early at generation %d without an acceptable genome", report.Generations)
	}
	if len(report.BestPitches) != len(dorian) {
		t.Errorf("best has %d pitches, want %d", len(report.BestPitches), len(dorian))
	}

	t.Logf("gen %d: fitness %.4f / target %.4f: %v", report.Generations, report.BestFitness, report.Target, report.BestPitches)
}

func TestEngineSeedIsReproducible(t *testing.T) {
	cfg := smallConfig()
	cfg.Generations = 10

	run := func() FinalReport {
		e, err := New(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		r, err := e.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return r
	}
	a, b := run(), run()
	if diff := cmp.Diff(a.BestPitches, b.BestPitches); diff != "" {
		t.Errorf("same seed gave different results (-a +b):\n%s", diff)
	}
}

func TestEngineRandomSeedIsRecorded(t *testing.T) {
	cfg := smallConfig()
	cfg.Seed = 0
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Config().Seed == 0 {
		t.Error("expected a random seed to be chosen")
	}
}

func TestEngineAllSpecies(t *testing.T) {
	for _, name := range species.Names() {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Species = name
			cfg.Population = 20
			cfg.Generations = 5

			e, err := New(cfg, nil)
			if err != nil {
				t.Fatal(err)
			}
			report, err := e.Run(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			sp, _ := species.Get(name)
			if got, want := len(report.BestPitches), sp.Length(len(dorian)); got != want {
				t.Errorf("best has %d pitches, want %d", got, want)
			}
			for i, p := range report.BestPitches {
				if !melody.IsLegalPitch(p) {
					t.Errorf("locus %d: illegal pitch %d", i, p)
				}
			}
		})
	}
}

func TestEngineSavesRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.Generations = 5
	e, err := New(cfg, nil, WithStore(store))
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}

	rec, ok, err := store.GetRun(ctx, report.RunID)
	if err != nil || !ok {
		t.Fatalf("GetRun(%s) = ok %v, err %v", report.RunID, ok, err)
	}
	if diff := cmp.Diff(report.BestPitches, rec.BestPitches); diff != "" {
		t.Errorf("stored pitches (-report +stored):\n%s", diff)
	}
	if len(rec.History) != report.Generations {
		t.Errorf("stored %d history points, want %d", len(rec.History), report.Generations)
	}
	if rec.Seed != cfg.Seed || rec.Species != "first" {
		t.Errorf("unexpected record metadata: %+v", rec)
	}
}

func TestEngineWritesOutputs(t *testing.T) {
	cfg := smallConfig()
	cfg.Preset = "fux-dorian"
	cfg.CantusFirmus = nil
	cfg.Species = "fourth"
	cfg.Generations = 3
	cfg.OutDir = t.TempDir()

	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, ext := range []string{".ly", ".png"} {
		path := filepath.Join(cfg.OutDir, "fux-dorian_fourth"+ext)
		if !slices.Contains(report.Files, path) {
			t.Errorf("report files %v missing %s", report.Files, path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("stat %s: %v", path, err)
		}
	}
	score, err := os.ReadFile(filepath.Join(cfg.OutDir, "fux-dorian_fourth.ly"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(score), "r2 ") {
		t.Error("fourth species score should open with a half rest")
	}
}

func TestEngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, err := New(smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run with cancelled context = %v, want context.Canceled", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := map[string]func(*Config){
		"species":    func(c *Config) { c.Species = "fifth" },
		"selection":  func(c *Config) { c.Selection = "lottery" },
		"population": func(c *Config) { c.Population = 0 },
		"generation": func(c *Config) { c.Generations = -1 },
		"format":     func(c *Config) { c.Format = "xml" },
		"cantus":     func(c *Config) { c.CantusFirmus = []int{5, 0, 6} },
		"preset":     func(c *Config) { c.CantusFirmus = nil; c.Preset = "nope" },
		"rate":       func(c *Config) { c.MutationRate = 1.5 },
		"range":      func(c *Config) { c.MutationRange = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			mutate(&cfg)
			_, err := New(cfg, nil)
			if !errors.Is(err, melody.ErrConfig) {
				t.Errorf("New() error = %v, want a config error", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `species: second
population: 20
cantus_firmus: [5, 7, 6, 5]
weights:
  reward_first: 2
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Species = "second"
	want.Population = 20
	want.CantusFirmus = []int{5, 7, 6, 5}
	want.Weights.RewardFirst = 2
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestWriteFinal(t *testing.T) {
	report := FinalReport{
		RunID:        "r1",
		Name:         "fux-dorian_first",
		Config:       DefaultConfig(),
		Species:      "first",
		CantusFirmus: []int{5, 7, 5},
		BestPitches:  []int{9, 11, 12},
		BestFitness:  4.5,
		Target:       5,
		Top:          []Candidate{{Rank: 1, Pitches: []int{9, 11, 12}, Fitness: 4.5}},
		History:      []GenerationReport{{Generation: 1, BestFitness: 4.5, MeanFitness: 2, Best: "[9 11 12]"}},
	}

	var text bytes.Buffer
	if err := WriteFinal(&text, report, "text"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fux-dorian_first", "9 11 12", "4.5000", "Generations"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, text.String())
		}
	}

	var md bytes.Buffer
	if err := WriteFinal(&md, report, "markdown"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), "| ") {
		t.Errorf("markdown output has no table rows:\n%s", md.String())
	}

	var js bytes.Buffer
	if err := WriteFinal(&js, report, "json"); err != nil {
		t.Fatal(err)
	}
	var decoded FinalReport
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if diff := cmp.Diff(report, decoded); diff != "" {
		t.Errorf("json round trip (-want +got):\n%s", diff)
	}
}
