package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleRun(id string, created time.Time) RunRecord {
	return RunRecord{
		ID:           id,
		CreatedAt:    created,
		Species:      "fourth",
		Preset:       "fux-dorian",
		CantusFirmus: []int{5, 7, 6, 5, 8, 7, 9, 8, 7, 6, 5},
		Population:   50,
		Generations:  12,
		Seed:         42,
		Acceptable:   true,
		BestPitches:  []int{9, 11, 9, 7, 12, 11, 13, 12, 14, 13, 12},
		BestFitness:  7.5,
		History:      []float64{3.1, 4.2, 7.5},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := sampleRun("run-a", base)
	newer := sampleRun("run-b", base.Add(time.Minute))
	newer.BestFitness = 8

	for _, run := range []RunRecord{older, newer} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	got, ok, err := store.GetRun(ctx, "run-a")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected run-a to be stored")
	}
	want := older
	want.SchemaVersion = CurrentSchemaVersion
	want.CodecVersion = CurrentCodecVersion
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Errorf("GetRun(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	var ids []string
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	if diff := cmp.Diff([]string{"run-b", "run-a"}, ids); diff != "" {
		t.Errorf("list order (-want +got):\n%s", diff)
	}

	newer.BestFitness = 9
	if err := store.SaveRun(ctx, newer); err != nil {
		t.Fatalf("overwrite run: %v", err)
	}
	got, _, _ = store.GetRun(ctx, "run-b")
	if got.BestFitness != 9 {
		t.Errorf("overwritten fitness = %v, want 9", got.BestFitness)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	exerciseStore(t, store)
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	run := sampleRun("r", time.Now())
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	run.BestPitches[0] = 1
	got, _, _ := store.GetRun(ctx, "r")
	if got.BestPitches[0] != 9 {
		t.Errorf("stored pitches aliased caller slice: %v", got.BestPitches)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	if err := NewMemoryStore().SaveRun(context.Background(), sampleRun("r", time.Now())); err == nil {
		t.Fatal("expected error saving to uninitialized store")
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := first.SaveRun(ctx, sampleRun("persisted", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	if _, ok, err := second.GetRun(ctx, "persisted"); err != nil || !ok {
		t.Fatalf("GetRun after reopen = ok %v, err %v", ok, err)
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}

func TestDecodeRunVersionMismatch(t *testing.T) {
	_, err := DecodeRun([]byte(`{"schema_version":99,"codec_version":1,"id":"x"}`))
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestNewStore(t *testing.T) {
	for _, kind := range []string{"", "memory", "sqlite"} {
		store, err := NewStore(kind, filepath.Join(t.TempDir(), "x.db"))
		if err != nil {
			t.Fatalf("NewStore(%q): %v", kind, err)
		}
		if store == nil {
			t.Fatalf("NewStore(%q) returned nil store", kind)
		}
		if err := CloseIfSupported(store); err != nil {
			t.Errorf("close %q: %v", kind, err)
		}
	}
	if _, err := NewStore("unknown", ""); err == nil {
		t.Fatal("expected unsupported store error")
	}
}
