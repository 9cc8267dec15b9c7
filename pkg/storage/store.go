package storage

import (
	"context"
	"time"
)

// RunRecord is the persisted summary of one finished evolution run.
type RunRecord struct {
	VersionedRecord
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Species      string    `json:"species"`
	Preset       string    `json:"preset,omitempty"`
	CantusFirmus []int     `json:"cantus_firmus"`
	Population   int       `json:"population"`
	Generations  int       `json:"generations"`
	Seed         int64     `json:"seed"`
	Acceptable   bool      `json:"acceptable"`
	BestPitches  []int     `json:"best_pitches"`
	BestFitness  float64   `json:"best_fitness"`
	History      []float64 `json:"history"`
}

type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Store persists finished runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	// ListRuns returns every stored run, newest first.
	ListRuns(ctx context.Context) ([]RunRecord, error)
}
