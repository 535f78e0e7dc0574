package store

import (
	"context"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("evaluation run not found")

// Store persists evaluation runs and their per-question results.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	CreateRun(ctx context.Context, run Run) error
	SaveResult(ctx context.Context, result Result) error
	FinishRun(ctx context.Context, runID string, accuracy float64, finishedAt time.Time) error

	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context) ([]Run, error)
	ListResults(ctx context.Context, runID string) ([]Result, error)
}
