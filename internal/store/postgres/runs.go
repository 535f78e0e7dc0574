package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dishquery/internal/store"
)

func (c *Client) CreateRun(ctx context.Context, run store.Run) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO runs (id, project, model, difficulty, questions, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Project, run.Model, run.Difficulty, run.Questions, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", run.ID, err)
	}
	return nil
}

func (c *Client) SaveResult(ctx context.Context, result store.Result) error {
	_, err := c.pool.Exec(ctx, `
		INSERT INTO results (run_id, row_id, question, difficulty, expected, predicted, score, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, row_id) DO UPDATE SET
			question = EXCLUDED.question,
			difficulty = EXCLUDED.difficulty,
			expected = EXCLUDED.expected,
			predicted = EXCLUDED.predicted,
			score = EXCLUDED.score,
			error = EXCLUDED.error`,
		result.RunID, result.Row, result.Question, result.Difficulty,
		toInt64s(result.Expected), toInt64s(result.Predicted), result.Score, result.Error,
	)
	if err != nil {
		return fmt.Errorf("saving result %s/%d: %w", result.RunID, result.Row, err)
	}
	return nil
}

func (c *Client) FinishRun(ctx context.Context, runID string, accuracy float64, finishedAt time.Time) error {
	tag, err := c.pool.Exec(ctx,
		`UPDATE runs SET accuracy = $1, finished_at = $2 WHERE id = $3`,
		accuracy, finishedAt, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", store.ErrRunNotFound, runID)
	}
	return nil
}

func (c *Client) GetRun(ctx context.Context, runID string) (*store.Run, error) {
	row := c.pool.QueryRow(ctx, `
		SELECT id, project, model, difficulty, questions, started_at, finished_at, accuracy
		FROM runs WHERE id = $1`, runID)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", runID, err)
	}
	return run, nil
}

func (c *Client) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id, project, model, difficulty, questions, started_at, finished_at, accuracy
		FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (c *Client) ListResults(ctx context.Context, runID string) ([]store.Result, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT run_id, row_id, question, difficulty, expected, predicted, score, error
		FROM results WHERE run_id = $1 ORDER BY row_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []store.Result
	for rows.Next() {
		var r store.Result
		var expected, predicted []int64
		if err := rows.Scan(&r.RunID, &r.Row, &r.Question, &r.Difficulty, &expected, &predicted, &r.Score, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Expected = toInts(expected)
		r.Predicted = toInts(predicted)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

func scanRun(row pgx.Row) (*store.Run, error) {
	var run store.Run
	if err := row.Scan(&run.ID, &run.Project, &run.Model, &run.Difficulty, &run.Questions,
		&run.StartedAt, &run.FinishedAt, &run.Accuracy); err != nil {
		return nil, err
	}
	return &run, nil
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func toInts(ids []int64) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
