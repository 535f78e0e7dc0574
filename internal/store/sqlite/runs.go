package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dishquery/internal/store"
)

func (c *Client) CreateRun(ctx context.Context, run store.Run) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (id, project, model, difficulty, questions, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.Model, run.Difficulty, run.Questions, formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("creating run %s: %w", run.ID, err)
	}
	return nil
}

func (c *Client) SaveResult(ctx context.Context, result store.Result) error {
	expected, err := encodeIDs(result.Expected)
	if err != nil {
		return err
	}
	predicted, err := encodeIDs(result.Predicted)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO results (run_id, row_id, question, difficulty, expected, predicted, score, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, row_id) DO UPDATE SET
			question = excluded.question,
			difficulty = excluded.difficulty,
			expected = excluded.expected,
			predicted = excluded.predicted,
			score = excluded.score,
			error = excluded.error`,
		result.RunID, result.Row, result.Question, result.Difficulty, expected, predicted, result.Score, result.Error,
	)
	if err != nil {
		return fmt.Errorf("saving result %s/%d: %w", result.RunID, result.Row, err)
	}
	return nil
}

func (c *Client) FinishRun(ctx context.Context, runID string, accuracy float64, finishedAt time.Time) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE runs SET accuracy = ?, finished_at = ? WHERE id = ?`,
		accuracy, formatTime(finishedAt), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", store.ErrRunNotFound, runID)
	}
	return nil
}

func (c *Client) GetRun(ctx context.Context, runID string) (*store.Run, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, project, model, difficulty, questions, started_at, finished_at, accuracy
		FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", runID, err)
	}
	return run, nil
}

func (c *Client) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := c.db.QueryContext(ctx, `
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
	rows, err := c.db.QueryContext(ctx, `
		SELECT run_id, row_id, question, difficulty, expected, predicted, score, error
		FROM results WHERE run_id = ? ORDER BY row_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []store.Result
	for rows.Next() {
		var r store.Result
		var expected, predicted string
		if err := rows.Scan(&r.RunID, &r.Row, &r.Question, &r.Difficulty, &expected, &predicted, &r.Score, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if err := json.Unmarshal([]byte(expected), &r.Expected); err != nil {
			return nil, fmt.Errorf("decoding expected ids: %w", err)
		}
		if err := json.Unmarshal([]byte(predicted), &r.Predicted); err != nil {
			return nil, fmt.Errorf("decoding predicted ids: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*store.Run, error) {
	var run store.Run
	var started string
	var finished sql.NullString
	var accuracy sql.NullFloat64
	if err := s.Scan(&run.ID, &run.Project, &run.Model, &run.Difficulty, &run.Questions, &started, &finished, &accuracy); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	run.StartedAt = t
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		run.FinishedAt = &t
	}
	if accuracy.Valid {
		run.Accuracy = &accuracy.Float64
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeIDs(ids []int) (string, error) {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding ids: %w", err)
	}
	return string(data), nil
}
