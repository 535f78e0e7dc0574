package eval

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dishquery/internal/answer"
	"dishquery/internal/store"
)

// Querier answers one question with a set of dish ids.
type Querier interface {
	Query(ctx context.Context, question string) (map[int]struct{}, error)
}

type Filter struct {
	// Difficulty keeps only questions whose difficulty matches,
	// case-insensitively. Empty keeps every question.
	Difficulty string
}

func (f Filter) Apply(questions []Question) []Question {
	if f.Difficulty == "" {
		return questions
	}
	var out []Question
	for _, q := range questions {
		if strings.EqualFold(q.Difficulty, f.Difficulty) {
			out = append(out, q)
		}
	}
	return out
}

type Result struct {
	Row        int
	Question   string
	Difficulty string
	Expected   []int
	Predicted  []int
	Score      float64
	Err        error
}

type Report struct {
	RunID    string
	Results  []Result
	Accuracy float64
}

type Runner struct {
	Querier Querier
	// Store is optional; when set every result is persisted as it is scored.
	Store   store.Store
	Project string
	Model   string
	Logger  *slog.Logger
}

// Run scores every selected question against the ground truth. A question
// whose query fails scores 0 and the run continues.
func (r *Runner) Run(ctx context.Context, questions []Question, truth map[int]map[int]struct{}, filter Filter) (*Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	selected := filter.Apply(questions)
	report := &Report{RunID: uuid.NewString()}

	if r.Store != nil {
		run := store.Run{
			ID:         report.RunID,
			Project:    r.Project,
			Model:      r.Model,
			Difficulty: filter.Difficulty,
			Questions:  len(selected),
			StartedAt:  time.Now().UTC(),
		}
		if err := r.Store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	total := 0.0
	for _, q := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		expected, ok := truth[q.Row]
		if !ok {
			logger.Warn("no ground truth for question", slog.Int("row", q.Row))
			expected = map[int]struct{}{}
		}

		result := Result{
			Row:        q.Row,
			Question:   q.Text,
			Difficulty: q.Difficulty,
			Expected:   answer.Sorted(expected),
			Predicted:  []int{},
		}
		predicted, err := r.Querier.Query(ctx, q.Text)
		if err != nil {
			result.Err = err
			logger.Error("question failed", slog.Int("row", q.Row), slog.String("error", err.Error()))
		} else {
			result.Predicted = answer.Sorted(predicted)
			result.Score = Jaccard(expected, predicted)
		}
		total += result.Score
		report.Results = append(report.Results, result)

		logger.Info("question scored",
			slog.Int("row", q.Row),
			slog.Float64("score", result.Score),
			slog.String("question", q.Text),
		)

		if r.Store != nil {
			if err := r.Store.SaveResult(ctx, toStoreResult(report.RunID, result)); err != nil {
				return nil, err
			}
		}
	}

	if len(selected) > 0 {
		report.Accuracy = total / float64(len(selected)) * 100
	}
	if r.Store != nil {
		if err := r.Store.FinishRun(ctx, report.RunID, report.Accuracy, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func toStoreResult(runID string, r Result) store.Result {
	out := store.Result{
		RunID:      runID,
		Row:        r.Row,
		Question:   r.Question,
		Difficulty: r.Difficulty,
		Expected:   r.Expected,
		Predicted:  r.Predicted,
		Score:      r.Score,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

// WritePredictions writes one CSV row per result: row_id, expected,
// predicted and score, with id lists comma-separated.
func WritePredictions(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row_id", "expected", "predicted", "score"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			strconv.Itoa(r.Row),
			joinIDs(r.Expected),
			joinIDs(r.Predicted),
			strconv.FormatFloat(r.Score, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
