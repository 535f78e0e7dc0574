package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dishquery/internal/answer"
)

const DefaultMaxAttempts = 3

var ErrNoAgent = errors.New("query driver has no agent")

// Agent turns a natural-language question into a natural-language answer,
// calling tools along the way.
type Agent interface {
	Run(ctx context.Context, question string) (string, error)
}

type AgentFunc func(ctx context.Context, question string) (string, error)

func (f AgentFunc) Run(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// Retry calls fn until it succeeds or attempts calls have failed, with no
// delay between calls. The last error is returned.
func Retry(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(attempts-1)), ctx)
	return backoff.Retry(func() error {
		return fn(ctx)
	}, policy)
}

type Driver struct {
	Agent       Agent
	MaxAttempts int
	Logger      *slog.Logger
}

// Query asks the agent and extracts the dish ids from its answer. Agent
// failures and malformed answers both consume an attempt.
func (d *Driver) Query(ctx context.Context, question string) (map[int]struct{}, error) {
	if d.Agent == nil {
		return nil, ErrNoAgent
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := d.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var result map[int]struct{}
	attempt := 0
	err := Retry(ctx, attempts, func(ctx context.Context) error {
		attempt++
		ids, err := d.attempt(ctx, question, attempt)
		if err != nil {
			queryAttempts.WithLabelValues("error").Inc()
			logger.Warn("query attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.String("error", err.Error()),
			)
			return err
		}
		queryAttempts.WithLabelValues("ok").Inc()
		result = ids
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query failed after %d attempts: %w", attempt, err)
	}
	logger.Info("query answered", slog.Int("attempts", attempt), slog.Int("dishes", len(result)))
	return result, nil
}

func (d *Driver) attempt(ctx context.Context, question string, n int) (map[int]struct{}, error) {
	ctx, span := otel.Tracer("dishquery/query").Start(ctx, "query.attempt")
	defer span.End()
	span.SetAttributes(attribute.Int("query.attempt", n))

	response, err := d.Agent.Run(ctx, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("agent: %w", err)
	}
	ids, err := answer.Extract(response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("query.dishes", len(ids)))
	return ids, nil
}
