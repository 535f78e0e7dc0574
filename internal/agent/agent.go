package agent

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"dishquery/internal/tools"
)

const DefaultMaxSteps = 20

var (
	ErrMaxSteps      = errors.New("agent exceeded the maximum number of steps")
	ErrEmptyResponse = errors.New("model returned no choices")
)

//go:embed prompt.txt
var defaultPrompt string

// DefaultSystemPrompt returns the built-in instructions with the technique
// categories listed one per line.
func DefaultSystemPrompt(categories []string) string {
	return RenderPrompt(defaultPrompt, categories)
}

// RenderPrompt replaces the {categories} placeholder of template.
func RenderPrompt(template string, categories []string) string {
	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		lines = append(lines, "- "+category)
	}
	return strings.ReplaceAll(template, "{categories}", strings.Join(lines, "\n"))
}

type Config struct {
	BaseURL      string
	Model        string
	APIKey       string
	SystemPrompt string
	MaxSteps     int
}

// Agent drives an OpenAI-compatible chat model that may call the registry's
// tools before giving its final answer.
type Agent struct {
	client   *openai.Client
	cfg      Config
	registry *tools.Registry
	tools    []openai.Tool
	logger   *slog.Logger
}

func New(cfg Config, registry *tools.Registry, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Agent{
		client:   openai.NewClientWithConfig(clientCfg),
		cfg:      cfg,
		registry: registry,
		tools:    toolDefinitions(registry),
		logger:   logger,
	}
}

func toolDefinitions(registry *tools.Registry) []openai.Tool {
	var defs []openai.Tool
	for _, tool := range registry.Tools() {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return defs
}

// Run answers question. Tool failures are reported back to the model as an
// error object so it can recover; transport failures end the run.
func (a *Agent) Run(ctx context.Context, question string) (string, error) {
	ctx, span := otel.Tracer("dishquery/agent").Start(ctx, "agent.run")
	defer span.End()

	var messages []openai.ChatCompletionMessage
	if a.cfg.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.cfg.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	for step := 1; step <= a.cfg.MaxSteps; step++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.cfg.Model,
			Messages: messages,
			Tools:    a.tools,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)
		if len(msg.ToolCalls) == 0 {
			span.SetAttributes(attribute.Int("agent.steps", step))
			a.logger.Debug("agent answered", slog.Int("steps", step))
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			a.logger.Debug("agent tool call",
				slog.Int("step", step),
				slog.String("tool", call.Function.Name),
				slog.String("args", call.Function.Arguments),
			)
			result, err := a.registry.Call(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if err != nil {
				result = errorResult(err)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("%w (%d)", ErrMaxSteps, a.cfg.MaxSteps)
}

func errorResult(err error) string {
	encoded, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(encoded)
}
