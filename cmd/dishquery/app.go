package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dishquery/internal/agent"
	"dishquery/internal/config"
	"dishquery/internal/query"
	"dishquery/internal/tools"
)

type app struct {
	cfg      *config.ProjectConfig
	service  *tools.Service
	registry *tools.Registry
	logger   *slog.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.LoadProjectConfig(globals.configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	service := tools.NewService(cfg.Data.MappingsDir, cfg.Data.DistancesFile, logger)
	return &app{
		cfg:      cfg,
		service:  service,
		registry: tools.NewRegistry(service, logger),
		logger:   logger,
	}, nil
}

func (a *app) systemPrompt() (string, error) {
	categories, err := a.service.Categories()
	if err != nil {
		a.logger.Warn("technique categories unavailable for the prompt", slog.String("error", err.Error()))
	}
	if a.cfg.LLM.SystemPromptFile == "" {
		return agent.DefaultSystemPrompt(categories), nil
	}
	data, err := os.ReadFile(a.cfg.LLM.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("reading system prompt: %w", err)
	}
	return agent.RenderPrompt(string(data), categories), nil
}

func (a *app) newDriver() (*query.Driver, error) {
	if strings.TrimSpace(a.cfg.LLM.Model) == "" {
		return nil, fmt.Errorf("llm model is required in %s", globals.configPath)
	}
	apiKey := a.cfg.LLM.APIKey()
	if apiKey == "" {
		a.logger.Warn("model API key is empty", slog.String("env", a.cfg.LLM.APIKeyEnv))
	}
	prompt, err := a.systemPrompt()
	if err != nil {
		return nil, err
	}
	llm := agent.New(agent.Config{
		BaseURL:      a.cfg.LLM.BaseURL,
		Model:        a.cfg.LLM.Model,
		APIKey:       apiKey,
		SystemPrompt: prompt,
		MaxSteps:     a.cfg.LLM.MaxSteps,
	}, a.registry, a.logger)
	return &query.Driver{Agent: llm, MaxAttempts: a.cfg.Query.MaxAttempts, Logger: a.logger}, nil
}
