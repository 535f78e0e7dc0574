package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIKeyEnv   = "OPENAI_API_KEY"
	DefaultMaxSteps    = 20
	DefaultMaxAttempts = 3
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Data     DataConfig     `yaml:"data"`
	LLM      LLMConfig      `yaml:"llm"`
	Query    QueryConfig    `yaml:"query"`
	Database DatabaseConfig `yaml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DataConfig struct {
	MappingsDir   string `yaml:"mappings_dir"`
	DistancesFile string `yaml:"distances_file"`
}

type LLMConfig struct {
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	APIKeyEnv        string `yaml:"api_key_env"`
	MaxSteps         int    `yaml:"max_steps"`
	SystemPromptFile string `yaml:"system_prompt_file"`
}

type QueryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type MetricsConfig struct {
	Address string `yaml:"address"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.LLM.APIKeyEnv) == "" {
		cfg.LLM.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.LLM.MaxSteps == 0 {
		cfg.LLM.MaxSteps = DefaultMaxSteps
	}
	if cfg.Query.MaxAttempts == 0 {
		cfg.Query.MaxAttempts = DefaultMaxAttempts
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Data.MappingsDir) == "" {
		return fmt.Errorf("data mappings_dir is required")
	}
	if strings.TrimSpace(cfg.Data.DistancesFile) == "" {
		return fmt.Errorf("data distances_file is required")
	}
	if cfg.LLM.MaxSteps < 0 {
		return fmt.Errorf("llm max_steps must be positive: %d", cfg.LLM.MaxSteps)
	}
	if cfg.Query.MaxAttempts < 0 {
		return fmt.Errorf("query max_attempts must be positive: %d", cfg.Query.MaxAttempts)
	}
	if dsn := cfg.Database.DSN; dsn != "" && !strings.HasPrefix(dsn, "postgres://") &&
		!strings.HasPrefix(dsn, "postgresql://") && !strings.HasPrefix(dsn, "sqlite://") {
		return fmt.Errorf("unsupported database dsn scheme: %s", dsn)
	}
	return nil
}

// APIKey reads the model API key from the environment variable named by
// APIKeyEnv.
func (c LLMConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// LoadEnv loads variables from the given dotenv files into the process
// environment. Missing files are skipped and variables already set win.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// Template returns a starter project file for name.
func Template(name string) string {
	return fmt.Sprintf(`project: %s
version: 1

data:
  mappings_dir: ./data/mappings
  distances_file: ./data/distanze.csv

llm:
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
  api_key_env: %s
  max_steps: %d

query:
  max_attempts: %d

database:
  dsn: sqlite://./dishquery.db

metrics:
  address: ""
`, name, DefaultAPIKeyEnv, DefaultMaxSteps, DefaultMaxAttempts)
}
