// Package config loads the application settings from an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sequent/internal/logging"
	"github.com/aretw0/sequent/pkg/adapters/anthropic"
	"github.com/aretw0/sequent/pkg/adapters/weather"
	"github.com/aretw0/sequent/pkg/chat"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "sequent.yaml"

const (
	DefaultMaxTokens       = 1024
	DefaultMaxToolRounds   = 5
	DefaultMaxEmptyPrompts = 3
	DefaultMaxTransitions  = 10000
)

type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Agent     AgentConfig     `yaml:"agent"`
	Weather   WeatherConfig   `yaml:"weather"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	System    string `yaml:"system"`
}

type AgentConfig struct {
	Debug           bool     `yaml:"debug"`
	MaxToolRounds   int      `yaml:"max_tool_rounds"`
	MaxEmptyPrompts int      `yaml:"max_empty_prompts"`
	MaxTransitions  int      `yaml:"max_transitions"`
	QuitWords       []string `yaml:"quit_words"`
}

type WeatherConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig enables the introspection server when Addr is set.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Anthropic: AnthropicConfig{
			BaseURL:   anthropic.DefaultBaseURL,
			Model:     chat.DefaultModel,
			MaxTokens: DefaultMaxTokens,
		},
		Agent: AgentConfig{
			MaxToolRounds:   DefaultMaxToolRounds,
			MaxEmptyPrompts: DefaultMaxEmptyPrompts,
			MaxTransitions:  DefaultMaxTransitions,
		},
		Weather: WeatherConfig{
			Enabled:   true,
			BaseURL:   weather.DefaultBaseURL,
			UserAgent: weather.DefaultUserAgent,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// envBindings maps environment variables to dotted config keys.
var envBindings = map[string]string{
	"ANTHROPIC_API_KEY":          "anthropic.api_key",
	"ANTHROPIC_BASE_URL":         "anthropic.base_url",
	"SEQUENT_MODEL":              "anthropic.model",
	"SEQUENT_MAX_TOKENS":         "anthropic.max_tokens",
	"SEQUENT_SYSTEM_PROMPT":      "anthropic.system",
	"SEQUENT_DEBUG":              "agent.debug",
	"SEQUENT_MAX_TOOL_ROUNDS":    "agent.max_tool_rounds",
	"SEQUENT_MAX_TRANSITIONS":    "agent.max_transitions",
	"SEQUENT_WEATHER_ENABLED":    "weather.enabled",
	"SEQUENT_WEATHER_BASE_URL":   "weather.base_url",
	"SEQUENT_WEATHER_USER_AGENT": "weather.user_agent",
	"SEQUENT_LOG_LEVEL":          "log.level",
	"SEQUENT_LOG_FORMAT":         "log.format",
	"SEQUENT_METRICS_ADDR":       "http.addr",
}

// Load reads path (if any) over the defaults and overlays the process environment.
func Load(path string) (Config, error) {
	return LoadEnv(path, os.LookupEnv)
}

// LoadEnv is Load with an explicit environment lookup. Empty variables are ignored.
func LoadEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !(errors.Is(err, os.ErrNotExist) && path == DefaultPath) {
				return cfg, err
			}
		}
	}

	if err := cfg.overlayEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv(lookup func(string) (string, bool)) error {
	values := map[string]any{}
	for env, key := range envBindings {
		v, ok := lookup(env)
		if !ok || v == "" {
			continue
		}
		section, field, _ := strings.Cut(key, ".")
		m, _ := values[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			values[section] = m
		}
		m[field] = v
	}
	if len(values) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Validate reports out-of-range numbers and unknown log settings.
// A missing API key is not an error here: the agent reports it when it starts.
func (c Config) Validate() error {
	var errs []error
	if c.Anthropic.Model == "" {
		errs = append(errs, errors.New("anthropic.model must not be empty"))
	}
	if c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("anthropic.max_tokens must be positive, got %d", c.Anthropic.MaxTokens))
	}
	if c.Agent.MaxToolRounds <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_tool_rounds must be positive, got %d", c.Agent.MaxToolRounds))
	}
	if c.Agent.MaxEmptyPrompts <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_empty_prompts must be positive, got %d", c.Agent.MaxEmptyPrompts))
	}
	if c.Agent.MaxTransitions < 0 {
		errs = append(errs, fmt.Errorf("agent.max_transitions must not be negative, got %d", c.Agent.MaxTransitions))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
