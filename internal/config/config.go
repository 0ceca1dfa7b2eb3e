package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       int
	LogLevel   string
	OutputName string

	LLMBaseURL           string
	LLMModel             string
	LLMAPIKey            string
	LLMTemperature       float64
	LLMTimeout           time.Duration
	LLMMaxRetries        int
	LLMRetryDelay        time.Duration
	LLMRequestsPerMinute int

	DatabaseURL   string
	NatsURL       string
	NatsToken     string
	SlackBotToken string
	SlackChannel  string
}

// fileConfig mirrors the optional YAML file pointed to by ROSTER_CONFIG.
type fileConfig struct {
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	OutputName string `yaml:"output_name"`
	LLM        struct {
		BaseURL           string   `yaml:"base_url"`
		Model             string   `yaml:"model"`
		APIKey            string   `yaml:"api_key"`
		Temperature       *float64 `yaml:"temperature"`
		Timeout           string   `yaml:"timeout"`
		MaxRetries        *int     `yaml:"max_retries"`
		RetryDelay        string   `yaml:"retry_delay"`
		RequestsPerMinute int      `yaml:"requests_per_minute"`
	} `yaml:"llm"`
	DatabaseURL string `yaml:"database_url"`
	Nats        struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
	} `yaml:"nats"`
	Slack struct {
		BotToken string `yaml:"bot_token"`
		Channel  string `yaml:"channel"`
	} `yaml:"slack"`
}

func defaults() Config {
	return Config{
		Port:           8760,
		LogLevel:       "info",
		OutputName:     "analysis_results.json",
		LLMBaseURL:     "http://ollama:11434/v1",
		LLMModel:       "pakachan/elyza-llama3-8b:latest",
		LLMAPIKey:      "ollama",
		LLMTemperature: 0.0,
		LLMTimeout:     60 * time.Second,
		LLMMaxRetries:  3,
		LLMRetryDelay:  time.Second,
	}
}

// Load builds the configuration from defaults, the optional ROSTER_CONFIG
// YAML file and the environment, in that order of precedence.
func Load() (Config, error) {
	base := defaults()
	if path := os.Getenv("ROSTER_CONFIG"); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		base = fc.apply(base)
	}

	return Config{
		Port:                 envInt("ROSTER_PORT", base.Port),
		LogLevel:             envStr("LOG_LEVEL", base.LogLevel),
		OutputName:           envStr("ROSTER_OUTPUT_NAME", base.OutputName),
		LLMBaseURL:           strings.TrimRight(envStr("LLM_BASE_URL", base.LLMBaseURL), "/"),
		LLMModel:             ModelName(envStr("LLM_MODEL", base.LLMModel)),
		LLMAPIKey:            envStr("LLM_API_KEY", base.LLMAPIKey),
		LLMTemperature:       envFloat("LLM_TEMPERATURE", base.LLMTemperature),
		LLMTimeout:           envDuration("LLM_TIMEOUT", base.LLMTimeout),
		LLMMaxRetries:        envInt("LLM_MAX_RETRIES", base.LLMMaxRetries),
		LLMRetryDelay:        envDuration("LLM_RETRY_DELAY", base.LLMRetryDelay),
		LLMRequestsPerMinute: envInt("LLM_REQUESTS_PER_MINUTE", base.LLMRequestsPerMinute),
		DatabaseURL:          envStr("DATABASE_URL", base.DatabaseURL),
		NatsURL:              envStr("NATS_URL", base.NatsURL),
		NatsToken:            envStr("NATS_TOKEN", base.NatsToken),
		SlackBotToken:        envStr("SLACK_BOT_TOKEN", base.SlackBotToken),
		SlackChannel:         envStr("SLACK_SUMMARY_CHANNEL", base.SlackChannel),
	}, nil
}

// ModelName strips the "local:" prefix used to mark locally served models.
func ModelName(model string) string {
	return strings.TrimPrefix(model, "local:")
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func (fc fileConfig) apply(c Config) Config {
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.OutputName != "" {
		c.OutputName = fc.OutputName
	}
	if fc.LLM.BaseURL != "" {
		c.LLMBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		c.LLMModel = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		c.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.Temperature != nil {
		c.LLMTemperature = *fc.LLM.Temperature
	}
	if d, err := time.ParseDuration(fc.LLM.Timeout); err == nil {
		c.LLMTimeout = d
	}
	if fc.LLM.MaxRetries != nil {
		c.LLMMaxRetries = *fc.LLM.MaxRetries
	}
	if d, err := time.ParseDuration(fc.LLM.RetryDelay); err == nil {
		c.LLMRetryDelay = d
	}
	if fc.LLM.RequestsPerMinute != 0 {
		c.LLMRequestsPerMinute = fc.LLM.RequestsPerMinute
	}
	if fc.DatabaseURL != "" {
		c.DatabaseURL = fc.DatabaseURL
	}
	if fc.Nats.URL != "" {
		c.NatsURL = fc.Nats.URL
	}
	if fc.Nats.Token != "" {
		c.NatsToken = fc.Nats.Token
	}
	if fc.Slack.BotToken != "" {
		c.SlackBotToken = fc.Slack.BotToken
	}
	if fc.Slack.Channel != "" {
		c.SlackChannel = fc.Slack.Channel
	}
	return c
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
