// Package config loads omnimesh settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hupe1980/omnimesh/internal/util"
	"github.com/hupe1980/omnimesh/logging"
)

// Config is read once at startup.
type Config struct {
	// EnabledProviders is an explicit allow-list. When empty, connectors are
	// enabled iff their credential is configured.
	EnabledProviders []string `env:"ENABLED_PROVIDERS" envSeparator:","`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`

	HFAPIKey string `env:"HF_API_KEY"`
	HFModel  string `env:"HF_MODEL" envDefault:"meta-llama/Llama-3.2-3B-Instruct"`

	StabilityAPIKey   string `env:"STABILITY_API_KEY"`
	RunwayAPIKey      string `env:"RUNWAY_API_KEY"`
	PikaAPIKey        string `env:"PIKA_API_KEY"`
	ReplicateAPIToken string `env:"REPLICATE_API_TOKEN"`

	ProviderTimeoutMS    int    `env:"PROVIDER_TIMEOUT_MS" envDefault:"8000"`
	RetryBaseDelayMS     int    `env:"RETRY_BASE_DELAY_MS" envDefault:"1000"`
	MaxRetries           int    `env:"MAX_RETRIES" envDefault:"2"`
	MaxProviders         int    `env:"MAX_PROVIDERS" envDefault:"5"`
	OutputLanguage       string `env:"OUTPUT_LANGUAGE" envDefault:"pt-BR"`
	CombinerProvider     string `env:"COMBINER_PROVIDER" envDefault:"openai"`
	SynthesisTimeoutMS   int    `env:"SYNTHESIS_TIMEOUT_MS" envDefault:"30000"`
	HealthProbeTimeoutMS int    `env:"HEALTH_PROBE_TIMEOUT_MS" envDefault:"5000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// OTelEndpoint enables OTLP/HTTP tracing when set.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	var v util.Validator
	v.Positive("PROVIDER_TIMEOUT_MS", int64(c.ProviderTimeoutMS))
	v.Positive("RETRY_BASE_DELAY_MS", int64(c.RetryBaseDelayMS))
	v.NonNegative("MAX_RETRIES", int64(c.MaxRetries))
	v.Positive("MAX_PROVIDERS", int64(c.MaxProviders))
	v.Positive("SYNTHESIS_TIMEOUT_MS", int64(c.SynthesisTimeoutMS))
	v.Positive("HEALTH_PROBE_TIMEOUT_MS", int64(c.HealthProbeTimeoutMS))
	v.OneOf("COMBINER_PROVIDER", c.CombinerProvider, "openai", "anthropic", "none")
	v.OneOf("LOG_LEVEL", c.LogLevel, "debug", "info", "warn", "warning", "error")
	v.OneOf("LOG_FORMAT", c.LogFormat, "json", "text")
	if err := v.Err(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ProviderTimeout is the default per-call budget.
func (c Config) ProviderTimeout() time.Duration { return ms(c.ProviderTimeoutMS) }

// RetryBaseDelay is the linear backoff unit.
func (c Config) RetryBaseDelay() time.Duration { return ms(c.RetryBaseDelayMS) }

// SynthesisTimeout bounds the consolidation call.
func (c Config) SynthesisTimeout() time.Duration { return ms(c.SynthesisTimeoutMS) }

// HealthProbeTimeout bounds a single health probe.
func (c Config) HealthProbeTimeout() time.Duration { return ms(c.HealthProbeTimeoutMS) }

// Logger builds the structured logger described by LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger() *logging.MeshLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(c.LogLevel),
		Format:    c.LogFormat,
		Output:    os.Stderr,
		Component: "omnimesh",
	})
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
