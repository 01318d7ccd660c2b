package config

import (
	"errors"
	"fmt"
	"os"

	"clauseguard/personas"
	"clauseguard/scoring"
	"clauseguard/types"
	"clauseguard/util"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath       = "./clauseguard.yaml"
	defaultModel      = "gemini-2.0-flash"
	defaultTimeoutMs  = 30000
	defaultTTLSeconds = 86400
	defaultSubject    = "verdicts"
)

// Path returns CONFIG_PATH when set, otherwise DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig reads and validates the yaml configuration at path.
func LoadConfig(path string) (types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes yaml, fills defaults and validates the result.
func Parse(data []byte) (types.Config, error) {
	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *types.Config) {
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = defaultModel
	}
	if cfg.Generator.TimeoutMs == 0 {
		cfg.Generator.TimeoutMs = defaultTimeoutMs
	}
	if cfg.Personas.Default == "" {
		cfg.Personas.Default = util.PersonaModes.Auto
	}
	if cfg.Services.Redis.TTLSeconds == 0 {
		cfg.Services.Redis.TTLSeconds = defaultTTLSeconds
	}
	if cfg.Services.Nats.Subject == "" {
		cfg.Services.Nats.Subject = defaultSubject
	}
	if cfg.Services.Nats.AlertVerdicts == nil {
		cfg.Services.Nats.AlertVerdicts = []string{string(scoring.DoNotSign)}
	}
}

func validate(cfg types.Config) error {
	if cfg.Services.Nats.Enabled && cfg.Services.Nats.Url == "" {
		return errors.New("nats: provide a valid nats url")
	}
	for _, v := range cfg.Services.Nats.AlertVerdicts {
		if _, ok := scoring.ParseVerdict(v); !ok {
			return fmt.Errorf("nats: unknown alert verdict %q", v)
		}
	}

	if cfg.Services.Redis.Enabled && cfg.Services.Redis.Host == "" {
		return errors.New("redis: provide a valid redis host")
	}
	if cfg.Services.Redis.TTLSeconds < 0 {
		return errors.New("redis: ttlSeconds must not be negative")
	}

	if cfg.RateLimit.Limit < 0 || cfg.RateLimit.IntervalSeconds < 0 {
		return errors.New("rateLimit: limit and intervalSeconds must not be negative")
	}
	if cfg.RateLimit.Limit > 0 {
		if !cfg.Services.Redis.Enabled {
			return errors.New("rateLimit: a valid redis connection is required. Check redis configuration")
		}
		if cfg.RateLimit.IntervalSeconds == 0 {
			return errors.New("rateLimit: missing or invalid intervalSeconds")
		}
	}

	if cfg.Generator.TimeoutMs < 0 {
		return errors.New("generator: timeoutMs must not be negative")
	}

	if !personas.IsAllowedMode(cfg.Personas.Default) {
		return fmt.Errorf("personas: invalid default mode %q", cfg.Personas.Default)
	}
	return nil
}
