package types

type Config struct {
	Services  ServicesConfig  `yaml:"services"`
	Generator GeneratorConfig `yaml:"generator"`
	Personas  PersonasConfig  `yaml:"personas"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig caps analyses per API key. A zero limit disables it.
type RateLimitConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
	Limit           int `yaml:"limit"`
}

type ServicesConfig struct {
	Redis RedisConfig `yaml:"redis"`
	Nats  NatsConfig  `yaml:"nats"`
}

type RedisConfig struct {
	Host       string `yaml:"host"`
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

type NatsConfig struct {
	Url           string   `yaml:"url"`
	Enabled       bool     `yaml:"enabled"`
	Subject       string   `yaml:"subject"`
	AlertVerdicts []string `yaml:"alertVerdicts"`
}

type GeneratorConfig struct {
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeoutMs"`
}

type PersonasConfig struct {
	Default string `yaml:"default"`
}
