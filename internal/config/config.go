package config

import "github.com/caarlos0/env/v11"

// Config is the process configuration, read from the environment.
type Config struct {
	Addr           string   `env:"ADDR"             envDefault:":8080"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS"`
	OpenAIAPIKey   string   `env:"OPENAI_API_KEY"`
	ModelCost      string   `env:"MODEL_COST"       envDefault:"10"`
	MaxInputLength int      `env:"MAX_INPUT_LENGTH" envDefault:"4096"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
