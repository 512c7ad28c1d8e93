package config

import "github.com/caarlos0/env/v10"

// Config centralizes service configuration from environment variables.
type Config struct {
	HTTPPort      string   `env:"HTTP_PORT" envDefault:"8001"`
	QuestionsPath string   `env:"QUESTIONS_PATH" envDefault:"data/Question_Bank.csv"`
	ModelPath     string   `env:"MODEL_PATH" envDefault:"data/sorting_model.json"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	JWTSecret     string   `env:"JWT_SECRET"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	RedisAddr     string   `env:"REDIS_ADDR"`
	RedisPassword string   `env:"REDIS_PASSWORD"`
	RedisDB       int      `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig parses configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
