// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTP
	Sale     Sale
	Solana   Solana
	Storage  Storage
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTP struct {
	Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

type Sale struct {
	DepositAddress string `env:"DEPOSIT_ADDRESS" envDefault:"FcRRT7yLx3dZV6kD2N5cWU9UG6TxPm99azsxNUUzQNmx"`
	SeedHistory    bool   `env:"SEED_PRICE_HISTORY" envDefault:"true"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
