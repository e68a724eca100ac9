package config

import "time"

type Solana struct {
	RPCURL     string        `env:"SOLANA_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	WSURL      string        `env:"SOLANA_WS_URL"`
	USDCMint   string        `env:"USDC_MINT" envDefault:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	Timeout    time.Duration `env:"SOLANA_RPC_TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"SOLANA_RPC_MAX_RETRIES" envDefault:"3"`
}
