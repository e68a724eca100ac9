package config

import "time"

// Storage selects the persistence backends. With empty DSNs everything
// runs on the in-memory stores.
type Storage struct {
	Postgres   Postgres
	ClickHouse ClickHouse
}

type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxConns        int32         `env:"PG_MAX_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type ClickHouse struct {
	DSN string `env:"CLICKHOUSE_DSN" json:"-"`
}
