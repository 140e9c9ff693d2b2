// Package tabletd parses tablet server command flags and starts the server
// runtime.
package tabletd

import (
	"context"
	"flag"
	"time"

	server "github.com/tabletdb/tabletd/internal/app"
	entrypoint "github.com/tabletdb/tabletd/internal/platform/cmd"
)

// Config holds tablet server command configuration.
type Config struct {
	Port       int    `env:"TABLETD_PORT" envDefault:"15002"`
	Addr       string `env:"TABLETD_ADDR"`
	DBPath     string `env:"TABLETD_DB_PATH"`
	Keyspace   string `env:"TABLETD_KEYSPACE"`
	Shard      string `env:"TABLETD_SHARD" envDefault:"0"`
	TabletType string `env:"TABLETD_TABLET_TYPE" envDefault:"primary"`

	TxPoolSize     int           `env:"TABLETD_TX_POOL_SIZE"`
	TxTimeout      time.Duration `env:"TABLETD_TX_TIMEOUT"`
	QPSLimit       float64       `env:"TABLETD_QPS_LIMIT"`
	HealthInterval time.Duration `env:"TABLETD_HEALTH_INTERVAL"`

	SessionKey string `env:"TABLETD_SESSION_KEY"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The tablet server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The tablet server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the sqlite database file")
	fs.StringVar(&cfg.Keyspace, "keyspace", cfg.Keyspace, "Keyspace this tablet serves")
	fs.StringVar(&cfg.Shard, "shard", cfg.Shard, "Shard this tablet serves")
	fs.StringVar(&cfg.TabletType, "tablet-type", cfg.TabletType, "Tablet type (primary, replica, rdonly)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the tablet query service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTablet, func(context.Context) error {
		return server.Run(ctx, server.Options{
			Port:           cfg.Port,
			Addr:           cfg.Addr,
			DBPath:         cfg.DBPath,
			Keyspace:       cfg.Keyspace,
			Shard:          cfg.Shard,
			TabletType:     cfg.TabletType,
			TxPoolSize:     cfg.TxPoolSize,
			TxTimeout:      cfg.TxTimeout,
			QPSLimit:       cfg.QPSLimit,
			HealthInterval: cfg.HealthInterval,
			SessionKey:     cfg.SessionKey,
		})
	})
}
