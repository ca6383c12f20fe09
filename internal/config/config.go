package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI       string        `env:"DATABASE_URI"`
	ProgramID         model.Address `env:"PROGRAM_ID"`
	LedgerProgramID   model.Address `env:"LEDGER_PROGRAM_ID" envDefault:"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"`
	AdminIdentity     model.Address `env:"ADMIN_IDENTITY"`
	USDCMint          model.Address `env:"USDC_MINT"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"30s"`
	ReconcileWorkers  int           `env:"RECONCILE_WORKERS" envDefault:"4"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel          slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

const (
	defaultReconcileInterval = 30 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultReconcileWorkers  = 4
)

// Load parses configuration from environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("savingsvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.TextVar(&cfg.ProgramID, "program", cfg.ProgramID, "Savings program identity (base58)")
	fs.TextVar(&cfg.LedgerProgramID, "ledger-program", cfg.LedgerProgramID, "Token ledger program identity (base58)")
	fs.TextVar(&cfg.AdminIdentity, "admin", cfg.AdminIdentity, "Admin identity allowed to fund vaults (base58)")
	fs.TextVar(&cfg.USDCMint, "mint", cfg.USDCMint, "USDC mint identity (base58)")
	fs.DurationVar(&cfg.ReconcileInterval, "reconcile-interval", cfg.ReconcileInterval, "Interval between conservation audits")
	fs.IntVar(&cfg.ReconcileWorkers, "reconcile-workers", cfg.ReconcileWorkers, "Number of concurrent vault audits")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ReconcileWorkers <= 0 {
		cfg.ReconcileWorkers = defaultReconcileWorkers
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ProgramID.IsZero() {
		return nil, fmt.Errorf("program id must be provided")
	}

	if cfg.LedgerProgramID.IsZero() {
		return nil, fmt.Errorf("ledger program id must be provided")
	}

	return cfg, nil
}
