package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	JWTSecret           string
	TokenTTL            time.Duration
	BcryptCost          int
	LateFee             decimal.Decimal
	OverdueScanInterval time.Duration
	ScanBatchSize       int
	MissedAfter         time.Duration
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultTokenTTL            = 7 * 24 * time.Hour
	defaultBcryptCost          = 10
	defaultLateFee             = "0"
	defaultOverdueScanInterval = time.Hour
	defaultScanBatchSize       = 100
	defaultMissedAfter         = 30 * 24 * time.Hour
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:          getInt(lookup, "BCRYPT_COST", defaultBcryptCost),
		OverdueScanInterval: getDuration(lookup, "OVERDUE_SCAN_INTERVAL", defaultOverdueScanInterval),
		ScanBatchSize:       getInt(lookup, "SCAN_BATCH_SIZE", defaultScanBatchSize),
		MissedAfter:         getDuration(lookup, "MISSED_AFTER", defaultMissedAfter),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	lateFeeStr := getString(lookup, "LATE_FEE", defaultLateFee)

	fs := flag.NewFlagSet("loanledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr     = cfg.TokenTTL.String()
		scanIntervalStr = cfg.OverdueScanInterval.String()
		missedAfterStr  = cfg.MissedAfter.String()
		shutdownStr     = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Access token lifetime")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "Bcrypt cost factor for password hashing")
	fs.StringVar(&lateFeeStr, "late-fee", lateFeeStr, "Flat surcharge for installments paid past due")
	fs.StringVar(&scanIntervalStr, "scan-interval", scanIntervalStr, "Interval between overdue installment scans")
	fs.IntVar(&cfg.ScanBatchSize, "scan-batch", cfg.ScanBatchSize, "Maximum installments per overdue scan")
	fs.StringVar(&missedAfterStr, "missed-after", missedAfterStr, "Grace period before a late installment is marked missed")
	fs.StringVar(&shutdownStr, "shutdown-timeout", shutdownStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}
	if cfg.OverdueScanInterval, err = time.ParseDuration(scanIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid scan interval: %w", err)
	}
	if cfg.MissedAfter, err = time.ParseDuration(missedAfterStr); err != nil {
		return nil, fmt.Errorf("invalid missed-after duration: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.LateFee, err = decimal.NewFromString(lateFeeStr); err != nil {
		return nil, fmt.Errorf("invalid late fee: %w", err)
	}
	if cfg.LateFee.IsNegative() {
		return nil, fmt.Errorf("late fee must not be negative")
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = defaultBcryptCost
	}
	if cfg.OverdueScanInterval <= 0 {
		cfg.OverdueScanInterval = defaultOverdueScanInterval
	}
	if cfg.ScanBatchSize <= 0 {
		cfg.ScanBatchSize = defaultScanBatchSize
	}
	if cfg.MissedAfter <= 0 {
		cfg.MissedAfter = defaultMissedAfter
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
