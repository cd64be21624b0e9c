package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvConfigPath       = "BOOTCTL_CONFIG"
	EnvOverridesPath    = "BOOTCTL_OVERRIDES"
	EnvReadinessURL     = "BOOTCTL_READINESS_URL"
	EnvReadinessTimeout = "BOOTCTL_READINESS_TIMEOUT"
	EnvHealthdAddr      = "BOOTCTL_HEALTHD_ADDR"
	EnvSnapshotLines    = "BOOTCTL_SNAPSHOT_LINES"
)

// LoadDotenv loads an optional .env file into the process environment.
// Container images ship one next to the entrypoint; absence is normal.
func LoadDotenv() {
	_ = godotenv.Load()
}

// ApplyEnv layers BOOTCTL_* environment variables onto cfg. Unset variables
// change nothing.
func ApplyEnv(cfg *BootConfig) error {
	if v, ok := lookup(EnvReadinessURL); ok {
		cfg.Readiness.URL = v
	}
	if v, ok := lookup(EnvReadinessTimeout); ok {
		cfg.Readiness.Timeout = v
	}
	if v, ok := lookup(EnvHealthdAddr); ok {
		cfg.Healthd.Addr = v
	}
	if v, ok := lookup(EnvSnapshotLines); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Toolcheck.SnapshotLines = n
		}
	}
	return ValidateBootConfig(*cfg)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}
