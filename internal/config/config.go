package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/bootctl/internal/launch"
	"github.com/danmuck/bootctl/internal/toolcheck"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// CommandConfig names one external entrypoint.
type CommandConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// ReadinessSettings holds the optional webapp readiness poll. Durations are
// TOML strings parsed with time.ParseDuration.
type ReadinessSettings struct {
	URL      string `toml:"url"`
	Interval string `toml:"interval"`
	Timeout  string `toml:"timeout"`
}

// HealthdConfig configures the health endpoint daemon.
type HealthdConfig struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	CacheTTL    string   `toml:"cache_ttl"`
}

// ToolcheckSettings tunes the verifier.
type ToolcheckSettings struct {
	SnapshotLines int    `toml:"snapshot_lines"`
	CatalogPath   string `toml:"catalog_path"`
}

// BootConfig is the full bootctl runtime configuration.
type BootConfig struct {
	Webapp    CommandConfig     `toml:"webapp"`
	Scheduler CommandConfig     `toml:"scheduler"`
	Readiness ReadinessSettings `toml:"readiness"`
	Healthd   HealthdConfig     `toml:"healthd"`
	Toolcheck ToolcheckSettings `toml:"toolcheck"`
}

// DefaultBootConfig returns the container defaults: both entrypoints are
// invoked with the single argument "start".
func DefaultBootConfig() BootConfig {
	return BootConfig{
		Webapp:    CommandConfig{Command: "webapp-manager", Args: []string{"start"}},
		Scheduler: CommandConfig{Command: "scheduler", Args: []string{"start"}},
		Healthd:   HealthdConfig{Addr: ":9100", CacheTTL: "10s"},
		Toolcheck: ToolcheckSettings{SnapshotLines: toolcheck.DefaultSnapshotLines},
	}
}

// LoadBootConfig reads the TOML config at path on top of the defaults. A
// missing file yields the defaults unchanged.
func LoadBootConfig(path string) (BootConfig, error) {
	cfg := DefaultBootConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return BootConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return BootConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if err := ValidateBootConfig(cfg); err != nil {
		return BootConfig{}, err
	}
	return cfg, nil
}

func ValidateBootConfig(cfg BootConfig) error {
	if strings.TrimSpace(cfg.Scheduler.Command) == "" {
		return fmt.Errorf("%w: scheduler command is required", ErrInvalidConfig)
	}
	if _, err := cfg.Readiness.Build(); err != nil {
		return err
	}
	if _, err := parseOptionalDuration(cfg.Healthd.CacheTTL); err != nil {
		return fmt.Errorf("%w: healthd cache_ttl: %v", ErrInvalidConfig, err)
	}
	if cfg.Toolcheck.SnapshotLines < 0 {
		return fmt.Errorf("%w: snapshot_lines must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Build converts the TOML settings into the launcher's readiness config.
func (r ReadinessSettings) Build() (launch.ReadinessConfig, error) {
	interval, err := parseOptionalDuration(r.Interval)
	if err != nil {
		return launch.ReadinessConfig{}, fmt.Errorf("%w: readiness interval: %v", ErrInvalidConfig, err)
	}
	timeout, err := parseOptionalDuration(r.Timeout)
	if err != nil {
		return launch.ReadinessConfig{}, fmt.Errorf("%w: readiness timeout: %v", ErrInvalidConfig, err)
	}
	return launch.ReadinessConfig{
		URL:      strings.TrimSpace(r.URL),
		Interval: interval,
		Timeout:  timeout,
	}, nil
}

// CacheTTLDuration returns the parsed healthd cache TTL.
func (h HealthdConfig) CacheTTLDuration() time.Duration {
	d, err := parseOptionalDuration(h.CacheTTL)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Spec converts a command config to the launcher's process spec.
func (c CommandConfig) Spec() launch.ProcessSpec {
	return launch.ProcessSpec{Command: strings.TrimSpace(c.Command), Args: c.Args}
}

// Catalog builds the verifier catalog, applying the optional YAML extension.
func (t ToolcheckSettings) Catalog() (toolcheck.Catalog, error) {
	catalog := toolcheck.DefaultCatalog()
	if strings.TrimSpace(t.CatalogPath) == "" {
		return catalog, nil
	}
	return catalog.ExtendFromFile(t.CatalogPath)
}

func parseOptionalDuration(raw string) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	return time.ParseDuration(trimmed)
}
