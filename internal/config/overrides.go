package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// overrideFile is a flat TOML shape for deployment-local overrides. Only keys
// actually present in the file are applied, so an override file can change
// one value without re-stating the rest.
type overrideFile struct {
	WebappCommand    string   `toml:"webapp_command"`
	WebappArgs       []string `toml:"webapp_args"`
	SchedulerCommand string   `toml:"scheduler_command"`
	SchedulerArgs    []string `toml:"scheduler_args"`
	ReadinessURL     string   `toml:"readiness_url"`
	ReadinessTimeout string   `toml:"readiness_timeout"`
	HealthdAddr      string   `toml:"healthd_addr"`
	SnapshotLines    int      `toml:"snapshot_lines"`
	CatalogPath      string   `toml:"catalog_path"`
}

// ApplyOverrides layers the override file at path onto cfg. A missing file is
// a no-op.
func ApplyOverrides(cfg *BootConfig, path string) error {
	var raw overrideFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load overrides: %w", err)
	}

	if meta.IsDefined("webapp_command") {
		cfg.Webapp.Command = strings.TrimSpace(raw.WebappCommand)
	}
	if meta.IsDefined("webapp_args") {
		cfg.Webapp.Args = raw.WebappArgs
	}
	if meta.IsDefined("scheduler_command") {
		cfg.Scheduler.Command = strings.TrimSpace(raw.SchedulerCommand)
	}
	if meta.IsDefined("scheduler_args") {
		cfg.Scheduler.Args = raw.SchedulerArgs
	}
	if meta.IsDefined("readiness_url") {
		cfg.Readiness.URL = strings.TrimSpace(raw.ReadinessURL)
	}
	if meta.IsDefined("readiness_timeout") {
		cfg.Readiness.Timeout = strings.TrimSpace(raw.ReadinessTimeout)
	}
	if meta.IsDefined("healthd_addr") {
		cfg.Healthd.Addr = strings.TrimSpace(raw.HealthdAddr)
	}
	if meta.IsDefined("snapshot_lines") {
		cfg.Toolcheck.SnapshotLines = raw.SnapshotLines
	}
	if meta.IsDefined("catalog_path") {
		cfg.Toolcheck.CatalogPath = strings.TrimSpace(raw.CatalogPath)
	}

	return ValidateBootConfig(*cfg)
}
