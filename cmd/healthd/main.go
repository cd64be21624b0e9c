package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/config"
	"github.com/danmuck/bootctl/internal/healthz"
	"github.com/danmuck/bootctl/internal/observability"
	"github.com/danmuck/bootctl/internal/toolcheck"
)

func main() {
	logger := observability.InitLogger("healthd")
	config.LoadDotenv()

	cfg, err := config.LoadBootConfig(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid environment overrides")
	}

	catalog, err := cfg.Toolcheck.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tool catalog")
	}

	verifier := toolcheck.Verifier{
		Catalog:       catalog,
		SnapshotLines: cfg.Toolcheck.SnapshotLines,
	}
	server := healthz.New(verifier, cfg.Healthd.CacheTTLDuration(), cfg.Healthd.CorsOrigins, logger)

	log.Info().Str("addr", cfg.Healthd.Addr).Msg("healthd listening")
	if err := server.Run(cfg.Healthd.Addr); err != nil {
		log.Fatal().Err(err).Msg("healthd stopped")
	}
}

func configPath() string {
	if path := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); path != "" {
		return path
	}
	return "bootctl.toml"
}
