package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/config"
	"github.com/danmuck/bootctl/internal/launch"
	"github.com/danmuck/bootctl/internal/observability"
)

// bootctl is the container entrypoint: webapp manager in the background,
// scheduler in the foreground. The process exit code is the scheduler's.
func main() {
	observability.InitLogger("bootctl")
	config.LoadDotenv()

	cfg, err := config.LoadBootConfig(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := config.ApplyOverrides(&cfg, overridesPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to apply overrides")
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid environment overrides")
	}

	readiness, err := cfg.Readiness.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid readiness settings")
	}

	launcher := launch.Launcher{
		Webapp:    cfg.Webapp.Spec(),
		Scheduler: cfg.Scheduler.Spec(),
		Readiness: readiness,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code, err := launcher.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("launch failed")
	}
	log.Info().Int("exit_code", code).Msg("scheduler exited")
	os.Exit(code)
}

func configPath() string {
	if path := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); path != "" {
		return path
	}
	return "bootctl.toml"
}

func overridesPath() string {
	if path := strings.TrimSpace(os.Getenv(config.EnvOverridesPath)); path != "" {
		return path
	}
	return "bootctl.overrides.toml"
}
