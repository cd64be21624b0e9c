package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/config"
	"github.com/danmuck/bootctl/internal/hostcmd"
	"github.com/danmuck/bootctl/internal/observability"
	"github.com/danmuck/bootctl/internal/toolcheck"
)

func main() {
	gate := flag.Bool("gate", false, "derive the exit code from the aggregate instead of always exiting 0")
	configPath := flag.String("config", defaultConfigPath(), "path to the bootctl TOML config")
	sshTarget := flag.String("ssh", "", "run checks on a remote host (user@host[:port])")
	sshKey := flag.String("ssh-key", "", "private key path for -ssh")
	knownHosts := flag.String("known-hosts", "", "known_hosts path for -ssh (default ~/.ssh/known_hosts)")
	insecure := flag.Bool("insecure-host-key", false, "skip host key verification for -ssh")
	flag.Parse()

	observability.InitLogger("toolcheck")
	config.LoadDotenv()

	cfg, err := config.LoadBootConfig(*configPath)
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

	if strings.TrimSpace(*sshTarget) != "" {
		runner, err := sshRunner(*sshTarget, *sshKey, *knownHosts, *insecure)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid ssh target")
		}
		verifier.Runner = runner
		verifier.Resolver = hostcmd.RunnerResolver{Runner: runner}
	}

	report := verifier.Run()
	toolcheck.Render(os.Stdout, report)

	if *gate {
		os.Exit(toolcheck.GateExitCode(report))
	}
	// Report mode is advisory diagnostics, never a gate.
	os.Exit(0)
}

func defaultConfigPath() string {
	if path := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); path != "" {
		return path
	}
	return "bootctl.toml"
}

func sshRunner(target, keyPath, knownHosts string, insecure bool) (hostcmd.SSHRunner, error) {
	user, hostPort, ok := strings.Cut(target, "@")
	if !ok || strings.TrimSpace(user) == "" || strings.TrimSpace(hostPort) == "" {
		return hostcmd.SSHRunner{}, fmt.Errorf("expected user@host[:port], got %q", target)
	}

	host, port := hostPort, ""
	if h, p, ok := strings.Cut(hostPort, ":"); ok {
		host, port = h, p
	}

	return hostcmd.SSHRunner{
		Host:                        host,
		Port:                        port,
		User:                        user,
		KeyPath:                     keyPath,
		KnownHostsPath:              knownHosts,
		InsecureSkipHostKeyChecking: insecure,
	}, nil
}
