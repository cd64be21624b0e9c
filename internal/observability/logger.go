package observability

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "BOOTCTL_LOG_LEVEL"
	EnvLogNoColor = "BOOTCTL_LOG_NOCOLOR"
)

// InitLogger configures the global console logger with an app field. Level
// and color come from the environment so container deployments can tune them
// without flags.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    noColorFromEnv(),
	}
	logger := zerolog.New(output).
		Level(levelFromEnv()).
		With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func noColorFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogNoColor))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
