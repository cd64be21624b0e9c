package testlog

import (
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var configureOnce sync.Once

// Start configures the global logger for test output. Level comes up at debug
// with timestamps suppressed so failures read cleanly under go test.
func Start(t *testing.T) {
	t.Helper()
	configureOnce.Do(func() {
		output := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}
		output.PartsExclude = []string{zerolog.TimestampFieldName}
		log.Logger = zerolog.New(output).Level(zerolog.DebugLevel)
	})
	log.Debug().Str("test", t.Name()).Msg("start")
}
