package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidSpec    = errors.New("launch: invalid process spec")
	ErrSchedulerStart = errors.New("launch: scheduler failed to start")
)

// ProcessSpec names one external entrypoint and its arguments.
type ProcessSpec struct {
	Command string
	Args    []string
}

func (s ProcessSpec) validate() error {
	if strings.TrimSpace(s.Command) == "" {
		return fmt.Errorf("%w: missing command", ErrInvalidSpec)
	}
	return nil
}

func (s ProcessSpec) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// Launcher starts the webapp manager asynchronously, then runs the scheduler
// in the foreground. Child stdout/stderr are inherited onto the launcher's
// streams unless overridden for tests.
type Launcher struct {
	Webapp    ProcessSpec
	Scheduler ProcessSpec
	Readiness ReadinessConfig

	Stdout io.Writer
	Stderr io.Writer
}

func (l Launcher) stdout() io.Writer {
	if l.Stdout != nil {
		return l.Stdout
	}
	return os.Stdout
}

func (l Launcher) stderr() io.Writer {
	if l.Stderr != nil {
		return l.Stderr
	}
	return os.Stderr
}

// Run executes the two-step bootstrap and returns the scheduler's exit code.
// A webapp manager spawn failure is reported and ignored: the scheduler owns
// the container lifetime either way. The context bounds only the readiness
// poll; signals reach the children through normal process-group delivery and
// the launcher never kills the scheduler itself. The returned error is
// non-nil only when the scheduler could not be spawned at all.
func (l Launcher) Run(ctx context.Context) (int, error) {
	if err := l.Scheduler.validate(); err != nil {
		return 1, err
	}

	l.startWebapp()

	if l.Readiness.Enabled() {
		if err := WaitReady(ctx, l.Readiness); err != nil {
			log.Warn().Err(err).
				Str("url", l.Readiness.URL).
				Msg("webapp readiness not confirmed, starting scheduler anyway")
		} else {
			log.Info().Str("url", l.Readiness.URL).Msg("webapp ready")
		}
	}

	return l.runScheduler()
}

func (l Launcher) startWebapp() {
	if err := l.Webapp.validate(); err != nil {
		log.Warn().Err(err).Msg("webapp manager not configured, skipping")
		return
	}

	cmd := exec.Command(l.Webapp.Command, l.Webapp.Args...)
	cmd.Stdout = l.stdout()
	cmd.Stderr = l.stderr()

	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).
			Str("cmd", l.Webapp.String()).
			Msg("webapp manager failed to start")
		return
	}
	log.Info().Str("cmd", l.Webapp.String()).Int("pid", cmd.Process.Pid).Msg("webapp manager started")

	// Reap the child so it never lingers as a zombie. Its exit is observed,
	// logged, and otherwise ignored.
	go func() {
		err := cmd.Wait()
		event := log.Info()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.Str("cmd", l.Webapp.String()).Msg("webapp manager exited")
	}()
}

func (l Launcher) runScheduler() (int, error) {
	cmd := exec.Command(l.Scheduler.Command, l.Scheduler.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = l.stdout()
	cmd.Stderr = l.stderr()

	log.Info().Str("cmd", l.Scheduler.String()).Msg("starting scheduler in foreground")
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Non-zero scheduler exit is not a launcher failure; it is the
		// container's exit status.
		return schedulerExitCode(exitErr), nil
	}
	return 1, fmt.Errorf("%w: %v", ErrSchedulerStart, err)
}

// schedulerExitCode maps the scheduler's wait status to a container exit
// status. A signal death has no exit code of its own, so it takes the shell
// convention of 128 plus the signal number, keeping the status in the 0-255
// range os.Exit expects.
func schedulerExitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return 1
}
