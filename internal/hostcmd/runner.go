package hostcmd

import (
	"bytes"
	"errors"
	"os/exec"
)

// ExitCodeNotFound is the shell convention for a command that could not be
// resolved on the search path.
const ExitCodeNotFound = 127

// Runner abstracts host command execution for the verifier and launcher.
type Runner interface {
	Run(name string, args ...string) ([]byte, []byte, int32, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

func (r ExecRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), exitCodeFor(err), err
}

// exitCodeFor collapses the os/exec error taxonomy into the single exit code
// the probe classifiers consume. An exec.Error means the binary never
// resolved, which maps to the shell's 127 so a missing probe binary reads as
// a probe failure rather than a distinct error kind.
func exitCodeFor(err error) int32 {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return int32(exitErr.ExitCode())
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return ExitCodeNotFound
	}
	return 1
}

// NotFound reports whether the given exit code means the command itself was
// unresolvable rather than that it ran and failed.
func NotFound(exitCode int32) bool {
	return exitCode == ExitCodeNotFound
}
