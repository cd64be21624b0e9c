package hostcmd

import (
	"fmt"
	"os/exec"
	"strings"
)

// Resolver reports whether a named executable resolves on the search path.
// The verifier depends on this instead of the ambient environment so tests
// can substitute a controlled path.
type Resolver interface {
	LookPath(name string) (string, error)
}

// PathResolver resolves executables against the local process PATH.
type PathResolver struct{}

func (PathResolver) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// RunnerResolver resolves executables through a Runner, so that presence
// checks work over the same transport as probes (local or SSH).
type RunnerResolver struct {
	Runner Runner
}

func (r RunnerResolver) LookPath(name string) (string, error) {
	if r.Runner == nil {
		return PathResolver{}.LookPath(name)
	}
	stdout, _, exitCode, err := r.Runner.Run("sh", "-c", "command -v "+shellEscape(name))
	if err != nil || exitCode != 0 {
		return "", fmt.Errorf("hostcmd: %q not found on remote path", name)
	}
	return strings.TrimSpace(string(stdout)), nil
}
