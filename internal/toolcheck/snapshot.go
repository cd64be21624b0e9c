package toolcheck

import (
	"strings"

	"github.com/danmuck/bootctl/internal/hostcmd"
)

// processSnapshot returns the first n lines of a process listing, or nil when
// the listing tool is unusable.
func processSnapshot(runner hostcmd.Runner, n int) []string {
	stdout, _, exitCode, err := runner.Run("ps", "aux")
	if err != nil || exitCode != 0 {
		return nil
	}
	return headLines(string(stdout), n)
}

// socketSnapshot returns the first n lines of a listening-socket listing,
// preferring netstat and falling back to ss when netstat is unresolvable.
func socketSnapshot(resolver hostcmd.Resolver, runner hostcmd.Runner, n int) []string {
	cmd := "netstat"
	if _, err := resolver.LookPath("netstat"); err != nil {
		cmd = "ss"
	}

	stdout, _, exitCode, err := runner.Run(cmd, "-tuln")
	if err != nil || exitCode != 0 {
		return nil
	}
	return headLines(string(stdout), n)
}

func headLines(raw string, n int) []string {
	if n <= 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
