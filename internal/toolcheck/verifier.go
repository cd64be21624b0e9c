package toolcheck

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/hostcmd"
)

const DefaultSnapshotLines = 12

// probeSpec is one fixed functional probe. Order is part of the contract.
type probeSpec struct {
	Name string
	Cmd  string
	Args []string
}

func defaultProbes() []probeSpec {
	return []probeSpec{
		{Name: "ps aux", Cmd: "ps", Args: []string{"aux"}},
		{Name: "netstat -tuln", Cmd: "netstat", Args: []string{"-tuln"}},
		{Name: "lsof -i", Cmd: "lsof", Args: []string{"-i"}},
	}
}

// Verifier produces a Report for one host. Zero values fall back to the
// local resolver, local runner and the fixed catalog.
type Verifier struct {
	Resolver      hostcmd.Resolver
	Runner        hostcmd.Runner
	Catalog       Catalog
	SnapshotLines int
}

func (v Verifier) resolver() hostcmd.Resolver {
	if v.Resolver != nil {
		return v.Resolver
	}
	return hostcmd.PathResolver{}
}

func (v Verifier) runner() hostcmd.Runner {
	if v.Runner != nil {
		return v.Runner
	}
	return hostcmd.ExecRunner{}
}

func (v Verifier) catalog() Catalog {
	if len(v.Catalog) > 0 {
		return v.Catalog
	}
	return DefaultCatalog()
}

func (v Verifier) snapshotLines() int {
	if v.SnapshotLines > 0 {
		return v.SnapshotLines
	}
	return DefaultSnapshotLines
}

// Run performs every presence check, then the functional probes in fixed
// order, then the process and socket snapshots. Nothing here halts the run;
// a missing tool or failed probe is just a row in the Report.
func (v Verifier) Run() Report {
	report := Report{GeneratedAt: time.Now().UTC()}

	resolver := v.resolver()
	for _, entry := range v.catalog() {
		path, err := resolver.LookPath(entry.Tool)
		check := CheckResult{
			Tool:     entry.Tool,
			Category: entry.Category,
			Present:  err == nil,
		}
		if err == nil {
			check.Path = path
		}
		report.Checks = append(report.Checks, check)
	}

	runner := v.runner()
	for _, probe := range defaultProbes() {
		_, _, exitCode, err := runner.Run(probe.Cmd, probe.Args...)
		result := ProbeResult{
			Name:     probe.Name,
			Working:  err == nil && exitCode == 0,
			ExitCode: exitCode,
		}
		if !result.Working {
			log.Debug().
				Str("probe", probe.Name).
				Int32("exit_code", exitCode).
				Msg("probe failed")
		}
		report.Probes = append(report.Probes, result)
	}

	report.ProcessSnapshot = processSnapshot(runner, v.snapshotLines())
	report.SocketSnapshot = socketSnapshot(resolver, runner, v.snapshotLines())

	return report
}

// GateExitCode derives a process exit code from the aggregate: 0 when
// healthy, 1 otherwise. Report mode ignores this and always exits 0.
func GateExitCode(r Report) int {
	if r.Healthy() {
		return 0
	}
	return 1
}
