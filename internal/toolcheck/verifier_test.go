package toolcheck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/bootctl/internal/testutil/testlog"
)

type mapResolver struct {
	paths map[string]string
}

func (r mapResolver) LookPath(name string) (string, error) {
	if path, ok := r.paths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("not on path: %s", name)
}

type scriptedResult struct {
	stdout   string
	exitCode int32
	err      error
}

type scriptedRunner struct {
	results map[string]scriptedResult
	calls   []string
}

func (r *scriptedRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	r.calls = append(r.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if res, ok := r.results[name]; ok {
		return []byte(res.stdout), nil, res.exitCode, res.err
	}
	return nil, nil, 127, errors.New("exec: not found: " + name)
}

func allPresentResolver() mapResolver {
	paths := make(map[string]string)
	for _, entry := range DefaultCatalog() {
		paths[entry.Tool] = "/usr/bin/" + entry.Tool
	}
	return mapResolver{paths: paths}
}

func workingRunner() *scriptedRunner {
	return &scriptedRunner{results: map[string]scriptedResult{
		"ps":      {stdout: "USER PID\nroot 1\nroot 2\n"},
		"netstat": {stdout: "Proto Local\ntcp 0.0.0.0:80\n"},
		"lsof":    {stdout: "COMMAND PID\n"},
	}}
}

func TestVerifierReportsOneLinePerTool(t *testing.T) {
	testlog.Start(t)
	report := Verifier{Resolver: allPresentResolver(), Runner: workingRunner()}.Run()

	if len(report.Checks) != len(DefaultCatalog()) {
		t.Fatalf("expected %d checks, got %d", len(DefaultCatalog()), len(report.Checks))
	}
	seen := make(map[string]int)
	for _, check := range report.Checks {
		seen[check.Tool]++
		if !check.Present {
			t.Fatalf("expected %s present", check.Tool)
		}
	}
	for tool, count := range seen {
		if count != 1 {
			t.Fatalf("tool %s checked %d times", tool, count)
		}
	}
	if !report.Healthy() {
		t.Fatalf("expected healthy aggregate, missing=%v", report.Missing())
	}
}

func TestVerifierPartialEnvironmentScenario(t *testing.T) {
	testlog.Start(t)
	// ps, netstat, curl present; lsof, wget absent.
	resolver := mapResolver{paths: map[string]string{
		"ps":      "/bin/ps",
		"netstat": "/bin/netstat",
		"curl":    "/usr/bin/curl",
	}}
	runner := &scriptedRunner{results: map[string]scriptedResult{
		"ps":      {stdout: "USER PID\n"},
		"netstat": {stdout: "Proto\n"},
	}}
	report := Verifier{Resolver: resolver, Runner: runner}.Run()

	presence := report.Presence()
	available, missing := 0, 0
	for _, tool := range []string{"ps", "netstat", "curl", "lsof", "wget"} {
		if presence[tool] {
			available++
		} else {
			missing++
		}
	}
	if available != 3 || missing != 2 {
		t.Fatalf("expected 3 available / 2 missing, got %d/%d", available, missing)
	}

	var lsofProbe ProbeResult
	for _, probe := range report.Probes {
		if probe.Name == "lsof -i" {
			lsofProbe = probe
		}
	}
	if lsofProbe.Working {
		t.Fatalf("expected lsof probe to fail when binary is missing")
	}
	if lsofProbe.ExitCode != 127 {
		t.Fatalf("expected exit 127 for missing probe binary, got %d", lsofProbe.ExitCode)
	}
	if report.Healthy() {
		t.Fatalf("expected unhealthy aggregate")
	}
}

func TestVerifierProbeOrderIsFixed(t *testing.T) {
	runner := workingRunner()
	report := Verifier{Resolver: allPresentResolver(), Runner: runner}.Run()

	want := []string{"ps aux", "netstat -tuln", "lsof -i"}
	if len(report.Probes) != len(want) {
		t.Fatalf("expected %d probes, got %d", len(want), len(report.Probes))
	}
	for i, name := range want {
		if report.Probes[i].Name != name {
			t.Fatalf("probe %d: expected %q, got %q", i, name, report.Probes[i].Name)
		}
	}
}

func TestVerifierPresenceIsIdempotent(t *testing.T) {
	resolver := mapResolver{paths: map[string]string{"ps": "/bin/ps", "curl": "/usr/bin/curl"}}
	first := Verifier{Resolver: resolver, Runner: workingRunner()}.Run()
	second := Verifier{Resolver: resolver, Runner: workingRunner()}.Run()

	firstPresence := first.Presence()
	for tool, present := range second.Presence() {
		if firstPresence[tool] != present {
			t.Fatalf("presence for %s changed between runs", tool)
		}
	}
}

func TestGateExitCode(t *testing.T) {
	healthy := Verifier{Resolver: allPresentResolver(), Runner: workingRunner()}.Run()
	if GateExitCode(healthy) != 0 {
		t.Fatalf("expected exit 0 for healthy report")
	}

	degraded := Verifier{
		Resolver: mapResolver{paths: map[string]string{}},
		Runner:   &scriptedRunner{},
	}.Run()
	if GateExitCode(degraded) != 1 {
		t.Fatalf("expected exit 1 for degraded report")
	}
}

func TestSocketSnapshotFallsBackToSS(t *testing.T) {
	testlog.Start(t)
	resolver := mapResolver{paths: map[string]string{"ss": "/usr/sbin/ss"}}
	runner := &scriptedRunner{results: map[string]scriptedResult{
		"ss": {stdout: "Netid State\ntcp LISTEN\n"},
	}}

	lines := socketSnapshot(resolver, runner, 5)
	if len(lines) != 2 {
		t.Fatalf("expected 2 snapshot lines, got %d", len(lines))
	}
	for _, call := range runner.calls {
		if strings.HasPrefix(call, "netstat") {
			t.Fatalf("expected ss fallback, saw netstat call: %v", runner.calls)
		}
	}
}

func TestHeadLinesTruncation(t *testing.T) {
	raw := "a\nb\nc\nd\n"
	lines := headLines(raw, 2)
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("unexpected head lines: %v", lines)
	}
	if got := headLines("", 3); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestCatalogExtendFromFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "tools.yaml")
	content := "process:\n  - pstree\nnetwork:\n  - ss\nfilesystem:\n  - rsync\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	catalog, err := DefaultCatalog().ExtendFromFile(path)
	if err != nil {
		t.Fatalf("unexpected extend error: %v", err)
	}
	// ss is already cataloged; only pstree and rsync may be appended.
	if len(catalog) != len(DefaultCatalog())+2 {
		t.Fatalf("expected 2 appended tools, got %d extra", len(catalog)-len(DefaultCatalog()))
	}
	last := catalog[len(catalog)-1]
	if last.Tool != "rsync" || last.Category != CategoryFilesystem {
		t.Fatalf("unexpected final entry: %+v", last)
	}
}

func TestCatalogExtendMissingFileIsNoop(t *testing.T) {
	catalog, err := DefaultCatalog().ExtendFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(catalog) != len(DefaultCatalog()) {
		t.Fatalf("missing file should not change the catalog")
	}
}

func TestCatalogExtendRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	if _, err := DefaultCatalog().ExtendFromFile(path); !errors.Is(err, ErrInvalidCatalogFile) {
		t.Fatalf("expected ErrInvalidCatalogFile, got %v", err)
	}
}

func TestRenderReportLines(t *testing.T) {
	resolver := mapResolver{paths: map[string]string{"ps": "/bin/ps"}}
	runner := &scriptedRunner{results: map[string]scriptedResult{
		"ps":      {stdout: "USER PID\n"},
		"netstat": {stdout: "Proto\n"},
	}}
	report := Verifier{Resolver: resolver, Runner: runner}.Run()

	var buf bytes.Buffer
	Render(&buf, report)
	out := buf.String()

	if !strings.Contains(out, "ps Available") {
		t.Fatalf("expected available line for ps, got:\n%s", out)
	}
	if !strings.Contains(out, "lsof Missing") {
		t.Fatalf("expected missing line for lsof, got:\n%s", out)
	}
	if !strings.Contains(out, "ps aux Working") {
		t.Fatalf("expected working probe line, got:\n%s", out)
	}
	if !strings.Contains(out, "lsof -i Failed") {
		t.Fatalf("expected failed probe line, got:\n%s", out)
	}
}
