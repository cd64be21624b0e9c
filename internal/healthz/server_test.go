package healthz

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/bootctl/internal/testutil/testlog"
	"github.com/danmuck/bootctl/internal/toolcheck"
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

type countingRunner struct {
	runs int
}

func (r *countingRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	r.runs++
	return []byte("header\nrow\n"), nil, 0, nil
}

func allPresentVerifier(runner *countingRunner) toolcheck.Verifier {
	paths := make(map[string]string)
	for _, entry := range toolcheck.DefaultCatalog() {
		paths[entry.Tool] = "/usr/bin/" + entry.Tool
	}
	return toolcheck.Verifier{Resolver: mapResolver{paths: paths}, Runner: runner}
}

func TestHealthzReportsOKWhenHealthy(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	server := New(allPresentVerifier(&countingRunner{}), time.Minute, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Status string           `json:"status"`
		Report toolcheck.Report `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad json payload: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("expected ok status, got %q", payload.Status)
	}
	if len(payload.Report.Checks) != len(toolcheck.DefaultCatalog()) {
		t.Fatalf("expected full check list in payload, got %d", len(payload.Report.Checks))
	}
}

func TestHealthzReports503WhenDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := toolcheck.Verifier{
		Resolver: mapResolver{paths: map[string]string{}},
		Runner:   &countingRunner{},
	}
	server := New(verifier, time.Minute, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "degraded") {
		t.Fatalf("expected degraded status in payload: %s", rec.Body.String())
	}
}

func TestHealthzToolsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := New(allPresentVerifier(&countingRunner{}), time.Minute, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/tools", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Tools map[string]bool `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad json payload: %v", err)
	}
	if !payload.Tools["ps"] {
		t.Fatalf("expected ps present in tools map: %v", payload.Tools)
	}
}

func TestHealthzCachesVerificationRuns(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	runner := &countingRunner{}
	server := New(allPresentVerifier(runner), time.Minute, nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}

	// One verification = 3 probes + 2 snapshots worth of runner calls.
	if runner.runs > 5 {
		t.Fatalf("expected a single cached verification, saw %d runner calls", runner.runs)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := New(allPresentVerifier(&countingRunner{}), time.Minute, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}
