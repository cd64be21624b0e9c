// Package healthz serves the verifier's structured aggregate over HTTP, so
// orchestrators can consume a machine-readable pass/fail signal instead of
// the terminal report.
package healthz

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/bootctl/internal/observability"
	"github.com/danmuck/bootctl/internal/toolcheck"
)

// Server caches verification runs behind a TTL so a probing orchestrator
// does not fork a process listing on every request.
type Server struct {
	verifier  toolcheck.Verifier
	ttl       time.Duration
	startedAt time.Time
	router    *gin.Engine

	mu       sync.Mutex
	cached   toolcheck.Report
	cachedAt time.Time
}

// New builds the healthd server around a verifier.
func New(verifier toolcheck.Verifier, ttl time.Duration, corsOrigins []string, logger zerolog.Logger) *Server {
	s := &Server{
		verifier:  verifier,
		ttl:       ttl,
		startedAt: time.Now(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s.router = router
	s.registerRoutes()
	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		report := s.report()
		status := http.StatusOK
		overall := "ok"
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status": overall,
			"uptime": time.Since(s.startedAt).String(),
			"report": report,
		})
	})

	s.router.GET("/healthz/tools", func(c *gin.Context) {
		report := s.report()
		c.JSON(http.StatusOK, gin.H{
			"tools": report.Presence(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// report returns the cached verification, refreshing it when stale. Metrics
// are recorded only on real runs.
func (s *Server) report() toolcheck.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cachedAt.IsZero() && time.Since(s.cachedAt) < s.ttl {
		return s.cached
	}

	start := time.Now()
	report := s.verifier.Run()
	s.cached = report
	s.cachedAt = time.Now()

	for _, check := range report.Checks {
		observability.RecordToolPresence(check.Tool, string(check.Category), check.Present)
	}
	for _, probe := range report.Probes {
		observability.RecordProbe(probe.Name, probe.Working)
	}
	observability.RecordVerifyDuration(report.Healthy(), time.Since(start))

	return report
}
