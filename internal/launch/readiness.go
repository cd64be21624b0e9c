package launch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrReadinessTimeout = errors.New("launch: readiness deadline exceeded")

const (
	DefaultReadinessInterval = 250 * time.Millisecond
	DefaultReadinessTimeout  = 10 * time.Second
)

// ReadinessConfig names an optional webapp readiness endpoint polled before
// the scheduler starts. An empty URL keeps the original fire-and-forget
// launch ordering.
type ReadinessConfig struct {
	URL      string
	Interval time.Duration
	Timeout  time.Duration
}

func (c ReadinessConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

func (c ReadinessConfig) interval() time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	return DefaultReadinessInterval
}

func (c ReadinessConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultReadinessTimeout
}

// WaitReady polls the readiness URL until it answers with a 2xx status or the
// bounded timeout elapses. The poll is advisory: callers log a timeout and
// proceed rather than aborting the launch.
func WaitReady(ctx context.Context, cfg ReadinessConfig) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client := &http.Client{Timeout: cfg.interval()}
	ticker := time.NewTicker(cfg.interval())
	defer ticker.Stop()

	for {
		if ready(ctx, client, cfg.URL) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrReadinessTimeout, cfg.URL)
		case <-ticker.C:
		}
	}
}

func ready(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
