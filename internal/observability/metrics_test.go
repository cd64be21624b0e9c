package observability

import (
	"testing"
	"time"

	"github.com/danmuck/bootctl/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordToolPresence("ps", "process", true)
	RecordToolPresence("lsof", "network", false)
	RecordProbe("ps aux", true)
	RecordVerifyDuration(false, 40*time.Millisecond)
	RecordHTTPRequest("GET", "/healthz", 200, 12*time.Millisecond)
}
