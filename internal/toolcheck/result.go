package toolcheck

import "time"

// Category groups tools by the administrative concern they serve.
type Category string

const (
	CategoryProcess    Category = "process"
	CategoryNetwork    Category = "network"
	CategoryFilesystem Category = "filesystem"
)

// CheckResult is one presence check outcome.
type CheckResult struct {
	Tool     string   `json:"tool"`
	Category Category `json:"category"`
	Present  bool     `json:"present"`
	Path     string   `json:"path,omitempty"`
}

// ProbeResult is one functional probe outcome, classified purely on the
// probe's exit status.
type ProbeResult struct {
	Name     string `json:"name"`
	Working  bool   `json:"working"`
	ExitCode int32  `json:"exit_code"`
}

// Report is the structured verification aggregate. Per-check and per-probe
// booleans plus the derived overall booleans, suitable for health endpoints
// and gate-mode exit codes.
type Report struct {
	GeneratedAt     time.Time     `json:"generated_at"`
	Checks          []CheckResult `json:"checks"`
	Probes          []ProbeResult `json:"probes"`
	ProcessSnapshot []string      `json:"process_snapshot,omitempty"`
	SocketSnapshot  []string      `json:"socket_snapshot,omitempty"`
}

// AllAvailable reports whether every cataloged tool resolved.
func (r Report) AllAvailable() bool {
	for _, c := range r.Checks {
		if !c.Present {
			return false
		}
	}
	return true
}

// ProbesWorking reports whether every functional probe exited zero.
func (r Report) ProbesWorking() bool {
	for _, p := range r.Probes {
		if !p.Working {
			return false
		}
	}
	return true
}

// Healthy is the overall aggregate used to derive gate-mode exit codes and
// the /healthz status.
func (r Report) Healthy() bool {
	return r.AllAvailable() && r.ProbesWorking()
}

// Missing returns the names of tools that did not resolve, in catalog order.
func (r Report) Missing() []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Present {
			out = append(out, c.Tool)
		}
	}
	return out
}

// Presence returns a tool-name to present-boolean map for compact payloads.
func (r Report) Presence() map[string]bool {
	out := make(map[string]bool, len(r.Checks))
	for _, c := range r.Checks {
		out[c.Tool] = c.Present
	}
	return out
}
