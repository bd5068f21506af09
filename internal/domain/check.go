package domain

import (
	"fmt"
	"strings"
	"time"
)

type CheckKind string

const (
	KindPing           CheckKind = "ping"
	KindHTTP           CheckKind = "http"
	KindDNS            CheckKind = "dns"
	KindTraceroute     CheckKind = "traceroute"
	KindSpeedtestOokla CheckKind = "speedtest_ookla"
	KindSpeedtestFast  CheckKind = "speedtest_fast"
	KindIPerf3         CheckKind = "iperf3"
)

const (
	DefaultInterval = 30
	DefaultTimeout  = 5
)

var knownKinds = map[CheckKind]struct{}{
	KindPing:           {},
	KindHTTP:           {},
	KindDNS:            {},
	KindTraceroute:     {},
	KindSpeedtestOokla: {},
	KindSpeedtestFast:  {},
	KindIPerf3:         {},
}

func (k CheckKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// TargetRequired reports whether the kind needs a target to run.
// Speedtests pick their own servers when none is given.
func (k CheckKind) TargetRequired() bool {
	return k != KindSpeedtestOokla && k != KindSpeedtestFast
}

// CheckDefinition is replaced wholesale on update, never mutated in place.
type CheckDefinition struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Kind       CheckKind              `json:"test_type"`
	Target     string                 `json:"target"`
	Interval   int                    `json:"interval"`
	Timeout    int                    `json:"timeout"`
	Enabled    bool                   `json:"enabled"`
	DNSServers []string               `json:"dns_servers,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func (d CheckDefinition) IntervalDuration() time.Duration {
	return time.Duration(d.Interval) * time.Second
}

func (d CheckDefinition) TimeoutDuration() time.Duration {
	return time.Duration(d.Timeout) * time.Second
}

// ApplyDefaults fills zero interval and timeout.
func (d *CheckDefinition) ApplyDefaults() {
	if d.Interval == 0 {
		d.Interval = DefaultInterval
	}
	if d.Timeout == 0 {
		d.Timeout = DefaultTimeout
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Target = strings.TrimSpace(d.Target)
}

func (d CheckDefinition) Validate() error {
	if d.Name == "" {
		return NewConfigurationError("name is required")
	}
	if !d.Kind.Valid() {
		return NewConfigurationError(fmt.Sprintf("unknown check kind: %q", d.Kind))
	}
	if d.Kind.TargetRequired() && d.Target == "" {
		return NewConfigurationError(fmt.Sprintf("target is required for %s checks", d.Kind))
	}
	if d.Interval < 1 {
		return NewConfigurationError("interval must be at least 1 second")
	}
	if d.Timeout < 1 {
		return NewConfigurationError("timeout must be at least 1 second")
	}
	return nil
}

// DefaultDefinitions are seeded into an empty store.
func DefaultDefinitions() []CheckDefinition {
	seed := []struct {
		name   string
		kind   CheckKind
		target string
	}{
		{"Google DNS", KindPing, "8.8.8.8"},
		{"Cloudflare DNS", KindPing, "1.1.1.1"},
		{"Google HTTP", KindHTTP, "https://google.com"},
		{"Local Gateway", KindPing, "192.168.1.1"},
	}

	defs := make([]CheckDefinition, 0, len(seed))
	for _, s := range seed {
		defs = append(defs, CheckDefinition{
			Name:     s.name,
			Kind:     s.kind,
			Target:   s.target,
			Interval: DefaultInterval,
			Timeout:  DefaultTimeout,
			Enabled:  true,
		})
	}
	return defs
}
