package checks

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"ozzus/pingdumb/internal/domain"
)

// Options carries the kind-specific part of a definition to a probe.
type Options struct {
	DNSServers []string
	Parameters map[string]interface{}
}

func OptionsFor(def domain.CheckDefinition) Options {
	return Options{
		DNSServers: def.DNSServers,
		Parameters: def.Parameters,
	}
}

// Probe runs one check kind once. The returned payload is one of the
// domain *Payload types.
type Probe interface {
	Run(ctx context.Context, target string, timeout time.Duration, opts Options) (interface{}, error)
}

// Budgeter is implemented by probes that apply the timeout per step and so
// need a wider overall deadline than a single timeout.
type Budgeter interface {
	Budget(timeout time.Duration, opts Options) time.Duration
}

// Registry maps kinds to probes. It is filled during wiring and read-only afterwards.
type Registry struct {
	probes map[domain.CheckKind]Probe
}

func NewRegistry() *Registry {
	return &Registry{
		probes: make(map[domain.CheckKind]Probe),
	}
}

func (r *Registry) Register(kind domain.CheckKind, probe Probe) {
	r.probes[kind] = probe
}

func (r *Registry) Get(kind domain.CheckKind) (Probe, error) {
	probe, ok := r.probes[kind]
	if !ok {
		return nil, domain.NewConfigurationError(fmt.Sprintf("unknown check kind: %s", kind))
	}
	return probe, nil
}

func (r *Registry) Kinds() []domain.CheckKind {
	kinds := make([]domain.CheckKind, 0, len(r.probes))
	for kind := range r.probes {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

type Config struct {
	PingMode          string
	PingPrivileged    bool
	PingCount         int
	TracerouteMaxHops int
	ResolvConf        string
	FallbackServers   []string
	OoklaBinary       string
	IPerf3Binary      string
	IPerf3Duration    int
	FastURLCount      int
	FastDuration      time.Duration
	HTTPClient        *http.Client
}

// NewDefaultRegistry registers a probe for every known kind.
func NewDefaultRegistry(cfg Config) *Registry {
	client := cfg.HTTPClient
	if client == nil {
		client = newPooledClient()
	}

	r := NewRegistry()
	r.Register(domain.KindPing, NewPingChecker(cfg.PingMode, cfg.PingCount, cfg.PingPrivileged))
	r.Register(domain.KindHTTP, NewHTTPChecker(client))
	r.Register(domain.KindDNS, NewDNSChecker(cfg.ResolvConf, cfg.FallbackServers))
	r.Register(domain.KindTraceroute, NewTracerouteChecker(cfg.TracerouteMaxHops))
	r.Register(domain.KindSpeedtestOokla, NewOoklaChecker(cfg.OoklaBinary))
	r.Register(domain.KindSpeedtestFast, NewFastChecker(client, cfg.FastURLCount, cfg.FastDuration))
	r.Register(domain.KindIPerf3, NewIPerf3Checker(cfg.IPerf3Binary, cfg.IPerf3Duration))
	return r
}

func newPooledClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{Transport: transport}
}
