package checks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"ozzus/pingdumb/internal/domain"
)

const DefaultResolvConf = "/etc/resolv.conf"

// DefaultFallbackServers follow the system resolvers in the default server list.
var DefaultFallbackServers = []string{"8.8.8.8", "1.1.1.1", "8.8.4.4", "1.0.0.1"}

// dnsQueryMargin covers socket setup and a TCP retry on top of each query timeout.
const dnsQueryMargin = 500 * time.Millisecond

var errNoAnswer = errors.New("no answer")

type exchangeFunc func(ctx context.Context, msg *dns.Msg, addr string, timeout time.Duration) (*dns.Msg, time.Duration, error)

// DNSChecker queries every server in turn and reports each one inside the
// payload. Per-server failures never fail the probe itself.
type DNSChecker struct {
	resolvConf string
	fallback   []string
	exchange   exchangeFunc
}

func NewDNSChecker(resolvConf string, fallback []string) *DNSChecker {
	if resolvConf == "" {
		resolvConf = DefaultResolvConf
	}
	if len(fallback) == 0 {
		fallback = DefaultFallbackServers
	}

	return &DNSChecker{
		resolvConf: resolvConf,
		fallback:   fallback,
		exchange:   exchange,
	}
}

func (d *DNSChecker) Run(ctx context.Context, target string, timeout time.Duration, opts Options) (interface{}, error) {
	name, recordType, err := parseDNSTarget(target)
	if err != nil {
		return nil, err
	}
	qtype := dns.StringToType[recordType]

	servers := d.Servers(opts)

	results := make([]domain.DNSServerResult, 0, len(servers))
	for _, server := range servers {
		if err := ctx.Err(); err != nil {
			results = append(results, domain.DNSServerResult{Server: server, Error: skippedReason(err)})
			continue
		}
		results = append(results, d.query(ctx, name, qtype, server, timeout))
	}

	payload := summarizeDNS(results)
	payload.RecordType = recordType
	payload.Target = name

	return payload, nil
}

// Budget gives the engine room for one timeout per server plus a margin, so
// a run where every server times out still returns its payload.
func (d *DNSChecker) Budget(timeout time.Duration, opts Options) time.Duration {
	n := len(d.Servers(opts))
	if n < 1 {
		n = 1
	}
	return time.Duration(n) * (timeout + dnsQueryMargin)
}

// skippedReason is recorded for servers left unqueried once ctx is done.
func skippedReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout.Error()
	}
	return "not queried: " + err.Error()
}

// Servers returns the explicit servers when given, otherwise the system
// resolvers followed by the fallback list.
func (d *DNSChecker) Servers(opts Options) []string {
	if len(opts.DNSServers) > 0 {
		servers := make([]string, 0, len(opts.DNSServers))
		for _, s := range opts.DNSServers {
			if s = strings.TrimSpace(s); s != "" {
				servers = append(servers, s)
			}
		}
		return servers
	}

	return defaultServers(d.systemServers(), d.fallback)
}

func (d *DNSChecker) systemServers() []string {
	cfg, err := dns.ClientConfigFromFile(d.resolvConf)
	if err != nil {
		return nil
	}
	return cfg.Servers
}

func defaultServers(system, fallback []string) []string {
	seen := make(map[string]struct{}, len(system)+len(fallback))
	servers := make([]string, 0, len(system)+len(fallback))

	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		servers = append(servers, s)
	}

	for _, s := range system {
		if ip := net.ParseIP(s); ip != nil && ip.IsLoopback() {
			continue
		}
		add(s)
	}
	for _, s := range fallback {
		add(s)
	}

	return servers
}

func parseDNSTarget(target string) (string, string, error) {
	name, recordType, _ := strings.Cut(strings.TrimSpace(target), ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.NewConfigurationError("empty dns target")
	}

	recordType = strings.ToUpper(strings.TrimSpace(recordType))
	if recordType == "" {
		recordType = "A"
	}
	if _, ok := dns.StringToType[recordType]; !ok {
		return "", "", domain.NewConfigurationError(fmt.Sprintf("unknown record type: %q", recordType))
	}

	return name, recordType, nil
}

func (d *DNSChecker) query(ctx context.Context, name string, qtype uint16, server string, timeout time.Duration) domain.DNSServerResult {
	result := domain.DNSServerResult{Server: server}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, rtt, err := d.exchange(qctx, msg, serverAddr(server), timeout)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if resp.Rcode != dns.RcodeSuccess {
		result.Error = dns.RcodeToString[resp.Rcode]
		return result
	}

	answers := answerStrings(resp, qtype)
	if len(answers) == 0 {
		result.Error = errNoAnswer.Error()
		return result
	}

	responseTime := float64(rtt) / float64(time.Millisecond)
	result.Success = true
	result.ResponseTime = &responseTime
	result.Answers = answers

	return result
}

func exchange(ctx context.Context, msg *dns.Msg, addr string, timeout time.Duration) (*dns.Msg, time.Duration, error) {
	client := &dns.Client{Net: "udp", Timeout: timeout}

	resp, rtt, err := client.ExchangeContext(ctx, msg, addr)
	if err == nil && resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: timeout}
		resp, rtt, err = tcp.ExchangeContext(ctx, msg, addr)
	}

	return resp, rtt, err
}

// answerStrings renders the rdata of answers matching qtype; CNAME hops are skipped.
func answerStrings(resp *dns.Msg, qtype uint16) []string {
	var answers []string
	for _, rr := range resp.Answer {
		if rr.Header().Rrtype != qtype {
			continue
		}
		answers = append(answers, strings.TrimPrefix(rr.String(), rr.Header().String()))
	}
	return answers
}

func serverAddr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, "53")
}

// summarizeDNS aggregates per-server results. Fastest and slowest only
// consider successful servers; ties keep the first one seen.
func summarizeDNS(results []domain.DNSServerResult) domain.DNSPayload {
	payload := domain.DNSPayload{
		ServersTested:    len(results),
		PerServerResults: results,
	}

	var total float64
	var fastest, slowest *domain.DNSServerResult

	for i := range results {
		r := &results[i]
		if !r.Success || r.ResponseTime == nil {
			continue
		}

		payload.SuccessfulQueries++
		total += *r.ResponseTime

		if fastest == nil || *r.ResponseTime < *fastest.ResponseTime {
			fastest = r
		}
		if slowest == nil || *r.ResponseTime > *slowest.ResponseTime {
			slowest = r
		}
	}

	if len(results) > 0 {
		payload.SuccessRate = float64(payload.SuccessfulQueries) / float64(len(results)) * 100
	}
	if payload.SuccessfulQueries > 0 {
		payload.AvgResponseTime = total / float64(payload.SuccessfulQueries)
	}
	if fastest != nil {
		payload.Summary.FastestServer = fastest.Server
		payload.Summary.SlowestServer = slowest.Server
	}

	return payload
}
