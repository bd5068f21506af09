package checks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-ping/ping"

	"ozzus/pingdumb/internal/domain"
)

const (
	PingModeExec   = "exec"
	PingModeNative = "native"
)

var (
	pingSummaryRegexp = regexp.MustCompile(`(?m)(\d+) packets transmitted, (\d+) (?:packets )?received.*?([0-9.]+)% packet loss`)
	pingTimeRegexp    = regexp.MustCompile(`time[=<]([0-9]+\.?[0-9]*)`)
	pingRttRegexp     = regexp.MustCompile(`(?m)(?:rtt|round-trip) [^=]*= ([0-9.]+)/([0-9.]+)/([0-9.]+)/`)
)

type PingChecker struct {
	mode       string
	count      int
	privileged bool
}

func NewPingChecker(mode string, count int, privileged bool) *PingChecker {
	if mode == "" {
		mode = PingModeExec
	}
	if count <= 0 {
		count = 1
	}

	return &PingChecker{
		mode:       mode,
		count:      count,
		privileged: privileged,
	}
}

func (p *PingChecker) Run(ctx context.Context, target string, timeout time.Duration, opts Options) (interface{}, error) {
	host, err := normalizeHostname(target)
	if err != nil {
		return nil, err
	}

	count := intParam(opts.Parameters, "count", p.count)
	if count <= 0 {
		count = p.count
	}

	if p.mode == PingModeNative {
		return p.runNative(ctx, host, count, timeout)
	}

	return p.runExec(ctx, host, count, timeout)
}

func (p *PingChecker) runExec(ctx context.Context, host string, count int, timeout time.Duration) (interface{}, error) {
	args := []string{"-n", "-c", strconv.Itoa(count), "-W", strconv.Itoa(seconds(timeout)), host}

	output, err := runCommand(ctx, "ping", args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if summary := pingSummaryRegexp.FindString(output); summary != "" {
			return nil, domain.NewTransportError(fmt.Errorf("%s: %s", host, summary))
		}
		return nil, err
	}

	return domain.PingPayload{
		RTT:       parsePingRTT(output),
		RawOutput: output,
	}, nil
}

// parsePingRTT prefers the first reply's time= value and falls back to the
// average from the summary line.
func parsePingRTT(output string) *float64 {
	if matches := pingTimeRegexp.FindStringSubmatch(output); len(matches) == 2 {
		if rtt, err := strconv.ParseFloat(matches[1], 64); err == nil {
			return &rtt
		}
	}

	if matches := pingRttRegexp.FindStringSubmatch(output); len(matches) == 4 {
		if rtt, err := strconv.ParseFloat(matches[2], 64); err == nil {
			return &rtt
		}
	}

	return nil
}

func (p *PingChecker) runNative(ctx context.Context, host string, count int, timeout time.Duration) (interface{}, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return nil, domain.NewTransportError(err)
	}

	pinger.Count = count
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.privileged)

	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		pinger.Stop()
		<-done
		return nil, ctx.Err()
	}

	if err != nil {
		return nil, domain.NewTransportError(err)
	}

	stats := pinger.Statistics()
	raw := formatPingStatistics(stats)

	if stats.PacketsRecv == 0 {
		return nil, domain.NewTransportError(errors.New(strings.TrimSpace(raw)))
	}

	rtt := float64(stats.AvgRtt) / float64(time.Millisecond)

	return domain.PingPayload{
		RTT:       &rtt,
		RawOutput: raw,
	}, nil
}

func formatPingStatistics(stats *ping.Statistics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- %s ping statistics ---\n", stats.Addr)
	fmt.Fprintf(&b, "%d packets transmitted, %d received, %.0f%% packet loss\n",
		stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss)

	if stats.PacketsRecv > 0 {
		fmt.Fprintf(&b, "rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f ms\n",
			ms(stats.MinRtt), ms(stats.AvgRtt), ms(stats.MaxRtt), ms(stats.StdDevRtt))
	}

	return b.String()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
