package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
)

type IPerf3Checker struct {
	binary   string
	duration int
}

func NewIPerf3Checker(binary string, duration int) *IPerf3Checker {
	if binary == "" {
		binary = "iperf3"
	}
	if duration <= 0 {
		duration = 5
	}

	return &IPerf3Checker{
		binary:   binary,
		duration: duration,
	}
}

type iperfSum struct {
	BitsPerSecond float64 `json:"bits_per_second"`
	Retransmits   int     `json:"retransmits"`
	JitterMs      float64 `json:"jitter_ms"`
	LostPercent   float64 `json:"lost_percent"`
}

type iperfReport struct {
	Error string `json:"error"`
	End   struct {
		SumSent     *iperfSum `json:"sum_sent"`
		SumReceived *iperfSum `json:"sum_received"`
		Sum         *iperfSum `json:"sum"`
	} `json:"end"`
}

func (c *IPerf3Checker) Run(ctx context.Context, target string, _ time.Duration, opts Options) (interface{}, error) {
	host, port, err := splitIPerfTarget(target)
	if err != nil {
		return nil, err
	}

	reverse := boolParam(opts.Parameters, "reverse", false)
	udp := boolParam(opts.Parameters, "udp", false)
	duration := intParam(opts.Parameters, "duration", c.duration)
	if duration <= 0 {
		duration = c.duration
	}

	args := []string{"-c", host, "-J", "-t", strconv.Itoa(duration)}
	if port != "" {
		args = append(args, "-p", port)
	}
	if reverse {
		args = append(args, "-R")
	}
	if udp {
		args = append(args, "-u")
	}

	output, runErr := runCommand(ctx, c.binary, args...)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// iperf3 reports its own failures inside the JSON and exits non-zero
	if strings.TrimSpace(output) != "" {
		return parseIPerf3Output(output, reverse, udp)
	}
	if runErr != nil {
		return nil, runErr
	}

	return nil, domain.NewTransportError(errors.New("iperf3 produced no output"))
}

func splitIPerfTarget(target string) (string, string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", domain.NewConfigurationError("empty iperf3 target")
	}

	host, port, err := net.SplitHostPort(target)
	if err != nil {
		host, port = target, ""
	}
	if port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return "", "", domain.NewConfigurationError(fmt.Sprintf("invalid iperf3 port: %q", port))
		}
	}
	if host == "" || strings.HasPrefix(host, "-") {
		return "", "", domain.NewConfigurationError(fmt.Sprintf("malformed target: %q", target))
	}

	return host, port, nil
}

func parseIPerf3Output(output string, reverse, udp bool) (domain.IPerf3Payload, error) {
	var report iperfReport
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		return domain.IPerf3Payload{}, domain.NewTransportError(fmt.Errorf("decode iperf3 output: %w", err))
	}
	if report.Error != "" {
		return domain.IPerf3Payload{}, domain.NewTransportError(errors.New(report.Error))
	}

	direction := "upload"
	if reverse {
		direction = "download"
	}

	payload := domain.IPerf3Payload{Direction: direction}

	if udp {
		if report.End.Sum == nil {
			return payload, domain.NewTransportError(errors.New("iperf3 report has no udp summary"))
		}
		payload.BandwidthMbps = report.End.Sum.BitsPerSecond / 1e6
		payload.JitterMs = report.End.Sum.JitterMs
		payload.PacketLossPct = report.End.Sum.LostPercent
		return payload, nil
	}

	if report.End.SumReceived == nil {
		return payload, domain.NewTransportError(errors.New("iperf3 report has no tcp summary"))
	}
	payload.BandwidthMbps = report.End.SumReceived.BitsPerSecond / 1e6
	if report.End.SumSent != nil {
		payload.Retransmits = report.End.SumSent.Retransmits
	}

	return payload, nil
}
