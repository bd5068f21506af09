package checks

import (
	"context"
	"strconv"
	"time"

	"ozzus/pingdumb/internal/domain"
)

type TracerouteChecker struct {
	maxHops int
}

func NewTracerouteChecker(maxHops int) *TracerouteChecker {
	if maxHops <= 0 {
		maxHops = 15
	}

	return &TracerouteChecker{maxHops: maxHops}
}

func (t *TracerouteChecker) Run(ctx context.Context, target string, _ time.Duration, opts Options) (interface{}, error) {
	host, err := normalizeHostname(target)
	if err != nil {
		return nil, err
	}

	maxHops := intParam(opts.Parameters, "max_hops", t.maxHops)
	if maxHops <= 0 {
		maxHops = t.maxHops
	}

	output, err := runCommand(ctx, "traceroute", "-n", "-m", strconv.Itoa(maxHops), host)
	if err != nil {
		return nil, err
	}

	return domain.TraceroutePayload{RawOutput: output}, nil
}
