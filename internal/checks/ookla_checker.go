package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
)

// OoklaChecker wraps the Ookla speedtest CLI. The target, when numeric,
// pins the test to that server id.
type OoklaChecker struct {
	binary string
}

func NewOoklaChecker(binary string) *OoklaChecker {
	if binary == "" {
		binary = "speedtest"
	}

	return &OoklaChecker{binary: binary}
}

type ooklaResult struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Ping  struct {
		Latency float64 `json:"latency"`
	} `json:"ping"`
	Download struct {
		Bandwidth float64 `json:"bandwidth"`
	} `json:"download"`
	Upload struct {
		Bandwidth float64 `json:"bandwidth"`
	} `json:"upload"`
	Server struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
	} `json:"server"`
}

func (o *OoklaChecker) Run(ctx context.Context, target string, _ time.Duration, opts Options) (interface{}, error) {
	args := []string{"--format=json", "--accept-license", "--accept-gdpr"}

	serverID := stringParam(opts.Parameters, "server_id", strings.TrimSpace(target))
	if serverID != "" {
		if _, err := strconv.Atoi(serverID); err != nil {
			return nil, domain.NewConfigurationError(fmt.Sprintf("invalid speedtest server id: %q", serverID))
		}
		args = append(args, "--server-id="+serverID)
	}

	output, err := runCommand(ctx, o.binary, args...)
	if err != nil {
		return nil, err
	}

	return parseOoklaOutput(output)
}

func parseOoklaOutput(output string) (domain.OoklaPayload, error) {
	line := lastJSONLine(output)
	if line == "" {
		return domain.OoklaPayload{}, domain.NewTransportError(errors.New("speedtest produced no result"))
	}

	var result ooklaResult
	if err := json.Unmarshal([]byte(line), &result); err != nil {
		return domain.OoklaPayload{}, domain.NewTransportError(fmt.Errorf("decode speedtest output: %w", err))
	}
	if result.Error != "" {
		return domain.OoklaPayload{}, domain.NewTransportError(errors.New(result.Error))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return domain.OoklaPayload{}, domain.NewTransportError(fmt.Errorf("decode speedtest output: %w", err))
	}

	return domain.OoklaPayload{
		DownloadMbps: bytesPerSecToMbps(result.Download.Bandwidth),
		UploadMbps:   bytesPerSecToMbps(result.Upload.Bandwidth),
		PingMs:       result.Ping.Latency,
		Server:       result.Server.Name,
		ServerID:     result.Server.ID,
		Raw:          raw,
	}, nil
}

func lastJSONLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return line
		}
	}
	return ""
}

func bytesPerSecToMbps(v float64) float64 {
	return v * 8 / 1e6
}
