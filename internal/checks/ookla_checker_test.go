package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

const ooklaOutput = `{"type":"log","level":"info","message":"selecting server"}
{"type":"result","timestamp":"2024-05-01T10:00:00Z","ping":{"jitter":0.4,"latency":7.25},"download":{"bandwidth":12500000,"bytes":100000000,"elapsed":8000},"upload":{"bandwidth":2500000,"bytes":20000000,"elapsed":8000},"isp":"Example ISP","server":{"id":4242,"host":"speed.example.net","port":8080,"name":"Example Telecom","location":"Berlin","country":"Germany"}}
`

func TestParseOoklaOutput(t *testing.T) {
	payload, err := parseOoklaOutput(ooklaOutput)
	require.NoError(t, err)

	assert.Equal(t, 100.0, payload.DownloadMbps)
	assert.Equal(t, 20.0, payload.UploadMbps)
	assert.Equal(t, 7.25, payload.PingMs)
	assert.Equal(t, "Example Telecom", payload.Server)
	assert.Equal(t, 4242, payload.ServerID)
	assert.Equal(t, "Example ISP", payload.Raw["isp"])
}

func TestParseOoklaOutputErrors(t *testing.T) {
	_, err := parseOoklaOutput("")
	assert.True(t, errors.Is(err, domain.ErrProbeTransport))

	_, err = parseOoklaOutput(`{"type":"log","error":"Configuration - Could not retrieve or read configuration"}`)
	require.Error(t, err)
	assert.Equal(t, "Configuration - Could not retrieve or read configuration", err.Error())
}

func TestOoklaRejectsNonNumericServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, err := NewOoklaChecker("").Run(ctx, "nearest", 0, Options{})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
