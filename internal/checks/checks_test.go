package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

type stubProbe struct{}

func (stubProbe) Run(context.Context, string, time.Duration, Options) (interface{}, error) {
	return nil, nil
}

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.KindPing, stubProbe{})

	_, err := r.Get(domain.KindPing)
	require.NoError(t, err)

	_, err = r.Get("carrier_pigeon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Contains(t, err.Error(), "carrier_pigeon")
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	r := NewDefaultRegistry(Config{})

	assert.Equal(t, []domain.CheckKind{
		domain.KindDNS,
		domain.KindHTTP,
		domain.KindIPerf3,
		domain.KindPing,
		domain.KindSpeedtestFast,
		domain.KindSpeedtestOokla,
		domain.KindTraceroute,
	}, r.Kinds())

	for _, kind := range r.Kinds() {
		assert.True(t, kind.Valid(), kind)
	}
}

func TestOptionsFor(t *testing.T) {
	def := domain.CheckDefinition{
		DNSServers: []string{"9.9.9.9"},
		Parameters: map[string]interface{}{"count": 3},
	}

	opts := OptionsFor(def)
	assert.Equal(t, []string{"9.9.9.9"}, opts.DNSServers)
	assert.Equal(t, 3, intParam(opts.Parameters, "count", 1))
}

func TestNormalizeHostname(t *testing.T) {
	cases := map[string]string{
		"8.8.8.8":               "8.8.8.8",
		" example.com ":         "example.com",
		"https://example.com/x": "example.com",
		"example.com:443":       "example.com",
		"[2001:db8::1]:80":      "2001:db8::1",
		"2001:4860:4860::8888":  "2001:4860:4860::8888",
	}
	for in, want := range cases {
		got, err := normalizeHostname(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "-f", "a b"} {
		_, err := normalizeHostname(bad)
		assert.True(t, errors.Is(err, domain.ErrConfiguration), bad)
	}
}

func TestParams(t *testing.T) {
	params := map[string]interface{}{
		"count":    float64(4),
		"reverse":  "true",
		"udp":      true,
		"duration": "1500ms",
		"seconds":  float64(7),
	}

	assert.Equal(t, 4, intParam(params, "count", 1))
	assert.Equal(t, 9, intParam(params, "missing", 9))
	assert.True(t, boolParam(params, "reverse", false))
	assert.True(t, boolParam(params, "udp", false))
	assert.False(t, boolParam(nil, "udp", false))
	assert.Equal(t, 1500*time.Millisecond, secondsParam(params, "duration", time.Second))
	assert.Equal(t, 7*time.Second, secondsParam(params, "seconds", time.Second))
	assert.Equal(t, time.Second, secondsParam(params, "missing", time.Second))
}
