package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("dns lookup: %w", NewTransportError(errors.New("connection refused")))

	assert.True(t, errors.Is(wrapped, ErrProbeTransport))
	assert.False(t, errors.Is(wrapped, ErrTimeout))
	assert.Equal(t, ErrorKindProbeTransport, KindOf(wrapped))
	assert.Equal(t, "dns lookup: connection refused", wrapped.Error())

	assert.Equal(t, "timeout", ErrTimeout.Error())
	assert.True(t, errors.Is(fmt.Errorf("run: %w", ErrTimeout), ErrTimeout))

	cfgErr := NewConfigurationError("unknown check kind: bogus")
	assert.Equal(t, "unknown check kind: bogus", cfgErr.Error())
	assert.Equal(t, ErrorKindConfiguration, KindOf(cfgErr))

	assert.Equal(t, ErrorKindInfrastructure, KindOf(NewInfrastructureError(context.Canceled)))
	assert.True(t, errors.Is(NewInfrastructureError(context.Canceled), context.Canceled))

	assert.Equal(t, ErrorKindProbeTransport, KindOf(errors.New("exit status 2")))
	assert.Nil(t, NewTransportError(nil))
}

func TestCheckDefinitionDefaultsAndValidate(t *testing.T) {
	def := CheckDefinition{Name: " gw ", Kind: KindPing, Target: " 192.0.2.1 "}
	def.ApplyDefaults()

	assert.Equal(t, "gw", def.Name)
	assert.Equal(t, "192.0.2.1", def.Target)
	assert.Equal(t, DefaultInterval, def.Interval)
	assert.Equal(t, DefaultTimeout, def.Timeout)
	assert.Equal(t, 30*time.Second, def.IntervalDuration())
	assert.Equal(t, 5*time.Second, def.TimeoutDuration())
	assert.NoError(t, def.Validate())

	tests := []struct {
		name string
		def  CheckDefinition
	}{
		{"missing name", CheckDefinition{Kind: KindPing, Target: "x", Interval: 1, Timeout: 1}},
		{"unknown kind", CheckDefinition{Name: "x", Kind: "smtp", Target: "x", Interval: 1, Timeout: 1}},
		{"missing target", CheckDefinition{Name: "x", Kind: KindHTTP, Interval: 1, Timeout: 1}},
		{"negative interval", CheckDefinition{Name: "x", Kind: KindPing, Target: "x", Interval: -1, Timeout: 1}},
		{"zero timeout", CheckDefinition{Name: "x", Kind: KindPing, Target: "x", Interval: 1}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.def.Validate(), ErrConfiguration))
		})
	}

	speed := CheckDefinition{Name: "speed", Kind: KindSpeedtestOokla, Interval: 3600, Timeout: 60}
	assert.NoError(t, speed.Validate())
}

func TestDefaultDefinitions(t *testing.T) {
	defs := DefaultDefinitions()

	assert.Len(t, defs, 4)
	for _, d := range defs {
		assert.NoError(t, d.Validate(), d.Name)
		assert.True(t, d.Enabled)
		assert.Empty(t, d.ID)
	}
}
