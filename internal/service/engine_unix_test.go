//go:build unix

package service

import (
	"context"
	"errors"
	"os/exec"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/checks"
	"ozzus/pingdumb/internal/domain"
)

func TestEngineTimeoutKillsSubprocess(t *testing.T) {
	var pid atomic.Int64

	e := engineWith(domain.KindTraceroute, probeFunc(func(ctx context.Context, _ string, _ time.Duration, _ checks.Options) (interface{}, error) {
		cmd := exec.CommandContext(ctx, "sleep", "30")
		cmd.WaitDelay = time.Second
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		pid.Store(int64(cmd.Process.Pid))
		return nil, cmd.Wait()
	}))

	def := pingDef()
	def.Kind = domain.KindTraceroute
	res := e.Execute(context.Background(), def)

	assert.False(t, res.Success)
	assert.Equal(t, "timeout", res.Error)
	assert.InDelta(t, 1.0, res.ResponseTime, 0.5)

	require.NotZero(t, pid.Load())
	err := syscall.Kill(int(pid.Load()), 0)
	assert.True(t, errors.Is(err, syscall.ESRCH), "process %d still exists: %v", pid.Load(), err)
}
