package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
)

// commandWaitDelay bounds how long Wait blocks on output pipes after the
// process has been killed.
const commandWaitDelay = time.Second

// runCommand runs an external tool. The process is killed as soon as ctx is
// done. Stdout is returned even when the tool exits non-zero.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = commandWaitDelay

	err := cmd.Run()
	out := stdout.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = fmt.Sprintf("%s exited with code %d", name, exitErr.ExitCode())
			}
			return out, domain.NewTransportError(errors.New(msg))
		}
		return out, domain.NewTransportError(err)
	}

	return out, nil
}
