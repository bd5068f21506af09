package backend

import (
	"context"
	"log/slog"
	"time"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

const (
	DefaultHeartbeatInterval = 30 * time.Second
	heartbeatTimeout         = 5 * time.Second
)

// RunHeartbeat sends a heartbeat immediately and then every interval until
// ctx is done. Failures are logged and never stop the loop.
func (c *Client) RunHeartbeat(ctx context.Context, interval time.Duration, snapshot func() domain.Heartbeat, log *slog.Logger) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	log = log.With(slog.String("component", "heartbeat"))

	send := func() {
		hbCtx, cancel := context.WithTimeout(ctx, heartbeatTimeout)
		defer cancel()

		hb := snapshot()
		hb.Timestamp = time.Now().UTC()

		if err := c.Heartbeat(hbCtx, hb); err != nil {
			log.Error("heartbeat failed", sl.Err(err))
			return
		}

		log.Debug("heartbeat sent", slog.Int("scheduled", hb.Scheduled), slog.Int("running", hb.Running))
	}

	send()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			send()
		case <-ctx.Done():
			log.Debug("heartbeat loop stopped")
			return
		}
	}
}
