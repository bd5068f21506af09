package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
	"ozzus/pingdumb/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type SubscriberRegistry interface {
	Subscribe(sub service.Subscriber)
	Unsubscribe(sub service.Subscriber) bool
}

type WSController struct {
	registry SubscriberRegistry
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewWSController accepts upgrades from the allowed origins, from any origin
// when the list holds "*", and from clients that send no Origin header.
func NewWSController(registry SubscriberRegistry, allowedOrigins []string, log *slog.Logger) *WSController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSController{
		registry: registry,
		log:      log.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed["*"]; ok {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Stream upgrades the request and pushes every published Result to the
// client as a JSON text message until either side goes away.
func (h *WSController) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", sl.Err(err))
		return
	}

	sub := newWSSubscriber(conn)
	h.registry.Subscribe(sub)
	h.log.Debug("websocket client connected", slog.String("remote", conn.RemoteAddr().String()))

	defer func() {
		h.registry.Unsubscribe(sub)
		_ = sub.Close()
		h.log.Debug("websocket client disconnected", slog.String("remote", conn.RemoteAddr().String()))
	}()

	go sub.pingLoop()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", sl.Err(err))
			}
			return
		}
	}
}

// wsSubscriber serializes writes; gorilla connections allow one writer.
type wsSubscriber struct {
	conn *websocket.Conn

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newWSSubscriber(conn *websocket.Conn) *wsSubscriber {
	return &wsSubscriber{conn: conn, done: make(chan struct{})}
}

func (s *wsSubscriber) Send(ctx context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteJSON(result)
}

func (s *wsSubscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.mu.Unlock()

		err = s.conn.Close()
	})
	return err
}

func (s *wsSubscriber) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.mu.Unlock()
			if err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
