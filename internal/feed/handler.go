package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/bosstimers/internal/game/dispatch"
)

const (
	maxFrameSize = 4 << 10
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	writeWait    = 5 * time.Second
)

// Submitter accepts decoded events. *dispatch.Engine implements it.
type Submitter interface {
	Submit(ctx context.Context, ev dispatch.Event) error
}

// Handler upgrades GET /feed and forwards every frame to the engine in
// arrival order. One host connection is expected at a time, but several are
// tolerated; their events interleave on the engine queue.
type Handler struct {
	sub      Submitter
	upgrader websocket.Upgrader

	conns   atomic.Int32
	dropped atomic.Uint64
}

// NewHandler creates a feed handler submitting to sub.
func NewHandler(sub Submitter) *Handler {
	return &Handler{
		sub: sub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrameSize,
			WriteBufferSize: 1024,
			// The host is a local game client, not a browser page.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connections is the number of hosts currently attached.
func (h *Handler) Connections() int {
	return int(h.conns.Load())
}

// Dropped counts frames discarded because they could not be decoded.
func (h *Handler) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("feed upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	h.conns.Add(1)
	defer h.conns.Add(-1)

	slog.Info("feed connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.keepAlive(ctx, conn)

	code, reason := h.readLoop(ctx, conn, r.RemoteAddr)
	if code != 0 {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	slog.Info("feed disconnected", "remote", r.RemoteAddr, "reason", reason)
}

// readLoop returns the close code and reason to send, or 0 when the peer went away.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, remote string) (int, string) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("feed read", "remote", remote, "error", err)
			}
			return 0, "peer closed"
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if kind != websocket.TextMessage {
			h.dropped.Add(1)
			continue
		}

		ev, err := Decode(data)
		if errors.Is(err, ErrUnknownType) {
			slog.Warn("feed protocol mismatch", "remote", remote, "error", err)
			return websocket.CloseUnsupportedData, truncateReason(err.Error())
		}
		if err != nil {
			h.dropped.Add(1)
			slog.Warn("feed frame dropped", "remote", remote, "error", err)
			continue
		}

		if err := h.sub.Submit(ctx, ev); err != nil {
			if errors.Is(err, dispatch.ErrEngineStopped) {
				return websocket.CloseGoingAway, "shutting down"
			}
			return websocket.CloseInternalServerErr, truncateReason(err.Error())
		}
	}
}

func (h *Handler) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// Close reasons must fit in a control frame.
func truncateReason(s string) string {
	const limit = 123
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
