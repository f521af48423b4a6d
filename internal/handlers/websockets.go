package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

const (
	wsTypeTasks = "tasks"
	wsTypeError = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Browsers cannot set Authorization on the upgrade request from script,
// so origin checks are left to the CORS layer and the bearer token.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Stream tasks
// @Description  Upgrades to WebSocket and pushes the caller's task list every interval.
// @Tags         tasks
// @Security     BearerAuth
// @Param        interval     query  string  false  "Go duration, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Milliseconds (max 10000)"
// @Success      101
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /tasks/stream [get]
func (h *Handler) streamTasks(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	interval := parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err, "user_id", id.ID)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine handles control frames and detects disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendTasks(ctx, conn, id.ID); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err, "user_id", id.ID)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendTasks(ctx, conn, id.ID); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "user_id", id.ID)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// sendTasks writes the user's current task list. A storage failure is
// reported to the client as an error envelope before the stream ends.
func (h *Handler) sendTasks(ctx context.Context, conn *websocket.Conn, userID int64) error {
	tasks, err := h.services.Tasks.List(ctx, userID)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		h.log.Errorw("ws_list_tasks_failed", "err", err, "user_id", userID)
		_ = conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: errMsgInternal})
		return err
	}
	return conn.WriteJSON(wsEnvelope{Type: wsTypeTasks, Data: tasks})
}
