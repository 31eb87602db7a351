package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/pkg/config"
	"easyrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventInit = "init"
	eventPing = "ping"

	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 4 * 1024
)

type NotificationHandler struct {
	q         queries.NotificationQueries
	sub       queries.NotificationSubscriber
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

func NewNotificationHandler(q queries.NotificationQueries, sub queries.NotificationSubscriber, cfg config.Config) *NotificationHandler {
	heartbeat := cfg.Notification.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	origins := cfg.CORS.AllowOrigins
	return &NotificationHandler{
		q:         q,
		sub:       sub,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin
				return origin == "" || slices.Contains(origins, origin)
			},
		},
	}
}

// @Summary List notifications
// @Description Newest first, capped at the feed limit
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Success 200 {array} resdto.NotificationResponse
// @Failure 400 {object} httperr.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		iv, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err, "Invalid limit")
			return
		}
		limit = iv
	}

	views, err := h.q.Recent(c.Request.Context(), actor.UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromNotificationViews(views))
}

// @Summary Notification stream (SSE)
// @Description Sends an init event with the latest notifications, then one event per notification named after it, plus ping heartbeats
// @Tags notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// Subscribe before reading the backlog so nothing published in between is lost
	sub, err := h.sub.Subscribe(ctx, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeSubscription(sub)

	recent, err := h.q.Recent(ctx, actor.UserID, h.q.FeedLimit())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(eventInit, resdto.FromNotificationViews(recent))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case n, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(n.Event, resdto.FromNotificationView(n))
			return true
		case t := <-ticker.C:
			c.SSEvent(eventPing, gin.H{"time": t.UTC()})
			return true
		}
	})
}

// @Summary Notification feed (WebSocket)
// @Description JSON frames {event, data}. The first frame is init, then one frame per notification. The token may be passed as ?token=.
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "Access token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} httperr.Response
// @Router /notifications/ws [get]
func (h *NotificationHandler) WebSocket(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	// The request context is detached from the hijacked connection; the read
	// loop owns cancellation from here on.
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	sub, err := h.sub.Subscribe(ctx, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeSubscription(sub)

	recent, err := h.q.Recent(ctx, actor.UserID, h.q.FeedLimit())
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied
		slog.Warn("websocket upgrade failed", slog.String("ip", c.ClientIP()), slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("websocket client connected", slog.String("user_id", actor.UserID.String()))

	go h.readLoop(conn, cancel)

	if err := writeFrame(conn, eventInit, resdto.FromNotificationViews(recent)); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteWait))
				return
			}
			if err := writeFrame(conn, n.Event, resdto.FromNotificationView(n)); err != nil {
				slog.Debug("websocket write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close messages are processed.
func (h *NotificationHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 2*h.heartbeat + wsWriteWait
	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, event string, data any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(resdto.Frame{Event: event, Data: data})
}

func closeSubscription(sub queries.Subscription) {
	if err := sub.Close(); err != nil {
		slog.Warn("failed to close notification subscription", slog.Any("error", err))
	}
}
