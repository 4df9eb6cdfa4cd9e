package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/certquiz-backend/internal/service"
	ws "github.com/stemsi/certquiz-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams quiz sessions over WebSocket.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizSessionStream godoc
// WS /ws/v1/quiz/sessions/:id/stream
// Pushes a snapshot on every countdown tick and action, and accepts
// select/next/previous/submit/ping actions. The server closes the socket
// after sending the completed snapshot.
func (h *WSHandler) QuizSessionStream(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	updates, unsubscribe, err := h.quizService.Subscribe(sessionID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	defer unsubscribe()

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID.String()).Logger()
	wsLog.Debug().Msg("Stream connected")

	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		h.readLoop(conn, wsLog, sessionID)
	}()

	for {
		select {
		case <-clientGone:
			wsLog.Debug().Msg("Client disconnected")
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteClose("session closed")
				wsLog.Debug().Msg("Stream closed")
				return
			}
			if err := conn.WriteTyped(ws.NewSnapshotResponse(snap)); err != nil {
				wsLog.Debug().Err(err).Msg("Stream write failed")
				return
			}
		}
	}
}

// readLoop applies client actions until the connection fails. Replies
// other than errors and pongs arrive through the subscription.
func (h *WSHandler) readLoop(conn *ws.Conn, wsLog zerolog.Logger, sessionID uuid.UUID) {
	for {
		var msg ws.RequestPayload
		if err := conn.ReadPayload(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var actionErr error
		switch msg.Action {
		case ws.ActionSelect:
			_, actionErr = h.quizService.Select(sessionID, msg.Answer)
		case ws.ActionNext:
			_, actionErr = h.quizService.Next(sessionID)
		case ws.ActionPrevious:
			_, actionErr = h.quizService.Previous(sessionID)
		case ws.ActionSubmit:
			_, actionErr = h.quizService.Submit(sessionID)
		case ws.ActionPing:
			_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			continue
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = conn.WriteError("UNKNOWN_ACTION", "unknown action: "+string(msg.Action))
			continue
		}

		if actionErr != nil {
			_, code := classify(actionErr)
			_ = conn.WriteError(string(code), actionErr.Error())
		}
	}
}
