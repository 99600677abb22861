package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/game"
	"github.com/iamasit07/4-in-a-row/engine/pkg/auth"
	"github.com/iamasit07/4-in-a-row/engine/pkg/httputil"
	"github.com/iamasit07/4-in-a-row/engine/pkg/uid"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	Service     *game.Service
	JWTSecret   string
	Upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, svc *game.Service, jwtSecret string, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager: cm,
		Service:     svc,
		JWTSecret:   jwtSecret,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket authenticates the upgrade request and serves the socket
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if h.JWTSecret != "" {
		token, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			token = c.Query("token")
		}
		if _, err := auth.ValidateServiceToken(h.JWTSecret, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	id, err := uid.GenerateConnectionID()
	if err != nil {
		log.Printf("[WS] %v", err)
		conn.Close()
		return
	}
	h.handleConnection(newClient(id, conn))
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(client *Client) {
	conn := client.conn
	h.ConnManager.AddConnection(client)
	log.Printf("[WS] Connection %s opened", client.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		h.ConnManager.RemoveConnection(client.ID)
		log.Printf("[WS] Connection %s closed", client.ID)
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				client.writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
				client.writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// Main Message Loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Connection %s dropped unexpectedly: %v", client.ID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			client.Send(domain.ServerMessage{Type: domain.MsgError, Code: "bad_request", Message: "Invalid message format"})
			continue
		}

		h.processMessage(ctx, client, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(ctx context.Context, client *Client, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgComputeMove:
		h.computeMove(ctx, client, msg)

	case domain.MsgCancel:
		if !client.cancel(msg.RequestID) {
			client.Send(domain.ServerMessage{Type: domain.MsgError, RequestID: msg.RequestID, Code: "unknown_request", Message: "No search in flight with this id"})
		}

	case domain.MsgPing:
		client.Send(domain.ServerMessage{Type: domain.MsgPong, RequestID: msg.RequestID})

	default:
		client.Send(domain.ServerMessage{Type: domain.MsgError, RequestID: msg.RequestID, Code: "bad_request", Message: "Unknown message type"})
	}
}

// computeMove answers asynchronously so a long search does not block
// cancel messages. A cancelled search still replies with the best move
// found so far.
func (h *Handler) computeMove(ctx context.Context, client *Client, msg domain.ClientMessage) {
	requestID := msg.RequestID
	if requestID == "" {
		requestID = uid.NewRequestID()
	}

	difficulty, err := domain.ParseDifficulty(msg.Difficulty)
	if err != nil {
		sendError(client, requestID, err)
		return
	}

	searchCtx, cancel := context.WithCancel(ctx)
	if err := client.track(requestID, cancel); err != nil {
		cancel()
		code := "duplicate_request"
		if errors.Is(err, errTooManySearches) {
			code = "busy"
		}
		client.Send(domain.ServerMessage{Type: domain.MsgError, RequestID: requestID, Code: code, Message: err.Error()})
		return
	}

	req := bot.Request{
		Moves:        msg.Moves,
		Difficulty:   difficulty,
		Rows:         orDefault(msg.Rows, domain.DefaultRows),
		Columns:      orDefault(msg.Columns, domain.DefaultColumns),
		WinCondition: orDefault(msg.WinCondition, domain.DefaultWinCondition),
		Seed:         msg.Seed,
	}

	go func() {
		defer client.untrack(requestID)

		result, err := h.Service.ComputeMove(searchCtx, req)
		if ctx.Err() != nil {
			return // connection gone
		}
		if err != nil {
			sendError(client, requestID, err)
			return
		}

		column := result.Column
		client.Send(domain.ServerMessage{
			Type:      domain.MsgBotMove,
			RequestID: requestID,
			Column:    &column,
			BotName:   result.BotName,
			Score:     result.Score,
			Depth:     result.Depth,
			Nodes:     result.Nodes,
			Cached:    result.Cached,
		})
	}()
}

func sendError(client *Client, requestID string, err error) {
	client.Send(domain.ServerMessage{
		Type:      domain.MsgError,
		RequestID: requestID,
		Code:      domain.ErrorCode(err),
		Message:   err.Error(),
	})
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
