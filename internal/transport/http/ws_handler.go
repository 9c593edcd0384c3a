package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// writeWait bounds a single websocket write; a client that stalls past it is dropped.
const writeWait = 10 * time.Second

// WSHandler streams a leaderboard to the client on connect and again after every solve.
type WSHandler struct {
	leaderboards *app.LeaderboardService
	hub          *app.Hub
	log          *zap.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

func NewWSHandler(leaderboards *app.LeaderboardService, hub *app.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{
		leaderboards: leaderboards,
		hub:          hub,
		log:          log,
		writeTimeout: writeWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request. Query: userId (optional) locates the caller on the board,
// college (optional) switches from the daily board to that college's board.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalID(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	college := strings.TrimSpace(r.URL.Query().Get("college"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Subscribe before the first board so no solve between the two is missed.
	updates, cancel := h.hub.Subscribe()
	defer cancel()

	board := func(ctx context.Context) outboundMessage[any] {
		var (
			result domain.LeaderboardResult
			err    error
		)
		if college != "" {
			result, err = h.leaderboards.College(ctx, college, userID)
		} else {
			result, err = h.leaderboards.Daily(ctx, userID)
		}
		if err != nil {
			return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		}
		return outboundMessage[any]{Type: "leaderboard", Payload: result}
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes. A failed write closes conn so the
	// read loop below unblocks.
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				_ = conn.Close()
				return
			}
		}
	}()

	enqueue := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		case <-closeSignals:
			return false
		}
	}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
				// Collapse a burst of solves into one refresh.
				drain(updates)
				if !enqueue(board(r.Context())) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	if enqueue(board(r.Context())) {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				if _, ok := err.(*json.SyntaxError); ok {
					if enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid message"}}) {
						continue
					}
				}
				break
			}
			var msg outboundMessage[any]
			switch inbound.Type {
			case "refresh":
				msg = board(r.Context())
			default:
				msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
			}
			if !enqueue(msg) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func drain(ch <-chan domain.SolveEvent) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
