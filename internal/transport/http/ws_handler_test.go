package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
	"quizrank-service/internal/infra/memory"
	"quizrank-service/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	*httptest.Server
	solves *app.SolveService
	boards *app.LeaderboardService
	hub    *app.Hub
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, solveRate float64, solveBurst int) *testServer {
	t.Helper()
	store := memory.NewStore()
	store.PutUser(domain.User{ID: 1, Name: "Alice", College: "MIT"})
	store.PutUser(domain.User{ID: 2, Name: "Bob", College: "MIT"})
	store.PutUser(domain.User{ID: 3, Name: "Carol", College: "CMU"})

	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	cal := app.Calendar{Now: func() time.Time { return now }, Location: time.UTC}
	log := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	hub := app.NewHub()

	solves := app.NewSolveService(store, quizRepo, hub, cal, log, m)
	boards := app.NewLeaderboardService(store, cal, log, m)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	router := NewRouter(ctx, RouterDeps{
		Solves:       solves,
		Leaderboards: boards,
		Profiles:     app.NewProfileService(store, cal),
		Hub:          hub,
		Log:          log,
		Metrics:      m,
		Gatherer:     reg,
		SolveRate:    solveRate,
		SolveBurst:   solveBurst,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, solves: solves, boards: boards, hub: hub, reg: reg}
}

func TestWebSocketLeaderboardFeed(t *testing.T) {
	srv := newTestServer(t, 0, 0)

	u := "ws" + srv.URL[len("http"):] + "/ws/leaderboard?userId=2"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current board first.
	board := readBoard(t, conn)
	if len(board.Top100) != 100 {
		t.Fatalf("expected 100 entries, got %d", len(board.Top100))
	}
	if board.UserRank == nil || *board.UserRank != 2 {
		t.Fatalf("expected Bob at rank 2 on an empty board, got %v", board.UserRank)
	}

	if _, err := srv.solves.Submit(context.Background(), domain.SolveSubmission{UserID: 2, QuizID: 1, Answer: "4"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	board = readBoard(t, conn)
	if board.UserRank == nil || *board.UserRank != 1 {
		t.Fatalf("expected Bob to lead after solving, got %v", board.UserRank)
	}
	if board.UserStats == nil || board.UserStats.Score != 1 {
		t.Fatalf("expected Bob's score 1, got %+v", board.UserStats)
	}
}

func TestWebSocketCollegeBoardAndRefresh(t *testing.T) {
	srv := newTestServer(t, 0, 0)

	u := "ws" + srv.URL[len("http"):] + "/ws/leaderboard?college=CMU&userId=3"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	board := readBoard(t, conn)
	if board.UserRank == nil || *board.UserRank != 1 {
		t.Fatalf("expected Carol alone at rank 1, got %v", board.UserRank)
	}
	if !board.Top100[1].IsPlaceholder() {
		t.Fatalf("expected placeholder after the only CMU user, got %+v", board.Top100[1])
	}

	if err := conn.WriteJSON(map[string]any{"type": "refresh"}); err != nil {
		t.Fatalf("write refresh: %v", err)
	}
	_ = readBoard(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": "answer"}); err != nil {
		t.Fatalf("write unsupported: %v", err)
	}
	typ, _ := readNext(t, conn)
	if typ != "error" {
		t.Fatalf("expected error for unsupported message, got %s", typ)
	}
}

func TestWebSocketDropsClientWhenWriteTimesOut(t *testing.T) {
	srv := newTestServer(t, 0, 0)

	ws := NewWSHandler(srv.boards, srv.hub, zaptest.NewLogger(t))
	// Every write is already past its deadline, as for a client that stopped reading.
	ws.writeTimeout = -time.Second
	stalled := httptest.NewServer(http.HandlerFunc(ws.ServeWS))
	defer stalled.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+stalled.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected the server to drop the connection, got %v", msg)
	}

	deadline := time.Now().Add(5 * time.Second)
	for srv.hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("handler still subscribed after failed write: %d subscribers", srv.hub.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readBoard(t *testing.T, conn *websocket.Conn) domain.LeaderboardResult {
	t.Helper()
	typ, payload := readNext(t, conn)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard, got %s: %s", typ, payload)
	}
	var board domain.LeaderboardResult
	if err := json.Unmarshal(payload, &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	return board
}

func readNext(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func sampleQuizzes() map[int64]domain.Quiz {
	return map[int64]domain.Quiz{
		1: {
			ID:            1,
			Topic:         "math",
			Question:      "What is 2 + 2?",
			Options:       []string{"3", "4", "5"},
			CorrectAnswer: "4",
			Explanation:   "2 + 2 = 4",
		},
		2: {
			ID:            2,
			Topic:         "math",
			Question:      "What is 3 * 3?",
			Options:       []string{"6", "9", "12"},
			CorrectAnswer: "9",
			Explanation:   "3 * 3 = 9",
		},
	}
}
