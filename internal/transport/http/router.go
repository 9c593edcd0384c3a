package http

import (
	"context"
	"net/http"
	"time"

	"quizrank-service/internal/app"
	"quizrank-service/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Solves       *app.SolveService
	Leaderboards *app.LeaderboardService
	Profiles     *app.ProfileService
	Hub          *app.Hub
	Log          *zap.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	// SolveRate and SolveBurst throttle POST /api/quizzes/solve per client; zero disables it.
	SolveRate  float64
	SolveBurst int
	// TrustProxy lets the solve limiter key clients by X-Forwarded-For.
	TrustProxy bool
}

// NewRouter wires REST, websocket, health and metrics routes. Background work (limiter
// cleanup) stops when ctx is done.
func NewRouter(ctx context.Context, deps RouterDeps) *mux.Router {
	h := NewHandlers(deps.Solves, deps.Leaderboards, deps.Profiles)
	ws := NewWSHandler(deps.Leaderboards, deps.Hub, deps.Log)

	r := mux.NewRouter()
	r.Use(requestLogger(deps.Log))
	r.Use(instrument(deps.Metrics))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/ws/leaderboard", ws.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	solve := http.Handler(http.HandlerFunc(h.Solve))
	if deps.SolveRate > 0 {
		limiter := newClientLimiter(deps.SolveRate, deps.SolveBurst, deps.TrustProxy)
		go sweepLimiter(ctx, limiter)
		solve = limiter.middleware(solve)
	}
	api.Handle("/quizzes/solve", solve).Methods(http.MethodPost)
	api.HandleFunc("/quizzes/solved", h.SolvedQuizzes).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/activity", h.Activity).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/daily", h.DailyLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/college", h.CollegeLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/profile/{userId}", h.Profile).Methods(http.MethodGet)

	return r
}

func sweepLimiter(ctx context.Context, l *clientLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now, 3*time.Minute)
		}
	}
}
