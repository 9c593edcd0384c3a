package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	Solves            *prometheus.CounterVec
	StreakOutcomes    *prometheus.CounterVec
	LeaderboardBuilds *prometheus.HistogramVec
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New registers collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_solve_submissions_total",
			Help: "Solve submissions by result",
		}, []string{"result"}),
		StreakOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_streak_updates_total",
			Help: "Streak updates by outcome",
		}, []string{"outcome"}),
		LeaderboardBuilds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leaderboard_build_duration_seconds",
			Help:    "Time spent reading and ranking a leaderboard",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"scope"}),
		RequestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		}, []string{"method", "endpoint"}),
	}
}
