package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quizrank-service/internal/domain"
	"quizrank-service/internal/metrics"
	"quizrank-service/internal/ranking"

	"go.uber.org/zap"
)

// LeaderboardService serves the daily and per-college boards. It only reads, so a board
// built concurrently with a solve may show the score from just before it.
type LeaderboardService struct {
	repos   Repositories
	cal     Calendar
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewLeaderboardService(repos Repositories, cal Calendar, log *zap.Logger, m *metrics.Metrics) *LeaderboardService {
	return &LeaderboardService{repos: repos, cal: cal, log: log, metrics: m}
}

// Daily ranks every user; entries are stamped with today's date.
func (s *LeaderboardService) Daily(ctx context.Context, userID int64) (domain.LeaderboardResult, error) {
	defer s.observe("daily", time.Now())

	today := s.cal.Today()
	users, err := s.repos.Users().ListUsers(ctx)
	if err != nil {
		return domain.LeaderboardResult{}, fmt.Errorf("list users: %w", err)
	}
	rows, err := s.repos.Snapshots().FindByDate(ctx, today)
	if err != nil {
		return domain.LeaderboardResult{}, fmt.Errorf("find snapshots for %s: %w", today, err)
	}
	return ranking.Build(users, ranking.LatestByUser(rows), today, userID), nil
}

// College ranks the users of one college; entries carry the date of their latest snapshot.
func (s *LeaderboardService) College(ctx context.Context, college string, userID int64) (domain.LeaderboardResult, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return domain.LeaderboardResult{}, fmt.Errorf("%w: college is required", domain.ErrInvalidArgument)
	}
	defer s.observe("college", time.Now())

	users, err := s.repos.Users().ListUsersByCollege(ctx, college)
	if err != nil {
		return domain.LeaderboardResult{}, fmt.Errorf("list users of %q: %w", college, err)
	}
	rows, err := s.repos.Snapshots().FindByCollege(ctx, college)
	if err != nil {
		return domain.LeaderboardResult{}, fmt.Errorf("find snapshots of %q: %w", college, err)
	}
	return ranking.Build(users, ranking.LatestByUser(rows), domain.Date{}, userID), nil
}

// SnapshotDaily persists today's score for every ranked user and returns how many rows were saved.
func (s *LeaderboardService) SnapshotDaily(ctx context.Context) (int, error) {
	board, err := s.Daily(ctx, 0)
	if err != nil {
		return 0, err
	}

	today := s.cal.Today()
	saved := 0
	for _, entry := range board.Top100 {
		if entry.IsPlaceholder() {
			continue
		}
		row := domain.LeaderboardSnapshotRow{
			Date:    today,
			UserID:  *entry.UserID,
			Score:   entry.Score,
			College: entry.College,
		}
		if err := s.repos.Snapshots().Save(ctx, row); err != nil {
			return saved, fmt.Errorf("save snapshot for user %d: %w", row.UserID, err)
		}
		saved++
	}
	s.log.Info("daily leaderboard snapshot saved", zap.Stringer("date", today), zap.Int("rows", saved))
	return saved, nil
}

func (s *LeaderboardService) observe(scope string, start time.Time) {
	s.metrics.LeaderboardBuilds.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
