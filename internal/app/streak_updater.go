package app

import (
	"context"
	"errors"
	"fmt"

	"quizrank-service/internal/domain"
	"quizrank-service/internal/metrics"
	"quizrank-service/internal/ranking"

	"go.uber.org/zap"
)

// StreakUpdater applies ranking.RecordSolve against persisted counters.
type StreakUpdater struct {
	cal     Calendar
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewStreakUpdater(cal Calendar, log *zap.Logger, m *metrics.Metrics) *StreakUpdater {
	return &StreakUpdater{cal: cal, log: log, metrics: m}
}

// RecordSolve must run inside Store.InUserTx for current.UserID. It re-reads the ledger
// through tx so that solves committed by earlier transactions are visible.
// A missing user is not an error: ok is false and nothing is written.
func (u *StreakUpdater) RecordSolve(ctx context.Context, tx Repositories, current domain.Attempt, today domain.Date) (counters domain.UserCounters, ok bool, err error) {
	counters, err = tx.Users().GetCounters(ctx, current.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		u.log.Warn("solve recorded for unknown user, counters skipped",
			zap.Int64("userId", current.UserID), zap.Int64("quizId", current.QuizID))
		return domain.UserCounters{}, false, nil
	}
	if err != nil {
		return domain.UserCounters{}, false, fmt.Errorf("load counters: %w", err)
	}

	attempts, err := tx.Attempts().FindAttemptsByUser(ctx, current.UserID)
	if err != nil {
		return domain.UserCounters{}, false, fmt.Errorf("load attempts: %w", err)
	}

	next, outcome := ranking.RecordSolve(counters, attempts, current.ID, today, u.cal.Location)
	if err := tx.Users().SaveCounters(ctx, next); err != nil {
		return domain.UserCounters{}, false, fmt.Errorf("save counters: %w", err)
	}

	u.metrics.StreakOutcomes.WithLabelValues(string(outcome)).Inc()
	u.log.Debug("streak updated",
		zap.Int64("userId", next.UserID),
		zap.String("outcome", string(outcome)),
		zap.Int("currentStreak", next.CurrentStreak),
		zap.Int("daysActive", next.DaysActive),
		zap.Int("totalQuizzesSolved", next.TotalQuizzesSolved))
	return next, true, nil
}
