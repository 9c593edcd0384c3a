package app

import (
	"context"
	"errors"
	"fmt"

	"quizrank-service/internal/domain"
	"quizrank-service/internal/metrics"

	"go.uber.org/zap"
)

// SolveService records quiz answers and keeps streak counters in step with the ledger.
type SolveService struct {
	store   Store
	quizzes QuizRepository
	streaks *StreakUpdater
	events  EventPublisher
	cal     Calendar
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewSolveService(store Store, quizzes QuizRepository, events EventPublisher, cal Calendar, log *zap.Logger, m *metrics.Metrics) *SolveService {
	return &SolveService{
		store:   store,
		quizzes: quizzes,
		streaks: NewStreakUpdater(cal, log, m),
		events:  events,
		cal:     cal,
		log:     log,
		metrics: m,
	}
}

// Submit judges an answer and records it. The attempt write and the counter update commit
// together; a quiz that is already solved is never re-counted.
func (s *SolveService) Submit(ctx context.Context, sub domain.SolveSubmission) (domain.SolveResult, error) {
	if sub.UserID <= 0 || sub.QuizID <= 0 {
		return domain.SolveResult{}, fmt.Errorf("%w: userId and quizId are required", domain.ErrInvalidArgument)
	}

	quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return domain.SolveResult{}, err
	}

	now := s.cal.Now()
	today := domain.DateOf(now, s.cal.Location)
	correct := quiz.IsCorrect(sub.Answer)

	result := domain.SolveResult{QuizID: quiz.ID, Correct: correct}
	if correct {
		result.Explanation = quiz.Explanation
	}

	err = s.store.InUserTx(ctx, sub.UserID, func(ctx context.Context, tx Repositories) error {
		attempts, err := tx.Attempts().FindAttemptsByUser(ctx, sub.UserID)
		if err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}
		// A solved attempt is final: later submissions, right or wrong, never rewrite it.
		if prev, ok := findAttempt(attempts, sub.QuizID); ok && prev.Solved {
			result.AlreadySolved = true
			return nil
		}

		score := 0
		if correct {
			score = 1
		}
		attemptedAt := now
		written, err := tx.Attempts().UpsertAttempt(ctx, domain.Attempt{
			UserID:      sub.UserID,
			QuizID:      sub.QuizID,
			Solved:      correct,
			AttemptedAt: &attemptedAt,
			Score:       &score,
		})
		if err != nil {
			return fmt.Errorf("upsert attempt: %w", err)
		}
		if !correct {
			return nil
		}

		counters, ok, err := s.streaks.RecordSolve(ctx, tx, written, today)
		if err != nil {
			return err
		}
		if ok {
			result.Counters = &counters
		}
		return nil
	})
	if err != nil {
		return domain.SolveResult{}, err
	}

	s.metrics.Solves.WithLabelValues(solveLabel(result)).Inc()
	if result.Counters != nil {
		event := domain.SolveEvent{UserID: sub.UserID, QuizID: sub.QuizID, SolvedAt: now}
		if err := s.events.Publish(ctx, event); err != nil {
			// the solve is committed; live subscribers just miss one refresh
			s.log.Warn("publish solve event", zap.Int64("userId", sub.UserID), zap.Error(err))
		}
	}
	return result, nil
}

// SolvedQuizzes lists the quizzes a user has solved, in ledger order.
func (s *SolveService) SolvedQuizzes(ctx context.Context, userID int64) ([]domain.SolvedQuiz, error) {
	attempts, err := s.store.Attempts().FindAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	solved := make([]domain.SolvedQuiz, 0, len(attempts))
	for _, a := range attempts {
		if !a.Solved {
			continue
		}
		quiz, err := s.quizzes.GetQuiz(ctx, a.QuizID)
		if errors.Is(err, domain.ErrQuizNotFound) {
			return nil, fmt.Errorf("%w: attempt %d references missing quiz %d", domain.ErrInconsistentState, a.ID, a.QuizID)
		}
		if err != nil {
			return nil, err
		}
		solved = append(solved, domain.SolvedQuiz{Quiz: quiz, AttemptedAt: a.AttemptedAt})
	}
	return solved, nil
}

func findAttempt(attempts []domain.Attempt, quizID int64) (domain.Attempt, bool) {
	for _, a := range attempts {
		if a.QuizID == quizID {
			return a, true
		}
	}
	return domain.Attempt{}, false
}

func solveLabel(r domain.SolveResult) string {
	switch {
	case r.AlreadySolved:
		return "repeat"
	case r.Correct:
		return "correct"
	default:
		return "wrong"
	}
}
