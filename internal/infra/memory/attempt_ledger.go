package memory

import (
	"context"
	"sort"
	"sync"

	"quizrank-service/internal/domain"
)

type attemptKey struct {
	userID int64
	quizID int64
}

// AttemptLedger keeps one attempt per (user, quiz) in memory.
type AttemptLedger struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[attemptKey]int64
	rows   map[int64]domain.Attempt
}

func NewAttemptLedger() *AttemptLedger {
	return &AttemptLedger{
		byKey: make(map[attemptKey]int64),
		rows:  make(map[int64]domain.Attempt),
	}
}

func (l *AttemptLedger) FindAttemptsByUser(_ context.Context, userID int64) ([]domain.Attempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Attempt, 0)
	for _, a := range l.rows {
		if a.UserID == userID {
			out = append(out, cloneAttempt(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *AttemptLedger) UpsertAttempt(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := attemptKey{userID: attempt.UserID, quizID: attempt.QuizID}
	id, ok := l.byKey[key]
	if !ok {
		l.nextID++
		id = l.nextID
		l.byKey[key] = id
	}
	attempt.ID = id
	stored := cloneAttempt(attempt)
	l.rows[id] = stored
	return cloneAttempt(stored), nil
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	if a.AttemptedAt != nil {
		t := *a.AttemptedAt
		a.AttemptedAt = &t
	}
	if a.Score != nil {
		s := *a.Score
		a.Score = &s
	}
	return a
}

