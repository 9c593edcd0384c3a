package app

import (
	"context"
	"time"

	"quizrank-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
}

// AttemptLedger stores one attempt per (user, quiz).
type AttemptLedger interface {
	FindAttemptsByUser(ctx context.Context, userID int64) ([]domain.Attempt, error)
	// UpsertAttempt creates or overwrites the attempt keyed by (UserID, QuizID) and returns it with its ID.
	UpsertAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
}

// UserStore reads users and persists their activity counters.
// Missing users are reported as domain.ErrUserNotFound.
type UserStore interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	GetCounters(ctx context.Context, userID int64) (domain.UserCounters, error)
	SaveCounters(ctx context.Context, counters domain.UserCounters) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByCollege(ctx context.Context, college string) ([]domain.User, error)
}

// SnapshotStore persists daily leaderboard rows.
type SnapshotStore interface {
	FindByDate(ctx context.Context, date domain.Date) ([]domain.LeaderboardSnapshotRow, error)
	FindByCollege(ctx context.Context, college string) ([]domain.LeaderboardSnapshotRow, error)
	// Save upserts the row keyed by (Date, UserID).
	Save(ctx context.Context, row domain.LeaderboardSnapshotRow) error
}

// Repositories bundles the stores the use cases read and write.
type Repositories interface {
	Attempts() AttemptLedger
	Users() UserStore
	Snapshots() SnapshotStore
}

// Store is the persistence boundary. InUserTx runs fn atomically and serialized against any
// other InUserTx for the same user; repositories passed to fn are bound to that unit of work.
type Store interface {
	Repositories
	InUserTx(ctx context.Context, userID int64, fn func(ctx context.Context, tx Repositories) error) error
}

// EventPublisher fans out solve events to live leaderboard subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SolveEvent) error
}

// Calendar fixes the clock and the timezone used to turn instants into calendar dates.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalendar returns a wall-clock calendar in loc.
func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Now: time.Now, Location: loc}
}

// Today is the current calendar date in the calendar's location.
func (c Calendar) Today() domain.Date {
	return domain.DateOf(c.Now(), c.Location)
}
