package postgres

import (
	"time"

	"quizrank-service/internal/domain"

	"github.com/uptrace/bun"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	Name               string `bun:"name,notnull"`
	College            string `bun:"college,notnull"`
	CurrentStreak      int    `bun:"current_streak,notnull"`
	TotalQuizzesSolved int    `bun:"total_quizzes_solved,notnull"`
	DaysActive         int    `bun:"days_active,notnull"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:      r.ID,
		Name:    r.Name,
		College: r.College,
		Counters: domain.UserCounters{
			UserID:             r.ID,
			CurrentStreak:      r.CurrentStreak,
			TotalQuizzesSolved: r.TotalQuizzesSolved,
			DaysActive:         r.DaysActive,
		},
	}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:user_quiz_attempts,alias:a"`

	ID          int64      `bun:"id,pk,autoincrement"`
	UserID      int64      `bun:"user_id,notnull"`
	QuizID      int64      `bun:"quiz_id,notnull"`
	Solved      bool       `bun:"solved,notnull"`
	AttemptedAt *time.Time `bun:"attempted_at"`
	Score       *int       `bun:"score"`
}

func attemptRowFrom(a domain.Attempt) *attemptRow {
	return &attemptRow{
		ID:          a.ID,
		UserID:      a.UserID,
		QuizID:      a.QuizID,
		Solved:      a.Solved,
		AttemptedAt: a.AttemptedAt,
		Score:       a.Score,
	}
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:          r.ID,
		UserID:      r.UserID,
		QuizID:      r.QuizID,
		Solved:      r.Solved,
		AttemptedAt: r.AttemptedAt,
		Score:       r.Score,
	}
}

type snapshotRow struct {
	bun.BaseModel `bun:"table:leaderboards,alias:l"`

	ID      int64     `bun:"id,pk,autoincrement"`
	Date    time.Time `bun:"date,type:date,notnull"`
	UserID  int64     `bun:"user_id,notnull"`
	Score   int       `bun:"score,notnull"`
	College string    `bun:"college,notnull"`
}

func snapshotRowFrom(s domain.LeaderboardSnapshotRow) *snapshotRow {
	return &snapshotRow{
		ID:      s.ID,
		Date:    s.Date.Time(),
		UserID:  s.UserID,
		Score:   s.Score,
		College: s.College,
	}
}

// Postgres date columns come back as midnight UTC.
func (r snapshotRow) toDomain() domain.LeaderboardSnapshotRow {
	return domain.LeaderboardSnapshotRow{
		ID:      r.ID,
		Date:    domain.DateOf(r.Date, time.UTC),
		UserID:  r.UserID,
		Score:   r.Score,
		College: r.College,
	}
}
