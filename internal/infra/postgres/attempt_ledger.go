package postgres

import (
	"context"
	"fmt"

	"quizrank-service/internal/domain"

	"github.com/uptrace/bun"
)

type AttemptLedger struct {
	db bun.IDB
}

func NewAttemptLedger(db bun.IDB) *AttemptLedger {
	return &AttemptLedger{db: db}
}

func (l *AttemptLedger) FindAttemptsByUser(ctx context.Context, userID int64) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := l.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("find attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toDomain())
	}
	return attempts, nil
}

func (l *AttemptLedger) UpsertAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	row := attemptRowFrom(attempt)
	row.ID = 0
	_, err := l.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, quiz_id) DO UPDATE").
		Set("solved = EXCLUDED.solved").
		Set("attempted_at = EXCLUDED.attempted_at").
		Set("score = EXCLUDED.score").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("upsert attempt: %w", err)
	}
	return row.toDomain(), nil
}
