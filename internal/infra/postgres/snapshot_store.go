package postgres

import (
	"context"
	"fmt"

	"quizrank-service/internal/domain"

	"github.com/uptrace/bun"
)

type SnapshotStore struct {
	db bun.IDB
}

func NewSnapshotStore(db bun.IDB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) FindByDate(ctx context.Context, date domain.Date) ([]domain.LeaderboardSnapshotRow, error) {
	return s.find(ctx, "date = ?::date", date.String())
}

func (s *SnapshotStore) FindByCollege(ctx context.Context, college string) ([]domain.LeaderboardSnapshotRow, error) {
	return s.find(ctx, "college = ?", college)
}

func (s *SnapshotStore) Save(ctx context.Context, row domain.LeaderboardSnapshotRow) error {
	model := snapshotRowFrom(row)
	model.ID = 0
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (date, user_id) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("college = EXCLUDED.college").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) find(ctx context.Context, where string, arg interface{}) ([]domain.LeaderboardSnapshotRow, error) {
	var rows []snapshotRow
	if err := s.db.NewSelect().Model(&rows).Where(where, arg).Order("date ASC", "id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}
	out := make([]domain.LeaderboardSnapshotRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
