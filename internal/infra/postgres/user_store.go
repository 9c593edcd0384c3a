package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizrank-service/internal/domain"

	"github.com/uptrace/bun"
)

type UserStore struct {
	db bun.IDB
}

func NewUserStore(db bun.IDB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return row.toDomain(), nil
}

func (s *UserStore) GetCounters(ctx context.Context, userID int64) (domain.UserCounters, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return domain.UserCounters{}, err
	}
	return user.Counters, nil
}

func (s *UserStore) SaveCounters(ctx context.Context, counters domain.UserCounters) error {
	res, err := s.db.NewUpdate().
		Model((*userRow)(nil)).
		Set("current_streak = ?", counters.CurrentStreak).
		Set("total_quizzes_solved = ?", counters.TotalQuizzesSolved).
		Set("days_active = ?", counters.DaysActive).
		Where("id = ?", counters.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save counters %d: %w", counters.UserID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

func (s *UserStore) ListUsersByCollege(ctx context.Context, college string) ([]domain.User, error) {
	return s.list(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("college = ?", college)
	})
}

// CreateUser inserts a user with zeroed counters and returns it with its assigned id.
func (s *UserStore) CreateUser(ctx context.Context, name, college string) (domain.User, error) {
	row := &userRow{Name: name, College: college}
	if _, err := s.db.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return row.toDomain(), nil
}

func (s *UserStore) list(ctx context.Context, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]domain.User, error) {
	var rows []userRow
	if err := filter(s.db.NewSelect().Model(&rows)).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}
