package memory

import (
	"context"
	"sort"
	"sync"

	"quizrank-service/internal/domain"
)

// UserStore is an in-memory user table.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]domain.User)}
}

// Put seeds or replaces a user; its counters are re-keyed to the user's id.
func (s *UserStore) Put(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Counters.UserID = u.ID
	s.users[u.ID] = u
}

func (s *UserStore) GetUser(_ context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) GetCounters(ctx context.Context, userID int64) (domain.UserCounters, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return domain.UserCounters{}, err
	}
	return u.Counters, nil
}

func (s *UserStore) SaveCounters(_ context.Context, counters domain.UserCounters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[counters.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Counters = counters
	s.users[counters.UserID] = u
	return nil
}

func (s *UserStore) ListUsers(_ context.Context) ([]domain.User, error) {
	return s.list(func(domain.User) bool { return true }), nil
}

func (s *UserStore) ListUsersByCollege(_ context.Context, college string) ([]domain.User, error) {
	return s.list(func(u domain.User) bool { return u.College == college }), nil
}

func (s *UserStore) list(keep func(domain.User) bool) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
