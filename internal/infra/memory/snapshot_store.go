package memory

import (
	"context"
	"sort"
	"sync"

	"quizrank-service/internal/domain"
)

type snapshotKey struct {
	date   domain.Date
	userID int64
}

// SnapshotStore keeps leaderboard snapshot rows, one per (date, user).
type SnapshotStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[snapshotKey]domain.LeaderboardSnapshotRow
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{rows: make(map[snapshotKey]domain.LeaderboardSnapshotRow)}
}

func (s *SnapshotStore) FindByDate(_ context.Context, date domain.Date) ([]domain.LeaderboardSnapshotRow, error) {
	return s.find(func(r domain.LeaderboardSnapshotRow) bool { return r.Date == date }), nil
}

func (s *SnapshotStore) FindByCollege(_ context.Context, college string) ([]domain.LeaderboardSnapshotRow, error) {
	return s.find(func(r domain.LeaderboardSnapshotRow) bool { return r.College == college }), nil
}

func (s *SnapshotStore) Save(_ context.Context, row domain.LeaderboardSnapshotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := snapshotKey{date: row.Date, userID: row.UserID}
	if prev, ok := s.rows[key]; ok {
		row.ID = prev.ID
	} else {
		s.nextID++
		row.ID = s.nextID
	}
	s.rows[key] = row
	return nil
}

func (s *SnapshotStore) find(keep func(domain.LeaderboardSnapshotRow) bool) []domain.LeaderboardSnapshotRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LeaderboardSnapshotRow, 0)
	for _, r := range s.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
