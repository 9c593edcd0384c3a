package memory

import (
	"context"
	"sync"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
)

// Store is an in-memory implementation of app.Store. Units of work are serialized per user
// with a mutex; there is no rollback, which is fine because nothing after the last write can fail.
type Store struct {
	attempts  *AttemptLedger
	users     *UserStore
	snapshots *SnapshotStore

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		attempts:  NewAttemptLedger(),
		users:     NewUserStore(),
		snapshots: NewSnapshotStore(),
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *Store) Attempts() app.AttemptLedger  { return s.attempts }
func (s *Store) Users() app.UserStore         { return s.users }
func (s *Store) Snapshots() app.SnapshotStore { return s.snapshots }

// PutUser seeds or replaces a user.
func (s *Store) PutUser(u domain.User) {
	s.users.Put(u)
}

func (s *Store) InUserTx(ctx context.Context, userID int64, fn func(ctx context.Context, tx app.Repositories) error) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx, s)
}

func (s *Store) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[userID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[userID] = lock
	return lock
}
