package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"quizrank-service/internal/app"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Store implements app.Store on top of bun. Per-user serialization uses a transaction-scoped
// advisory lock keyed by the user id, so concurrent solves by one user queue up while other
// users proceed.
type Store struct {
	db *bun.DB
	repos
}

// Open connects bun to the Postgres DSN.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db, repos: newRepos(db)}
}

func (s *Store) DB() *bun.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) InUserTx(ctx context.Context, userID int64, fn func(ctx context.Context, tx app.Repositories) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", userID); err != nil {
			return fmt.Errorf("lock user %d: %w", userID, err)
		}
		return fn(ctx, newRepos(tx))
	})
}

type repos struct {
	attempts  *AttemptLedger
	users     *UserStore
	snapshots *SnapshotStore
}

func newRepos(db bun.IDB) repos {
	return repos{
		attempts:  NewAttemptLedger(db),
		users:     NewUserStore(db),
		snapshots: NewSnapshotStore(db),
	}
}

func (r repos) Attempts() app.AttemptLedger  { return r.attempts }
func (r repos) Users() app.UserStore         { return r.users }
func (r repos) Snapshots() app.SnapshotStore { return r.snapshots }

// UserStore exposes the concrete user store for provisioning users.
func (s *Store) UserStore() *UserStore { return s.users }
