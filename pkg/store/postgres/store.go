package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/mockerhub/registry/pkg/config"
	"github.com/mockerhub/registry/pkg/store"
)

// Store implements store.Store on a PostgreSQL database.
type Store struct {
	db    *sql.DB
	users *UserStore
	orgs  *OrgStore
	teams *TeamStore
	repos *RepoStore
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.PostgresMaxConns)
	db.SetMaxIdleConns(cfg.PostgresMinConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// New creates a Store on an open database handle.
func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		users: &UserStore{db: db},
		orgs:  &OrgStore{db: db},
		teams: &TeamStore{db: db},
		repos: &RepoStore{db: db},
	}
}

// Users returns the user store.
func (s *Store) Users() store.Users { return s.users }

// Orgs returns the organization store.
func (s *Store) Orgs() store.Orgs { return s.orgs }

// Teams returns the team store.
func (s *Store) Teams() store.Teams { return s.teams }

// Repos returns the repository store.
func (s *Store) Repos() store.Repos { return s.repos }

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
