package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all registry migrations
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					username VARCHAR(255) NOT NULL,
					role VARCHAR(50) NOT NULL DEFAULT 'user',
					hashed_password TEXT NOT NULL,
					must_change_password BOOLEAN NOT NULL DEFAULT FALSE,
					join_date TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_unique ON users(username);
			`,
		},
		{
			Version:     2,
			Description: "Create organizations and organization_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS organizations (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					image TEXT NOT NULL DEFAULT '',
					owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_organizations_name_unique ON organizations(name);
				CREATE INDEX IF NOT EXISTS idx_organizations_owner_id ON organizations(owner_id);

				CREATE TABLE IF NOT EXISTS organization_members (
					organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					PRIMARY KEY (organization_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_organization_members_user_id ON organization_members(user_id);
			`,
		},
		{
			Version:     3,
			Description: "Create teams and team_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS teams (
					id BIGSERIAL PRIMARY KEY,
					organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
					name VARCHAR(255) NOT NULL,
					description TEXT NOT NULL DEFAULT ''
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_org_name_unique ON teams(organization_id, name);
				CREATE INDEX IF NOT EXISTS idx_teams_organization_id ON teams(organization_id);

				CREATE TABLE IF NOT EXISTS team_members (
					team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					PRIMARY KEY (team_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id);
			`,
		},
		{
			Version:     4,
			Description: "Create repositories table",
			SQL: `
				CREATE TABLE IF NOT EXISTS repositories (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					canonical_name VARCHAR(512) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					public BOOLEAN NOT NULL DEFAULT TRUE,
					owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
					organization_id BIGINT REFERENCES organizations(id) ON DELETE CASCADE,
					badge VARCHAR(50) NOT NULL DEFAULT 'none'
				);

				CREATE UNIQUE INDEX IF NOT EXISTS idx_repositories_canonical_name_unique ON repositories(canonical_name);
				CREATE INDEX IF NOT EXISTS idx_repositories_owner_id ON repositories(owner_id);
				CREATE INDEX IF NOT EXISTS idx_repositories_organization_id ON repositories(organization_id);
			`,
		},
		{
			Version:     5,
			Description: "Create team_permissions table",
			SQL: `
				CREATE TABLE IF NOT EXISTS team_permissions (
					team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					repository_id BIGINT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
					kind VARCHAR(50) NOT NULL,
					PRIMARY KEY (team_id, repository_id)
				);

				CREATE INDEX IF NOT EXISTS idx_team_permissions_repository_id ON team_permissions(repository_id);
			`,
		},
	}
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	// Create migration tracking table
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registry_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	rows, err := db.QueryContext(ctx, "SELECT version FROM registry_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}

	appliedVersions := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		appliedVersions[version] = true
	}
	rows.Close()

	// Run pending migrations
	for _, migration := range GetMigrations() {
		if appliedVersions[migration.Version] {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO registry_migrations (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
