package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaStep is one numbered SQL file from the migrations directory.
type schemaStep struct {
	version int
	name    string
	sql     string
}

func (s schemaStep) String() string {
	return fmt.Sprintf("%03d_%s", s.version, s.name)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	return migrate(ctx, db, sub)
}

// migrate applies every step in fsys that schema_migrations does not list
// yet, in version order, inside a single transaction.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	steps, err := readSchemaSteps(fsys)
	if err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending := slices.DeleteFunc(steps, func(s schemaStep) bool { return applied[s.version] })
	if len(pending) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range pending {
		if _, err := tx.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", s, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, s.version, s.name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", s, err)
		}
	}

	return tx.Commit()
}

func readSchemaSteps(fsys fs.FS) ([]schemaStep, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}

	steps := make([]schemaStep, 0, len(names))
	for _, filename := range names {
		version, name, err := parseMigrationFilename(filename)
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}
		steps = append(steps, schemaStep{version: version, name: name, sql: string(content)})
	}

	slices.SortFunc(steps, func(a, b schemaStep) int { return a.version - b.version })
	for i := 1; i < len(steps); i++ {
		if steps[i].version == steps[i-1].version {
			return nil, fmt.Errorf("duplicate migration version: %d", steps[i].version)
		}
	}

	return steps, nil
}

// parseMigrationFilename splits "001_create_slots.sql" into 1 and "create_slots".
func parseMigrationFilename(filename string) (int, string, error) {
	prefix, name, ok := strings.Cut(strings.TrimSuffix(filename, path.Ext(filename)), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid migration version in %q: %w", filename, err)
	}

	return version, name, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions[version] = true
	}

	return versions, rows.Err()
}
