package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"booksapi/db/migrations"
)

// MigrationStatus is one row of `migrate -command status`.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func (c *Conn) migrationProvider() (*goose.Provider, error) {
	var dialect goose.Dialect
	switch c.Driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("no migrations for driver %q", c.Driver)
	}
	fsys, err := fs.Sub(migrations.FS, c.Driver)
	if err != nil {
		return nil, fmt.Errorf("opening %s migrations: %w", c.Driver, err)
	}
	return goose.NewProvider(dialect, c.DB, fsys)
}

// Migrate applies every pending migration and returns the versions it applied.
func (c *Conn) Migrate(ctx context.Context) ([]int64, error) {
	provider, err := c.migrationProvider()
	if err != nil {
		return nil, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, res := range results {
		applied = append(applied, res.Source.Version)
	}
	return applied, nil
}

// Rollback reverts the most recent migration and returns its version.
func (c *Conn) Rollback(ctx context.Context) (int64, error) {
	provider, err := c.migrationProvider()
	if err != nil {
		return 0, err
	}
	res, err := provider.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("rolling back migration: %w", err)
	}
	return res.Source.Version, nil
}

// MigrationStatus lists every known migration and whether it is applied.
func (c *Conn) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	provider, err := c.migrationProvider()
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return out, nil
}
