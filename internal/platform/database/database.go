// Package database opens the relational store behind the catalog and applies its migrations.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const pingTimeout = 2 * time.Second

// Conn is an open store connection. Pool is only set for Postgres;
// DB is always set so goose and the SQLite repository can share it.
type Conn struct {
	Driver string
	Pool   *pgxpool.Pool
	DB     *sql.DB
}

// Open connects to the store selected by driver and pings it.
func Open(ctx context.Context, driver, dsn string) (*Conn, error) {
	switch driver {
	case DriverPostgres:
		return openPostgres(ctx, dsn)
	case DriverSQLite:
		return openSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openPostgres(ctx context.Context, dsn string) (*Conn, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database (%s): %w", RedactDSN(dsn), err)
	}
	return &Conn{Driver: DriverPostgres, Pool: pool, DB: stdlib.OpenDBFromPool(pool)}, nil
}

var (
	registerFuncsOnce sync.Once
	registerFuncsErr  error
)

func openSQLite(ctx context.Context, dsn string) (*Conn, error) {
	registerFuncsOnce.Do(func() {
		registerFuncsErr = sqlite.RegisterDeterministicScalarFunction("contains_fold", 2, containsFold)
	})
	if registerFuncsErr != nil {
		return nil, fmt.Errorf("registering sqlite functions: %w", registerFuncsErr)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: an in-memory database lives and dies with it,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite (%s): %w", dsn, err)
	}
	return &Conn{Driver: DriverSQLite, DB: db}, nil
}

// containsFold(haystack, needle) is SQLite's Unicode-aware case-insensitive substring test.
// The built-in lower() only folds ASCII.
func containsFold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	haystack, _ := args[0].(string)
	needle, _ := args[1].(string)
	if strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
		return int64(1), nil
	}
	return int64(0), nil
}

// Ping checks the store is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	if c.Pool != nil {
		return c.Pool.Ping(ctx)
	}
	return c.DB.PingContext(ctx)
}

// Close releases every connection.
func (c *Conn) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
