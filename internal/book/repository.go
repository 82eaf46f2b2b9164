package book

import (
	"time"

	"booksapi/internal/platform/database"
)

// NewRepository returns the Repository implementation matching conn's driver.
func NewRepository(conn *database.Conn, timeout time.Duration) Repository {
	if conn.Driver == database.DriverSQLite {
		return NewSQLiteRepo(conn.DB, timeout)
	}
	return NewPostgresRepo(conn.Pool, timeout)
}
