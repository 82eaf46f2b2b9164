package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepo stores books in an embedded SQLite database.
// It expects the connection to have the contains_fold function registered (see package database).
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	return r.one(ctx, `SELECT `+bookColumns+` FROM book WHERE id = ?`, id)
}

func (r *SQLiteRepo) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	return r.one(ctx, `SELECT `+bookColumns+` FROM book WHERE isbn = ? LIMIT 1`, isbn)
}

func (r *SQLiteRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.list(ctx, `SELECT `+bookColumns+` FROM book ORDER BY id`)
}

func (r *SQLiteRepo) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return r.containing(ctx, "title", title)
}

func (r *SQLiteRepo) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return r.containing(ctx, "author", author)
}

func (r *SQLiteRepo) FindByPublisher(ctx context.Context, publisher string) ([]Book, error) {
	return r.containing(ctx, "publisher", publisher)
}

func (r *SQLiteRepo) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return r.containing(ctx, "genre", genre)
}

func (r *SQLiteRepo) containing(ctx context.Context, column, q string) ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM book WHERE contains_fold(%s, ?) ORDER BY id`, bookColumns, column)
	return r.list(ctx, query, q)
}

func (r *SQLiteRepo) FindByYearOfPublishing(ctx context.Context, year int) ([]Book, error) {
	return r.list(ctx, `SELECT `+bookColumns+` FROM book WHERE year_of_publishing = ? ORDER BY id`, year)
}

func (r *SQLiteRepo) Insert(ctx context.Context, b Book) (Book, error) {
	const query = `
		INSERT INTO book (title, author, isbn, publisher, year_of_publishing, genre, page_count, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query,
		b.Title, b.Author, b.ISBN, b.Publisher, b.YearOfPublishing, b.Genre, b.PageCount, b.Price,
	)
	if err != nil {
		return Book{}, translateSQLiteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Book{}, fmt.Errorf("reading inserted id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, b Book) (Book, error) {
	const query = `
		UPDATE book
		SET title = ?, author = ?, isbn = ?, publisher = ?,
		    year_of_publishing = ?, genre = ?, page_count = ?, price = ?
		WHERE id = ?`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query,
		b.Title, b.Author, b.ISBN, b.Publisher, b.YearOfPublishing, b.Genre, b.PageCount, b.Price, b.ID,
	)
	if err != nil {
		return Book{}, translateSQLiteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return Book{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, `DELETE FROM book WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) one(ctx context.Context, query string, args ...any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *SQLiteRepo) list(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func translateSQLiteError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")) {
		return ErrDuplicateISBN
	}
	return err
}
