package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

const bookColumns = `id, title, author, isbn, publisher, year_of_publishing, genre, page_count, price`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Publisher,
		&b.YearOfPublishing, &b.Genre, &b.PageCount, &b.Price,
	)
	return b, err
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	return r.one(ctx, `SELECT `+bookColumns+` FROM book WHERE id = $1`, id)
}

func (r *PostgresRepo) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	return r.one(ctx, `SELECT `+bookColumns+` FROM book WHERE isbn = $1 LIMIT 1`, isbn)
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.list(ctx, `SELECT `+bookColumns+` FROM book ORDER BY id`)
}

func (r *PostgresRepo) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return r.containing(ctx, "title", title)
}

func (r *PostgresRepo) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return r.containing(ctx, "author", author)
}

func (r *PostgresRepo) FindByPublisher(ctx context.Context, publisher string) ([]Book, error) {
	return r.containing(ctx, "publisher", publisher)
}

func (r *PostgresRepo) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return r.containing(ctx, "genre", genre)
}

// containing matches column case-insensitively. strpos avoids treating % and _ in q as LIKE wildcards.
func (r *PostgresRepo) containing(ctx context.Context, column, q string) ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM book WHERE strpos(lower(%s), lower($1)) > 0 ORDER BY id`, bookColumns, column)
	return r.list(ctx, query, q)
}

func (r *PostgresRepo) FindByYearOfPublishing(ctx context.Context, year int) ([]Book, error) {
	return r.list(ctx, `SELECT `+bookColumns+` FROM book WHERE year_of_publishing = $1 ORDER BY id`, year)
}

func (r *PostgresRepo) Insert(ctx context.Context, b Book) (Book, error) {
	const query = `
		INSERT INTO book (title, author, isbn, publisher, year_of_publishing, genre, page_count, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.ISBN, b.Publisher, b.YearOfPublishing, b.Genre, b.PageCount, b.Price,
	).Scan(&b.ID)
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b Book) (Book, error) {
	const query = `
		UPDATE book
		SET title = $1, author = $2, isbn = $3, publisher = $4,
		    year_of_publishing = $5, genre = $6, page_count = $7, price = $8
		WHERE id = $9
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	saved, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.ISBN, b.Publisher, b.YearOfPublishing, b.Genre, b.PageCount, b.Price, b.ID,
	))
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return saved, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM book WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) one(ctx context.Context, query string, args ...any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return Book{}, translatePgError(err)
	}
	return b, nil
}

func (r *PostgresRepo) list(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateISBN
	}
	return err
}
