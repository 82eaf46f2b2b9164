package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=book

// Repository defines the contract for book data storage.
// Lookups return ErrNotFound when no row matches; writes return ErrDuplicateISBN
// when the unique isbn index rejects them.
type Repository interface {
	FindByID(ctx context.Context, id int64) (Book, error)
	FindByISBN(ctx context.Context, isbn string) (Book, error)
	FindAll(ctx context.Context) ([]Book, error)
	// The substring finders match case-insensitively.
	FindByTitle(ctx context.Context, title string) ([]Book, error)
	FindByAuthor(ctx context.Context, author string) ([]Book, error)
	FindByPublisher(ctx context.Context, publisher string) ([]Book, error)
	FindByGenre(ctx context.Context, genre string) ([]Book, error)
	FindByYearOfPublishing(ctx context.Context, year int) ([]Book, error)
	Insert(ctx context.Context, b Book) (Book, error)
	Update(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, id int64) error
}
