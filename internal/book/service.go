package book

import (
	"context"
	"errors"
	"fmt"
)

const (
	minYear = 1
	maxYear = 2100
)

// Service provides book-related business logic.
// Every method returns a classified Outcome; the error is reserved for storage failures.
type Service struct {
	repo      Repository
	validator *Validator
}

// NewService creates a new book service.
func NewService(repo Repository, validator *Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// Create validates b, canonicalizes its ISBN and stores it.
func (s *Service) Create(ctx context.Context, b Book) (Outcome, error) {
	if outcome, ok := s.check(b); !ok {
		return outcome, nil
	}
	isbn, err := NormalizeISBN(b.ISBN)
	if err != nil {
		return invalid(msgISBNFormat), nil
	}

	_, err = s.repo.FindByISBN(ctx, isbn)
	switch {
	case err == nil:
		return conflict(isbn), nil
	case !errors.Is(err, ErrNotFound):
		return Outcome{}, fmt.Errorf("looking up isbn %s: %w", isbn, err)
	}

	b.ID = 0
	b.ISBN = isbn
	saved, err := s.repo.Insert(ctx, b)
	if errors.Is(err, ErrDuplicateISBN) {
		return conflict(isbn), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("inserting book: %w", err)
	}
	return created(saved), nil
}

// Update replaces every mutable field of the book with the given id.
func (s *Service) Update(ctx context.Context, id int64, b Book) (Outcome, error) {
	current, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting book %d: %w", id, err)
	}

	if outcome, ok := s.check(b); !ok {
		return outcome, nil
	}
	isbn, err := NormalizeISBN(b.ISBN)
	if err != nil {
		return invalid(msgISBNFormat), nil
	}

	other, err := s.repo.FindByISBN(ctx, isbn)
	switch {
	case err == nil && other.ID != id:
		return conflict(isbn), nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Outcome{}, fmt.Errorf("looking up isbn %s: %w", isbn, err)
	}

	b.ISBN = isbn
	saved, err := s.repo.Update(ctx, current.withFieldsFrom(b))
	switch {
	case errors.Is(err, ErrDuplicateISBN):
		return conflict(isbn), nil
	case errors.Is(err, ErrNotFound):
		return notFound(), nil
	case err != nil:
		return Outcome{}, fmt.Errorf("updating book %d: %w", id, err)
	}
	return updated(saved), nil
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int64) (Outcome, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("deleting book %d: %w", id, err)
	}
	return deleted(), nil
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Outcome, error) {
	b, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting book %d: %w", id, err)
	}
	return found(b), nil
}

// GetByISBN normalizes raw and returns the matching book.
func (s *Service) GetByISBN(ctx context.Context, raw string) (Outcome, error) {
	if IsBlank(raw) {
		return badInput(), nil
	}
	isbn, err := NormalizeISBN(raw)
	if err != nil {
		return badInput(), nil
	}
	b, err := s.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting isbn %s: %w", isbn, err)
	}
	return found(b), nil
}

// List returns every book.
func (s *Service) List(ctx context.Context) (Outcome, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting books: %w", err)
	}
	return foundList(books), nil
}

func (s *Service) FindByTitle(ctx context.Context, title string) (Outcome, error) {
	return s.search(ctx, "title", title, s.repo.FindByTitle)
}

func (s *Service) FindByAuthor(ctx context.Context, author string) (Outcome, error) {
	return s.search(ctx, "author", author, s.repo.FindByAuthor)
}

func (s *Service) FindByPublisher(ctx context.Context, publisher string) (Outcome, error) {
	return s.search(ctx, "publisher", publisher, s.repo.FindByPublisher)
}

func (s *Service) FindByGenre(ctx context.Context, genre string) (Outcome, error) {
	return s.search(ctx, "genre", genre, s.repo.FindByGenre)
}

// FindByYear returns the books published in year.
func (s *Service) FindByYear(ctx context.Context, year int) (Outcome, error) {
	if year < minYear || year > maxYear {
		return badInput(), nil
	}
	books, err := s.repo.FindByYearOfPublishing(ctx, year)
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting books by year %d: %w", year, err)
	}
	return listOutcome(books), nil
}

func (s *Service) search(ctx context.Context, field, q string, find func(context.Context, string) ([]Book, error)) (Outcome, error) {
	if IsBlank(q) {
		return badInput(), nil
	}
	books, err := find(ctx, q)
	if err != nil {
		return Outcome{}, fmt.Errorf("selecting books by %s: %w", field, err)
	}
	return listOutcome(books), nil
}

func (s *Service) check(b Book) (Outcome, bool) {
	err := s.validator.Validate(b)
	if err == nil {
		return Outcome{}, true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return invalid(verr.Message), false
	}
	return invalid(err.Error()), false
}

func listOutcome(books []Book) Outcome {
	if len(books) == 0 {
		return empty()
	}
	return foundList(books)
}
