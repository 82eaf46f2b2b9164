package book

import "errors"

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned by a Repository when the unique isbn index rejects a write.
	ErrDuplicateISBN = errors.New("book isbn already exists")
)

// Book represents a book entity. It is both the stored row and the wire shape.
type Book struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	ISBN             string  `json:"isbn"`
	Publisher        string  `json:"publisher"`
	YearOfPublishing int     `json:"yearOfPublishing"`
	Genre            string  `json:"genre"`
	PageCount        int     `json:"pageCount"`
	Price            float64 `json:"price"`
}

// withFieldsFrom returns b with every mutable field replaced by src's. The id is kept.
func (b Book) withFieldsFrom(src Book) Book {
	b.Title = src.Title
	b.Author = src.Author
	b.ISBN = src.ISBN
	b.Publisher = src.Publisher
	b.YearOfPublishing = src.YearOfPublishing
	b.Genre = src.Genre
	b.PageCount = src.PageCount
	b.Price = src.Price
	return b
}
