package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"booksapi/internal/book"
	"booksapi/internal/ingest"
)

// samples are real titles with ISBNs in assorted raw layouts; the catalog
// normalizes them on the way in.
var samples = []book.Book{
	{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719", Publisher: "Ace", YearOfPublishing: 1990, Genre: "Science Fiction", PageCount: 535, Price: 9.99},
	{Title: "Neuromancer", Author: "William Gibson", ISBN: "978-0-441-56959-5", Publisher: "Ace", YearOfPublishing: 1984, Genre: "Cyberpunk", PageCount: 271, Price: 8.99},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "978 0 441 47812 5", Publisher: "Ace", YearOfPublishing: 1969, Genre: "Science Fiction", PageCount: 304, Price: 10.5},
	{Title: "The Name of the Rose", Author: "Umberto Eco", ISBN: "978-0-15-600131-0", Publisher: "Harcourt", YearOfPublishing: 1994, Genre: "Mystery", PageCount: 536, Price: 12},
	{Title: "Sapiens", Author: "Yuval Noah Harari", ISBN: "9780062316097", Publisher: "Harper", YearOfPublishing: 2015, Genre: "History", PageCount: 464, Price: 16.99},
	{Title: "The Structure of Scientific Revolutions", Author: "Thomas S. Kuhn", ISBN: "978-0226458083", Publisher: "University of Chicago Press", YearOfPublishing: 1996, Genre: "Philosophy", PageCount: 212, Price: 15},
	{Title: "Der Process", Author: "Franz Kafka", ISBN: "9783596294350", Publisher: "Fischer", YearOfPublishing: 1925, Genre: "Fiction", PageCount: 288, Price: 0},
}

func seedSamples(ctx context.Context, catalog ingest.Catalog, logger zerolog.Logger) (*ingest.Report, error) {
	report := &ingest.Report{Rejected: map[string]int{}}
	for _, b := range samples {
		out, err := catalog.Create(ctx, b)
		if err != nil {
			return report, fmt.Errorf("creating %q: %w", b.Title, err)
		}
		switch out.Result {
		case book.ResultCreated:
			report.Created++
			logger.Debug().Int64("id", out.Book.ID).Str("isbn", out.Book.ISBN).Msg("book seeded")
		case book.ResultConflict:
			report.Conflicts++
		case book.ResultInvalid:
			report.Rejected[out.Message]++
		default:
			report.Failed++
		}
	}
	return report, nil
}
