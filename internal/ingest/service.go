// Package ingest imports books from Open Library into the catalog.
package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"booksapi/internal/book"
	"booksapi/internal/platform/openlibrary"
)

type Config struct {
	Subjects []string
	// Limit caps the books created across all subjects.
	Limit     int
	BatchSize int
}

type OpenLibraryClient interface {
	SearchBooks(ctx context.Context, subject string, limit int) (*openlibrary.SearchResponse, error)
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}

// Catalog is the write side of book.Service.
type Catalog interface {
	Create(ctx context.Context, b book.Book) (book.Outcome, error)
}

type Service struct {
	olClient OpenLibraryClient
	catalog  Catalog
	cfg      Config
	logger   zerolog.Logger
}

func NewService(olClient OpenLibraryClient, catalog Catalog, cfg Config, logger zerolog.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	return &Service{
		olClient: olClient,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run searches each subject, hydrates the hits by ISBN and creates them through
// the catalog. Only search failures and storage failures abort the run.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := newReport(s.cfg.Subjects)
	defer func() { report.FinishedAt = time.Now() }()

	seen := make(map[string]bool)
	for _, subject := range s.cfg.Subjects {
		if report.Created >= s.cfg.Limit {
			break
		}

		searchLimit := (s.cfg.Limit - report.Created) * 2
		if searchLimit > 100 {
			searchLimit = 100
		}
		res, err := s.olClient.SearchBooks(ctx, subject, searchLimit)
		if err != nil {
			return report, fmt.Errorf("search failed for %s: %w", subject, err)
		}

		genres := make(map[string]string)
		var batch []string
		for _, doc := range res.Docs {
			isbn := pickISBN13(doc.ISBN)
			if isbn == "" || seen[isbn] {
				continue
			}
			seen[isbn] = true
			genres[isbn] = subjectGenre(subject)
			batch = append(batch, isbn)
			report.Candidates++

			if len(batch) >= s.cfg.BatchSize {
				if err := s.importBatch(ctx, report, batch, genres); err != nil {
					return report, err
				}
				batch = nil
				if report.Created >= s.cfg.Limit {
					break
				}
			}
		}
		if len(batch) > 0 && report.Created < s.cfg.Limit {
			if err := s.importBatch(ctx, report, batch, genres); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

func (s *Service) importBatch(ctx context.Context, report *Report, isbns []string, genres map[string]string) error {
	details, err := s.olClient.GetBooksByISBN(ctx, isbns)
	if err != nil {
		s.logger.Warn().Err(err).Int("batch", len(isbns)).Msg("failed to hydrate batch")
		report.Failed += len(isbns)
		return nil
	}
	report.Fetched += len(details)

	// Keep search order so runs are reproducible.
	for _, isbn := range isbns {
		d, ok := details[isbn]
		if !ok {
			continue
		}
		if report.Created >= s.cfg.Limit {
			return nil
		}

		out, err := s.catalog.Create(ctx, toBook(isbn, genres[isbn], d))
		if err != nil {
			return fmt.Errorf("creating %s: %w", isbn, err)
		}
		switch out.Result {
		case book.ResultCreated:
			report.Created++
			s.logger.Debug().Int64("id", out.Book.ID).Str("isbn", out.Book.ISBN).Msg("book imported")
		case book.ResultConflict:
			report.Conflicts++
		case book.ResultInvalid:
			report.Rejected[out.Message]++
			s.logger.Debug().Str("isbn", isbn).Str("reason", out.Message).Msg("book rejected")
		default:
			report.Failed++
		}
	}
	return nil
}

func toBook(isbn, genre string, d openlibrary.BookDetails) book.Book {
	b := book.Book{
		Title:            strings.TrimSpace(d.Title),
		ISBN:             isbn,
		YearOfPublishing: parseYear(d.PublishDate),
		Genre:            genre,
		PageCount:        d.NumberOfPages,
	}
	if d.Subtitle != "" {
		b.Title += ": " + strings.TrimSpace(d.Subtitle)
	}
	if len(d.Authors) > 0 {
		b.Author = d.Authors[0].Name
	}
	if len(d.Publishers) > 0 {
		b.Publisher = d.Publishers[0].Name
	}
	if b.Genre == "" && len(d.Subjects) > 0 {
		b.Genre = d.Subjects[0].Name
	}
	return b
}

// pickISBN13 returns the first entry that is a 13-digit ISBN, without separators.
func pickISBN13(isbns []string) string {
	for _, raw := range isbns {
		canonical, err := book.NormalizeISBN(raw)
		if err == nil {
			return strings.ReplaceAll(canonical, "-", "")
		}
	}
	return ""
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// parseYear finds the last four digit year in free-form dates such as
// "March 1990" or "1990-03-01". Zero means none was found.
func parseYear(publishDate string) int {
	matches := yearPattern.FindAllStringSubmatch(publishDate, -1)
	if len(matches) == 0 {
		return 0
	}
	year, _ := strconv.Atoi(matches[len(matches)-1][1])
	return year
}

func subjectGenre(subject string) string {
	words := strings.Fields(strings.ReplaceAll(subject, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
