package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"

	"booksapi/internal/book"
	"booksapi/internal/config"
	"booksapi/internal/ingest"
	"booksapi/internal/platform/database"
	"booksapi/internal/platform/openlibrary"
)

func main() {
	var (
		source   = flag.String("source", "sample", "Where books come from: sample or openlibrary")
		subjects = flag.String("subject", "science_fiction,history", "Comma separated Open Library subjects")
		limit    = flag.Int("limit", 50, "Maximum number of books to create from Open Library")
		migrate  = flag.Bool("migrate", true, "Apply pending migrations first")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := httplog.NewLogger("booksapi-seed", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
		Concise:  true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	if *migrate {
		if _, err := conn.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	service := book.NewService(book.NewRepository(conn, cfg.DBTimeout), book.NewValidator())

	switch *source {
	case "sample":
		report, err := seedSamples(ctx, service, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		logger.Info().Int("created", report.Created).Int("skipped", report.Skipped()).Msg("sample books seeded")
	case "openlibrary":
		client := openlibrary.NewClient(cfg.OpenLibraryAgent, cfg.OpenLibraryRPS, 3)
		importer := ingest.NewService(client, service, ingest.Config{
			Subjects: splitSubjects(*subjects),
			Limit:    *limit,
		}, logger)
		report, err := importer.Run(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("import failed")
		}
		logger.Info().
			Strs("subjects", report.Subjects).
			Int("candidates", report.Candidates).
			Int("created", report.Created).
			Int("conflicts", report.Conflicts).
			Interface("rejected", report.Rejected).
			Int("failed", report.Failed).
			Dur("took", report.FinishedAt.Sub(report.StartedAt)).
			Msg("open library import finished")
	default:
		fmt.Fprintf(os.Stderr, "unknown -source %q, use sample or openlibrary\n", *source)
		os.Exit(2)
	}
}

func splitSubjects(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
