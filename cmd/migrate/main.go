package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"

	"booksapi/internal/config"
	"booksapi/internal/platform/database"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status")
		driver  = flag.String("driver", "", "Database driver (postgres or sqlite); defaults to DB_DRIVER")
		dsn     = flag.String("dsn", "", "Database DSN; defaults to DB_DSN")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := httplog.NewLogger("booksapi-migrate", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
		Concise:  true,
	})

	t := resolveTarget(cfg, *driver, *dsn)
	if err := run(context.Background(), t, *command, os.Stdout, logger); err != nil {
		logger.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
}

func run(ctx context.Context, t target, command string, out io.Writer, logger zerolog.Logger) error {
	conn, err := database.Open(ctx, t.driver, t.dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch command {
	case "up":
		applied, err := conn.Migrate(ctx)
		if err != nil {
			return err
		}
		logger.Info().Ints64("versions", applied).Msg("migrations applied successfully")
	case "down":
		version, err := conn.Rollback(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int64("version", version).Msg("migration rolled back successfully")
	case "status":
		statuses, err := conn.MigrationStatus(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			state := "pending"
			if st.Applied {
				state = "applied"
			}
			fmt.Fprintf(out, "%-8s %05d %s\n", state, st.Version, st.Path)
		}
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status", command)
	}
	return nil
}
