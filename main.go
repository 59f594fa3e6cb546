// Podshelf is the content catalog behind the podcast browsing and
// admin UIs.
//
// It keeps the catalog in a single sqlite file, serves the REST surface
// both UIs talk to, and can seed itself from the embedded fixture.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/clmartin/podshelf/internal/api"
	"github.com/clmartin/podshelf/internal/importer"
	"github.com/clmartin/podshelf/internal/migrations"
	"github.com/clmartin/podshelf/internal/sqlite"
	"github.com/clmartin/podshelf/logger"
)

type config struct {
	Port     int    `env:"PORT, default=8080"`
	Database string `env:"DATABASE, required"`

	// Origin the browsing/admin frontend is served from
	CorsOrigin string `env:"CORS_ORIGIN, default=*"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewContextHandler(handler))
	slog.SetDefault(l)

	// Start the application
	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	slog.Info("running", "config", cfg)

	// Connect to the db. The cascade deletes on the link tables need
	// foreign key enforcement switched on.
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.Database)
	dbx, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	fixture, err := importer.Load()
	if err != nil {
		return fmt.Errorf("error loading fixture: %s", err)
	}

	repo := sqlite.New(dbx)
	s := api.NewServer(api.ServerConfig{
		Port:       cfg.Port,
		CorsOrigin: cfg.CorsOrigin,
	}, repo, fixture)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Start the server
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
