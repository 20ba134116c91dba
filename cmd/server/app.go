package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dtd2x/vocabmaster/internal/config"
	"github.com/dtd2x/vocabmaster/internal/domain/srs"
	"github.com/dtd2x/vocabmaster/internal/generation"
	"github.com/dtd2x/vocabmaster/internal/platform/gemini"
	"github.com/dtd2x/vocabmaster/internal/platform/postgres"
	"github.com/dtd2x/vocabmaster/internal/service/auth"
	"github.com/dtd2x/vocabmaster/internal/service/deck"
	"github.com/dtd2x/vocabmaster/internal/service/review"
	"github.com/dtd2x/vocabmaster/internal/service/stats"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// Database pool settings.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// application bundles the wired-up dependencies of one server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	cardStore     store.CardStore
	jwtService    auth.JWTService
	authService   *auth.Service
	deckService   *deck.Service
	reviewService *review.Service
	queueBuilder  *review.QueueBuilder
	statsService  *stats.Service
}

// newApplication opens the database, runs migrations, and wires every store
// and service.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	loc, err := resolveTimezone(cfg.Study.Timezone)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	userStore := postgres.NewUserStore(db, log)
	deckStore := postgres.NewDeckStore(db, log)
	cardStore := postgres.NewCardStore(db, log)
	progressStore := postgres.NewProgressStore(db, log)
	logStore := postgres.NewReviewLogStore(db, log)
	statsStore := postgres.NewUserStatsStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating jwt service: %w", err)
	}

	var scheduler srs.Service
	if cfg.Study.DisableFuzz {
		scheduler = srs.NewService(srs.NewDefaultParams(), nil)
	} else {
		scheduler = srs.NewDefaultService()
	}

	// Card generation is optional; without an API key the endpoints report
	// the feature as unavailable.
	var generator generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		g, err := gemini.NewGenerator(ctx, log, cfg.LLM)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating gemini generator: %w", err)
		}
		generator = g
	} else {
		log.Info("card generation disabled: no Gemini API key configured")
	}

	app := &application{
		config:    cfg,
		logger:    log,
		db:        db,
		userStore: userStore,
		cardStore: cardStore,
	}

	app.jwtService = jwtService
	app.authService = auth.NewService(userStore, jwtService, auth.NewBcryptVerifier(), log)
	app.deckService = deck.NewService(deckStore, cardStore, progressStore, generator, log)
	app.reviewService = review.NewService(db, progressStore, logStore, statsStore, scheduler, loc, log)
	app.queueBuilder = review.NewQueueBuilder(
		progressStore,
		cfg.Study.NewCardLimit,
		cfg.Study.ReviewLimit,
		log,
	)
	app.statsService = stats.NewService(statsStore, progressStore, logStore, loc, log)

	return app, nil
}

func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func resolveTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// cleanup releases process-wide resources during shutdown.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
