package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// ProgressStore implements store.ProgressStore using PostgreSQL.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. If logger is nil, a default logger is used.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{db: tx, logger: s.logger}
}

const cardWithProgressColumns = `
	c.id, c.deck_id, c.front, c.back, c.example_sentence, c.pronunciation,
	c.audio_url, c.created_at, c.updated_at,
	p.user_id, p.card_id, p.ease_factor, p.interval, p.repetitions,
	p.status, p.last_reviewed_at, p.next_review_at, p.created_at, p.updated_at`

// FetchDue implements store.ProgressStore.FetchDue.
func (s *ProgressStore) FetchDue(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.CardWithProgress, error) {
	query := `
		SELECT` + cardWithProgressColumns + `
		FROM card_progress p
		JOIN cards c ON c.id = p.card_id
		WHERE p.user_id = $1
		  AND p.status <> 'new'
		  AND p.next_review_at <= $2
		  AND ($3::uuid IS NULL OR c.deck_id = $3)
		ORDER BY p.next_review_at ASC, p.card_id ASC
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, userID, now, nullableUUID(deckID), limit)
	if err != nil {
		return nil, store.NewStoreError("progress", "fetch_due", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCardWithProgressRows(rows)
}

// FetchNew implements store.ProgressStore.FetchNew.
func (s *ProgressStore) FetchNew(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit int,
) ([]domain.CardWithProgress, error) {
	query := `
		SELECT` + cardWithProgressColumns + `
		FROM card_progress p
		JOIN cards c ON c.id = p.card_id
		WHERE p.user_id = $1
		  AND p.status = 'new'
		  AND ($2::uuid IS NULL OR c.deck_id = $2)
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, nullableUUID(deckID), limit)
	if err != nil {
		return nil, store.NewStoreError("progress", "fetch_new", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCardWithProgressRows(rows)
}

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardProgress, error) {
	query := `
		SELECT user_id, card_id, ease_factor, interval, repetitions, status,
		       last_reviewed_at, next_review_at, created_at, updated_at
		FROM card_progress
		WHERE user_id = $1 AND card_id = $2`

	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrProgressNotFound
		}
		return nil, store.NewStoreError("progress", "get", "query failed", err)
	}

	return progress, nil
}

// Update implements store.ProgressStore.Update as a single-row upsert.
func (s *ProgressStore) Update(ctx context.Context, progress *domain.CardProgress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO card_progress (user_id, card_id, ease_factor, interval,
			repetitions, status, last_reviewed_at, next_review_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval = EXCLUDED.interval,
			repetitions = EXCLUDED.repetitions,
			status = EXCLUDED.status,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		progress.CardID,
		progress.EaseFactor,
		progress.Interval,
		progress.Repetitions,
		string(progress.Status),
		nullableTime(progress.LastReviewedAt),
		progress.NextReviewAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("progress", "update", "upsert failed", err)
	}

	return nil
}

// InitializeForDeck implements store.ProgressStore.InitializeForDeck.
// ON CONFLICT DO NOTHING makes repeated calls idempotent.
func (s *ProgressStore) InitializeForDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (int, error) {
	query := `
		INSERT INTO card_progress (user_id, card_id, ease_factor, interval,
			repetitions, status, next_review_at, created_at, updated_at)
		SELECT $1, c.id, $3, 0, 0, 'new', now(), now(), now()
		FROM cards c
		WHERE c.deck_id = $2
		ON CONFLICT (user_id, card_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, userID, deckID, domain.DefaultEaseFactor)
	if err != nil {
		return 0, store.NewStoreError("progress", "initialize_for_deck", "insert failed", err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("progress", "initialize_for_deck", "rows affected unavailable", err)
	}

	s.logger.Debug("initialized deck progress",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int64("created", created))

	return int(created), nil
}

// CountByStatus implements store.ProgressStore.CountByStatus.
func (s *ProgressStore) CountByStatus(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
) (map[domain.CardStatus]int, error) {
	query := `
		SELECT p.status, COUNT(*)
		FROM card_progress p
		JOIN cards c ON c.id = p.card_id
		WHERE p.user_id = $1
		  AND ($2::uuid IS NULL OR c.deck_id = $2)
		GROUP BY p.status`

	rows, err := s.db.QueryContext(ctx, query, userID, nullableUUID(deckID))
	if err != nil {
		return nil, store.NewStoreError("progress", "count_by_status", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[domain.CardStatus]int{
		domain.CardStatusNew:       0,
		domain.CardStatusLearning:  0,
		domain.CardStatusReview:    0,
		domain.CardStatusGraduated: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, store.NewStoreError("progress", "count_by_status", "scan failed", err)
		}
		counts[domain.CardStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("progress", "count_by_status", "iteration failed", err)
	}

	return counts, nil
}

// DueForecast implements store.ProgressStore.DueForecast. Cards already
// overdue are counted into the first day's bucket.
func (s *ProgressStore) DueForecast(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	days int,
) ([]store.DueCount, error) {
	if days <= 0 {
		return nil, nil
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, days)

	query := `
		SELECT next_review_at
		FROM card_progress
		WHERE user_id = $1
		  AND status <> 'new'
		  AND next_review_at < $2`

	rows, err := s.db.QueryContext(ctx, query, userID, end)
	if err != nil {
		return nil, store.NewStoreError("progress", "due_forecast", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	forecast := make([]store.DueCount, days)
	for i := range forecast {
		forecast[i] = store.DueCount{Date: start.AddDate(0, 0, i)}
	}

	for rows.Next() {
		var due time.Time
		if err := rows.Scan(&due); err != nil {
			return nil, store.NewStoreError("progress", "due_forecast", "scan failed", err)
		}

		idx := 0
		if due.After(start) {
			idx = int(due.Sub(start).Hours() / 24)
		}
		if idx >= days {
			idx = days - 1
		}
		forecast[idx].Count++
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("progress", "due_forecast", "iteration failed", err)
	}

	return forecast, nil
}

// scanProgress scans a progress row from a single-row query.
func scanProgress(row *sql.Row) (*domain.CardProgress, error) {
	var p domain.CardProgress
	var status string
	var lastReviewed sql.NullTime

	err := row.Scan(
		&p.UserID, &p.CardID, &p.EaseFactor, &p.Interval, &p.Repetitions,
		&status, &lastReviewed, &p.NextReviewAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.CardStatus(status)
	if lastReviewed.Valid {
		t := lastReviewed.Time
		p.LastReviewedAt = &t
	}

	return &p, nil
}

// scanCardWithProgressRows drains rows of joined card+progress records.
func scanCardWithProgressRows(rows *sql.Rows) ([]domain.CardWithProgress, error) {
	var results []domain.CardWithProgress
	for rows.Next() {
		var cp domain.CardWithProgress
		var status string
		var lastReviewed sql.NullTime

		err := rows.Scan(
			&cp.Card.ID, &cp.Card.DeckID, &cp.Card.Front, &cp.Card.Back,
			&cp.Card.ExampleSentence, &cp.Card.Pronunciation, &cp.Card.AudioURL,
			&cp.Card.CreatedAt, &cp.Card.UpdatedAt,
			&cp.Progress.UserID, &cp.Progress.CardID, &cp.Progress.EaseFactor,
			&cp.Progress.Interval, &cp.Progress.Repetitions, &status,
			&lastReviewed, &cp.Progress.NextReviewAt,
			&cp.Progress.CreatedAt, &cp.Progress.UpdatedAt,
		)
		if err != nil {
			return nil, store.NewStoreError("progress", "scan", "scan failed", err)
		}

		cp.Progress.Status = domain.CardStatus(status)
		if lastReviewed.Valid {
			t := lastReviewed.Time
			cp.Progress.LastReviewedAt = &t
		}

		results = append(results, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("progress", "scan", "iteration failed", err)
	}

	return results, nil
}

// nullableUUID converts an optional UUID into a driver-friendly value.
func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

// nullableTime converts an optional time into a driver-friendly value.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
