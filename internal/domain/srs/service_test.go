package srs

import (
	"testing"
	"time"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// fixedFuzz returns a FuzzSource that always yields the given value.
func fixedFuzz(v float64) FuzzSource {
	return func() float64 { return v }
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Now().UTC()

	if _, err := svc.Schedule(nil, domain.RatingGood, now); err != ErrNilProgress {
		t.Errorf("expected ErrNilProgress, got %v", err)
	}

	progress := validProgress(t, 2.5, 6, 1)
	for _, rating := range []domain.Rating{0, 5, -1} {
		if _, err := svc.Schedule(progress, rating, now); err != ErrBadRating {
			t.Errorf("rating %d: expected ErrBadRating, got %v", rating, err)
		}
	}
}

func TestScheduleGoodProgression(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	progress := validProgress(t, 2.5, 6, 2)
	next, err := svc.Schedule(progress, domain.RatingGood, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.EaseFactor != 2.5 {
		t.Errorf("expected ease factor 2.5, got %v", next.EaseFactor)
	}
	if next.Repetitions != 3 {
		t.Errorf("expected repetitions 3, got %d", next.Repetitions)
	}
	if next.Interval != 15 { // ceil(6 * 2.5)
		t.Errorf("expected interval 15, got %d", next.Interval)
	}
	if next.Status != domain.CardStatusLearning {
		t.Errorf("expected status learning, got %s", next.Status)
	}
	if want := now.AddDate(0, 0, 15); !next.NextReviewAt.Equal(want) {
		t.Errorf("expected next review at %v, got %v", want, next.NextReviewAt)
	}
	if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(now) {
		t.Errorf("expected last reviewed at %v, got %v", now, next.LastReviewedAt)
	}

	// The input must not have been touched.
	if progress.Interval != 6 || progress.Repetitions != 2 {
		t.Error("Schedule mutated its input")
	}
}

func TestScheduleAgainDemotesToNew(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Now().UTC()

	progress := validProgress(t, 2.2, 10, 3)
	next, err := svc.Schedule(progress, domain.RatingAgain, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Repetitions != 0 {
		t.Errorf("expected repetitions 0, got %d", next.Repetitions)
	}
	if next.Interval != 1 {
		t.Errorf("expected interval 1, got %d", next.Interval)
	}
	if next.EaseFactor != 1.66 { // 2.2 - 0.54
		t.Errorf("expected ease factor 1.66, got %v", next.EaseFactor)
	}
	// Zero repetitions reclassifies the card as new even though it has been
	// studied before. The new-card fetch path picks it up next session.
	if next.Status != domain.CardStatusNew {
		t.Errorf("expected status new, got %s", next.Status)
	}
}

func TestScheduleHardDampensGrowth(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Now().UTC()

	// Second repetition would normally land on the fixed 6-day interval,
	// but Hard enforces at least 1.2x the previous interval.
	progress := validProgress(t, 2.5, 10, 1)
	next, err := svc.Schedule(progress, domain.RatingHard, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.Interval != 12 { // max(6, ceil(10 * 1.2))
		t.Errorf("expected interval 12, got %d", next.Interval)
	}
	if next.EaseFactor != 2.36 {
		t.Errorf("expected ease factor 2.36, got %v", next.EaseFactor)
	}
	if next.Repetitions != 2 {
		t.Errorf("expected repetitions 2, got %d", next.Repetitions)
	}
}

func TestScheduleEasyAcceleratesGrowth(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Now().UTC()

	progress := validProgress(t, 2.5, 10, 2)
	next, err := svc.Schedule(progress, domain.RatingEasy, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// EF' = 2.6, candidate = ceil(10 * 2.6) = 26, easy = ceil(26 * 1.3) = 34.
	if next.Interval != 34 {
		t.Errorf("expected interval 34, got %d", next.Interval)
	}
	if next.Status != domain.CardStatusReview {
		t.Errorf("expected status review, got %s", next.Status)
	}
}

func TestEaseFactorNeverBelowFloor(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, fixedFuzz(0.5))
	now := time.Now().UTC()

	progress := validProgress(t, 2.5, 20, 4)
	for i := 0; i < 10; i++ {
		next, err := svc.Schedule(progress, domain.RatingAgain, now)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if next.EaseFactor < 1.3 {
			t.Fatalf("iteration %d: ease factor %v fell below 1.3", i, next.EaseFactor)
		}
		progress = next
	}

	if progress.EaseFactor != 1.3 {
		t.Errorf("expected ease factor pinned at 1.3, got %v", progress.EaseFactor)
	}
}

func TestScheduleFuzzedIntervalStaysPositive(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	for _, fuzz := range []float64{0.0, 0.25, 0.5, 0.75, 0.9999} {
		svc := NewService(nil, fixedFuzz(fuzz))
		progress := validProgress(t, 2.5, 0, 0)
		next, err := svc.Schedule(progress, domain.RatingAgain, now)
		if err != nil {
			t.Fatalf("fuzz %v: unexpected error: %v", fuzz, err)
		}
		if next.Interval < 1 {
			t.Errorf("fuzz %v: interval %d below one day", fuzz, next.Interval)
		}
	}
}

func TestScheduleFuzzWithinBounds(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	svc := NewDefaultService()

	// With the default +/-5% range a 100-day base interval must stay in
	// [95, 105] no matter what the RNG yields.
	for i := 0; i < 200; i++ {
		progress := validProgress(t, 2.5, 40, 3)
		next, err := svc.Schedule(progress, domain.RatingGood, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Interval < 95 || next.Interval > 105 {
			t.Fatalf("interval %d outside fuzz bounds [95, 105]", next.Interval)
		}
	}
}
