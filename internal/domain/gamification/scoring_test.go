package gamification

import (
	"testing"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

func TestXPForRating(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rating   domain.Rating
		streak   int
		expected int
	}{
		{"Again with no streak", domain.RatingAgain, 0, 2},
		{"Hard with no streak", domain.RatingHard, 0, 5},
		{"Good with no streak", domain.RatingGood, 0, 10},
		{"Easy with no streak", domain.RatingEasy, 0, 15},
		{"Good with 3-day streak", domain.RatingGood, 3, 13},
		{"Easy with 5-day streak", domain.RatingEasy, 5, 23}, // round(15 * 1.5)
		{"Good at the multiplier cap", domain.RatingGood, 10, 20},
		{"Good beyond the multiplier cap", domain.RatingGood, 50, 20},
		{"invalid rating yields nothing", domain.Rating(0), 5, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := XPForRating(tc.rating, tc.streak); got != tc.expected {
				t.Errorf("expected %d XP, got %d", tc.expected, got)
			}
		})
	}
}

func TestXPForRatingMonotonicInStreak(t *testing.T) {
	t.Parallel()

	for _, rating := range []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy} {
		prev := XPForRating(rating, 0)
		capped := XPForRating(rating, 10)
		for streak := 1; streak <= 30; streak++ {
			got := XPForRating(rating, streak)
			if got < prev {
				t.Errorf("rating %s: XP decreased from %d to %d at streak %d", rating, prev, got, streak)
			}
			if got > capped {
				t.Errorf("rating %s: XP %d at streak %d exceeds capped value %d", rating, got, streak, capped)
			}
			prev = got
		}
	}
}

func TestLevelRoundTrip(t *testing.T) {
	t.Parallel()

	// Reaching the exact threshold of level N must place the user at level N.
	for n := 1; n <= 60; n++ {
		if got := LevelFromXP(XPForLevel(n)); got != n {
			t.Errorf("LevelFromXP(XPForLevel(%d)) = %d", n, got)
		}
	}

	// One XP short of the next threshold keeps the previous level.
	for n := 2; n <= 60; n++ {
		if got := LevelFromXP(XPForLevel(n) - 1); got != n-1 {
			t.Errorf("LevelFromXP(XPForLevel(%d)-1) = %d, want %d", n, got, n-1)
		}
	}
}

func TestLevelFromXPEdges(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		xp       int
		expected int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{600, 4},
	}

	for _, tc := range testCases {
		if got := LevelFromXP(tc.xp); got != tc.expected {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.expected)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	t.Parallel()

	t.Run("halfway through level 2", func(t *testing.T) {
		info := LevelProgress(200) // level 2 spans [100, 300)
		if info.Level != 2 {
			t.Errorf("expected level 2, got %d", info.Level)
		}
		if info.XPForCurrentLevel != 100 || info.XPForNextLevel != 300 {
			t.Errorf("expected thresholds 100/300, got %d/%d",
				info.XPForCurrentLevel, info.XPForNextLevel)
		}
		if info.Progress != 0.5 {
			t.Errorf("expected progress 0.5, got %v", info.Progress)
		}
	})

	t.Run("fresh account", func(t *testing.T) {
		info := LevelProgress(0)
		if info.Level != 1 || info.Progress != 0 {
			t.Errorf("expected level 1 progress 0, got level %d progress %v",
				info.Level, info.Progress)
		}
	})

	t.Run("progress stays within bounds", func(t *testing.T) {
		for xp := 0; xp <= 2000; xp += 37 {
			info := LevelProgress(xp)
			if info.Progress < 0 || info.Progress >= 1 {
				t.Errorf("xp %d: progress %v out of [0, 1)", xp, info.Progress)
			}
		}
	})
}
