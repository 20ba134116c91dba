package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User stats validation errors
var (
	// ErrStatsUserIDEmpty is returned when a stats row's user ID is empty.
	ErrStatsUserIDEmpty = errors.New("user stats user ID cannot be empty")

	// ErrNegativeXP is returned when total XP is negative. XP only ever grows.
	ErrNegativeXP = errors.New("xp cannot be negative")

	// ErrNegativeStreak is returned when a streak counter is negative.
	ErrNegativeStreak = errors.New("streak cannot be negative")
)

// UserStats aggregates a user's gamification state: experience points, level,
// and daily review streaks. XP is monotonically non-decreasing; the level is
// always derivable from XP via gamification.LevelFromXP but is stored
// denormalized for cheap reads.
//
// LastReviewDate has calendar-day granularity: only its date part is
// meaningful, and the streak tracker compares calendar days, not 24h spans.
type UserStats struct {
	UserID            uuid.UUID  `json:"user_id"`
	XP                int        `json:"xp"`
	Level             int        `json:"level"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastReviewDate    *time.Time `json:"last_review_date,omitempty"`
	TotalReviews      int        `json:"total_reviews"`
	TotalCardsLearned int        `json:"total_cards_learned"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewUserStats creates zeroed statistics for a user at level 1.
func NewUserStats(userID uuid.UUID) (*UserStats, error) {
	stats := &UserStats{
		UserID:    userID,
		XP:        0,
		Level:     1,
		UpdatedAt: time.Now().UTC(),
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Validate checks if the UserStats has valid data.
func (s *UserStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStatsUserIDEmpty
	}

	if s.XP < 0 {
		return ErrNegativeXP
	}

	if s.CurrentStreak < 0 || s.LongestStreak < 0 {
		return ErrNegativeStreak
	}

	return nil
}
