// Package gamification holds the pure scoring functions that turn review
// activity into XP, levels, and daily streaks.
package gamification

import (
	"math"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// Scoring constants.
const (
	// MaxStreakMultiplier caps the streak bonus on earned XP.
	MaxStreakMultiplier = 2.0

	// StreakMultiplierStep is the per-day growth of the streak bonus.
	StreakMultiplierStep = 0.1

	// XPPerLevelUnit scales the triangular level-cost curve: reaching level N
	// costs N*(N-1)/2 * XPPerLevelUnit XP in total.
	XPPerLevelUnit = 100
)

// baseXP is the XP awarded per rating before the streak bonus.
var baseXP = map[domain.Rating]int{
	domain.RatingAgain: 2,
	domain.RatingHard:  5,
	domain.RatingGood:  10,
	domain.RatingEasy:  15,
}

// XPForRating computes the XP earned for rating a single card, scaled by the
// user's current streak. Monotonic in both rating and streak; the streak
// bonus saturates at MaxStreakMultiplier.
func XPForRating(rating domain.Rating, currentStreak int) int {
	base, ok := baseXP[rating]
	if !ok {
		return 0
	}

	multiplier := 1.0 + float64(currentStreak)*StreakMultiplierStep
	if multiplier > MaxStreakMultiplier {
		multiplier = MaxStreakMultiplier
	}

	return int(math.Round(float64(base) * multiplier))
}

// XPForLevel returns the cumulative XP required to reach the given level.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return level * (level - 1) / 2 * XPPerLevelUnit
}

// LevelFromXP returns the level a user with the given total XP has reached:
// the largest N with XPForLevel(N) <= xp. Closed form of the inverse
// triangular curve; levels start at 1.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}

	level := int(math.Floor((1 + math.Sqrt(1+8*float64(xp)/XPPerLevelUnit)) / 2))
	if level < 1 {
		level = 1
	}
	return level
}

// LevelInfo describes a user's position on the level curve, for display.
type LevelInfo struct {
	Level             int     `json:"level"`
	XP                int     `json:"xp"`
	XPForCurrentLevel int     `json:"xp_for_current_level"`
	XPForNextLevel    int     `json:"xp_for_next_level"`
	Progress          float64 `json:"progress"` // 0-1 toward the next level
}

// LevelProgress computes the current level, the XP thresholds bracketing it,
// and the fractional progress toward the next level. Progress is 0 when the
// thresholds coincide. Display-only; nothing is gated on it.
func LevelProgress(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}

	level := LevelFromXP(xp)
	current := XPForLevel(level)
	next := XPForLevel(level + 1)

	progress := 0.0
	if next > current {
		progress = float64(xp-current) / float64(next-current)
	}

	return LevelInfo{
		Level:             level,
		XP:                xp,
		XPForCurrentLevel: current,
		XPForNextLevel:    next,
		Progress:          progress,
	}
}
