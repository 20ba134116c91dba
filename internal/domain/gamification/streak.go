package gamification

import "time"

// StreakUpdate is the result of evaluating a review against the user's
// streak. IsNewDay is true for the first review of a calendar day; only then
// should the persisted streak and last-review date be mutated, so multiple
// reviews on the same day never inflate the streak.
type StreakUpdate struct {
	Streak   int
	IsNewDay bool
}

// UpdateStreak computes the streak continuation for a review happening at
// now. Comparison is by calendar day in the given location, not exact 24h
// spans. A nil lastReviewDate means this is the user's first review ever.
func UpdateStreak(lastReviewDate *time.Time, currentStreak int, now time.Time, loc *time.Location) StreakUpdate {
	if loc == nil {
		loc = time.Local
	}

	if lastReviewDate == nil {
		return StreakUpdate{Streak: 1, IsNewDay: true}
	}

	switch calendarDaysBetween(*lastReviewDate, now, loc) {
	case 0:
		return StreakUpdate{Streak: currentStreak, IsNewDay: false}
	case 1:
		return StreakUpdate{Streak: currentStreak + 1, IsNewDay: true}
	default:
		// Missed at least one full day; the streak starts over.
		return StreakUpdate{Streak: 1, IsNewDay: true}
	}
}

// StreakExpiresIn reports how many days remain before the streak breaks:
// 1 if the user already reviewed today, 0 if a review is due today to keep
// the streak alive, and -1 if the streak is already broken. A nil
// lastReviewDate yields 0.
func StreakExpiresIn(lastReviewDate *time.Time, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	if lastReviewDate == nil {
		return 0
	}

	switch calendarDaysBetween(*lastReviewDate, now, loc) {
	case 0:
		return 1
	case 1:
		return 0
	default:
		return -1
	}
}

// calendarDaysBetween counts whole calendar days from a to b in loc.
// Both times are truncated to midnight in loc before differencing; rounding
// absorbs DST shifts of up to an hour.
func calendarDaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	start := time.Date(ay, am, ad, 0, 0, 0, 0, loc)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, loc)

	return int(end.Sub(start).Round(24*time.Hour) / (24 * time.Hour))
}
