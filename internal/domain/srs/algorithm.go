package srs

import (
	"math"
	"time"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// passQuality is the SM-2 quality boundary between a failed and a passed
// review. Quality below it resets the repetition streak.
const passQuality = 3

// calculateNewEaseFactor applies the SM-2 ease update
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// clamped to the configured floor and rounded to two decimal places, which is
// the precision the progress store persists.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return math.Round(newEF*100) / 100
}

// calculateNewInterval determines the new interval in days and the new
// repetition count for a review with the given quality.
//
// A failed review (quality < 3) resets repetitions to 0 and sends the card
// back to a 1-day interval. A pass walks the 1 -> 6 -> ceil(interval * EF')
// ladder and increments repetitions.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	newEaseFactor float64,
	quality int,
	params *Params,
) (interval, newRepetitions int) {
	if quality < passQuality {
		return params.FirstInterval, 0
	}

	switch repetitions {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Ceil(float64(currentInterval) * newEaseFactor))
	}

	return interval, repetitions + 1
}

// applyRatingModifier adjusts the candidate interval for Hard and Easy
// ratings. Hard growth is dampened against the pre-update interval; Easy
// growth is accelerated. Good and Again pass through unchanged.
func applyRatingModifier(
	candidate int,
	previousInterval int,
	rating domain.Rating,
	params *Params,
) int {
	switch rating {
	case domain.RatingHard:
		floor := int(math.Ceil(float64(previousInterval) * params.HardIntervalMultiplier))
		if floor > candidate {
			return floor
		}
		return candidate
	case domain.RatingEasy:
		return int(math.Ceil(float64(candidate) * params.EasyIntervalMultiplier))
	default:
		return candidate
	}
}

// applyFuzz perturbs the interval by up to +/-FuzzRange so that cards rated
// on the same day do not all come due on the same future date. The fuzz
// source yields values in [0, 1); 0.5 maps to no perturbation. The result
// never drops below one day.
func applyFuzz(interval int, fuzz float64, params *Params) int {
	if params.FuzzRange > 0 {
		factor := 1 + (fuzz*2-1)*params.FuzzRange
		interval = int(math.Round(float64(interval) * factor))
	}

	if interval < 1 {
		interval = 1
	}

	return interval
}

// calculateNextProgress computes the full post-review progress state. It
// follows the immutable update pattern: the input progress is never modified
// and a fresh CardProgress is returned.
func calculateNextProgress(
	progress *domain.CardProgress,
	rating domain.Rating,
	fuzz float64,
	now time.Time,
	params *Params,
) *domain.CardProgress {
	quality := params.QualityForRating[rating]

	newEF := calculateNewEaseFactor(progress.EaseFactor, quality, params)
	interval, repetitions := calculateNewInterval(
		progress.Interval,
		progress.Repetitions,
		newEF,
		quality,
		params,
	)
	interval = applyRatingModifier(interval, progress.Interval, rating, params)
	interval = applyFuzz(interval, fuzz, params)

	reviewedAt := now
	return &domain.CardProgress{
		UserID:         progress.UserID,
		CardID:         progress.CardID,
		EaseFactor:     newEF,
		Interval:       interval,
		Repetitions:    repetitions,
		Status:         domain.DeriveStatus(repetitions, interval),
		LastReviewedAt: &reviewedAt,
		NextReviewAt:   now.AddDate(0, 0, interval),
		CreatedAt:      progress.CreatedAt,
		UpdatedAt:      now,
	}
}
