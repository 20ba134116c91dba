package srs

import (
	"github.com/dtd2x/vocabmaster/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MinEaseFactor is the floor the ease factor can never drop below.
	// There is deliberately no upper bound.
	MinEaseFactor float64

	// QualityForRating maps the UI's 1-4 rating scale onto SM-2's 0-5
	// quality scale.
	QualityForRating map[domain.Rating]int

	// FirstInterval and SecondInterval are the fixed intervals (in days) for
	// the first and second consecutive pass of a card.
	FirstInterval  int
	SecondInterval int

	// HardIntervalMultiplier dampens growth on Hard ratings: the new interval
	// is at least ceil(oldInterval * HardIntervalMultiplier).
	HardIntervalMultiplier float64

	// EasyIntervalMultiplier accelerates growth on Easy ratings.
	EasyIntervalMultiplier float64

	// FuzzRange is the half-width of the random fuzz applied to the final
	// interval (0.05 means up to +/-5%). Zero disables fuzzing.
	FuzzRange float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,

		// Again -> 1, Hard -> 3, Good -> 4, Easy -> 5
		QualityForRating: map[domain.Rating]int{
			domain.RatingAgain: 1,
			domain.RatingHard:  3,
			domain.RatingGood:  4,
			domain.RatingEasy:  5,
		},

		FirstInterval:  1,
		SecondInterval: 6,

		HardIntervalMultiplier: 1.2,
		EasyIntervalMultiplier: 1.3,

		FuzzRange: 0.05,
	}
}

// ParamsConfig allows overriding the default parameters.
type ParamsConfig struct {
	MinEaseFactor          float64
	FirstInterval          int
	SecondInterval         int
	HardIntervalMultiplier float64
	EasyIntervalMultiplier float64
	FuzzRange              float64
	DisableFuzz            bool
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.HardIntervalMultiplier > 0 {
		params.HardIntervalMultiplier = config.HardIntervalMultiplier
	}
	if config.EasyIntervalMultiplier > 0 {
		params.EasyIntervalMultiplier = config.EasyIntervalMultiplier
	}
	if config.FuzzRange > 0 {
		params.FuzzRange = config.FuzzRange
	}
	if config.DisableFuzz {
		params.FuzzRange = 0
	}

	return params
}
