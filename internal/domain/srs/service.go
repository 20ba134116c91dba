// Package srs implements the spaced-repetition scheduler: an SM-2 variant
// that maps a 1-4 rating onto new ease factor, interval, repetition count,
// status, and next review time for a card.
package srs

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// Common errors
var (
	ErrNilProgress = errors.New("card progress cannot be nil")
	ErrBadRating   = errors.New("rating must be between 1 and 4")
)

// FuzzSource yields values in [0, 1) that drive the random interval fuzz.
// It is injectable so tests can pin exact intervals (0.5 means no fuzz).
type FuzzSource func() float64

// Service defines the interface for scheduling operations.
type Service interface {
	// Schedule computes the post-review progress state for a rating.
	// The input progress is not modified; a new instance is returned.
	Schedule(
		progress *domain.CardProgress,
		rating domain.Rating,
		now time.Time,
	) (*domain.CardProgress, error)
}

type defaultService struct {
	params *Params
	fuzz   FuzzSource
}

// NewDefaultService creates a scheduler with default parameters and a
// time-seeded fuzz source.
func NewDefaultService() Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &defaultService{
		params: NewDefaultParams(),
		fuzz:   rng.Float64,
	}
}

// NewService creates a scheduler with custom parameters and fuzz source.
// A nil fuzz source disables fuzzing (equivalent to always yielding 0.5).
func NewService(params *Params, fuzz FuzzSource) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	if fuzz == nil {
		fuzz = func() float64 { return 0.5 }
	}
	return &defaultService{
		params: params,
		fuzz:   fuzz,
	}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	progress *domain.CardProgress,
	rating domain.Rating,
	now time.Time,
) (*domain.CardProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if !rating.IsValid() {
		return nil, ErrBadRating
	}

	return calculateNextProgress(progress, rating, s.fuzz(), now, s.params), nil
}
