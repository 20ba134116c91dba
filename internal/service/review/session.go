package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// SessionState names the phases of one study session.
type SessionState string

// Session states. A session starts Idle, becomes InProgress when a non-empty
// queue is loaded, and becomes Complete once every card has been rated.
const (
	SessionIdle       SessionState = "idle"
	SessionInProgress SessionState = "in_progress"
	SessionComplete   SessionState = "complete"
)

// Outcome is one answered card as the session remembers it.
type Outcome struct {
	CardID   uuid.UUID     `json:"card_id"`
	Rating   domain.Rating `json:"rating"`
	XPEarned int           `json:"xp_earned"`
	Duration time.Duration `json:"duration"`
}

// SessionSummary aggregates a session's outcomes. Computed on demand from the
// accumulated outcomes, never stored.
type SessionSummary struct {
	TotalCards     int           `json:"total_cards"`
	CardsReviewed  int           `json:"cards_reviewed"`
	CorrectCount   int           `json:"correct_count"`
	Accuracy       float64       `json:"accuracy"` // 0-1, Good or Easy counts as correct
	TotalXP        int           `json:"total_xp"`
	Duration       time.Duration `json:"duration"`
	AveragePerCard time.Duration `json:"average_per_card"`
}

// Session is the state machine for one user's study session. It owns the
// queue, the cursor, and the flip state, and delegates the persistence of
// each rating to a CardRater.
//
// A Session is not safe for concurrent use. Each session belongs to one user
// on one device; callers must serialize Flip and Rate, since rating the same
// card twice would double-count XP.
type Session struct {
	userID uuid.UUID
	rater  CardRater
	now    func() time.Time

	state      SessionState
	queue      []domain.CardWithProgress
	index      int
	flipped    bool
	outcomes   []Outcome
	startedAt  time.Time
	shownAt    time.Time
	finishedAt time.Time
}

// NewSession creates an idle session for a user. Load a queue to start it.
func NewSession(userID uuid.UUID, rater CardRater) *Session {
	if rater == nil {
		panic("rater cannot be nil")
	}

	return &Session{
		userID: userID,
		rater:  rater,
		now:    time.Now,
		state:  SessionIdle,
	}
}

// State returns the session's current phase.
func (s *Session) State() SessionState {
	return s.state
}

// LoadQueue starts the session over with the given cards: the cursor returns
// to the front, previous outcomes are discarded, and the session timer
// restarts. An empty queue puts the session directly into Complete.
func (s *Session) LoadQueue(cards []domain.CardWithProgress) {
	s.queue = make([]domain.CardWithProgress, len(cards))
	copy(s.queue, cards)

	s.index = 0
	s.flipped = false
	s.outcomes = nil
	s.startedAt = s.now()
	s.shownAt = s.startedAt
	s.finishedAt = time.Time{}

	if len(s.queue) == 0 {
		s.state = SessionComplete
		s.finishedAt = s.startedAt
		return
	}
	s.state = SessionInProgress
}

// GetCurrentCard returns the card at the cursor. The second return value is
// false when there is no current card, so callers can branch to a completion
// screen instead of handling an error.
func (s *Session) GetCurrentCard() (*domain.CardWithProgress, bool) {
	if s.state != SessionInProgress || s.index >= len(s.queue) {
		return nil, false
	}
	card := s.queue[s.index]
	return &card, true
}

// IsFlipped reports whether the current card's answer is revealed.
func (s *Session) IsFlipped() bool {
	return s.flipped
}

// Flip reveals the current card's answer. Returns ErrNoCurrentCard outside an
// active session and ErrAlreadyFlipped if the answer is already showing.
func (s *Session) Flip() error {
	if s.state != SessionInProgress {
		return ErrNoCurrentCard
	}
	if s.flipped {
		return ErrAlreadyFlipped
	}

	s.flipped = true
	return nil
}

// Rate answers the current card and returns the XP earned for it. The card
// must be flipped first. The rating is persisted through the CardRater before
// the cursor advances; if persistence fails the session state is unchanged,
// so the caller can retry the same rating or abort without losing the card.
func (s *Session) Rate(ctx context.Context, rating domain.Rating) (int, error) {
	if s.state != SessionInProgress {
		return 0, ErrNoCurrentCard
	}
	if !s.flipped {
		return 0, ErrNotFlipped
	}
	if !rating.IsValid() {
		return 0, ErrInvalidRating
	}

	current := s.queue[s.index]
	duration := s.now().Sub(s.shownAt)

	rated, err := s.rater.RateCard(ctx, s.userID, &current.Card, rating, duration)
	if err != nil {
		return 0, err
	}

	s.outcomes = append(s.outcomes, Outcome{
		CardID:   current.Card.ID,
		Rating:   rating,
		XPEarned: rated.XPEarned,
		Duration: duration,
	})

	s.index++
	s.flipped = false
	s.shownAt = s.now()
	if s.index >= len(s.queue) {
		s.state = SessionComplete
		s.finishedAt = s.now()
	}

	return rated.XPEarned, nil
}

// IsSessionComplete reports whether every card in the queue has been rated.
// A session that loaded an empty queue is complete immediately.
func (s *Session) IsSessionComplete() bool {
	return s.state == SessionComplete
}

// Summary aggregates the outcomes accumulated so far. It can be called
// mid-session for a progress display; once the session is complete the
// duration stops growing.
func (s *Session) Summary() SessionSummary {
	summary := SessionSummary{
		TotalCards:    len(s.queue),
		CardsReviewed: len(s.outcomes),
	}

	var answered time.Duration
	for _, o := range s.outcomes {
		summary.TotalXP += o.XPEarned
		answered += o.Duration
		if o.Rating.IsCorrect() {
			summary.CorrectCount++
		}
	}

	if len(s.outcomes) > 0 {
		summary.Accuracy = float64(summary.CorrectCount) / float64(len(s.outcomes))
		summary.AveragePerCard = answered / time.Duration(len(s.outcomes))
	}

	switch {
	case s.state == SessionIdle:
	case !s.finishedAt.IsZero():
		summary.Duration = s.finishedAt.Sub(s.startedAt)
	default:
		summary.Duration = s.now().Sub(s.startedAt)
	}

	return summary
}

// Reset discards the queue and outcomes and returns the session to Idle.
// Used when the user navigates away mid-session.
func (s *Session) Reset() {
	s.state = SessionIdle
	s.queue = nil
	s.index = 0
	s.flipped = false
	s.outcomes = nil
	s.startedAt = time.Time{}
	s.shownAt = time.Time{}
	s.finishedAt = time.Time{}
}
