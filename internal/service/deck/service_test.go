package deck

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/generation"
	"github.com/dtd2x/vocabmaster/internal/store"
)

type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	copied := *deck
	f.decks[deck.ID] = &copied
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	copied := *deck
	return &copied, nil
}

func (f *fakeDeckStore) ListForUser(_ context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	var out []*domain.Deck
	for _, d := range f.decks {
		if d.UserID == userID || d.IsPreset {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeDeckStore) WithTx(*sql.Tx) store.DeckStore { return f }

type fakeCardStore struct {
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) CreateMultiple(_ context.Context, cards []*domain.Card) error {
	for _, c := range cards {
		copied := *c
		f.cards[c.ID] = &copied
	}
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range f.cards {
		if c.DeckID == deckID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) WithTx(*sql.Tx) store.CardStore { return f }

type fakeProgressStore struct {
	initialized map[uuid.UUID]int // deckID -> calls
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{initialized: make(map[uuid.UUID]int)}
}

func (f *fakeProgressStore) FetchDue(
	context.Context, uuid.UUID, *uuid.UUID, time.Time, int,
) ([]domain.CardWithProgress, error) {
	return nil, nil
}

func (f *fakeProgressStore) FetchNew(
	context.Context, uuid.UUID, *uuid.UUID, int,
) ([]domain.CardWithProgress, error) {
	return nil, nil
}

func (f *fakeProgressStore) Get(context.Context, uuid.UUID, uuid.UUID) (*domain.CardProgress, error) {
	return nil, store.ErrProgressNotFound
}

func (f *fakeProgressStore) Update(context.Context, *domain.CardProgress) error { return nil }

func (f *fakeProgressStore) InitializeForDeck(
	_ context.Context,
	_ uuid.UUID,
	deckID uuid.UUID,
) (int, error) {
	f.initialized[deckID]++
	if f.initialized[deckID] == 1 {
		return 5, nil
	}
	return 0, nil
}

func (f *fakeProgressStore) CountByStatus(
	context.Context, uuid.UUID, *uuid.UUID,
) (map[domain.CardStatus]int, error) {
	return nil, nil
}

func (f *fakeProgressStore) DueForecast(
	context.Context, uuid.UUID, time.Time, int,
) ([]store.DueCount, error) {
	return nil, nil
}

func (f *fakeProgressStore) WithTx(*sql.Tx) store.ProgressStore { return f }

type fakeGenerator struct {
	lastReq generation.Request
}

func (f *fakeGenerator) GenerateCards(
	_ context.Context,
	req generation.Request,
) ([]*domain.Card, error) {
	f.lastReq = req

	cards := make([]*domain.Card, req.Count)
	for i := range cards {
		card, err := domain.NewCard(req.DeckID, "front", "back")
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}

type testEnv struct {
	svc      *Service
	decks    *fakeDeckStore
	cards    *fakeCardStore
	progress *fakeProgressStore
	gen      *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		decks:    newFakeDeckStore(),
		cards:    newFakeCardStore(),
		progress: newFakeProgressStore(),
		gen:      &fakeGenerator{},
	}
	env.svc = NewService(env.decks, env.cards, env.progress, env.gen, nil)
	return env
}

func (e *testEnv) addDeck(t *testing.T, userID uuid.UUID, preset bool) *domain.Deck {
	t.Helper()

	deck, err := domain.NewDeck(userID, "Spanish Basics", "", "Spanish")
	require.NoError(t, err)
	deck.IsPreset = preset
	require.NoError(t, e.decks.Create(context.Background(), deck))
	return deck
}

func TestService_DeckOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("OwnerCanRead", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		got, err := env.svc.GetDeck(ctx, owner, deck.ID)
		require.NoError(t, err)
		assert.Equal(t, deck.ID, got.ID)
	})

	t.Run("StrangerCannotRead", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		_, err := env.svc.GetDeck(ctx, stranger, deck.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("AnyoneCanReadPresets", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, true)

		_, err := env.svc.GetDeck(ctx, stranger, deck.ID)
		assert.NoError(t, err)
	})

	t.Run("PresetsCannotBeDeleted", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, true)

		err := env.svc.DeleteDeck(ctx, owner, deck.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("StrangerCannotDelete", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		err := env.svc.DeleteDeck(ctx, stranger, deck.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestService_Cards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("AddAndListCards", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		card, err := env.svc.AddCard(ctx, owner, deck.ID, "hola", "hello", "Hola amigo", "OH-lah")
		require.NoError(t, err)
		assert.Equal(t, "OH-lah", card.Pronunciation)

		cards, err := env.svc.ListCards(ctx, owner, deck.ID)
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})

	t.Run("StrangerCannotAddCards", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		_, err := env.svc.AddCard(ctx, uuid.New(), deck.ID, "hola", "hello", "", "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("DeleteCardChecksDeckOwnership", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)
		card, err := env.svc.AddCard(ctx, owner, deck.ID, "hola", "hello", "", "")
		require.NoError(t, err)

		err = env.svc.DeleteCard(ctx, uuid.New(), card.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		require.NoError(t, env.svc.DeleteCard(ctx, owner, card.ID))
	})
}

func TestService_AdoptDeck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("InitializesProgressOnce", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		created, err := env.svc.AdoptDeck(ctx, owner, deck.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, created)

		// A second adoption is a no-op, not an error.
		created, err = env.svc.AdoptDeck(ctx, owner, deck.ID)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("StrangerCanAdoptPreset", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, true)

		_, err := env.svc.AdoptDeck(ctx, uuid.New(), deck.ID)
		assert.NoError(t, err)
	})

	t.Run("UnknownDeck", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, err := env.svc.AdoptDeck(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestService_GenerateCards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("GeneratesIntoOwnDeck", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		cards, err := env.svc.GenerateCards(ctx, owner, deck.ID, "travel", 3)
		require.NoError(t, err)
		assert.Len(t, cards, 3)
		assert.Equal(t, "Spanish", env.gen.lastReq.Language)
		assert.Equal(t, "travel", env.gen.lastReq.Topic)

		stored, err := env.svc.ListCards(ctx, owner, deck.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
	})

	t.Run("DisabledWithoutGenerator", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		deck := env.addDeck(t, owner, false)

		svc := NewService(env.decks, env.cards, env.progress, nil, nil)
		_, err := svc.GenerateCards(ctx, owner, deck.ID, "travel", 3)
		assert.ErrorIs(t, err, ErrGenerationDisabled)
	})
}
