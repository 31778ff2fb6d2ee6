package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

type cardFixture struct {
	clock   *biztime.FixedClock
	cards   *fakeCardRepo
	members *fakeMemberRepo
	gen     *sequenceGenerator
	service *CardService
}

func newCardFixture(suffixes ...string) *cardFixture {
	if len(suffixes) == 0 {
		suffixes = []string{"1000001", "1000002", "1000003", "1000004"}
	}
	adultDOB := biztime.Date(1980, time.May, 1)
	youthDOB := biztime.Date(2005, time.May, 1)

	f := &cardFixture{
		clock: biztime.NewFixedClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)),
		cards: newFakeCardRepo(),
		members: &fakeMemberRepo{members: map[uint]*member.Member{
			1: {ID: 1, Email: "ada@example.com", FirstName: "Ada", LastName: "Obi", DateOfBirth: &adultDOB},
			2: {ID: 2, Email: "tolu@example.com", FirstName: "Tolu", LastName: "Ade", DateOfBirth: &youthDOB},
			3: {ID: 3, Email: "kemi@example.com", FirstName: "Kemi", LastName: "Eze"},
		}},
		gen: &sequenceGenerator{suffixes: suffixes},
	}
	f.service = NewCardService(f.cards, f.members, f.gen, f.clock, logger.NewNop())
	return f
}

func TestCardService_GetOrCreate(t *testing.T) {
	f := newCardFixture()
	ctx := context.Background()

	card, holder, err := f.service.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", holder.FirstName)
	assert.Equal(t, "LYA1000001", card.IDNumber())
	assert.True(t, card.FirstTime())
	assert.False(t, card.IsActive())

	again, _, err := f.service.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, card.ID(), again.ID())
	assert.Equal(t, "LYA1000001", again.IDNumber())

	youth, _, err := f.service.GetOrCreate(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "LYY1000002", youth.IDNumber())

	unknownAge, _, err := f.service.GetOrCreate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "LYY1000003", unknownAge.IDNumber())

	_, _, err = f.service.GetOrCreate(ctx, 42)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCardService_RetriesTakenNumbers(t *testing.T) {
	f := newCardFixture("5555555", "5555555", "7777777")
	ctx := context.Background()

	first, _, err := f.service.GetOrCreate(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "LYY5555555", first.IDNumber())

	second, _, err := f.service.GetOrCreate(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "LYY7777777", second.IDNumber())
}

func TestCardService_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newCardFixture("5555555")
	ctx := context.Background()

	_, _, err := f.service.GetOrCreate(ctx, 2)
	require.NoError(t, err)

	_, _, err = f.service.GetOrCreate(ctx, 3)
	assert.ErrorIs(t, err, credential.ErrIDNumberConflict)
	assert.Equal(t, 1+maxIDNumberAttempts, f.gen.calls)
}

func TestCardService_AssignsMissingNumberToExistingCard(t *testing.T) {
	f := newCardFixture()
	blank, err := credential.NewIDCard(1, f.clock.Now())
	require.NoError(t, err)
	f.cards.put(blank)

	card, _, err := f.service.GetOrCreate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "LYA1000001", card.IDNumber())
	assert.Equal(t, "LYA1000001", f.cards.byUser(1).IDNumber())
}

func TestCardService_ActivateForDays(t *testing.T) {
	f := newCardFixture()

	require.NoError(t, f.service.ActivateForDays(context.Background(), 1, 30))

	card := f.cards.byUser(1)
	require.NotNil(t, card)
	assert.True(t, card.IsActive())
	assert.False(t, card.FirstTime())
	assert.False(t, card.Expired())
	require.NotNil(t, card.ExpiredAt())
	assert.Equal(t, biztime.Date(2024, time.April, 9), *card.ExpiredAt())

	err := f.service.ActivateForDays(context.Background(), 1, 0)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGrantDemoMembership_MatchesPaidActivation(t *testing.T) {
	f := newCardFixture()
	ctx := context.Background()
	notifier := notification.NewRecordingNotifier()

	uc := NewGrantDemoMembershipUseCase(f.service, 30, f.clock, logger.NewNop())
	uc.SetNotifier(notifier)

	out, err := uc.Execute(ctx, 1)
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, "Ada", out.FirstName)
	require.NotNil(t, out.DaysRemaining)
	assert.Equal(t, 30, *out.DaysRemaining)

	require.NoError(t, f.service.ActivateForDays(ctx, 2, 30))

	demo, paid := f.cards.byUser(1), f.cards.byUser(2)
	assert.Equal(t, paid.IsActive(), demo.IsActive())
	assert.Equal(t, paid.FirstTime(), demo.FirstTime())
	assert.Equal(t, paid.Expired(), demo.Expired())
	assert.Equal(t, *paid.ExpiredAt(), *demo.ExpiredAt())

	select {
	case <-notifier.Sent():
	case <-time.After(2 * time.Second):
		t.Fatal("demo notification not sent")
	}
	assert.Equal(t, notification.EventMembershipDemoGranted, notifier.Messages()[0].Event)
}

func TestVerifyIDNumber(t *testing.T) {
	f := newCardFixture()
	ctx := context.Background()
	uc := NewVerifyIDNumberUseCase(f.cards, f.members, f.clock, logger.NewNop())

	t.Run("unknown number", func(t *testing.T) {
		out, err := uc.Execute(ctx, "LYA0000000")
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.Equal(t, "Card not found or invalid verification ID", out.Error)
		assert.Equal(t, "LYA0000000", out.CardID)
		assert.Nil(t, out.Data)
	})

	t.Run("never activated card is not expired", func(t *testing.T) {
		card, _, err := f.service.GetOrCreate(ctx, 3)
		require.NoError(t, err)
		require.True(t, card.Expired())

		out, err := uc.Execute(ctx, card.IDNumber())
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.False(t, *out.Expired)
		assert.False(t, f.cards.byUser(3).Expired())
	})

	t.Run("refreshes stale expired flag", func(t *testing.T) {
		require.NoError(t, f.service.ActivateForDays(ctx, 1, 30))
		card := f.cards.byUser(1)

		out, err := uc.Execute(ctx, card.IDNumber())
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.False(t, *out.Expired)
		assert.Equal(t, "Ada", out.Data.FirstName)
		assert.Equal(t, "Obi", out.Data.LastName)
		assert.Equal(t, f.clock.Now(), *out.VerifiedAt)

		// Expiry day itself is still valid.
		f.clock.Set(time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC))
		out, err = uc.Execute(ctx, card.IDNumber())
		require.NoError(t, err)
		assert.False(t, *out.Expired)

		f.clock.Set(time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC))
		out, err = uc.Execute(ctx, card.IDNumber())
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.True(t, *out.Expired)
		assert.True(t, f.cards.byUser(1).Expired())
	})
}

func TestGetMyCard(t *testing.T) {
	f := newCardFixture()
	uc := NewGetMyCardUseCase(f.service, f.clock, logger.NewNop())

	out, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "LYY1000001", out.IDNumber)
	assert.Nil(t, out.DaysRemaining)
	assert.Nil(t, out.ExpiredAt)
	assert.False(t, out.Expired)
}

func TestCountMembers(t *testing.T) {
	f := newCardFixture()
	ctx := context.Background()
	require.NoError(t, f.service.ActivateForDays(ctx, 1, 30))
	_, _, err := f.service.GetOrCreate(ctx, 2)
	require.NoError(t, err)

	out, err := NewCountMembersUseCase(f.cards, logger.NewNop()).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, int64(1), out.Active)
	assert.Equal(t, int64(1), out.Inactive)
}

func TestRegenerateIDNumbers(t *testing.T) {
	f := newCardFixture("2000001", "2000002", "2000003")
	now := f.clock.Now()

	legacy, err := credential.ReconstructIDCard(1, 1, "NTST123456789012", false, true, false, nil, nil, now, now)
	require.NoError(t, err)
	canonical, err := credential.ReconstructIDCard(2, 2, "LYY9999999", false, true, false, nil, nil, now, now)
	require.NoError(t, err)
	orphan, err := credential.ReconstructIDCard(3, 99, "OLD-1", false, false, true, nil, nil, now, now)
	require.NoError(t, err)
	f.cards.rows[1], f.cards.rows[2], f.cards.rows[3] = legacy, canonical, orphan
	f.cards.nextID = 3

	uc := NewRegenerateIDNumbersUseCase(f.cards, f.members, f.gen, f.clock, logger.NewNop())

	dry, err := uc.Execute(context.Background(), RegenerateIDNumbersCommand{DryRun: true, BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Scanned)
	assert.Equal(t, 2, dry.Updated)
	assert.Equal(t, 1, dry.Skipped)
	assert.Equal(t, "NTST123456789012", f.cards.byUser(1).IDNumber())
	assert.Equal(t, "OLD-1", f.cards.byUser(99).IDNumber())

	applied, err := uc.Execute(context.Background(), RegenerateIDNumbersCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, applied.Updated)
	assert.Equal(t, 0, applied.Failed)

	assert.True(t, credential.IsCanonicalIDNumber(f.cards.byUser(1).IDNumber()))
	assert.Equal(t, "LYA", f.cards.byUser(1).IDNumber()[:3])
	assert.Equal(t, "LYY", f.cards.byUser(99).IDNumber()[:3])
	assert.Equal(t, "LYY9999999", f.cards.byUser(2).IDNumber())
}

func TestExpireCredentials(t *testing.T) {
	f := newCardFixture()
	ctx := context.Background()
	require.NoError(t, f.service.ActivateForDays(ctx, 1, 30))
	require.NoError(t, f.service.ActivateForDays(ctx, 2, 90))

	uc := NewExpireCredentialsUseCase(f.cards, f.clock, logger.NewNop())

	n, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.Advance(45 * 24 * time.Hour)
	n, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, f.cards.byUser(1).Expired())
	assert.False(t, f.cards.byUser(2).Expired())

	// already flagged cards are not counted again
	n, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
