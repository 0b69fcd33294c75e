package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(y int, m time.Month, d int) *engine.Date {
	dt := engine.NewDate(y, m, d)
	return &dt
}

func sampleLicence() *licence.Licence {
	return &licence.Licence{
		ID:                     uuid.New(),
		BookingID:              54321,
		NomsID:                 "A1234BC",
		Forename:               "Jane",
		Surname:                "Doe",
		Kind:                   engine.KindStandard,
		Type:                   engine.TypeAllPurpose,
		Status:                 engine.StatusInProgress,
		LicenceStartDate:       date(2025, time.June, 20),
		LicenceExpiryDate:      date(2026, time.June, 20),
		ConditionalReleaseDate: date(2025, time.June, 20),
		SentenceEndDate:        date(2026, time.June, 20),
		Conditions: []licence.Condition{
			{Code: "9ae", Text: "Not to approach the victim."},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lic := sampleLicence()
	require.NoError(t, store.Save(ctx, lic))

	got, err := store.Get(ctx, lic.ID)
	require.NoError(t, err)

	assert.Equal(t, lic.BookingID, got.BookingID)
	assert.Equal(t, lic.NomsID, got.NomsID)
	assert.Equal(t, engine.KindStandard, got.Kind)
	assert.Equal(t, engine.StatusInProgress, got.Status)
	assert.True(t, engine.DatesEqual(lic.LicenceStartDate, got.LicenceStartDate))
	assert.True(t, engine.DatesEqual(lic.LicenceExpiryDate, got.LicenceExpiryDate))
	// Absent dates stay absent
	assert.Nil(t, got.ActualReleaseDate)
	assert.Nil(t, got.HDCActualDate)
	require.Len(t, got.Conditions, 1)
	assert.Equal(t, "9ae", got.Conditions[0].Code)
}

func TestGetUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, licence.ErrLicenceNotFound)
}

func TestSaveIsAnUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lic := sampleLicence()
	require.NoError(t, store.Save(ctx, lic))

	lic.Status = engine.StatusApproved
	lic.LicenceExpiryDate = date(2026, time.September, 1)
	require.NoError(t, store.Save(ctx, lic))

	got, err := store.Get(ctx, lic.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusApproved, got.Status)
	assert.Equal(t, "2026-09-01", got.LicenceExpiryDate.String())
}

func TestListLiveExcludesInactive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	later := sampleLicence()
	later.LicenceStartDate = date(2025, time.July, 4)
	require.NoError(t, store.Save(ctx, later))

	sooner := sampleLicence()
	sooner.LicenceStartDate = date(2025, time.June, 13)
	require.NoError(t, store.Save(ctx, sooner))

	retired := sampleLicence()
	retired.Status = engine.StatusInactive
	require.NoError(t, store.Save(ctx, retired))

	live, err := store.ListLive(ctx)
	require.NoError(t, err)
	require.Len(t, live, 2)
	// Soonest release first
	assert.Equal(t, sooner.ID, live[0].ID)
	assert.Equal(t, later.ID, live[1].ID)
}
