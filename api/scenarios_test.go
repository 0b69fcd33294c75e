/*
scenarios_test.go - Demo scenario loaders

Every scenario must load cleanly against a fresh server, whatever the
clock says, since the dates are anchored to the service clock.
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/licence-engine/engine"
)

func TestEveryScenarioLoads(t *testing.T) {
	for _, s := range Scenarios() {
		t.Run(s.ID, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, s.Load(context.Background(), f.handler))
		})
	}
}

func TestScenariosLoadOnAnyClockDay(t *testing.T) {
	days := []engine.Date{
		engine.NewDate(2025, time.June, 2),
		engine.NewDate(2025, time.December, 24),
		engine.NewDate(2026, time.February, 28),
	}
	for _, day := range days {
		t.Run(day.String(), func(t *testing.T) {
			f := newFixture(t)
			f.handler.Service.Clock = engine.FixedClock{Day: day}
			for _, s := range Scenarios() {
				require.NoError(t, s.Load(context.Background(), f.handler), s.ID)
			}
		})
	}
}

func TestSnapshotBookReplacesSnapshots(t *testing.T) {
	book := NewSnapshotBook()
	snap := activeSnapshot(42)
	book.Put(snap)

	got, err := book.SentenceSnapshot(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got.ConditionalReleaseDate)

	crd := engine.NewDate(2025, time.June, 20)
	snap.ConditionalReleaseDate = crd.Ptr()
	book.Put(snap)

	got, err = book.SentenceSnapshot(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, got.ConditionalReleaseDate)
	assert.Equal(t, "2025-06-20", got.ConditionalReleaseDate.String())

	_, err = book.SentenceSnapshot(context.Background(), 43)
	assert.Error(t, err)
}
