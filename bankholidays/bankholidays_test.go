package bankholidays_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/licence-engine/bankholidays"
	"github.com/warp/licence-engine/engine"
)

type countingSource struct {
	dates []engine.Date
	err   error
	calls int
}

func (s *countingSource) BankHolidays(ctx context.Context) ([]engine.Date, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.dates, nil
}

func TestCache_ServesWithinTTLWithoutRefetch(t *testing.T) {
	src := &countingSource{dates: []engine.Date{engine.NewDate(2025, time.December, 25)}}
	cache := bankholidays.NewCache(src, time.Hour)

	first, err := cache.Holidays(context.Background())
	require.NoError(t, err)
	second, err := cache.Holidays(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.True(t, first.Contains(engine.NewDate(2025, time.December, 25)))
	assert.True(t, second.Contains(engine.NewDate(2025, time.December, 25)))
}

func TestCache_FailedRefreshFallsBackToStaleSet(t *testing.T) {
	src := &countingSource{dates: []engine.Date{engine.NewDate(2025, time.December, 25)}}
	cache := bankholidays.NewCache(src, 0) // always stale

	_, err := cache.Holidays(context.Background())
	require.NoError(t, err)

	src.err = errors.New("gov.uk unreachable")
	set, err := cache.Holidays(context.Background())
	require.NoError(t, err, "stale data must be served over a fetch failure")
	assert.True(t, set.Contains(engine.NewDate(2025, time.December, 25)))
}

func TestCache_FirstFetchFailurePropagates(t *testing.T) {
	src := &countingSource{err: errors.New("gov.uk unreachable")}
	cache := bankholidays.NewCache(src, time.Hour)

	_, err := cache.Holidays(context.Background())
	assert.Error(t, err)
}

func TestGovUKSource_ParsesDivisionEvents(t *testing.T) {
	doc := `{
		"england-and-wales": {
			"division": "england-and-wales",
			"events": [
				{"title": "Christmas Day", "date": "2025-12-25"},
				{"title": "Boxing Day", "date": "2025-12-26"}
			]
		},
		"scotland": {"division": "scotland", "events": []}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	src := bankholidays.NewGovUKSource()
	src.URL = srv.URL

	dates, err := src.BankHolidays(context.Background())
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-12-25", dates[0].String())
	assert.Equal(t, "2025-12-26", dates[1].String())
}

func TestGovUKSource_MissingDivision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	src := bankholidays.NewGovUKSource()
	src.URL = srv.URL

	_, err := src.BankHolidays(context.Background())
	assert.Error(t, err)
}

func TestFileSource_ReadsISODates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`["2025-12-25", "2025-12-26"]`), 0o644))

	dates, err := bankholidays.FileSource{Path: path}.BankHolidays(context.Background())
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "2025-12-25", dates[0].String())
}

func TestFileSource_RejectsBadDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not-a-date"]`), 0o644))

	_, err := bankholidays.FileSource{Path: path}.BankHolidays(context.Background())
	assert.Error(t, err)
}
