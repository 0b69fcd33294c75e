/*
bankholidays.go - Cached bank holiday provider

PURPOSE:
  Supplies the materialized bank-holiday set the working-day calendar
  needs. The engine never fetches anything itself; this package owns
  the fetch and the caching policy, and hands the engine a plain
  HolidaySet.

SOURCES:
  GovUKSource - the gov.uk bank-holidays JSON document, one division
  FileSource  - a JSON array of ISO dates on disk, for air-gapped runs
  StaticSource - a fixed list, for tests

CACHING:
  Cache refreshes from its source when the TTL has elapsed. A failed
  refresh falls back to the previously cached set rather than failing
  the calling workflow - a slightly stale holiday list is preferable
  to blocking a caseload sweep. Only a failure with nothing cached at
  all propagates.
*/
package bankholidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/warp/licence-engine/engine"
)

// Source fetches the current bank holiday list.
type Source interface {
	BankHolidays(ctx context.Context) ([]engine.Date, error)
}

// =============================================================================
// GOV.UK SOURCE
// =============================================================================

// DefaultURL is the public gov.uk bank holidays document.
const DefaultURL = "https://www.gov.uk/bank-holidays.json"

// GovUKSource reads one division from the gov.uk document.
type GovUKSource struct {
	URL      string
	Division string // e.g. "england-and-wales"
	Client   *http.Client
}

// NewGovUKSource creates a source for England and Wales with a
// conservative request timeout.
func NewGovUKSource() *GovUKSource {
	return &GovUKSource{
		URL:      DefaultURL,
		Division: "england-and-wales",
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type govUKDivision struct {
	Division string `json:"division"`
	Events   []struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	} `json:"events"`
}

func (s *GovUKSource) BankHolidays(ctx context.Context) ([]engine.Date, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bank holidays: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching bank holidays: unexpected status %d", resp.StatusCode)
	}

	var doc map[string]govUKDivision
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding bank holidays: %w", err)
	}

	division, ok := doc[s.Division]
	if !ok {
		return nil, fmt.Errorf("bank holidays document has no division %q", s.Division)
	}

	dates := make([]engine.Date, 0, len(division.Events))
	for _, ev := range division.Events {
		d, err := engine.ParseDate(ev.Date)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q (%s): %w", ev.Date, ev.Title, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// StaticSource returns a fixed holiday list.
type StaticSource []engine.Date

func (s StaticSource) BankHolidays(ctx context.Context) ([]engine.Date, error) {
	return s, nil
}

// =============================================================================
// FILE SOURCE
// =============================================================================

// FileSource reads a JSON array of ISO dates from disk, for
// deployments that cannot reach gov.uk.
type FileSource struct {
	Path string
}

func (s FileSource) BankHolidays(ctx context.Context) ([]engine.Date, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading bank holidays file: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding bank holidays file %s: %w", s.Path, err)
	}

	dates := make([]engine.Date, 0, len(raw))
	for _, v := range raw {
		d, err := engine.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q in %s: %w", v, s.Path, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// =============================================================================
// CACHE
// =============================================================================

// Cache wraps a Source with a TTL and stale-data fallback. It
// implements the service's HolidayProvider contract.
type Cache struct {
	source Source
	ttl    time.Duration

	mu        sync.Mutex
	cached    engine.HolidaySet
	fetchedAt time.Time
}

// NewCache wraps source with the given refresh interval.
func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl}
}

// Holidays returns the cached set, refreshing it when stale. A failed
// refresh serves the previous set when one exists.
func (c *Cache) Holidays(ctx context.Context) (engine.HolidaySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	dates, err := c.source.BankHolidays(ctx)
	if err != nil {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = engine.NewHolidaySet(dates...)
	c.fetchedAt = time.Now()
	return c.cached, nil
}
