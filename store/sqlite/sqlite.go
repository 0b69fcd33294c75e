/*
Package sqlite provides the SQLite-backed licence store.

PURPOSE:
  Production implementation of the licence.Store contract. Holds the
  persisted licence records that fresh sentence snapshots are compared
  against, plus the caseload listing the API serves. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

SCHEMA NOTES:
  - Dates are stored as ISO strings (2006-01-02). NULL means absent,
    which is a meaningful state for several dates, so NULLs round-trip
    to nil pointers exactly.
  - Conditions are a small JSON array per licence; they are only ever
    read and written as a unit, so a column beats a join table here.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/licences.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - licence/service.go: Store interface definition
  - licence/memstore.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
)

// Store implements licence.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS licences (
		id TEXT PRIMARY KEY,
		booking_id INTEGER NOT NULL,
		noms_id TEXT NOT NULL,
		forename TEXT,
		surname TEXT,
		kind TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		licence_start_date TEXT,
		licence_expiry_date TEXT,
		sentence_start_date TEXT,
		sentence_end_date TEXT,
		conditional_release_date TEXT,
		actual_release_date TEXT,
		topup_supervision_start TEXT,
		topup_supervision_expiry TEXT,
		post_recall_release_date TEXT,
		hdc_actual_date TEXT,
		hdc_end_date TEXT,
		conditions_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_licences_booking
		ON licences(booking_id);
	CREATE INDEX IF NOT EXISTS idx_licences_status
		ON licences(status);

	-- Caseload listing is ordered by who releases next
	CREATE INDEX IF NOT EXISTS idx_licences_start_date
		ON licences(licence_start_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LICENCE CRUD
// =============================================================================

const licenceColumns = `id, booking_id, noms_id, forename, surname, kind, type, status,
	licence_start_date, licence_expiry_date, sentence_start_date, sentence_end_date,
	conditional_release_date, actual_release_date, topup_supervision_start,
	topup_supervision_expiry, post_recall_release_date, hdc_actual_date, hdc_end_date,
	conditions_json, created_at, updated_at`

// Save upserts a licence record.
func (s *Store) Save(ctx context.Context, lic *licence.Licence) error {
	conditions, err := json.Marshal(lic.Conditions)
	if err != nil {
		return fmt.Errorf("encoding conditions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO licences (`+licenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			booking_id = excluded.booking_id,
			noms_id = excluded.noms_id,
			forename = excluded.forename,
			surname = excluded.surname,
			kind = excluded.kind,
			type = excluded.type,
			status = excluded.status,
			licence_start_date = excluded.licence_start_date,
			licence_expiry_date = excluded.licence_expiry_date,
			sentence_start_date = excluded.sentence_start_date,
			sentence_end_date = excluded.sentence_end_date,
			conditional_release_date = excluded.conditional_release_date,
			actual_release_date = excluded.actual_release_date,
			topup_supervision_start = excluded.topup_supervision_start,
			topup_supervision_expiry = excluded.topup_supervision_expiry,
			post_recall_release_date = excluded.post_recall_release_date,
			hdc_actual_date = excluded.hdc_actual_date,
			hdc_end_date = excluded.hdc_end_date,
			conditions_json = excluded.conditions_json,
			updated_at = excluded.updated_at`,
		lic.ID.String(), lic.BookingID, lic.NomsID, lic.Forename, lic.Surname,
		string(lic.Kind), string(lic.Type), string(lic.Status),
		nullDate(lic.LicenceStartDate), nullDate(lic.LicenceExpiryDate),
		nullDate(lic.SentenceStartDate), nullDate(lic.SentenceEndDate),
		nullDate(lic.ConditionalReleaseDate), nullDate(lic.ActualReleaseDate),
		nullDate(lic.TopupSupervisionStart), nullDate(lic.TopupSupervisionExpiry),
		nullDate(lic.PostRecallReleaseDate), nullDate(lic.HDCActualDate),
		nullDate(lic.HDCEndDate),
		string(conditions),
		lic.CreatedAt.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Get loads one licence by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*licence.Licence, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+licenceColumns+` FROM licences WHERE id = ?`, id.String())
	lic, err := scanLicence(row)
	if err == sql.ErrNoRows {
		return nil, licence.ErrLicenceNotFound
	}
	return lic, err
}

// ListLive returns every licence not yet retired, ordered by licence
// start date with undated records last.
func (s *Store) ListLive(ctx context.Context) ([]*licence.Licence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+licenceColumns+` FROM licences
		WHERE status != ?
		ORDER BY licence_start_date IS NULL, licence_start_date, created_at`,
		string(engine.StatusInactive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*licence.Licence
	for rows.Next() {
		lic, err := scanLicence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lic)
	}
	return out, rows.Err()
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicence(row rowScanner) (*licence.Licence, error) {
	var (
		lic        licence.Licence
		id         string
		kind       string
		typ        string
		status     string
		dates      [11]sql.NullString
		conditions string
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&id, &lic.BookingID, &lic.NomsID, &lic.Forename, &lic.Surname,
		&kind, &typ, &status,
		&dates[0], &dates[1], &dates[2], &dates[3], &dates[4], &dates[5],
		&dates[6], &dates[7], &dates[8], &dates[9], &dates[10],
		&conditions, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	lic.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("bad licence id %q: %w", id, err)
	}
	lic.Kind = engine.LicenceKind(kind)
	lic.Type = engine.LicenceType(typ)
	lic.Status = engine.LicenceStatus(status)

	targets := []**engine.Date{
		&lic.LicenceStartDate, &lic.LicenceExpiryDate,
		&lic.SentenceStartDate, &lic.SentenceEndDate,
		&lic.ConditionalReleaseDate, &lic.ActualReleaseDate,
		&lic.TopupSupervisionStart, &lic.TopupSupervisionExpiry,
		&lic.PostRecallReleaseDate, &lic.HDCActualDate, &lic.HDCEndDate,
	}
	for i, target := range targets {
		if *target, err = parseNullDate(dates[i]); err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal([]byte(conditions), &lic.Conditions); err != nil {
		return nil, fmt.Errorf("decoding conditions: %w", err)
	}
	if lic.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if lic.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return &lic, nil
}

func nullDate(d *engine.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(ns sql.NullString) (*engine.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := engine.ParseDate(ns.String)
	if err != nil {
		return nil, fmt.Errorf("bad stored date %q: %w", ns.String, err)
	}
	return d.Ptr(), nil
}
