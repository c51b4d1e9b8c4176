package doistore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
)

// Store manages DOI record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the DOI database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "dois.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LockPath returns the advisory lock file guarding write sessions.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Upsert inserts or replaces a DOI record. Curated author fields on an
// existing row survive a re-ingest of the same DOI.
func (s *Store) Upsert(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	doi := NormalizeDOI(rec.DOI)
	if doi == "" {
		return errors.New("record has no DOI")
	}
	authorsJSON, err := json.Marshal(rec.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO dois (doi, title, journal, published, authors_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(doi) DO UPDATE SET
            title = excluded.title,
            journal = excluded.journal,
            published = excluded.published,
            authors_json = excluded.authors_json,
            updated_at = excluded.updated_at`,
		doi,
		nullableString(rec.Title),
		nullableString(rec.Journal),
		nullableString(rec.Published),
		string(authorsJSON),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert doi: %w", err)
	}
	return nil
}

// Get fetches a DOI record. Returns nil when the DOI is not stored.
func (s *Store) Get(ctx context.Context, doi string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+doiColumns+` FROM dois WHERE doi = ?`, NormalizeDOI(doi))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get doi: %w", err)
	}
	return rec, nil
}

// List returns all stored DOI identifiers in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doi FROM dois ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list dois: %w", err)
	}
	defer rows.Close()

	var dois []string
	for rows.Next() {
		var doi string
		if err := rows.Scan(&doi); err != nil {
			return nil, err
		}
		dois = append(dois, doi)
	}
	return dois, rows.Err()
}

// UpdateAuthors rewrites the institutional author fields of one DOI record.
// An empty author list clears every field. This is the only mutation the
// curation core performs on a stored record.
func (s *Store) UpdateAuthors(ctx context.Context, doi string, update AuthorUpdate) error {
	doi = NormalizeDOI(doi)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var (
		authorsJSON sql.NullString
		firstJSON   sql.NullString
		firstIDJSON sql.NullString
		lastAuthor  sql.NullString
		lastID      sql.NullString
	)
	if len(update.Authors) > 0 {
		encoded, err := json.Marshal(update.Authors)
		if err != nil {
			return fmt.Errorf("marshal jrc authors: %w", err)
		}
		authorsJSON = sql.NullString{String: string(encoded), Valid: true}
		if len(update.FirstAuthor) > 0 {
			encoded, err := json.Marshal(update.FirstAuthor)
			if err != nil {
				return fmt.Errorf("marshal first authors: %w", err)
			}
			firstJSON = sql.NullString{String: string(encoded), Valid: true}
		}
		if len(update.FirstID) > 0 {
			encoded, err := json.Marshal(update.FirstID)
			if err != nil {
				return fmt.Errorf("marshal first ids: %w", err)
			}
			firstIDJSON = sql.NullString{String: string(encoded), Valid: true}
		}
		if update.LastAuthor != "" {
			lastAuthor = sql.NullString{String: update.LastAuthor, Valid: true}
		}
		if update.LastID != "" {
			lastID = sql.NullString{String: update.LastID, Valid: true}
		}
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE dois
         SET jrc_author_json = ?, jrc_first_author_json = ?, jrc_first_id_json = ?,
             jrc_last_author = ?, jrc_last_id = ?, updated_at = ?
         WHERE doi = ?`,
		authorsJSON,
		firstJSON,
		firstIDJSON,
		lastAuthor,
		lastID,
		now,
		doi,
	)
	if err != nil {
		return fmt.Errorf("update authors: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("doi %q not found", doi)
	}
	return nil
}

// AppendAudit records one curation decision. Audit rows are append-only.
func (s *Store) AppendAudit(ctx context.Context, event AuditEvent) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO audit_events (session_id, doi, author, outcome, basis, employee_id, confidence, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.SessionID,
		NormalizeDOI(event.DOI),
		event.Author,
		event.Outcome,
		event.Basis,
		nullableString(event.EmployeeID),
		event.Confidence,
		nullableString(event.Detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// AuditByDOI returns the audit trail for one DOI, oldest first.
func (s *Store) AuditByDOI(ctx context.Context, doi string) ([]AuditEvent, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, doi, author, outcome, basis, employee_id, confidence, detail, created_at
         FROM audit_events WHERE doi = ? ORDER BY id`,
		NormalizeDOI(doi),
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var (
			event      AuditEvent
			employeeID sql.NullString
			confidence sql.NullFloat64
			detail     sql.NullString
			createdRaw string
		)
		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&event.DOI,
			&event.Author,
			&event.Outcome,
			&event.Basis,
			&employeeID,
			&confidence,
			&detail,
			&createdRaw,
		); err != nil {
			return nil, err
		}
		event.EmployeeID = employeeID.String
		event.Confidence = confidence.Float64
		event.Detail = detail.String
		if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			event.CreatedAt = created
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// NormalizeDOI strips resolver URL prefixes and lowercases the identifier.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(strings.ToLower(doi), prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(doi))
}

const doiColumns = "doi, title, journal, published, authors_json, jrc_author_json, jrc_first_author_json, jrc_first_id_json, jrc_last_author, jrc_last_id, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		doi         string
		title       sql.NullString
		journal     sql.NullString
		published   sql.NullString
		authorsJSON string
		jrcAuthors  sql.NullString
		firstJSON   sql.NullString
		firstIDJSON sql.NullString
		lastAuthor  sql.NullString
		lastID      sql.NullString
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&doi,
		&title,
		&journal,
		&published,
		&authorsJSON,
		&jrcAuthors,
		&firstJSON,
		&firstIDJSON,
		&lastAuthor,
		&lastID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		DOI:           doi,
		Title:         title.String,
		Journal:       journal.String,
		Published:     published.String,
		JRCLastAuthor: lastAuthor.String,
		JRCLastID:     lastID.String,
	}
	if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	if jrcAuthors.Valid {
		if err := json.Unmarshal([]byte(jrcAuthors.String), &rec.JRCAuthor); err != nil {
			return nil, fmt.Errorf("decode jrc authors: %w", err)
		}
	}
	if firstJSON.Valid {
		if err := json.Unmarshal([]byte(firstJSON.String), &rec.JRCFirstAuthor); err != nil {
			return nil, fmt.Errorf("decode first authors: %w", err)
		}
	}
	if firstIDJSON.Valid {
		if err := json.Unmarshal([]byte(firstIDJSON.String), &rec.JRCFirstID); err != nil {
			return nil, fmt.Errorf("decode first ids: %w", err)
		}
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
