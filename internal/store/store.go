// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists successful drafts and generated opportunities
// in a SQLite database. The store sits on the caller side of the
// pipeline boundary: the pipeline itself never touches it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	dbFile         = "outreach.db"
	defaultDataDir = "data"
)

// Store manages the outreach SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dataDir/outreach.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL,
			paper_title TEXT NOT NULL,
			investigator TEXT,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			domain TEXT NOT NULL,
			description TEXT NOT NULL,
			paper_url TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_domain ON opportunities(domain)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveDraft stores a successful pipeline result and returns its row ID.
// The generation result is stored as JSON.
func (s *Store) SaveDraft(draft types.Draft) (int64, error) {
	resultJSON, err := json.Marshal(draft.Result)
	if err != nil {
		return 0, fmt.Errorf("encoding result: %w", err)
	}

	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`INSERT INTO drafts (reference, paper_title, investigator, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		draft.Reference, draft.PaperTitle, draft.Investigator, string(resultJSON), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting draft: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading draft id: %w", err)
	}
	return id, nil
}

// GetDraft returns one draft by ID.
func (s *Store) GetDraft(id int64) (types.Draft, error) {
	row := s.db.QueryRow(
		`SELECT id, reference, paper_title, investigator, result, created_at FROM drafts WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return types.Draft{}, fmt.Errorf("draft %d not found", id)
	}
	if err != nil {
		return types.Draft{}, fmt.Errorf("reading draft %d: %w", id, err)
	}
	return draft, nil
}

// ListDrafts returns all drafts, newest first.
func (s *Store) ListDrafts() ([]types.Draft, error) {
	rows, err := s.db.Query(
		`SELECT id, reference, paper_title, investigator, result, created_at FROM drafts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	var drafts []types.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (types.Draft, error) {
	var draft types.Draft
	var resultJSON, createdAt string
	if err := row.Scan(&draft.ID, &draft.Reference, &draft.PaperTitle, &draft.Investigator, &resultJSON, &createdAt); err != nil {
		return types.Draft{}, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &draft.Result); err != nil {
		return types.Draft{}, fmt.Errorf("decoding result: %w", err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return types.Draft{}, fmt.Errorf("parsing created_at: %w", err)
	}
	draft.CreatedAt = t
	return draft, nil
}

// SaveOpportunity stores one feed entry and returns its row ID.
func (s *Store) SaveOpportunity(opp types.Opportunity) (int64, error) {
	createdAt := opp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`INSERT INTO opportunities (title, domain, description, paper_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		opp.Title, opp.Domain, opp.Description, opp.PaperURL, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting opportunity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading opportunity id: %w", err)
	}
	return id, nil
}

// ListOpportunities returns opportunities, newest first. An empty domain
// returns all domains.
func (s *Store) ListOpportunities(domain string) ([]types.Opportunity, error) {
	query := `SELECT id, title, domain, description, paper_url, created_at FROM opportunities`
	var args []any
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}
	defer rows.Close()

	var opps []types.Opportunity
	for rows.Next() {
		var opp types.Opportunity
		var createdAt string
		if err := rows.Scan(&opp.ID, &opp.Title, &opp.Domain, &opp.Description, &opp.PaperURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		opp.CreatedAt = t
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// HasRecentOpportunity reports whether an opportunity with the given
// title already exists, so repeated feed runs do not duplicate entries.
func (s *Store) HasRecentOpportunity(title string) (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM opportunities WHERE title = ?`, title).Scan(&count); err != nil {
		return false, fmt.Errorf("checking opportunity: %w", err)
	}
	return count > 0, nil
}

// ExportDraft writes one draft as YAML.
func (s *Store) ExportDraft(id int64, w io.Writer) error {
	draft, err := s.GetDraft(id)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(draft); err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return nil
}
