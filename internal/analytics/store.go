// Package analytics keeps a bounded, persisted, client-only history of
// past chat responses for on-device dashboards. It is never sent to or
// reconciled with the backend. Entries are additive and trimmed, never
// edited in place.
package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/Wanderer0074348/hlm/internal/api"
)

// HistoryLimit caps the retained history to the most recent entries.
const HistoryLimit = 100

// Record is a trimmed copy of one chat response. Response text is not
// retained; only the routing and cost fields the dashboards aggregate.
type Record struct {
	ReceivedAt       time.Time
	SessionID        string
	ModelUsed        string
	RoutingReason    string
	Latency          time.Duration
	CacheHit         bool
	MessageCount     int
	InputTokens      int64
	OutputTokens     int64
	TotalTokens      int64
	TotalCost        float64
	EstimatedSavings float64
}

// FromResponse trims a chat response into a history record.
func FromResponse(r api.ChatResponse) Record {
	rec := Record{
		ReceivedAt:    r.Timestamp,
		SessionID:     r.SessionID,
		ModelUsed:     r.ModelUsed,
		RoutingReason: r.RoutingReason,
		Latency:       r.Latency,
		CacheHit:      r.CacheHit,
		MessageCount:  r.MessageCount,
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now()
	}
	if cm := r.CostMetrics; cm != nil {
		rec.InputTokens = cm.InputTokens
		rec.OutputTokens = cm.OutputTokens
		rec.TotalTokens = cm.TotalTokens
		rec.TotalCost = cm.TotalCost
		rec.EstimatedSavings = cm.EstimatedSavings
	}
	return rec
}

// Store is the SQLite-backed history. One well-known database file
// holds the single bounded list.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the XDG-compliant database location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hlm", "analytics.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hlm", "analytics.db")
}

// Open opens or creates the history database. A corrupt database is
// not an error condition: it is removed and recreated empty, so a
// damaged snapshot silently degrades to no history.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := open(dbPath)
	if err != nil {
		// Corrupt or unreadable snapshot: start over empty.
		_ = os.Remove(dbPath)
		db, err = open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening analytics db: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add appends a record and trims the history to the newest
// HistoryLimit entries in the same transaction.
func (s *Store) Add(r Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cacheHit := 0
	if r.CacheHit {
		cacheHit = 1
	}

	_, err = tx.Exec(`INSERT INTO responses
		(received_at, session_id, model_used, routing_reason, latency_ns,
		 cache_hit, message_count, input_tokens, output_tokens, total_tokens,
		 total_cost, estimated_savings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ReceivedAt.UTC().Format(time.RFC3339Nano), r.SessionID, r.ModelUsed,
		r.RoutingReason, int64(r.Latency), cacheHit, r.MessageCount,
		r.InputTokens, r.OutputTokens, r.TotalTokens, r.TotalCost, r.EstimatedSavings,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM responses WHERE seq NOT IN
		(SELECT seq FROM responses ORDER BY seq DESC LIMIT ?)`, HistoryLimit)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Recent returns the retained history, newest first.
func (s *Store) Recent() ([]Record, error) {
	rows, err := s.db.Query(`SELECT
		received_at, session_id, model_used, routing_reason, latency_ns,
		cache_hit, message_count, input_tokens, output_tokens, total_tokens,
		total_cost, estimated_savings
		FROM responses ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var receivedAt string
		var sessionID, reason sql.NullString
		var latencyNs int64
		var cacheHit int

		err := rows.Scan(&receivedAt, &sessionID, &r.ModelUsed, &reason, &latencyNs,
			&cacheHit, &r.MessageCount, &r.InputTokens, &r.OutputTokens, &r.TotalTokens,
			&r.TotalCost, &r.EstimatedSavings)
		if err != nil {
			return nil, err
		}

		r.ReceivedAt, _ = time.Parse(time.RFC3339Nano, receivedAt)
		r.SessionID = sessionID.String
		r.RoutingReason = reason.String
		r.Latency = time.Duration(latencyNs)
		r.CacheHit = cacheHit != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of retained records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM responses").Scan(&n)
	return n, err
}

// Clear removes all history in one transaction: there is no observable
// state where memory and disk disagree.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM responses")
	return err
}
