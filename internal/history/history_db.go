package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/itemconsole/internal/migrations"
	"github.com/studiowebux/itemconsole/internal/types"
)

// timestampLayout is how timestamps are stored in SQLite (UTC, sortable as text)
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ErrEntryNotFound is returned when deleting an unknown history entry
var ErrEntryNotFound = errors.New("history entry not found")

// Manager archives log entries in SQLite
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save archives one log entry
func (m *Manager) Save(entry *types.LogEntry) error {
	var requestBody sql.NullString
	if len(entry.RequestBody) > 0 {
		data, err := json.Marshal(entry.RequestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = sql.NullString{String: string(data), Valid: true}
	}

	responseBody, err := json.Marshal(entry.Body)
	if err != nil {
		return fmt.Errorf("failed to marshal response body: %w", err)
	}

	query := `
		INSERT INTO history (
			id, timestamp, method, path, url, request_body,
			status, response_body, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = m.db.Exec(query,
		entry.ID,
		entry.Timestamp.UTC().Format(timestampLayout),
		entry.Method,
		entry.Path,
		entry.URL,
		requestBody,
		entry.Status,
		string(responseBody),
		entry.Duration,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Load returns archived entries newest first. limit <= 0 returns everything.
func (m *Manager) Load(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, method, path, url, request_body,
		       status, response_body, duration_ms, error
		FROM history
		ORDER BY timestamp DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// LoadForPath returns archived entries for one request path, newest first.
// limit <= 0 returns everything.
func (m *Manager) LoadForPath(path string, limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, method, path, url, request_body,
		       status, response_body, duration_ms, error
		FROM history
		WHERE path = ?
		ORDER BY timestamp DESC, rowid DESC
	`
	args := []any{path}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for path: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var requestBody sql.NullString
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Method,
			&entry.Path,
			&entry.URL,
			&requestBody,
			&entry.Status,
			&entry.ResponseBody,
			&entry.Duration,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		parsedTime, err := time.Parse(timestampLayout, timestamp)
		if err != nil {
			// Keep rows readable even if the column was edited by hand
			entry.Timestamp = timestamp
		} else {
			entry.Timestamp = parsedTime.Local().Format(time.RFC3339)
		}
		entry.RequestBody = requestBody.String
		entry.Error = errorMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Delete removes one archived entry by id
func (m *Manager) Delete(id string) error {
	result, err := m.db.Exec("DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
