package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/itemconsole/internal/config"
	"github.com/studiowebux/itemconsole/internal/migrations"
)

// ItemEndpoint is the endpoint every /items/<id> path is grouped under
const ItemEndpoint = "/items/{id}"

// Stats aggregates the archived calls of one method and endpoint
type Stats struct {
	Method        string      `json:"method" yaml:"method"`
	Endpoint      string      `json:"endpoint" yaml:"endpoint"`
	TotalCalls    int         `json:"totalCalls" yaml:"totalCalls"`
	SuccessCount  int         `json:"successCount" yaml:"successCount"`
	ErrorCount    int         `json:"errorCount" yaml:"errorCount"`
	NetworkErrors int         `json:"networkErrors" yaml:"networkErrors"` // no response received (status 0)
	AvgDurationMs float64     `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDurationMs int64       `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDurationMs int64       `json:"maxDurationMs" yaml:"maxDurationMs"`
	StatusCodes   map[int]int `json:"statusCodes" yaml:"statusCodes"`
	LastCalled    time.Time   `json:"lastCalled" yaml:"lastCalled"`
}

// Manager computes statistics over the history archive
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
	}

	// The history table lives in the same database
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// GetStatsPerEndpoint returns one row per method and endpoint, most recently called first
func (m *Manager) GetStatsPerEndpoint() ([]Stats, error) {
	query := `
		WITH normalized AS (
			SELECT
				method,
				CASE WHEN path LIKE '/items/%' THEN ? ELSE path END AS endpoint,
				status,
				duration_ms,
				timestamp
			FROM history
		),
		status_codes_agg AS (
			SELECT
				method,
				endpoint,
				json_group_object(CAST(status AS TEXT), count) AS status_codes_json
			FROM (
				SELECT method, endpoint, status, COUNT(*) AS count
				FROM normalized
				GROUP BY method, endpoint, status
			)
			GROUP BY method, endpoint
		)
		SELECT
			n.method,
			n.endpoint,
			COUNT(*) AS total_calls,
			SUM(CASE WHEN n.status >= 200 AND n.status < 300 THEN 1 ELSE 0 END) AS success_count,
			SUM(CASE WHEN n.status >= 400 THEN 1 ELSE 0 END) AS error_count,
			SUM(CASE WHEN n.status = 0 THEN 1 ELSE 0 END) AS network_errors,
			AVG(n.duration_ms) AS avg_duration,
			MIN(n.duration_ms) AS min_duration,
			MAX(n.duration_ms) AS max_duration,
			MAX(n.timestamp) AS last_called,
			COALESCE(s.status_codes_json, '{}') AS status_codes_json
		FROM normalized n
		LEFT JOIN status_codes_agg s ON n.method = s.method AND n.endpoint = s.endpoint
		GROUP BY n.method, n.endpoint
		ORDER BY last_called DESC
	`

	rows, err := m.db.Query(query, ItemEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats per endpoint: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var lastCalled sql.NullString
		var statusCodesJSON string

		err := rows.Scan(
			&s.Method,
			&s.Endpoint,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&lastCalled,
			&statusCodesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		if lastCalled.Valid {
			if t, err := time.Parse("2006-01-02T15:04:05.000Z", lastCalled.String); err == nil {
				s.LastCalled = t.Local()
			}
		}

		s.StatusCodes, err = parseStatusCodes(statusCodesJSON)
		if err != nil {
			return nil, err
		}

		statsList = append(statsList, s)
	}

	return statsList, rows.Err()
}

func parseStatusCodes(raw string) (map[int]int, error) {
	var byText map[string]int
	if err := json.Unmarshal([]byte(raw), &byText); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status codes: %w", err)
	}

	codes := make(map[int]int, len(byText))
	for text, count := range byText {
		code, err := strconv.Atoi(text)
		if err != nil {
			continue
		}
		codes[code] = count
	}
	return codes, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
