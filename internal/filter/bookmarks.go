package filter

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/itemconsole/internal/migrations"
)

// ErrBookmarkNotFound is returned when deleting an unknown bookmark
var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark represents a saved filter expression
type Bookmark struct {
	ID         int       `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// BookmarkManager handles filter bookmark persistence
type BookmarkManager struct {
	db *sql.DB
}

// NewBookmarkManager opens the console database and applies pending migrations
func NewBookmarkManager(dbPath string) (*BookmarkManager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create bookmark directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &BookmarkManager{db: db}, nil
}

// Save adds a new bookmark. It reports false when the expression was already saved.
func (m *BookmarkManager) Save(expression string) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false, fmt.Errorf("expression cannot be empty")
	}

	result, err := m.db.Exec(`
		INSERT OR IGNORE INTO filter_bookmarks (expression, created_at)
		VALUES (?, CURRENT_TIMESTAMP)
	`, expression)
	if err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check save result: %w", err)
	}

	return rows > 0, nil
}

// Delete removes a bookmark by ID
func (m *BookmarkManager) Delete(id int) error {
	result, err := m.db.Exec("DELETE FROM filter_bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if rows == 0 {
		return ErrBookmarkNotFound
	}

	return nil
}

// List returns all bookmarks, newest first
func (m *BookmarkManager) List() ([]Bookmark, error) {
	return m.query(`
		SELECT id, expression, created_at
		FROM filter_bookmarks
		ORDER BY created_at DESC, id DESC
	`)
}

// Search filters bookmarks by substring match (case-insensitive)
func (m *BookmarkManager) Search(query string) ([]Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.List()
	}

	return m.query(`
		SELECT id, expression, created_at
		FROM filter_bookmarks
		WHERE expression LIKE ?
		ORDER BY created_at DESC, id DESC
	`, "%"+query+"%")
}

func (m *BookmarkManager) query(query string, args ...any) ([]Bookmark, error) {
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.Expression, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Close closes the database connection
func (m *BookmarkManager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
