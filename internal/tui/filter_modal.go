package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/itemconsole/internal/filter"
)

// BookmarkStore holds saved filter expressions
type BookmarkStore interface {
	List() ([]filter.Bookmark, error)
	Save(expression string) (bool, error)
}

type bookmarksLoadedMsg struct {
	bookmarks []filter.Bookmark
	err       error
}

type bookmarkSavedMsg struct {
	expression string
	added      bool
	err        error
}

func (m *Model) openFilter() tea.Cmd {
	m.mode = ModeFilter
	m.filterError = ""
	m.bookmarkIdx = -1
	m.filterInput.Focus()
	if e := focusOrder[m.focus]; !e.isButton() {
		m.inputs[e.input].Blur()
	}
	return m.loadBookmarks()
}

// closeFilter leaves the prompt; an applied filter stays visible until the next action
func (m *Model) closeFilter() {
	m.mode = ModeNormal
	m.filterInput.Blur()
	m.filterError = ""
	m.setFocus(m.focus)
	m.refreshPanels()
}

// applyFilter runs the expression against the latest response body.
// An empty expression shows the unfiltered body again.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.clearFilter()
		m.closeFilter()
		return
	}

	result, err := filter.Apply(m.console.Latest().Body, query)
	if err != nil {
		m.filterError = err.Error()
		return
	}

	m.filterResult = result
	m.filterActive = true
	m.filterError = ""
	m.statusMsg = "Filter: " + query
	m.closeFilter()
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filterResult = ""
}

func (m *Model) loadBookmarks() tea.Cmd {
	if m.bookmarks == nil {
		return nil
	}
	store := m.bookmarks
	return func() tea.Msg {
		bookmarks, err := store.List()
		return bookmarksLoadedMsg{bookmarks: bookmarks, err: err}
	}
}

func (m *Model) saveBookmark() tea.Cmd {
	expression := strings.TrimSpace(m.filterInput.Value())
	if m.bookmarks == nil {
		m.filterError = "Bookmarks are disabled"
		return nil
	}
	if expression == "" {
		m.filterError = "Nothing to bookmark"
		return nil
	}
	store := m.bookmarks
	return func() tea.Msg {
		added, err := store.Save(expression)
		return bookmarkSavedMsg{expression: expression, added: added, err: err}
	}
}

func (m *Model) handleBookmarkSaved(msg bookmarkSavedMsg) tea.Cmd {
	if msg.err != nil {
		m.filterError = msg.err.Error()
		return nil
	}
	m.filterError = ""
	if msg.added {
		m.statusMsg = "Bookmarked: " + msg.expression
	} else {
		m.statusMsg = "Already bookmarked: " + msg.expression
	}
	return m.loadBookmarks()
}

// cycleBookmark fills the prompt with the next (delta 1) or previous saved expression
func (m *Model) cycleBookmark(delta int) {
	n := len(m.savedFilters)
	if n == 0 {
		return
	}
	switch {
	case m.bookmarkIdx < 0 && delta > 0:
		m.bookmarkIdx = 0
	case m.bookmarkIdx < 0:
		m.bookmarkIdx = n - 1
	default:
		m.bookmarkIdx = ((m.bookmarkIdx+delta)%n + n) % n
	}
	m.filterInput.SetValue(m.savedFilters[m.bookmarkIdx].Expression)
	m.filterInput.CursorEnd()
}
