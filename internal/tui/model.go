package tui

import (
	"context"
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/filter"
	"github.com/studiowebux/itemconsole/internal/keybinds"
	"github.com/studiowebux/itemconsole/internal/session"
	"github.com/studiowebux/itemconsole/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeHistory
)

// historyLimit is the number of archived entries loaded into the viewer
const historyLimit = 100

// HistoryStore is the persistent archive shown in the history viewer
type HistoryStore interface {
	Load(limit int) ([]types.HistoryEntry, error)
	Clear() error
}

// Options wires the model to its collaborators. Only Console is required.
type Options struct {
	Console   *console.Console
	Keybinds  *keybinds.Registry
	History   HistoryStore
	Bookmarks BookmarkStore
	Session   *session.Manager
	Clipboard func(string) error

	// NoColor disables JSON syntax highlighting
	NoColor bool
}

// Model represents the TUI state
type Model struct {
	console    *console.Console
	keybinds   *keybinds.Registry
	history    HistoryStore
	bookmarks  BookmarkStore
	sessionMgr *session.Manager
	copyText   func(string) error
	plain      bool

	mode   Mode
	ctx    context.Context
	cancel context.CancelFunc

	// Forms
	inputs []textinput.Model
	focus  int

	// Panels
	latestView viewport.Model
	logView    viewport.Model

	// Requests in flight
	pending int

	// Filter state
	filterInput  textinput.Model
	filterResult string
	filterError  string
	filterActive bool

	// Saved filter expressions, cycled with up/down in the prompt
	savedFilters []filter.Bookmark
	bookmarkIdx  int

	// History viewer
	historyList  list.Model
	historyError string

	// Session file watch
	watchCh chan string

	width     int
	height    int
	statusMsg string
	errorMsg  string
}

// New creates a new TUI model
func New(opts Options) *Model {
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	ctx, cancel := context.WithCancel(context.Background())

	filterInput := textinput.New()
	filterInput.Prompt = "JMESPath> "
	filterInput.Placeholder = "message"
	filterInput.CharLimit = 256

	m := &Model{
		console:     opts.Console,
		keybinds:    registry,
		history:     opts.History,
		bookmarks:   opts.Bookmarks,
		sessionMgr:  opts.Session,
		copyText:    copyText,
		plain:       opts.NoColor,
		mode:        ModeNormal,
		ctx:         ctx,
		cancel:      cancel,
		inputs:      newInputs(),
		latestView:  viewport.New(80, 10),
		logView:     viewport.New(80, 10),
		filterInput: filterInput,
		historyList: newHistoryList(),
	}

	m.inputs[fieldBaseURL].SetValue(opts.Console.StoredBaseURL())
	m.setIDFields(opts.Console.IDs())
	m.inputs[fieldBaseURL].Focus()
	m.refreshPanels()

	return m
}

// Init starts the session watcher when a session manager is wired
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.sessionMgr != nil {
		m.watchCh = make(chan string, 1)
		go m.watchSession()
		cmds = append(cmds, m.waitForBaseURL())
	}
	return tea.Batch(cmds...)
}

// Cleanup stops background work. In-flight requests finish on their own.
func (m *Model) Cleanup() {
	m.cancel()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewports()

	case requestDoneMsg:
		m.handleRequestDone(msg)

	case baseURLChangedMsg:
		// our own saves come back through the watcher too
		if msg.url != m.value(fieldBaseURL) && m.Focused() != ElementBaseURL {
			m.inputs[fieldBaseURL].SetValue(msg.url)
			m.statusMsg = "Base URL reloaded from session file"
		}
		cmd = m.waitForBaseURL()

	case historyLoadedMsg:
		m.setHistoryEntries(msg.entries, msg.err)

	case bookmarksLoadedMsg:
		if msg.err != nil {
			log.Printf("failed to load bookmarks: %v", msg.err)
		} else {
			m.savedFilters = msg.bookmarks
			m.bookmarkIdx = -1
		}

	case bookmarkSavedMsg:
		cmd = m.handleBookmarkSaved(msg)

	case historyClearedMsg:
		if msg.err != nil {
			m.historyError = msg.err.Error()
		} else {
			m.setHistoryEntries(nil, nil)
			m.statusMsg = "History cleared"
		}

	case copyDoneMsg:
		if msg.err != nil {
			m.errorMsg = "Failed to copy to clipboard: " + msg.err.Error()
		} else {
			m.errorMsg = ""
			m.statusMsg = "Response copied to clipboard"
		}

	default:
		// cursor blink and other input housekeeping
		if e := focusOrder[m.focus]; m.mode == ModeNormal && !e.isButton() {
			m.inputs[e.input], cmd = m.inputs[e.input].Update(msg)
		}
	}

	return m, cmd
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHistory:
		return m.renderHistory()
	default:
		return m.renderMain()
	}
}

type requestDoneMsg struct {
	call  *console.Call
	entry *types.LogEntry
}

type baseURLChangedMsg struct {
	url string
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	err     error
}

type historyClearedMsg struct {
	err error
}

type copyDoneMsg struct {
	err error
}

// watchSession forwards session file reloads to the event loop until Cleanup
func (m *Model) watchSession() {
	err := m.sessionMgr.Watch(m.ctx, func(baseURL string) {
		select {
		case m.watchCh <- baseURL:
		default:
		}
	})
	if err != nil {
		log.Printf("session watch stopped: %v", err)
	}
}

func (m *Model) waitForBaseURL() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case url := <-ch:
			return baseURLChangedMsg{url: url}
		case <-ctx.Done():
			return nil
		}
	}
}
