package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/keybinds"
	"github.com/studiowebux/itemconsole/internal/types"
)

// historyItem adapts an archived entry to the list component
type historyItem struct {
	entry types.HistoryEntry
}

func (i historyItem) FilterValue() string {
	return i.entry.Method + " " + i.entry.Path
}

func (i historyItem) statusText() string {
	if i.entry.Status == types.StatusNetworkError {
		return "ERR"
	}
	return fmt.Sprintf("%d", i.entry.Status)
}

// historyDelegate renders one line per entry
type historyDelegate struct{}

func (d historyDelegate) Height() int                             { return 1 }
func (d historyDelegate) Spacing() int                            { return 0 }
func (d historyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d historyDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(historyItem)
	if !ok {
		return
	}

	status := statusStyle(i.entry.Status, false).Render(i.statusText())
	line := fmt.Sprintf("%s  %-6s %s  %s", i.entry.Timestamp, i.entry.Method, status, i.entry.Path)

	if index == m.Index() {
		fmt.Fprint(w, styleSelected.Render("> "+line))
		return
	}
	fmt.Fprint(w, "  "+line)
}

func newHistoryList() list.Model {
	l := list.New(nil, historyDelegate{}, 80, 14)
	l.Title = "History"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = styleTitle
	return l
}

// openHistory switches to the history viewer and loads the archive
func (m *Model) openHistory() tea.Cmd {
	m.mode = ModeHistory
	m.historyError = ""
	if m.history == nil {
		m.historyError = "History is disabled"
		m.historyList.SetItems(nil)
		return nil
	}

	store := m.history
	return func() tea.Msg {
		entries, err := store.Load(historyLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) clearHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	store := m.history
	return func() tea.Msg {
		return historyClearedMsg{err: store.Clear()}
	}
}

func (m *Model) setHistoryEntries(entries []types.HistoryEntry, err error) {
	if err != nil {
		m.historyError = fmt.Sprintf("Failed to load history: %v", err)
		return
	}
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}
	m.historyList.SetItems(items)
	m.historyList.Select(0)
}

// selectedHistoryEntry returns the entry under the cursor
func (m *Model) selectedHistoryEntry() (types.HistoryEntry, bool) {
	item, ok := m.historyList.SelectedItem().(historyItem)
	if !ok {
		return types.HistoryEntry{}, false
	}
	return item.entry, true
}

// renderHistory renders the list with a preview of the selected entry
func (m *Model) renderHistory() string {
	listWidth := m.width/2 - 2
	previewWidth := m.width - listWidth - 6
	height := m.height - 4

	m.historyList.SetSize(listWidth, height)

	var left string
	if m.historyError != "" {
		left = styleError.Render(m.historyError)
	} else if len(m.historyList.Items()) == 0 {
		left = styleTitle.Render("History") + "\n\n" + styleSubtle.Render("No archived requests")
	} else {
		left = m.historyList.View()
	}

	var preview strings.Builder
	if entry, ok := m.selectedHistoryEntry(); ok {
		preview.WriteString(styleTitle.Render(entry.Method+" "+entry.URL) + "\n")
		if entry.Status == types.StatusNetworkError {
			preview.WriteString(styleError.Render(console.LabelRequestFailed))
		} else {
			preview.WriteString(statusStyle(entry.Status, false).Render(console.StatusLabel(entry.Status)))
		}
		preview.WriteString(styleSubtle.Render("  " + executor.FormatDuration(entry.Duration)))
		preview.WriteString("\n\n")
		if entry.RequestBody != "" {
			preview.WriteString(styleSubtle.Render("Request") + "\n")
			preview.WriteString(m.highlightJSON(console.PrettyJSON(console.ParseBody(entry.RequestBody))) + "\n\n")
		}
		preview.WriteString(styleSubtle.Render("Response") + "\n")
		preview.WriteString(m.highlightJSON(console.PrettyJSON(console.ParseBody(entry.ResponseBody))))
	}

	box := func(content string, width int) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(width).
			Height(height).
			Render(content)
	}

	footer := styleSubtle.Render(fmt.Sprintf("%s/%s: navigate • %s: clear history • %s: close",
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionNavigateUp),
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionNavigateDown),
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionHistoryClear),
		m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionClose),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, box(left, listWidth), box(preview.String(), previewWidth)),
		footer,
	)
}
