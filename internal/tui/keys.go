package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/itemconsole/internal/keybinds"
)

// handleKeyPress routes a key to the handler of the current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys while the forms are shown
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextForm, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuit:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionSubmit:
			return m.activate(m.Focused())
		case keybinds.ActionFocusNext:
			m.setFocus(m.focus + 1)
			return nil
		case keybinds.ActionFocusPrev:
			m.setFocus(m.focus - 1)
			return nil
		case keybinds.ActionSaveURL:
			return m.activate(ElementSaveBaseURL)
		case keybinds.ActionSample:
			return m.activate(ElementPopulateSample)
		case keybinds.ActionClearLog:
			return m.activate(ElementClearLog)
		case keybinds.ActionCopy:
			return m.copyLatest()
		case keybinds.ActionFilter:
			return m.openFilter()
		case keybinds.ActionHistory:
			return m.openHistory()
		}
	}

	e := focusOrder[m.focus]
	if e.isButton() {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[e.input], cmd = m.inputs[e.input].Update(msg)
	if isIDField(e.input) {
		m.console.SetIDs(m.idFields())
	}
	return cmd
}

// handleFilterKeys handles the JMESPath prompt
func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextModal, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuit:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionClose:
			m.closeFilter()
			return nil
		case keybinds.ActionSubmit:
			m.applyFilter()
			return nil
		case keybinds.ActionBookmark:
			return m.saveBookmark()
		case keybinds.ActionNavigateUp:
			m.cycleBookmark(-1)
			return nil
		case keybinds.ActionNavigateDown:
			m.cycleBookmark(1)
			return nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

// handleHistoryKeys handles the history viewer
func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextModal, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuit:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionClose, keybinds.ActionHistory:
			m.mode = ModeNormal
			return nil
		case keybinds.ActionHistoryClear:
			return m.clearHistory()
		case keybinds.ActionNavigateUp:
			m.historyList.CursorUp()
			return nil
		case keybinds.ActionNavigateDown:
			m.historyList.CursorDown()
			return nil
		}
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return cmd
}
