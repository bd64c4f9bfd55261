package tui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
)

// activate runs the control or submits the form with the given element id
func (m *Model) activate(id string) tea.Cmd {
	switch id {
	case ElementBaseURL, ElementSaveBaseURL:
		m.saveBaseURL()
		return nil
	case ElementPopulateSample:
		m.setCreateForm(m.console.SampleForm())
		return m.submit(console.ActionCreate, console.Input{Form: m.createForm()})
	case ElementClearLog:
		m.console.ClearLog()
		m.clearFilter()
		m.statusMsg = "Log cleared"
		m.errorMsg = ""
		m.refreshPanels()
		return nil
	case ElementCreateForm:
		return m.submit(console.ActionCreate, console.Input{Form: m.createForm()})
	case ElementReadForm:
		return m.submit(console.ActionRead, console.Input{ID: m.value(fieldReadID)})
	case ElementUpdateForm:
		return m.submit(console.ActionUpdate, console.Input{ID: m.value(fieldUpdateID), Form: m.updateForm()})
	case ElementDeleteForm:
		return m.submit(console.ActionDelete, console.Input{ID: m.value(fieldDeleteID)})
	}
	return nil
}

func (m *Model) saveBaseURL() {
	m.clearFilter()
	if err := m.console.SaveBaseURL(m.value(fieldBaseURL)); err != nil {
		m.errorMsg = err.Error()
		m.statusMsg = ""
	} else {
		m.errorMsg = ""
		m.statusMsg = "Base URL saved"
	}
	m.refreshPanels()
}

// submit validates on the event loop and sends on a command goroutine.
// Validation failures never reach the network.
func (m *Model) submit(action console.Action, in console.Input) tea.Cmd {
	m.clearFilter()

	call, err := m.console.Prepare(action, in)
	if err != nil {
		m.errorMsg = err.Error()
		m.statusMsg = ""
		m.refreshPanels()
		return nil
	}

	m.pending++
	m.errorMsg = ""
	m.statusMsg = fmt.Sprintf("%s %s ...", call.Request.Method, call.Request.Path)
	m.refreshPanels()

	c := m.console
	ctx := m.ctx
	return func() tea.Msg {
		return requestDoneMsg{call: call, entry: c.Send(ctx, call)}
	}
}

// handleRequestDone records a finished request in completion order
func (m *Model) handleRequestDone(msg requestDoneMsg) {
	if m.pending > 0 {
		m.pending--
	}

	outcome := m.console.Record(msg.call, msg.entry)
	if outcome.ArchiveErr != nil {
		log.Printf("history: %v", outcome.ArchiveErr)
	}
	if outcome.ChainedID != "" {
		m.setIDFields(m.console.IDs())
	}

	entry := msg.entry
	summary := fmt.Sprintf("%s %s", entry.Method, entry.Path)
	switch {
	case entry.NetworkFailed():
		m.errorMsg = fmt.Sprintf("%s failed: %s", summary, entry.Error)
		m.statusMsg = ""
	case executor.IsSuccessStatus(entry.Status):
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("%s -> %d in %s", summary, entry.Status, executor.FormatDuration(entry.Duration))
	default:
		m.errorMsg = fmt.Sprintf("%s -> %s", summary, console.StatusLabel(entry.Status))
		m.statusMsg = ""
	}

	m.refreshPanels()
}

// copyLatest copies the latest response body, filtered if a filter is active
func (m *Model) copyLatest() tea.Cmd {
	body := m.console.Latest().Body
	if m.filterActive {
		body = m.filterResult
	}
	copyText := m.copyText
	return func() tea.Msg {
		return copyDoneMsg{err: copyText(body)}
	}
}
