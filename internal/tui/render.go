package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/keybinds"
	"github.com/studiowebux/itemconsole/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleButton = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(colorGray)
)

// statusStyle colours a status: yellow while idle, green for 2xx, red otherwise
func statusStyle(status int, idle bool) lipgloss.Style {
	switch {
	case idle:
		return styleWarning
	case executor.IsSuccessStatus(status):
		return styleSuccess
	default:
		return styleError
	}
}

const (
	formColumnMin = 44
	labelWidth    = 10
)

func (m *Model) formWidth() int {
	w := m.width * 45 / 100
	if w < formColumnMin {
		w = formColumnMin
	}
	if w > m.width-4 {
		w = m.width - 4
	}
	return w
}

// updateViewports resizes the panels after a window change
func (m *Model) updateViewports() {
	panelWidth := m.width - m.formWidth() - 6
	if panelWidth < 20 {
		panelWidth = 20
	}
	bodyHeight := m.height - 5
	latestHeight := bodyHeight/2 - 3
	logHeight := bodyHeight - latestHeight - 6
	if latestHeight < 3 {
		latestHeight = 3
	}
	if logHeight < 3 {
		logHeight = 3
	}

	m.latestView.Width = panelWidth
	m.latestView.Height = latestHeight
	m.logView.Width = panelWidth
	m.logView.Height = logHeight

	inputWidth := m.formWidth() - labelWidth - 6
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	m.refreshPanels()
}

// refreshPanels re-renders the latest-response and log panel contents
func (m *Model) refreshPanels() {
	latest := m.console.Latest()
	body := latest.Body
	if m.filterActive {
		body = m.filterResult
	}
	m.latestView.SetContent(m.highlightJSON(body))
	m.latestView.GotoTop()

	m.logView.SetContent(m.renderLogEntries(m.console.Log(), m.logView.Width))
	m.logView.GotoTop()
}

// renderMain renders the header, the forms column and the two panels
func (m *Model) renderMain() string {
	formWidth := m.formWidth()
	panelWidth := m.width - formWidth - 4

	forms := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(formWidth).
		Render(m.renderForms())

	latest := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.latestBorderColor()).
		Width(panelWidth).
		Render(m.renderLatest())

	logPanel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(panelWidth).
		Render(m.renderLog())

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		forms,
		lipgloss.JoinVertical(lipgloss.Left, latest, logPanel),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

func (m *Model) renderHeader() string {
	title := styleTitle.Render("Item Request Console")

	base := m.console.StoredBaseURL()
	if base == "" {
		base = styleWarning.Render("no base URL saved")
	} else {
		base = styleSubtle.Render(base)
	}

	pending := ""
	if m.pending > 0 {
		pending = styleWarning.Render(fmt.Sprintf("  %d pending", m.pending))
	}

	return title + "  " + base + pending
}

func (m *Model) renderForms() string {
	var sb strings.Builder

	section := ""
	for i, e := range focusOrder {
		if e.id != section {
			if section != "" {
				sb.WriteString("\n")
			}
			section = e.id
			if heading := sectionHeading(e.id); heading != "" {
				sb.WriteString(styleTitle.Render(heading) + styleSubtle.Render("  #"+e.id) + "\n")
			}
		}

		focused := i == m.focus && m.mode == ModeNormal
		if e.isButton() {
			label := styleButton.Render(e.label)
			if focused {
				label = styleSelected.Render("> " + e.label + " <")
			}
			sb.WriteString(label + styleSubtle.Render("  #"+e.id))
			continue
		}

		label := fmt.Sprintf("%-*s", labelWidth, e.label)
		if focused {
			label = styleSelected.Render(label)
		} else {
			label = styleSubtle.Render(label)
		}
		sb.WriteString(label + " " + m.inputs[e.input].View() + "\n")
	}

	return sb.String()
}

func sectionHeading(id string) string {
	switch id {
	case ElementBaseURL:
		return "Base URL"
	case ElementSaveBaseURL, ElementPopulateSample, ElementClearLog:
		return ""
	case ElementCreateForm:
		return "Create item"
	case ElementReadForm:
		return "Read item"
	case ElementUpdateForm:
		return "Update item"
	case ElementDeleteForm:
		return "Delete item"
	}
	return ""
}

func (m *Model) latestBorderColor() lipgloss.AdaptiveColor {
	latest := m.console.Latest()
	switch {
	case m.pending > 0 || latest.Label == console.LabelIdle:
		return colorYellow
	case latest.Success:
		return colorGreen
	default:
		return colorRed
	}
}

func (m *Model) renderLatest() string {
	latest := m.console.Latest()

	style := styleError
	switch {
	case latest.Label == console.LabelIdle:
		style = styleWarning
	case latest.Success:
		style = styleSuccess
	}
	header := styleTitle.Render("Latest response") + "  " + style.Render(latest.Label)
	if m.pending > 0 {
		header += styleWarning.Render("  (waiting)")
	}
	if m.filterActive {
		header += styleSubtle.Render("  [filtered]")
	}

	return header + "\n" + m.latestView.View()
}

func (m *Model) renderLog() string {
	header := styleTitle.Render("Log") + styleSubtle.Render(fmt.Sprintf("  %d/%d", len(m.console.Log()), console.LogCapacity))
	return header + "\n" + m.logView.View()
}

// renderLogEntries renders one header line and one compact body line per entry
func (m *Model) renderLogEntries(entries []*types.LogEntry, width int) string {
	if len(entries) == 0 {
		return styleSubtle.Render("No requests yet")
	}

	var lines []string
	for _, e := range entries {
		status := "ERR"
		if !e.NetworkFailed() {
			status = fmt.Sprintf("%d", e.Status)
		}
		head := fmt.Sprintf("%s %-6s %s %s %s",
			styleSubtle.Render(e.Timestamp.Format("15:04:05")),
			e.Method,
			statusStyle(e.Status, false).Render(status),
			e.Path,
			styleSubtle.Render(executor.FormatDuration(e.Duration)),
		)
		lines = append(lines, head, "  "+truncate(compactJSON(e.Body), width-2))
	}
	return strings.Join(lines, "\n")
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// truncate cuts s to width terminal cells, ending in "..."
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

// renderStatusBar renders the status or error line and the key hints
func (m *Model) renderStatusBar() string {
	if m.mode == ModeFilter {
		line := m.filterInput.View()
		if m.filterError != "" {
			line += "  " + styleError.Render(m.filterError)
		}
		hint := fmt.Sprintf("%s apply • %s bookmark • %s saved (%d) • %s close",
			m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionSubmit),
			m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionBookmark),
			m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionNavigateUp),
			len(m.savedFilters),
			m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionClose))
		return line + "\n" + styleSubtle.Render(hint)
	}

	msg := styleSuccess.Render(m.statusMsg)
	if m.errorMsg != "" {
		msg = styleError.Render(m.errorMsg)
	}

	hints := []string{}
	for _, a := range []keybinds.Action{
		keybinds.ActionSubmit,
		keybinds.ActionSaveURL,
		keybinds.ActionSample,
		keybinds.ActionClearLog,
		keybinds.ActionCopy,
		keybinds.ActionFilter,
		keybinds.ActionHistory,
		keybinds.ActionQuit,
	} {
		hints = append(hints, fmt.Sprintf("%s %s",
			m.keybinds.GetBindingString(keybinds.ContextForm, a),
			keybinds.GetActionInfo(a).Description))
	}

	return msg + "\n" + styleSubtle.Render(strings.Join(hints, " • "))
}
