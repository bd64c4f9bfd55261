package tui

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/itemconsole/internal/config"
)

// Run starts the TUI and blocks until the user quits.
// The standard logger goes to the debug log file when enabled and is discarded otherwise,
// since anything written to the terminal would corrupt the screen.
func Run(opts Options) error {
	if config.DebugEnabled() {
		f, err := tea.LogToFile(config.DebugLogFile, "itemconsole")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m := New(opts)
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
