package keybinds

import "fmt"

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal Context = "global" // Available everywhere
	ContextForm   Context = "form"   // Base URL input and the four item forms
	ContextModal  Context = "modal"  // History viewer and filter prompt
)

// ParseContext converts a context name as written in keybinds.json
func ParseContext(name string) (Context, error) {
	switch c := Context(name); c {
	case ContextGlobal, ContextForm, ContextModal:
		return c, nil
	}
	return "", fmt.Errorf("unknown context %q (want global, form or modal)", name)
}

const (
	// Global actions
	ActionQuit     Action = "quit"      // Quit application
	ActionSaveURL  Action = "save_url"  // Save the base URL input
	ActionSample   Action = "sample"    // Populate sample and create
	ActionClearLog Action = "clear_log" // Clear the log and reset the panel
	ActionCopy     Action = "copy"      // Copy latest response to clipboard
	ActionFilter   Action = "filter"    // Open JMESPath filter prompt
	ActionHistory  Action = "history"   // Open history viewer

	// Form actions
	ActionSubmit    Action = "submit"     // Submit focused form or activate focused control
	ActionFocusNext Action = "focus_next" // Move focus to the next field
	ActionFocusPrev Action = "focus_prev" // Move focus to the previous field

	// Modal actions
	ActionClose        Action = "close"         // Close current modal
	ActionNavigateUp   Action = "navigate_up"   // Move up one item
	ActionNavigateDown Action = "navigate_down" // Move down one item
	ActionHistoryClear Action = "history_clear" // Clear the history archive
	ActionBookmark     Action = "bookmark"      // Save the filter expression
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:         {ActionQuit, "quit", "Global"},
	ActionSaveURL:      {ActionSaveURL, "save base URL", "Global"},
	ActionSample:       {ActionSample, "populate sample", "Global"},
	ActionClearLog:     {ActionClearLog, "clear log", "Global"},
	ActionCopy:         {ActionCopy, "copy response", "Global"},
	ActionFilter:       {ActionFilter, "filter response", "Global"},
	ActionHistory:      {ActionHistory, "history", "Global"},
	ActionSubmit:       {ActionSubmit, "submit", "Form"},
	ActionFocusNext:    {ActionFocusNext, "next field", "Form"},
	ActionFocusPrev:    {ActionFocusPrev, "previous field", "Form"},
	ActionClose:        {ActionClose, "close", "Modal"},
	ActionNavigateUp:   {ActionNavigateUp, "up", "Modal"},
	ActionNavigateDown: {ActionNavigateDown, "down", "Modal"},
	ActionHistoryClear: {ActionHistoryClear, "clear history", "Modal"},
	ActionBookmark:     {ActionBookmark, "bookmark filter", "Modal"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is handled by the console
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}
