package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerFormBindings(r)
	registerModalBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes.
// Control keys only, so they never collide with typing into a field.
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuit)
	r.Register(ContextGlobal, "ctrl+s", ActionSaveURL)
	r.Register(ContextGlobal, "ctrl+p", ActionSample)
	r.Register(ContextGlobal, "ctrl+l", ActionClearLog)
	r.Register(ContextGlobal, "ctrl+y", ActionCopy)
	r.Register(ContextGlobal, "ctrl+f", ActionFilter)
	r.Register(ContextGlobal, "ctrl+r", ActionHistory)
}

func registerFormBindings(r *Registry) {
	r.Register(ContextForm, "enter", ActionSubmit)
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionFocusNext)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionFocusPrev)
}

func registerModalBindings(r *Registry) {
	r.Register(ContextModal, "esc", ActionClose)
	r.Register(ContextModal, "enter", ActionSubmit)
	r.Register(ContextModal, "up", ActionNavigateUp)
	r.Register(ContextModal, "down", ActionNavigateDown)
	r.Register(ContextModal, "ctrl+x", ActionHistoryClear)
	r.Register(ContextModal, "ctrl+b", ActionBookmark)
}
