package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// reservedKeys must keep their default action in the global context
var reservedKeys = map[string]Action{
	"ctrl+c": ActionQuit,
}

// ValidateConfig checks a user configuration before it is applied
func ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}

	for context, section := range config.sections() {
		owner := make(map[string]Action)

		actions := make([]string, 0, len(section))
		for name := range section {
			actions = append(actions, name)
		}
		sort.Strings(actions)

		for _, name := range actions {
			action := Action(name)
			if err := ValidateAction(action); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Message: err.Error(),
				})
				continue
			}

			for _, key := range splitKeys(section[name]) {
				if err := ValidateKey(key); err != nil {
					result.Errors = append(result.Errors, ValidationError{
						Type: "invalid", Context: context, Key: key, Message: err.Error(),
					})
					continue
				}
				if prev, ok := owner[key]; ok {
					result.Errors = append(result.Errors, ValidationError{
						Type:    "conflict",
						Context: context,
						Key:     key,
						Message: fmt.Sprintf("bound to both %s and %s", prev, action),
					})
					continue
				}
				owner[key] = action

				if want, ok := reservedKeys[key]; ok && context == ContextGlobal && action != want {
					result.Warnings = append(result.Warnings, ValidationError{
						Type:    "warning",
						Context: context,
						Key:     key,
						Message: "reserved key rebound (may cause issues)",
					})
				}
			}
		}
	}

	return result
}

// ShadowedBindings lists context bindings that hide a different global binding
func ShadowedBindings(registry *Registry) []ValidationError {
	global := registry.bindings[ContextGlobal]
	var warnings []ValidationError

	for _, context := range []Context{ContextForm, ContextModal} {
		for key, action := range registry.bindings[context] {
			if globalAction, ok := global[key]; ok && globalAction != action {
				warnings = append(warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalAction, action),
				})
			}
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Context != warnings[j].Context {
			return warnings[i].Context < warnings[j].Context
		}
		return warnings[i].Key < warnings[j].Key
	})
	return warnings
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	for _, mod := range []string{"ctrl+", "alt+", "shift+", "super+"} {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action is one the console handles
func ValidateAction(action Action) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(action) {
		return fmt.Errorf("unknown action: %s", action)
	}
	return nil
}
