package keybinds

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "conflict error",
			err:      ValidationError{Type: "conflict", Context: ContextForm, Key: "enter", Message: "bound to both submit and close"},
			expected: "[conflict] enter in context 'form': bound to both submit and close",
		},
		{
			name:     "invalid error",
			err:      ValidationError{Type: "invalid", Context: ContextGlobal, Key: "", Message: "empty key"},
			expected: "[invalid]  in context 'global': empty key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationResult_String(t *testing.T) {
	tests := []struct {
		name     string
		result   *ValidationResult
		contains []string
	}{
		{
			name:     "no issues",
			result:   &ValidationResult{},
			contains: []string{"No issues found"},
		},
		{
			name: "errors and warnings",
			result: &ValidationResult{
				Errors:   []ValidationError{{Type: "conflict", Context: ContextForm, Key: "tab", Message: "duplicate"}},
				Warnings: []ValidationError{{Type: "warning", Context: ContextGlobal, Key: "ctrl+c", Message: "reserved"}},
			},
			contains: []string{"Errors (1)", "Warnings (1)", "conflict", "form", "ctrl+c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() output missing %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name         string
		config       *Config
		wantErrors   int
		wantWarnings int
	}{
		{
			name:   "valid override",
			config: &Config{Global: map[string]string{"sample": "ctrl+n"}},
		},
		{
			name:       "unknown action",
			config:     &Config{Form: map[string]string{"open_editor": "x"}},
			wantErrors: 1,
		},
		{
			name:       "key claimed twice",
			config:     &Config{Modal: map[string]string{"close": "esc,q", "navigate_up": "q"}},
			wantErrors: 1,
		},
		{
			name:       "bare modifier",
			config:     &Config{Global: map[string]string{"copy": "ctrl+"}},
			wantErrors: 1,
		},
		{
			name:         "reserved key rebound",
			config:       &Config{Global: map[string]string{"history": "ctrl+c"}},
			wantWarnings: 1,
		},
		{
			name:   "reserved key kept",
			config: &Config{Global: map[string]string{"quit": "ctrl+c,ctrl+q"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateConfig(tt.config)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("errors = %d, want %d: %s", len(result.Errors), tt.wantErrors, result)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d: %s", len(result.Warnings), tt.wantWarnings, result)
			}
		})
	}
}

func TestShadowedBindings(t *testing.T) {
	r := NewDefaultRegistry()
	if got := ShadowedBindings(r); len(got) != 0 {
		t.Fatalf("defaults should not shadow, got %v", got)
	}

	r.Register(ContextForm, "ctrl+l", ActionFocusNext)
	got := ShadowedBindings(r)
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	if got[0].Key != "ctrl+l" || got[0].Context != ContextForm {
		t.Errorf("unexpected warning %v", got[0])
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"a", "enter", "ctrl+s", "shift+tab"} {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v", key, err)
		}
	}
	for _, key := range []string{"", "ctrl+", "alt+"} {
		if err := ValidateKey(key); err == nil {
			t.Errorf("ValidateKey(%q) should fail", key)
		}
	}
}
