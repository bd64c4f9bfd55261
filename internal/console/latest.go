package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/types"
)

const (
	LabelIdle          = "Idle"
	LabelConfigError   = "Configuration error"
	LabelRequestFailed = "Request failed"
	LabelSaved         = "Base URL saved"
)

// Latest is the state of the latest-response panel
type Latest struct {
	Label   string
	Status  int
	Success bool
	Body    string
}

// IdleLatest is the panel state before any action and after Clear log
func IdleLatest() Latest {
	return Latest{Label: LabelIdle, Body: "{}"}
}

func configErrorLatest(err error) Latest {
	return Latest{
		Label: LabelConfigError,
		Body:  PrettyJSON(map[string]any{"error": err.Error()}),
	}
}

func responseLatest(entry *types.LogEntry) Latest {
	if entry.NetworkFailed() {
		return Latest{Label: LabelRequestFailed, Body: PrettyJSON(entry.Body)}
	}
	return Latest{
		Label:   StatusLabel(entry.Status),
		Status:  entry.Status,
		Success: executor.IsSuccessStatus(entry.Status),
		Body:    PrettyJSON(entry.Body),
	}
}

// StatusLabel renders a status code with its reason phrase, e.g. "201 Created"
func StatusLabel(status int) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", status, http.StatusText(status)))
}

// ParseBody decodes a response body. Empty and non-JSON bodies become an empty object.
func ParseBody(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}
	var body any
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// PrettyJSON indents v with two spaces
func PrettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
