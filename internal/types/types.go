package types

import (
	"encoding/json"
	"time"
)

// StatusNetworkError is the status recorded when no HTTP response was received
const StatusNetworkError = 0

// HttpRequest represents a single call against the item API
type HttpRequest struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Path    string            `json:"path" yaml:"path"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// TLSConfig holds optional TLS settings for the HTTP client
type TLSConfig struct {
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty"`
	CAFile             string `json:"caFile,omitempty"`
	CertFile           string `json:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty"`
}

// RequestResult contains the HTTP response data
type RequestResult struct {
	Status       int               `json:"status"`
	StatusText   string            `json:"statusText"`
	Headers      map[string]string `json:"headers"`
	Body         string            `json:"body"`
	Duration     int64             `json:"duration"`     // milliseconds
	RequestSize  int               `json:"requestSize"`  // bytes
	ResponseSize int               `json:"responseSize"` // bytes
	Error        string            `json:"error,omitempty"`
}

// ItemForm holds the raw field values of a create or update form
type ItemForm struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Owner    string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Payload is the JSON object sent as a request body
type Payload map[string]any

// IDFields are the id inputs of the read, update and delete forms
type IDFields struct {
	Read   string `json:"read"`
	Update string `json:"update"`
	Delete string `json:"delete"`
}

// LogEntry is one request/response pair in the console log
type LogEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Method      string    `json:"method" yaml:"method"`
	Path        string    `json:"path" yaml:"path"`
	URL         string    `json:"url" yaml:"url"`
	RequestBody Payload   `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Status      int       `json:"-" yaml:"-"`
	Body        any       `json:"body" yaml:"body"`
	Duration    int64     `json:"durationMs" yaml:"durationMs"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`

	// RawBody is the response body exactly as received
	RawBody string `json:"-" yaml:"-"`
}

// NetworkFailed reports whether the request never produced an HTTP response
func (e *LogEntry) NetworkFailed() bool {
	return e.Status == StatusNetworkError
}

// StatusValue returns the status for serialization, nil for network failures
func (e *LogEntry) StatusValue() *int {
	if e.NetworkFailed() {
		return nil
	}
	status := e.Status
	return &status
}

// MarshalJSON renders the network failure sentinel as a null status
func (e LogEntry) MarshalJSON() ([]byte, error) {
	type alias LogEntry
	return json.Marshal(struct {
		alias
		Status *int `json:"status"`
	}{alias: alias(e), Status: e.StatusValue()})
}

// MarshalYAML mirrors MarshalJSON for yaml output
func (e LogEntry) MarshalYAML() (any, error) {
	type alias LogEntry
	return struct {
		alias  `yaml:",inline"`
		Status *int `yaml:"status"`
	}{alias: alias(e), Status: e.StatusValue()}, nil
}

// HistoryEntry is an archived log entry as stored on disk
type HistoryEntry struct {
	ID           string `json:"id" yaml:"id"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Method       string `json:"method" yaml:"method"`
	Path         string `json:"path" yaml:"path"`
	URL          string `json:"url" yaml:"url"`
	RequestBody  string `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Status       int    `json:"status" yaml:"status"`
	ResponseBody string `json:"responseBody" yaml:"responseBody"`
	Duration     int64  `json:"durationMs" yaml:"durationMs"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}
