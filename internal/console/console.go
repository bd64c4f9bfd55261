package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/session"
	"github.com/studiowebux/itemconsole/internal/types"
	"github.com/tidwall/gjson"
)

// Action is one of the four item operations
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Method returns the HTTP verb for the action
func (a Action) Method() string {
	switch a {
	case ActionCreate:
		return "POST"
	case ActionUpdate:
		return "PUT"
	case ActionDelete:
		return "DELETE"
	default:
		return "GET"
	}
}

// NeedsID reports whether the action targets a single item
func (a Action) NeedsID() bool {
	return a != ActionCreate
}

// HasPayload reports whether the action sends a JSON body
func (a Action) HasPayload() bool {
	return a == ActionCreate || a == ActionUpdate
}

// Executor sends one HTTP request
type Executor interface {
	Execute(ctx context.Context, req *types.HttpRequest) (*types.RequestResult, error)
}

// Archiver persists log entries beyond the in-memory log
type Archiver interface {
	Save(entry *types.LogEntry) error
}

// Input carries the form values of one submission
type Input struct {
	ID   string
	Form types.ItemForm
}

// Call is a validated request ready to be sent
type Call struct {
	Action  Action
	Request types.HttpRequest
	Payload types.Payload
}

// Outcome reports what one submission did
type Outcome struct {
	Call  *Call
	Entry *types.LogEntry

	// Err is set when validation failed and nothing was sent
	Err error

	// ChainedID is the id propagated to the read/update/delete fields, if any
	ChainedID string

	// ArchiveErr is set when the entry could not be written to the history archive
	ArchiveErr error
}

// Failed reports whether the submission did not produce a 2xx response
func (o Outcome) Failed() bool {
	if o.Err != nil || o.Entry == nil {
		return true
	}
	return !executor.IsSuccessStatus(o.Entry.Status)
}

// Option configures a Console
type Option func(*Console)

// WithClock replaces time.Now, used for timestamps and sample names
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithArchive records every log entry in archive as well
func WithArchive(archive Archiver) Option {
	return func(c *Console) {
		c.archive = archive
	}
}

// Console binds the item forms to the HTTP client, the log and the latest-response panel
type Console struct {
	store   session.Store
	client  Executor
	archive Archiver
	log     *RequestLog
	now     func() time.Time

	mu     sync.RWMutex
	latest Latest
	ids    types.IDFields
}

// New creates a console persisting its base URL in store
func New(store session.Store, client Executor, opts ...Option) *Console {
	c := &Console{
		store:  store,
		client: client,
		log:    NewRequestLog(),
		now:    time.Now,
		latest: IdleLatest(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest returns the latest-response panel state
func (c *Console) Latest() Latest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// IDs returns the current read/update/delete id fields
func (c *Console) IDs() types.IDFields {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ids
}

// SetIDs replaces the id fields, e.g. when the user edits them
func (c *Console) SetIDs(ids types.IDFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = ids
}

// Log returns the log entries, newest first
func (c *Console) Log() []*types.LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.Entries()
}

func (c *Console) setLatest(latest Latest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = latest
}

// StoredBaseURL returns the persisted base URL as saved, without validation
func (c *Console) StoredBaseURL() string {
	value, _ := c.store.Get(session.BaseURLKey)
	return value
}

// BaseURL returns the normalized persisted base URL
func (c *Console) BaseURL() (string, error) {
	return NormalizeBaseURL(c.StoredBaseURL())
}

// SaveBaseURL persists the trimmed value. An empty value is rejected and
// the previously saved value is kept. The scheme is checked at request time.
func (c *Console) SaveBaseURL(raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		c.setLatest(configErrorLatest(ErrBaseURLMissing))
		return ErrBaseURLMissing
	}

	if err := c.store.Set(session.BaseURLKey, value); err != nil {
		err = fmt.Errorf("failed to save base URL: %w", err)
		c.setLatest(configErrorLatest(err))
		return err
	}

	c.setLatest(Latest{
		Label:   LabelSaved,
		Success: true,
		Body:    PrettyJSON(map[string]any{"baseUrl": value}),
	})
	return nil
}

// ClearLog empties the log and resets the latest-response panel
func (c *Console) ClearLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Clear()
	c.latest = IdleLatest()
}

// SampleForm returns deterministic placeholder values stamped with the time of day
func (c *Console) SampleForm() types.ItemForm {
	return types.ItemForm{
		Name:     "Sample item " + c.now().Format("150405"),
		Owner:    "console",
		Category: "demo",
		Notes:    "Created from the request console",
		Priority: "3",
	}
}

// Prepare validates a submission and builds its request. Validation
// failures are shown in the latest-response panel and returned.
func (c *Console) Prepare(action Action, in Input) (*Call, error) {
	call, err := c.prepare(action, in)
	if err != nil {
		c.setLatest(configErrorLatest(err))
		return nil, err
	}
	return call, nil
}

func (c *Console) prepare(action Action, in Input) (*Call, error) {
	base, err := c.BaseURL()
	if err != nil {
		return nil, err
	}

	path := ItemsPath
	id := strings.TrimSpace(in.ID)
	if action.NeedsID() {
		if id == "" {
			return nil, ErrIDMissing
		}
		path = ItemPath(id)
	}

	call := &Call{
		Action: action,
		Request: types.HttpRequest{
			Method: action.Method(),
			URL:    base + path,
			Path:   path,
		},
	}

	if action.HasPayload() {
		payload := BuildPayload(in.Form)
		if action == ActionUpdate {
			payload["id"] = id
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		call.Payload = payload
		call.Request.Body = string(body)
	}

	return call, nil
}

// Send issues the request and converts any failure into a log entry.
// It touches no console state and is safe to run on any goroutine.
func (c *Console) Send(ctx context.Context, call *Call) *types.LogEntry {
	entry := &types.LogEntry{
		ID:          uuid.NewString(),
		Timestamp:   c.now(),
		Method:      call.Request.Method,
		Path:        call.Request.Path,
		URL:         call.Request.URL,
		RequestBody: call.Payload,
	}

	result, err := c.client.Execute(ctx, &call.Request)
	if err != nil {
		return failedEntry(entry, types.StatusNetworkError, err.Error())
	}

	entry.Duration = result.Duration
	if result.Error != "" {
		return failedEntry(entry, result.Status, result.Error)
	}

	entry.Status = result.Status
	entry.RawBody = result.Body
	entry.Body = ParseBody(result.Body)
	return entry
}

func failedEntry(entry *types.LogEntry, status int, msg string) *types.LogEntry {
	entry.Status = status
	entry.Error = msg
	entry.Body = map[string]any{"error": msg}
	return entry
}

// Record appends entry to the log, updates the latest-response panel and
// chains a returned id into the id fields after a successful create or update.
func (c *Console) Record(call *Call, entry *types.LogEntry) Outcome {
	outcome := Outcome{Call: call, Entry: entry}

	if c.archive != nil {
		if err := c.archive.Save(entry); err != nil {
			outcome.ArchiveErr = err
		}
	}

	// The log head and the panel change together
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Add(entry)
	c.latest = responseLatest(entry)

	if call.Action.HasPayload() && executor.IsSuccessStatus(entry.Status) {
		if id := extractID(entry.RawBody); id != "" {
			c.ids = types.IDFields{Read: id, Update: id, Delete: id}
			outcome.ChainedID = id
		}
	}

	return outcome
}

// extractID returns the top-level "id" of a JSON object body when it is a string or a number
func extractID(raw string) string {
	if raw == "" || !gjson.Valid(raw) {
		return ""
	}
	id := gjson.Get(raw, "id")
	switch id.Type {
	case gjson.String:
		return strings.TrimSpace(id.Str)
	case gjson.Number:
		return id.String()
	default:
		return ""
	}
}

// Submit validates, sends and records one submission
func (c *Console) Submit(ctx context.Context, action Action, in Input) Outcome {
	call, err := c.Prepare(action, in)
	if err != nil {
		return Outcome{Err: err}
	}
	return c.Record(call, c.Send(ctx, call))
}

// Create posts a new item
func (c *Console) Create(ctx context.Context, form types.ItemForm) Outcome {
	return c.Submit(ctx, ActionCreate, Input{Form: form})
}

// Read fetches one item
func (c *Console) Read(ctx context.Context, id string) Outcome {
	return c.Submit(ctx, ActionRead, Input{ID: id})
}

// Update replaces one item
func (c *Console) Update(ctx context.Context, id string, form types.ItemForm) Outcome {
	return c.Submit(ctx, ActionUpdate, Input{ID: id, Form: form})
}

// Delete removes one item
func (c *Console) Delete(ctx context.Context, id string) Outcome {
	return c.Submit(ctx, ActionDelete, Input{ID: id})
}

// PopulateSample builds the sample form and submits it as a create
func (c *Console) PopulateSample(ctx context.Context) (types.ItemForm, Outcome) {
	form := c.SampleForm()
	return form, c.Create(ctx, form)
}
