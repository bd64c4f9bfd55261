package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studiowebux/itemconsole/internal/analytics"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/filter"
	"github.com/studiowebux/itemconsole/internal/history"
	"github.com/studiowebux/itemconsole/internal/session"
	"github.com/studiowebux/itemconsole/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeArchive struct {
	entries  []types.HistoryEntry
	saved    int
	cleared  bool
	saveErr  error
	clearErr error
}

func (f *fakeArchive) Save(entry *types.LogEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved++
	return nil
}

func (f *fakeArchive) Load(limit int) ([]types.HistoryEntry, error) {
	if limit > 0 && limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeArchive) LoadForPath(path string, limit int) ([]types.HistoryEntry, error) {
	var matched []types.HistoryEntry
	for _, e := range f.entries {
		if e.Path == path {
			matched = append(matched, e)
		}
	}
	if limit > 0 && limit < len(matched) {
		return matched[:limit], nil
	}
	return matched, nil
}

func (f *fakeArchive) Delete(id string) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return history.ErrEntryNotFound
}

func (f *fakeArchive) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	f.entries = nil
	return nil
}

func (f *fakeArchive) GetCount() (int, error) {
	return len(f.entries), nil
}

type testRunner struct {
	runner  *Runner
	console *console.Console
	archive *fakeArchive
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func itemServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			fmt.Fprint(w, `{"message":"Item created","id":"7"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/items/missing":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"Item not found"}`)
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `{"id":"7","name":"Widget","tags":["a","b"]}`)
		case r.Method == http.MethodPut:
			fmt.Fprint(w, `{"message":"Item updated"}`)
		case r.Method == http.MethodDelete:
			fmt.Fprint(w, `{"message":"Item deleted"}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRunner(t *testing.T, baseURL string, opts Options) *testRunner {
	t.Helper()

	client, err := executor.NewClient()
	require.NoError(t, err)

	store := session.NewMemoryStore()
	if baseURL != "" {
		require.NoError(t, store.Set(session.BaseURLKey, baseURL))
	}

	archive := &fakeArchive{}
	c := console.New(store, client, console.WithArchive(archive))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	opts.Out = out
	opts.Err = errOut
	opts.NoColor = true

	r, err := New(c, archive, opts)
	require.NoError(t, err)

	return &testRunner{runner: r, console: c, archive: archive, out: out, errOut: errOut}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(nil, nil, Options{Output: "xml"})
	assert.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	tr := newTestRunner(t, "", Options{})

	err := tr.runner.BaseURL()
	assert.ErrorIs(t, err, console.ErrConfig)

	require.NoError(t, tr.runner.SaveBaseURL("  https://api.example.com/  "))
	assert.Contains(t, tr.out.String(), "Base URL saved: https://api.example.com/")

	tr.out.Reset()
	require.NoError(t, tr.runner.BaseURL())
	assert.Equal(t, "https://api.example.com/\n", tr.out.String())
	assert.Empty(t, tr.errOut.String())
}

func TestBaseURL_WarnsOnMissingScheme(t *testing.T) {
	tr := newTestRunner(t, "api.example.com", Options{})

	require.NoError(t, tr.runner.BaseURL())
	assert.Equal(t, "api.example.com\n", tr.out.String())
	assert.Contains(t, tr.errOut.String(), "warning:")
}

func TestCreate_Text(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{})

	err := tr.runner.Create(context.Background(), types.ItemForm{Name: "Widget", Priority: "3"})
	require.NoError(t, err)

	out := tr.out.String()
	assert.Contains(t, out, "200 OK POST "+server.URL+"/items")
	assert.Contains(t, out, `"message": "Item created"`)
	assert.Contains(t, tr.errOut.String(), "id: 7")
	assert.Equal(t, 1, tr.archive.saved)
	assert.Equal(t, "7", tr.console.IDs().Read)
}

func TestGet_JSON(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{Output: FormatJSON})

	require.NoError(t, tr.runner.Get(context.Background(), "7"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(tr.out.Bytes(), &decoded))
	assert.Equal(t, "GET", decoded["method"])
	assert.Equal(t, "/items/7", decoded["path"])
	assert.EqualValues(t, 200, decoded["status"])
	body := decoded["body"].(map[string]any)
	assert.Equal(t, "Widget", body["name"])
}

func TestGet_YAML(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{Output: FormatYAML})

	require.NoError(t, tr.runner.Get(context.Background(), "7"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(tr.out.Bytes(), &decoded))
	assert.Equal(t, "GET", decoded["method"])
	assert.Equal(t, 200, decoded["status"])
}

func TestGet_NotFoundFails(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{})

	err := tr.runner.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "404 Not Found")
	assert.Contains(t, tr.out.String(), "Item not found")
}

func TestGet_Query(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{Query: "tags[0]"})

	require.NoError(t, tr.runner.Get(context.Background(), "7"))
	assert.Contains(t, tr.out.String(), `"a"`)
	assert.NotContains(t, tr.out.String(), "Widget")
}

func TestGet_QueryErrorKeepsBody(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{Query: "[[["})

	require.NoError(t, tr.runner.Get(context.Background(), "7"))
	assert.Contains(t, tr.out.String(), "Widget")
	assert.Contains(t, tr.errOut.String(), "query error")
}

func TestUpdateAndDelete(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{})

	require.NoError(t, tr.runner.Update(context.Background(), "7", types.ItemForm{Name: "Renamed"}))
	assert.Contains(t, tr.out.String(), "PUT "+server.URL+"/items/7")

	tr.out.Reset()
	require.NoError(t, tr.runner.Delete(context.Background(), "7"))
	assert.Contains(t, tr.out.String(), "Item deleted")
}

func TestSample(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{})

	require.NoError(t, tr.runner.Sample(context.Background()))
	assert.Contains(t, tr.out.String(), "POST")
	assert.Len(t, tr.console.Log(), 1)
}

func TestConfigErrorsSendNothing(t *testing.T) {
	tr := newTestRunner(t, "", Options{})

	err := tr.runner.Create(context.Background(), types.ItemForm{Name: "Widget"})
	assert.ErrorIs(t, err, console.ErrConfig)
	assert.False(t, errors.Is(err, ErrRequestFailed))
	assert.Empty(t, tr.out.String())
	assert.Empty(t, tr.console.Log())

	tr2 := newTestRunner(t, "http://127.0.0.1:1", Options{})
	err = tr2.runner.Delete(context.Background(), "  ")
	assert.ErrorIs(t, err, console.ErrConfig)
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	tr := newTestRunner(t, url, Options{Output: FormatJSON})

	err := tr.runner.Get(context.Background(), "7")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(tr.out.Bytes(), &decoded))
	assert.Nil(t, decoded["status"])
	assert.Contains(t, decoded, "status")
}

func TestArchiveErrorWarns(t *testing.T) {
	server := itemServer(t)
	tr := newTestRunner(t, server.URL, Options{})
	tr.archive.saveErr = errors.New("disk full")

	require.NoError(t, tr.runner.Get(context.Background(), "7"))
	assert.Contains(t, tr.errOut.String(), "warning: failed to save history: disk full")
	assert.Contains(t, tr.out.String(), "Widget")
}

func TestHistory(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	tr.archive.entries = []types.HistoryEntry{
		{ID: "b", Timestamp: "2026-01-02T10:00:00Z", Method: "GET", Path: "/items/7", Status: 200, Duration: 12},
		{ID: "a", Timestamp: "2026-01-02T09:00:00Z", Method: "POST", Path: "/items", Status: types.StatusNetworkError},
	}

	require.NoError(t, tr.runner.History("", 10))
	out := tr.out.String()
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "ERR")

	tr.out.Reset()
	require.NoError(t, tr.runner.History("", 1))
	assert.NotContains(t, tr.out.String(), "POST")
}

func TestHistory_FilterByPath(t *testing.T) {
	tr := newTestRunner(t, "", Options{Output: FormatJSON})
	tr.archive.entries = []types.HistoryEntry{
		{ID: "c", Method: "DELETE", Path: "/items/7", Status: 200},
		{ID: "b", Method: "GET", Path: "/items/8", Status: 200},
		{ID: "a", Method: "GET", Path: "/items/7", Status: 200},
	}

	require.NoError(t, tr.runner.History("/items/7", 0))

	var got []types.HistoryEntry
	require.NoError(t, json.Unmarshal(tr.out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestDeleteHistory(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	tr.archive.entries = []types.HistoryEntry{{ID: "a"}, {ID: "b"}}

	require.NoError(t, tr.runner.DeleteHistory("a"))
	assert.Contains(t, tr.out.String(), "Deleted history entry a")
	assert.Len(t, tr.archive.entries, 1)

	assert.ErrorIs(t, tr.runner.DeleteHistory("a"), history.ErrEntryNotFound)
}

func TestHistory_EmptyJSON(t *testing.T) {
	tr := newTestRunner(t, "", Options{Output: FormatJSON})

	require.NoError(t, tr.runner.History("", 10))
	assert.Equal(t, "[]\n", tr.out.String())
}

func TestClearHistory(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	tr.archive.entries = []types.HistoryEntry{{ID: "a"}, {ID: "b"}}

	require.NoError(t, tr.runner.ClearHistory())
	assert.True(t, tr.archive.cleared)
	assert.Contains(t, tr.out.String(), "Cleared 2 history entries")
}

func TestHistoryDisabled(t *testing.T) {
	r, err := New(nil, nil, Options{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}, NoColor: true})
	require.NoError(t, err)

	assert.Error(t, r.History("", 10))
	assert.Error(t, r.ClearHistory())
	assert.Error(t, r.DeleteHistory("a"))
}

type fakeStats struct {
	stats []analytics.Stats
}

func (f fakeStats) GetStatsPerEndpoint() ([]analytics.Stats, error) {
	return f.stats, nil
}

func TestStats(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	tr.runner.opts.Stats = fakeStats{stats: []analytics.Stats{{
		Method:        "GET",
		Endpoint:      analytics.ItemEndpoint,
		TotalCalls:    3,
		SuccessCount:  1,
		ErrorCount:    1,
		NetworkErrors: 1,
		MaxDurationMs: 7,
		StatusCodes:   map[int]int{404: 1, 200: 1, 0: 1},
	}}}

	require.NoError(t, tr.runner.Stats())
	out := tr.out.String()
	assert.Contains(t, out, "GET    /items/{id}")
	assert.Contains(t, out, "calls: 3")
	assert.Contains(t, out, "ERRx1 200x1 404x1")
}

func TestStats_Disabled(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	assert.Error(t, tr.runner.Stats())
}

type fakeBookmarkStore struct {
	saved []filter.Bookmark
}

func (f *fakeBookmarkStore) List() ([]filter.Bookmark, error) {
	return f.saved, nil
}

func (f *fakeBookmarkStore) Save(expression string) (bool, error) {
	for _, b := range f.saved {
		if b.Expression == expression {
			return false, nil
		}
	}
	f.saved = append(f.saved, filter.Bookmark{ID: len(f.saved) + 1, Expression: expression})
	return true, nil
}

func (f *fakeBookmarkStore) Delete(id int) error {
	for i, b := range f.saved {
		if b.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return filter.ErrBookmarkNotFound
}

func TestBookmarks(t *testing.T) {
	tr := newTestRunner(t, "", Options{})
	store := &fakeBookmarkStore{}
	tr.runner.opts.Bookmarks = store

	require.NoError(t, tr.runner.Bookmarks())
	assert.Equal(t, "No bookmarks\n", tr.out.String())

	require.NoError(t, tr.runner.AddBookmark("message"))
	require.NoError(t, tr.runner.AddBookmark("message"))
	assert.Contains(t, tr.out.String(), "Already bookmarked: message")
	assert.Error(t, tr.runner.AddBookmark("[[["))
	assert.Len(t, store.saved, 1)

	tr.out.Reset()
	require.NoError(t, tr.runner.Bookmarks())
	assert.Contains(t, tr.out.String(), "  1  message")

	require.NoError(t, tr.runner.DeleteBookmark(1))
	assert.ErrorIs(t, tr.runner.DeleteBookmark(1), filter.ErrBookmarkNotFound)
}
