package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/studiowebux/itemconsole/internal/analytics"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/filter"
	"github.com/studiowebux/itemconsole/internal/types"
)

// ErrRequestFailed is returned after printing a network failure or a non-2xx response
var ErrRequestFailed = errors.New("request failed")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Archive is the history store behind the history subcommands
type Archive interface {
	Load(limit int) ([]types.HistoryEntry, error)
	LoadForPath(path string, limit int) ([]types.HistoryEntry, error)
	Delete(id string) error
	Clear() error
	GetCount() (int, error)
}

// StatsSource aggregates the history archive per endpoint
type StatsSource interface {
	GetStatsPerEndpoint() ([]analytics.Stats, error)
}

// BookmarkStore holds saved filter expressions
type BookmarkStore interface {
	List() ([]filter.Bookmark, error)
	Save(expression string) (bool, error)
	Delete(id int) error
}

// Options contains options for running console operations in CLI mode
type Options struct {
	Output    string // text, json, yaml
	Query     string // JMESPath query or $(shell command) applied to the body
	NoColor   bool
	Stats     StatsSource   // nil disables the stats subcommand
	Bookmarks BookmarkStore // nil disables the bookmarks subcommands
	Out       io.Writer
	Err       io.Writer
}

// Runner drives the console from subcommands and prints the results
type Runner struct {
	console *console.Console
	archive Archive
	opts    Options
}

// New creates a runner. archive may be nil when history is disabled.
func New(c *console.Console, archive Archive, opts Options) (*Runner, error) {
	switch opts.Output {
	case "":
		opts.Output = FormatText
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.Output)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.NoColor {
		color.NoColor = true
	}
	return &Runner{console: c, archive: archive, opts: opts}, nil
}

// BaseURL prints the saved base URL
func (r *Runner) BaseURL() error {
	value := r.console.StoredBaseURL()
	if value == "" {
		return console.ErrBaseURLMissing
	}
	fmt.Fprintln(r.opts.Out, value)

	if _, err := console.NormalizeBaseURL(value); err != nil {
		fmt.Fprintf(r.opts.Err, "warning: %v\n", err)
	}
	return nil
}

// SaveBaseURL persists a new base URL
func (r *Runner) SaveBaseURL(raw string) error {
	if err := r.console.SaveBaseURL(raw); err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.opts.Out, "%s %s\n", green(console.LabelSaved+":"), r.console.StoredBaseURL())
	return nil
}

// Create posts a new item
func (r *Runner) Create(ctx context.Context, form types.ItemForm) error {
	return r.report(r.console.Create(ctx, form))
}

// Get fetches one item
func (r *Runner) Get(ctx context.Context, id string) error {
	return r.report(r.console.Read(ctx, id))
}

// Update replaces one item
func (r *Runner) Update(ctx context.Context, id string, form types.ItemForm) error {
	return r.report(r.console.Update(ctx, id, form))
}

// Delete removes one item
func (r *Runner) Delete(ctx context.Context, id string) error {
	return r.report(r.console.Delete(ctx, id))
}

// Sample creates an item from the sample form
func (r *Runner) Sample(ctx context.Context) error {
	_, outcome := r.console.PopulateSample(ctx)
	return r.report(outcome)
}

// report prints an outcome and turns failures into errors for the exit status
func (r *Runner) report(outcome console.Outcome) error {
	if outcome.Err != nil {
		return outcome.Err
	}
	if outcome.ArchiveErr != nil {
		fmt.Fprintf(r.opts.Err, "warning: failed to save history: %v\n", outcome.ArchiveErr)
	}

	if err := r.printEntry(outcome.Entry); err != nil {
		return err
	}

	if outcome.ChainedID != "" && r.opts.Output == FormatText {
		fmt.Fprintf(r.opts.Err, "id: %s\n", outcome.ChainedID)
	}

	if outcome.Failed() {
		if outcome.Entry.NetworkFailed() {
			return fmt.Errorf("%w: %s", ErrRequestFailed, outcome.Entry.Error)
		}
		return fmt.Errorf("%w: %s", ErrRequestFailed, console.StatusLabel(outcome.Entry.Status))
	}
	return nil
}

// History prints the most recent archived requests, only those sent to
// path when it is set
func (r *Runner) History(path string, limit int) error {
	if r.archive == nil {
		return errors.New("history is disabled")
	}

	var entries []types.HistoryEntry
	var err error
	if path != "" {
		entries, err = r.archive.LoadForPath(path, limit)
	} else {
		entries, err = r.archive.Load(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return r.printHistory(entries)
}

// DeleteHistory removes one archived request
func (r *Runner) DeleteHistory(id string) error {
	if r.archive == nil {
		return errors.New("history is disabled")
	}
	if err := r.archive.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(r.opts.Out, "Deleted history entry %s\n", id)
	return nil
}

// ClearHistory removes every archived request
func (r *Runner) ClearHistory() error {
	if r.archive == nil {
		return errors.New("history is disabled")
	}
	count, err := r.archive.GetCount()
	if err != nil {
		return fmt.Errorf("failed to count history: %w", err)
	}
	if err := r.archive.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(r.opts.Out, "Cleared %d history entries\n", count)
	return nil
}

// Stats prints call counts and durations per endpoint
func (r *Runner) Stats() error {
	if r.opts.Stats == nil {
		return errors.New("history is disabled")
	}
	stats, err := r.opts.Stats.GetStatsPerEndpoint()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return r.printStats(stats)
}

// Bookmarks lists the saved filter expressions
func (r *Runner) Bookmarks() error {
	if r.opts.Bookmarks == nil {
		return errors.New("bookmarks are disabled")
	}
	bookmarks, err := r.opts.Bookmarks.List()
	if err != nil {
		return err
	}
	return r.printBookmarks(bookmarks)
}

// AddBookmark saves a filter expression after checking that it compiles
func (r *Runner) AddBookmark(expression string) error {
	if r.opts.Bookmarks == nil {
		return errors.New("bookmarks are disabled")
	}
	if err := filter.Validate(expression); err != nil {
		return err
	}
	added, err := r.opts.Bookmarks.Save(expression)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(r.opts.Out, "Already bookmarked: %s\n", expression)
		return nil
	}
	fmt.Fprintf(r.opts.Out, "Bookmarked: %s\n", expression)
	return nil
}

// DeleteBookmark removes a saved expression by id
func (r *Runner) DeleteBookmark(id int) error {
	if r.opts.Bookmarks == nil {
		return errors.New("bookmarks are disabled")
	}
	if err := r.opts.Bookmarks.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(r.opts.Out, "Deleted bookmark %d\n", id)
	return nil
}
