package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/studiowebux/itemconsole/internal/analytics"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/filter"
	"github.com/studiowebux/itemconsole/internal/types"
	"gopkg.in/yaml.v3"
)

// printEntry writes one log entry in the selected format.
// A query replaces the body with its result.
func (r *Runner) printEntry(entry *types.LogEntry) error {
	out := *entry
	body := console.PrettyJSON(entry.Body)
	if r.opts.Query != "" && !entry.NetworkFailed() {
		queried, err := filter.Apply(body, r.opts.Query)
		if err != nil {
			fmt.Fprintf(r.opts.Err, "warning: query error: %v\n", err)
		} else {
			body = strings.TrimRight(queried, "\n")
			out.Body = decodeQueried(queried)
		}
	}

	output, err := r.formatEntry(&out, body)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(r.opts.Out, output)
	return nil
}

// decodeQueried keeps JSON results structured and shell output as text
func decodeQueried(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return strings.TrimRight(s, "\n")
	}
	return v
}

// formatEntry renders entry; text output prints body as given
func (r *Runner) formatEntry(entry *types.LogEntry, body string) (string, error) {
	switch r.opts.Output {
	case FormatJSON:
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return formatEntryText(entry, body), nil
	}
}

func formatEntryText(entry *types.LogEntry, body string) string {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	var sb strings.Builder

	label := console.LabelRequestFailed
	if !entry.NetworkFailed() {
		label = console.StatusLabel(entry.Status)
	}
	sb.WriteString(fmt.Sprintf("%s %s %s %s\n",
		statusColor(entry).SprintFunc()(label),
		bold(entry.Method),
		entry.URL,
		faint(executor.FormatDuration(entry.Duration)),
	))

	sb.WriteString(body)
	sb.WriteString("\n")

	return sb.String()
}

func statusColor(entry *types.LogEntry) *color.Color {
	switch {
	case entry.NetworkFailed():
		return color.New(color.FgRed, color.Bold)
	case executor.IsSuccessStatus(entry.Status):
		return color.New(color.FgGreen)
	case executor.IsServerErrorStatus(entry.Status), executor.IsClientErrorStatus(entry.Status):
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func (r *Runner) printHistory(entries []types.HistoryEntry) error {
	switch r.opts.Output {
	case FormatJSON:
		if entries == nil {
			entries = []types.HistoryEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(r.opts.Out, string(data))
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		fmt.Fprint(r.opts.Out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(r.opts.Out, "No history entries")
		return nil
	}

	faint := color.New(color.Faint).SprintFunc()
	for _, e := range entries {
		status := "ERR"
		c := color.New(color.FgRed)
		if e.Status != types.StatusNetworkError {
			status = fmt.Sprintf("%d", e.Status)
			c = statusColor(&types.LogEntry{Status: e.Status})
		}
		fmt.Fprintf(r.opts.Out, "%s  %-6s %s  %s  %s  %s\n",
			faint(e.Timestamp),
			e.Method,
			c.Sprint(fmt.Sprintf("%-3s", status)),
			e.Path,
			faint(executor.FormatDuration(e.Duration)),
			faint(e.ID),
		)
	}
	return nil
}

func (r *Runner) printStats(stats []analytics.Stats) error {
	switch r.opts.Output {
	case FormatJSON:
		if stats == nil {
			stats = []analytics.Stats{}
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(r.opts.Out, string(data))
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Fprint(r.opts.Out, string(data))
		return nil
	}

	if len(stats) == 0 {
		fmt.Fprintln(r.opts.Out, "No history entries")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for _, s := range stats {
		fmt.Fprintf(r.opts.Out, "%s %s\n", bold(fmt.Sprintf("%-6s", s.Method)), s.Endpoint)
		fmt.Fprintf(r.opts.Out, "  calls: %d  ok: %s  errors: %s  network: %s\n",
			s.TotalCalls,
			green(s.SuccessCount),
			red(s.ErrorCount),
			red(s.NetworkErrors),
		)
		fmt.Fprintf(r.opts.Out, "  duration: avg %s  min %s  max %s\n",
			executor.FormatDuration(int64(s.AvgDurationMs)),
			executor.FormatDuration(s.MinDurationMs),
			executor.FormatDuration(s.MaxDurationMs),
		)
		fmt.Fprintf(r.opts.Out, "  status: %s\n", faint(formatStatusCodes(s.StatusCodes)))
	}
	return nil
}

// formatStatusCodes renders counts in status order, e.g. "200x3 404x1"
func formatStatusCodes(codes map[int]int) string {
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, code := range keys {
		label := fmt.Sprintf("%d", code)
		if code == types.StatusNetworkError {
			label = "ERR"
		}
		parts = append(parts, fmt.Sprintf("%sx%d", label, codes[code]))
	}
	return strings.Join(parts, " ")
}

func (r *Runner) printBookmarks(bookmarks []filter.Bookmark) error {
	switch r.opts.Output {
	case FormatJSON:
		if bookmarks == nil {
			bookmarks = []filter.Bookmark{}
		}
		data, err := json.MarshalIndent(bookmarks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(r.opts.Out, string(data))
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(bookmarks)
		if err != nil {
			return err
		}
		fmt.Fprint(r.opts.Out, string(data))
		return nil
	}

	if len(bookmarks) == 0 {
		fmt.Fprintln(r.opts.Out, "No bookmarks")
		return nil
	}

	faint := color.New(color.Faint).SprintFunc()
	for _, b := range bookmarks {
		fmt.Fprintf(r.opts.Out, "%s  %s\n", faint(fmt.Sprintf("%3d", b.ID)), b.Expression)
	}
	return nil
}
