package console

import (
	"sync"

	"github.com/studiowebux/itemconsole/internal/types"
)

// LogCapacity is the maximum number of entries kept in the log
const LogCapacity = 12

// RequestLog is a bounded, most-recent-first list of log entries
type RequestLog struct {
	mu       sync.RWMutex
	entries  []*types.LogEntry
	capacity int
}

// NewRequestLog creates an empty log holding at most LogCapacity entries
func NewRequestLog() *RequestLog {
	return &RequestLog{capacity: LogCapacity}
}

// Add puts entry at the front and drops the oldest entries past capacity
func (l *RequestLog) Add(entry *types.LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]*types.LogEntry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Entries returns a copy of the entries, newest first
func (l *RequestLog) Entries() []*types.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]*types.LogEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Clear removes every entry
func (l *RequestLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
