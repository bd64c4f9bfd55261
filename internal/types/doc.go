/*
Package types defines core data structures shared by the console, the CLI and the TUI.

# Request Types

HttpRequest:
  - One call against the item API
  - Method, full URL and the path relative to the base URL
  - JSON body already encoded

ItemForm and Payload:
  - ItemForm holds field values exactly as typed
  - Payload is the JSON object built from a form

# Response Types

RequestResult:
  - HTTP response data from the executor
  - Status, headers, raw body
  - Duration and size metrics
  - Error information for failed round trips

LogEntry:
  - One request/response pair as shown in the log panel
  - Parsed JSON body, or an error object on network failure
  - Status 0 (StatusNetworkError) marks a request without a response and
    serializes as null

HistoryEntry:
  - A LogEntry as archived in the history database
*/
package types
