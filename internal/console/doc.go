/*
Package console implements the request console for the item API.

A Console owns the three pieces of state behind the UI:
  - the persisted base URL (through a session.Store, key session.BaseURLKey)
  - a RequestLog of at most LogCapacity entries, newest first
  - the latest-response panel and the read/update/delete id fields

Every submission goes through three steps. Prepare validates the base URL and
the item id and builds the JSON payload; a failure there is a configuration
error (errors.Is(err, ErrConfig)) and nothing is sent. Send performs the HTTP
call and never fails: transport errors become a log entry with status
types.StatusNetworkError and an {"error": ...} body. Record appends the entry,
updates the panel and, after a 2xx create or update carrying an "id", copies
that id into the three id fields.

Submit runs all three in sequence. The TUI runs Send on a command goroutine and
Record on the event loop, so entries land in completion order.
*/
package console
