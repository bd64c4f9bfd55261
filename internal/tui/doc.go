/*
Package tui implements the interactive request console.

The screen has a forms column (base URL with its three controls, then the
create, read, update and delete forms) next to the latest-response panel and
the log panel. Every focus stop carries a stable element id such as
"create-form" or "save-base-url"; Model.Focused reports it.

Submitting a form validates on the event loop through console.Prepare. The HTTP
call runs as a tea.Cmd and comes back as a requestDoneMsg, which is recorded
with console.Record. Several requests may be in flight at once; the header
shows how many, and entries land in the log in completion order.

Keys come from a keybinds.Registry. Besides the forms there are two modes: a
JMESPath filter prompt over the latest body and a history viewer backed by
the sqlite archive. When a session manager is wired the model watches the
session file and picks up a base URL saved from the CLI.
*/
package tui
