/*
Package keybinds maps keys to console actions.

Bindings live in three contexts: global (control keys usable from any field),
form (the base URL input and the four item forms) and modal (history viewer,
filter prompt). Registry.Match checks the specific context before global.

Defaults come from NewDefaultRegistry. A keybinds.json file in the data
directory overrides them per action:

	{
	  "version": "1.0",
	  "global": {
	    "sample": "ctrl+n",
	    "history": "ctrl+o"
	  },
	  "form": {
	    "focus_next": "tab,ctrl+j"
	  }
	}

A configured action replaces all of its default keys in that context.
ValidateConfig reports unknown actions, empty keys, keys claimed by two actions
and a rebound ctrl+c.
*/
package keybinds
