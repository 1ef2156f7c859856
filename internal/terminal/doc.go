// Package terminal implements the command resolver behind the portfolio
// terminal: a fixed registry of visible and hidden commands, and the lookup
// rules that map one line of typed text onto a command action.
//
// Resolution order for a line whose first token is name:
//
//  1. name is a visible command
//  2. name is an alias of a visible command (scanned in registration order);
//     aliases of the form theme-X are routed to the theme command with X as
//     the only argument
//  3. name contains '-' and its first segment is a visible command; the
//     remaining segments are prepended to the arguments
//  4. name is a hidden command
//  5. otherwise a "command not found" line is rendered
//
// Output never leaves the package directly: actions draw through a Display
// and persist through Preferences, both supplied per session in an Env.
package terminal
