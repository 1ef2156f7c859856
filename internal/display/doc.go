// Package display implements terminal.Display twice: HTMLDisplay turns every
// call into a message for a browser session, TextDisplay draws to a terminal
// with ANSI styles.
package display
