// Package cmd wires the termfolio subcommands.
//
// # Available Commands
//
//   - serve: Serve the browser terminal over HTTP and WebSocket
//   - shell: Interactive prompt with history, completion and saved theme
//   - run: Resolve one line and print the output
//   - version: Build information, optionally with the portfolio version
//
// # Command Examples
//
//	// Serve on another port and open a browser
//	termfolio serve --port 3000 --open
//
//	// Use a custom profile and reload it on save
//	termfolio serve --profile me.yaml --watch-profile
//
//	// One-off command
//	termfolio run skills
package cmd
