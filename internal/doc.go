// Package internal contains the implementation packages for termfolio.
//
// # Package Organization
//
//   - terminal: Command registry, resolver and the collaborator interfaces
//   - commands: The portfolio vocabulary (help, whoami, skills, ...)
//   - display: HTML and ANSI renderings of output lines
//   - server: HTTP page, WebSocket sessions and the command endpoint
//   - shell: Local interactive prompt
//   - profile: Portfolio content with hot reload
//   - version: Build info and the cached portfolio version
//   - prefs: Theme preference stores
//   - config, logging, errors, watcher: Shared infrastructure
package internal
