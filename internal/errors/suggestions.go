package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// ServerStartError provides suggestions for server startup errors
func ServerStartError(err error, port int) []ErrorSuggestion {
	var suggestions []ErrorSuggestion

	errMsg := err.Error()
	if strings.Contains(errMsg, "address already in use") || strings.Contains(errMsg, "bind") {
		suggestions = append(suggestions,
			ErrorSuggestion{
				Title:       fmt.Sprintf("Port %d is already in use", port),
				Description: "Another process is listening on this port",
				Command:     fmt.Sprintf("lsof -i :%d", port),
			},
			ErrorSuggestion{
				Title:   "Use a different port",
				Command: fmt.Sprintf("termfolio serve --port %d", port+1),
			},
		)
	}

	if strings.Contains(errMsg, "permission denied") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Ports below 1024 need elevated privileges",
			Description: "Pick a port of 1024 or above",
			Example:     "termfolio serve --port 8080",
		})
	}

	return suggestions
}

// ConfigSuggestions provides suggestions for configuration errors
func ConfigSuggestions(configError string, configPath string) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Check the configuration file",
			Description: fmt.Sprintf("Review %s for typos and invalid values", configPath),
		},
	}

	if strings.Contains(configError, "theme") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:   "Valid themes are dark and light",
			Example: "terminal:\n       default_theme: dark",
		})
	}

	if strings.Contains(configError, "port") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:   "Ports must be between 0 and 65535",
			Example: "server:\n       port: 8080",
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	title := e.Title
	if e.OriginalError != nil {
		title += ": " + e.OriginalError.Error()
	}
	return FormatSuggestions(title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
