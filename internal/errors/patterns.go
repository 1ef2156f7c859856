package errors

import (
	"fmt"
)

// ConfigurationError creates configuration-related errors
func ConfigurationError(setting, message string, value interface{}) *TermError {
	return NewConfigError(
		"ERR_CONFIG_INVALID",
		fmt.Sprintf("invalid configuration for %s: %s", setting, message),
	).WithContext("setting", setting).WithContext("value", value)
}

// FileOperationError creates file operation errors
func FileOperationError(operation, filePath, message string, cause error) *TermError {
	code := fmt.Sprintf("ERR_FILE_%s", operation)
	return NewIOError(code, fmt.Sprintf("file %s failed for %s: %s", operation, filePath, message), cause).
		WithContext("file_path", filePath)
}

// NetworkError creates network-related errors
func NetworkError(operation, endpoint, message string, cause error) *TermError {
	code := fmt.Sprintf("ERR_NETWORK_%s", operation)
	return NewNetworkError(code, fmt.Sprintf("network %s failed for %s: %s", operation, endpoint, message), cause).
		WithContext("endpoint", endpoint)
}

// WebSocketError creates WebSocket-related errors
func WebSocketError(operation, sessionID, message string, cause error) *TermError {
	return NetworkError("WEBSOCKET_"+operation, sessionID, message, cause).
		WithContext("session_id", sessionID)
}

// ServerError creates server operation errors
func ServerError(operation, message string, cause error) *TermError {
	return NetworkError("SERVER_"+operation, "http", message, cause)
}

// ParseError creates errors for malformed documents (profiles, descriptors, preference files).
func ParseError(document, message string, cause error) *TermError {
	return &TermError{
		Type:        ErrorTypeValidation,
		Code:        "ERR_PARSE_" + document,
		Message:     fmt.Sprintf("parse %s: %s", document, message),
		Cause:       cause,
		Recoverable: true,
	}
}
