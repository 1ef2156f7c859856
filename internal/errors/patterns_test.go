package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileOperationError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := FileOperationError("WRITE", "/tmp/prefs.yaml", "cannot write preferences", cause)

	assert.Equal(t, ErrorTypeIO, err.Type)
	assert.Equal(t, "ERR_FILE_WRITE", err.Code)
	assert.Equal(t, "/tmp/prefs.yaml", err.Context["file_path"])
	assert.ErrorIs(t, err, cause)
}

func TestNetworkPatterns(t *testing.T) {
	ws := WebSocketError("UPGRADE", "abc", "upgrade failed", nil)
	assert.Equal(t, ErrorTypeNetwork, ws.Type)
	assert.Equal(t, "ERR_NETWORK_WEBSOCKET_UPGRADE", ws.Code)
	assert.Equal(t, "abc", ws.Context["session_id"])

	srv := ServerError("BIND", "cannot listen", fmt.Errorf("bind: address already in use"))
	assert.Equal(t, "ERR_NETWORK_SERVER_BIND", srv.Code)
	assert.True(t, HasErrorCode(srv, "ERR_NETWORK_SERVER_BIND"))
}

func TestParseError(t *testing.T) {
	err := ParseError("PROFILE", "missing name", nil)
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "ERR_PARSE_PROFILE", err.Code)
	assert.True(t, IsRecoverable(err))
	assert.Contains(t, err.Error(), "parse PROFILE: missing name")
}
