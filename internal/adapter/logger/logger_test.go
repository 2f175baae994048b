package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("cafeteria", Options{Level: "debug", Output: &buf})
	require.NoError(t, err)

	l.Error("order_failed", "Failed to add line", "req-1", map[string]interface{}{"order_id": 7}, errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "cafeteria", entry["service"])
	assert.Equal(t, "order_failed", entry["action"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "Failed to add line", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, map[string]interface{}{"order_id": float64(7)}, entry["details"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("cafeteria", Options{Level: "info", Output: &buf})
	require.NoError(t, err)

	l.Debug("noise", "hidden", "", nil)
	assert.Zero(t, buf.Len())

	_, err = New("cafeteria", Options{Level: "loud"})
	assert.Error(t, err)
}
