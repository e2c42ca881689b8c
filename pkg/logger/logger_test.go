package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("WritesFormattedMessage", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info")

		log.Info("CreateSlots: created=%d skipped=%d", 5, 2)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "CreateSlots: created=5 skipped=2", entry["message"])
	})

	t.Run("FiltersBelowLevel", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "warn")

		log.Info("hidden")
		assert.Zero(t, buf.Len())

		log.Error("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "loud")

		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("WithAddsField", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info").With("component", "booking")

		log.Warn("slot full")
		assert.Contains(t, buf.String(), `"component":"booking"`)
	})
}

func TestNew_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := New(logPath, "debug")
	require.NoError(t, err)

	log.Info("hello %s", "file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("ignored")
	assert.NoError(t, log.Close())
}
