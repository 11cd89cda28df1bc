package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	var testCases = []struct {
		description string
		name        string
		expect      slog.Level
	}{
		{description: "debug", name: "debug", expect: slog.LevelDebug},
		{description: "warn", name: "WARN", expect: slog.LevelWarn},
		{description: "error", name: "Error", expect: slog.LevelError},
		{description: "unknown", name: "verbose", expect: slog.LevelInfo},
		{description: "empty", name: "", expect: slog.LevelInfo},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, Level(testCase.name), testCase.description)
	}
}

func TestNew(t *testing.T) {
	t.Setenv(DebugEnv, "")
	buffer := bytes.Buffer{}
	log := New(WARN, &buffer)
	log.Info("skipped")
	log.Warn("duplicate registration", "name", "HookerProxy_1")
	record := map[string]interface{}{}
	require.Nil(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.EqualValues(t, "duplicate registration", record["msg"])
	assert.EqualValues(t, "HookerProxy_1", record["name"])
	assert.Contains(t, record, "timestamp")

	t.Setenv(DebugEnv, "1")
	buffer.Reset()
	New(ERROR, &buffer).Debug("compiling")
	assert.Contains(t, buffer.String(), "compiling")

	Nop().Error("discarded")
}
