package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("RUNNER", "", &buf)
	require.NoError(t, err)

	l.Info("tick 1")
	assert.Contains(t, buf.String(), "[RUNNER]")
	assert.Contains(t, buf.String(), "[INFO]")
	assert.Contains(t, buf.String(), "tick 1")

	buf.Reset()
	l.SetDebug(false)
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.SetDebug(true)
	l.Debug("shown")
	assert.Contains(t, buf.String(), "[DEBUG]")

	buf.Reset()
	l.Error("boom")
	l.Warning("careful")
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "[WARNING]")
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := New("", "", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("APP", "", nil)
	assert.Error(t, err)
}
