package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "", "info")
	require.NoError(t, err)
	l.Info("progress", slog.Int("done", 10))
	// Not a terminal, so JSON.
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())

	buf.Reset()
	l, err = newLogger(&buf, "TEXT", "warn")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("inconsistent result", slog.Int("x", 1))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"inconsistent result\" x=1")
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)
	_, err = newLogger(&bytes.Buffer{}, "json", "loud")
	assert.Error(t, err)
}
