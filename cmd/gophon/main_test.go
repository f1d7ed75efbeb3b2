package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	phon "github.com/rmera/gophon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "workflow_20240309_140507.log", logName(now))
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	console := new(bytes.Buffer)
	logger, name, done, err := newLogger(dir, console, false, time.Now())
	require.NoError(t, err)
	logger.Info("hello", zap.String("dir", dir))
	logger.Debug("hidden")
	done()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, console.String(), "INFO")
}

func TestSessionPostWithoutRecord(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("GOPHON_LOG_DIR", dir)

	out := new(bytes.Buffer)
	err = session(context.Background(), strings.NewReader("2\n"), out)
	assert.ErrorIs(t, err, phon.ErrMissingConfiguration)
	assert.Contains(t, out.String(), "Stage to run")
}
