package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwlog "github.com/pwsync/pwsync-go/pkg/log"
)

func TestEventLogDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Nil(t, eventLog(slog.LevelWarn, logger, nil))
}

func TestEventLogDebugWritesBothSinks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	path := filepath.Join(t.TempDir(), "run"+pwlog.FileExtension)
	fileLogger, err := pwlog.NewFileLogger(path)
	require.NoError(t, err)

	session := eventLog(slog.LevelDebug, logger, fileLogger)
	require.NotNil(t, session)
	session.Log(pwlog.Event{
		Layer:       pwlog.LayerNode,
		Category:    pwlog.CategoryState,
		ObjectID:    52,
		StateChange: &pwlog.StateChangeEvent{OldValue: "unbound", NewValue: "bound"},
	})
	require.NoError(t, fileLogger.Close())

	assert.Contains(t, buf.String(), "session="+session.ID())
	assert.Contains(t, buf.String(), "new=bound")

	r, err := pwlog.NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	events, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, session.ID(), events[0].SessionID)
	assert.Equal(t, uint32(52), events[0].ObjectID)
}

func TestEventLogCaptureOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	fileLogger, err := pwlog.NewFileLogger(filepath.Join(t.TempDir(), "run"+pwlog.FileExtension))
	require.NoError(t, err)
	defer fileLogger.Close()

	session := eventLog(slog.LevelInfo, logger, fileLogger)
	require.NotNil(t, session)
	session.Log(pwlog.Event{Layer: pwlog.LayerNode, Category: pwlog.CategoryState})
	assert.Empty(t, buf.String())
}
