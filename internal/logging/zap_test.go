package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core)).With("store", "directory")
	ctx := context.Background()

	log.Debug(ctx, "dbg", "page", 2)
	log.Warn(ctx, "wrn", "id", 7)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dbg", entries[0].Message)
	assert.Equal(t, "directory", entries[0].ContextMap()["store"])
	assert.EqualValues(t, 2, entries[0].ContextMap()["page"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, 7, entries[1].ContextMap()["id"])
}

func TestBuildZapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	l, err := BuildZapLogger("chatty", false)
	require.NoError(t, err)
	require.NotNil(t, l)
}
