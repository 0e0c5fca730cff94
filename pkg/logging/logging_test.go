package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestForContextTagsSession(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := FromZap(zap.New(core))

	ctx := WithSessionID(context.Background(), "abc")
	l, ctx := base.ForContext(ctx)
	l.Info("hello")

	again, _ := base.ForContext(ctx)
	assert.Same(t, l, again)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["session_id"])
}

func TestForContextGeneratesSessionID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l, ctx := FromZap(zap.New(core)).ForContext(context.Background())
	l.Warn("x")

	id := SessionID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, logs.All()[0].ContextMap()["session_id"])
}
